package handler

import (
	"net/http"
	"strconv"

	"vivah/backend/internal/auth"
	"vivah/backend/internal/service/match"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CandidateResponse is one profile card in the candidate listing, with the
// viewer's standing towards it.
type CandidateResponse struct {
	ProfileResponse
	InterestSent bool `json:"interest_sent"`
}

// CandidateListResponse carries one page of candidates plus the viewer's
// quota standing for the day.
type CandidateListResponse struct {
	Data      []CandidateResponse `json:"data"`
	Meta      PaginationMeta      `json:"meta"`
	SentToday int64               `json:"sent_today"`
	IsPremium bool                `json:"is_premium"`
}

// endregion

// ListCandidates godoc
// @Summary      Browse candidate profiles
// @Description  Returns one page of eligible profiles for the viewer. Filters are conjunctive; age bounds apply to the date of birth. Each card is annotated with whether the viewer already sent an interest.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        min_age  query  int     false  "Minimum age"
// @Param        max_age  query  int     false  "Maximum age"
// @Param        caste    query  string  false  "Caste contains"
// @Param        country  query  string  false  "Country contains"
// @Param        state    query  string  false  "State contains"
// @Param        city     query  string  false  "City contains"
// @Param        page     query  int     false  "Page number"
// @Success      200  {object}  CandidateListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Profile incomplete or account unverified"
// @Failure      500  {object}  ErrorResponse
// @Router       /matches [get]
func ListCandidates(c *gin.Context) {
	account := auth.CurrentAccount(c)
	profile := auth.CurrentProfile(c)

	filters := match.Filters{
		MinAge:  queryInt(c, "min_age"),
		MaxAge:  queryInt(c, "max_age"),
		Caste:   c.Query("caste"),
		Country: c.Query("country"),
		State:   c.Query("state"),
		City:    c.Query("city"),
		Page:    queryInt(c, "page"),
	}
	if filters.Page < 1 {
		filters.Page = 1
	}

	profiles, total, err := deps.Match.FindCandidates(account, profile, filters)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	sentIDs, err := deps.Interest.SentProfileIDs(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sent interests"})
		return
	}
	sent := make(map[uint]bool, len(sentIDs))
	for _, id := range sentIDs {
		sent[id] = true
	}

	sentToday, err := deps.Interest.CountSentToday(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count interests"})
		return
	}
	isPremium, err := deps.Interest.HasActivePremium(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check premium"})
		return
	}

	candidates := make([]CandidateResponse, 0, len(profiles))
	for idx := range profiles {
		p := &profiles[idx]
		candidates = append(candidates, CandidateResponse{
			ProfileResponse: buildProfileResponse(p, &p.Account, false),
			InterestSent:    sent[p.ID],
		})
	}

	paginated := NewPaginatedResponse(candidates, total, filters.Page, deps.Match.PageSize())
	c.JSON(http.StatusOK, CandidateListResponse{
		Data:      paginated.Data,
		Meta:      paginated.Meta,
		SentToday: sentToday,
		IsPremium: isPremium,
	})
}

// respondMatchError maps the viewer precondition failures.
func respondMatchError(c *gin.Context, err error) {
	switch err {
	case match.ErrProfileIncomplete:
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You must complete your profile first.",
			"code":  "profile_incomplete",
		})
	case match.ErrAccountUnverified:
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Your profile is under verification. Please wait for admin approval.",
			"code":  "account_unverified",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load candidates"})
	}
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
