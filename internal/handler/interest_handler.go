package handler

import (
	"errors"
	"net/http"
	"time"

	"vivah/backend/internal/auth"
	"vivah/backend/internal/database"
	"vivah/backend/internal/hub"
	"vivah/backend/internal/models"
	"vivah/backend/internal/service/interest"
	"vivah/backend/internal/service/match"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

// SendInterestInput targets a profile by UID with an optional message.
type SendInterestInput struct {
	ProfileUID string `json:"profile_uid" binding:"required"`
	Message    string `json:"message"`
}

// InterestPartyResponse is the compact card of the other side of an interest.
type InterestPartyResponse struct {
	ProfileUID uuid.UUID `json:"profile_uid"`
	Identity   string    `json:"identity"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url"`
	City       string    `json:"city"`
	Age        int       `json:"age"`
}

// InterestResponse is one interest ledger entry.
type InterestResponse struct {
	UID       uuid.UUID             `json:"uid"`
	Status    models.InterestStatus `json:"status"`
	Message   string                `json:"message,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	Party     InterestPartyResponse `json:"party"`
}

// InterestListResponse groups the ledger by direction.
type InterestListResponse struct {
	Incoming []InterestResponse `json:"incoming"`
	Outgoing []InterestResponse `json:"outgoing"`
}

// endregion

// SendInterest godoc
// @Summary      Send an interest
// @Description  Records an interest towards a profile. Non-premium senders are limited per day; a pair can only ever hold one interest.
// @Tags         interests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendInterestInput true "Target profile and message"
// @Success      201  {object}  InterestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Quota exceeded or preconditions unmet"
// @Failure      404  {object}  ErrorResponse "Profile not found"
// @Failure      409  {object}  ErrorResponse "Interest already sent"
// @Failure      500  {object}  ErrorResponse
// @Router       /interests [post]
func SendInterest(c *gin.Context) {
	account := auth.CurrentAccount(c)
	profile := auth.CurrentProfile(c)

	var input SendInterestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targetUID, err := uuid.Parse(input.ProfileUID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile UID"})
		return
	}

	var receiver models.Profile
	err = database.DB.
		Preload("Account").
		Joins("JOIN accounts ON accounts.id = profiles.account_id AND accounts.deleted_at IS NULL").
		Where("profiles.uid = ? AND accounts.is_verified = ?", targetUID, true).
		First(&receiver).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	sent, err := deps.Interest.Send(account, profile, &receiver, input.Message)
	if err != nil {
		respondInterestError(c, err)
		return
	}

	deps.Hub.Publish(receiver.AccountID, hub.Event{
		Type: "interest",
		Payload: gin.H{
			"interest_uid": sent.UID,
			"from":         account.FullName(),
		},
	})

	c.JSON(http.StatusCreated, InterestResponse{
		UID:       sent.UID,
		Status:    sent.Status,
		Message:   sent.Message,
		CreatedAt: sent.CreatedAt,
		Party:     interestParty(&receiver, &receiver.Account),
	})
}

// AcceptInterest godoc
// @Summary      Accept an incoming interest
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Interest UID"
// @Success      200  {object}  map[string]string "{"message": "Interest accepted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Interest not found"
// @Failure      409  {object}  ErrorResponse "Already resolved"
// @Router       /interests/{uid}/accept [post]
func AcceptInterest(c *gin.Context) {
	resolveInterest(c, models.InterestAccepted)
}

// RejectInterest godoc
// @Summary      Reject an incoming interest
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Interest UID"
// @Success      200  {object}  map[string]string "{"message": "Interest rejected"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Interest not found"
// @Failure      409  {object}  ErrorResponse "Already resolved"
// @Router       /interests/{uid}/reject [post]
func RejectInterest(c *gin.Context) {
	resolveInterest(c, models.InterestRejected)
}

func resolveInterest(c *gin.Context, decision models.InterestStatus) {
	account := auth.CurrentAccount(c)

	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest UID"})
		return
	}

	resolved, err := deps.Interest.Resolve(account, uid, decision)
	if err != nil {
		respondInterestError(c, err)
		return
	}

	if decision == models.InterestAccepted {
		deps.Hub.Publish(resolved.SenderID, hub.Event{
			Type: "interest",
			Payload: gin.H{
				"interest_uid": resolved.UID,
				"accepted_by":  account.FullName(),
			},
		})
		c.JSON(http.StatusOK, gin.H{"message": "Interest accepted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Interest rejected"})
}

// ListInterests godoc
// @Summary      List interests
// @Description  Returns the caller's incoming and outgoing interests, newest first.
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  InterestListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /interests [get]
func ListInterests(c *gin.Context) {
	account := auth.CurrentAccount(c)
	profile := auth.CurrentProfile(c)

	incoming, err := deps.Interest.Incoming(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load interests"})
		return
	}
	outgoing, err := deps.Interest.Outgoing(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load interests"})
		return
	}

	resp := InterestListResponse{
		Incoming: make([]InterestResponse, 0, len(incoming)),
		Outgoing: make([]InterestResponse, 0, len(outgoing)),
	}
	for idx := range incoming {
		i := &incoming[idx]
		var party InterestPartyResponse
		if i.Sender.Profile != nil {
			party = interestParty(i.Sender.Profile, &i.Sender)
		} else {
			party = InterestPartyResponse{Name: i.Sender.FullName()}
		}
		resp.Incoming = append(resp.Incoming, InterestResponse{
			UID:       i.UID,
			Status:    i.Status,
			Message:   i.Message,
			CreatedAt: i.CreatedAt,
			Party:     party,
		})
	}
	for idx := range outgoing {
		i := &outgoing[idx]
		resp.Outgoing = append(resp.Outgoing, InterestResponse{
			UID:       i.UID,
			Status:    i.Status,
			Message:   i.Message,
			CreatedAt: i.CreatedAt,
			Party:     interestParty(&i.ReceiverProfile, &i.ReceiverProfile.Account),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func interestParty(p *models.Profile, account *models.Account) InterestPartyResponse {
	return InterestPartyResponse{
		ProfileUID: p.UID,
		Identity:   p.Identity,
		Name:       account.FullName(),
		ImageURL:   p.ImageURL,
		City:       p.City,
		Age:        p.Age(time.Now()),
	}
}

// respondInterestError maps the ledger sentinels to HTTP responses.
func respondInterestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interest.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already sent an interest to this profile"})
	case errors.Is(err, interest.ErrQuotaExceeded):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You have used up today's free interests. Upgrade to premium for unlimited interests.",
			"code":  "quota_exceeded",
		})
	case errors.Is(err, interest.ErrSelfInterest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot send an interest to your own profile"})
	case errors.Is(err, interest.ErrResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "This interest has already been resolved"})
	case errors.Is(err, interest.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
	case errors.Is(err, interest.ErrInvalidDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid decision"})
	case errors.Is(err, match.ErrProfileIncomplete), errors.Is(err, match.ErrAccountUnverified):
		respondMatchError(c, err)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process interest"})
	}
}
