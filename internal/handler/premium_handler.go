package handler

import (
	"errors"
	"net/http"
	"time"

	"vivah/backend/internal/auth"
	"vivah/backend/internal/models"
	"vivah/backend/internal/service/premium"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// SubscribeInput starts a premium payment with a card token from the client.
type SubscribeInput struct {
	Amount    int64  `json:"amount" binding:"required,gt=0" example:"49900"`
	Mobile    string `json:"mobile" binding:"required" example:"9800000000"`
	CardToken string `json:"card_token" binding:"required" example:"tok_visa"`
}

// SubscriptionResponse is one premium payment attempt.
type SubscriptionResponse struct {
	UID           uuid.UUID            `json:"uid"`
	IsPremium     bool                 `json:"is_premium"`
	Amount        int64                `json:"amount"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	TransactionID string               `json:"transaction_id,omitempty"`
	ExpiryDate    *time.Time           `json:"expiry_date,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// PremiumStatusResponse is the active subscription plus payment history.
type PremiumStatusResponse struct {
	Active  *SubscriptionResponse  `json:"active"`
	History []SubscriptionResponse `json:"history"`
}

// endregion

func subscriptionResponse(s *models.PremiumSubscription) SubscriptionResponse {
	return SubscriptionResponse{
		UID:           s.UID,
		IsPremium:     s.IsPremium,
		Amount:        s.Amount,
		PaymentStatus: s.PaymentStatus,
		TransactionID: s.TransactionID,
		ExpiryDate:    s.ExpiryDate,
		CreatedAt:     s.CreatedAt,
	}
}

// Subscribe godoc
// @Summary      Buy a premium subscription
// @Description  Charges the card token and activates premium for the configured duration. A failed charge is recorded and returned with 402.
// @Tags         premium
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SubscribeInput true "Payment details"
// @Success      201  {object}  SubscriptionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      402  {object}  ErrorResponse "Payment failed"
// @Failure      409  {object}  ErrorResponse "Already premium"
// @Failure      500  {object}  ErrorResponse
// @Router       /premium [post]
func Subscribe(c *gin.Context) {
	account := auth.CurrentAccount(c)

	var input SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := deps.Premium.Subscribe(account, input.Amount, input.Mobile, input.CardToken)
	if errors.Is(err, premium.ErrAlreadyActive) {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an active premium subscription"})
		return
	}
	if errors.Is(err, premium.ErrPaymentFailed) {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment failed. Please try another card."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process subscription"})
		return
	}

	c.JSON(http.StatusCreated, subscriptionResponse(sub))
}

// GetPremium godoc
// @Summary      Premium status and payment history
// @Tags         premium
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PremiumStatusResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /premium [get]
func GetPremium(c *gin.Context) {
	account := auth.CurrentAccount(c)

	active, err := deps.Premium.Active(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}
	history, err := deps.Premium.History(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment history"})
		return
	}

	resp := PremiumStatusResponse{History: make([]SubscriptionResponse, 0, len(history))}
	if active != nil {
		r := subscriptionResponse(active)
		resp.Active = &r
	}
	for idx := range history {
		resp.History = append(resp.History, subscriptionResponse(&history[idx]))
	}
	c.JSON(http.StatusOK, resp)
}
