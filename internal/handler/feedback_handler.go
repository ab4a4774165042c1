package handler

import (
	"net/http"
	"strings"

	"vivah/backend/internal/database"
	"vivah/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// FeedbackInput is one platform feedback submission.
type FeedbackInput struct {
	Type    string `json:"type" binding:"omitempty,oneof=general profile_issue success_story other"`
	Message string `json:"message" binding:"required"`
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Stores a feedback entry. When the caller is authenticated the entry is linked to their account.
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        input body FeedbackInput true "Feedback"
// @Success      201  {object}  map[string]string "{"message": "Thank you for your feedback"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /feedback [post]
func SubmitFeedback(c *gin.Context) {
	var input FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback message cannot be empty"})
		return
	}

	feedback := models.Feedback{
		Type:    models.FeedbackType(input.Type),
		Message: input.Message,
		Rating:  input.Rating,
	}
	if feedback.Type == "" {
		feedback.Type = models.FeedbackGeneral
	}
	if accountID, exists := c.Get("accountID"); exists {
		id := accountID.(uint)
		feedback.AccountID = &id
	}

	if err := database.DB.Create(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thank you for your feedback"})
}
