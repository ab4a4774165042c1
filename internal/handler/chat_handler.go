package handler

import (
	"errors"
	"net/http"
	"time"

	"vivah/backend/internal/auth"
	"vivah/backend/internal/database"
	"vivah/backend/internal/hub"
	"vivah/backend/internal/models"
	"vivah/backend/internal/service/chat"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

// CorrespondentResponse identifies the other side of a conversation.
type CorrespondentResponse struct {
	AccountUID uuid.UUID `json:"account_uid"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`
}

// ConversationResponse is one row of the conversation list.
type ConversationResponse struct {
	Correspondent   CorrespondentResponse `json:"correspondent"`
	LastMessage     string                `json:"last_message"`
	LastMessageTime time.Time             `json:"last_message_time"`
	UnseenCount     int                   `json:"unseen_count"`
	HasUnread       bool                  `json:"has_unread"`
}

// ChatMessageResponse is one message of an open conversation.
type ChatMessageResponse struct {
	UID       uuid.UUID `json:"uid"`
	Mine      bool      `json:"mine"`
	Body      string    `json:"body"`
	Seen      bool      `json:"seen"`
	Timestamp time.Time `json:"timestamp"`
}

// SendMessageInput carries one outbound message body.
type SendMessageInput struct {
	Message string `json:"message" binding:"required"`
}

// UnseenCountResponse is one row of the navbar badge summary.
type UnseenCountResponse struct {
	Correspondent CorrespondentResponse `json:"correspondent"`
	Total         int                   `json:"total"`
}

// endregion

func correspondentResponse(account *models.Account) CorrespondentResponse {
	resp := CorrespondentResponse{
		AccountUID: account.UID,
		Name:       account.FullName(),
	}
	if account.Profile != nil {
		resp.ImageURL = account.Profile.ImageURL
	}
	return resp
}

// accountByUID resolves a conversation partner from their public UID.
func accountByUID(c *gin.Context) (*models.Account, bool) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account UID"})
		return nil, false
	}

	var account models.Account
	err = database.DB.Preload("Profile").Where("uid = ?", uid).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return nil, false
	}
	return &account, true
}

// ListConversations godoc
// @Summary      List conversations
// @Description  Returns one row per correspondent with the last message and unseen count. Conversations with unread messages come first.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ConversationResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats [get]
func ListConversations(c *gin.Context) {
	account := auth.CurrentAccount(c)

	summaries, err := deps.Chat.ListConversations(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversations"})
		return
	}

	resp := make([]ConversationResponse, 0, len(summaries))
	for idx := range summaries {
		s := &summaries[idx]
		resp = append(resp, ConversationResponse{
			Correspondent:   correspondentResponse(&s.Correspondent),
			LastMessage:     s.LastMessage,
			LastMessageTime: s.LastMessageTime,
			UnseenCount:     s.UnseenCount,
			HasUnread:       s.HasUnread,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// OpenConversation godoc
// @Summary      Open a conversation
// @Description  Returns the full conversation with one correspondent, oldest first, and marks their messages as seen.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Correspondent account UID"
// @Success      200  {array}   ChatMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/{uid} [get]
func OpenConversation(c *gin.Context) {
	account := auth.CurrentAccount(c)
	correspondent, ok := accountByUID(c)
	if !ok {
		return
	}

	messages, err := deps.Chat.Open(account.ID, correspondent.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}

	resp := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, ChatMessageResponse{
			UID:       m.UID,
			Mine:      m.SenderID == account.ID,
			Body:      m.Body,
			Seen:      m.Seen,
			Timestamp: m.Timestamp,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Appends one message to the conversation with the correspondent. Blank bodies are rejected.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uid   path  string            true  "Correspondent account UID"
// @Param        input body  SendMessageInput  true  "Message body"
// @Success      201  {object}  ChatMessageResponse
// @Failure      400  {object}  ErrorResponse "Blank message"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/{uid} [post]
func SendMessage(c *gin.Context) {
	account := auth.CurrentAccount(c)
	correspondent, ok := accountByUID(c)
	if !ok {
		return
	}

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := deps.Chat.SendMessage(account.ID, correspondent.ID, input.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message body cannot be empty"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	deps.Hub.Publish(correspondent.ID, hub.Event{
		Type: "message",
		Payload: gin.H{
			"from": account.UID,
			"body": message.Body,
		},
	})

	c.JSON(http.StatusCreated, ChatMessageResponse{
		UID:       message.UID,
		Mine:      true,
		Body:      message.Body,
		Seen:      message.Seen,
		Timestamp: message.Timestamp,
	})
}

// UnseenSummary godoc
// @Summary      Unseen message summary
// @Description  Returns per-sender unseen totals, largest first, for the navbar badge.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UnseenCountResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/unseen [get]
func UnseenSummary(c *gin.Context) {
	account := auth.CurrentAccount(c)

	counts, err := deps.Chat.UnseenSummary(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load unseen summary"})
		return
	}

	resp := make([]UnseenCountResponse, 0, len(counts))
	for idx := range counts {
		sc := &counts[idx]
		resp = append(resp, UnseenCountResponse{
			Correspondent: correspondentResponse(&sc.Correspondent),
			Total:         sc.Total,
		})
	}
	c.JSON(http.StatusOK, resp)
}
