package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitquest-app/server/game/character"
	"github.com/fitquest-app/server/game/conversation"
)

// ConversationHandler serves scripted dialogs and their completion.
type ConversationHandler struct {
	convs *conversation.Service
	chars *character.Service
}

func NewConversationHandler(convs *conversation.Service, chars *character.Service) *ConversationHandler {
	return &ConversationHandler{convs: convs, chars: chars}
}

// Get handles GET /api/quests/:id/conversations/:oid.
func (h *ConversationHandler) Get(c *gin.Context) {
	lines, err := h.convs.Lines(c.Param("id"), c.Param("oid"))
	if errors.Is(err, conversation.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// Complete handles POST /api/quests/:id/conversations/:oid/complete.
func (h *ConversationHandler) Complete(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	q, err := h.convs.Complete(c.Request.Context(), char.ID, c.Param("id"), c.Param("oid"))
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, conversation.ErrNotConversation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "objective is not a conversation"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{"quest": toView(q)})
	}
}
