package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitquest-app/server/game/activity"
	"github.com/fitquest-app/server/game/character"
)

// ActivityHandler logs exercise and serves session history.
type ActivityHandler struct {
	activities *activity.Service
	chars      *character.Service
}

func NewActivityHandler(activities *activity.Service, chars *character.Service) *ActivityHandler {
	return &ActivityHandler{activities: activities, chars: chars}
}

type logActivityRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Amount int    `json:"amount" binding:"required,gt=0"`
	Note   string `json:"note" binding:"max=256"`
}

// Log handles POST /api/activity.
func (h *ActivityHandler) Log(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	var req logActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sum, err := h.activities.Log(c.Request.Context(), char.ID, req.Kind, req.Amount, req.Note)
	if errors.Is(err, activity.ErrInvalidKind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity kind"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"summary": sum})
}

// History handles GET /api/activity?limit=20.
func (h *ActivityHandler) History(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.activities.History(c.Request.Context(), char.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": rows})
}
