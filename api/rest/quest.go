package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitquest-app/server/game/character"
	"github.com/fitquest-app/server/game/quest"
	mw "github.com/fitquest-app/server/middleware"
	"github.com/fitquest-app/server/model"
)

// QuestHandler handles quest REST endpoints.
type QuestHandler struct {
	engine *quest.Engine
	chars  *character.Service
}

func NewQuestHandler(engine *quest.Engine, chars *character.Service) *QuestHandler {
	return &QuestHandler{engine: engine, chars: chars}
}

// requireCharacter resolves the authenticated account's character or
// writes the error response itself.
func requireCharacter(c *gin.Context, chars *character.Service) (*model.Character, bool) {
	accountID := mw.GetAccountID(c)
	char, err := chars.ByAccount(c.Request.Context(), accountID)
	if errors.Is(err, character.ErrNoCharacter) {
		c.JSON(http.StatusNotFound, gin.H{"error": "create a character first"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return char, true
}

type questView struct {
	quest.Quest
	Percent int `json:"percent"`
}

func toView(q quest.Quest) questView {
	return questView{Quest: q, Percent: q.Percent()}
}

// List handles GET /api/quests.
func (h *QuestHandler) List(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	qs := h.engine.Quests(c.Request.Context(), char.ID)
	views := make([]questView, len(qs))
	for i, q := range qs {
		views[i] = toView(q)
	}
	c.JSON(http.StatusOK, gin.H{"quests": views})
}

// Get handles GET /api/quests/:id. An unknown quest is a plain JSON 404,
// never a panic.
func (h *QuestHandler) Get(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	q, found := h.engine.QuestByID(c.Request.Context(), char.ID, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quest": toView(q)})
}

// CompleteObjective handles POST /api/quests/:id/objectives/:oid/complete.
func (h *QuestHandler) CompleteObjective(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	q, err := h.engine.CompleteObjective(c.Request.Context(), char.ID, c.Param("id"), c.Param("oid"))
	if err != nil {
		writeQuestError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quest": toView(q)})
}

type progressRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Progress handles POST /api/quests/:id/objectives/:oid/progress.
func (h *QuestHandler) Progress(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.engine.TrackProgress(c.Request.Context(), char.ID, c.Param("id"), c.Param("oid"), req.Delta)
	if err != nil {
		writeQuestError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quest": toView(q)})
}

func writeQuestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quest.ErrQuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
	case errors.Is(err, quest.ErrObjectiveNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "objective not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
