package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitquest-app/server/game/battle"
	"github.com/fitquest-app/server/game/character"
	"github.com/fitquest-app/server/game/quest"
)

// BattleHandler runs the ephemeral dice battles gating battle objectives.
type BattleHandler struct {
	battles *battle.Manager
	engine  *quest.Engine
	chars   *character.Service
	logger  *zap.Logger
}

func NewBattleHandler(battles *battle.Manager, engine *quest.Engine, chars *character.Service, logger *zap.Logger) *BattleHandler {
	return &BattleHandler{battles: battles, engine: engine, chars: chars, logger: logger}
}

type startBattleRequest struct {
	QuestID     string `json:"quest_id" binding:"required"`
	ObjectiveID string `json:"objective_id" binding:"required"`
}

// Start handles POST /api/battles. Starting replaces any encounter in
// flight, so an abandoned battle costs nothing but its progress.
func (h *BattleHandler) Start(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	var req startBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, found := h.engine.QuestByID(c.Request.Context(), char.ID, req.QuestID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
		return
	}
	obj, found := q.ObjectiveByID(req.ObjectiveID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "objective not found"})
		return
	}
	if obj.Enemy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "objective has no battle"})
		return
	}
	if obj.Completed {
		c.JSON(http.StatusConflict, gin.H{"error": "objective already completed"})
		return
	}

	enc, err := h.battles.Start(char.ID, req.QuestID, req.ObjectiveID, obj.Enemy, char.MaxHP, char.Strength, char.Spirit)
	if errors.Is(err, battle.ErrUnknownEnemy) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown enemy"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"encounter": enc})
}

// Current handles GET /api/battles/current.
func (h *BattleHandler) Current(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	enc, found := h.battles.Get(char.ID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active battle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"encounter": enc})
}

type battleActionRequest struct {
	Action string `json:"action" binding:"required,oneof=attack guard heal"`
}

// Act handles POST /api/battles/current/actions. Victory completes the
// gated objective; defeat just discards the encounter, retry is free.
func (h *BattleHandler) Act(c *gin.Context) {
	char, ok := requireCharacter(c, h.chars)
	if !ok {
		return
	}
	var req battleActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enc, turn, err := h.battles.Act(char.ID, req.Action)
	switch {
	case errors.Is(err, battle.ErrNoEncounter):
		c.JSON(http.StatusNotFound, gin.H{"error": "no active battle"})
		return
	case errors.Is(err, battle.ErrEncounterOver):
		c.JSON(http.StatusConflict, gin.H{"error": "battle already resolved"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if enc.State == battle.StateVictory {
		if _, err := h.engine.CompleteObjective(c.Request.Context(), char.ID, enc.QuestID, enc.ObjectiveID); err != nil {
			h.logger.Warn("victory objective completion failed",
				zap.Int64("char_id", char.ID),
				zap.String("quest_id", enc.QuestID),
				zap.String("objective_id", enc.ObjectiveID),
				zap.Error(err))
		}
	}
	if enc.State != battle.StateActive {
		h.battles.End(char.ID)
	}

	c.JSON(http.StatusOK, gin.H{"encounter": enc, "turn": turn})
}
