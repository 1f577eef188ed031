package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitquest-app/server/game/character"
	mw "github.com/fitquest-app/server/middleware"
)

// CharacterHandler handles character REST endpoints.
type CharacterHandler struct {
	chars *character.Service
}

func NewCharacterHandler(chars *character.Service) *CharacterHandler {
	return &CharacterHandler{chars: chars}
}

type createCharacterRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=32"`
	Class string `json:"class" binding:"required"`
}

// Classes handles GET /api/character/classes.
func (h *CharacterHandler) Classes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"classes": character.Classes()})
}

// Get handles GET /api/character.
func (h *CharacterHandler) Get(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	char, err := h.chars.ByAccount(c.Request.Context(), accountID)
	if errors.Is(err, character.ErrNoCharacter) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no character yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"character": char})
}

// Create handles POST /api/character.
func (h *CharacterHandler) Create(c *gin.Context) {
	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID := mw.GetAccountID(c)
	char, err := h.chars.Create(c.Request.Context(), accountID, req.Name, req.Class)
	switch {
	case errors.Is(err, character.ErrUnknownClass):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown class"})
	case errors.Is(err, character.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "account already has a character"})
	case errors.Is(err, character.ErrNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "character name taken"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusCreated, gin.H{"character": char})
	}
}
