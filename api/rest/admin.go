package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitquest-app/server/audit"
	"github.com/fitquest-app/server/game/quest"
	mw "github.com/fitquest-app/server/middleware"
	"github.com/fitquest-app/server/model"
	"github.com/fitquest-app/server/scheduler"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by AdminAuth middleware.
type AdminHandler struct {
	db     *gorm.DB
	engine *quest.Engine
	sched  *scheduler.Scheduler
	audit  *audit.Service
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, engine *quest.Engine, sched *scheduler.Scheduler, auditSvc *audit.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, engine: engine, sched: sched, audit: auditSvc, logger: logger}
}

// ListPlayers returns all characters with their account status.
// GET /api/admin/players
func (h *AdminHandler) ListPlayers(c *gin.Context) {
	type playerInfo struct {
		CharID    int64  `json:"char_id"`
		CharName  string `json:"char_name"`
		AccountID int64  `json:"account_id"`
		Username  string `json:"username"`
		Status    int    `json:"status"`
		Level     int    `json:"level"`
		Exp       int64  `json:"exp"`
	}
	var result []playerInfo
	err := h.db.Model(&model.Character{}).
		Select("characters.id AS char_id, characters.name AS char_name, accounts.id AS account_id, accounts.username, accounts.status, characters.level, characters.exp").
		Joins("JOIN accounts ON accounts.id = characters.account_id").
		Order("characters.exp DESC").
		Scan(&result).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": result, "count": len(result)})
}

// BanAccount bans or unbans a player account.
// POST /api/admin/accounts/:id/ban
func (h *AdminHandler) BanAccount(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Ban bool `json:"ban"`
	}
	_ = c.ShouldBindJSON(&req)

	status := model.AccountActive
	if req.Ban {
		status = model.AccountBanned
	}
	result := h.db.Model(&model.Account{}).Where("id = ?", accountID).Update("status", status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	// Drop the banned character's in-memory quest overlay.
	if req.Ban {
		var char model.Character
		if h.db.Where("account_id = ?", accountID).First(&char).Error == nil {
			h.engine.Reset(char.ID)
		}
	}

	if h.audit != nil {
		h.audit.Log(audit.Entry{
			TraceID:   mw.GetTraceID(c),
			AccountID: &accountID,
			Action:    "admin.ban",
			Detail:    gin.H{"ban": req.Ban},
			IP:        c.ClientIP(),
		})
	}
	h.logger.Info("admin updated account status",
		zap.Int64("account_id", accountID),
		zap.Int("status", status))
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
}

// ListSchedulerTasks returns names of all registered ticker tasks.
// GET /api/admin/scheduler
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.ListTickers()})
}

// AdminAuth returns a middleware that checks the X-Admin-Key header.
// WARNING: if adminKey is empty all admin endpoints are disabled (503) so the
// server cannot be accidentally deployed without protection. Set a non-empty
// server.admin_key in config to enable admin routes.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "admin endpoints disabled: set server.admin_key in config"})
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if key != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
