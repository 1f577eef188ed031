package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apirest "github.com/fitquest-app/server/api/rest"
	"github.com/fitquest-app/server/audit"
	"github.com/fitquest-app/server/cache"
	"github.com/fitquest-app/server/config"
	dbadapter "github.com/fitquest-app/server/db"
	"github.com/fitquest-app/server/game/activity"
	"github.com/fitquest-app/server/game/battle"
	"github.com/fitquest-app/server/game/character"
	"github.com/fitquest-app/server/game/conversation"
	"github.com/fitquest-app/server/game/quest"
	mw "github.com/fitquest-app/server/middleware"
	"github.com/fitquest-app/server/model"
	"github.com/fitquest-app/server/scheduler"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(nil)

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- Game Systems ----
	engine := quest.NewEngine(db, quest.Default(), logger)
	defer engine.Flush()
	chars := character.NewService(db, c, logger)
	convs := conversation.NewService(engine)
	activities := activity.NewService(db, engine, chars, cfg.Game, logger)
	battles := battle.NewManager(logger, nil)

	// Quest completion pays out the quest's XP reward and leaves an audit trail.
	engine.SetQuestCompletedFunc(func(charID int64, def quest.QuestDef) {
		if def.XPReward > 0 {
			if _, err := chars.GrantXP(context.Background(), charID, int64(def.XPReward)); err != nil {
				logger.Warn("quest reward grant failed",
					zap.Int64("char_id", charID),
					zap.String("quest_id", def.ID),
					zap.Error(err))
			}
		}
		auditSvc.Log(audit.Entry{
			CharID: &charID,
			Action: "quest.completed",
			Detail: gin.H{"quest_id": def.ID, "xp_reward": def.XPReward},
		})
	})
	engine.SetObjectiveCompletedFunc(func(charID int64, questID, objectiveID string) {
		logger.Info("objective completed",
			zap.Int64("char_id", charID),
			zap.String("quest_id", questID),
			zap.String("objective_id", objectiveID))
	})
	engine.SetWriteErrorFunc(func(charID int64, op string, err error) {
		logger.Error("quest write failed",
			zap.Int64("char_id", charID),
			zap.String("op", op),
			zap.Error(err))
		auditSvc.Log(audit.Entry{
			CharID: &charID,
			Action: "quest.write_failed",
			Detail: gin.H{"op": op},
			Error:  err.Error(),
		})
	})

	// ---- REST handlers ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security, chars, engine, auditSvc)
	charH := apirest.NewCharacterHandler(chars)
	questH := apirest.NewQuestHandler(engine, chars)
	convH := apirest.NewConversationHandler(convs, chars)
	battleH := apirest.NewBattleHandler(battles, engine, chars, logger)
	actH := apirest.NewActivityHandler(activities, chars)
	rankH := apirest.NewRankingHandler(db, c, logger)
	adminH := apirest.NewAdminHandler(db, engine, sched, auditSvc, logger)

	// ---- Periodic Scheduler Tasks ----
	sched.AddTicker("leaderboard_refresh", time.Duration(cfg.Game.LeaderboardRefreshS)*time.Second, func() {
		if n, err := rankH.Refresh(context.Background()); err != nil {
			logger.Warn("leaderboard refresh failed", zap.Error(err))
		} else {
			logger.Debug("leaderboard refreshed", zap.Int("entries", n))
		}
	})
	sched.AddTicker("quest_state_sweep", time.Duration(cfg.Game.StateSweepS)*time.Second, func() {
		n := engine.Sweep()
		logger.Debug("quest state sweep", zap.Int("evicted", n))
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(cfg.Security, c), authH.Refresh)

		authed := api.Group("")
		authed.Use(mw.Auth(cfg.Security, c))

		authed.GET("/character", charH.Get)
		authed.POST("/character", charH.Create)
		authed.GET("/character/classes", charH.Classes)

		authed.GET("/quests", questH.List)
		authed.GET("/quests/:id", questH.Get)
		authed.POST("/quests/:id/objectives/:oid/complete", questH.CompleteObjective)
		authed.POST("/quests/:id/objectives/:oid/progress", questH.Progress)
		authed.GET("/quests/:id/conversations/:oid", convH.Get)
		authed.POST("/quests/:id/conversations/:oid/complete", convH.Complete)

		authed.POST("/battles", battleH.Start)
		authed.GET("/battles/current", battleH.Current)
		authed.POST("/battles/current/actions", battleH.Act)

		authed.POST("/activity", actH.Log)
		authed.GET("/activity", actH.History)

		rankG := api.Group("/ranking")
		rankG.GET("/exp", rankH.TopExp)

		adminG := api.Group("/admin")
		adminG.Use(mw.IPWhitelist(cfg.Security.AdminAllowedIPs))
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.GET("/players", adminH.ListPlayers)
		adminG.POST("/accounts/:id/ban", adminH.BanAccount)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
		adminG.POST("/ranking/refresh", rankH.RefreshRanking)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
