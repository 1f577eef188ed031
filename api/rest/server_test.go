package rest_test

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitquest-app/server/api/rest"
	"github.com/fitquest-app/server/cache"
	"github.com/fitquest-app/server/config"
	"github.com/fitquest-app/server/game/activity"
	"github.com/fitquest-app/server/game/battle"
	"github.com/fitquest-app/server/game/character"
	"github.com/fitquest-app/server/game/conversation"
	"github.com/fitquest-app/server/game/quest"
	mw "github.com/fitquest-app/server/middleware"
	"github.com/fitquest-app/server/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer bundles the wired router with the pieces tests poke at directly.
type testServer struct {
	router  *gin.Engine
	db      *gorm.DB
	cache   cache.Cache
	engine  *quest.Engine
	battles *battle.Manager
	chars   *character.Service
}

// newTestServer wires the full API the way main does, with a seeded RNG
// so battle outcomes are reproducible.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: 72 * time.Hour}
	rates := config.GameConfig{
		WalkXPPer100M:    2,
		StrengthXPPerRep: 1,
		CardioXPPerMin:   3,
		StretchXPPerMin:  2,
		OtherXPPerMin:    1,
	}

	engine := quest.NewEngine(db, quest.Default(), logger)
	chars := character.NewService(db, c, logger)
	convs := conversation.NewService(engine)
	activities := activity.NewService(db, engine, chars, rates, logger)
	battles := battle.NewManager(logger, rand.New(rand.NewSource(1)))

	authH := rest.NewAuthHandler(db, c, sec, chars, engine, nil)
	charH := rest.NewCharacterHandler(chars)
	questH := rest.NewQuestHandler(engine, chars)
	convH := rest.NewConversationHandler(convs, chars)
	battleH := rest.NewBattleHandler(battles, engine, chars, logger)
	actH := rest.NewActivityHandler(activities, chars)
	rankH := rest.NewRankingHandler(db, c, logger)

	r := gin.New()
	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(sec, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(sec, c), authH.Refresh)

		authed := api.Group("")
		authed.Use(mw.Auth(sec, c))
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

		api.GET("/ranking/exp", rankH.TopExp)
	}

	return &testServer{router: r, db: db, cache: c, engine: engine, battles: battles, chars: chars}
}

func postJSON(r *gin.Engine, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(r *gin.Engine, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// loginAndGetToken auto-registers the user and returns a Bearer token.
func loginAndGetToken(t *testing.T, s *testServer, username string) string {
	t.Helper()
	w := postJSON(s.router, "/api/auth/login", map[string]string{
		"username": username,
		"password": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createCharacter logs in and creates a warrior, returning the token.
func createCharacter(t *testing.T, s *testServer, username, charName string) string {
	t.Helper()
	token := loginAndGetToken(t, s, username)
	w := postJSON(s.router, "/api/character", map[string]string{
		"name":  charName,
		"class": "warrior",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code)
	return token
}
