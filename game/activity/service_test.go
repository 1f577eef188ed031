package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitquest-app/server/config"
	"github.com/fitquest-app/server/game/character"
	"github.com/fitquest-app/server/game/quest"
	"github.com/fitquest-app/server/model"
	"github.com/fitquest-app/server/testutil"
)

func testRates() config.GameConfig {
	return config.GameConfig{
		WalkXPPer100M:    2,
		StrengthXPPerRep: 1,
		CardioXPPerMin:   3,
		StretchXPPerMin:  2,
		OtherXPPerMin:    1,
	}
}

func testFixture(t *testing.T) (*Service, *quest.Engine, *model.Character) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	chars := character.NewService(db, c, logger)
	char, err := chars.Create(context.Background(), 1, "Aldric", "warrior")
	require.NoError(t, err)

	engine := quest.NewEngine(db, quest.Default(), logger)
	return NewService(db, engine, chars, testRates(), logger), engine, char
}

func TestLogRejectsBadInput(t *testing.T) {
	s, _, char := testFixture(t)
	ctx := context.Background()

	_, err := s.Log(ctx, char.ID, "swimming", 10, "")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = s.Log(ctx, char.ID, "walk", 0, "")
	assert.Error(t, err)

	_, err = s.Log(ctx, char.ID, "conversation", 1, "")
	assert.ErrorIs(t, err, ErrInvalidKind, "conversations are not loggable exercise")
}

func TestLogAwardsXP(t *testing.T) {
	s, _, char := testFixture(t)
	ctx := context.Background()

	sum, err := s.Log(ctx, char.ID, "walk", 500, "morning walk")
	require.NoError(t, err)
	assert.Equal(t, 10, sum.XPGained, "500m at 2 XP per 100m")
	assert.Equal(t, "m", sum.Entry.Unit)

	var row model.ActivityLog
	require.NoError(t, s.db.First(&row).Error)
	assert.Equal(t, 10, row.XPAwarded)
	assert.JSONEq(t, `{"note":"morning walk"}`, string(row.Meta))
}

func TestLogAdvancesMatchingObjectives(t *testing.T) {
	s, engine, char := testFixture(t)
	ctx := context.Background()

	sum, err := s.Log(ctx, char.ID, "walk", 1200, "")
	require.NoError(t, err)
	engine.Flush()

	// Every targeted walk objective moves; village-siege's 1000m one completes.
	byObjective := map[string]AdvancedObjective{}
	for _, adv := range sum.Objectives {
		byObjective[adv.QuestID+"/"+adv.ObjectiveID] = adv
	}

	vs, ok := byObjective["village-siege/walk-1"]
	require.True(t, ok)
	assert.True(t, vs.Completed)
	assert.Equal(t, 1000, vs.Progress, "clamped to target")

	fd, ok := byObjective["forest-disturbance/walk-woods"]
	require.True(t, ok)
	assert.False(t, fd.Completed)
	assert.Equal(t, 1200, fd.Progress)
}

func TestLogSkipsCompletedObjectives(t *testing.T) {
	s, engine, char := testFixture(t)
	ctx := context.Background()

	_, err := engine.TrackProgress(ctx, char.ID, "village-siege", "walk-1", 1000)
	require.NoError(t, err)

	sum, err := s.Log(ctx, char.ID, "walk", 300, "")
	require.NoError(t, err)
	engine.Flush()

	for _, adv := range sum.Objectives {
		assert.NotEqual(t, "walk-1", adv.ObjectiveID, "completed objective must not advance again")
	}
}

func TestLogLevelsUp(t *testing.T) {
	s, _, char := testFixture(t)
	ctx := context.Background()

	// 40 cardio minutes at 3 XP/min = 120 XP, past the level-2 threshold.
	sum, err := s.Log(ctx, char.ID, "cardio", 40, "")
	require.NoError(t, err)
	assert.True(t, sum.LeveledUp)
	assert.Equal(t, 2, sum.Level)
}

func TestHistory(t *testing.T) {
	s, _, char := testFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Log(ctx, char.ID, "strength", 10+i, "")
		require.NoError(t, err)
	}

	rows, err := s.History(ctx, char.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 12, rows[0].Amount, "newest first")

	rows, err = s.History(ctx, char.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3, "zero limit falls back to default")
}
