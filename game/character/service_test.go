package character

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitquest-app/server/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.SetupTestDB(t), testutil.SetupTestCache(t), zap.NewNop())
}

func TestExpCurve(t *testing.T) {
	assert.EqualValues(t, 0, ExpForLevel(1))
	assert.EqualValues(t, 100, ExpForLevel(2))
	assert.EqualValues(t, 300, ExpForLevel(3))
	assert.EqualValues(t, 600, ExpForLevel(4))

	assert.Equal(t, 1, LevelForExp(0))
	assert.Equal(t, 1, LevelForExp(99))
	assert.Equal(t, 2, LevelForExp(100))
	assert.Equal(t, 2, LevelForExp(299))
	assert.Equal(t, 3, LevelForExp(300))
}

func TestCreateCharacter(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	char, err := s.Create(ctx, 1, "Aldric", "warrior")
	require.NoError(t, err)
	assert.Equal(t, 1, char.Level)
	assert.Equal(t, 14, char.Strength)
	assert.Equal(t, 60, char.HP)
	assert.Equal(t, 60, char.MaxHP)

	got, err := s.ByAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, char.ID, got.ID)
}

func TestCreateOnePerAccount(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, 1, "Aldric", "warrior")
	require.NoError(t, err)
	_, err = s.Create(ctx, 1, "Belric", "ranger")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateNameTaken(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, 1, "Aldric", "warrior")
	require.NoError(t, err)
	_, err = s.Create(ctx, 2, "Aldric", "monk")
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestCreateUnknownClass(t *testing.T) {
	s := testService(t)
	_, err := s.Create(context.Background(), 1, "Aldric", "necromancer")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestByAccountMissing(t *testing.T) {
	s := testService(t)
	_, err := s.ByAccount(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNoCharacter)
}

func TestGrantXPWithoutLevelUp(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	char, err := s.Create(ctx, 1, "Aldric", "warrior")
	require.NoError(t, err)

	res, err := s.GrantXP(ctx, char.ID, 50)
	require.NoError(t, err)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.Level)

	got, err := s.ByID(ctx, char.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, got.Exp)
}

func TestGrantXPLevelUp(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	char, err := s.Create(ctx, 1, "Aldric", "warrior")
	require.NoError(t, err)

	// 300 XP jumps straight to level 3.
	res, err := s.GrantXP(ctx, char.ID, 300)
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 3, res.Level)

	got, err := s.ByID(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 14+4, got.Strength, "+2 strength per level gained")
	assert.Equal(t, 60+20, got.MaxHP)
	assert.Equal(t, got.MaxHP, got.HP, "level up heals to full")
}

func TestGrantXPUpdatesLeaderboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	s := NewService(db, c, zap.NewNop())
	ctx := context.Background()

	char, err := s.Create(ctx, 1, "Aldric", "warrior")
	require.NoError(t, err)
	_, err = s.GrantXP(ctx, char.ID, 150)
	require.NoError(t, err)

	score, err := c.ZScore(ctx, "leaderboard:exp", strconv.FormatInt(char.ID, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 150, score)
}

func TestGrantXPRejectsNonPositive(t *testing.T) {
	s := testService(t)
	_, err := s.GrantXP(context.Background(), 1, 0)
	assert.Error(t, err)
}
