package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitquest-app/server/game/quest"
	"github.com/fitquest-app/server/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewService(quest.NewEngine(db, quest.Default(), zap.NewNop()))
}

func TestLines(t *testing.T) {
	s := testService(t)

	lines, err := s.Lines("forest-disturbance", "talk-druid")
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	assert.NotEmpty(t, lines[0].Speaker)
	assert.NotEmpty(t, lines[0].Text)
}

func TestLinesUnknownQuest(t *testing.T) {
	s := testService(t)
	_, err := s.Lines("lost-city", "talk-druid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinesObjectiveWithoutTranscript(t *testing.T) {
	s := testService(t)
	_, err := s.Lines("forest-disturbance", "walk-woods")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteMarksObjectiveDone(t *testing.T) {
	s := testService(t)

	q, err := s.Complete(context.Background(), 3, "forest-disturbance", "talk-druid")
	require.NoError(t, err)

	obj, ok := q.ObjectiveByID("talk-druid")
	require.True(t, ok)
	assert.True(t, obj.Completed)
	assert.Equal(t, quest.StatusActive, q.Status)
	s.engine.Flush()
}

func TestCompleteRejectsNonConversation(t *testing.T) {
	s := testService(t)

	_, err := s.Complete(context.Background(), 3, "forest-disturbance", "defeat-treant")
	assert.ErrorIs(t, err, ErrNotConversation)

	q, ok := s.engine.QuestByID(context.Background(), 3, "forest-disturbance")
	require.True(t, ok)
	obj, _ := q.ObjectiveByID("defeat-treant")
	assert.False(t, obj.Completed, "rejected call must not touch quest state")
}

func TestCompleteUnknownObjective(t *testing.T) {
	s := testService(t)
	_, err := s.Complete(context.Background(), 3, "forest-disturbance", "talk-ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
