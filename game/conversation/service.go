package conversation

import (
	"context"
	"errors"

	"github.com/fitquest-app/server/game/quest"
)

var (
	ErrNotFound        = errors.New("conversation not found")
	ErrNotConversation = errors.New("objective is not a conversation")
)

// Service serves the scripted dialogs attached to quest objectives and
// completes the objective once the player has read one through.
type Service struct {
	engine *quest.Engine
}

func NewService(engine *quest.Engine) *Service {
	return &Service{engine: engine}
}

// Lines returns the transcript for a conversation objective.
func (s *Service) Lines(questID, objectiveID string) ([]quest.Line, error) {
	def, ok := s.engine.Catalog().Def(questID)
	if !ok {
		return nil, ErrNotFound
	}
	lines, ok := def.Conversations[objectiveID]
	if !ok {
		return nil, ErrNotFound
	}
	return lines, nil
}

// Complete marks a conversation objective done. The transition takes no
// arguments beyond identity: reading the dialog is the whole task.
func (s *Service) Complete(ctx context.Context, charID int64, questID, objectiveID string) (quest.Quest, error) {
	def, ok := s.engine.Catalog().Def(questID)
	if !ok {
		return quest.Quest{}, ErrNotFound
	}

	var objDef *quest.ObjectiveDef
	for i := range def.Objectives {
		if def.Objectives[i].ID == objectiveID {
			objDef = &def.Objectives[i]
			break
		}
	}
	if objDef == nil {
		return quest.Quest{}, ErrNotFound
	}
	if objDef.Kind != quest.KindConversation {
		return quest.Quest{}, ErrNotConversation
	}
	if _, ok := def.Conversations[objectiveID]; !ok {
		return quest.Quest{}, ErrNotFound
	}

	return s.engine.CompleteObjective(ctx, charID, questID, objectiveID)
}
