package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitquest-app/server/config"
	"github.com/fitquest-app/server/game/character"
	"github.com/fitquest-app/server/game/quest"
	"github.com/fitquest-app/server/model"
)

var ErrInvalidKind = errors.New("invalid activity kind")

// units per activity kind, for display and for the stored row.
var kindUnits = map[quest.ActivityKind]string{
	quest.KindWalk:     "m",
	quest.KindStrength: "reps",
	quest.KindCardio:   "min",
	quest.KindStretch:  "min",
	quest.KindOther:    "min",
}

// AdvancedObjective names one objective a logged session pushed forward.
type AdvancedObjective struct {
	QuestID     string `json:"quest_id"`
	ObjectiveID string `json:"objective_id"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
	Completed   bool   `json:"completed"`
}

// Summary is what one Log call accomplished.
type Summary struct {
	Entry      *model.ActivityLog  `json:"entry"`
	XPGained   int                 `json:"xp_gained"`
	Level      int                 `json:"level"`
	LeveledUp  bool                `json:"leveled_up"`
	Objectives []AdvancedObjective `json:"objectives"`
}

// Service turns logged exercise into XP and quest progress.
type Service struct {
	db     *gorm.DB
	engine *quest.Engine
	chars  *character.Service
	rates  config.GameConfig
	logger *zap.Logger
}

func NewService(db *gorm.DB, engine *quest.Engine, chars *character.Service, rates config.GameConfig, logger *zap.Logger) *Service {
	return &Service{db: db, engine: engine, chars: chars, rates: rates, logger: logger}
}

// Log records one exercise session: stores the row, awards XP at the
// configured per-kind rate and advances every active, matching, targeted,
// incomplete objective across the character's quests.
func (s *Service) Log(ctx context.Context, charID int64, kind string, amount int, note string) (*Summary, error) {
	k := quest.ActivityKind(kind)
	unit, ok := kindUnits[k]
	if !ok {
		return nil, ErrInvalidKind
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	entry := &model.ActivityLog{
		CharID: charID,
		Kind:   kind,
		Amount: amount,
		Unit:   unit,
	}
	if note != "" {
		meta, _ := json.Marshal(map[string]string{"note": note})
		entry.Meta = meta
	}

	xp := s.xpFor(k, amount)
	entry.XPAwarded = xp
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}

	sum := &Summary{Entry: entry, XPGained: xp}
	if xp > 0 {
		lvl, err := s.chars.GrantXP(ctx, charID, int64(xp))
		if err != nil {
			return nil, err
		}
		sum.Level = lvl.Level
		sum.LeveledUp = lvl.LeveledUp
	}

	sum.Objectives = s.advanceObjectives(ctx, charID, k, amount)
	return sum, nil
}

// History returns the character's most recent sessions, newest first.
func (s *Service) History(ctx context.Context, charID int64, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []model.ActivityLog
	err := s.db.WithContext(ctx).
		Where("char_id = ?", charID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *Service) xpFor(kind quest.ActivityKind, amount int) int {
	switch kind {
	case quest.KindWalk:
		return amount * s.rates.WalkXPPer100M / 100
	case quest.KindStrength:
		return amount * s.rates.StrengthXPPerRep
	case quest.KindCardio:
		return amount * s.rates.CardioXPPerMin
	case quest.KindStretch:
		return amount * s.rates.StretchXPPerMin
	default:
		return amount * s.rates.OtherXPPerMin
	}
}

func (s *Service) advanceObjectives(ctx context.Context, charID int64, kind quest.ActivityKind, amount int) []AdvancedObjective {
	var advanced []AdvancedObjective
	for _, q := range s.engine.Quests(ctx, charID) {
		if q.Status == quest.StatusCompleted {
			continue
		}
		for _, obj := range q.Objectives {
			if obj.Kind != kind || obj.Target <= 0 || obj.Completed {
				continue
			}
			updated, err := s.engine.TrackProgress(ctx, charID, q.ID, obj.ID, amount)
			if err != nil {
				s.logger.Warn("objective advance failed",
					zap.Int64("char_id", charID),
					zap.String("quest_id", q.ID),
					zap.String("objective_id", obj.ID),
					zap.Error(err))
				continue
			}
			after, _ := updated.ObjectiveByID(obj.ID)
			advanced = append(advanced, AdvancedObjective{
				QuestID:     q.ID,
				ObjectiveID: obj.ID,
				Progress:    after.Progress,
				Target:      after.Target,
				Completed:   after.Completed,
			})
		}
	}
	return advanced
}
