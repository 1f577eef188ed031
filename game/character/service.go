package character

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitquest-app/server/cache"
	"github.com/fitquest-app/server/model"
)

const leaderboardKey = "leaderboard:exp"

var (
	ErrNoCharacter   = errors.New("character not found")
	ErrAlreadyExists = errors.New("account already has a character")
	ErrNameTaken     = errors.New("character name taken")
	ErrUnknownClass  = errors.New("unknown class")
)

// ClassDef is a starting-stat template.
type ClassDef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Strength  int    `json:"strength"`
	Endurance int    `json:"endurance"`
	Agility   int    `json:"agility"`
	Spirit    int    `json:"spirit"`
	MaxHP     int    `json:"max_hp"`
}

var classes = []ClassDef{
	{ID: "warrior", Name: "Warrior", Strength: 14, Endurance: 12, Agility: 8, Spirit: 6, MaxHP: 60},
	{ID: "ranger", Name: "Ranger", Strength: 10, Endurance: 10, Agility: 14, Spirit: 6, MaxHP: 50},
	{ID: "monk", Name: "Monk", Strength: 8, Endurance: 10, Agility: 10, Spirit: 12, MaxHP: 45},
}

// Classes returns the available starting classes.
func Classes() []ClassDef {
	out := make([]ClassDef, len(classes))
	copy(out, classes)
	return out
}

// LevelUpResult reports what a GrantXP call changed.
type LevelUpResult struct {
	XPGained  int64 `json:"xp_gained"`
	Level     int   `json:"level"`
	LeveledUp bool  `json:"leveled_up"`
}

// Service owns character lifecycle and experience progression.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
}

func NewService(db *gorm.DB, c cache.Cache, logger *zap.Logger) *Service {
	return &Service{db: db, cache: c, logger: logger}
}

// Create makes the account's character. One per account, globally unique name.
func (s *Service) Create(ctx context.Context, accountID int64, name, classID string) (*model.Character, error) {
	var cls *ClassDef
	for i := range classes {
		if classes[i].ID == classID {
			cls = &classes[i]
			break
		}
	}
	if cls == nil {
		return nil, ErrUnknownClass
	}

	name = strings.TrimSpace(name)
	if name == "" || len(name) > 32 {
		return nil, fmt.Errorf("invalid character name")
	}

	char := &model.Character{
		AccountID: accountID,
		Name:      name,
		Class:     cls.ID,
		Level:     1,
		Strength:  cls.Strength,
		Endurance: cls.Endurance,
		Agility:   cls.Agility,
		Spirit:    cls.Spirit,
		HP:        cls.MaxHP,
		MaxHP:     cls.MaxHP,
	}
	if err := s.db.WithContext(ctx).Create(char).Error; err != nil {
		if isUniqueViolation(err) {
			var existing model.Character
			if s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&existing).Error == nil {
				return nil, ErrAlreadyExists
			}
			return nil, ErrNameTaken
		}
		return nil, err
	}

	if err := s.cache.ZAdd(ctx, leaderboardKey, 0, strconv.FormatInt(char.ID, 10)); err != nil {
		s.logger.Warn("leaderboard seed failed", zap.Int64("char_id", char.ID), zap.Error(err))
	}
	return char, nil
}

// ByAccount loads the account's character.
func (s *Service) ByAccount(ctx context.Context, accountID int64) (*model.Character, error) {
	var char model.Character
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&char).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCharacter
	}
	if err != nil {
		return nil, err
	}
	return &char, nil
}

// ByID loads a character by id.
func (s *Service) ByID(ctx context.Context, charID int64) (*model.Character, error) {
	var char model.Character
	err := s.db.WithContext(ctx).First(&char, charID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCharacter
	}
	if err != nil {
		return nil, err
	}
	return &char, nil
}

// GrantXP adds experience, re-derives the level and applies level-up
// growth (stat points, a larger health pool, full heal). The new total
// is mirrored into the leaderboard ZSet.
func (s *Service) GrantXP(ctx context.Context, charID int64, xp int64) (*LevelUpResult, error) {
	if xp <= 0 {
		return nil, fmt.Errorf("xp must be positive")
	}

	char, err := s.ByID(ctx, charID)
	if err != nil {
		return nil, err
	}

	char.Exp += xp
	newLevel := LevelForExp(char.Exp)
	res := &LevelUpResult{XPGained: xp, Level: newLevel, LeveledUp: newLevel > char.Level}

	if res.LeveledUp {
		gained := newLevel - char.Level
		char.Level = newLevel
		char.Strength += 2 * gained
		char.Endurance += 2 * gained
		char.Agility += gained
		char.Spirit += gained
		char.MaxHP += 10 * gained
		char.HP = char.MaxHP
		s.logger.Info("level up",
			zap.Int64("char_id", charID),
			zap.Int("level", newLevel))
	}

	if err := s.db.WithContext(ctx).Save(char).Error; err != nil {
		return nil, err
	}

	if err := s.cache.ZAdd(ctx, leaderboardKey, float64(char.Exp), strconv.FormatInt(charID, 10)); err != nil {
		s.logger.Warn("leaderboard update failed", zap.Int64("char_id", charID), zap.Error(err))
	}
	return res, nil
}

// ExpForLevel returns the total experience required to reach a level.
// Level 1 is free; each next level costs 100*level more than the last.
func ExpForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return 100 * n * (n + 1) / 2
}

// LevelForExp derives the level a given experience total corresponds to.
func LevelForExp(exp int64) int {
	level := 1
	for ExpForLevel(level+1) <= exp {
		level++
	}
	return level
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
