package battle

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNoEncounter   = errors.New("no active encounter")
	ErrUnknownEnemy  = errors.New("unknown enemy")
	ErrEncounterOver = errors.New("encounter already resolved")
)

// Manager holds at most one active encounter per character, entirely in
// memory. Encounters are never persisted; starting a new one replaces
// whatever was in flight.
type Manager struct {
	mu         sync.Mutex
	encounters map[int64]*Encounter
	rng        *rand.Rand
	logger     *zap.Logger
}

// NewManager creates a battle manager. rng may be nil outside tests.
func NewManager(logger *zap.Logger, rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		encounters: make(map[int64]*Encounter),
		rng:        rng,
		logger:     logger,
	}
}

// Start opens a new encounter for the character, replacing any existing one.
func (m *Manager) Start(charID int64, questID, objectiveID, enemyID string, playerMaxHP, strength, spirit int) (*Encounter, error) {
	def, ok := Enemy(enemyID)
	if !ok {
		return nil, ErrUnknownEnemy
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	enc := NewEncounter(charID, questID, objectiveID, def, playerMaxHP, strength, spirit)
	m.encounters[charID] = enc
	m.logger.Debug("encounter started",
		zap.Int64("char_id", charID),
		zap.String("quest_id", questID),
		zap.String("enemy", enemyID))
	return enc, nil
}

// Get returns the character's active encounter, if any.
func (m *Manager) Get(charID int64) (*Encounter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	enc, ok := m.encounters[charID]
	return enc, ok
}

// Act resolves one player action. A finished encounter stays retrievable
// via Get until the caller acknowledges it with End.
func (m *Manager) Act(charID int64, action string) (*Encounter, *TurnResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	enc, ok := m.encounters[charID]
	if !ok {
		return nil, nil, ErrNoEncounter
	}
	if enc.State != StateActive {
		return enc, nil, ErrEncounterOver
	}
	res, err := enc.Resolve(action, m.rng)
	if err != nil {
		return enc, nil, err
	}
	return enc, res, nil
}

// End discards the character's encounter.
func (m *Manager) End(charID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.encounters, charID)
}
