package quest

import (
	"context"
	"errors"
	"sync"

	"github.com/fitquest-app/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrQuestNotFound is returned by mutations for an unknown quest ID.
	ErrQuestNotFound = errors.New("quest: not found")
	// ErrObjectiveNotFound is returned by mutations for an unknown objective ID.
	ErrObjectiveNotFound = errors.New("quest: objective not found")
)

// WriteErrorFunc receives persistence failures from the optimistic write
// path. Writes are never retried or rolled back; the handler decides what
// to do with the failure (the default logs it).
type WriteErrorFunc func(charID int64, op string, err error)

// Engine holds the per-character merged quest state and applies mutations.
//
// The durable rows in quest_progresses/objective_progresses are the source
// of truth; the in-memory state is a projection rebuilt on Load. Mutations
// update memory synchronously and persist asynchronously, so API callers
// never wait on (or hear about) a failed write.
type Engine struct {
	db      *gorm.DB
	catalog *Catalog
	logger  *zap.Logger

	mu     sync.RWMutex
	states map[int64][]Quest

	writes sync.WaitGroup

	writeErrFn  WriteErrorFunc
	objectiveFn func(charID int64, questID, objectiveID string)
	questFn     func(charID int64, def QuestDef)
}

// NewEngine creates a quest Engine over the given catalog.
func NewEngine(db *gorm.DB, catalog *Catalog, logger *zap.Logger) *Engine {
	e := &Engine{
		db:      db,
		catalog: catalog,
		logger:  logger,
		states:  make(map[int64][]Quest),
	}
	e.writeErrFn = func(charID int64, op string, err error) {
		logger.Error("quest progress write failed",
			zap.Int64("char_id", charID),
			zap.String("op", op),
			zap.Error(err))
	}
	return e
}

// Catalog returns the engine's quest catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// SetWriteErrorFunc replaces the persistence failure handler.
func (e *Engine) SetWriteErrorFunc(fn WriteErrorFunc) {
	if fn != nil {
		e.writeErrFn = fn
	}
}

// SetObjectiveCompletedFunc registers a callback fired when TrackProgress
// transitions an objective from incomplete to complete.
func (e *Engine) SetObjectiveCompletedFunc(fn func(charID int64, questID, objectiveID string)) {
	e.objectiveFn = fn
}

// SetQuestCompletedFunc registers a callback fired exactly once when a
// mutation transitions a quest to completed (used to grant the XP reward).
func (e *Engine) SetQuestCompletedFunc(fn func(charID int64, def QuestDef)) {
	e.questFn = fn
}

// Load fetches the character's persisted rows, merges them over the catalog
// and replaces the in-memory state. A failed fetch degrades to catalog
// defaults; it is logged, not fatal.
func (e *Engine) Load(ctx context.Context, charID int64) []Quest {
	merged := e.fetchAndMerge(ctx, charID)
	e.mu.Lock()
	e.states[charID] = merged
	out := cloneQuests(merged)
	e.mu.Unlock()
	return out
}

// Reset drops the character's in-memory overlay (logout). The next access
// rebuilds it from the durable rows.
func (e *Engine) Reset(charID int64) {
	e.mu.Lock()
	delete(e.states, charID)
	e.mu.Unlock()
}

// Sweep drops every in-memory overlay after waiting for in-flight writes,
// bounding memory held for characters who stopped playing. The next access
// per character rebuilds from the durable rows.
func (e *Engine) Sweep() int {
	e.writes.Wait()
	e.mu.Lock()
	n := len(e.states)
	e.states = make(map[int64][]Quest)
	e.mu.Unlock()
	return n
}

// Quests returns the character's merged quest list, loading it on demand.
func (e *Engine) Quests(ctx context.Context, charID int64) []Quest {
	e.mu.RLock()
	state, ok := e.states[charID]
	if ok {
		out := cloneQuests(state)
		e.mu.RUnlock()
		return out
	}
	e.mu.RUnlock()
	return e.Load(ctx, charID)
}

// QuestByID is a pure lookup into the merged state. It never errors; absent
// quests report ok=false and callers handle the not-found case.
func (e *Engine) QuestByID(ctx context.Context, charID int64, questID string) (Quest, bool) {
	for _, q := range e.Quests(ctx, charID) {
		if q.ID == questID {
			return q, true
		}
	}
	return Quest{}, false
}

// UpdateObjective applies a partial update to one objective, recomputes the
// quest's progress count and derived status, and fires the two persistence
// upserts (quest row, objective row).
//
// The persisted objective row stores the update's values with absent fields
// defaulting to false/0 — so a partial update that only sets Progress will
// persist Completed=false even for an already-completed objective. Callers
// that want Completed preserved must pass it explicitly. This matches the
// historical writer; the round-trip tests pin it down.
func (e *Engine) UpdateObjective(ctx context.Context, charID int64, questID, objectiveID string, upd ObjectiveUpdate) (Quest, error) {
	e.ensure(ctx, charID)

	e.mu.Lock()
	state := e.states[charID]
	qi := -1
	for i := range state {
		if state[i].ID == questID {
			qi = i
			break
		}
	}
	if qi < 0 {
		e.mu.Unlock()
		return Quest{}, ErrQuestNotFound
	}
	q := &state[qi]
	oi := -1
	for i := range q.Objectives {
		if q.Objectives[i].ID == objectiveID {
			oi = i
			break
		}
	}
	if oi < 0 {
		e.mu.Unlock()
		return Quest{}, ErrObjectiveNotFound
	}
	obj := &q.Objectives[oi]

	if upd.Completed != nil {
		obj.Completed = *upd.Completed
	}
	persProgress := 0
	if upd.Progress != nil {
		persProgress = clampProgress(*upd.Progress, obj.Target)
		obj.Progress = persProgress
	}

	completedCount := 0
	for i := range q.Objectives {
		if q.Objectives[i].Completed {
			completedCount++
		}
	}
	q.Progress = completedCount
	prev := q.Status
	q.Status = deriveStatus(completedCount, len(q.Objectives))

	snapshot := cloneQuest(*q)
	e.mu.Unlock()

	persCompleted := upd.Completed != nil && *upd.Completed

	e.writes.Add(1)
	go e.persist(charID, questID, objectiveID, snapshot.Status, completedCount, persCompleted, persProgress)

	if prev != StatusCompleted && snapshot.Status == StatusCompleted && e.questFn != nil {
		if def, ok := e.catalog.Def(questID); ok {
			e.questFn(charID, def)
		}
	}
	return snapshot, nil
}

// CompleteObjective marks one objective completed.
func (e *Engine) CompleteObjective(ctx context.Context, charID int64, questID, objectiveID string) (Quest, error) {
	completed := true
	return e.UpdateObjective(ctx, charID, questID, objectiveID, ObjectiveUpdate{Completed: &completed})
}

// TrackProgress adds delta to a progress-bar objective, clamped to the
// objective's target. Progress is monotonic: non-positive deltas are
// ignored, as are objectives without a target. When the increment pushes
// the objective over its target the objective-completed callback fires.
func (e *Engine) TrackProgress(ctx context.Context, charID int64, questID, objectiveID string, delta int) (Quest, error) {
	q, ok := e.QuestByID(ctx, charID, questID)
	if !ok {
		return Quest{}, ErrQuestNotFound
	}
	obj, ok := q.ObjectiveByID(objectiveID)
	if !ok {
		return Quest{}, ErrObjectiveNotFound
	}
	if obj.Target <= 0 || delta <= 0 {
		return q, nil
	}

	newProgress := obj.Progress + delta
	if newProgress > obj.Target {
		newProgress = obj.Target
	}
	completed := newProgress >= obj.Target
	wasCompleted := obj.Completed

	out, err := e.UpdateObjective(ctx, charID, questID, objectiveID, ObjectiveUpdate{
		Completed: &completed,
		Progress:  &newProgress,
	})
	if err == nil && completed && !wasCompleted && e.objectiveFn != nil {
		e.objectiveFn(charID, questID, objectiveID)
	}
	return out, err
}

// Flush blocks until all queued persistence writes have finished.
// Used on shutdown and by the test suite.
func (e *Engine) Flush() {
	e.writes.Wait()
}

// ensure loads the character's state if it is not in memory yet.
func (e *Engine) ensure(ctx context.Context, charID int64) {
	e.mu.RLock()
	_, ok := e.states[charID]
	e.mu.RUnlock()
	if !ok {
		e.Load(ctx, charID)
	}
}

func (e *Engine) fetchAndMerge(ctx context.Context, charID int64) []Quest {
	var qRows []model.QuestProgress
	if err := e.db.WithContext(ctx).Where("char_id = ?", charID).Find(&qRows).Error; err != nil {
		e.logger.Warn("quest progress fetch failed, using catalog defaults",
			zap.Int64("char_id", charID), zap.Error(err))
		return mergeQuests(e.catalog.Defs(), nil, nil)
	}
	var oRows []model.ObjectiveProgress
	if err := e.db.WithContext(ctx).Where("char_id = ?", charID).Find(&oRows).Error; err != nil {
		e.logger.Warn("objective progress fetch failed, using catalog defaults",
			zap.Int64("char_id", charID), zap.Error(err))
		return mergeQuests(e.catalog.Defs(), nil, nil)
	}
	return mergeQuests(e.catalog.Defs(), qRows, oRows)
}

// persist upserts the quest row and the objective row for one mutation.
// It runs detached from the request: no cancellation, no retry, failures
// reported through the write-error handler only.
func (e *Engine) persist(charID int64, questID, objectiveID string, status Status, progress int, objCompleted bool, objProgress int) {
	defer e.writes.Done()
	ctx := context.Background()

	qRow := model.QuestProgress{
		CharID:   charID,
		QuestID:  questID,
		Status:   string(status),
		Progress: progress,
	}
	if err := e.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "char_id"}, {Name: "quest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "progress", "updated_at"}),
	}).Create(&qRow).Error; err != nil {
		e.writeErrFn(charID, "quest_progress", err)
	}

	oRow := model.ObjectiveProgress{
		CharID:      charID,
		QuestID:     questID,
		ObjectiveID: objectiveID,
		Completed:   objCompleted,
		Progress:    objProgress,
	}
	if err := e.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "char_id"}, {Name: "quest_id"}, {Name: "objective_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "progress", "updated_at"}),
	}).Create(&oRow).Error; err != nil {
		e.writeErrFn(charID, "objective_progress", err)
	}
}

func clampProgress(p, target int) int {
	if p < 0 {
		return 0
	}
	if target > 0 && p > target {
		return target
	}
	return p
}

func cloneQuest(q Quest) Quest {
	objs := make([]Objective, len(q.Objectives))
	copy(objs, q.Objectives)
	q.Objectives = objs
	return q
}

func cloneQuests(qs []Quest) []Quest {
	out := make([]Quest, len(qs))
	for i, q := range qs {
		out[i] = cloneQuest(q)
	}
	return out
}
