package quest

import "github.com/fitquest-app/server/model"

// viewFromDef builds the default per-character view of a quest definition:
// status available, nothing completed.
func viewFromDef(def QuestDef) Quest {
	objs := make([]Objective, len(def.Objectives))
	for i, od := range def.Objectives {
		objs[i] = Objective{
			ID:     od.ID,
			Text:   od.Text,
			Kind:   od.Kind,
			Target: od.Target,
			Unit:   od.Unit,
			Enemy:  od.Enemy,
		}
	}
	return Quest{
		ID:          def.ID,
		Title:       def.Title,
		Location:    def.Location,
		Description: def.Description,
		Difficulty:  def.Difficulty,
		XPReward:    def.XPReward,
		Status:      StatusAvailable,
		Progress:    0,
		MaxProgress: len(def.Objectives),
		Objectives:  objs,
		Rewards:     def.Rewards,
	}
}

// mergeQuests overlays one character's persisted rows onto the catalog
// definitions and returns a fresh quest list. The catalog wins for immutable
// fields (text, rewards, targets); the rows win for completed, progress and
// status. Quests or objectives without a row keep catalog defaults. Rows that
// reference unknown quests or objectives are ignored.
func mergeQuests(defs []QuestDef, questRows []model.QuestProgress, objRows []model.ObjectiveProgress) []Quest {
	qByID := make(map[string]model.QuestProgress, len(questRows))
	for _, r := range questRows {
		qByID[r.QuestID] = r
	}
	type objKey struct{ quest, objective string }
	oByID := make(map[objKey]model.ObjectiveProgress, len(objRows))
	for _, r := range objRows {
		oByID[objKey{r.QuestID, r.ObjectiveID}] = r
	}

	merged := make([]Quest, len(defs))
	for i, def := range defs {
		q := viewFromDef(def)
		if row, ok := qByID[def.ID]; ok {
			q.Status = Status(row.Status)
			q.Progress = row.Progress
		}
		for j := range q.Objectives {
			if row, ok := oByID[objKey{def.ID, q.Objectives[j].ID}]; ok {
				q.Objectives[j].Completed = row.Completed
				q.Objectives[j].Progress = row.Progress
			}
		}
		merged[i] = q
	}
	return merged
}

// deriveStatus computes quest status from objective completion counts.
// A quest with zero objectives is vacuously available.
func deriveStatus(completedCount, total int) Status {
	switch {
	case total == 0:
		return StatusAvailable
	case completedCount == total:
		return StatusCompleted
	case completedCount == 0:
		return StatusAvailable
	default:
		return StatusActive
	}
}
