package quest

// Status is the derived completion state of a quest for one character.
type Status string

const (
	StatusAvailable Status = "available"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Difficulty rates a quest.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ActivityKind tags which real-world activity advances an objective.
type ActivityKind string

const (
	KindWalk         ActivityKind = "walk"
	KindStrength     ActivityKind = "strength"
	KindCardio       ActivityKind = "cardio"
	KindStretch      ActivityKind = "stretch"
	KindOther        ActivityKind = "other"
	KindConversation ActivityKind = "conversation"
)

// Line is one line of a scripted conversation.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// ObjectiveDef describes one objective inside a quest definition.
// Target > 0 marks a progress-bar objective (e.g. walking distance in
// meters); Enemy names a bestiary entry when a battle gates the objective.
type ObjectiveDef struct {
	ID     string       `json:"id"`
	Text   string       `json:"text"`
	Kind   ActivityKind `json:"kind"`
	Target int          `json:"target,omitempty"`
	Unit   string       `json:"unit,omitempty"`
	Enemy  string       `json:"enemy,omitempty"`
}

// QuestDef is an immutable quest definition from the catalog.
type QuestDef struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Location      string            `json:"location"`
	Description   string            `json:"description"`
	Difficulty    Difficulty        `json:"difficulty"`
	XPReward      int               `json:"xp_reward"`
	Objectives    []ObjectiveDef    `json:"objectives"`
	Rewards       []string          `json:"rewards"`
	Conversations map[string][]Line `json:"-"` // objective id → transcript
}

// Objective is the per-character view of one objective: definition fields
// plus the character's completed/progress overlay.
type Objective struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Kind      ActivityKind `json:"kind"`
	Target    int          `json:"target,omitempty"`
	Unit      string       `json:"unit,omitempty"`
	Enemy     string       `json:"enemy,omitempty"`
	Completed bool         `json:"completed"`
	Progress  int          `json:"progress"`
}

// Quest is the per-character merged view of one quest. Progress always equals
// the count of completed objectives; MaxProgress is the objective count at
// definition time.
type Quest struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Difficulty  Difficulty  `json:"difficulty"`
	XPReward    int         `json:"xp_reward"`
	Status      Status      `json:"status"`
	Progress    int         `json:"progress"`
	MaxProgress int         `json:"max_progress"`
	Objectives  []Objective `json:"objectives"`
	Rewards     []string    `json:"rewards"`
}

// ObjectiveUpdate is a partial update applied to one objective. Nil fields
// are left unchanged in memory; the persisted objective row stores false/0
// for absent fields (see Engine.UpdateObjective).
type ObjectiveUpdate struct {
	Completed *bool
	Progress  *int
}

// Percent returns the quest's completion percentage for display.
// A quest with no objectives reports 0.
func (q *Quest) Percent() int {
	if q.MaxProgress == 0 {
		return 0
	}
	return q.Progress * 100 / q.MaxProgress
}

// ObjectiveByID finds an objective in the quest view.
func (q *Quest) ObjectiveByID(id string) (*Objective, bool) {
	for i := range q.Objectives {
		if q.Objectives[i].ID == id {
			return &q.Objectives[i], true
		}
	}
	return nil, false
}
