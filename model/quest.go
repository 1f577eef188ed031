package model

import "time"

// Quest status values as persisted. Mirrors quest.Status; kept as plain
// strings here so the model package stays free of game imports.
const (
	QuestStatusAvailable = "available"
	QuestStatusActive    = "active"
	QuestStatusCompleted = "completed"
)

// QuestProgress is the durable per-character quest state: one row per
// (character, quest). The in-memory quest list is a projection rebuilt from
// these rows on load; this row is the source of truth for status/progress.
type QuestProgress struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID    int64     `gorm:"uniqueIndex:idx_quest_char,priority:1;not null" json:"char_id"`
	QuestID   string    `gorm:"uniqueIndex:idx_quest_char,priority:2;size:64;not null" json:"quest_id"`
	Status    string    `gorm:"size:16;default:available" json:"status"`
	Progress  int       `gorm:"default:0" json:"progress"` // count of completed objectives
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ObjectiveProgress is the durable per-character objective state: one row per
// (character, quest, objective). Upsert-keyed on the triple.
type ObjectiveProgress struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID      int64     `gorm:"uniqueIndex:idx_obj_char,priority:1;not null" json:"char_id"`
	QuestID     string    `gorm:"uniqueIndex:idx_obj_char,priority:2;size:64;not null" json:"quest_id"`
	ObjectiveID string    `gorm:"uniqueIndex:idx_obj_char,priority:3;size:64;not null" json:"objective_id"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	Progress    int       `gorm:"default:0" json:"progress"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
