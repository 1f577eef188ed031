package model

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records one logged real-world exercise session.
type ActivityLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID    int64          `gorm:"index:idx_activity_char;not null" json:"char_id"`
	Kind      string         `gorm:"size:16;not null" json:"kind"` // walk|strength|cardio|stretch|other
	Amount    int            `gorm:"not null" json:"amount"`
	Unit      string         `gorm:"size:16" json:"unit"`
	XPAwarded int            `gorm:"default:0" json:"xp_awarded"`
	Meta      datatypes.JSON `json:"meta"`
	CreatedAt time.Time      `gorm:"index:idx_activity_created;autoCreateTime" json:"created_at"`
}
