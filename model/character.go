package model

import "time"

// Character is a player's fantasy hero. Real-world exercise feeds its
// experience and stat growth; one character per account.
type Character struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64     `gorm:"uniqueIndex:idx_char_account;not null" json:"account_id"`
	Name      string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Class     string    `gorm:"size:16;not null" json:"class"`
	Level     int       `gorm:"default:1" json:"level"`
	Exp       int64     `gorm:"default:0" json:"exp"`
	Strength  int       `gorm:"default:10" json:"strength"`
	Endurance int       `gorm:"default:10" json:"endurance"`
	Agility   int       `gorm:"default:10" json:"agility"`
	Spirit    int       `gorm:"default:10" json:"spirit"`
	HP        int       `gorm:"not null" json:"hp"`
	MaxHP     int       `gorm:"not null" json:"max_hp"`
	Gold      int64     `gorm:"default:0" json:"gold"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
