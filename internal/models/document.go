package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document stores a schemaless JSON body inside a named collection.
type Document struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Collection string         `gorm:"size:128;not null;index" json:"collection"`
	Body       datatypes.JSON `gorm:"not null" json:"body"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
