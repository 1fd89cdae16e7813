package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Asset is a record a user keeps about something they own. Metadata is
// free-form JSON so clients can attach purchase details, serial numbers and
// the like without schema changes.
type Asset struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
