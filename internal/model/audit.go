package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateAccount      = "CREATE_ACCOUNT"
	ActionUpdateAccount      = "UPDATE_ACCOUNT"
	ActionPostEntry          = "POST_ENTRY"
	ActionReverseEntry       = "REVERSE_ENTRY"
	ActionSetCashFlowMapping = "SET_CASH_FLOW_MAPPING"
	ActionCreatePettyFund    = "CREATE_PETTY_CASH_FUND"
	ActionPettyCashMovement  = "PETTY_CASH_MOVEMENT"
	ActionCreateUser         = "CREATE_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated job
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code/entry number)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
