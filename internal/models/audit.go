package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit outcomes
const (
	AuditOutcomeOK       = "ok"
	AuditOutcomeFallback = "fallback"
	AuditOutcomeInvalid  = "invalid"
)

// EmailAudit is an operator-facing record of one processed request.
// It never stores the customer's message or the drafted reply.
type EmailAudit struct {
	ID           string            `gorm:"primaryKey;type:uuid" json:"id"`
	RequestID    string            `gorm:"index" json:"requestId"`
	Category     string            `gorm:"index" json:"category"`
	OrderID      string            `json:"orderId,omitempty"`
	ContextUsed  bool              `json:"contextUsed"`
	Outcome      string            `gorm:"index" json:"outcome"`
	ErrorMessage string            `json:"errorMessage,omitempty"` // operator only
	LatencyMs    int64             `json:"latencyMs"`
	Meta         datatypes.JSONMap `gorm:"type:jsonb" json:"meta,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// TableName specifies the table name for EmailAudit model
func (EmailAudit) TableName() string {
	return "email_audits"
}
