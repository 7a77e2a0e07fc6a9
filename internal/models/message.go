package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Message : message du chat de commande. Table append-only dans ScyllaDB,
// partitionnée par commande, ordonnée par TimeUUID.
type Message struct {
	ID          gocql.UUID `json:"id"`
	OrderID     string     `json:"order_id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	SenderRole  string     `json:"sender_role"` // "buyer" ou "vendor"
	Body        string     `json:"body"`
	SentAt      time.Time  `json:"sent_at"`
}

// AuditLog : trace d'une action sensible, append-only dans ScyllaDB.
type AuditLog struct {
	ID         gocql.UUID `json:"id"`
	UserID     string     `json:"user_id"`
	UserEmail  string     `json:"user_email"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id,omitempty"`
	OldValue   string     `json:"old_value,omitempty"`
	NewValue   string     `json:"new_value,omitempty"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	Success    bool       `json:"success"`
	ErrorMsg   string     `json:"error_msg,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
