package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusAccepted     = "accepted"
	StatusRejectedSpam = "rejected_spam"
)

// Submission is a stored contact form entry.
type Submission struct {
	bun.BaseModel `bun:"table:contact_submissions,alias:sub"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Email      string    `bun:"email,notnull" json:"email"`
	Subject    string    `bun:"subject" json:"subject,omitempty"`
	Message    string    `bun:"message,notnull" json:"message"`
	Company    string    `bun:"company" json:"company,omitempty"`
	RemoteAddr string    `bun:"remote_addr" json:"-"`
	UserAgent  string    `bun:"user_agent" json:"-"`
	Status     string    `bun:"status,notnull" json:"status"`
	SpamReason string    `bun:"spam_reason" json:"-"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
