package domain

import (
	"strings"
	"time"
)

// Idempotency remembers what a keyed POST produced so a retry can be answered
// from the stored rows instead of scheduling or sending twice. Keys are unique
// per (user, scope); scope is the method plus route template, for example
// "POST /api/v1/chat".
type Idempotency struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	UserID     string    `gorm:"type:char(36);not null;uniqueIndex:ux_user_scope_key,priority:1"`
	Scope      string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_user_scope_key,priority:2"`
	Key        string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_user_scope_key,priority:3"`
	ResourceID string    `gorm:"type:text;not null"` // comma-joined row IDs
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

func (Idempotency) TableName() string { return "idempotency" }

// NewIdempotency builds a record for the rows a request produced, live for
// ttl from now.
func NewIdempotency(userID, scope, key string, status int, now time.Time, ttl time.Duration, resourceIDs ...string) *Idempotency {
	now = now.UTC()
	return &Idempotency{
		UserID:     userID,
		Scope:      scope,
		Key:        key,
		ResourceID: strings.Join(resourceIDs, ","),
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// ResourceIDs splits ResourceID back into row IDs. A workout replay holds one
// ID; a chat replay holds the user message and the reply.
func (r Idempotency) ResourceIDs() []string {
	if r.ResourceID == "" {
		return nil
	}
	return strings.Split(r.ResourceID, ",")
}

// Expired reports whether the record can no longer be replayed at now.
func (r Idempotency) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
