package domain

import "time"

// AuditFields holds the server-assigned timestamps of an entity.
// Both are stamped once per unit of work with the same instant.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stamp sets both timestamps, used when an entity is first written.
func (a *AuditFields) Stamp(now time.Time) {
	a.CreatedAt = now
	a.UpdatedAt = now
}

// Touch marks the entity as modified at now.
func (a *AuditFields) Touch(now time.Time) {
	a.UpdatedAt = now
}
