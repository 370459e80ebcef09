// internal/models/session.go
package models

import "time"

// Preferences carries the ranking parameters the user chose when entering items.
// Budget is kept raw so that a non-numeric value can disable budget filtering.
type Preferences struct {
	Budget       interface{}            `json:"budget,omitempty"`
	Weights      map[string]float64     `json:"weights,omitempty"`
	Purpose      string                 `json:"purpose,omitempty"`
	Requirements map[string]interface{} `json:"requirements,omitempty"`
}

// HasPurpose reports whether the purpose-constrained strategy was requested.
func (p Preferences) HasPurpose() bool {
	return p.Purpose != ""
}

// ComparisonSession links the "enter items" step to the "view results" step.
type ComparisonSession struct {
	ID          string      `json:"id"`
	CategoryID  int64       `json:"categoryId"`
	ItemIDs     []string    `json:"itemIds"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

// IsExpired checks if session has expired
func (s *ComparisonSession) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
