// internal/workers/comparison/submit-items/models.go
package submititems

import (
	"context"

	"compare-workers/internal/catalog"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/models"
)

type Input struct {
	CategoryID  int64            `json:"categoryId"`
	Items       []ItemInput      `json:"items"`
	Preferences PreferencesInput `json:"preferences"`
}

// ItemInput is one row of the "enter items" form. Attribute values arrive
// as typed by the user, so numbers may still be strings.
type ItemInput struct {
	Name       string                 `json:"name"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// PreferencesInput leaves Weights nil when the user did not touch the sliders.
type PreferencesInput struct {
	Budget       interface{}            `json:"budget,omitempty"`
	Weights      map[string]float64     `json:"weights,omitempty"`
	Purpose      string                 `json:"purpose,omitempty"`
	Requirements map[string]interface{} `json:"requirements,omitempty"`
}

type Output struct {
	SessionID    string   `json:"sessionId"`
	ItemIDs      []string `json:"itemIds"`
	CategoryID   int64    `json:"categoryId"`
	CategoryName string   `json:"categoryName"`
	ItemCount    int      `json:"itemCount"`
	SkippedItems int      `json:"skippedItems"`
	Purpose      string   `json:"purpose,omitempty"`
}

// SessionCreator opens the comparison session handed to rank-items.
type SessionCreator interface {
	Create(ctx context.Context, categoryID int64, itemIDs []string, prefs models.Preferences) (*models.ComparisonSession, error)
}

type ServiceDependencies struct {
	Categories catalog.Categories
	Attributes catalog.AttributeCatalog
	Items      catalog.ItemStore
	Sessions   SessionCreator
	Logger     logger.Logger
}
