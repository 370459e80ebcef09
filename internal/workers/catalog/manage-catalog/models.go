// internal/workers/catalog/manage-catalog/models.go
package managecatalog

import (
	"context"

	"compare-workers/internal/catalog"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/models"
)

const (
	OpUpsertCategory  = "upsert_category"
	OpUpsertAttribute = "upsert_attribute"
	OpDeleteAttribute = "delete_attribute"
	OpDeleteCategory  = "delete_category"
)

type Input struct {
	Operation    string          `json:"operation"`
	CategoryID   int64           `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName,omitempty"`
	Attribute    *AttributeInput `json:"attribute,omitempty"`
}

type AttributeInput struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind,omitempty"`
	DefaultWeight *float64 `json:"defaultWeight,omitempty"`
}

type Output struct {
	Operation    string                      `json:"operation"`
	CategoryID   int64                       `json:"categoryId"`
	CategoryName string                      `json:"categoryName,omitempty"`
	Attribute    *models.AttributeDefinition `json:"attribute,omitempty"`
	Changed      bool                        `json:"changed"`
}

// CacheInvalidator drops cached attribute definitions of a category.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, categoryID int64) error
}

type ServiceDependencies struct {
	Admin      catalog.Admin
	Categories catalog.Categories
	Cache      CacheInvalidator
	Logger     logger.Logger
}
