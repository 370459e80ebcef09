// internal/models/catalog.go
package models

import "time"

// AttributeKind is the declared type of an attribute definition.
type AttributeKind string

const (
	KindNumber AttributeKind = "number"
	KindText   AttributeKind = "text"
)

type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// AttributeDefinition is an admin-defined attribute of a category.
// DefaultWeight only has meaning for numeric attributes.
type AttributeDefinition struct {
	ID            int64         `json:"id,omitempty" db:"id"`
	CategoryID    int64         `json:"categoryId" db:"category_id"`
	Name          string        `json:"name" db:"name"`
	Kind          AttributeKind `json:"kind" db:"kind"`
	DefaultWeight float64       `json:"defaultWeight" db:"default_weight"`
}

func (a AttributeDefinition) IsNumeric() bool {
	return a.Kind == KindNumber
}

// Item is a user-entered candidate. Attributes are keyed by attribute
// definition name and hold either numbers or strings.
type Item struct {
	ID         string                 `json:"id" db:"id"`
	CategoryID int64                  `json:"categoryId" db:"category_id"`
	Name       string                 `json:"name" db:"item_name"`
	Attributes map[string]interface{} `json:"attributes" db:"attributes"`
	CreatedAt  time.Time              `json:"createdAt,omitempty" db:"created_at"`
}
