// internal/catalog/store.go
package catalog

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"compare-workers/internal/common/errors"
	"compare-workers/internal/models"
)

// AttributeCatalog lists the attribute definitions of a category, ordered by name.
type AttributeCatalog interface {
	ListAttributes(ctx context.Context, categoryID int64) ([]models.AttributeDefinition, error)
}

// ItemStore persists user-entered items.
type ItemStore interface {
	InsertItems(ctx context.Context, items []models.Item) error
	ListItems(ctx context.Context, ids []string, categoryID int64) ([]models.Item, error)
}

// Categories resolves categories by id or name.
type Categories interface {
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Admin is the write side of the catalog.
type Admin interface {
	UpsertCategory(ctx context.Context, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
	UpsertAttribute(ctx context.Context, def models.AttributeDefinition) (*models.AttributeDefinition, error)
	DeleteAttribute(ctx context.Context, categoryID int64, name string) (bool, error)
}

// PostgresStore implements the catalog and item store on Postgres.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the catalog tables when they are missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewDatabaseConnectionFailedError(fmt.Errorf("ensure schema: %w", err))
		}
	}
	return nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, queryListCategories)
	if err != nil {
		return nil, errors.NewCatalogLookupFailedError(err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errors.NewCatalogLookupFailedError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCatalogLookupFailedError(err)
	}
	return out, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, queryGetCategory, id).Scan(&c.ID, &c.Name)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewCategoryNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewCatalogLookupFailedError(err)
	}
	return &c, nil
}

// GetCategoryByName returns nil without error when no category has that name.
func (s *PostgresStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, queryGetCategoryByName, name).Scan(&c.ID, &c.Name)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCatalogLookupFailedError(err)
	}
	return &c, nil
}

func (s *PostgresStore) UpsertCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidInputError("category name is required")
	}

	var c models.Category
	if err := s.db.QueryRowContext(ctx, queryUpsertCategory, name).Scan(&c.ID, &c.Name); err != nil {
		return nil, errors.NewCatalogUpdateFailedError("upsert_category", err)
	}
	return &c, nil
}

// DeleteCategory removes the category; its attributes and items cascade.
func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, queryDeleteCategory, id)
	if err != nil {
		return false, errors.NewCatalogUpdateFailedError("delete_category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewCatalogUpdateFailedError("delete_category", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) ListAttributes(ctx context.Context, categoryID int64) ([]models.AttributeDefinition, error) {
	rows, err := s.db.QueryContext(ctx, queryListAttributes, categoryID)
	if err != nil {
		return nil, errors.NewCatalogLookupFailedError(err)
	}
	defer rows.Close()

	var out []models.AttributeDefinition
	for rows.Next() {
		var a models.AttributeDefinition
		var kind string
		if err := rows.Scan(&a.ID, &a.CategoryID, &a.Name, &kind, &a.DefaultWeight); err != nil {
			return nil, errors.NewCatalogLookupFailedError(err)
		}
		a.Kind = models.AttributeKind(kind)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCatalogLookupFailedError(err)
	}
	return out, nil
}

func (s *PostgresStore) UpsertAttribute(ctx context.Context, def models.AttributeDefinition) (*models.AttributeDefinition, error) {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return nil, errors.NewInvalidInputError("attribute name is required")
	}
	if def.Kind != models.KindNumber && def.Kind != models.KindText {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("attribute kind must be number or text, got %q", def.Kind))
	}
	if def.Kind == models.KindText {
		def.DefaultWeight = 0
	}

	err := s.db.QueryRowContext(ctx, queryUpsertAttribute,
		def.CategoryID, def.Name, string(def.Kind), def.DefaultWeight).Scan(&def.ID)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, errors.NewCategoryNotFoundError(def.CategoryID)
		}
		return nil, errors.NewCatalogUpdateFailedError("upsert_attribute", err)
	}
	return &def, nil
}

func (s *PostgresStore) DeleteAttribute(ctx context.Context, categoryID int64, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, queryDeleteAttribute, categoryID, name)
	if err != nil {
		return false, errors.NewCatalogUpdateFailedError("delete_attribute", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewCatalogUpdateFailedError("delete_attribute", err)
	}
	return n > 0, nil
}

// InsertItems writes all items in one transaction.
func (s *PostgresStore) InsertItems(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewItemStoreFailedError("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, queryInsertItem)
	if err != nil {
		return errors.NewItemStoreFailedError("prepare", err)
	}
	defer stmt.Close()

	for _, item := range items {
		attrs, err := json.Marshal(item.Attributes)
		if err != nil {
			return errors.NewItemStoreFailedError("encode", err)
		}
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, item.ID, item.CategoryID, item.Name, attrs, createdAt); err != nil {
			return errors.NewItemStoreFailedError("insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewItemStoreFailedError("commit", err)
	}
	return nil
}

// ListItems returns the items of the category with the given ids, in the
// order the ids were given. Unknown ids are skipped.
func (s *PostgresStore) ListItems(ctx context.Context, ids []string, categoryID int64) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, queryListItems, categoryID, pq.Array(ids))
	if err != nil {
		return nil, errors.NewItemStoreFailedError("list", err)
	}
	defer rows.Close()

	byID := make(map[string]models.Item, len(ids))
	for rows.Next() {
		var item models.Item
		var raw []byte
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &raw, &item.CreatedAt); err != nil {
			return nil, errors.NewItemStoreFailedError("scan", err)
		}
		if err := decodeAttributes(raw, &item); err != nil {
			return nil, errors.NewItemStoreFailedError("decode", err)
		}
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewItemStoreFailedError("list", err)
	}

	out := make([]models.Item, 0, len(byID))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
			delete(byID, id)
		}
	}
	return out, nil
}

// decodeAttributes keeps JSON numbers as json.Number so integer specs
// round-trip without float formatting.
func decodeAttributes(raw []byte, item *models.Item) error {
	item.Attributes = map[string]interface{}{}
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(&item.Attributes)
}
