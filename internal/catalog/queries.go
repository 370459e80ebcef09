// internal/catalog/queries.go
package catalog

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS attribute_definitions (
		id             BIGSERIAL PRIMARY KEY,
		category_id    BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		kind           TEXT NOT NULL CHECK (kind IN ('number', 'text')),
		default_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE (category_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id          UUID PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		item_name   TEXT NOT NULL,
		attributes  JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS items_category_idx ON items (category_id)`,
}

const (
	queryListCategories = `
		SELECT id, name FROM categories ORDER BY name`

	queryGetCategory = `
		SELECT id, name FROM categories WHERE id = $1`

	queryGetCategoryByName = `
		SELECT id, name FROM categories WHERE name = $1`

	queryUpsertCategory = `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	queryDeleteCategory = `
		DELETE FROM categories WHERE id = $1`

	queryListAttributes = `
		SELECT id, category_id, name, kind, default_weight
		FROM attribute_definitions
		WHERE category_id = $1
		ORDER BY name`

	queryUpsertAttribute = `
		INSERT INTO attribute_definitions (category_id, name, kind, default_weight)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category_id, name)
		DO UPDATE SET kind = EXCLUDED.kind, default_weight = EXCLUDED.default_weight
		RETURNING id`

	queryDeleteAttribute = `
		DELETE FROM attribute_definitions WHERE category_id = $1 AND name = $2`

	queryInsertItem = `
		INSERT INTO items (id, category_id, item_name, attributes, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	queryListItems = `
		SELECT id, category_id, item_name, attributes, created_at
		FROM items
		WHERE category_id = $1 AND id = ANY($2::uuid[])`
)
