// internal/catalog/seed_test.go
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-workers/internal/models"
)

// ==========================
// Fakes
// ==========================

type memoryAdmin struct {
	nextID     int64
	categories map[string]*models.Category
	attrs      map[int64]map[string]models.AttributeDefinition
	failOn     string
}

func newMemoryAdmin() *memoryAdmin {
	return &memoryAdmin{
		categories: map[string]*models.Category{},
		attrs:      map[int64]map[string]models.AttributeDefinition{},
	}
}

func (m *memoryAdmin) UpsertCategory(ctx context.Context, name string) (*models.Category, error) {
	if c, ok := m.categories[name]; ok {
		return c, nil
	}
	m.nextID++
	c := &models.Category{ID: m.nextID, Name: name}
	m.categories[name] = c
	m.attrs[c.ID] = map[string]models.AttributeDefinition{}
	return c, nil
}

func (m *memoryAdmin) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (m *memoryAdmin) UpsertAttribute(ctx context.Context, def models.AttributeDefinition) (*models.AttributeDefinition, error) {
	if def.Name == m.failOn {
		return nil, fmt.Errorf("boom")
	}
	m.attrs[def.CategoryID][def.Name] = def
	return &def, nil
}

func (m *memoryAdmin) DeleteAttribute(ctx context.Context, categoryID int64, name string) (bool, error) {
	if _, ok := m.attrs[categoryID][name]; !ok {
		return false, nil
	}
	delete(m.attrs[categoryID], name)
	return true, nil
}

func (m *memoryAdmin) ListAttributes(ctx context.Context, categoryID int64) ([]models.AttributeDefinition, error) {
	var out []models.AttributeDefinition
	for _, def := range m.attrs[categoryID] {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

const seedYAML = `
categories:
  - name: Laptop
    attributes:
      - {name: price, kind: number, default_weight: 0.4}
      - {name: ram, default_weight: 0.15}
      - {name: processor_name, kind: text}
  - name: Phone
    attributes:
      - {name: price, kind: number, default_weight: 0.35}
`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// ==========================
// Loading
// ==========================

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)
	require.Len(t, seed.Categories, 2)

	laptop := seed.Categories[0]
	assert.Equal(t, "Laptop", laptop.Name)
	require.Len(t, laptop.Attributes, 3)
	assert.Equal(t, 0.4, laptop.Attributes[0].DefaultWeight)
	assert.Equal(t, "number", laptop.Attributes[1].kind())
	assert.Equal(t, "text", laptop.Attributes[2].kind())
}

func TestLoadSeed_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"duplicate category", "categories:\n  - name: Laptop\n  - name: laptop\n"},
		{"unknown kind", "categories:\n  - name: Laptop\n    attributes:\n      - {name: ram, kind: bool}\n"},
		{"weight above one", "categories:\n  - name: Laptop\n    attributes:\n      - {name: ram, default_weight: 2}\n"},
		{"blank attribute", "categories:\n  - name: Laptop\n    attributes:\n      - {name: ' '}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(writeSeed(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// ==========================
// Applying
// ==========================

func TestApplySeed(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)
	admin := newMemoryAdmin()

	report, err := ApplySeed(context.Background(), admin, admin, seed, false)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{CategoryIDs: []int64{1, 2}, Upserted: 4}, report)

	laptop := admin.categories["Laptop"]
	assert.Equal(t, models.KindText, admin.attrs[laptop.ID]["processor_name"].Kind)
	assert.Equal(t, 0.15, admin.attrs[laptop.ID]["ram"].DefaultWeight)

	// Reapplying converges on the same catalog.
	_, err = ApplySeed(context.Background(), admin, admin, seed, false)
	require.NoError(t, err)
	assert.Len(t, admin.categories, 2)
	assert.Len(t, admin.attrs[laptop.ID], 3)
}

func TestApplySeed_Prune(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)
	admin := newMemoryAdmin()

	laptop, _ := admin.UpsertCategory(context.Background(), "Laptop")
	_, _ = admin.UpsertAttribute(context.Background(), models.AttributeDefinition{CategoryID: laptop.ID, Name: "ssd", Kind: models.KindNumber})

	report, err := ApplySeed(context.Background(), admin, admin, seed, false)
	require.NoError(t, err)
	assert.Zero(t, report.Pruned)
	assert.Contains(t, admin.attrs[laptop.ID], "ssd")

	report, err = ApplySeed(context.Background(), admin, admin, seed, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pruned)
	assert.NotContains(t, admin.attrs[laptop.ID], "ssd")
}

func TestApplySeed_StopsOnError(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)
	admin := newMemoryAdmin()
	admin.failOn = "ram"

	report, err := ApplySeed(context.Background(), admin, admin, seed, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Laptop.ram")
	assert.Equal(t, 1, report.Upserted)
}
