// internal/workers/comparison/submit-items/handler_test.go
package submititems

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-workers/internal/common/config"
	"compare-workers/internal/common/errors"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/validation"
	"compare-workers/internal/models"
	"compare-workers/internal/session"
	"compare-workers/pkg/registry"
)

// ==========================
// Mock Implementations
// ==========================

type MockCategories struct {
	GetCategoryFunc func(ctx context.Context, id int64) (*models.Category, error)
}

func (m *MockCategories) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return m.GetCategoryFunc(ctx, id)
}

func (m *MockCategories) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return nil, nil
}

func (m *MockCategories) ListCategories(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

type MockAttributes struct {
	ListAttributesFunc func(ctx context.Context, categoryID int64) ([]models.AttributeDefinition, error)
}

func (m *MockAttributes) ListAttributes(ctx context.Context, categoryID int64) ([]models.AttributeDefinition, error) {
	return m.ListAttributesFunc(ctx, categoryID)
}

type MockItemStore struct {
	InsertItemsFunc func(ctx context.Context, items []models.Item) error
	inserted        []models.Item
}

func (m *MockItemStore) InsertItems(ctx context.Context, items []models.Item) error {
	m.inserted = append(m.inserted, items...)
	if m.InsertItemsFunc != nil {
		return m.InsertItemsFunc(ctx, items)
	}
	return nil
}

func (m *MockItemStore) ListItems(ctx context.Context, ids []string, categoryID int64) ([]models.Item, error) {
	return nil, nil
}

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "product-comparison",
		ElementId:          "Activity_SubmitItems",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func laptopAttributes() []models.AttributeDefinition {
	return []models.AttributeDefinition{
		{ID: 1, CategoryID: 1, Name: "brand", Kind: models.KindText},
		{ID: 2, CategoryID: 1, Name: "price", Kind: models.KindNumber, DefaultWeight: 0.3},
		{ID: 3, CategoryID: 1, Name: "ram", Kind: models.KindNumber, DefaultWeight: 0.4},
	}
}

type fixture struct {
	handler  *Handler
	items    *MockItemStore
	sessions *session.Store
	redis    *miniredis.Miniredis
}

func createFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	validator, err := validation.NewValidator(registry.Builtin())
	require.NoError(t, err)

	items := &MockItemStore{}
	sessions := session.NewStore(rdb, time.Hour, "")
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Validator:    validator,
		Logger:       logger.NewTestLogger(t),
		Dependencies: ServiceDependencies{
			Categories: &MockCategories{GetCategoryFunc: func(ctx context.Context, id int64) (*models.Category, error) {
				if id != 1 {
					return nil, errors.NewCategoryNotFoundError(id)
				}
				return &models.Category{ID: 1, Name: "Laptop"}, nil
			}},
			Attributes: &MockAttributes{ListAttributesFunc: func(ctx context.Context, categoryID int64) ([]models.AttributeDefinition, error) {
				return laptopAttributes(), nil
			}},
			Items:    items,
			Sessions: sessions,
		},
	})
	require.NoError(t, err)

	return &fixture{handler: handler, items: items, sessions: sessions, redis: mr}
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	t.Run("missing dependencies", func(t *testing.T) {
		_, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig(), Logger: logger.NewNoOpLogger()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: true}, Logger: logger.NewNoOpLogger()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout must be positive")
	})
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: false, MaxJobsActive: 3, Timeout: 2500},
	}}

	cfg := createConfigFromAppConfig(appConfig, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxJobsActive)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)

	assert.Equal(t, DefaultConfig(), createConfigFromAppConfig(nil, nil))
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	f := createFixture(t)

	tests := []struct {
		name      string
		variables map[string]interface{}
		wantErr   bool
		validate  func(t *testing.T, input *Input)
	}{
		{
			name: "valid input with preferences",
			variables: map[string]interface{}{
				"categoryId": 1,
				"items": []interface{}{
					map[string]interface{}{"name": "Zen 14", "attributes": map[string]interface{}{"ram": "16"}},
				},
				"preferences": map[string]interface{}{
					"budget":  "60000",
					"weights": map[string]interface{}{"ram": 80},
					"purpose": "coding",
				},
			},
			validate: func(t *testing.T, input *Input) {
				assert.Equal(t, int64(1), input.CategoryID)
				require.Len(t, input.Items, 1)
				assert.Equal(t, "16", input.Items[0].Attributes["ram"])
				assert.Equal(t, 80.0, input.Preferences.Weights["ram"])
				assert.Equal(t, "coding", input.Preferences.Purpose)
			},
		},
		{
			name:      "missing items",
			variables: map[string]interface{}{"categoryId": 1},
			wantErr:   true,
		},
		{
			name: "weight out of range",
			variables: map[string]interface{}{
				"categoryId":  1,
				"items":       []interface{}{},
				"preferences": map[string]interface{}{"weights": map[string]interface{}{"ram": -5}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := f.handler.parseInput(createMockJob(1, tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			tt.validate(t, input)
		})
	}
}

// ==========================
// Execution Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	f := createFixture(t)

	output, err := f.handler.Execute(context.Background(), &Input{
		CategoryID: 1,
		Items: []ItemInput{
			{Name: " Zen 14 ", Attributes: map[string]interface{}{"ram": "16", "price": 52000.0, "brand": " Asus ", "color": "grey"}},
			{Name: "   ", Attributes: map[string]interface{}{"ram": 64.0}},
			{Name: "Aero 15", Attributes: map[string]interface{}{"ram": "lots"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Laptop", output.CategoryName)
	assert.Equal(t, 2, output.ItemCount)
	assert.Equal(t, 1, output.SkippedItems)
	require.Len(t, output.ItemIDs, 2)

	require.Len(t, f.items.inserted, 2)
	first := f.items.inserted[0]
	assert.Equal(t, "Zen 14", first.Name)
	assert.Equal(t, output.ItemIDs[0], first.ID)
	assert.Equal(t, 16.0, first.Attributes["ram"])
	assert.Equal(t, 52000.0, first.Attributes["price"])
	assert.Equal(t, "Asus", first.Attributes["brand"])
	assert.NotContains(t, first.Attributes, "color")
	assert.Equal(t, "lots", f.items.inserted[1].Attributes["ram"])

	sess, err := f.sessions.Load(context.Background(), output.SessionID)
	require.NoError(t, err)
	assert.Equal(t, output.ItemIDs, sess.ItemIDs)
	assert.Equal(t, map[string]float64{"price": 30, "ram": 40}, sess.Preferences.Weights)
}

func TestHandler_Execute_ExplicitWeights(t *testing.T) {
	f := createFixture(t)

	output, err := f.handler.Execute(context.Background(), &Input{
		CategoryID: 1,
		Items:      []ItemInput{{Name: "Zen 14"}},
		Preferences: PreferencesInput{
			Budget:  " ",
			Weights: map[string]float64{"ram": 70, "brand": 50},
			Purpose: " gaming ",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "gaming", output.Purpose)

	sess, err := f.sessions.Load(context.Background(), output.SessionID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"price": 0, "ram": 70}, sess.Preferences.Weights)
	assert.Nil(t, sess.Preferences.Budget)
	assert.Equal(t, "gaming", sess.Preferences.Purpose)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(f *fixture)
		wantCode errors.ErrorCode
	}{
		{
			name:     "no named items",
			input:    &Input{CategoryID: 1, Items: []ItemInput{{Name: ""}, {Name: "  "}}},
			wantCode: errors.ErrCodeNoItemsEntered,
		},
		{
			name:     "unknown category",
			input:    &Input{CategoryID: 9, Items: []ItemInput{{Name: "A"}}},
			wantCode: errors.ErrCodeCategoryNotFound,
		},
		{
			name:  "item store failure",
			input: &Input{CategoryID: 1, Items: []ItemInput{{Name: "A"}}},
			setup: func(f *fixture) {
				f.items.InsertItemsFunc = func(ctx context.Context, items []models.Item) error {
					return errors.NewItemStoreFailedError("insert", fmt.Errorf("connection reset"))
				}
			},
			wantCode: errors.ErrCodeItemStoreFailed,
		},
		{
			name:     "session store unavailable",
			input:    &Input{CategoryID: 1, Items: []ItemInput{{Name: "A"}}},
			setup:    func(f *fixture) { f.redis.Close() },
			wantCode: errors.ErrCodeSessionStoreFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.handler.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode), err.Error())
		})
	}
}

func TestBuildPreferences_ClampsDefaults(t *testing.T) {
	attrs := []models.AttributeDefinition{
		{Name: "battery", Kind: models.KindNumber, DefaultWeight: 1.7},
		{Name: "camera", Kind: models.KindNumber, DefaultWeight: -0.2},
		{Name: "brand", Kind: models.KindText, DefaultWeight: 0.5},
	}

	prefs := buildPreferences(PreferencesInput{Budget: 900.0}, attrs)
	assert.Equal(t, map[string]float64{"battery": 100, "camera": 0}, prefs.Weights)
	assert.Equal(t, 900.0, prefs.Budget)
}
