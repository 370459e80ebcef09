// internal/workers/catalog/manage-catalog/handler_test.go
package managecatalog

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-workers/internal/catalog"
	"compare-workers/internal/common/errors"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/validation"
	"compare-workers/pkg/registry"
)

// ==========================
// Test Helpers
// ==========================

type fixture struct {
	handler   *Handler
	db        sqlmock.Sqlmock
	redisMock redismock.ClientMock
}

func createFixture(t *testing.T) *fixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	redisClient, redisMock := redismock.NewClientMock()
	validator, err := validation.NewValidator(registry.Builtin())
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	store := catalog.NewPostgresStore(db)
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Validator:    validator,
		Logger:       log,
		Dependencies: ServiceDependencies{
			Admin:      store,
			Categories: store,
			Cache:      catalog.NewCachedCatalog(store, redisClient, time.Minute, "", log),
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, dbMock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
	return &fixture{handler: handler, db: dbMock, redisMock: redisMock}
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:           key,
		Type:          TaskType,
		BpmnProcessId: "catalog-admin",
		CustomHeaders: "{}",
		Retries:       3,
		Variables:     string(variablesJSON),
	}}
}

func weight(v float64) *float64 { return &v }

// ==========================
// Operation Tests
// ==========================

func TestHandler_Execute_UpsertCategory(t *testing.T) {
	f := createFixture(t)
	f.db.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Laptop").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Laptop"))

	out, err := f.handler.Execute(context.Background(), &Input{Operation: OpUpsertCategory, CategoryName: " Laptop "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.CategoryID)
	assert.Equal(t, "Laptop", out.CategoryName)
	assert.True(t, out.Changed)
}

func TestHandler_Execute_UpsertAttributeByName(t *testing.T) {
	f := createFixture(t)
	f.db.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM categories WHERE name = $1")).
		WithArgs("Laptop").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Laptop"))
	f.db.ExpectQuery(regexp.QuoteMeta("INSERT INTO attribute_definitions")).
		WithArgs(int64(1), "battery", "number", 0.25).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	f.redisMock.ExpectDel("comparex:attributes:1").SetVal(1)

	out, err := f.handler.Execute(context.Background(), &Input{
		Operation:    OpUpsertAttribute,
		CategoryName: "Laptop",
		Attribute:    &AttributeInput{Name: "battery", DefaultWeight: weight(0.25)},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Attribute)
	assert.Equal(t, int64(7), out.Attribute.ID)
	assert.Equal(t, int64(1), out.CategoryID)
}

func TestHandler_Execute_UpsertTextAttributeDropsWeight(t *testing.T) {
	f := createFixture(t)
	f.db.ExpectQuery(regexp.QuoteMeta("INSERT INTO attribute_definitions")).
		WithArgs(int64(2), "brand", "text", 0.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	f.redisMock.ExpectDel("comparex:attributes:2").SetVal(0)

	out, err := f.handler.Execute(context.Background(), &Input{
		Operation:  OpUpsertAttribute,
		CategoryID: 2,
		Attribute:  &AttributeInput{Name: "brand", Kind: "TEXT", DefaultWeight: weight(0.5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Attribute.DefaultWeight)
}

func TestHandler_Execute_DeleteAttribute(t *testing.T) {
	f := createFixture(t)
	f.db.ExpectExec(regexp.QuoteMeta("DELETE FROM attribute_definitions")).
		WithArgs(int64(1), "weight").
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.redisMock.ExpectDel("comparex:attributes:1").SetVal(1)

	out, err := f.handler.Execute(context.Background(), &Input{
		Operation:  OpDeleteAttribute,
		CategoryID: 1,
		Attribute:  &AttributeInput{Name: "weight"},
	})
	require.NoError(t, err)
	assert.True(t, out.Changed)
}

func TestHandler_Execute_DeleteMissingCategorySkipsInvalidation(t *testing.T) {
	f := createFixture(t)
	f.db.ExpectExec(regexp.QuoteMeta("DELETE FROM categories")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	out, err := f.handler.Execute(context.Background(), &Input{Operation: OpDeleteCategory, CategoryID: 9})
	require.NoError(t, err)
	assert.False(t, out.Changed)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(f *fixture)
		wantCode errors.ErrorCode
	}{
		{
			name:     "unknown operation",
			input:    &Input{Operation: "rename"},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "attribute missing",
			input:    &Input{Operation: OpUpsertAttribute, CategoryID: 1},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "no category reference",
			input:    &Input{Operation: OpDeleteCategory},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:  "unknown category name",
			input: &Input{Operation: OpDeleteAttribute, CategoryName: "Camera", Attribute: &AttributeInput{Name: "zoom"}},
			setup: func(f *fixture) {
				f.db.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM categories WHERE name = $1")).
					WithArgs("Camera").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
			},
			wantCode: errors.ErrCodeCategoryNotFound,
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

func TestHandler_ParseInput(t *testing.T) {
	f := createFixture(t)

	input, err := f.handler.parseInput(createMockJob(1, map[string]interface{}{
		"operation":  "upsert_attribute",
		"categoryId": 3,
		"attribute":  map[string]interface{}{"name": "battery", "kind": "number", "defaultWeight": 0.2},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), input.CategoryID)
	assert.Equal(t, 0.2, *input.Attribute.DefaultWeight)

	_, err = f.handler.parseInput(createMockJob(2, map[string]interface{}{
		"operation": "upsert_attribute",
		"attribute": map[string]interface{}{"name": "battery", "defaultWeight": 3},
	}))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}
