// internal/workers/comparison/submit-items/service.go
package submititems

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"compare-workers/internal/common/errors"
	"compare-workers/internal/models"

	"github.com/google/uuid"
)

type Service struct {
	deps   ServiceDependencies
	config *Config
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{deps: deps, config: config, now: time.Now}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	category, err := s.deps.Categories.GetCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	attrs, err := s.deps.Attributes.ListAttributes(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	items := buildItems(category.ID, input.Items, attrs, s.now().UTC())
	if len(items) == 0 {
		return nil, errors.NewNoItemsEnteredError()
	}

	if err := s.deps.Items.InsertItems(ctx, items); err != nil {
		return nil, err
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	prefs := buildPreferences(input.Preferences, attrs)
	sess, err := s.deps.Sessions.Create(ctx, category.ID, ids, prefs)
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("items stored", map[string]interface{}{
		"sessionId":  sess.ID,
		"categoryId": category.ID,
		"items":      len(items),
		"skipped":    len(input.Items) - len(items),
	})

	return &Output{
		SessionID:    sess.ID,
		ItemIDs:      ids,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		ItemCount:    len(items),
		SkippedItems: len(input.Items) - len(items),
		Purpose:      prefs.Purpose,
	}, nil
}

// buildItems drops rows without a name and keeps only attributes the
// category defines. Numeric values are parsed where possible; anything else
// is kept as entered and scores zero later.
func buildItems(categoryID int64, rows []ItemInput, attrs []models.AttributeDefinition, now time.Time) []models.Item {
	items := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}

		values := make(map[string]interface{}, len(attrs))
		for _, def := range attrs {
			raw, ok := row.Attributes[def.Name]
			if !ok || raw == nil {
				continue
			}
			values[def.Name] = coerceValue(def, raw)
		}

		items = append(items, models.Item{
			ID:         uuid.NewString(),
			CategoryID: categoryID,
			Name:       name,
			Attributes: values,
			CreatedAt:  now,
		})
	}
	return items
}

func coerceValue(def models.AttributeDefinition, raw interface{}) interface{} {
	if !def.IsNumeric() {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
		return fmt.Sprint(raw)
	}

	switch v := raw.(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return v
	default:
		return raw
	}
}

// buildPreferences fills weights from the catalog defaults when the user
// sent none. Weights only exist for numeric attributes and lie in [0,100].
func buildPreferences(in PreferencesInput, attrs []models.AttributeDefinition) models.Preferences {
	weights := make(map[string]float64)
	for _, def := range attrs {
		if !def.IsNumeric() {
			continue
		}
		w := in.Weights[def.Name]
		if in.Weights == nil {
			w = def.DefaultWeight * 100
		}
		weights[def.Name] = clamp(w, 0, 100)
	}

	budget := in.Budget
	if s, ok := budget.(string); ok && strings.TrimSpace(s) == "" {
		budget = nil
	}

	return models.Preferences{
		Budget:       budget,
		Weights:      weights,
		Purpose:      strings.TrimSpace(in.Purpose),
		Requirements: in.Requirements,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
