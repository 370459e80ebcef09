// internal/workers/comparison/rank-items/service.go
package rankitems

import (
	"context"

	"compare-workers/internal/common/errors"
	"compare-workers/internal/common/metrics"
	"compare-workers/internal/common/observability"
	"compare-workers/internal/models"
	"compare-workers/internal/ranking"

	"go.opentelemetry.io/otel/attribute"
)

const (
	msgNothingToRank = "Please enter at least one item to analyze."
	msgNoMatch       = "No items match your requirements."
)

type Service struct {
	deps   ServiceDependencies
	config *Config
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{deps: deps, config: config}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	categoryID, itemIDs, prefs, err := s.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	category, err := s.deps.Categories.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	attrs, err := s.deps.Attributes.ListAttributes(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	var items []models.Item
	if len(itemIDs) > 0 {
		items, err = s.deps.Items.ListItems(ctx, itemIDs, categoryID)
		if err != nil {
			return nil, err
		}
	}

	strategy := s.deps.Selector.Select(category.Name, prefs.HasPurpose())
	ctx, span := observability.StartSpan(ctx, "ranking.rank",
		attribute.String("category", category.Name),
		attribute.String("strategy", strategy.Name()),
		attribute.Int("items", len(items)),
	)
	reqs := ranking.RequirementsFromMap(prefs.Requirements)
	result := strategy.Rank(items, ranking.Request{
		Attributes:   attrs,
		Weights:      prefs.Weights,
		Budget:       ranking.ParseBudget(prefs.Budget),
		Purpose:      prefs.Purpose,
		Requirements: reqs,
	})
	span.SetAttributes(attribute.String("outcome", string(result.Outcome)))
	span.End()

	metrics.ObserveRanking(result.Strategy, string(result.Outcome), len(result.Ranked), len(result.TieGroup))
	s.deps.Logger.Info("items ranked", map[string]interface{}{
		"categoryId": categoryID,
		"strategy":   result.Strategy,
		"outcome":    string(result.Outcome),
		"ranked":     len(result.Ranked),
		"tieGroup":   len(result.TieGroup),
	})

	if result.Empty() && s.config.ThrowOnEmpty {
		if result.Outcome == ranking.OutcomeNoMatch {
			return nil, errors.NewNoItemsMatchError(category.Name)
		}
		return nil, errors.NewNoItemsEnteredError()
	}

	return buildOutput(input.SessionID, category, prefs, reqs, result), nil
}

// resolve reads the ranking parameters from the session, the job, or both.
func (s *Service) resolve(ctx context.Context, input *Input) (int64, []string, models.Preferences, error) {
	if input.SessionID == "" {
		if input.CategoryID <= 0 {
			return 0, nil, models.Preferences{}, errors.NewInvalidInputError("sessionId or categoryId is required")
		}
		var prefs models.Preferences
		if input.Preferences != nil {
			prefs = *input.Preferences
		}
		return input.CategoryID, input.ItemIDs, prefs, nil
	}

	sess, err := s.deps.Sessions.Load(ctx, input.SessionID)
	if err != nil {
		return 0, nil, models.Preferences{}, err
	}
	prefs := sess.Preferences
	if input.Preferences != nil {
		prefs = *input.Preferences
	}
	return sess.CategoryID, sess.ItemIDs, prefs, nil
}

// buildOutput echoes the requirements as the ranker read them, so the
// explanation prompt states the limits that were actually applied.
func buildOutput(sessionID string, category *models.Category, prefs models.Preferences, reqs ranking.Requirements, result *ranking.Result) *Output {
	out := &Output{
		SessionID:   sessionID,
		CategoryID:  category.ID,
		Category:    category.Name,
		Strategy:    result.Strategy,
		Outcome:     string(result.Outcome),
		RankedItems: make([]RankedRow, len(result.Ranked)),
		BestItem:    result.Best,
		TieGroup:    make([]string, len(result.TieGroup)),
		TradeOff:    result.TradeOff,
		Purpose:     prefs.Purpose,
		Weights:     prefs.Weights,
		Budget:      prefs.Budget,
	}

	for i, s := range result.Ranked {
		out.RankedItems[i] = RankedRow{
			Rank:       i + 1,
			ID:         s.Item.ID,
			Name:       s.Item.Name,
			Score:      s.Score,
			Attributes: s.Item.Attributes,
		}
	}
	for i, s := range result.TieGroup {
		out.TieGroup[i] = s.Item.Name
	}
	if result.Best != nil {
		out.BestItemName = result.Best.Name
	}
	out.Chart.Labels, out.Chart.Scores = result.Scores()
	if !reqs.IsZero() {
		out.Requirements = reqs.ToMap()
	}

	switch result.Outcome {
	case ranking.OutcomeNothingToRank:
		out.Message = msgNothingToRank
	case ranking.OutcomeNoMatch:
		out.Message = msgNoMatch
	}
	return out
}
