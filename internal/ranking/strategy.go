// internal/ranking/strategy.go
package ranking

import (
	"strings"

	"compare-workers/internal/models"
)

const (
	StrategyWeighted = "weighted"
	StrategyPurpose  = "purpose"
)

// Request carries every parameter a strategy may read. Each strategy ignores
// the fields that belong to the other.
type Request struct {
	Attributes   []models.AttributeDefinition
	Weights      map[string]float64
	Budget       *float64
	Purpose      string
	Requirements Requirements
}

// Strategy ranks caller-owned items without mutating them. Implementations
// must be safe for concurrent use.
type Strategy interface {
	Name() string
	Rank(items []models.Item, req Request) *Result
}

// Selector picks a strategy per category from configuration.
type Selector struct {
	strategies map[string]Strategy
	byCategory map[string]string
	fallback   string
}

func NewSelector(tables Tables, byCategory map[string]string, opts ...PurposeOption) *Selector {
	mapping := make(map[string]string, len(byCategory))
	for category, name := range byCategory {
		mapping[strings.ToLower(strings.TrimSpace(category))] = strings.ToLower(strings.TrimSpace(name))
	}
	return &Selector{
		strategies: map[string]Strategy{
			StrategyWeighted: NewWeightedSum(),
			StrategyPurpose:  NewPurposeConstrained(tables, opts...),
		},
		byCategory: mapping,
		fallback:   StrategyWeighted,
	}
}

// Select returns the purpose strategy whenever a purpose is declared,
// otherwise the strategy configured for the category, otherwise weighted.
func (s *Selector) Select(category string, purposeDeclared bool) Strategy {
	if purposeDeclared {
		return s.strategies[StrategyPurpose]
	}
	if name, ok := s.byCategory[strings.ToLower(strings.TrimSpace(category))]; ok {
		if st, ok := s.get(name); ok {
			return st
		}
	}
	return s.strategies[s.fallback]
}

func (s *Selector) get(name string) (Strategy, bool) {
	st, ok := s.strategies[strings.ToLower(name)]
	return st, ok
}

// RankByWeights ranks with the weighted-sum strategy. budget may be any raw
// value; non-numeric input disables the budget filter.
func RankByWeights(items []models.Item, attrs []models.AttributeDefinition, weights map[string]float64, budget interface{}) *Result {
	return NewWeightedSum().Rank(items, Request{
		Attributes: attrs,
		Weights:    weights,
		Budget:     ParseBudget(budget),
	})
}

// RankByPurpose ranks with the built-in purpose profiles and score tables.
func RankByPurpose(purpose string, requirements map[string]interface{}, items []models.Item) *Result {
	return NewPurposeConstrained(DefaultTables()).Rank(items, Request{
		Purpose:      purpose,
		Requirements: RequirementsFromMap(requirements),
	})
}
