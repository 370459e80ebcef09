// internal/ranking/purpose.go
package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"compare-workers/internal/models"
)

const (
	DefaultTieTolerance = 0.5
	// discreteGPUThreshold is the highest GPU score still treated as integrated.
	discreteGPUThreshold = 3.0
	tieEpsilon           = 1e-9
)

// Requirements are hard filters applied before purpose scoring. Zero values
// disable the corresponding filter.
type Requirements struct {
	MinBudget          float64 `json:"minBudget,omitempty"`
	MaxBudget          float64 `json:"maxBudget,omitempty"`
	MinRAM             float64 `json:"minRAM,omitempty"`
	MinStorage         float64 `json:"minStorage,omitempty"`
	RequireDiscreteGPU bool    `json:"requireDiscreteGPU,omitempty"`
}

// RequirementsFromMap reads requirement keys loosely from form or job input.
func RequirementsFromMap(m map[string]interface{}) Requirements {
	if m == nil {
		return Requirements{}
	}
	return Requirements{
		MinBudget:          ToFloat(m["minBudget"]),
		MaxBudget:          ToFloat(m["maxBudget"]),
		MinRAM:             ToFloat(m["minRAM"]),
		MinStorage:         ToFloat(m["minStorage"]),
		RequireDiscreteGPU: truthy(m["requireDiscreteGPU"]),
	}
}

func (r Requirements) IsZero() bool {
	return r == Requirements{}
}

// ToMap returns only the set requirements, keyed as they were supplied.
func (r Requirements) ToMap() map[string]interface{} {
	out := map[string]interface{}{}
	if r.MinBudget != 0 {
		out["minBudget"] = r.MinBudget
	}
	if r.MaxBudget != 0 {
		out["maxBudget"] = r.MaxBudget
	}
	if r.MinRAM != 0 {
		out["minRAM"] = r.MinRAM
	}
	if r.MinStorage != 0 {
		out["minStorage"] = r.MinStorage
	}
	if r.RequireDiscreteGPU {
		out["requireDiscreteGPU"] = true
	}
	return out
}

func (r Requirements) admits(attrs map[string]interface{}) bool {
	price := ToFloat(attrs[AttrPrice])
	if r.MaxBudget != 0 && price > r.MaxBudget {
		return false
	}
	if r.MinBudget != 0 && price < r.MinBudget {
		return false
	}
	if r.MinRAM != 0 && ToFloat(attrs[AttrRAM]) < r.MinRAM {
		return false
	}
	if r.MinStorage != 0 && ToFloat(attrs[AttrStorage]) < r.MinStorage {
		return false
	}
	if r.RequireDiscreteGPU && ToFloat(attrs[AttrGPUScore]) <= discreteGPUThreshold {
		return false
	}
	return true
}

type PurposeOption func(*PurposeConstrained)

func WithTieTolerance(tol float64) PurposeOption {
	return func(p *PurposeConstrained) {
		if tol >= 0 {
			p.tolerance = tol
		}
	}
}

// PurposeConstrained scores items with the weight profile of a declared
// purpose after applying hard requirement filters.
type PurposeConstrained struct {
	tables    Tables
	tolerance float64
}

func NewPurposeConstrained(tables Tables, opts ...PurposeOption) *PurposeConstrained {
	p := &PurposeConstrained{tables: tables, tolerance: DefaultTieTolerance}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PurposeConstrained) Name() string {
	return StrategyPurpose
}

// Enrich returns a copy of the item with processorScore and gpuScore
// derived from its free-text component names.
func (p *PurposeConstrained) Enrich(item models.Item) models.Item {
	attrs := make(map[string]interface{}, len(item.Attributes)+2)
	for k, v := range item.Attributes {
		attrs[k] = v
	}
	attrs[AttrProcessorScore] = p.tables.ProcessorScore(textValue(item.Attributes[AttrProcessorName]))
	attrs[AttrGPUScore] = p.tables.GPUScore(textValue(item.Attributes[AttrGPUName]))
	item.Attributes = attrs
	return item
}

func (p *PurposeConstrained) Rank(items []models.Item, req Request) *Result {
	if len(items) == 0 {
		return emptyResult(StrategyPurpose, OutcomeNothingToRank)
	}
	profile, _ := p.tables.Profile(req.Purpose)

	survivors := make([]models.Item, 0, len(items))
	for _, item := range items {
		enriched := p.Enrich(item)
		if req.Requirements.admits(enriched.Attributes) {
			survivors = append(survivors, enriched)
		}
	}
	if len(survivors) == 0 {
		return emptyResult(StrategyPurpose, OutcomeNoMatch)
	}

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	for _, item := range survivors {
		v := ToFloat(item.Attributes[AttrPrice])
		minPrice = math.Min(minPrice, v)
		maxPrice = math.Max(maxPrice, v)
	}
	priceRange := maxPrice - minPrice
	if priceRange == 0 {
		priceRange = 1
	}

	ranked := make([]ScoredItem, 0, len(survivors))
	for _, item := range survivors {
		total := 0.0
		for _, entry := range profile {
			value := ToFloat(item.Attributes[entry.Attribute])
			if entry.Attribute == AttrPrice {
				value = (maxPrice - value) / priceRange
			}
			total += value * entry.Weight
		}
		ranked = append(ranked, ScoredItem{Item: item, Score: round2(total)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	top := ranked[0].Score
	tieGroup := make([]ScoredItem, 0, len(ranked))
	for _, s := range ranked {
		if math.Abs(s.Score-top) <= p.tolerance+tieEpsilon {
			tieGroup = append(tieGroup, s)
		}
	}

	result := &Result{
		Strategy: StrategyPurpose,
		Outcome:  OutcomeRanked,
		Ranked:   ranked,
		TieGroup: tieGroup,
	}
	best := ranked[0].Item
	result.Best = &best
	if len(tieGroup) > 1 {
		result.TradeOff = tradeOffNarrative(req.Purpose, tieGroup, p.tolerance)
	}
	return result
}

func tradeOffNarrative(purpose string, group []ScoredItem, tolerance float64) string {
	names := make([]string, len(group))
	for i, s := range group {
		names[i] = s.Item.Name
	}
	label := strings.TrimSpace(purpose)
	if label == "" {
		label = "your needs"
	}
	return fmt.Sprintf(
		"%d options (%s) score within %.1f points of each other for %s. They are comparably suited; "+
			"the choice comes down to qualities the score does not measure, such as build quality, display or battery life.",
		len(group), strings.Join(names, ", "), tolerance, label,
	)
}

func textValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
