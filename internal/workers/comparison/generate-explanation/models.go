// internal/workers/comparison/generate-explanation/models.go
package generateexplanation

import (
	"context"

	"compare-workers/internal/explain"
	"compare-workers/internal/models"
)

// Input matches the output of rank-items.
type Input struct {
	Category     string                 `json:"category"`
	BestItem     *models.Item           `json:"bestItem,omitempty"`
	Purpose      string                 `json:"purpose,omitempty"`
	Requirements map[string]interface{} `json:"requirements,omitempty"`
	Weights      map[string]float64     `json:"weights,omitempty"`
	Budget       interface{}            `json:"budget,omitempty"`
	TradeOff     string                 `json:"tradeOff,omitempty"`
}

func (in *Input) promptInput() explain.PromptInput {
	return explain.PromptInput{
		Category:     in.Category,
		Best:         in.BestItem,
		Purpose:      in.Purpose,
		Requirements: in.Requirements,
		Weights:      in.Weights,
		Budget:       in.Budget,
		TradeOff:     in.TradeOff,
	}
}

type Output struct {
	Explanation       string `json:"explanation"`
	ExplanationSource string `json:"explanationSource"`
	Fallback          bool   `json:"fallback"`
}

// Explainer is satisfied by *explain.Requester.
type Explainer interface {
	Explain(ctx context.Context, in explain.PromptInput) explain.Explanation
}
