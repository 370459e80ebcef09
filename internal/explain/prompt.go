// internal/explain/prompt.go
package explain

import (
	"fmt"
	"sort"
	"strings"

	"compare-workers/internal/models"
	"compare-workers/internal/ranking"
)

// DefaultPreviewSize is how many attributes of the winner the prompt shows.
const DefaultPreviewSize = 8

const systemPrompt = "You are a helpful assistant that explains product recommendations clearly and concisely."

// PromptInput is everything the prompt summarizes about one ranking.
type PromptInput struct {
	Category     string
	Best         *models.Item
	Purpose      string
	Requirements map[string]interface{}
	Weights      map[string]float64
	Budget       interface{}
	TradeOff     string
}

// BuildPrompt renders the user message sent to the text-generation service.
func BuildPrompt(in PromptInput, previewSize int) string {
	if previewSize <= 0 {
		previewSize = DefaultPreviewSize
	}

	var b strings.Builder
	fmt.Fprintf(&b, "We compared multiple user-entered options in category '%s'.\n", in.Category)

	if in.Purpose != "" {
		fmt.Fprintf(&b, "The user's stated purpose is '%s'.\n", in.Purpose)
	} else if intent := weightIntent(in.Weights); intent != "" {
		fmt.Fprintf(&b, "The user weighted these specs: %s.\n", intent)
	}

	if c := constraints(in); c != "" {
		fmt.Fprintf(&b, "Constraints: %s.\n", c)
	}

	if in.Best != nil {
		fmt.Fprintf(&b, "The best option is '%s'.\n", in.Best.Name)
		fmt.Fprintf(&b, "Specifications (partial): %s\n", AttributePreview(in.Best.Attributes, previewSize))
	}
	if in.TradeOff != "" {
		fmt.Fprintf(&b, "Note: %s\n", in.TradeOff)
	}

	b.WriteString("\n")
	if in.Purpose != "" {
		b.WriteString("Explain in simple, e-commerce style why this option is the best fit for that purpose.\n")
	} else {
		b.WriteString("Explain in simple, e-commerce style why this option is the best based on the weighted numeric specs.\n")
	}
	b.WriteString("Keep it concise and beginner-friendly.")
	return b.String()
}

// AttributePreview lists the first n attributes as k=v in key order.
func AttributePreview(attrs map[string]interface{}, n int) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	return strings.Join(parts, ", ")
}

func weightIntent(weights map[string]float64) string {
	type kv struct {
		name   string
		weight float64
	}
	list := make([]kv, 0, len(weights))
	for name, w := range weights {
		if w != 0 {
			list = append(list, kv{name, w})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].weight != list[j].weight {
			return list[i].weight > list[j].weight
		}
		return list[i].name < list[j].name
	})

	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, fmt.Sprintf("%s (%g)", e.name, e.weight))
	}
	return strings.Join(parts, ", ")
}

func constraints(in PromptInput) string {
	var parts []string
	if budget := ranking.ParseBudget(in.Budget); budget != nil {
		parts = append(parts, fmt.Sprintf("budget up to %g", *budget))
	}

	req := ranking.RequirementsFromMap(in.Requirements)
	if req.MinBudget > 0 {
		parts = append(parts, fmt.Sprintf("price at least %g", req.MinBudget))
	}
	if req.MaxBudget > 0 {
		parts = append(parts, fmt.Sprintf("price at most %g", req.MaxBudget))
	}
	if req.MinRAM > 0 {
		parts = append(parts, fmt.Sprintf("at least %g GB RAM", req.MinRAM))
	}
	if req.MinStorage > 0 {
		parts = append(parts, fmt.Sprintf("at least %g GB storage", req.MinStorage))
	}
	if req.RequireDiscreteGPU {
		parts = append(parts, "discrete GPU required")
	}
	return strings.Join(parts, ", ")
}
