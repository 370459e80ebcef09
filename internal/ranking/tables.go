// internal/ranking/tables.go
package ranking

import (
	"sort"
	"strings"
)

// Attribute keys the purpose-constrained strategy reads from items.
const (
	AttrPrice          = "price"
	AttrRAM            = "ram"
	AttrStorage        = "storage"
	AttrProcessorName  = "processor_name"
	AttrGPUName        = "gpu_name"
	AttrProcessorScore = "processorScore"
	AttrGPUScore       = "gpuScore"
)

const (
	DefaultProcessorFallback = 5.0
	DefaultGPUFallback       = 3.0
)

// WeightEntry is one attribute weight inside a purpose profile.
type WeightEntry struct {
	Attribute string  `json:"attribute"`
	Weight    float64 `json:"weight"`
}

// Profile is an ordered weight table; order is by attribute name so that
// accumulation is reproducible.
type Profile []WeightEntry

// ScoreEntry maps a lowercase name fragment to a benchmark-like score.
type ScoreEntry struct {
	Pattern string  `json:"pattern"`
	Score   float64 `json:"score"`
}

// ScoreTable resolves free-text component names to synthetic scores.
// Longer patterns are tried first so "rtx 3060 ti" wins over "rtx 3060".
type ScoreTable struct {
	entries  []ScoreEntry
	fallback float64
}

func NewScoreTable(patterns map[string]float64, fallback float64) ScoreTable {
	entries := make([]ScoreEntry, 0, len(patterns))
	for p, s := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		entries = append(entries, ScoreEntry{Pattern: p, Score: s})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Pattern) != len(entries[j].Pattern) {
			return len(entries[i].Pattern) > len(entries[j].Pattern)
		}
		return entries[i].Pattern < entries[j].Pattern
	})
	return ScoreTable{entries: entries, fallback: fallback}
}

// Lookup returns 0 for empty text, the first matching pattern's score,
// or the table fallback for unmatched text.
func (t ScoreTable) Lookup(text string) float64 {
	name := strings.ToLower(strings.TrimSpace(text))
	if name == "" {
		return 0
	}
	for _, e := range t.entries {
		if strings.Contains(name, e.Pattern) {
			return e.Score
		}
	}
	return t.fallback
}

func (t ScoreTable) Len() int { return len(t.entries) }

// Tables is the immutable lookup data the purpose-constrained strategy is
// built with. Construct it once and share it between goroutines.
type Tables struct {
	profiles   map[string]Profile
	processors ScoreTable
	gpus       ScoreTable
}

func NewTables(profiles map[string]map[string]float64, processors, gpus ScoreTable) Tables {
	out := make(map[string]Profile, len(profiles))
	for purpose, weights := range profiles {
		key := normalizePurpose(purpose)
		if key == "" {
			continue
		}
		profile := make(Profile, 0, len(weights))
		for attr, w := range weights {
			profile = append(profile, WeightEntry{Attribute: attr, Weight: w})
		}
		sort.Slice(profile, func(i, j int) bool { return profile[i].Attribute < profile[j].Attribute })
		out[key] = profile
	}
	return Tables{profiles: out, processors: processors, gpus: gpus}
}

// WithScoreTables returns a copy of t using replacement lookup tables.
// An empty replacement keeps the current table.
func (t Tables) WithScoreTables(processors, gpus ScoreTable) Tables {
	if processors.Len() > 0 {
		t.processors = processors
	}
	if gpus.Len() > 0 {
		t.gpus = gpus
	}
	return t
}

// Profile returns the weight table for a purpose. Unknown purposes yield an
// empty profile.
func (t Tables) Profile(purpose string) (Profile, bool) {
	p, ok := t.profiles[normalizePurpose(purpose)]
	if !ok {
		return Profile{}, false
	}
	out := make(Profile, len(p))
	copy(out, p)
	return out, true
}

func (t Tables) Purposes() []string {
	out := make([]string, 0, len(t.profiles))
	for k := range t.profiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t Tables) ProcessorScore(name string) float64 { return t.processors.Lookup(name) }
func (t Tables) GPUScore(name string) float64       { return t.gpus.Lookup(name) }

func normalizePurpose(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

func DefaultProfiles() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"gaming": {
			AttrGPUScore:       0.4,
			AttrProcessorScore: 0.3,
			AttrRAM:            0.2,
			AttrStorage:        0.1,
		},
		"coding": {
			AttrProcessorScore: 0.4,
			AttrRAM:            0.4,
			AttrStorage:        0.2,
		},
		"video_editing": {
			AttrProcessorScore: 0.35,
			AttrGPUScore:       0.3,
			AttrRAM:            0.25,
			AttrStorage:        0.1,
		},
		"office": {
			AttrPrice:          0.4,
			AttrProcessorScore: 0.3,
			AttrRAM:            0.2,
			AttrStorage:        0.1,
		},
		"student": {
			AttrPrice:          0.5,
			AttrProcessorScore: 0.2,
			AttrRAM:            0.2,
			AttrStorage:        0.1,
		},
	}
}

func DefaultProcessorScores() map[string]float64 {
	return map[string]float64{
		"celeron":      2,
		"pentium":      3,
		"i3":           5,
		"i5":           7,
		"i7":           9,
		"i9":           10,
		"ryzen 3":      5,
		"ryzen 5":      7,
		"ryzen 7":      9,
		"ryzen 9":      10,
		"ultra 5":      8,
		"ultra 7":      9,
		"ultra 9":      10,
		"m1":           8,
		"m2":           9,
		"m3":           10,
		"m4":           10,
		"snapdragon x": 8,
	}
}

func DefaultGPUScores() map[string]float64 {
	return map[string]float64{
		"integrated":      2,
		"uhd":             2,
		"iris xe":         3,
		"radeon graphics": 3,
		"gtx 1650":        5,
		"gtx 1660":        6,
		"rtx 2060":        7,
		"rtx 3050":        7,
		"rtx 3060":        9,
		"rtx 3070":        9,
		"rtx 3080":        10,
		"rtx 4050":        8,
		"rtx 4060":        9,
		"rtx 4070":        10,
		"rtx 4080":        10,
		"rtx 4090":        10,
		"rx 6600":         8,
		"rx 7600":         8,
		"arc":             6,
	}
}

// DefaultTables returns the built-in purpose profiles and component tables.
func DefaultTables() Tables {
	return NewTables(
		DefaultProfiles(),
		NewScoreTable(DefaultProcessorScores(), DefaultProcessorFallback),
		NewScoreTable(DefaultGPUScores(), DefaultGPUFallback),
	)
}
