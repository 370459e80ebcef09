// internal/catalog/seed.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"compare-workers/internal/models"
)

type SeedAttribute struct {
	Name          string  `mapstructure:"name"`
	Kind          string  `mapstructure:"kind"`
	DefaultWeight float64 `mapstructure:"default_weight"`
}

type SeedCategory struct {
	Name       string          `mapstructure:"name"`
	Attributes []SeedAttribute `mapstructure:"attributes"`
}

// Seed is the catalog described by a seed file.
type Seed struct {
	Categories []SeedCategory `mapstructure:"categories"`
}

// SeedReport counts what ApplySeed changed.
type SeedReport struct {
	CategoryIDs []int64
	Upserted    int
	Pruned      int
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) Validate() error {
	seen := map[string]bool{}
	for _, c := range s.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("seed: category without a name")
		}
		if seen[strings.ToLower(name)] {
			return fmt.Errorf("seed: duplicate category %q", name)
		}
		seen[strings.ToLower(name)] = true

		for _, a := range c.Attributes {
			if strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("seed: category %q has an attribute without a name", name)
			}
			switch models.AttributeKind(a.kind()) {
			case models.KindNumber, models.KindText:
			default:
				return fmt.Errorf("seed: %s.%s: unknown kind %q", name, a.Name, a.Kind)
			}
			if a.DefaultWeight < 0 || a.DefaultWeight > 1 {
				return fmt.Errorf("seed: %s.%s: default weight must be within [0,1]", name, a.Name)
			}
		}
	}
	return nil
}

func (a SeedAttribute) kind() string {
	if a.Kind == "" {
		return string(models.KindNumber)
	}
	return strings.ToLower(a.Kind)
}

// ApplySeed upserts every category and attribute of the seed. With prune,
// attributes of a seeded category that the seed does not list are deleted.
// Categories absent from the seed are never touched.
func ApplySeed(ctx context.Context, admin Admin, attrs AttributeCatalog, seed *Seed, prune bool) (*SeedReport, error) {
	report := &SeedReport{}
	for _, c := range seed.Categories {
		category, err := admin.UpsertCategory(ctx, strings.TrimSpace(c.Name))
		if err != nil {
			return report, fmt.Errorf("upsert category %q: %w", c.Name, err)
		}
		report.CategoryIDs = append(report.CategoryIDs, category.ID)

		keep := make(map[string]bool, len(c.Attributes))
		for _, a := range c.Attributes {
			def := models.AttributeDefinition{
				CategoryID:    category.ID,
				Name:          strings.TrimSpace(a.Name),
				Kind:          models.AttributeKind(a.kind()),
				DefaultWeight: a.DefaultWeight,
			}
			if _, err := admin.UpsertAttribute(ctx, def); err != nil {
				return report, fmt.Errorf("upsert attribute %s.%s: %w", category.Name, def.Name, err)
			}
			keep[def.Name] = true
			report.Upserted++
		}

		if !prune {
			continue
		}
		existing, err := attrs.ListAttributes(ctx, category.ID)
		if err != nil {
			return report, fmt.Errorf("list attributes of %q: %w", category.Name, err)
		}
		for _, def := range existing {
			if keep[def.Name] {
				continue
			}
			deleted, err := admin.DeleteAttribute(ctx, category.ID, def.Name)
			if err != nil {
				return report, fmt.Errorf("prune attribute %s.%s: %w", category.Name, def.Name, err)
			}
			if deleted {
				report.Pruned++
			}
		}
	}
	return report, nil
}
