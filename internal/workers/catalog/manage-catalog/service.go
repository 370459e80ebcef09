// internal/workers/catalog/manage-catalog/service.go
package managecatalog

import (
	"context"
	"fmt"
	"strings"

	"compare-workers/internal/common/errors"
	"compare-workers/internal/models"
)

const defaultAttributeWeight = 0.1

type Service struct {
	deps ServiceDependencies
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{deps: deps}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	switch input.Operation {
	case OpUpsertCategory:
		return s.upsertCategory(ctx, input)
	case OpUpsertAttribute:
		return s.upsertAttribute(ctx, input)
	case OpDeleteAttribute:
		return s.deleteAttribute(ctx, input)
	case OpDeleteCategory:
		return s.deleteCategory(ctx, input)
	default:
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown operation %q", input.Operation))
	}
}

func (s *Service) upsertCategory(ctx context.Context, input *Input) (*Output, error) {
	category, err := s.deps.Admin.UpsertCategory(ctx, input.CategoryName)
	if err != nil {
		return nil, err
	}
	return &Output{
		Operation:    input.Operation,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Changed:      true,
	}, nil
}

func (s *Service) upsertAttribute(ctx context.Context, input *Input) (*Output, error) {
	if input.Attribute == nil {
		return nil, errors.NewInvalidInputError("attribute is required")
	}
	categoryID, err := s.resolveCategory(ctx, input)
	if err != nil {
		return nil, err
	}

	def := models.AttributeDefinition{
		CategoryID:    categoryID,
		Name:          input.Attribute.Name,
		Kind:          models.AttributeKind(strings.ToLower(input.Attribute.Kind)),
		DefaultWeight: defaultAttributeWeight,
	}
	if def.Kind == "" {
		def.Kind = models.KindNumber
	}
	if input.Attribute.DefaultWeight != nil {
		def.DefaultWeight = *input.Attribute.DefaultWeight
	}

	saved, err := s.deps.Admin.UpsertAttribute(ctx, def)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, categoryID)
	return &Output{Operation: input.Operation, CategoryID: categoryID, Attribute: saved, Changed: true}, nil
}

func (s *Service) deleteAttribute(ctx context.Context, input *Input) (*Output, error) {
	if input.Attribute == nil || strings.TrimSpace(input.Attribute.Name) == "" {
		return nil, errors.NewInvalidInputError("attribute.name is required")
	}
	categoryID, err := s.resolveCategory(ctx, input)
	if err != nil {
		return nil, err
	}

	changed, err := s.deps.Admin.DeleteAttribute(ctx, categoryID, strings.TrimSpace(input.Attribute.Name))
	if err != nil {
		return nil, err
	}
	if changed {
		s.invalidate(ctx, categoryID)
	}
	return &Output{Operation: input.Operation, CategoryID: categoryID, Changed: changed}, nil
}

func (s *Service) deleteCategory(ctx context.Context, input *Input) (*Output, error) {
	categoryID, err := s.resolveCategory(ctx, input)
	if err != nil {
		return nil, err
	}

	changed, err := s.deps.Admin.DeleteCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.invalidate(ctx, categoryID)
	}
	return &Output{Operation: input.Operation, CategoryID: categoryID, Changed: changed}, nil
}

// resolveCategory prefers the id and falls back to looking up the name.
func (s *Service) resolveCategory(ctx context.Context, input *Input) (int64, error) {
	if input.CategoryID > 0 {
		return input.CategoryID, nil
	}
	name := strings.TrimSpace(input.CategoryName)
	if name == "" {
		return 0, errors.NewInvalidInputError("categoryId or categoryName is required")
	}
	category, err := s.deps.Categories.GetCategoryByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if category == nil {
		return 0, errors.NewCategoryNotFoundError(0).WithMetadata("categoryName", name)
	}
	return category.ID, nil
}

// invalidate is best effort; the cache TTL bounds staleness if Redis is down.
func (s *Service) invalidate(ctx context.Context, categoryID int64) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Invalidate(ctx, categoryID); err != nil {
		s.deps.Logger.Warn("attribute cache invalidation failed", map[string]interface{}{
			"categoryId": categoryID,
			"error":      err.Error(),
		})
	}
}
