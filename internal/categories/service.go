package categories

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/angelmondragon/grocerylist-backend/pkg/db"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
)

const (
	nameMinLen        = 2
	nameMaxLen        = 50
	descriptionMaxLen = 200
)

const (
	msgNameRequired  = "Category name is required"
	msgAlreadyExists = "Category already exists"
	msgNameTaken     = "Category name already exists"
	msgNotFound      = "Category not found"
)

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	CountItems(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes category operations.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo categoryRepository
}

// NewService builds a category service backed by the provided repository.
func NewService(repo categoryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(category), nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgNameRequired)
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, name, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category name")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyExists)
	}

	category := &models.Category{
		Name:        name,
		Description: description,
		IsCustom:    true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgAlreadyExists)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return FromModel(category), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgNameRequired)
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
		exists, err := s.repo.ExistsByName(ctx, name, &category.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category name")
		}
		if exists {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, msgNameTaken)
		}
		category.Name = name
	}
	if input.Description != nil {
		description, err := normalizeDescription(input.Description)
		if err != nil {
			return nil, err
		}
		category.Description = description
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgNameTaken)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return FromModel(category), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category items")
	}
	if count > 0 {
		return blockedDeleteError(count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case db.IsNotFound(err):
			return pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		case db.IsForeignKeyViolation(err):
			// an item was attached between the count and the delete
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Cannot delete category. Items are using this category")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return category, nil
}

func blockedDeleteError(count int64) *pkgerrors.Error {
	return pkgerrors.New(
		pkgerrors.CodeConflict,
		fmt.Sprintf("Cannot delete category. %d item(s) are using this category", count),
	).WithDetails(map[string]any{"itemCount": count})
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < nameMinLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Category name must be at least %d characters", nameMinLen))
	}
	if n > nameMaxLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Category name cannot exceed %d characters", nameMaxLen))
	}
	return nil
}

// normalizeDescription trims the description; blank values clear it.
func normalizeDescription(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if utf8.RuneCountInString(trimmed) > descriptionMaxLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Description cannot exceed %d characters", descriptionMaxLen))
	}
	if trimmed == "" {
		return nil, nil
	}
	return &trimmed, nil
}
