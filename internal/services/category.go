package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/data/storeerr"
	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OrderIndex  int     `json:"orderIndex"`
	IconName    *string `json:"iconName"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"orderIndex"`
	IconName    *string `json:"iconName"`
}

type CategoryService interface {
	Create(dbc dbctx.Context, input CreateCategoryInput) (*types.Category, error)
	GetByID(dbc dbctx.Context, id string) (*types.Category, error)
	GetAll(dbc dbctx.Context) ([]*types.Category, error)
	Update(dbc dbctx.Context, id string, input UpdateCategoryInput) (*types.Category, error)
	Delete(dbc dbctx.Context, id string) error
}

type categoryService struct {
	db         *gorm.DB
	log        *logger.Logger
	categories repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, baseLog *logger.Logger, categories repos.CategoryRepo) CategoryService {
	return &categoryService{
		db:         db,
		log:        baseLog.With("service", "CategoryService"),
		categories: categories,
	}
}

func (s *categoryService) Create(dbc dbctx.Context, input CreateCategoryInput) (*types.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, types.NewError(types.CodeValidation, "category.create", "Category name is required", nil)
	}
	row := &types.Category{
		Name:        name,
		Description: input.Description,
		OrderIndex:  input.OrderIndex,
		IconName:    input.IconName,
	}
	created, err := s.categories.Create(dbc, row)
	if err != nil {
		return nil, storeerr.Map("category.create", err)
	}
	return created, nil
}

func (s *categoryService) GetByID(dbc dbctx.Context, id string) (*types.Category, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "category.get", "Category not found", nil)
	}
	row, err := s.categories.GetByID(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("category.get", err)
	}
	if row == nil {
		return nil, types.NewError(types.CodeNotFound, "category.get", "Category not found", nil)
	}
	return row, nil
}

func (s *categoryService) GetAll(dbc dbctx.Context) ([]*types.Category, error) {
	rows, err := s.categories.GetAll(dbc)
	if err != nil {
		return nil, storeerr.Map("category.get_all", err)
	}
	return rows, nil
}

func (s *categoryService) Update(dbc dbctx.Context, id string, input UpdateCategoryInput) (*types.Category, error) {
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, types.NewError(types.CodeValidation, "category.update", "Category name is required", nil)
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.OrderIndex != nil {
		updates["order_index"] = *input.OrderIndex
	}
	if input.IconName != nil {
		updates["icon_name"] = *input.IconName
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.categories.UpdateFields(dbc, existing.ID, updates); err != nil {
		return nil, storeerr.Map("category.update", err)
	}
	updated, err := s.categories.GetByID(dbc, existing.ID)
	if err != nil {
		return nil, storeerr.Map("category.update", err)
	}
	return updated, nil
}

func (s *categoryService) Delete(dbc dbctx.Context, id string) error {
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(dbc, existing.ID); err != nil {
		return storeerr.Map("category.delete", err)
	}
	return nil
}
