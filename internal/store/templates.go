package store

import (
	"context"
	"fmt"

	"contentpilot/internal/model"
)

func (s *Store) ListTemplates(ctx context.Context) ([]model.PromptTemplate, error) {
	var templates []model.PromptTemplate
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list prompt templates: %w", err)
	}
	return templates, nil
}

func (s *Store) CreateTemplate(ctx context.Context, tmpl *model.PromptTemplate) error {
	tmpl.ID = 0
	tmpl.IsActive = true
	if err := s.db.WithContext(ctx).Create(tmpl).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create prompt template: %w", err)
	}
	return nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id uint) (*model.PromptTemplate, error) {
	var tmpl model.PromptTemplate
	if err := s.db.WithContext(ctx).First(&tmpl, id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := s.db.WithContext(ctx).Delete(&model.PromptTemplate{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete prompt template %d: %w", id, err)
	}
	return &tmpl, nil
}

// ActiveTemplate returns the active template called name.
func (s *Store) ActiveTemplate(ctx context.Context, name string) (*model.PromptTemplate, error) {
	var tmpl model.PromptTemplate
	err := s.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&tmpl).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &tmpl, nil
}

// SeedTemplates inserts templates whose name is not taken yet and reports how
// many were added.
func (s *Store) SeedTemplates(ctx context.Context, templates []model.PromptTemplate) (int, error) {
	added := 0
	for i := range templates {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.PromptTemplate{}).
			Where("name = ?", templates[i].Name).Count(&count).Error; err != nil {
			return added, fmt.Errorf("check template %s: %w", templates[i].Name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.CreateTemplate(ctx, &templates[i]); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
