package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"contentpilot/internal/model"
)

func (s *Store) ListAPIKeys(ctx context.Context) ([]model.APIKey, error) {
	var keys []model.APIKey
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

func (s *Store) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	key.ID = 0
	key.IsActive = true
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id uint) (*model.APIKey, error) {
	var key model.APIKey
	if err := s.db.WithContext(ctx).First(&key, id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := s.db.WithContext(ctx).Delete(&model.APIKey{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete api key %d: %w", id, err)
	}
	return &key, nil
}

// LatestAPIKey returns the most recently created active key for provider.
func (s *Store) LatestAPIKey(ctx context.Context, provider string) (*model.APIKey, error) {
	var key model.APIKey
	err := s.db.WithContext(ctx).
		Where("provider = ? AND is_active = ?", provider, true).
		Order("created_at DESC, id DESC").
		First(&key).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &key, nil
}

// PutAPIKey deactivates older keys of provider and stores value as the active one.
func (s *Store) PutAPIKey(ctx context.Context, provider, name, value string) (*model.APIKey, error) {
	key := &model.APIKey{Provider: provider, KeyName: name, KeyValue: value, IsActive: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.APIKey{}).
			Where("provider = ? AND is_active = ?", provider, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(key).Error
	})
	if err != nil {
		return nil, fmt.Errorf("put api key %s: %w", provider, err)
	}
	return key, nil
}
