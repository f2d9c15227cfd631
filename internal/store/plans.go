package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"contentpilot/internal/model"
)

// PlanPatch holds the fields an editor may change on a pending plan.
type PlanPatch struct {
	Theme             *string
	Description       *string
	Prompt            *string
	Channels          *[]model.Channel
	TargetPublishDate *time.Time
	ContentURL        *string
}

// Failure records an unsuccessful processing attempt.
type Failure struct {
	Attempts      int
	NextAttemptAt *time.Time
	LastError     string
	DeadLetter    bool
}

// leaseFree matches plans no pass holds an unexpired lease on.
const leaseFree = "(lease_owner IS NULL OR lease_owner = '' OR lease_expires_at IS NULL OR lease_expires_at < ?)"

// startOfDay returns the midnight that began now's day in now's location, in UTC.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).UTC()
}

// ListEligible returns pending plans targeted at or before today's midnight
// whose retry backoff has elapsed. A plan for later today waits for tomorrow.
func (s *Store) ListEligible(ctx context.Context, now time.Time) ([]model.ContentPlan, error) {
	var plans []model.ContentPlan
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Where("target_publish_date <= ?", startOfDay(now)).
		Where("next_attempt_at IS NULL OR next_attempt_at <= ?", now.UTC()).
		Order("id").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("list eligible plans: %w", err)
	}
	return plans, nil
}

// Claim leases a pending plan to owner until now+ttl. It reports false when
// another owner holds an unexpired lease.
func (s *Store) Claim(ctx context.Context, id uint, owner string, ttl time.Duration, now time.Time) (bool, error) {
	expires := now.Add(ttl).UTC()
	res := s.db.WithContext(ctx).Model(&model.ContentPlan{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Where("lease_owner = ? OR "+leaseFree, owner, now.UTC()).
		Updates(map[string]any{"lease_owner": owner, "lease_expires_at": expires})
	if res.Error != nil {
		return false, fmt.Errorf("claim plan %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) Release(ctx context.Context, id uint, owner string) error {
	err := s.db.WithContext(ctx).Model(&model.ContentPlan{}).
		Where("id = ? AND lease_owner = ?", id, owner).
		Updates(map[string]any{"lease_owner": "", "lease_expires_at": nil}).Error
	if err != nil {
		return fmt.Errorf("release plan %d: %w", id, err)
	}
	return nil
}

func (s *Store) UpdateMetadata(ctx context.Context, id uint, meta model.Metadata) error {
	res := s.db.WithContext(ctx).Model(&model.ContentPlan{}).
		Where("id = ?", id).
		Update("metadata", datatypes.NewJSONType(meta))
	if res.Error != nil {
		return fmt.Errorf("update metadata of plan %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPublished promotes a pending plan. Published plans are never changed.
func (s *Store) MarkPublished(ctx context.Context, id uint, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.ContentPlan{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]any{
			"status":              model.StatusPublished,
			"actual_publish_date": at.UTC(),
			"next_attempt_at":     nil,
			"last_error":          "",
		})
	if res.Error != nil {
		return fmt.Errorf("mark plan %d published: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.pendingError(ctx, id)
	}
	return nil
}

func (s *Store) RecordFailure(ctx context.Context, id uint, f Failure) error {
	updates := map[string]any{
		"attempts":        f.Attempts,
		"next_attempt_at": f.NextAttemptAt,
		"last_error":      f.LastError,
	}
	if f.NextAttemptAt != nil {
		updates["next_attempt_at"] = f.NextAttemptAt.UTC()
	}
	if f.DeadLetter {
		updates["status"] = model.StatusFailed
	}

	res := s.db.WithContext(ctx).Model(&model.ContentPlan{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("record failure of plan %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.pendingError(ctx, id)
	}
	return nil
}

func (s *Store) pendingError(ctx context.Context, id uint) error {
	if _, err := s.GetPlan(ctx, id); err != nil {
		return err
	}
	return ErrNotPending
}

func (s *Store) ListPlans(ctx context.Context) ([]model.ContentPlan, error) {
	var plans []model.ContentPlan
	if err := s.db.WithContext(ctx).Order("target_publish_date DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (s *Store) GetPlan(ctx context.Context, id uint) (*model.ContentPlan, error) {
	var plan model.ContentPlan
	if err := s.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &plan, nil
}

// CreatePlan inserts a new pending plan with zeroed engagement counters.
func (s *Store) CreatePlan(ctx context.Context, plan *model.ContentPlan) error {
	plan.ID = 0
	plan.Status = model.StatusPending
	plan.ActualPublishDate = nil
	plan.TargetPublishDate = plan.TargetPublishDate.UTC()
	if plan.Channels == nil {
		plan.Channels = datatypes.JSONSlice[model.Channel]{}
	}
	plan.Metadata = datatypes.NewJSONType(model.NewMetadata())

	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// UpdatePlan edits a pending plan that no pass currently holds. Only the
// edited columns are written, so progress a pass records concurrently is kept.
func (s *Store) UpdatePlan(ctx context.Context, id uint, patch PlanPatch) (*model.ContentPlan, error) {
	updates := patch.columns()
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&model.ContentPlan{}).
				Where("id = ? AND status = ?", id, model.StatusPending).
				Where(leaseFree, now).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				return nil
			}
		}

		var plan model.ContentPlan
		if err := tx.First(&plan, id).Error; err != nil {
			return notFound(err)
		}
		if plan.Status != model.StatusPending {
			return ErrNotPending
		}
		if len(updates) > 0 {
			return ErrPlanBusy
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotPending) || errors.Is(err, ErrPlanBusy) {
			return nil, err
		}
		return nil, fmt.Errorf("update plan %d: %w", id, err)
	}
	return s.GetPlan(ctx, id)
}

func (p PlanPatch) columns() map[string]any {
	cols := map[string]any{}
	if p.Theme != nil {
		cols["theme"] = *p.Theme
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Prompt != nil {
		cols["prompt"] = *p.Prompt
	}
	if p.Channels != nil {
		channels := datatypes.JSONSlice[model.Channel]{}
		if *p.Channels != nil {
			channels = datatypes.JSONSlice[model.Channel](*p.Channels)
		}
		cols["channels"] = channels
	}
	if p.TargetPublishDate != nil {
		cols["target_publish_date"] = p.TargetPublishDate.UTC()
	}
	if p.ContentURL != nil {
		cols["content_url"] = *p.ContentURL
	}
	return cols
}

// DeletePlan removes a plan that has not been published yet and returns it.
func (s *Store) DeletePlan(ctx context.Context, id uint) (*model.ContentPlan, error) {
	var plan model.ContentPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plan, id).Error; err != nil {
			return notFound(err)
		}
		if plan.Status == model.StatusPublished {
			return ErrNotPending
		}
		if plan.LeaseOwner != "" && plan.LeaseExpiresAt != nil && plan.LeaseExpiresAt.After(time.Now()) {
			return ErrPlanBusy
		}
		return tx.Delete(&model.ContentPlan{}, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotPending) || errors.Is(err, ErrPlanBusy) {
			return nil, err
		}
		return nil, fmt.Errorf("delete plan %d: %w", id, err)
	}
	return &plan, nil
}

// Requeue moves a dead-lettered plan back to pending with a fresh attempt budget.
func (s *Store) Requeue(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&model.ContentPlan{}).
		Where("id = ? AND status = ?", id, model.StatusFailed).
		Updates(map[string]any{
			"status":          model.StatusPending,
			"attempts":        0,
			"next_attempt_at": nil,
			"last_error":      "",
		})
	if res.Error != nil {
		return fmt.Errorf("requeue plan %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetPlan(ctx, id); err != nil {
			return err
		}
		return ErrNotFailed
	}
	return nil
}
