package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/datatypes"

	"contentpilot/internal/model"
)

const legacyChannelHandle = "default"

// MigrateLegacyChannels fills the channel list of plans created before
// channels existed, deriving one channel per comma-separated legacy medium.
func (s *Store) MigrateLegacyChannels(ctx context.Context) (int, error) {
	var plans []model.ContentPlan
	err := s.db.WithContext(ctx).
		Select("id", "medium").
		Where("channels IS NULL OR CAST(channels AS TEXT) IN ('', 'null')").
		Find(&plans).Error
	if err != nil {
		return 0, fmt.Errorf("find legacy plans: %w", err)
	}

	slog.Info("Found content plans to migrate", "count", len(plans))

	migrated := 0
	for _, plan := range plans {
		channels := legacyChannels(plan.Medium)
		if len(channels) == 0 {
			slog.Warn("Skipping plan without medium", "plan_id", plan.ID)
			continue
		}

		err := s.db.WithContext(ctx).Model(&model.ContentPlan{}).
			Where("id = ?", plan.ID).
			Update("channels", datatypes.JSONSlice[model.Channel](channels)).Error
		if err != nil {
			return migrated, fmt.Errorf("migrate plan %d: %w", plan.ID, err)
		}
		migrated++
		slog.Info("Migrated plan", "plan_id", plan.ID, "channels", len(channels))
	}

	return migrated, nil
}

func legacyChannels(medium string) []model.Channel {
	var channels []model.Channel
	for _, m := range strings.Split(medium, ",") {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		channels = append(channels, model.Channel{Medium: m, Channel: legacyChannelHandle})
	}
	return channels
}
