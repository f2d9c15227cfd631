package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending   PlanStatus = "pending"
	StatusPublished PlanStatus = "published"
	StatusFailed    PlanStatus = "failed"
)

const (
	MediumInstagram     = "instagram"
	MediumYouTubeShorts = "youtube_shorts"
)

type PlanStatus string

type Channel struct {
	Medium  string `json:"medium"`
	Channel string `json:"channel"`
}

// Key identifies a channel inside GeneratedContent.Publications.
func (c Channel) Key() string {
	return fmt.Sprintf("%s:%s", c.Medium, c.Channel)
}

func SupportedMedium(medium string) bool {
	return medium == MediumInstagram || medium == MediumYouTubeShorts
}

type ContentPlan struct {
	ID                uint                         `gorm:"primaryKey" json:"id"`
	Theme             string                       `gorm:"type:text;not null" json:"theme"`
	Description       string                       `gorm:"type:text;not null" json:"description"`
	Prompt            *string                      `gorm:"type:text" json:"prompt"`
	Medium            string                       `gorm:"type:text" json:"medium"`
	Channels          datatypes.JSONSlice[Channel] `json:"channels"`
	TargetPublishDate time.Time                    `gorm:"not null;index:idx_plan_due" json:"targetPublishDate"`
	ActualPublishDate *time.Time                   `json:"actualPublishDate"`
	Status            PlanStatus                   `gorm:"type:varchar(16);not null;default:pending;index:idx_plan_due" json:"status"`
	ContentURL        *string                      `gorm:"type:text" json:"contentUrl"`
	Metadata          datatypes.JSONType[Metadata] `json:"metadata"`
	Attempts          int                          `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt     *time.Time                   `json:"nextAttemptAt"`
	LastError         string                       `gorm:"type:text" json:"lastError,omitempty"`
	LeaseOwner        string                       `gorm:"type:varchar(64)" json:"-"`
	LeaseExpiresAt    *time.Time                   `json:"-"`
	CreatedAt         time.Time                    `json:"createdAt"`
	UpdatedAt         time.Time                    `json:"updatedAt"`
}

func (ContentPlan) TableName() string { return "content_plans" }

// ChannelList returns the plan's channels in processing order.
func (p *ContentPlan) ChannelList() []Channel {
	return []Channel(p.Channels)
}
