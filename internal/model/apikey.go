package model

import "time"

type APIKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Provider  string    `gorm:"type:text;not null;index" json:"provider"`
	KeyName   string    `gorm:"type:text;not null" json:"keyName"`
	KeyValue  string    `gorm:"type:text;not null" json:"keyValue"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (APIKey) TableName() string { return "api_keys" }

type PromptTemplate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Prompt      string    `gorm:"type:text;not null" json:"prompt"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (PromptTemplate) TableName() string { return "prompt_templates" }
