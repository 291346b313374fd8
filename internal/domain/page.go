package domain

import (
	"time"
)

const (
	PageStatusDraft     = "DRAFT"
	PageStatusPublished = "PUBLISHED"
)

type Page struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Status         string    `gorm:"type:varchar(16);not null;index" json:"status"`
	SEOTitle       *string   `json:"seoTitle,omitempty"`
	SEODescription *string   `json:"seoDescription,omitempty"`
	Sections       []Section `gorm:"constraint:OnDelete:CASCADE" json:"sections"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
