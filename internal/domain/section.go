package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SectionHero  = "HERO"
	SectionText  = "TEXT"
	SectionImage = "IMAGE"
	SectionCTA   = "CTA"
	SectionFAQ   = "FAQ"
)

// Section is a typed content block of a page. Position is dense per page:
// the sections of one page always hold 0..n-1.
type Section struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PageID    string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_sections_page_position,priority:1" json:"pageId"`
	Type      string         `gorm:"type:varchar(16);not null" json:"type"`
	Position  int            `gorm:"not null;uniqueIndex:idx_sections_page_position,priority:2" json:"order"`
	Content   datatypes.JSON `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
