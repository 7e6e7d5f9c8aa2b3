package models

import "time"

// CategoryOther is the fallback label used when an article reference no longer resolves.
const CategoryOther = "Other"

// Categories lists the allowed article categories.
var Categories = []string{
	"Science",
	"Math",
	"English",
	"History",
	"Geography",
	"Computer Science",
	"Arts",
	CategoryOther,
}

// Content block kinds.
const (
	BlockText  = "text"
	Block3D    = "3d"
	BlockImage = "image"
	BlockVideo = "video"
)

// Article is a multi-block lesson document authored by a teacher.
type Article struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Category    string         `gorm:"size:32;not null" json:"category"`
	CreatedByID uint           `gorm:"index;not null" json:"-"`
	CreatedBy   User           `json:"createdBy"`
	Blocks      []ContentBlock `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"contentBlocks"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ContentBlock is one ordered unit of article content.
type ContentBlock struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ArticleID uint   `gorm:"index;not null" json:"-"`
	Kind      string `gorm:"size:16;not null" json:"type"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Position  int    `gorm:"not null;default:0" json:"order"`
}

// ValidCategory reports whether the category belongs to the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if category == c {
			return true
		}
	}
	return false
}

// ValidBlockKind reports whether the content block kind is supported.
func ValidBlockKind(kind string) bool {
	switch kind {
	case BlockText, Block3D, BlockImage, BlockVideo:
		return true
	}
	return false
}
