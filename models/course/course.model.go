package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Price       float64 `json:"price" gorm:"default:0"`
	Discount    float64 `json:"discount" gorm:"default:0"` // Never exceeds Price, see NormalizePricing
	IsPublished bool    `json:"is_published" gorm:"default:false"`
	EducatorID  uint    `json:"educator_id" gorm:"index;not null"`
	IsDeleted   bool    `json:"-" gorm:"default:false"`
}

// NormalizePricing clamps the discount so it never exceeds the course price.
// Called explicitly by every mutating operation instead of relying on a
// persistence hook, so the derivation stays visible and testable.
func (c *Course) NormalizePricing() {
	if c.Discount < 0 {
		c.Discount = 0
	}
	if c.Discount > c.Price {
		c.Discount = c.Price
	}
}

// Chapter is an ordered section within a course
type Chapter struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	PublicID   string `json:"chapter_id" gorm:"uniqueIndex;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}

// Lecture is a single unit of content inside a chapter
type Lecture struct {
	gorm.Model
	ChapterID     uint   `json:"chapter_id" gorm:"index;not null"`
	CourseID      uint   `json:"course_id" gorm:"index;not null"` // denormalized for topology counts
	PublicID      string `json:"lecture_id" gorm:"uniqueIndex;not null"`
	Title         string `json:"title"`
	Duration      int    `json:"duration" gorm:"default:0"` // minutes, optional
	VideoURL      string `json:"video_url"`
	FileURL       string `json:"file_url"`
	FileName      string `json:"file_name"`
	IsPreviewFree bool   `json:"is_preview_free" gorm:"default:false"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
	IsDeleted     bool   `json:"-" gorm:"default:false"`
}

// CourseMaterial is a general course attachment (syllabus, PDF)
type CourseMaterial struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
