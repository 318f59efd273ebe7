package course

import "gorm.io/gorm"

// CourseRating is a single student's rating of a course. The unique index
// guarantees at most one row per (user, course); writes go through an upsert
// so the most recent submission wins even under concurrent submissions.
type CourseRating struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_rating_user_course"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_rating_user_course"`
	Rating   int  `json:"rating" gorm:"not null"` // 1-5
}
