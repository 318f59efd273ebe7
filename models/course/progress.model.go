package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress tracks a student's completion state for one course. One live
// row per (user, course) pair, created on enroll and removed on unregister.
// CompletedLectures/TotalLectures/ProgressPercentage are derived values,
// recomputed from the live lecture topology on every mutation; the stored
// copy is a snapshot for listing, never the source of truth.
type CourseProgress struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	CourseID           uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	CompletedLectures  int        `json:"completed_lectures" gorm:"default:0"`
	TotalLectures      int        `json:"total_lectures" gorm:"default:0"`
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"` // 0-100
	Completed          bool       `json:"completed" gorm:"default:false"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsDeleted          bool       `json:"-" gorm:"default:false"`
}

// Recompute refreshes the derived fields from a completed-lecture count and
// the current lecture topology. Percentage clamps to 0 when the course has no
// lectures yet.
func (p *CourseProgress) Recompute(completed, total int) {
	p.CompletedLectures = completed
	p.TotalLectures = total

	if total > 0 {
		p.ProgressPercentage = float64(completed) / float64(total) * 100
	} else {
		p.ProgressPercentage = 0
	}

	wasCompleted := p.Completed
	p.Completed = total > 0 && completed >= total

	if p.Completed && !wasCompleted {
		now := time.Now()
		p.CompletedAt = &now
	}
	if !p.Completed {
		p.CompletedAt = nil
	}
}

// LectureCompletion is one element of a student's completion set. The unique
// index makes insertion an atomic add-if-absent, so concurrent completions of
// the same lecture cannot drop entries the way a whole-array rewrite would.
type LectureCompletion struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_completion_user_course_lecture"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_completion_user_course_lecture"`
	LectureID uint `json:"lecture_id" gorm:"not null;uniqueIndex:idx_completion_user_course_lecture"`
}
