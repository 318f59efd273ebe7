package course

import "gorm.io/gorm"

const (
	EnrollmentEnrolled   = "ENROLLED"
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"
)

// Enrollment is a student's membership in a course. A live row here is the
// authoritative "enrolled students" set; a matching CourseProgress row must
// exist for every live enrollment.
type Enrollment struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID  uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Status    string `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
