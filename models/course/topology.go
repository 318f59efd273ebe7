package course

import "gorm.io/gorm"

// TotalLectures counts the live lectures of a course across all chapters.
// Always read from the database rather than a stored snapshot, so catalog
// edits immediately change the progress denominator for every student.
func TotalLectures(db *gorm.DB, courseID uint) (int, error) {
	var total int64
	err := db.Model(&Lecture{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&total).Error
	return int(total), err
}

// CompletedLectures counts a student's completions that still reference a
// live lecture of the course. Completions of since-removed lectures drop out
// of the count automatically.
func CompletedLectures(db *gorm.DB, userID, courseID uint) (int, error) {
	var completed int64
	err := db.Model(&LectureCompletion{}).
		Joins("JOIN lectures ON lectures.id = lecture_completions.lecture_id AND lectures.is_deleted = ? AND lectures.deleted_at IS NULL", false).
		Where("lecture_completions.user_id = ? AND lecture_completions.course_id = ?", userID, courseID).
		Count(&completed).Error
	return int(completed), err
}
