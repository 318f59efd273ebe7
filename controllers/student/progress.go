package studentController

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
)

// ProgressSummary is the response shape for progress reads
type ProgressSummary struct {
	CourseID           uint   `json:"course_id"`
	CourseTitle        string `json:"course_title,omitempty"`
	CompletedLectures  int    `json:"completed_lectures"`
	TotalLectures      int    `json:"total_lectures"`
	ProgressPercentage string `json:"progress_percentage"`
	Completed          bool   `json:"completed"`
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

// loadOrCreateProgress returns the progress record for an enrolled student,
// lazily recreating it when the enrollment exists without one (self-healing
// read for the partial-failure window).
func loadOrCreateProgress(db *gorm.DB, userID, courseID uint) (*courseModels.CourseProgress, error) {
	var progress courseModels.CourseProgress
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	total, err := courseModels.TotalLectures(db, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := courseModels.CompletedLectures(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	progress = courseModels.CourseProgress{UserID: userID, CourseID: courseID}
	progress.Recompute(completed, total)
	if err := db.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// MarkLectureComplete records a lecture-completion event. The completion set
// lives one row per lecture behind a unique index, so the insert is an atomic
// add-if-absent: completing the same lecture twice is a no-op that still
// succeeds, reported with a distinct message.
func MarkLectureComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated IDs
	courseID := c.Locals("courseID").(int)
	lectureID := c.Locals("lectureID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// The lecture must belong to this course's chapter tree
	var lecture courseModels.Lecture
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lectureID, courseID, false).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lecture does not belong to this course!", nil)
	}

	// Only enrolled students track progress
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	progress, err := loadOrCreateProgress(database.Database.Db, userID, uint(courseID))
	if err != nil {
		log.Printf("Error loading progress for user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course progress!", nil)
	}

	completion := courseModels.LectureCompletion{
		UserID:    userID,
		CourseID:  uint(courseID),
		LectureID: uint(lectureID),
	}
	result := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
	if result.Error != nil {
		log.Printf("Error recording completion for user %d lecture %d: %v", userID, lectureID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lecture as completed!", nil)
	}
	alreadyCompleted := result.RowsAffected == 0

	// Refresh derived fields from the live topology
	total, err := courseModels.TotalLectures(database.Database.Db, uint(courseID))
	if err == nil {
		var completed int
		completed, err = courseModels.CompletedLectures(database.Database.Db, userID, uint(courseID))
		if err == nil {
			wasCompleted := progress.Completed
			progress.Recompute(completed, total)
			err = database.Database.Db.Save(progress).Error

			if err == nil {
				refreshEnrollmentStatus(&enrollment, progress)
				if progress.Completed && !wasCompleted && user.Email != nil {
					utils.SendCourseCompletedEmail(*user.Email, user.Name, course.Title)
				}
			}
		}
	}
	if err != nil {
		log.Printf("Error refreshing progress for user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
	}

	message := "Lecture marked as completed!"
	if alreadyCompleted {
		message = "Lecture already completed."
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"already_completed":   alreadyCompleted,
		"completed_lectures":  progress.CompletedLectures,
		"total_lectures":      progress.TotalLectures,
		"progress_percentage": formatPercent(progress.ProgressPercentage),
		"completed":           progress.Completed,
	})
}

// refreshEnrollmentStatus mirrors the derived progress onto the enrollment row
func refreshEnrollmentStatus(enrollment *courseModels.Enrollment, progress *courseModels.CourseProgress) {
	status := courseModels.EnrollmentEnrolled
	if progress.Completed {
		status = courseModels.EnrollmentCompleted
	} else if progress.CompletedLectures > 0 {
		status = courseModels.EnrollmentInProgress
	}
	if status != enrollment.Status {
		enrollment.Status = status
		if err := database.Database.Db.Save(enrollment).Error; err != nil {
			log.Printf("Error updating enrollment status for user %d course %d: %v", enrollment.UserID, enrollment.CourseID, err)
		}
	}
}

// GetCourseProgress returns the student's progress for one course. Totals are
// recomputed from the current lecture topology, not the stored snapshot.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var progress courseModels.CourseProgress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No progress record for this course!", nil)
	}

	total, err := courseModels.TotalLectures(database.Database.Db, uint(courseID))
	if err != nil {
		log.Printf("Error counting lectures for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress!", nil)
	}
	completed, err := courseModels.CompletedLectures(database.Database.Db, userID, uint(courseID))
	if err != nil {
		log.Printf("Error counting completions for user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress!", nil)
	}

	progress.Recompute(completed, total)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", fiber.Map{
		"course_id":           progress.CourseID,
		"completed_lectures":  progress.CompletedLectures,
		"total_lectures":      progress.TotalLectures,
		"progress_percentage": formatPercent(progress.ProgressPercentage),
		"completed":           progress.Completed,
	})
}

// GetAllProgress returns one summary per course the student has a progress
// record for. A student with no records at all gets a 404.
func GetAllProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var records []courseModels.CourseProgress
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&records).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress records!", nil)
	}

	if len(records) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No progress records found!", nil)
	}

	summaries := make([]ProgressSummary, 0, len(records))
	for _, record := range records {
		total, err := courseModels.TotalLectures(database.Database.Db, record.CourseID)
		if err != nil {
			continue
		}
		completed, err := courseModels.CompletedLectures(database.Database.Db, userID, record.CourseID)
		if err != nil {
			continue
		}
		record.Recompute(completed, total)

		var course courseModels.Course
		database.Database.Db.Select("id, title").Where("id = ?", record.CourseID).First(&course)

		summaries = append(summaries, ProgressSummary{
			CourseID:           record.CourseID,
			CourseTitle:        course.Title,
			CompletedLectures:  record.CompletedLectures,
			TotalLectures:      record.TotalLectures,
			ProgressPercentage: formatPercent(record.ProgressPercentage),
			Completed:          record.Completed,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress records fetched successfully!", fiber.Map{
		"progress": summaries,
	})
}
