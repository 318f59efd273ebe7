package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lms/database"
	courseModels "lms/models/course"
)

// logReconciler logs reconciler events with timestamp
func logReconciler(message string) {
	log.Printf("[PROGRESS-RECONCILER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ReconcileProgressRecords repairs divergence between the enrollment set and
// the progress store. Enrollment and progress rows are written in one
// transaction on the request path, but a crash between the two deletes (or a
// partially applied migration) can still strand rows; this sweep restores the
// invariant: an enrollment row exists iff a progress row exists.
func ReconcileProgressRecords() {
	db := database.Database.Db

	// Enrolled without progress: create the missing zero-progress record.
	var orphanEnrollments []courseModels.Enrollment
	if err := db.
		Joins("LEFT JOIN course_progresses cp ON cp.user_id = enrollments.user_id AND cp.course_id = enrollments.course_id AND cp.deleted_at IS NULL").
		Where("enrollments.is_deleted = ? AND cp.id IS NULL", false).
		Find(&orphanEnrollments).Error; err != nil {
		logReconciler("Error fetching enrollments without progress: " + err.Error())
		return
	}

	for _, enrollment := range orphanEnrollments {
		total, err := courseModels.TotalLectures(db, enrollment.CourseID)
		if err != nil {
			logReconciler("Error counting lectures: " + err.Error())
			continue
		}
		completed, err := courseModels.CompletedLectures(db, enrollment.UserID, enrollment.CourseID)
		if err != nil {
			logReconciler("Error counting completions: " + err.Error())
			continue
		}

		progress := courseModels.CourseProgress{
			UserID:   enrollment.UserID,
			CourseID: enrollment.CourseID,
		}
		progress.Recompute(completed, total)

		if err := db.Create(&progress).Error; err != nil {
			logReconciler("Error creating missing progress record: " + err.Error())
			continue
		}
		logReconciler(fmt.Sprintf("Recreated progress record for user %d course %d", enrollment.UserID, enrollment.CourseID))
	}

	// Progress without enrollment: the student unregistered, drop the orphan.
	// Hard delete, so a later re-enrollment is free to recreate the pair.
	result := db.Unscoped().
		Where("deleted_at IS NULL AND NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.user_id = course_progresses.user_id AND e.course_id = course_progresses.course_id AND e.is_deleted = ? AND e.deleted_at IS NULL)", false).
		Delete(&courseModels.CourseProgress{})
	if result.Error != nil {
		logReconciler("Error deleting orphan progress records: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logReconciler(fmt.Sprintf("Removed %d orphan progress records", result.RowsAffected))
	}
}

// InitializeProgressReconciler starts the periodic invariant sweep
func InitializeProgressReconciler() *cron.Cron {
	c := cron.New()

	// Every 10 minutes
	if _, err := c.AddFunc("*/10 * * * *", ReconcileProgressRecords); err != nil {
		logReconciler("Failed to schedule reconciler: " + err.Error())
		return c
	}

	c.Start()
	logReconciler("Progress reconciler scheduled")
	return c
}
