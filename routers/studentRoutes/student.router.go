package studentRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/student"
	"lms/middleware"
	courseValidators "lms/validators/course"
	validators "lms/validators/student"
)

// SetupStudentRoutes sets up enrollment, progress and rating routes
func SetupStudentRoutes(app *fiber.App) {
	studentGroup := app.Group("/student")

	// Enrollment
	studentGroup.Post("/course/:id/enroll", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.EnrollInCourse)
	studentGroup.Post("/course/:id/unregister", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.UnregisterFromCourse)
	studentGroup.Get("/courses", middleware.JWTMiddleware, controllers.GetEnrolledCourses)

	// Progress tracking
	studentGroup.Post("/course/:course_id/lecture/:lecture_id/complete", middleware.JWTMiddleware, validators.MarkLectureComplete(), controllers.MarkLectureComplete)
	studentGroup.Get("/course/:id/progress", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.GetCourseProgress)
	studentGroup.Get("/progress", middleware.JWTMiddleware, controllers.GetAllProgress)

	// Ratings
	studentGroup.Post("/course/:id/rate", middleware.JWTMiddleware, courseValidators.CourseID(), validators.RateCourse(), controllers.RateCourse)
}
