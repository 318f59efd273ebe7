package educatorRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/educator"
	"lms/middleware"
	"lms/models"
	courseValidators "lms/validators/course"
	validators "lms/validators/educator"
)

// SetupEducatorRoutes sets up course management routes for educators
func SetupEducatorRoutes(app *fiber.App) {
	educatorGroup := app.Group("/educator", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator, models.RoleAdmin))

	// Course CRUD
	educatorGroup.Post("/course", controllers.AddCourse)
	educatorGroup.Put("/course/:id", courseValidators.CourseID(), controllers.UpdateCourse)
	educatorGroup.Get("/courses", controllers.GetEducatorCourses)

	// Dashboard and rosters
	educatorGroup.Get("/dashboard", controllers.GetDashboard)
	educatorGroup.Get("/course/:id/students", courseValidators.CourseID(), controllers.GetCourseStudents)

	// Lecture attachments
	educatorGroup.Post("/course/:course_id/lecture/:lecture_id/document", validators.LectureDocument(), controllers.UploadLectureDocument)
}
