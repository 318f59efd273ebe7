package courseController

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
)

// ChapterWithLectures is a chapter together with its ordered lectures
type ChapterWithLectures struct {
	courseModels.Chapter
	Lectures []courseModels.Lecture `json:"lectures"`
}

// GetAllCourses lists published courses for the public catalog. Content and
// enrollment details are intentionally left out of the listing.
func GetAllCourses(c *fiber.Ctx) error {
	// Retrieve validated pagination request
	reqData, _ := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a course with its chapter/lecture tree, educator
// info and rating aggregate. Video URLs of non-free-preview lectures are
// blanked unless the caller is enrolled or owns the course.
func GetCourseDetails(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var educator models.User
	database.Database.Db.Select("id, name, email, image_url").Where("id = ?", course.EducatorID).First(&educator)

	// Check if caller may see full lecture URLs
	isEnrolled := false
	if userID != 0 {
		var enrollment courseModels.Enrollment
		isEnrolled = database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error == nil
	}
	canSeeContent := isEnrolled || (userID != 0 && userID == course.EducatorID)

	// Build the chapter/lecture tree
	var chapters []courseModels.Chapter
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&chapters)

	content := make([]ChapterWithLectures, len(chapters))
	for i, chapter := range chapters {
		var lectures []courseModels.Lecture
		database.Database.Db.Where("chapter_id = ? AND is_deleted = ?", chapter.ID, false).Order("order_index asc").Find(&lectures)

		if !canSeeContent {
			for j := range lectures {
				if !lectures[j].IsPreviewFree {
					lectures[j].VideoURL = ""
					lectures[j].FileURL = ""
				}
			}
		}

		content[i] = ChapterWithLectures{
			Chapter:  chapter,
			Lectures: lectures,
		}
	}

	// Rating aggregate
	var ratingCount int64
	var ratingAvg float64
	database.Database.Db.Model(&courseModels.CourseRating{}).Where("course_id = ?", courseID).Count(&ratingCount)
	if ratingCount > 0 {
		database.Database.Db.Model(&courseModels.CourseRating{}).Where("course_id = ?", courseID).Select("AVG(rating)").Row().Scan(&ratingAvg)
	}

	var enrolledCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&enrolledCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":         course,
		"educator":       educator,
		"course_content": content,
		"rating_average": ratingAvg,
		"rating_count":   ratingCount,
		"enrolled_count": enrolledCount,
		"is_enrolled":    isEnrolled,
	})
}
