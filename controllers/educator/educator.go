package educatorController

import (
	"encoding/json"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
)

// CourseData is the nested course payload sent as the `courseData` form field
type CourseData struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Chapters    []struct {
		Title      string `json:"title"`
		OrderIndex int    `json:"order_index"`
		Lectures   []struct {
			Title         string `json:"title"`
			Duration      int    `json:"duration"`
			VideoURL      string `json:"video_url"`
			IsPreviewFree bool   `json:"is_preview_free"`
			OrderIndex    int    `json:"order_index"`
		} `json:"lectures"`
	} `json:"chapters"`
}

// AddCourse creates a course with its chapter/lecture tree. The thumbnail
// image arrives as a multipart file and is pushed to the media storage API
// before the course is persisted.
func AddCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	rawCourseData := c.FormValue("courseData")
	if rawCourseData == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseData is required!", nil)
	}

	var courseData CourseData
	if err := json.Unmarshal([]byte(rawCourseData), &courseData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid courseData JSON!", nil)
	}
	if courseData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course title is required!", nil)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Thumbnail image not attached!", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read thumbnail image!", nil)
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read thumbnail image!", nil)
	}

	upload, err := utils.UploadBuffer(imageBytes, fileHeader.Filename)
	if err != nil {
		log.Printf("Error uploading thumbnail: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload thumbnail!", nil)
	}

	course := courseModels.Course{
		Title:       courseData.Title,
		Description: courseData.Description,
		Price:       courseData.Price,
		Discount:    courseData.Discount,
		Thumbnail:   upload.SecureURL,
		IsPublished: true,
		EducatorID:  userID,
	}
	course.NormalizePricing()

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}

		for _, chapterData := range courseData.Chapters {
			chapter := courseModels.Chapter{
				CourseID:   course.ID,
				PublicID:   uuid.NewString(),
				Title:      chapterData.Title,
				OrderIndex: chapterData.OrderIndex,
			}
			if err := tx.Create(&chapter).Error; err != nil {
				return err
			}

			for _, lectureData := range chapterData.Lectures {
				lecture := courseModels.Lecture{
					ChapterID:     chapter.ID,
					CourseID:      course.ID,
					PublicID:      uuid.NewString(),
					Title:         lectureData.Title,
					Duration:      lectureData.Duration,
					VideoURL:      lectureData.VideoURL,
					IsPreviewFree: lectureData.IsPreviewFree,
					OrderIndex:    lectureData.OrderIndex,
				}
				if err := tx.Create(&lecture).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error creating course for educator %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created successfully!", course)
}

// UpdateCourse updates title/description/pricing/publish state. The discount
// clamp is re-applied on every write.
func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.EducatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own courses!", nil)
	}

	reqData := new(struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Discount    *float64 `json:"discount"`
		IsPublished *bool    `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.Discount != nil {
		course.Discount = *reqData.Discount
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}
	course.NormalizePricing()

	if err := database.Database.Db.Save(&course).Error; err != nil {
		log.Printf("Error updating course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// GetEducatorCourses lists the educator's own courses
func GetEducatorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("educator_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetDashboard aggregates the educator's course count, enrollment totals and
// the latest enrolled students across their courses
func GetDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("educator_id = ? AND is_deleted = ?", userID, false).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard data!", nil)
	}

	courseIDs := make([]uint, len(courses))
	titles := make(map[uint]string, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
		titles[course.ID] = course.Title
	}

	var totalEnrollments int64
	var latest []courseModels.Enrollment
	if len(courseIDs) > 0 {
		database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Count(&totalEnrollments)
		database.Database.Db.Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Order("created_at desc").Limit(10).Find(&latest)
	}

	type EnrolledStudent struct {
		CourseTitle string `json:"course_title"`
		StudentName string `json:"student_name"`
		ImageURL    string `json:"image_url"`
	}

	latestStudents := make([]EnrolledStudent, 0, len(latest))
	for _, enrollment := range latest {
		var student models.User
		if err := database.Database.Db.Select("id, name, image_url").Where("id = ?", enrollment.UserID).First(&student).Error; err != nil {
			continue
		}
		latestStudents = append(latestStudents, EnrolledStudent{
			CourseTitle: titles[enrollment.CourseID],
			StudentName: student.Name,
			ImageURL:    student.ImageURL,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard data fetched successfully!", fiber.Map{
		"total_courses":     len(courses),
		"total_enrollments": totalEnrollments,
		"latest_students":   latestStudents,
	})
}

// GetCourseStudents returns the enrolled-student roster for one of the
// educator's courses
func GetCourseStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.EducatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view students of your own courses!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	studentIDs := make([]uint, len(enrollments))
	for i, enrollment := range enrollments {
		studentIDs[i] = enrollment.UserID
	}

	var students []models.User
	if len(studentIDs) > 0 {
		database.Database.Db.Select("id, name, email, image_url").Where("id IN ?", studentIDs).Find(&students)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", fiber.Map{
		"course_title": course.Title,
		"students":     students,
	})
}

// UploadLectureDocument attaches an uploaded document to a lecture of the
// educator's course
func UploadLectureDocument(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lectureID := c.Locals("lectureID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.EducatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only modify your own courses!", nil)
	}

	var lecture courseModels.Lecture
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lectureID, courseID, false).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lecture does not belong to this course!", nil)
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Document not attached!", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read document!", nil)
	}
	defer file.Close()

	docBytes, err := io.ReadAll(file)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read document!", nil)
	}

	upload, err := utils.UploadBuffer(docBytes, fileHeader.Filename)
	if err != nil {
		log.Printf("Error uploading lecture document: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload document!", nil)
	}

	lecture.FileURL = upload.SecureURL
	lecture.FileName = fileHeader.Filename
	if err := database.Database.Db.Save(&lecture).Error; err != nil {
		log.Printf("Error saving lecture %d: %v", lectureID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document uploaded successfully!", lecture)
}
