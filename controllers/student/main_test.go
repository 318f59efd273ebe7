package studentController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	studentRoutes "lms/routers/studentRoutes"
)

// setupTestApp wires the student routes against a fresh in-memory database
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	studentRoutes.SetupStudentRoutes(app)
	return app, db
}

// createStudent inserts a student and returns it with a valid bearer token
func createStudent(t *testing.T, db *gorm.DB, email string) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:  "Test Student",
		Email: &email,
		Role:  models.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, email)
	require.NoError(t, err)
	return user, token
}

// createCourse inserts a published course with the given chapter/lecture
// layout and returns the course plus its lectures in order
func createCourse(t *testing.T, db *gorm.DB, lecturesPerChapter ...int) (courseModels.Course, []courseModels.Lecture) {
	t.Helper()

	course := courseModels.Course{
		Title:       "Go from Scratch",
		Description: "An introductory course",
		Price:       50,
		IsPublished: true,
		EducatorID:  999,
	}
	require.NoError(t, db.Create(&course).Error)

	var lectures []courseModels.Lecture
	for ci, count := range lecturesPerChapter {
		chapter := courseModels.Chapter{
			CourseID:   course.ID,
			PublicID:   uuid.NewString(),
			Title:      fmt.Sprintf("Chapter %d", ci+1),
			OrderIndex: ci,
		}
		require.NoError(t, db.Create(&chapter).Error)

		for li := 0; li < count; li++ {
			lecture := courseModels.Lecture{
				ChapterID:  chapter.ID,
				CourseID:   course.ID,
				PublicID:   uuid.NewString(),
				Title:      fmt.Sprintf("Lecture %d.%d", ci+1, li+1),
				OrderIndex: li,
			}
			require.NoError(t, db.Create(&lecture).Error)
			lectures = append(lectures, lecture)
		}
	}
	return course, lectures
}

// apiResponse is the shared JSON envelope
type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doRequest performs a request against the app and decodes the envelope
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func enroll(t *testing.T, app *fiber.App, token string, courseID uint) (int, apiResponse) {
	t.Helper()
	return doRequest(t, app, http.MethodPost, fmt.Sprintf("/student/course/%d/enroll", courseID), token, nil)
}

func completeLecture(t *testing.T, app *fiber.App, token string, courseID, lectureID uint) (int, apiResponse) {
	t.Helper()
	return doRequest(t, app, http.MethodPost, fmt.Sprintf("/student/course/%d/lecture/%d/complete", courseID, lectureID), token, nil)
}
