package courseController_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseRoutes "lms/routers/courseRoutes"
)

func setupCatalogApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	return app, db
}

func seedCourseWithLectures(t *testing.T, db *gorm.DB) (courseModels.Course, []courseModels.Lecture) {
	t.Helper()

	course := courseModels.Course{Title: "Preview Course", IsPublished: true, EducatorID: 50, Price: 10}
	require.NoError(t, db.Create(&course).Error)

	chapter := courseModels.Chapter{CourseID: course.ID, PublicID: uuid.NewString(), Title: "Intro"}
	require.NoError(t, db.Create(&chapter).Error)

	free := courseModels.Lecture{
		ChapterID: chapter.ID, CourseID: course.ID, PublicID: uuid.NewString(),
		Title: "Free lecture", VideoURL: "https://vid.example/free", IsPreviewFree: true,
	}
	paid := courseModels.Lecture{
		ChapterID: chapter.ID, CourseID: course.ID, PublicID: uuid.NewString(),
		Title: "Paid lecture", VideoURL: "https://vid.example/paid", IsPreviewFree: false,
	}
	require.NoError(t, db.Create(&free).Error)
	require.NoError(t, db.Create(&paid).Error)
	return course, []courseModels.Lecture{free, paid}
}

// seedUser inserts a visitor-style user and returns it with a bearer token
func seedUser(t *testing.T, db *gorm.DB, name, email string) (models.User, string) {
	t.Helper()

	user := models.User{Name: name, Email: &email, Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, email)
	require.NoError(t, err)
	return user, token
}

// fetchDetails requests course details, anonymously when token is empty
func fetchDetails(t *testing.T, app *fiber.App, token string, courseID uint) (int, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest("GET", fmt.Sprintf("/course/%d", courseID), nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope struct {
		Status bool                       `json:"status"`
		Data   map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope.Data
}

type chapterPayload struct {
	Title    string `json:"title"`
	Lectures []struct {
		Title         string `json:"title"`
		VideoURL      string `json:"video_url"`
		IsPreviewFree bool   `json:"is_preview_free"`
	} `json:"lectures"`
}

func TestCourseDetailsHidesPaidLectureURLs(t *testing.T) {
	app, db := setupCatalogApp(t)
	course, _ := seedCourseWithLectures(t, db)

	_, token := seedUser(t, db, "Visitor", "v@example.com")

	code, data := fetchDetails(t, app, token, course.ID)
	require.Equal(t, 200, code)

	var content []chapterPayload
	require.NoError(t, json.Unmarshal(data["course_content"], &content))
	require.Len(t, content, 1)
	require.Len(t, content[0].Lectures, 2)

	for _, lecture := range content[0].Lectures {
		if lecture.IsPreviewFree {
			assert.Equal(t, "https://vid.example/free", lecture.VideoURL)
		} else {
			assert.Empty(t, lecture.VideoURL)
		}
	}
}

func TestCourseDetailsShowsURLsToEnrolledStudent(t *testing.T) {
	app, db := setupCatalogApp(t)
	course, _ := seedCourseWithLectures(t, db)

	student, token := seedUser(t, db, "Student", "s@example.com")
	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: student.ID, CourseID: course.ID}).Error)

	code, data := fetchDetails(t, app, token, course.ID)
	require.Equal(t, 200, code)

	var content []chapterPayload
	require.NoError(t, json.Unmarshal(data["course_content"], &content))
	for _, lecture := range content[0].Lectures {
		assert.NotEmpty(t, lecture.VideoURL)
	}

	var isEnrolled bool
	require.NoError(t, json.Unmarshal(data["is_enrolled"], &isEnrolled))
	assert.True(t, isEnrolled)
}

func TestCourseDetailsRatingAggregate(t *testing.T) {
	app, db := setupCatalogApp(t)
	course, _ := seedCourseWithLectures(t, db)

	require.NoError(t, db.Create(&courseModels.CourseRating{UserID: 1, CourseID: course.ID, Rating: 5}).Error)
	require.NoError(t, db.Create(&courseModels.CourseRating{UserID: 2, CourseID: course.ID, Rating: 2}).Error)

	_, token := seedUser(t, db, "Visitor", "v@example.com")

	code, data := fetchDetails(t, app, token, course.ID)
	require.Equal(t, 200, code)

	var avg float64
	require.NoError(t, json.Unmarshal(data["rating_average"], &avg))
	assert.InDelta(t, 3.5, avg, 0.001)

	var count int64
	require.NoError(t, json.Unmarshal(data["rating_count"], &count))
	assert.Equal(t, int64(2), count)
}

func TestUnpublishedCourseNotFound(t *testing.T) {
	app, db := setupCatalogApp(t)

	course := courseModels.Course{Title: "Draft", IsPublished: false, EducatorID: 50}
	require.NoError(t, db.Create(&course).Error)

	_, token := seedUser(t, db, "Visitor", "v@example.com")

	code, _ := fetchDetails(t, app, token, course.ID)
	assert.Equal(t, 404, code)
}

func TestCatalogIsPublic(t *testing.T) {
	app, db := setupCatalogApp(t)
	course, _ := seedCourseWithLectures(t, db)

	// Listing without any Authorization header
	req := httptest.NewRequest("GET", "/course/list", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	// Details without a token still apply the preview rule
	code, data := fetchDetails(t, app, "", course.ID)
	require.Equal(t, 200, code)

	var content []chapterPayload
	require.NoError(t, json.Unmarshal(data["course_content"], &content))
	require.Len(t, content, 1)
	for _, lecture := range content[0].Lectures {
		if lecture.IsPreviewFree {
			assert.Equal(t, "https://vid.example/free", lecture.VideoURL)
		} else {
			assert.Empty(t, lecture.VideoURL)
		}
	}

	var isEnrolled bool
	require.NoError(t, json.Unmarshal(data["is_enrolled"], &isEnrolled))
	assert.False(t, isEnrolled)

	// A presented token must still verify
	req = httptest.NewRequest("GET", "/course/list", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}
