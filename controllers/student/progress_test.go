package studentController_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	courseModels "lms/models/course"
)

type progressPayload struct {
	AlreadyCompleted   bool   `json:"already_completed"`
	CompletedLectures  int    `json:"completed_lectures"`
	TotalLectures      int    `json:"total_lectures"`
	ProgressPercentage string `json:"progress_percentage"`
	Completed          bool   `json:"completed"`
}

func decodeProgress(t *testing.T, resp apiResponse) progressPayload {
	t.Helper()
	var payload progressPayload
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	return payload
}

func TestCompleteLectureIsIdempotent(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")
	course, lectures := createCourse(t, db, 2, 2)

	code, _ := enroll(t, app, token, course.ID)
	require.Equal(t, http.StatusOK, code)

	code, resp := completeLecture(t, app, token, course.ID, lectures[0].ID)
	require.Equal(t, http.StatusOK, code)
	first := decodeProgress(t, resp)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, 1, first.CompletedLectures)
	assert.Equal(t, 4, first.TotalLectures)
	assert.Equal(t, "25.00", first.ProgressPercentage)

	// Second completion of the same lecture succeeds but changes nothing
	code, resp = completeLecture(t, app, token, course.ID, lectures[0].ID)
	require.Equal(t, http.StatusOK, code)
	second := decodeProgress(t, resp)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, 1, second.CompletedLectures)
	assert.Equal(t, "25.00", second.ProgressPercentage)

	var completions int64
	db.Model(&courseModels.LectureCompletion{}).Where("course_id = ?", course.ID).Count(&completions)
	assert.Equal(t, int64(1), completions)
}

func TestCompleteAllLectures(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")
	course, lectures := createCourse(t, db, 2, 2)

	code, _ := enroll(t, app, token, course.ID)
	require.Equal(t, http.StatusOK, code)

	var last progressPayload
	for _, lecture := range lectures {
		code, resp := completeLecture(t, app, token, course.ID, lecture.ID)
		require.Equal(t, http.StatusOK, code)
		last = decodeProgress(t, resp)
	}

	assert.Equal(t, 4, last.CompletedLectures)
	assert.Equal(t, "100.00", last.ProgressPercentage)
	assert.True(t, last.Completed)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
}

func TestCompleteLectureInvalidReference(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")
	course, _ := createCourse(t, db, 2)
	otherCourse, otherLectures := createCourse(t, db, 1)

	code, _ := enroll(t, app, token, course.ID)
	require.Equal(t, http.StatusOK, code)

	// Lecture belongs to a different course
	code, resp := completeLecture(t, app, token, course.ID, otherLectures[0].ID)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Status)

	// Unknown course
	code, _ = completeLecture(t, app, token, otherCourse.ID+1000, otherLectures[0].ID)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCompleteLectureRequiresEnrollment(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")
	course, lectures := createCourse(t, db, 1)

	code, resp := completeLecture(t, app, token, course.ID, lectures[0].ID)
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, resp.Status)
}

// Editing course content changes the percentage denominator for everyone
// without any migration step.
func TestProgressTracksTopologyChanges(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")
	course, lectures := createCourse(t, db, 2)

	enroll(t, app, token, course.ID)
	code, resp := completeLecture(t, app, token, course.ID, lectures[0].ID)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "50.00", decodeProgress(t, resp).ProgressPercentage)

	// Educator adds two more lectures to the first chapter
	var chapter courseModels.Chapter
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&chapter).Error)
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&courseModels.Lecture{
			ChapterID:  chapter.ID,
			CourseID:   course.ID,
			PublicID:   uuid.NewString(),
			Title:      "Added later",
			OrderIndex: 10 + i,
		}).Error)
	}

	code, resp = doRequest(t, app, http.MethodGet, "/student/course/"+itoa(course.ID)+"/progress", token, nil)
	require.Equal(t, http.StatusOK, code)
	refreshed := decodeProgress(t, resp)
	assert.Equal(t, 1, refreshed.CompletedLectures)
	assert.Equal(t, 4, refreshed.TotalLectures)
	assert.Equal(t, "25.00", refreshed.ProgressPercentage)
	assert.False(t, refreshed.Completed)
}

func TestProgressZeroLectures(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")
	course, _ := createCourse(t, db) // no chapters, no lectures

	code, _ := enroll(t, app, token, course.ID)
	require.Equal(t, http.StatusOK, code)

	code, resp := doRequest(t, app, http.MethodGet, "/student/course/"+itoa(course.ID)+"/progress", token, nil)
	require.Equal(t, http.StatusOK, code)
	payload := decodeProgress(t, resp)
	assert.Equal(t, 0, payload.TotalLectures)
	assert.Equal(t, "0.00", payload.ProgressPercentage)
	assert.False(t, payload.Completed)
}

func TestGetAllProgress(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")

	// No records at all
	code, resp := doRequest(t, app, http.MethodGet, "/student/progress", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.Status)

	course1, lectures1 := createCourse(t, db, 2)
	course2, _ := createCourse(t, db, 3)
	enroll(t, app, token, course1.ID)
	enroll(t, app, token, course2.ID)
	completeLecture(t, app, token, course1.ID, lectures1[0].ID)

	code, resp = doRequest(t, app, http.MethodGet, "/student/progress", token, nil)
	require.Equal(t, http.StatusOK, code)

	var payload struct {
		Progress []progressPayload `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Len(t, payload.Progress, 2)
}

// A missing progress record for an enrolled student is repaired on write
// instead of surfacing as an error.
func TestSelfHealingProgress(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createStudent(t, db, "s1@example.com")
	course, lectures := createCourse(t, db, 2)

	code, _ := enroll(t, app, token, course.ID)
	require.Equal(t, http.StatusOK, code)

	// Simulate the partial-failure window: progress row vanished
	require.NoError(t, db.Unscoped().Where("course_id = ?", course.ID).Delete(&courseModels.CourseProgress{}).Error)

	code, resp := completeLecture(t, app, token, course.ID, lectures[0].ID)
	require.Equal(t, http.StatusOK, code)
	payload := decodeProgress(t, resp)
	assert.Equal(t, 1, payload.CompletedLectures)
	assert.Equal(t, "50.00", payload.ProgressPercentage)
}
