package app

import (
	"bytes"
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/internal/testsupport"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Mail:      config.MailConfig{Provider: "log"},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := testsupport.NewTestDB(t)
	a := &App{Config: cfg, DB: db, ctx: ctx, cancel: cancel}
	repos := a.initRepositories(db)
	services := a.initServices(repos, cfg, nil)
	controllers := a.initControllers(services, db, nil)

	router := gin.New()
	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, controllers, cfg)

	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, apiResponse) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w.Code, resp
}

func (s *testServer) decode(resp apiResponse, v interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(resp.Data, v), "data: %s", string(resp.Data))
}

type account struct {
	ID    uint
	Token string
}

func (s *testServer) signUp(name, role string) account {
	s.t.Helper()

	email := name + "@example.com"
	code, _ := s.do(http.MethodPost, "/api/users/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(s.t, http.StatusCreated, code)

	code, resp := s.do(http.MethodPost, "/api/users/login", "", gin.H{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusOK, code)

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	s.decode(resp, &login)
	return account{ID: login.User.ID, Token: login.Token}
}

func TestRouter_LearningFlow(t *testing.T) {
	s := newTestServer(t)

	instructor := s.signUp("instructor", "instructor")
	alice := s.signUp("alice", "student")
	bob := s.signUp("bob", "")

	// 课程与内容
	code, _ := s.do(http.MethodPost, "/api/courses", alice.Token, gin.H{"title": "nope"})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(http.MethodPost, "/api/courses", instructor.Token, gin.H{"title": "Go 并发", "description": "goroutine 与 channel"})
	require.Equal(t, http.StatusCreated, code)
	var course struct {
		ID           uint `json:"id"`
		InstructorID uint `json:"instructor_id"`
	}
	s.decode(resp, &course)
	assert.Equal(t, instructor.ID, course.InstructorID)

	contentIDs := make([]uint, 0, 2)
	for i := 1; i <= 2; i++ {
		code, resp = s.do(http.MethodPost, "/api/course-content", instructor.Token, gin.H{
			"course_id": course.ID,
			"type":      "text",
			"content":   gin.H{"body": fmt.Sprintf("lesson %d", i)},
			"order":     i,
		})
		require.Equal(t, http.StatusCreated, code)
		var item struct {
			ID uint `json:"id"`
		}
		s.decode(resp, &item)
		contentIDs = append(contentIDs, item.ID)
	}

	code, _ = s.do(http.MethodPost, "/api/course-content", instructor.Token, gin.H{
		"course_id": 9999, "type": "text", "content": gin.H{}, "order": 1,
	})
	assert.Equal(t, http.StatusNotFound, code)

	// 报名
	for _, u := range []account{alice, bob} {
		code, _ = s.do(http.MethodPost, "/api/enrollments", u.Token, gin.H{"user_id": u.ID, "course_id": course.ID})
		require.Equal(t, http.StatusCreated, code)
	}
	code, resp = s.do(http.MethodPost, "/api/enrollments", alice.Token, gin.H{"user_id": alice.ID, "course_id": course.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already enrolled in the course", resp.Message)

	// 学习进度
	for _, id := range contentIDs {
		code, _ = s.do(http.MethodPost, "/api/progress", alice.Token, gin.H{"course_id": course.ID, "content_id": id, "time_spent": 60})
		require.Equal(t, http.StatusCreated, code)
	}
	code, resp = s.do(http.MethodPost, "/api/progress", alice.Token, gin.H{"course_id": course.ID, "content_id": contentIDs[0]})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Content already marked as completed", resp.Message)

	code, _ = s.do(http.MethodPost, "/api/progress", alice.Token, gin.H{"user_id": bob.ID, "course_id": course.ID, "content_id": contentIDs[0]})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/progress", instructor.Token, gin.H{"user_id": bob.ID, "course_id": course.ID, "content_id": contentIDs[0], "time_spent": 30})
	require.Equal(t, http.StatusCreated, code)

	// 统计
	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/analytics/completion/%d/%d", alice.ID, course.ID), alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"completionPercentage":100}`, string(resp.Data))

	code, _ = s.do(http.MethodGet, fmt.Sprintf("/api/analytics/completion/%d/%d", bob.ID, course.ID), alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/analytics/completion-rate/%d", course.ID), bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"completionRate":50}`, string(resp.Data))

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/analytics/time/%d", course.ID), instructor.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"totalTimeSpent":150,"averageTimeSpent":50}`, string(resp.Data))

	code, _ = s.do(http.MethodGet, "/api/analytics/engagement", alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(http.MethodGet, "/api/analytics/engagement", instructor.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"activeUsers":2,"interactionsPerUser":1.5}`, string(resp.Data))

	code, resp = s.do(http.MethodGet, "/api/analytics/popular", alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, fmt.Sprintf(`[{"course_id":%d,"enrollment_count":2}]`, course.ID), string(resp.Data))

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/analytics/content-popularity/%d", course.ID), instructor.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, fmt.Sprintf(`[{"content_id":%d,"interactions":2},{"content_id":%d,"interactions":1}]`, contentIDs[0], contentIDs[1]), string(resp.Data))

	code, resp = s.do(http.MethodGet, "/api/analytics/retention", instructor.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var retention struct {
		RetentionRate int `json:"retentionRate"`
		UserRetention []struct {
			UserID   uint `json:"user_id"`
			IsActive bool `json:"isActive"`
		} `json:"userRetention"`
	}
	s.decode(resp, &retention)
	assert.Equal(t, 100, retention.RetentionRate)
	assert.Len(t, retention.UserRetention, 2)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/analytics/progress-over-time/%d/%d", alice.ID, course.ID), alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var timeline []struct {
		ContentID uint `json:"content_id"`
		TimeSpent int  `json:"time_spent"`
	}
	s.decode(resp, &timeline)
	assert.Len(t, timeline, 2)

	// 精选课程包含无人报名的课程
	code, _ = s.do(http.MethodPost, "/api/courses", instructor.Token, gin.H{"title": "冷门课程"})
	require.Equal(t, http.StatusCreated, code)
	code, resp = s.do(http.MethodGet, "/api/courses/featured", bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var featured []struct {
		ID          uint  `json:"id"`
		Enrollments int64 `json:"enrollments"`
	}
	s.decode(resp, &featured)
	require.Len(t, featured, 2)
	assert.Equal(t, course.ID, featured[0].ID)
	assert.Equal(t, int64(0), featured[1].Enrollments)
}

func TestRouter_NotificationsAndDashboard(t *testing.T) {
	s := newTestServer(t)

	instructor := s.signUp("instructor", "instructor")
	alice := s.signUp("alice", "student")
	bob := s.signUp("bob", "student")

	code, _ := s.do(http.MethodPost, "/api/notifications", alice.Token, gin.H{"user_id": bob.ID, "message": "hi"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/notifications", instructor.Token, gin.H{"user_id": 9999, "message": "hi"})
	assert.Equal(t, http.StatusNotFound, code)

	code, resp := s.do(http.MethodPost, "/api/notifications", instructor.Token, gin.H{"user_id": alice.ID, "message": "作业已批改"})
	require.Equal(t, http.StatusCreated, code)
	var notification struct {
		ID uint `json:"id"`
	}
	s.decode(resp, &notification)

	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", notification.ID), bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", notification.ID), alice.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, fmt.Sprintf("/api/dashboard/%d", alice.ID), bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/dashboard/%d", alice.ID), alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var dashboard struct {
		Courses       []json.RawMessage `json:"courses"`
		Notifications []struct {
			Message string `json:"message"`
			IsRead  bool   `json:"is_read"`
		} `json:"notifications"`
	}
	s.decode(resp, &dashboard)
	assert.Empty(t, dashboard.Courses)
	require.Len(t, dashboard.Notifications, 1)
	assert.Equal(t, "作业已批改", dashboard.Notifications[0].Message)
	assert.True(t, dashboard.Notifications[0].IsRead)
}

func TestRouter_AuthAndValidation(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/api/analytics/popular", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/api/analytics/popular", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/users/register", "", gin.H{"name": "x", "email": "bad", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, code)

	s.signUp("carol", "student")
	code, resp := s.do(http.MethodPost, "/api/users/register", "", gin.H{"name": "carol", "email": "carol@example.com", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already exists", resp.Message)

	code, _ = s.do(http.MethodPost, "/api/users/login", "", gin.H{"email": "carol@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/courses/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/courses/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_Users(t *testing.T) {
	s := newTestServer(t)

	admin := s.signUp("root", "admin")
	alice := s.signUp("alice", "student")

	code, _ := s.do(http.MethodGet, "/api/users", alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(http.MethodGet, "/api/users", admin.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var users []struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	s.decode(resp, &users)
	assert.Len(t, users, 2)
	assert.NotContains(t, string(resp.Data), "password")

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/users/user/%d", alice.ID), alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var user struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	s.decode(resp, &user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "student", user.Role)

	code, _ = s.do(http.MethodGet, "/api/users/user/9999", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/users/email?email=alice@example.com", alice.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/users/email", alice.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
