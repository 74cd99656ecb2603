package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandonopened/aitaskanalysis/internal/constants"
	"github.com/brandonopened/aitaskanalysis/internal/database"
	"github.com/brandonopened/aitaskanalysis/internal/dto"
	"github.com/brandonopened/aitaskanalysis/internal/middleware"
	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/brandonopened/aitaskanalysis/internal/repository"
	"github.com/brandonopened/aitaskanalysis/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newAPIRouter wires the full route table the way cmd/server does, with a
// cookie session store and a stub annotator.
func newAPIRouter(t *testing.T, annotator services.Annotator) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Organization{}, &models.User{}, &models.Task{}))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	aggRepo := repository.NewAggregateRepository(db)

	authHandler := NewAuthHandler(services.NewAuthService(userRepo))
	taskHandler := NewTaskHandler(services.NewTaskService(taskRepo, annotator, zap.NewNop()))
	adminHandler := NewAdminHandler(services.NewAdminService(userRepo, orgRepo, aggRepo))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	authed.POST("/logout", authHandler.Logout)
	authed.GET("/user", authHandler.GetCurrentUser)
	authed.GET("/tasks", taskHandler.ListTasks)
	authed.POST("/tasks", taskHandler.CreateTask)
	authed.PATCH("/tasks/:id/priority", taskHandler.UpdatePriority)
	authed.PATCH("/tasks/:id/complete", taskHandler.SetCompleted)
	authed.DELETE("/tasks/:id", taskHandler.DeleteTask)
	authed.GET("/tasks/:id/ai-details", taskHandler.GetAIDetails)
	authed.POST("/tasks/analyze", taskHandler.AnalyzeTasks)
	authed.GET("/tasks/stats", taskHandler.GetStats)

	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/organizations", adminHandler.ListOrganizations)
	admin.PATCH("/admin/users/:id", adminHandler.UpdateUser)
	admin.GET("/admin/stats", adminHandler.GetStats)

	return r
}

// doJSON performs a request carrying the session cookies collected so far.
func doJSON(t *testing.T, r *gin.Engine, method, url string, payload interface{}, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Result().Cookies(); len(got) > 0 {
		cookies = got
	}
	return w, cookies
}

func TestEndToEnd_RegisterLoginCreateAnalyze(t *testing.T) {
	r := newAPIRouter(t, &stubAnnotator{})

	w, cookies := doJSON(t, r, http.MethodPost, "/api/register",
		map[string]string{"username": "alice", "password": "secret-one"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, cookies = doJSON(t, r, http.MethodPost, "/api/login",
		map[string]string{"username": "alice", "password": "secret-one"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, cookies)

	w, cookies = doJSON(t, r, http.MethodPost, "/api/tasks",
		map[string]string{"description": "write report", "priority": "medium"}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w, cookies = doJSON(t, r, http.MethodGet, "/api/tasks", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, "write report", tasks[0].Description)
	require.Equal(t, models.AIPotentialPending, tasks[0].AIPotential)

	w, cookies = doJSON(t, r, http.MethodPost, "/api/tasks/analyze", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	require.Contains(t, []models.AIPotential{
		models.AIPotentialNone, models.AIPotentialSome, models.AIPotentialAdvanced,
	}, tasks[0].AIPotential)
	require.NotNil(t, tasks[0].CoachingTips)
	require.NotEmpty(t, *tasks[0].CoachingTips)

	// Session endpoints stay coherent through the flow.
	w, _ = doJSON(t, r, http.MethodGet, "/api/user", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestEndToEnd_UnauthenticatedRejected(t *testing.T) {
	r := newAPIRouter(t, &stubAnnotator{})

	w, _ := doJSON(t, r, http.MethodGet, "/api/tasks", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/admin/stats", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEndToEnd_LogoutDestroysSession(t *testing.T) {
	r := newAPIRouter(t, &stubAnnotator{})

	_, cookies := doJSON(t, r, http.MethodPost, "/api/register",
		map[string]string{"username": "alice", "password": "secret-one"}, nil)
	w, cookies := doJSON(t, r, http.MethodPost, "/api/login",
		map[string]string{"username": "alice", "password": "secret-one"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w, cookies = doJSON(t, r, http.MethodPost, "/api/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/user", nil, cookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
