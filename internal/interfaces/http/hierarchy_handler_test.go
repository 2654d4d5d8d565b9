package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
	apphttp "github.com/expertzappdev/bizfree-backend/internal/interfaces/http"
)

// taskLookup solo responde GetByID; cualquier otro método entra en pánico.
type taskLookup struct {
	repository.TaskRepository
	rows map[int64]*entity.Task
}

func (f taskLookup) GetByID(_ context.Context, id int64) (*entity.Task, error) {
	if t, ok := f.rows[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func newHierarchyApp(t *testing.T) *fiber.App {
	t.Helper()
	list11 := int64(11)
	uc := hierarchy.NewHierarchyUseCase(hierarchy.Deps{
		Tasks: taskLookup{rows: map[int64]*entity.Task{
			50: {ID: 50, CompanyID: 7, ProjectID: 100, TaskListID: &list11, Title: "Planos"},
		}},
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		HierarchyUC: uc,
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path string, body interface{}, authHeader string) (*http.Response, dto.APIResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env dto.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestCreateSubTask_ListaDistintaAlPadreEs400(t *testing.T) {
	app := newHierarchyApp(t)
	// Escenario: la tarea 50 pertenece a la lista 11 y se envía la 12.
	body := map[string]interface{}{"ParentTaskId": 50, "TaskListId": 12, "Title": "Cotas"}

	resp, env := send(t, app, http.MethodPost, "/api/tasks/subtasks", body, tokenForRole(t, entity.RoleCompanyAdmin))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, env.Code)
	assert.False(t, env.Status)
}

func TestCreateSubTask_PadreInexistenteEs404(t *testing.T) {
	app := newHierarchyApp(t)
	token := tokenForRole(t, entity.RoleCompanyAdmin)

	resp, env := send(t, app, http.MethodPost, "/api/tasks/subtasks", map[string]interface{}{"parentTaskId": 999, "title": "x"}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, env.Code)
}

func TestHierarchyRoutes_RequierenToken(t *testing.T) {
	app := newHierarchyApp(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/projects"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodDelete, "/api/task-lists/11"},
		{http.MethodDelete, "/api/documents/70"},
		{http.MethodGet, "/api/task-statuses"},
	} {
		resp, env := send(t, app, tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
		assert.Equal(t, apphttp.CodeMissingToken, env.Code)
	}
}

func TestHierarchyRoutes_IDInvalidoEs400(t *testing.T) {
	app := newHierarchyApp(t)
	token := tokenForRole(t, entity.RoleCompanyAdmin)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/projects/abc"},
		{http.MethodGet, "/api/tasks/0"},
		{http.MethodDelete, "/api/tasks/-3"},
		{http.MethodGet, "/api/projects/x/report"},
	} {
		resp, env := send(t, app, tc.method, tc.path, nil, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s", tc.method, tc.path)
		assert.Equal(t, apphttp.CodeValidation, env.Code)
	}
}
