package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qatrack/database"
	"qatrack/database/model"
	"qatrack/storage"
	"qatrack/web/entity"
	"qatrack/web/middleware"
	"qatrack/web/service"
)

// newTestAPI wires the API the same way the server does, on a fresh SQLite
// database, and returns the engine.
func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, database.InitTestDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { _ = database.CloseDB() })

	store := storage.NewGormStore(database.GetDB())
	authService := &service.AuthService{DB: database.GetDB(), JWTSecret: []byte("test-secret")}

	engine := gin.New()
	api := engine.Group("/api")
	api.Use(middleware.Audit())

	NewAuthController(api, authService)

	protected := api.Group("")
	protected.Use(middleware.TokenAuth(authService, false))

	export := api.Group("")
	export.Use(middleware.TokenAuth(authService, true))

	NewReportController(protected, export, service.NewReportService(store), service.NewExportService(store))
	NewAuditController(protected)
	NewServerController(protected)

	return engine
}

func idPath(id int64) string {
	return strconv.FormatInt(id, 10)
}

func doJSON(engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, engine *gin.Engine) string {
	t.Helper()

	w := doJSON(engine, http.MethodPost, "/api/register", "", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Id       int64  `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.Id)
	assert.Equal(t, "alice", created.Username)

	w = doJSON(engine, http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestLoginFailures(t *testing.T) {
	engine := newTestAPI(t)
	registerAndLogin(t, engine)

	w := doJSON(engine, http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token")

	w = doJSON(engine, http.MethodPost, "/api/login", "", gin.H{"username": "nobody", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/register", "", gin.H{"username": "alice", "password": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestAPI(t)

	w := doJSON(engine, http.MethodGet, "/api/reports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/reports", "malformed.token.here", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The query form is accepted only on the export route.
	req := httptest.NewRequest(http.MethodGet, "/api/reports?token=whatever", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportCrudFlow(t *testing.T) {
	engine := newTestAPI(t)
	token := registerAndLogin(t, engine)

	w := doJSON(engine, http.MethodPost, "/api/reports", token, gin.H{
		"reporte": "Bug1", "fecha": "2024-01-01", "solicitud": "Req1", "proyecto": "ProjX",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.Id)
	assert.Equal(t, "Pendiente", created.Estado)
	assert.Equal(t, "", created.Resultado)

	// Missing required field: rejected, collection unchanged.
	w = doJSON(engine, http.MethodPost, "/api/reports", token, gin.H{
		"reporte": "Bug2", "solicitud": "Req2", "proyecto": "ProjX",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Campos obligatorios faltantes")

	w = doJSON(engine, http.MethodGet, "/api/reports", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []model.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	// Partial patch changes only the supplied field.
	id := idPath(created.Id)
	w = doJSON(engine, http.MethodPut, "/api/reports/"+id, token, gin.H{"estado": "Resuelto"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Resuelto", updated.Estado)
	assert.Equal(t, "Bug1", updated.Reporte)
	assert.Equal(t, "2024-01-01", updated.Fecha)

	w = doJSON(engine, http.MethodPut, "/api/reports/999", token, gin.H{"estado": "Resuelto"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Reporte no encontrado")

	w = doJSON(engine, http.MethodDelete, "/api/reports/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(engine, http.MethodDelete, "/api/reports/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMutationsAppendAuditEntries(t *testing.T) {
	engine := newTestAPI(t)
	token := registerAndLogin(t, engine)

	w := doJSON(engine, http.MethodPost, "/api/reports", token, gin.H{
		"reporte": "Bug1", "fecha": "2024-01-01", "solicitud": "Req1", "proyecto": "ProjX",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/bitacora", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data       []model.AuditEntry `json:"data"`
		Pagination entity.Pagination  `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))

	require.NotEmpty(t, page.Data)
	assert.Equal(t, "alice", page.Data[0].Username)
	assert.Equal(t, "CREATE", page.Data[0].Detail)
	assert.Equal(t, "/api/reports", page.Data[0].Endpoint)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 20, page.Pagination.Limit)

	// A rejected request shows up in the error trail.
	w = doJSON(engine, http.MethodPost, "/api/reports", token, gin.H{"reporte": "Bug2"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/auditoria-errores", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.NotEmpty(t, page.Data)
	assert.Equal(t, model.AuditError, page.Data[0].Kind)
}

func TestExportExcelRoute(t *testing.T) {
	engine := newTestAPI(t)
	token := registerAndLogin(t, engine)

	w := doJSON(engine, http.MethodPost, "/api/reports", token, gin.H{
		"reporte": "Bug1", "fecha": "2024-01-01", "solicitud": "Req1", "proyecto": "ProjX",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Header auth.
	w = doJSON(engine, http.MethodGet, "/api/export-excel", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reportes.xlsx")

	// Query token, the form the download link uses.
	req := httptest.NewRequest(http.MethodGet, "/api/export-excel?token="+token, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/export-excel", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusRoute(t *testing.T) {
	engine := newTestAPI(t)
	token := registerAndLogin(t, engine)

	w := doJSON(engine, http.MethodGet, "/api/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status service.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.NotEmpty(t, status.Version)
}
