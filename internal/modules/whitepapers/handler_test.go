package whitepapers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"formatech/internal/database"
	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:whitepapers_%s?mode=memory&cache=shared", t.Name()), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	router := gin.New()
	NewHandler(NewService(repository.NewWhitepaperRepository(db))).RegisterRoutes(router.Group("/api"))
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "guide-opco-2024.pdf", FileName("Guide  OPCO\t2024"))
	assert.Equal(t, "formation.pdf", FileName(" Formation "))
}

func TestWhitepaperLifecycle(t *testing.T) {
	router := setupRouter(t)

	code, env := perform(t, router, http.MethodPost, "/api/whitepapers", gin.H{
		"title": "Guide du Plan de Développement", "file_url": "https://cdn.formatech.fr/guide.pdf",
	})
	require.Equal(t, http.StatusCreated, code)
	var w domain.Whitepaper
	require.NoError(t, json.Unmarshal(env.Data, &w))
	assert.Equal(t, "guide-du-plan-de-développement.pdf", w.FileName)

	code, env = perform(t, router, http.MethodPut, "/api/whitepapers/"+w.ID, gin.H{
		"title": "Guide", "file_url": "https://cdn.formatech.fr/v2.pdf", "file_name": "custom.pdf",
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &w))
	assert.Equal(t, "custom.pdf", w.FileName)
	assert.Equal(t, "https://cdn.formatech.fr/v2.pdf", w.FileURL)

	code, env = perform(t, router, http.MethodGet, "/api/whitepapers", nil)
	require.Equal(t, http.StatusOK, code)
	var list []domain.Whitepaper
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, _ = perform(t, router, http.MethodDelete, "/api/whitepapers/"+w.ID, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = perform(t, router, http.MethodGet, "/api/whitepapers/"+w.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, _ = perform(t, router, http.MethodDelete, "/api/whitepapers/"+w.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateWhitepaperValidation(t *testing.T) {
	router := setupRouter(t)

	code, env := perform(t, router, http.MethodPost, "/api/whitepapers", gin.H{"file_url": "not a url"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "required", env.Error.Details["title"])
	assert.Equal(t, "url", env.Error.Details["file_url"])

	code, env = perform(t, router, http.MethodGet, "/api/whitepapers", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(env.Data))
}
