package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type fakeMedia struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (f *fakeMedia) UploadImage(_ context.Context, data []byte, filename string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filename)
	f.mu.Unlock()

	if f.fail {
		return "", errs.NewExternalServiceError("cloudinary", "Cloudinary upload failed (status 500): boom", nil)
	}
	// the first file finishes last so ordering cannot come from completion order
	if string(data) == "first" {
		time.Sleep(20 * time.Millisecond)
	}
	return "https://cdn.test/" + string(data), nil
}

func (f *fakeMedia) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testServer struct {
	handler   http.Handler
	db        *gorm.DB
	uploadDir string
	media     *fakeMedia
}

func newTestServer(t *testing.T, extra map[string]string) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.Migrate(db))

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	c := map[string]string{"UPLOAD_DIR": uploadDir}
	for k, v := range extra {
		c[k] = v
	}

	media := &fakeMedia{}
	return &testServer{
		handler:   newRouter(database.New(db), media, withConfig(c)),
		db:        db,
		uploadDir: uploadDir,
		media:     media,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) doJSON(t *testing.T, method, path, body string) (int, envelope) {
	return s.do(t, method, path, strings.NewReader(body), "application/json")
}

func TestEmployeeEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.doJSON(t, http.MethodPost, "/api/employees", `{"name":"Ada","position":"Engineer","email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Employee added successfully", env.Message)

	var created models.Employee
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Ada", created.Name)

	code, env = s.doJSON(t, http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1 employees found", env.Message)

	code, env = s.doJSON(t, http.MethodGet, "/api/employees/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee found", env.Message)

	code, env = s.doJSON(t, http.MethodPut, "/api/employees/"+created.ID.String(), `{"position":"CTO","email":null}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee updated successfully", env.Message)
	var updated models.Employee
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "CTO", updated.Position)
	assert.Equal(t, "ada@example.com", updated.Email)

	code, env = s.doJSON(t, http.MethodDelete, "/api/employees/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee deleted successfully", env.Message)
	assert.Equal(t, "null", string(env.Data))

	code, env = s.doJSON(t, http.MethodDelete, "/api/employees/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Employee not found", env.Message)

	code, env = s.doJSON(t, http.MethodGet, "/api/employees/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Employee not found", env.Message)

	code, _ = s.doJSON(t, http.MethodPut, "/api/employees/"+created.ID.String(), `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEmployeeEndpoints_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.doJSON(t, http.MethodGet, "/api/employees/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "null", string(env.Data))

	code, env = s.doJSON(t, http.MethodPost, "/api/employees", `{"name":"Ada","position":"Engineer"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing required field: email", env.Message)

	code, env = s.doJSON(t, http.MethodPost, "/api/employees", `{"name":"  ","position":"Engineer","email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing required field: name", env.Message)

	code, _ = s.doJSON(t, http.MethodPost, "/api/employees", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)

	var count int64
	require.NoError(t, s.db.Model(&models.Employee{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProjectEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.doJSON(t, http.MethodPost, "/api/projects", `{"name":"Bridge","description":"d","images":[],"category":"web"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "At least one image is required", env.Message)
	var count int64
	require.NoError(t, s.db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)

	var ids []string
	for _, body := range []string{
		`{"name":"A","description":"d","images":["https://cdn.test/a.png"],"category":"web"}`,
		`{"name":"B","description":"d","images":["https://cdn.test/b.png"],"category":"mobile"}`,
	} {
		code, env := s.doJSON(t, http.MethodPost, "/api/projects", body)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Project added successfully", env.Message)
		var p models.Project
		require.NoError(t, json.Unmarshal(env.Data, &p))
		ids = append(ids, p.ID.String())
	}

	code, env = s.doJSON(t, http.MethodGet, "/api/projects", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2 projects found", env.Message)

	code, env = s.doJSON(t, http.MethodGet, "/api/projects?category=web", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1 projects found", env.Message)
	var web []models.Project
	require.NoError(t, json.Unmarshal(env.Data, &web))
	require.Len(t, web, 1)
	assert.Equal(t, ids[0], web[0].ID.String())

	code, env = s.doJSON(t, http.MethodGet, "/api/projects?category=none", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0 projects found", env.Message)
	assert.Equal(t, "[]", string(env.Data))

	code, env = s.doJSON(t, http.MethodPut, "/api/projects/"+ids[1], `{"images":["https://cdn.test/c.png","https://cdn.test/d.png"]}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Project updated successfully", env.Message)
	var updated models.Project
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.ImageList{"https://cdn.test/c.png", "https://cdn.test/d.png"}, updated.Images)
	assert.Equal(t, "B", updated.Name)

	code, env = s.doJSON(t, http.MethodGet, "/api/projects/"+ids[1], "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Project found", env.Message)

	code, env = s.doJSON(t, http.MethodDelete, "/api/projects/"+ids[1], "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Project deleted successfully", env.Message)

	code, env = s.doJSON(t, http.MethodDelete, "/api/projects/"+ids[1], "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Project not found", env.Message)
}

type formPart struct {
	field    string
	filename string
	content  string
}

func multipartBody(t *testing.T, parts ...formPart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, w.WriteField(p.field, p.content))
			continue
		}
		fw, err := w.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadImage_Local(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t, formPart{field: "file", filename: "my photo.png", content: "png-bytes"})
	code, env := s.do(t, http.MethodPost, "/api/projects/upload", body, contentType)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Image uploaded successfully", env.Message)

	var uploaded models.UploadedFile
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	assert.Equal(t, "my_photo.png", uploaded.Filename)
	assert.Equal(t, "/uploads/my_photo.png", uploaded.URL)

	stored, err := os.ReadFile(filepath.Join(s.uploadDir, "my_photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(stored))

	req := httptest.NewRequest(http.MethodGet, uploaded.URL, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestUploadImage_NoFile(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t)
	code, env := s.do(t, http.MethodPost, "/api/projects/upload", body, contentType)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No file uploaded", env.Message)
}

func TestUploadImage_TooLarge(t *testing.T) {
	s := newTestServer(t, map[string]string{"MAX_UPLOAD_BYTES": "512"})

	body, contentType := multipartBody(t, formPart{field: "file", filename: "big.png", content: strings.Repeat("x", 8192)})
	code, _ := s.do(t, http.MethodPost, "/api/projects/upload", body, contentType)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)

	_, err := os.Stat(filepath.Join(s.uploadDir, "big.png"))
	assert.True(t, os.IsNotExist(err))

	code, _ = s.doJSON(t, http.MethodPost, "/api/employees", `{"name":"`+strings.Repeat("x", 2048)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
}

func TestUploadImage_WriteFailureHidesPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	s := newTestServer(t, map[string]string{"UPLOAD_DIR": blocker})

	body, contentType := multipartBody(t, formPart{field: "file", filename: "a.png", content: "png-bytes"})
	code, env := s.do(t, http.MethodPost, "/api/projects/upload", body, contentType)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to store uploaded file", env.Message)
	assert.NotContains(t, env.Message, blocker)
}

func TestCreateWithUpload(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t,
		formPart{field: "name", content: "Gallery"},
		formPart{field: "file", filename: "a.png", content: "first"},
		formPart{field: "description", content: "Photos"},
		formPart{field: "images", filename: "b.jpg", content: "second"},
		formPart{field: "ignored", content: "whatever"},
		formPart{field: "files", filename: "c", content: "third"},
		formPart{field: "category", content: "art"},
	)
	code, env := s.do(t, http.MethodPost, "/api/projects/create-with-upload", body, contentType)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Project created successfully with uploaded images", env.Message)

	var p models.Project
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Gallery", p.Name)
	assert.Equal(t, "Photos", p.Description)
	assert.Equal(t, "art", p.Category)
	assert.Equal(t, models.ImageList{"https://cdn.test/first", "https://cdn.test/second", "https://cdn.test/third"}, p.Images)

	require.Equal(t, 3, s.media.callCount())
	for _, name := range s.media.calls {
		assert.Regexp(t, `^[0-9a-f-]{36}_00[0-2]_\d+\.(png|jpg)$`, name)
	}
}

func TestCreateWithUpload_MissingCategoryUploadsNothing(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t,
		formPart{field: "name", content: "Gallery"},
		formPart{field: "description", content: "Photos"},
		formPart{field: "file", filename: "a.png", content: "first"},
	)
	code, env := s.do(t, http.MethodPost, "/api/projects/create-with-upload", body, contentType)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, missingUploadFieldsMessage, env.Message)
	assert.Zero(t, s.media.callCount())

	body, contentType = multipartBody(t,
		formPart{field: "name", content: "Gallery"},
		formPart{field: "description", content: "Photos"},
		formPart{field: "category", content: "art"},
	)
	code, _ = s.do(t, http.MethodPost, "/api/projects/create-with-upload", body, contentType)
	assert.Equal(t, http.StatusBadRequest, code)

	var count int64
	require.NoError(t, s.db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateWithUpload_RejectsOversizedTextField(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t,
		formPart{field: "name", content: strings.Repeat("n", maxTextFieldBytes+100)},
		formPart{field: "description", content: "Photos"},
		formPart{field: "category", content: "art"},
		formPart{field: "file", filename: "a.png", content: "first"},
	)
	code, env := s.do(t, http.MethodPost, "/api/projects/create-with-upload", body, contentType)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid field name: too long", env.Message)
	assert.Zero(t, s.media.callCount())

	var count int64
	require.NoError(t, s.db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateWithUpload_BlankFieldMatchesJSONCreate(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t,
		formPart{field: "name", content: "   "},
		formPart{field: "description", content: "Photos"},
		formPart{field: "category", content: "art"},
		formPart{field: "file", filename: "a.png", content: "first"},
	)
	code, env := s.do(t, http.MethodPost, "/api/projects/create-with-upload", body, contentType)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, missingUploadFieldsMessage, env.Message)

	code, env = s.doJSON(t, http.MethodPost, "/api/projects", `{"name":"   ","description":"Photos","images":["https://cdn.test/a.png"],"category":"art"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing required field: name", env.Message)
	assert.Zero(t, s.media.callCount())
}

func TestCreateWithUpload_MediaFailure(t *testing.T) {
	s := newTestServer(t, nil)
	s.media.fail = true

	body, contentType := multipartBody(t,
		formPart{field: "name", content: "Gallery"},
		formPart{field: "description", content: "Photos"},
		formPart{field: "category", content: "art"},
		formPart{field: "file", filename: "a.png", content: "first"},
	)
	code, env := s.do(t, http.MethodPost, "/api/projects/create-with-upload", body, contentType)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, env.Message, "Cloudinary upload failed")

	var count int64
	require.NoError(t, s.db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, map[string]string{"ACCEPTED_ORIGINS": "http://allowed.test"})

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)

	req = httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://allowed.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://allowed.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.doJSON(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"database":"up"`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
