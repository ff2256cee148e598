package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/example/csv-analytics-demo/modules/analysis"
	"github.com/example/csv-analytics-demo/modules/dataset"
	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func newMockLogger() types.Logger {
	return &mockLogger{}
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&dataset.Dataset{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	storage, err := dataset.NewDiskStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}

	datasets := dataset.NewService(dataset.NewRepository(db), storage, newMockLogger())
	handlers := NewHandlers(datasets, analysis.NewService(), NewSessionStore(), newMockLogger())

	engine := gin.New()
	engine.MaxMultipartMemory = dataset.MaxUploadSize
	engine.SetHTMLTemplate(pageTemplates())

	engine.GET("/health", handlers.HealthCheck)
	engine.GET("/", handlers.LandingPage)
	engine.POST("/upload/", handlers.UploadCSV)
	engine.GET("/analysis/:id/", handlers.AnalysisPage)
	engine.POST("/operation/:id/", handlers.PerformOperation)
	engine.GET("/download/:id/", handlers.DownloadVisualization)
	engine.GET("/download-csv/:id/", handlers.DownloadCSV)
	engine.DELETE("/api/datasets/:id", handlers.DeleteDataset)
	return engine
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write multipart body: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// uploadCSV uploads a file and returns the new dataset ID from the redirect.
func uploadCSV(t *testing.T, router *gin.Engine, content string) string {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.csv", content))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("upload returned status %d, body %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/analysis/") {
		t.Fatalf("upload redirected to %q", loc)
	}
	return strings.Trim(strings.TrimPrefix(loc, "/analysis/"), "/")
}

func operationRequest(id string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/operation/"+id+"/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUploadCSV(t *testing.T) {
	t.Run("valid upload redirects to analysis", func(t *testing.T) {
		router := setupTestRouter(t)
		id := uploadCSV(t, router, "a,b\n1,2\n3,4")
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("redirect carries ID %q, want a UUID", id)
		}
	})

	t.Run("wrong extension redirects home with error", func(t *testing.T) {
		router := setupTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "data.txt", "a\n1"))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		loc := rec.Header().Get("Location")
		if !strings.HasPrefix(loc, "/?error=") {
			t.Errorf("redirected to %q, want the landing page with an error", loc)
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		router := setupTestRouter(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload/", nil)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want 303", rec.Code)
		}
	})

	t.Run("unparseable CSV leaves nothing behind", func(t *testing.T) {
		router := setupTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "data.csv", "a,b\n\"broken,1\n2,3"))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if !strings.HasPrefix(rec.Header().Get("Location"), "/?error=") {
			t.Errorf("redirected to %q", rec.Header().Get("Location"))
		}

		// The landing page should list no datasets.
		page := httptest.NewRecorder()
		router.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/", nil))
		if strings.Contains(page.Body.String(), "data.csv") {
			t.Error("rejected upload still listed on the landing page")
		}
	})
}

func TestAnalysisPage(t *testing.T) {
	router := setupTestRouter(t)
	id := uploadCSV(t, router, "x,y\n1,2\n3,4\n5,6")

	t.Run("renders metadata and preview", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/"+id+"/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"data.csv", "data-table", "regression", "clustering"} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
	})

	t.Run("unknown dataset is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/"+uuid.New().String()+"/", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestPerformOperation(t *testing.T) {
	router := setupTestRouter(t)
	id := uploadCSV(t, router, "x,y\n1,2\n2,4\n3,6\n4,8\n5,10")

	t.Run("summary returns envelope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, operationRequest(id, url.Values{"operation": {"summary"}}))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var envelope analysis.Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !envelope.Success || envelope.Operation != "summary" {
			t.Errorf("envelope = %+v", envelope)
		}
		if envelope.HTML == "" {
			t.Error("summary envelope missing HTML")
		}
	})

	t.Run("regression returns image and stats", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, operationRequest(id, url.Values{"operation": {"regression"}}))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var envelope analysis.Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if envelope.Image == "" {
			t.Error("regression envelope missing image")
		}
		if slope, ok := envelope.Stats["slope"].(float64); !ok || slope < 1.99 || slope > 2.01 {
			t.Errorf("slope = %v, want 2", envelope.Stats["slope"])
		}
	})

	t.Run("clustering honors n_clusters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, operationRequest(id, url.Values{
			"operation":  {"clustering"},
			"n_clusters": {"2"},
		}))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var envelope analysis.Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if n, ok := envelope.Stats["n_clusters"].(float64); !ok || n != 2 {
			t.Errorf("n_clusters = %v, want 2", envelope.Stats["n_clusters"])
		}
	})

	t.Run("unknown operation is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, operationRequest(id, url.Values{"operation": {"pivot"}}))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "unknown operation") {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("precondition failure is 400", func(t *testing.T) {
		textID := uploadCSV(t, router, "name\nalice\nbob")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, operationRequest(textID, url.Values{"operation": {"regression"}}))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "numeric columns") {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("unknown dataset is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, operationRequest(uuid.New().String(), url.Values{"operation": {"summary"}}))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestDownloadVisualization(t *testing.T) {
	router := setupTestRouter(t)
	id := uploadCSV(t, router, "x,y\n1,2\n2,4\n3,6")

	t.Run("no cached visualization redirects back", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/"+id+"/", nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want 303", rec.Code)
		}
		if !strings.HasPrefix(rec.Header().Get("Location"), "/analysis/"+id+"/") {
			t.Errorf("redirected to %q", rec.Header().Get("Location"))
		}
	})

	t.Run("serves the session's last image", func(t *testing.T) {
		opRec := httptest.NewRecorder()
		router.ServeHTTP(opRec, operationRequest(id, url.Values{"operation": {"regression"}}))
		if opRec.Code != http.StatusOK {
			t.Fatalf("operation status = %d", opRec.Code)
		}

		cookies := opRec.Result().Cookies()
		if len(cookies) == 0 {
			t.Fatal("operation did not assign a session cookie")
		}

		req := httptest.NewRequest(http.MethodGet, "/download/"+id+"/", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type = %q, want image/png", ct)
		}
		disposition := rec.Header().Get("Content-Disposition")
		if !strings.Contains(disposition, "data_regression.png") {
			t.Errorf("Content-Disposition = %q", disposition)
		}
		if body := rec.Body.Bytes(); len(body) < 8 || string(body[1:4]) != "PNG" {
			t.Error("response body is not a PNG")
		}
	})
}

func TestDownloadCSV(t *testing.T) {
	router := setupTestRouter(t)
	id := uploadCSV(t, router, "a,b\n1,2")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download-csv/"+id+"/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if rec.Body.String() != "a,b\n1,2" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDeleteDataset(t *testing.T) {
	router := setupTestRouter(t)
	id := uploadCSV(t, router, "a\n1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	after := httptest.NewRecorder()
	router.ServeHTTP(after, httptest.NewRequest(http.MethodGet, "/analysis/"+id+"/", nil))
	if after.Code != http.StatusNotFound {
		t.Errorf("analysis page after delete = %d, want 404", after.Code)
	}

	t.Run("missing dataset is 404", func(t *testing.T) {
		missing := httptest.NewRecorder()
		router.ServeHTTP(missing, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+uuid.New().String(), nil))
		if missing.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", missing.Code)
		}
	})
}
