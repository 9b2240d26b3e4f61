package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"benefitflow-backend/internal/applications"
	"benefitflow-backend/internal/documents"
	"benefitflow-backend/internal/reasoning"
	"benefitflow-backend/internal/users"
)

func newTestRouter(t *testing.T, invoker reasoning.Invoker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &Service{
		Invoker: invoker,
		Docs:    documents.NewStore(nil, documents.NewFallbackTier(t.TempDir())),
		Apps:    applications.NewMemoryRepo(),
		Users:   users.NewMemoryRepo(),
	}
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func buildForm(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name+".pdf")
		if err != nil {
			t.Fatalf("create file %s: %v", name, err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func defaultFields() map[string]string {
	return map[string]string{
		"firstName":                "Jane",
		"lastName":                 "Roe",
		"dateOfBirth":              "1980-04-01",
		"address":                  "1 Main St",
		"city":                     "Springfield",
		"state":                    "IL",
		"zipCode":                  "62701",
		"socialSecurityNumber":     "111-22-3333",
		"doctorNames":              "Dr. Smith",
		"hospitalNames":            "General Hospital",
		"medicalRecordsPermission": "true",
	}
}

func defaultFiles() map[string][]byte {
	return map[string][]byte{
		"medicalRecordsFile":  []byte("medical"),
		"incomeDocumentsFile": []byte("income"),
	}
}

func TestSubmitEndpointAccepted(t *testing.T) {
	router := newTestRouter(t, &fakeInvoker{result: approveResult()})

	body, contentType := buildForm(t, defaultFields(), defaultFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ApplicationID == "" || resp.UserID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Decision != "approve" || !resp.UserCreated {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitEndpointMissingFile(t *testing.T) {
	router := newTestRouter(t, &fakeInvoker{result: approveResult()})

	files := defaultFiles()
	delete(files, "incomeDocumentsFile")
	body, contentType := buildForm(t, defaultFields(), files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitEndpointExtractionFailure(t *testing.T) {
	raw := "I could not produce a decision."
	_, extractionErr := reasoning.Extract(raw)
	router := newTestRouter(t, &fakeInvoker{err: extractionErr})

	body, contentType := buildForm(t, defaultFields(), defaultFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "extraction_output_missing" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
	if resp.Error.Details["raw_response"] != raw {
		t.Fatalf("details = %v, want raw response retained", resp.Error.Details)
	}
}

func TestSubmitEndpointStorageFailure(t *testing.T) {
	svc := &Service{
		Invoker: &fakeInvoker{result: approveResult()},
		Docs:    documents.NewStore(failingPrimary{}, documents.NewFallbackTier("/dev/null/nope")),
		Apps:    applications.NewMemoryRepo(),
		Users:   users.NewMemoryRepo(),
	}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))

	body, contentType := buildForm(t, defaultFields(), defaultFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

type failingPrimary struct{}

func (failingPrimary) Put(ctx context.Context, doc documents.Document) error {
	return context.DeadlineExceeded
}

func (failingPrimary) Get(ctx context.Context, id string) ([]byte, error) {
	return nil, documents.ErrNotFound
}
