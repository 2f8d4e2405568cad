package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"email-qa/pkg/services/compare"
	emailsvc "email-qa/pkg/services/email"
	pdfsvc "email-qa/pkg/services/pdf"
	"email-qa/pkg/services/pipeline"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	pipe = pipeline.New(pdfsvc.NewService(), emailsvc.NewService(nil), compare.New(), nil)
	return setupRouter()
}

// multipartBody builds a multipart form with one file per field.
func multipartBody(t *testing.T, fields map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range fields {
		part, err := w.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func plainEmail() []byte {
	return []byte("From: sender@example.com\r\n" +
		"To: recipient@example.com\r\n" +
		"Subject: delivery\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"hello\r\n")
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCompareMissingFile(t *testing.T) {
	r := newTestRouter()

	body, contentType := multipartBody(t, map[string][]byte{
		"email": plainEmail(),
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCompareCorruptPDF(t *testing.T) {
	r := newTestRouter()

	body, contentType := multipartBody(t, map[string][]byte{
		"pdf":   []byte("this is not a pdf"),
		"email": plainEmail(),
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	var resp struct {
		Document string `json:"document"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Document != "pdf" {
		t.Errorf("document = %q, want pdf", resp.Document)
	}
}
