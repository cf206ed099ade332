package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/neuromation/neuro-admin/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	requestID := w.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(requestID); err != nil {
		t.Errorf("Expected a UUID request ID header, got %q", requestID)
	}

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one completion entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields[logging.FieldRequestID] != requestID {
		t.Errorf("request_id field = %v, want %s", fields[logging.FieldRequestID], requestID)
	}
	if fields[logging.FieldUserAgent] != "test-agent" {
		t.Errorf("user_agent field = %v", fields[logging.FieldUserAgent])
	}
	if fields[logging.FieldStatusCode] != int64(http.StatusOK) {
		t.Errorf("status_code field = %v", fields[logging.FieldStatusCode])
	}
}

func TestRequestLogger_ReusesClientRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, id)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen != id || w.Header().Get(HeaderRequestID) != id {
		t.Errorf("Expected request ID %s to be reused, got %q / %q", id, seen, w.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen == "not-a-uuid" {
		t.Error("Expected malformed request ID to be replaced")
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/missing", "/broken"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Errorf("Expected one warn entry for 4xx")
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Errorf("Expected one error entry for 5xx")
	}
}

func TestRequestLogger_LoggerInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handler log")
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	entries := logs.FilterMessage("handler log").All()
	if len(entries) != 1 {
		t.Fatalf("Expected handler log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()[logging.FieldRequestID] == "" {
		t.Error("Expected request-scoped fields on handler logger")
	}
}

func TestGetLogger_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if GetLogger(c) == nil {
		t.Error("Expected no-op logger")
	}
	if GetRequestID(c) != "" {
		t.Error("Expected empty request ID")
	}
}
