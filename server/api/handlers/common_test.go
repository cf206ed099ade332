package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/neuromation/neuro-admin/models"
)

func TestMapErrorToResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err      error
		status   int
		code     string
		exposeIt bool
	}{
		{fmt.Errorf("%w: %q", models.ErrClusterNotFound, "gpu"), http.StatusNotFound, "not_found", true},
		{fmt.Errorf("%w: bob", models.ErrUserExists), http.StatusConflict, "conflict", true},
		{fmt.Errorf("%w: bad", models.ErrInvalidQuota), http.StatusBadRequest, "invalid_request", true},
		{models.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "payload_too_large", true},
		{fmt.Errorf("%w: disk full", models.ErrDatabaseError), http.StatusInternalServerError, "internal_error", false},
		{errors.New("unexpected"), http.StatusInternalServerError, "internal_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			mapErrorToResponse(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.code {
				t.Errorf("code = %q, want %q", body.Error, tt.code)
			}
			if exposed := body.Message == tt.err.Error(); exposed != tt.exposeIt {
				t.Errorf("message %q exposure = %v, want %v", body.Message, exposed, tt.exposeIt)
			}
		})
	}
}

func TestBindJSON_TooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"name":"` + strings.Repeat("a", MaxBodySize) + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req models.ClusterCreateRequest
	if bindJSON(c, &req) {
		t.Fatal("Expected oversized body to be rejected")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestBindJSON_Malformed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

	var req models.ClusterCreateRequest
	if bindJSON(c, &req) {
		t.Fatal("Expected malformed body to be rejected")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
