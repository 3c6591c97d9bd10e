package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"soil_health/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + one endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/echo", h.requestLogger, func(c *gin.Context) {
		id, _ := c.Get("requestId")
		c.JSON(http.StatusOK, gin.H{"requestId": id})
	})
	return r
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	r := newMiddlewareOnlyRouter(&service.Service{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got := w.Header().Get(headerRequestID); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	r := newMiddlewareOnlyRouter(&service.Service{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set(headerRequestID, "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(headerRequestID); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
	if body := w.Body.String(); body != `{"requestId":"abc-123"}` {
		t.Fatalf("body = %s", body)
	}
}
