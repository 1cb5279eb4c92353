package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auctusventures/site/internal/reqctx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDReusesValidHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	incoming := uuid.NewString()

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		seen = reqctx.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != incoming || w.Header().Get(RequestIDHeader) != incoming {
		t.Fatalf("expected %s to be propagated, got ctx=%s header=%s", incoming, seen, w.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDReplacesGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected a fresh uuid, got %q", w.Header().Get(RequestIDHeader))
	}
}

func TestAccessLogLevelsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.WarnLevel || entries[2].Level != zap.ErrorLevel {
		t.Fatalf("unexpected levels: %v %v %v", entries[0].Level, entries[1].Level, entries[2].Level)
	}
	if entries[2].ContextMap()["path"] != "/boom" {
		t.Fatalf("expected path field, got %v", entries[2].ContextMap())
	}
}

func TestRecoveryReturnsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatal("expected the panic to be logged")
	}
}
