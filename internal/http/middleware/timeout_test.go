package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestQueryTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(QueryTimeout(5 * time.Second))
	var deadlineSet bool
	r.GET("/", func(c *gin.Context) {
		_, deadlineSet = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !deadlineSet {
		t.Fatal("expected request context to carry a deadline")
	}
}

func TestQueryTimeoutDisabledWhenZero(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(QueryTimeout(0))
	var deadlineSet bool
	r.GET("/", func(c *gin.Context) {
		_, deadlineSet = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if deadlineSet {
		t.Fatal("zero timeout must leave the request context unbounded")
	}
}
