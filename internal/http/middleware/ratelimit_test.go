package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// A disabled limiter must never touch Redis, so an unreachable client
// is safe here in every disabled configuration.
func TestRateLimitDisabledConfigurations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	cases := []struct {
		name string
		mw   gin.HandlerFunc
	}{
		{"nil client", RateLimit(nil, nil, 10, time.Minute)},
		{"zero limit", RateLimit(rdb, nil, 0, time.Minute)},
		{"zero window", RateLimit(rdb, nil, 10, 0)},
		{"sub-second window", RateLimit(rdb, nil, 10, 500*time.Millisecond)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(tc.mw)
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("expected pass-through, got %d", w.Code)
			}
		})
	}
}
