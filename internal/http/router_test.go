package http

import (
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/starsignlabs/zodiac-backend/internal/http/handlers"
)

func TestSessionProgressRouteRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := NewServer(RouterConfig{
		ServiceName:     "zodiac-backend-test",
		ResponseHandler: httpH.NewResponseHandler(nil),
	})

	want := map[string]bool{
		"GET /api/sessions/:id/progress":           false,
		"GET /api/responses/session/:sid/progress": false,
	}
	for _, route := range srv.Engine.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Fatalf("route %s not registered", key)
		}
	}
}
