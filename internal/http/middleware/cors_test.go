package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(t *testing.T, h gin.HandlerFunc, origin, method string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(h)
	r.POST("/shopping-sessions", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/shopping-sessions", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{name: "dev default vite", origin: "http://localhost:5173", want: "http://localhost:5173"},
		{name: "dev default loopback", origin: "http://127.0.0.1:3000", want: "http://127.0.0.1:3000"},
		{name: "configured", allowed: []string{"https://pantry.example"}, origin: "https://pantry.example", want: "https://pantry.example"},
		{name: "configured rejects dev", allowed: []string{"https://pantry.example"}, origin: "http://localhost:5173", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := preflight(t, CORS(tc.allowed...), tc.origin, http.MethodPost)
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Fatalf("allow-origin: want=%q got=%q", tc.want, got)
			}
		})
	}
}
