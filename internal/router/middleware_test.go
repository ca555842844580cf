package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name            string
		user            *models.User
		requireVerified bool
		want            Decision
	}{
		{
			name: "guest is sent to login",
			want: RedirectTo("/login"),
		},
		{
			name:            "unverified user is sent to the verify page",
			user:            &models.User{ID: 1},
			requireVerified: true,
			want:            RedirectTo("/verify-email"),
		},
		{
			name:            "unverified user passes when verification is not required",
			user:            &models.User{ID: 1},
			requireVerified: false,
			want:            Allowed,
		},
		{
			name:            "verified user passes",
			user:            &models.User{ID: 1, EmailVerified: true},
			requireVerified: true,
			want:            Allowed,
		},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/surveys", nil)
			if tt.user != nil {
				c.Set("user", tt.user)
			}

			if got := Authorize(c, tt.requireVerified); got != tt.want {
				t.Errorf("Authorize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAuthRequiredReportsRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/surveys", AuthRequired(true), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/surveys", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	var body struct {
		RedirectTo string `json:"redirectTo"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if body.RedirectTo != "/login" {
		t.Errorf("redirectTo = %q, want /login", body.RedirectTo)
	}
}
