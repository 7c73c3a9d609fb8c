// internal/middleware/i18n_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func resolveLang(t *testing.T, acceptLanguage string) string {
	gin.SetMode(gin.TestMode)

	var lang string
	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/", func(c *gin.Context) {
		lang = c.GetString("lang")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)

	return lang
}

func TestI18nMiddlewareLanguageResolution(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"en", "en"},
		{"en-GB", "en"},
		{"pt", "pt"},
		{"pt-CV", "pt"},
		{"pt-BR,pt;q=0.9,en;q=0.8", "pt"},
		{"fr", "en"},
		{"de-DE,de;q=0.9", "en"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, resolveLang(t, tc.header), "header %q", tc.header)
	}
}
