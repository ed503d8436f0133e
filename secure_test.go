package lemons_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/lemons"
)

func TestSecure(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg         []lemons.SecureConfig
		wantHeaders map[string]string
		wantAbsent  []string
	}{
		"defaults": {
			wantHeaders: map[string]string{
				"X-Content-Type-Options": "nosniff",
				"X-Frame-Options":        "DENY",
				"X-XSS-Protection":       "1; mode=block",
				"Referrer-Policy":        "strict-origin-when-cross-origin",
			},
			wantAbsent: []string{"Strict-Transport-Security"},
		},
		"hsts enabled": {
			cfg: []lemons.SecureConfig{{HSTSMaxAge: 31536000}},
			wantHeaders: map[string]string{
				"Strict-Transport-Security": "max-age=31536000",
			},
			wantAbsent: []string{"X-Frame-Options", "X-Content-Type-Options"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			app, _ := quietApp()
			app.Use(lemons.Secure(tc.cfg...))
			app.Get("/", text("ok"))

			rec := serve(t, app, http.MethodGet, "/", nil)

			for key, want := range tc.wantHeaders {
				assert.Equal(t, want, rec.Header().Get(key), key)
			}
			for _, key := range tc.wantAbsent {
				assert.Empty(t, rec.Header().Get(key), key)
			}
		})
	}
}
