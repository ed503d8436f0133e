package lemons

import "strconv"

// SecureConfig configures the Secure headers middleware.
type SecureConfig struct {
	ContentTypeNosniff bool   // default: true → X-Content-Type-Options: nosniff
	FrameDeny          bool   // default: true → X-Frame-Options: DENY
	HSTSMaxAge         int    // default: 0 (disabled). If >0: Strict-Transport-Security
	XSSProtection      string // default: "1; mode=block"
	ReferrerPolicy     string // default: "strict-origin-when-cross-origin"
}

// Secure returns middleware that adds security response headers to the
// current header set. With no arguments, it uses sensible defaults.
func Secure(cfg ...SecureConfig) Middleware {
	c := SecureConfig{
		ContentTypeNosniff: true,
		FrameDeny:          true,
		XSSProtection:      "1; mode=block",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if len(cfg) > 0 {
		c = cfg[0]
	}

	return func(ctx *Context, next Next) error {
		h := ctx.Response.Header
		if c.ContentTypeNosniff {
			h.Set("X-Content-Type-Options", "nosniff")
		}
		if c.FrameDeny {
			h.Set("X-Frame-Options", "DENY")
		}
		if c.HSTSMaxAge > 0 {
			h.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(c.HSTSMaxAge))
		}
		if c.XSSProtection != "" {
			h.Set("X-XSS-Protection", c.XSSProtection)
		}
		if c.ReferrerPolicy != "" {
			h.Set("Referrer-Policy", c.ReferrerPolicy)
		}

		return next()
	}
}
