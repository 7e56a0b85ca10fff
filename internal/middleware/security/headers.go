// Package security sets response headers appropriate for a JSON API.
package security

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// HeadersConfig holds security headers configuration
type HeadersConfig struct {
	CSP string

	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	CrossOriginResource string
	CacheControl        string
}

// DefaultHeadersConfig locks the API down to JSON responses.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                   "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		XFrameOptions:         "DENY",
		XContentTypeOptions:   "nosniff",
		ReferrerPolicy:        "no-referrer",
		CrossOriginResource:   "same-site",
		CacheControl:          "no-store",
	}
}

// Headers returns gin middleware applying config to every response.
func Headers(config HeadersConfig) gin.HandlerFunc {
	hsts := ""
	if config.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d", config.HSTSMaxAge)
		if config.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		setIf := func(key, value string) {
			if value != "" {
				h.Set(key, value)
			}
		}
		setIf("Content-Security-Policy", config.CSP)
		setIf("X-Frame-Options", config.XFrameOptions)
		setIf("X-Content-Type-Options", config.XContentTypeOptions)
		setIf("Referrer-Policy", config.ReferrerPolicy)
		setIf("Cross-Origin-Resource-Policy", config.CrossOriginResource)
		setIf("Cache-Control", config.CacheControl)

		// HSTS only means something over TLS.
		if c.Request.TLS != nil {
			setIf("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}
