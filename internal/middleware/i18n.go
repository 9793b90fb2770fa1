// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// I18nMiddleware picks the response language from Accept-Language. Labels
// are bilingual, so only English and French are served.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang != "fr" {
		defaultLang = "en"
	}

	return func(c *gin.Context) {
		lang := defaultLang

		// Handle cases like "fr-CA,fr;q=0.9,en;q=0.8"
		if header := c.GetHeader("Accept-Language"); header != "" {
			first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
			switch strings.ToLower(first) {
			case "fr", "fr-ca", "fr-fr", "fr_ca":
				lang = "fr"
			case "en", "en-ca", "en-us", "en-gb", "en_ca":
				lang = "en"
			}
		}

		// Set language in context
		c.Set("lang", lang)
		c.Next()
	}
}
