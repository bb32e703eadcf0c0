package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"glassclass/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{"GET", "POST", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", RequestIDHeader}
	corsExposed = []string{"Content-Length", "Content-Disposition", RequestIDHeader}
)

func SetupCORS(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := parseOrigins(cfg)

	if allowAll(allowedOrigins) {
		return cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExposed,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		})
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     corsMethods,
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    corsExposed,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// OriginChecker applies the CORS origin list to websocket upgrades. Requests
// without an Origin header come from non-browser clients and are accepted.
func OriginChecker(cfg config.CORSConfig) func(r *http.Request) bool {
	allowedOrigins := parseOrigins(cfg)
	if allowAll(allowedOrigins) {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, origin)
	}
}

func parseOrigins(cfg config.CORSConfig) []string {
	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func allowAll(origins []string) bool {
	return len(origins) == 1 && origins[0] == "*"
}
