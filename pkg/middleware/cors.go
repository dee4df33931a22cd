package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig allows the listed origins with credentials. A "*" entry allows
// any origin without credentials, and an empty list refuses every origin.
func CORSConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", TraceIDHeader},
		ExposeHeaders: []string{TraceIDHeader},
		MaxAge:        10 * time.Minute,
	}

	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		if o != "" {
			origins = append(origins, o)
		}
	}

	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func CORS(allowedOrigins []string) (gin.HandlerFunc, error) {
	cfg := CORSConfig(allowedOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cors: %w", err)
	}
	return cors.New(cfg), nil
}
