package config

import (
	"os"
	"strings"
	"time"
)

type Environment struct {
	IsDevelopment bool
	Domain        string
	CookieSecure  bool

	Port       string
	APIBaseURL string
	APITimeout time.Duration

	DBURL      string
	SQLitePath string

	// SessionSecret signs browsing-session cookies.
	SessionSecret []byte

	AuthIssuerURL string
	AuthAudience  string

	AllowedOrigins []string
}

// LoadEnvironment reads configuration from the process environment. Call it
// after any .env file has been loaded.
func LoadEnvironment() Environment {
	// Get domain from environment variable
	domain := os.Getenv("COOKIE_DOMAIN")

	// If no domain is set, we're in development
	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = os.Getenv("NEXT_PUBLIC_API_URL")
	}
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8080"
	}

	timeout := 2 * time.Minute
	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Environment{
		IsDevelopment:  isDev,
		Domain:         domain,
		CookieSecure:   !isDev,
		Port:           getenvDefault("PORT", "3000"),
		APIBaseURL:     apiBaseURL,
		APITimeout:     timeout,
		DBURL:          os.Getenv("DB_URL"),
		SQLitePath:     getenvDefault("SQLITE_PATH", "flashcards.db"),
		SessionSecret:  []byte(os.Getenv("SESSION_SECRET")),
		AuthIssuerURL:  os.Getenv("AUTH_ISSUER_URL"),
		AuthAudience:   os.Getenv("AUTH_AUDIENCE"),
		AllowedOrigins: origins,
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
