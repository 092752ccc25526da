package studiosite

import (
	"time"

	"github.com/eringen/studiosite/blob"
)

// SiteConfig holds all configuration for a studiosite instance. Secrets
// (credentials, connection strings, API keys) are always supplied by the
// caller, never embedded.
type SiteConfig struct {
	Name        string // Site name (default "Studio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Default byline for posts saved without an author

	Addr string // Listen address (default ":3000")

	MongoURI      string // Required: document store connection string
	MongoDatabase string // Database name (default "studiosite")

	Blob blob.Config // Object store for the image library

	ImageAPIKey     string // Image-generation API key
	ImageAPIBaseURL string // Override for the image API endpoint (tests, proxies)

	AdminEmail    string // Required: admin login email
	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// PublishNewPosts controls the initial publish flag of the admin "new
	// post" form and of programmatic submissions that do not set the flag
	// themselves. The documented default is false: new posts start as
	// drafts and go live through the explicit publish toggle.
	PublishNewPosts bool

	AnalyticsEnabled      bool   // Enable pageview analytics
	AnalyticsDatabasePath string // Analytics SQLite path (default "data/analytics.db")
	AnalyticsKeepDays     int    // Retention for daily counters (default 365)

	PostCacheTTL time.Duration // Published-post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Studio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Author == "" {
		c.Author = c.Name + " Team"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "studiosite"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsKeepDays == 0 {
		c.AnalyticsKeepDays = 365
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
