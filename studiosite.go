// Package studiosite is the content engine behind the studio's marketing
// site: a public blog, a contact form, and an admin workspace with a post
// editor and an image library backed by an object store and an
// image-generation API.
//
// Posts and contact submissions live in MongoDB, library images in an
// S3-compatible bucket. Users provide their own templ components via the
// ViewFuncs struct or take the built-in ones from DefaultViews.
package studiosite

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/studiosite/analytics"
	"github.com/eringen/studiosite/blob"
	"github.com/eringen/studiosite/imagegen"
	"github.com/eringen/studiosite/store"
	"github.com/eringen/studiosite/views"
)

// ViewFuncs holds the templ components the engine renders. Swapping a
// field out replaces that page without touching handler logic.
type ViewFuncs struct {
	Home           func(posts []store.BlogPost, activeTag string, tags []string, site views.Site) templ.Component
	Post           func(post store.BlogPost, related []store.BlogPost, site views.Site) templ.Component
	Contact        func(sent bool, csrfToken string, site views.Site) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(tab string, posts []store.BlogPost, images []store.BlogImage, contacts []store.Contact, message, csrfToken string) templ.Component
	AdminPostForm  func(post store.BlogPost, isNew bool, csrfToken string) templ.Component
	AdminImages    func(images []store.BlogImage, preview *imagegen.Generated, message, csrfToken string) templ.Component
	AdminPreview   func(post store.BlogPost, site views.Site) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// DefaultViews returns the built-in templ components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		Post:           views.Post,
		Contact:        views.Contact,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		AdminPostForm:  views.AdminPostForm,
		AdminImages:    views.AdminImages,
		AdminPreview:   views.AdminPreview,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

// App is the central application. It wires together the stores, cache,
// handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	DB       *store.Client
	Posts    PostStore
	Images   ImageStore
	Contacts ContactStore
	Blobs    BlobStore
	Gen      ImageGenerator
	Cache    *PostCache
	Views    ViewFuncs

	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, viewFns ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     viewFns,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start connects the stores, sets up middleware and routes, and runs the
// server until it shuts down.
func (a *App) Start() error {
	if a.Config.AdminEmail == "" {
		return fmt.Errorf("studiosite: AdminEmail is required")
	}
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("studiosite: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("studiosite: SessionSecret is required")
	}
	if a.Config.MongoURI == "" {
		return fmt.Errorf("studiosite: MongoURI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := store.Connect(ctx, a.Config.MongoURI, a.Config.MongoDatabase)
	if err != nil {
		return fmt.Errorf("studiosite: connect store: %w", err)
	}
	a.DB = db
	a.Posts = store.NewPostStore(db)
	a.Images = store.NewImageStore(db)
	a.Contacts = store.NewContactStore(db)

	if a.Blobs == nil {
		blobs, err := blob.New(ctx, a.Config.Blob)
		if err != nil {
			return fmt.Errorf("studiosite: init object store: %w", err)
		}
		a.Blobs = blobs
	}

	if a.Gen == nil && a.Config.ImageAPIKey != "" {
		a.Gen = imagegen.New(a.Config.ImageAPIKey, a.Config.ImageAPIBaseURL)
	}

	a.Cache = NewPostCache(a.Posts, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		analyticsStore, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("studiosite: init analytics: %w", err)
		}
		a.analyticsStore = analyticsStore
		stopCleanup := analyticsStore.StartCleanupScheduler(a.Config.AnalyticsKeepDays, 24*time.Hour)
		defer stopCleanup()
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded engine assets, served under /public/ ahead of the user's
	// static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/admin.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/post/:id/", a.handlePost)
	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/posts/new/", a.handleAdminNewPost)
	e.GET("/admin/posts/:id/edit/", a.handleAdminEditPost)
	e.GET("/admin/posts/:id/preview/", a.handleAdminPreview)
	e.POST("/admin/posts/save/", a.handleAdminSave)
	e.POST("/admin/posts/:id/publish/", a.handleAdminTogglePublish)
	e.POST("/admin/posts/:id/delete/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/generate/", a.handleImageGenerate)
	e.POST("/admin/images/save/", a.handleImageSaveGenerated)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.POST("/admin/images/:id/delete/", a.handleImageDelete)

	// Analytics routes
	if a.Config.AnalyticsEnabled && a.analyticsStore != nil {
		e.Use(analytics.Middleware(a.analyticsStore, analytics.SkipAdmin))
		e.GET("/admin/analytics/api/totals", func(c echo.Context) error {
			if !IsAdmin(c) {
				return c.NoContent(http.StatusUnauthorized)
			}
			return analytics.TotalsHandler(a.analyticsStore)(c)
		})
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.DB.Close(ctx); err != nil {
			return err
		}
	}
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("studiosite: required environment variable %s is not set", key)
	}
	return v
}
