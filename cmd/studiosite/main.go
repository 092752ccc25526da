// Command studiosite runs the studio's site: public blog, contact form,
// and the admin workspace. All configuration and secrets come from the
// environment (or a local .env file in development).
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eringen/studiosite"
	"github.com/eringen/studiosite/blob"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Optional in production; containers inject the environment directly.
	_ = godotenv.Load()

	cfg := studiosite.SiteConfig{
		Name:        studiosite.EnvOr("SITE_NAME", "Studio"),
		URL:         studiosite.EnvOr("SITE_URL", "http://localhost:3000"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		Author:      os.Getenv("SITE_AUTHOR"),
		Addr:        studiosite.EnvOr("ADDR", ":3000"),

		MongoURI:      studiosite.MustEnv("MONGO_URI"),
		MongoDatabase: studiosite.EnvOr("MONGO_DATABASE", "studiosite"),

		Blob: blob.Config{
			Endpoint:      os.Getenv("BLOB_ENDPOINT"),
			Region:        studiosite.EnvOr("BLOB_REGION", "auto"),
			Bucket:        studiosite.MustEnv("BLOB_BUCKET"),
			AccessKey:     studiosite.MustEnv("BLOB_ACCESS_KEY"),
			SecretKey:     studiosite.MustEnv("BLOB_SECRET_KEY"),
			PublicBaseURL: studiosite.MustEnv("BLOB_PUBLIC_URL"),
		},

		ImageAPIKey:     os.Getenv("IMAGE_API_KEY"),
		ImageAPIBaseURL: os.Getenv("IMAGE_API_BASE_URL"),

		AdminEmail:    studiosite.MustEnv("ADMIN_EMAIL"),
		AdminPassword: studiosite.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: studiosite.MustEnv("SESSION_SECRET"),
		CookieSecure:  boolEnv("COOKIE_SECURE"),

		PublishNewPosts:  boolEnv("PUBLISH_NEW_POSTS"),
		AnalyticsEnabled: boolEnv("ANALYTICS_ENABLED"),
	}

	app := studiosite.New(cfg, studiosite.DefaultViews())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.Close(); err != nil {
			logger.Error("shutdown", "error", err)
		}
		os.Exit(0)
	}()

	logger.Info("starting", "addr", cfg.Addr, "site", cfg.URL)
	if err := app.Start(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
