// Command submit-post creates a blog post directly in the document store.
// It is the programmatic path for publishing drafts written outside the
// admin editor. Connection settings come from the environment (or .env).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/studiosite"
	"github.com/eringen/studiosite/store"
)

type options struct {
	title     string
	excerpt   string
	content   string
	cover     string
	tags      string
	author    string
	published bool
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	var opts options
	var contentFile string
	flag.StringVar(&opts.title, "title", "", "post title (required)")
	flag.StringVar(&opts.excerpt, "excerpt", "", "short teaser; defaults to the title")
	flag.StringVar(&opts.content, "content", "", "markdown content")
	flag.StringVar(&contentFile, "file", "", "read markdown content from a file")
	flag.StringVar(&opts.cover, "cover", "", "cover image URL")
	flag.StringVar(&opts.tags, "tags", "", "comma-separated tags")
	flag.StringVar(&opts.author, "author", "", "byline")
	flag.BoolVar(&opts.published, "published", false, "publish immediately instead of saving a draft")
	flag.Parse()

	if contentFile != "" {
		data, err := os.ReadFile(contentFile)
		if err != nil {
			fatal(logger, "read content file", err)
		}
		opts.content = string(data)
	}

	in, err := buildSubmission(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	uri := studiosite.MustEnv("MONGO_URI")
	dbName := studiosite.EnvOr("MONGO_DATABASE", "studiosite")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.Connect(ctx, uri, dbName)
	if err != nil {
		fatal(logger, "connect", err)
	}
	defer db.Close(context.Background())

	post, err := store.NewPostStore(db).Create(ctx, in)
	if err != nil {
		fatal(logger, "create post", err)
	}

	fmt.Printf("created %s post %s: %s\n", post.State, post.ID, post.Title)
}

// buildSubmission validates the flags and fills in defaults: the excerpt
// falls back to the title, and tags are parsed from the comma list.
func buildSubmission(opts options) (store.PostInput, error) {
	title := strings.TrimSpace(opts.title)
	if title == "" {
		return store.PostInput{}, fmt.Errorf("submit-post: -title is required")
	}
	if strings.TrimSpace(opts.content) == "" {
		return store.PostInput{}, fmt.Errorf("submit-post: content is required (use -content or -file)")
	}
	excerpt := strings.TrimSpace(opts.excerpt)
	if excerpt == "" {
		excerpt = title
	}
	return store.PostInput{
		Title:      title,
		Excerpt:    excerpt,
		Content:    opts.content,
		CoverImage: strings.TrimSpace(opts.cover),
		Tags:       studiosite.ParseTagInput(opts.tags),
		Author:     strings.TrimSpace(opts.author),
		Published:  opts.published,
	}, nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
