package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// page wraps a body renderer in the shared document shell. The body
// callback may render nested templ components, so it receives the context
// and writer directly.
func page(site Site, meta PageMeta, jsonLD string, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		title := meta.Title
		if title == "" {
			title = site.Name
		} else if site.Name != "" {
			title += " | " + site.Name
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
		b.WriteString("<meta charset=\"utf-8\"/>")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		b.WriteString("<title>" + esc(title) + "</title>")
		if description != "" {
			b.WriteString("<meta name=\"description\" content=\"" + esc(description) + "\"/>")
		}
		if meta.URL != "" {
			b.WriteString("<link rel=\"canonical\" href=\"" + esc(meta.URL) + "\"/>")
			b.WriteString("<meta property=\"og:url\" content=\"" + esc(meta.URL) + "\"/>")
		}
		b.WriteString("<meta property=\"og:title\" content=\"" + esc(title) + "\"/>")
		if description != "" {
			b.WriteString("<meta property=\"og:description\" content=\"" + esc(description) + "\"/>")
		}
		b.WriteString("<meta property=\"og:type\" content=\"" + esc(ogType) + "\"/>")
		if meta.Image != "" {
			b.WriteString("<meta property=\"og:image\" content=\"" + esc(meta.Image) + "\"/>")
		}
		b.WriteString("<link rel=\"icon\" href=\"/favicon.svg\" type=\"image/svg+xml\"/>")
		b.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"" + esc(site.Name) + "\" href=\"/feed.xml\"/>")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/styles.css\"/>")
		if jsonLD != "" {
			b.WriteString("<script type=\"application/ld+json\">" + jsonLD + "</script>")
		}
		b.WriteString("</head><body>")
		b.WriteString("<header class=\"site-header\"><nav>")
		b.WriteString("<a class=\"brand\" href=\"/\">" + esc(site.Name) + "</a>")
		b.WriteString("<div class=\"nav-links\">")
		b.WriteString("<a href=\"/\">Blog</a>")
		b.WriteString("<a href=\"/contact/\">Contact</a>")
		b.WriteString("</div></nav></header><main>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := body(ctx, w); err != nil {
			return err
		}

		footer := "</main><footer class=\"site-footer\"><p>&copy; " + esc(site.Name) + "</p></footer></body></html>"
		_, err := io.WriteString(w, footer)
		return err
	})
}

// adminPage is the shell for admin screens: no SEO head, no public nav.
func adminPage(title string, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
		b.WriteString("<meta charset=\"utf-8\"/>")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		b.WriteString("<meta name=\"robots\" content=\"noindex\"/>")
		b.WriteString("<title>" + esc(title) + "</title>")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/styles.css\"/>")
		b.WriteString("<script src=\"/public/admin.js\" defer></script>")
		b.WriteString("</head><body class=\"admin\">")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := body(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
