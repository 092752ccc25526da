// Package markdown renders post content to sanitized HTML as a templ
// component.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	// GFM covers tables, strikethrough, task lists, and autolinks on top
	// of headings, emphasis, links, images, lists, blockquotes, and code.
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// task-list checkboxes emitted by the GFM extension
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	return p
}

// Render converts markdown source to sanitized HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// StripCoverImage removes the first inline image embed whose URL exactly
// equals coverURL, plus any newlines directly after it. Posts with a
// dedicated cover image often repeat the same embed at the top of the
// body; the cover renders as a hero, so the inline copy would show twice.
func StripCoverImage(source, coverURL string) string {
	if coverURL == "" {
		return source
	}
	re, err := regexp.Compile(`!\[[^\]]*\]\(` + regexp.QuoteMeta(coverURL) + `\)\n*`)
	if err != nil {
		return source
	}
	loc := re.FindStringIndex(source)
	if loc == nil {
		return source
	}
	return source[:loc[0]] + source[loc[1]:]
}

// Content returns a templ component rendering the post body. coverURL may
// be empty; when set, its inline embed is elided before rendering.
func Content(source, coverURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := Render(StripCoverImage(source, coverURL))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	})
}

// Excerpt derives a plain-text teaser from markdown source, used when a
// post has no explicit excerpt.
func Excerpt(source string, maxLen int) string {
	html, err := Render(source)
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(html))
	text = strings.Join(strings.Fields(text), " ")
	if maxLen > 0 && len(text) > maxLen {
		cut := text[:maxLen]
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
		text = cut + "…"
	}
	return text
}
