package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/studiosite/markdown"
	"github.com/eringen/studiosite/store"
)

// Home renders the public blog listing, optionally filtered by tag.
func Home(posts []store.BlogPost, activeTag string, tags []string, site Site) templ.Component {
	meta := PageMeta{
		Description: site.Description,
		URL:         buildURL(site.URL),
		OGType:      "website",
	}
	return page(site, meta, WebsiteJsonLD(site), func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<section class=\"blog-listing\">")
		b.WriteString("<h1>Blog</h1>")

		if len(tags) > 0 {
			b.WriteString("<div class=\"tag-filter\">")
			b.WriteString(tagPill("All", "/", activeTag == ""))
			for _, t := range tags {
				b.WriteString(tagPill(t, "/?tag="+PathEscape(t), strings.EqualFold(t, activeTag)))
			}
			b.WriteString("</div>")
		}

		if len(posts) == 0 {
			b.WriteString("<div class=\"empty-state\"><h2>Coming Soon</h2>")
			b.WriteString("<p>We are working on our first posts. Check back shortly.</p></div>")
		} else {
			b.WriteString("<div class=\"post-grid\">")
			for _, p := range posts {
				b.WriteString(postCard(p))
			}
			b.WriteString("</div>")
		}
		b.WriteString("</section>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func tagPill(label, href string, active bool) string {
	class := "tag-pill"
	if active {
		class += " active"
	}
	return "<a class=\"" + class + "\" href=\"" + esc(href) + "\">" + esc(label) + "</a>"
}

func postCard(p store.BlogPost) string {
	var b strings.Builder
	b.WriteString("<article class=\"post-card\">")
	if p.CoverImage != "" {
		b.WriteString("<a href=\"" + postPath(p) + "\"><img src=\"" + esc(p.CoverImage) + "\" alt=\"" + esc(p.Title) + "\" loading=\"lazy\"/></a>")
	}
	b.WriteString("<h2><a href=\"" + postPath(p) + "\">" + esc(p.Title) + "</a></h2>")
	if d := publishDate(p); d != "" {
		b.WriteString("<time>" + esc(d) + "</time>")
	}
	b.WriteString("<p>" + esc(p.Excerpt) + "</p>")
	if len(p.Tags) > 0 {
		b.WriteString("<div class=\"tags\">")
		for _, t := range p.Tags {
			b.WriteString("<span class=\"tag\">" + esc(t) + "</span>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</article>")
	return b.String()
}

// Post renders a single published post. posts is the published set, used
// to pick related reading.
func Post(post store.BlogPost, posts []store.BlogPost, site Site) templ.Component {
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         buildURL(site.URL, "blog", "post", post.ID),
		OGType:      "article",
		Image:       post.CoverImage,
	}
	return page(site, meta, BlogPostingJsonLD(site, post), func(ctx context.Context, w io.Writer) error {
		if err := writePostArticle(ctx, w, post); err != nil {
			return err
		}

		related := FilterRelatedPosts(post, posts)
		if len(related) > 3 {
			related = related[:3]
		}
		if len(related) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString("<aside class=\"related\"><h2>Related posts</h2><div class=\"post-grid\">")
		for _, p := range related {
			b.WriteString(postCard(p))
		}
		b.WriteString("</div></aside>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// writePostArticle renders the article header, hero cover, and markdown
// body. Shared by the public post page and the admin preview.
func writePostArticle(ctx context.Context, w io.Writer, post store.BlogPost) error {
	var b strings.Builder
	b.WriteString("<article class=\"post\">")
	b.WriteString("<header>")
	if post.CoverImage != "" {
		b.WriteString("<img class=\"hero\" src=\"" + esc(post.CoverImage) + "\" alt=\"" + esc(post.Title) + "\" fetchpriority=\"high\"/>")
	}
	b.WriteString("<h1>" + esc(post.Title) + "</h1>")
	b.WriteString("<div class=\"byline\">")
	if post.Author != "" {
		b.WriteString("<span>" + esc(post.Author) + "</span>")
	}
	if d := publishDate(post); d != "" {
		b.WriteString("<time>" + esc(d) + "</time>")
	}
	b.WriteString("</div>")
	if len(post.Tags) > 0 {
		b.WriteString("<div class=\"tags\">")
		for _, t := range post.Tags {
			b.WriteString("<a class=\"tag\" href=\"/?tag=" + PathEscape(t) + "\">" + esc(t) + "</a>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</header><div class=\"prose\">")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	// The hero already shows the cover; strip its duplicate from the body.
	if err := markdown.Content(post.Content, post.CoverImage).Render(ctx, w); err != nil {
		return err
	}

	_, err := io.WriteString(w, "</div></article>")
	return err
}

// Contact renders the contact form, or a thank-you note after submission.
func Contact(sent bool, csrfToken string, site Site) templ.Component {
	meta := PageMeta{
		Title:       "Contact",
		Description: "Get in touch with " + site.Name,
		URL:         buildURL(site.URL, "contact"),
		OGType:      "website",
	}
	return page(site, meta, "", func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<section class=\"contact\">")
		b.WriteString("<h1>Contact</h1>")
		if sent {
			b.WriteString("<div class=\"notice\"><p>Thanks for reaching out. We will get back to you soon.</p></div>")
		}
		b.WriteString("<form method=\"post\" action=\"/contact/\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<label>Name<input type=\"text\" name=\"name\" required/></label>")
		b.WriteString("<label>Email<input type=\"email\" name=\"email\" required/></label>")
		b.WriteString("<label>Message<textarea name=\"message\" rows=\"6\" required></textarea></label>")
		b.WriteString("<button type=\"submit\">Send</button>")
		b.WriteString("</form></section>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func csrfField(token string) string {
	return "<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(token) + "\"/>"
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/><title>Post not found</title><link rel=\"stylesheet\" href=\"/public/styles.css\"/></head><body><main class=\"error-page\"><h1>Post not found</h1><p>The page you are looking for does not exist.</p><a href=\"/\">Back to the blog</a></main></body></html>")
		return err
	})
}

// ServerError is the 500 page.
func ServerError() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/><title>Something went wrong</title><link rel=\"stylesheet\" href=\"/public/styles.css\"/></head><body><main class=\"error-page\"><h1>Something went wrong</h1><p>Please try again in a moment.</p><a href=\"/\">Back to the blog</a></main></body></html>")
		return err
	})
}
