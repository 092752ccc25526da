package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/studiosite/imagegen"
	"github.com/eringen/studiosite/store"
)

// AdminLogin renders the login form, with an error banner after a failed
// attempt.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return adminPage("Admin Login", func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<main class=\"admin-login\">")
		b.WriteString("<h1>Sign in</h1>")
		if showError {
			b.WriteString("<div class=\"error\">Invalid credentials</div>")
		}
		b.WriteString("<form method=\"post\" action=\"/admin/login/\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<label>Email<input type=\"email\" name=\"email\" autocomplete=\"username\" required/></label>")
		b.WriteString("<label>Password<input type=\"password\" name=\"password\" autocomplete=\"current-password\" required/></label>")
		b.WriteString("<button type=\"submit\">Sign in</button>")
		b.WriteString("</form></main>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// AdminDashboard renders the admin workspace with posts, images, and
// contacts tabs. Only the active tab's slice is populated.
func AdminDashboard(tab string, posts []store.BlogPost, images []store.BlogImage, contacts []store.Contact, message, csrfToken string) templ.Component {
	return adminPage("Dashboard", func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<main class=\"admin-dashboard\">")
		b.WriteString(adminHeader(csrfToken))
		b.WriteString(adminTabs(tab))
		if message != "" {
			b.WriteString("<div class=\"notice\">" + esc(message) + "</div>")
		}
		switch tab {
		case "images":
			b.WriteString(imageLibrarySection(images, nil, csrfToken))
		case "contacts":
			b.WriteString(contactsSection(contacts))
		default:
			b.WriteString(postsSection(posts, csrfToken))
		}
		b.WriteString("</main>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func adminHeader(csrfToken string) string {
	var b strings.Builder
	b.WriteString("<header class=\"admin-header\"><h1>Dashboard</h1>")
	b.WriteString("<form method=\"post\" action=\"/admin/logout/\">")
	b.WriteString(csrfField(csrfToken))
	b.WriteString("<button type=\"submit\">Sign out</button></form></header>")
	return b.String()
}

func adminTabs(active string) string {
	tabs := []struct{ key, label, href string }{
		{"posts", "Posts", "/admin/"},
		{"images", "Images", "/admin/?tab=images"},
		{"contacts", "Contacts", "/admin/?tab=contacts"},
	}
	var b strings.Builder
	b.WriteString("<nav class=\"admin-tabs\">")
	for _, t := range tabs {
		class := "tab"
		if t.key == active {
			class += " active"
		}
		b.WriteString("<a class=\"" + class + "\" href=\"" + t.href + "\">" + t.label + "</a>")
	}
	b.WriteString("</nav>")
	return b.String()
}

func postsSection(posts []store.BlogPost, csrfToken string) string {
	var b strings.Builder
	b.WriteString("<section class=\"admin-posts\">")
	b.WriteString("<div class=\"section-actions\"><a class=\"button\" href=\"/admin/posts/new/\">New post</a></div>")
	if len(posts) == 0 {
		b.WriteString("<p class=\"empty\">No posts yet.</p></section>")
		return b.String()
	}
	b.WriteString("<table><thead><tr><th>Title</th><th>Status</th><th>Published</th><th></th></tr></thead><tbody>")
	for _, p := range posts {
		b.WriteString("<tr>")
		b.WriteString("<td><a href=\"/admin/posts/" + PathEscape(p.ID) + "/edit/\">" + esc(p.Title) + "</a></td>")
		b.WriteString("<td><span class=\"status " + p.State.String() + "\">" + p.State.String() + "</span></td>")
		if p.PublishedAt.IsZero() {
			b.WriteString("<td>&mdash;</td>")
		} else {
			b.WriteString("<td>" + esc(p.PublishedAt.Format("2006-01-02")) + "</td>")
		}
		b.WriteString("<td class=\"row-actions\">")
		b.WriteString("<a href=\"/admin/posts/" + PathEscape(p.ID) + "/preview/\">Preview</a>")
		toggleLabel := "Publish"
		if p.State == store.Published {
			toggleLabel = "Unpublish"
		}
		b.WriteString("<form method=\"post\" action=\"/admin/posts/" + PathEscape(p.ID) + "/publish/\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<button type=\"submit\">" + toggleLabel + "</button></form>")
		b.WriteString("<form method=\"post\" action=\"/admin/posts/" + PathEscape(p.ID) + "/delete/\" data-confirm=\"Delete this post?\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<button type=\"submit\" class=\"danger\">Delete</button></form>")
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table></section>")
	return b.String()
}

func contactsSection(contacts []store.Contact) string {
	var b strings.Builder
	b.WriteString("<section class=\"admin-contacts\">")
	if len(contacts) == 0 {
		b.WriteString("<p class=\"empty\">No submissions yet.</p></section>")
		return b.String()
	}
	b.WriteString("<table><thead><tr><th>Name</th><th>Email</th><th>Message</th><th>Received</th></tr></thead><tbody>")
	for _, ct := range contacts {
		b.WriteString("<tr>")
		b.WriteString("<td>" + esc(ct.Name) + "</td>")
		b.WriteString("<td><a href=\"mailto:" + esc(ct.Email) + "\">" + esc(ct.Email) + "</a></td>")
		b.WriteString("<td>" + esc(ct.Message) + "</td>")
		b.WriteString("<td>" + esc(ct.CreatedAt.Format("2006-01-02 15:04")) + "</td>")
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></section>")
	return b.String()
}

// AdminPostForm renders the post editor for a new or existing post.
func AdminPostForm(post store.BlogPost, isNew bool, csrfToken string) templ.Component {
	title := "Edit post"
	if isNew {
		title = "New post"
	}
	return adminPage(title, func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<main class=\"admin-form\">")
		b.WriteString("<h1>" + title + "</h1>")
		b.WriteString("<form method=\"post\" action=\"/admin/posts/save/\">")
		b.WriteString(csrfField(csrfToken))
		if !isNew {
			b.WriteString("<input type=\"hidden\" name=\"id\" value=\"" + esc(post.ID) + "\"/>")
		}
		b.WriteString("<label>Title<input type=\"text\" name=\"title\" value=\"" + esc(post.Title) + "\" required/></label>")
		b.WriteString("<label>Excerpt<input type=\"text\" name=\"excerpt\" value=\"" + esc(post.Excerpt) + "\" placeholder=\"Defaults to the title\"/></label>")
		b.WriteString("<label>Author<input type=\"text\" name=\"author\" value=\"" + esc(post.Author) + "\"/></label>")
		b.WriteString("<label>Tags<input type=\"text\" name=\"tags\" value=\"" + esc(JoinTags(post.Tags)) + "\" placeholder=\"design, process\"/></label>")
		b.WriteString("<label>Cover image URL<input type=\"url\" name=\"coverImage\" value=\"" + esc(post.CoverImage) + "\"/></label>")
		b.WriteString("<label>Content</label>")
		b.WriteString(editorToolbar())
		b.WriteString("<textarea name=\"content\" rows=\"20\" required>" + esc(post.Content) + "</textarea>")
		checked := ""
		if post.State == store.Published {
			checked = " checked"
		}
		b.WriteString("<label class=\"inline\"><input type=\"checkbox\" name=\"published\" value=\"1\"" + checked + "/> Published</label>")
		b.WriteString("<div class=\"form-actions\">")
		b.WriteString("<button type=\"submit\">Save</button>")
		b.WriteString("<a href=\"/admin/\">Cancel</a>")
		b.WriteString("</div></form>")
		b.WriteString("<p class=\"hint\">Pick cover and inline images from the <a href=\"/admin/?tab=images\">image library</a>.</p>")
		b.WriteString("</main>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// editorToolbar renders the markdown shortcut buttons above the content
// textarea. Each button carries a data-md-action consumed by admin.js.
func editorToolbar() string {
	actions := []struct{ action, label, title string }{
		{"bold", "B", "Bold"},
		{"italic", "I", "Italic"},
		{"h1", "H1", "Heading 1"},
		{"h2", "H2", "Heading 2"},
		{"h3", "H3", "Heading 3"},
		{"link", "Link", "Insert link"},
		{"image", "Img", "Insert image"},
		{"ul", "List", "Bulleted list"},
		{"ol", "1.", "Numbered list"},
		{"code", "Code", "Inline code"},
		{"quote", "Quote", "Blockquote"},
	}
	var b strings.Builder
	b.WriteString("<div class=\"editor-toolbar\">")
	for _, a := range actions {
		b.WriteString("<button type=\"button\" data-md-action=\"" + a.action + "\" title=\"" + a.title + "\">" + a.label + "</button>")
	}
	b.WriteString("</div>")
	return b.String()
}

// AdminImages renders the image library: generation form, optional
// transient preview, upload form, and the saved grid.
func AdminImages(images []store.BlogImage, preview *imagegen.Generated, message, csrfToken string) templ.Component {
	return adminPage("Image Library", func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<main class=\"admin-dashboard\">")
		b.WriteString(adminHeader(csrfToken))
		b.WriteString(adminTabs("images"))
		if message != "" {
			b.WriteString("<div class=\"notice\">" + esc(message) + "</div>")
		}
		b.WriteString(imageLibrarySection(images, preview, csrfToken))
		b.WriteString("</main>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func imageLibrarySection(images []store.BlogImage, preview *imagegen.Generated, csrfToken string) string {
	var b strings.Builder
	b.WriteString("<section class=\"image-library\">")

	b.WriteString("<div class=\"generate\"><h2>Generate an image</h2>")
	b.WriteString("<form method=\"post\" action=\"/admin/images/generate/\">")
	b.WriteString(csrfField(csrfToken))
	b.WriteString("<label>Prompt<textarea name=\"prompt\" rows=\"3\" required></textarea></label>")
	b.WriteString("<label>Model<select name=\"model\">")
	for _, m := range imagegen.Models {
		b.WriteString("<option value=\"" + esc(m.ID) + "\">" + esc(m.Name) + "</option>")
	}
	b.WriteString("</select></label>")
	b.WriteString("<label>Size<select name=\"size\">")
	for _, s := range imagegen.Sizes {
		b.WriteString("<option value=\"" + esc(string(s)) + "\">" + esc(s.Label()) + " (" + esc(s.Dimensions()) + ")</option>")
	}
	b.WriteString("</select></label>")
	b.WriteString("<button type=\"submit\">Generate</button>")
	b.WriteString("</form></div>")

	if preview != nil {
		b.WriteString("<div class=\"preview\"><h2>Preview</h2>")
		b.WriteString("<img src=\"" + esc(preview.URL) + "\" alt=\"" + esc(preview.Prompt) + "\"/>")
		b.WriteString("<p class=\"hint\">Save it to the library before the link expires.</p>")
		b.WriteString("<form method=\"post\" action=\"/admin/images/save/\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<input type=\"hidden\" name=\"url\" value=\"" + esc(preview.URL) + "\"/>")
		b.WriteString("<input type=\"hidden\" name=\"prompt\" value=\"" + esc(preview.Prompt) + "\"/>")
		b.WriteString("<button type=\"submit\">Save to library</button>")
		b.WriteString("</form></div>")
	}

	b.WriteString("<div class=\"upload\"><h2>Upload</h2>")
	b.WriteString("<form method=\"post\" action=\"/admin/images/upload/\" enctype=\"multipart/form-data\">")
	b.WriteString(csrfField(csrfToken))
	b.WriteString("<input type=\"file\" name=\"image\" accept=\"image/*\" required/>")
	b.WriteString("<button type=\"submit\">Upload</button>")
	b.WriteString("</form></div>")

	if len(images) == 0 {
		b.WriteString("<p class=\"empty\">The library is empty.</p>")
	} else {
		b.WriteString("<div class=\"image-grid\">")
		for _, img := range images {
			b.WriteString("<figure class=\"image-card\">")
			snippet := "![" + img.Prompt + "](" + img.URL + ")"
			b.WriteString("<img src=\"" + esc(img.URL) + "\" alt=\"" + esc(img.Prompt) + "\" loading=\"lazy\" data-image-markdown=\"" + esc(snippet) + "\"/>")
			b.WriteString("<figcaption>")
			if img.Prompt != "" {
				b.WriteString("<span class=\"prompt\">" + esc(img.Prompt) + "</span>")
			}
			b.WriteString("<span class=\"source\">" + esc(img.Source) + "</span>")
			b.WriteString("</figcaption>")
			b.WriteString("<form method=\"post\" action=\"/admin/images/" + PathEscape(img.ID) + "/delete/\" data-confirm=\"Delete this image?\">")
			b.WriteString(csrfField(csrfToken))
			b.WriteString("<button type=\"submit\" class=\"danger\">Delete</button>")
			b.WriteString("</form></figure>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</section>")
	return b.String()
}

// AdminPreview renders a post exactly as the public page would, regardless
// of publish state.
func AdminPreview(post store.BlogPost, site Site) templ.Component {
	return adminPage("Preview: "+post.Title, func(ctx context.Context, w io.Writer) error {
		banner := "<div class=\"preview-banner\">Preview &middot; " + esc(post.State.String()) + " &middot; <a href=\"/admin/posts/" + PathEscape(post.ID) + "/edit/\">Back to editor</a></div>"
		if _, err := io.WriteString(w, banner); err != nil {
			return err
		}
		return writePostArticle(ctx, w, post)
	})
}
