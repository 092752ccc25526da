package studiosite

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/studiosite/store"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("tab"), c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	email := strings.TrimSpace(c.FormValue("email"))
	pass := c.FormValue("password")
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.Config.AdminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1
	if emailOK && passOK {
		if err := setAdminSession(c, email); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminNewPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post := store.BlogPost{
		Author: a.Config.Author,
		Tags:   []string{},
	}
	if a.Config.PublishNewPosts {
		post.State = store.Published
	}
	return Render(c, a.Views.AdminPostForm(post, true, CsrfToken(c)))
}

func (a *App) handleAdminEditPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminPostForm(post, false, CsrfToken(c)))
}

func (a *App) handleAdminPreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.AdminPreview(post, a.site()))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return a.redirectDashboard(c, "posts", "Title is required.")
	}
	content := c.FormValue("content")
	if strings.TrimSpace(content) == "" {
		return a.redirectDashboard(c, "posts", "Content is required.")
	}
	excerpt := strings.TrimSpace(c.FormValue("excerpt"))
	if excerpt == "" {
		excerpt = title
	}
	author := strings.TrimSpace(c.FormValue("author"))
	if author == "" {
		author = a.Config.Author
	}

	in := store.PostInput{
		Title:      title,
		Excerpt:    excerpt,
		Content:    content,
		CoverImage: strings.TrimSpace(c.FormValue("coverImage")),
		Tags:       ParseTagInput(c.FormValue("tags")),
		Author:     author,
		Published:  c.FormValue("published") != "",
	}

	ctx := c.Request().Context()
	id := c.FormValue("id")
	if id == "" {
		if _, err := a.Posts.Create(ctx, in); err != nil {
			return err
		}
		a.Cache.Invalidate()
		return a.redirectDashboard(c, "posts", "Post created.")
	}
	if err := a.Posts.Update(ctx, id, in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.redirectDashboard(c, "posts", "Post not found.")
		}
		return err
	}
	a.Cache.Invalidate()
	return a.redirectDashboard(c, "posts", "Post saved.")
}

func (a *App) handleAdminTogglePublish(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Posts.TogglePublish(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.redirectDashboard(c, "posts", "Post not found.")
		}
		return err
	}
	a.Cache.Invalidate()
	if post.State == store.Published {
		return a.redirectDashboard(c, "posts", "Post published.")
	}
	return a.redirectDashboard(c, "posts", "Post unpublished.")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Posts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.redirectDashboard(c, "posts", "Post not found.")
		}
		return err
	}
	a.Cache.Invalidate()
	return a.redirectDashboard(c, "posts", "Post deleted.")
}

func (a *App) redirectDashboard(c echo.Context, tab, msg string) error {
	q := url.Values{}
	if tab != "" && tab != "posts" {
		q.Set("tab", tab)
	}
	if msg != "" {
		q.Set("msg", msg)
	}
	target := "/admin/"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (a *App) renderAdminDashboard(c echo.Context, tab, msg string) error {
	ctx := c.Request().Context()
	if tab == "" {
		tab = "posts"
	}

	var (
		posts    []store.BlogPost
		images   []store.BlogImage
		contacts []store.Contact
		err      error
	)
	switch tab {
	case "images":
		images, err = a.Images.List(ctx)
	case "contacts":
		contacts, err = a.Contacts.List(ctx)
	default:
		tab = "posts"
		posts, err = a.Posts.ListAll(ctx)
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(tab, posts, images, contacts, msg, CsrfToken(c)))
}
