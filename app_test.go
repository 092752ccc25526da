package studiosite

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/studiosite/store"
)

// fakePostStore is an in-memory PostStore for handler tests.
type fakePostStore struct {
	posts map[string]store.BlogPost
}

func newFakePostStore(posts ...store.BlogPost) *fakePostStore {
	f := &fakePostStore{posts: make(map[string]store.BlogPost)}
	for _, p := range posts {
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakePostStore) Create(_ context.Context, in store.PostInput) (store.BlogPost, error) {
	p := store.BlogPost{
		ID:          "new-id",
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		CoverImage:  in.CoverImage,
		Tags:        in.Tags,
		Author:      in.Author,
		PublishedAt: time.Now().UTC(),
	}
	if in.Published {
		p.State = store.Published
	}
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePostStore) Update(_ context.Context, id string, in store.PostInput) error {
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Title, p.Excerpt, p.Content = in.Title, in.Excerpt, in.Content
	p.CoverImage, p.Tags, p.Author = in.CoverImage, in.Tags, in.Author
	p.State = store.Draft
	if in.Published {
		p.State = store.Published
	}
	f.posts[id] = p
	return nil
}

func (f *fakePostStore) TogglePublish(_ context.Context, id string) (store.BlogPost, error) {
	p, ok := f.posts[id]
	if !ok {
		return store.BlogPost{}, store.ErrNotFound
	}
	if p.State == store.Published {
		p.State = store.Draft
	} else {
		p.State = store.Published
		p.PublishedAt = time.Now().UTC()
	}
	f.posts[id] = p
	return p, nil
}

func (f *fakePostStore) Delete(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostStore) Get(_ context.Context, id string) (store.BlogPost, error) {
	p, ok := f.posts[id]
	if !ok {
		return store.BlogPost{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakePostStore) ListAll(_ context.Context) ([]store.BlogPost, error) {
	var out []store.BlogPost
	for _, p := range f.posts {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePostStore) ListPublished(_ context.Context) ([]store.BlogPost, error) {
	var out []store.BlogPost
	for _, p := range f.posts {
		if p.State == store.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeImageStore is an in-memory ImageStore.
type fakeImageStore struct {
	images map[string]store.BlogImage
}

func newFakeImageStore(images ...store.BlogImage) *fakeImageStore {
	f := &fakeImageStore{images: make(map[string]store.BlogImage)}
	for _, img := range images {
		f.images[img.ID] = img
	}
	return f
}

func (f *fakeImageStore) Create(_ context.Context, in store.ImageInput) (store.BlogImage, error) {
	img := store.BlogImage{
		ID:        "img-new",
		URL:       in.URL,
		Filename:  in.Filename,
		Prompt:    in.Prompt,
		Source:    in.Source,
		CreatedAt: time.Now().UTC(),
	}
	f.images[img.ID] = img
	return img, nil
}

func (f *fakeImageStore) Get(_ context.Context, id string) (store.BlogImage, error) {
	img, ok := f.images[id]
	if !ok {
		return store.BlogImage{}, store.ErrNotFound
	}
	return img, nil
}

func (f *fakeImageStore) Delete(_ context.Context, id string) error {
	if _, ok := f.images[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.images, id)
	return nil
}

func (f *fakeImageStore) List(_ context.Context) ([]store.BlogImage, error) {
	var out []store.BlogImage
	for _, img := range f.images {
		out = append(out, img)
	}
	return out, nil
}

// fakeContactStore is an in-memory ContactStore.
type fakeContactStore struct {
	contacts []store.Contact
}

func (f *fakeContactStore) Create(_ context.Context, in store.ContactInput) (store.Contact, error) {
	ct := store.Contact{
		ID:        "ct-new",
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	f.contacts = append(f.contacts, ct)
	return ct, nil
}

func (f *fakeContactStore) List(_ context.Context) ([]store.Contact, error) {
	return f.contacts, nil
}

// fakeBlobStore records uploads and deletes; deleteErr simulates an
// object-store failure.
type fakeBlobStore struct {
	uploads   map[string][]byte
	deleted   []string
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.uploads[key] = data
	return nil
}

func (f *fakeBlobStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestApp(posts PostStore, images ImageStore, contacts ContactStore, blobs BlobStore) *App {
	cfg := SiteConfig{
		Name:          "Studio",
		URL:           "https://studio.example.com",
		AdminEmail:    "admin@example.com",
		AdminPassword: "correct horse",
		SessionSecret: "test-secret",
	}
	cfg.setDefaults()
	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Posts:    posts,
		Images:   images,
		Contacts: contacts,
		Blobs:    blobs,
		Views:    DefaultViews(),
	}
	a.Cache = NewPostCache(posts, cfg.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	return a
}

// call runs a handler through the session middleware. asAdmin fakes an
// authenticated session by setting it inside the same request.
func call(t *testing.T, a *App, method, target string, form url.Values, asAdmin bool, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()

	wrapped := session.Middleware(sessions.NewCookieStore([]byte("test")))(func(c echo.Context) error {
		if asAdmin {
			require.NoError(t, setAdminSession(c, a.Config.AdminEmail))
		}
		return handler(c)
	})
	c := a.Echo.NewContext(req, rec)
	require.NoError(t, wrapped(c))
	return rec
}

func publishedPost(id, title string, tags ...string) store.BlogPost {
	return store.BlogPost{
		ID:          id,
		Title:       title,
		Excerpt:     title + " excerpt",
		Content:     "# " + title,
		Tags:        tags,
		Author:      "Studio Team",
		State:       store.Published,
		PublishedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func multipartImage(t *testing.T, filename string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHomeListsOnlyPublishedPosts(t *testing.T) {
	draft := publishedPost("d1", "Hidden Draft")
	draft.State = store.Draft
	a := newTestApp(newFakePostStore(publishedPost("p1", "Visible Post"), draft), newFakeImageStore(), &fakeContactStore{}, newFakeBlobStore())

	rec := call(t, a, http.MethodGet, "/", nil, false, a.handleHome)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Visible Post")
	assert.NotContains(t, rec.Body.String(), "Hidden Draft")
}

func TestHomeShowsComingSoonWhenEmpty(t *testing.T) {
	a := newTestApp(newFakePostStore(), newFakeImageStore(), &fakeContactStore{}, newFakeBlobStore())

	rec := call(t, a, http.MethodGet, "/", nil, false, a.handleHome)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coming Soon")
}

func TestPostPageNotFoundForUnknownOrDraft(t *testing.T) {
	draft := publishedPost("d1", "Draft")
	draft.State = store.Draft
	a := newTestApp(newFakePostStore(draft), newFakeImageStore(), &fakeContactStore{}, newFakeBlobStore())

	for _, id := range []string{"missing", "d1"} {
		req := httptest.NewRequest(http.MethodGet, "/blog/post/"+id+"/", nil)
		rec := httptest.NewRecorder()
		c := a.Echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, a.handlePost(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Post not found")
	}
}

func TestAdminLoginRequiresBothCredentials(t *testing.T) {
	a := newTestApp(newFakePostStore(), newFakeImageStore(), &fakeContactStore{}, newFakeBlobStore())

	tests := []struct {
		name     string
		email    string
		password string
		wantOK   bool
	}{
		{"both correct", "admin@example.com", "correct horse", true},
		{"wrong password", "admin@example.com", "nope", false},
		{"wrong email", "other@example.com", "correct horse", false},
		{"both wrong", "other@example.com", "nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"email": {tt.email}, "password": {tt.password}}
			rec := call(t, a, http.MethodPost, "/admin/login/", form, false, a.handleAdminLogin)
			if tt.wantOK {
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, "/admin/", rec.Header().Get("Location"))
			} else {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), "Invalid credentials")
			}
		})
	}
}

func TestAdminLoginRateLimited(t *testing.T) {
	a := newTestApp(newFakePostStore(), newFakeImageStore(), &fakeContactStore{}, newFakeBlobStore())
	form := url.Values{"email": {"x"}, "password": {"y"}}

	for i := 0; i < 5; i++ {
		call(t, a, http.MethodPost, "/admin/login/", form, false, a.handleAdminLogin)
	}
	rec := call(t, a, http.MethodPost, "/admin/login/", form, false, a.handleAdminLogin)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdminSaveRedirectsWhenUnauthenticated(t *testing.T) {
	posts := newFakePostStore()
	a := newTestApp(posts, newFakeImageStore(), &fakeContactStore{}, newFakeBlobStore())

	form := url.Values{"title": {"T"}, "content": {"body"}}
	rec := call(t, a, http.MethodPost, "/admin/posts/save/", form, false, a.handleAdminSave)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))
	assert.Empty(t, posts.posts, "unauthenticated save must not create a post")
}

func TestAdminSaveCreatesPostWithExcerptFallback(t *testing.T) {
	posts := newFakePostStore()
	a := newTestApp(posts, newFakeImageStore(), &fakeContactStore{}, newFakeBlobStore())

	form := url.Values{
		"title":   {"Launch Notes"},
		"content": {"# Hello"},
		"tags":    {"a, ,b,"},
	}
	rec := call(t, a, http.MethodPost, "/admin/posts/save/", form, true, a.handleAdminSave)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, posts.posts, 1)
	p := posts.posts["new-id"]
	assert.Equal(t, "Launch Notes", p.Title)
	assert.Equal(t, "Launch Notes", p.Excerpt, "excerpt falls back to the title")
	assert.Equal(t, []string{"a", "b"}, p.Tags)
	assert.Equal(t, "Studio Team", p.Author, "author defaults to the configured byline")
}

func TestContactSubmitStoresSubmission(t *testing.T) {
	contacts := &fakeContactStore{}
	a := newTestApp(newFakePostStore(), newFakeImageStore(), contacts, newFakeBlobStore())

	form := url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"Hello there"},
	}
	rec := call(t, a, http.MethodPost, "/contact/", form, false, a.handleContactSubmit)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contact/?sent=1", rec.Header().Get("Location"))
	require.Len(t, contacts.contacts, 1)
	assert.Equal(t, "Ada", contacts.contacts[0].Name)
}

func TestContactSubmitRejectsIncompleteForm(t *testing.T) {
	contacts := &fakeContactStore{}
	a := newTestApp(newFakePostStore(), newFakeImageStore(), contacts, newFakeBlobStore())

	form := url.Values{"name": {"Ada"}, "email": {""}, "message": {"hi"}}
	rec := call(t, a, http.MethodPost, "/contact/", form, false, a.handleContactSubmit)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, contacts.contacts)
}

func TestImageDeleteRemovesBlobThenRecord(t *testing.T) {
	blobs := newFakeBlobStore()
	images := newFakeImageStore(store.BlogImage{
		ID:       "img1",
		URL:      "https://cdn.example.com/st_blog/library/1-hero.jpg",
		Filename: "st_blog/library/1-hero.jpg",
		Source:   store.SourceUploaded,
	})
	a := newTestApp(newFakePostStore(), images, &fakeContactStore{}, blobs)

	rec := call(t, a, http.MethodPost, "/admin/images/img1/delete/", url.Values{}, true, func(c echo.Context) error {
		c.SetParamNames("id")
		c.SetParamValues("img1")
		return a.handleImageDelete(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"st_blog/library/1-hero.jpg"}, blobs.deleted)
	assert.Empty(t, images.images, "record removed after blob")
}

func TestImageDeleteKeepsRecordWhenBlobFails(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.deleteErr = errors.New("object store down")
	images := newFakeImageStore(store.BlogImage{
		ID:       "img1",
		Filename: "st_blog/library/1-hero.jpg",
		Source:   store.SourceUploaded,
	})
	a := newTestApp(newFakePostStore(), images, &fakeContactStore{}, blobs)

	rec := call(t, a, http.MethodPost, "/admin/images/img1/delete/", url.Values{}, true, func(c echo.Context) error {
		c.SetParamNames("id")
		c.SetParamValues("img1")
		return a.handleImageDelete(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, images.images, 1, "record kept when the blob cannot be deleted")
	assert.Contains(t, rec.Body.String(), "kept")
}

func TestImageUploadStoresBlobAndRecord(t *testing.T) {
	blobs := newFakeBlobStore()
	images := newFakeImageStore()
	a := newTestApp(newFakePostStore(), images, &fakeContactStore{}, blobs)

	body, contentType := multipartImage(t, "photo.png", []byte("not-a-real-image"))
	req := httptest.NewRequest(http.MethodPost, "/admin/images/upload/", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	wrapped := session.Middleware(sessions.NewCookieStore([]byte("test")))(func(c echo.Context) error {
		require.NoError(t, setAdminSession(c, a.Config.AdminEmail))
		return a.handleImageUpload(c)
	})
	c := a.Echo.NewContext(req, rec)
	require.NoError(t, wrapped(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, blobs.uploads, 1, "undecodable uploads are stored as-is")
	require.Len(t, images.images, 1)
	for _, img := range images.images {
		assert.True(t, strings.HasPrefix(img.Filename, "st_blog/library/"), "key %q must use the library prefix", img.Filename)
		assert.Equal(t, store.SourceUploaded, img.Source)
		assert.Equal(t, blobs.URL(img.Filename), img.URL)
	}
}
