package studiosite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/studiosite/imagegen"
	"github.com/eringen/studiosite/store"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB

	// Object-store key prefix for library images.
	libraryKeyPrefix = "st_blog/library/"
)

// processImage decodes an image, resizes it down to maxImageWidth if wider,
// and re-encodes it as JPEG. Sources that cannot be decoded are stored
// as-is with their original content type.
func processImage(src []byte, contentType string) ([]byte, string) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return src, contentType
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return src, contentType
	}
	return buf.Bytes(), "image/jpeg"
}

// libraryKey builds a unique object-store key from the upload time, a
// random id, and a slug of the original name. The id makes keys unique
// without the lookup-and-retry dance a name-only scheme would need.
func libraryKey(originalName string) string {
	ext := filepath.Ext(originalName)
	base := Slugify(strings.TrimSuffix(originalName, ext))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s%d-%s-%s.jpg", libraryKeyPrefix, time.Now().UnixMilli(), uuid.NewString()[:8], base)
}

// firstWords keeps a prompt short enough to be a readable key component.
func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func (a *App) handleImageList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderImageList(c, nil, c.QueryParam("msg"))
}

func (a *App) handleImageGenerate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.Gen == nil {
		return a.renderImageList(c, nil, "Image generation is not configured.")
	}

	prompt := c.FormValue("prompt")
	model := c.FormValue("model")
	size := imagegen.Size(c.FormValue("size"))

	generated, err := a.Gen.Generate(c.Request().Context(), prompt, model, size)
	if err != nil {
		if errors.Is(err, imagegen.ErrEmptyPrompt) {
			return a.renderImageList(c, nil, "A prompt is required.")
		}
		c.Logger().Errorf("image generation failed: %v", err)
		return a.renderImageList(c, nil, "Image generation failed. Try again.")
	}
	// The returned URL is transient; the admin decides whether to save it
	// to the library before it expires.
	return a.renderImageList(c, &generated, "")
}

func (a *App) handleImageSaveGenerated(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.Gen == nil {
		return a.renderImageList(c, nil, "Image generation is not configured.")
	}

	srcURL := strings.TrimSpace(c.FormValue("url"))
	prompt := strings.TrimSpace(c.FormValue("prompt"))
	if srcURL == "" {
		return a.renderImageList(c, nil, "Nothing to save.")
	}

	ctx := c.Request().Context()
	data, contentType, err := a.Gen.Fetch(ctx, srcURL)
	if err != nil {
		c.Logger().Errorf("fetch generated image: %v", err)
		return a.renderImageList(c, nil, "Could not fetch the generated image. It may have expired.")
	}

	data, contentType = processImage(data, contentType)
	key := libraryKey(firstWords(prompt, 6))
	if err := a.Blobs.Upload(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("upload image: %w", err)
	}

	_, err = a.Images.Create(ctx, store.ImageInput{
		URL:      a.Blobs.URL(key),
		Filename: key,
		Prompt:   prompt,
		Source:   store.SourceGenerated,
	})
	if err != nil {
		return err
	}
	return a.renderImageList(c, nil, "Image saved to library.")
}

func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return a.renderImageList(c, nil, "No image file provided.")
	}
	if file.Size > maxUploadSize {
		return a.renderImageList(c, nil, "File too large (max 10MB).")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	contentType := file.Header.Get("Content-Type")
	data, contentType = processImage(data, contentType)

	ctx := c.Request().Context()
	key := libraryKey(file.Filename)
	if err := a.Blobs.Upload(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("upload image: %w", err)
	}

	_, err = a.Images.Create(ctx, store.ImageInput{
		URL:      a.Blobs.URL(key),
		Filename: key,
		Source:   store.SourceUploaded,
	})
	if err != nil {
		return err
	}
	return a.renderImageList(c, nil, "Image uploaded.")
}

// handleImageDelete removes the blob first, then the record. A blob that is
// already gone is fine; any other object-store failure keeps the record so
// the library never points at state we cannot account for.
func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	ctx := c.Request().Context()
	img, err := a.Images.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderImageList(c, nil, "Image not found.")
		}
		return err
	}

	if img.Filename != "" {
		if err := a.Blobs.Delete(ctx, img.Filename); err != nil {
			c.Logger().Errorf("delete blob %s: %v", img.Filename, err)
			return a.renderImageList(c, nil, "Could not delete the stored file. The image was kept.")
		}
	}

	if err := a.Images.Delete(ctx, img.ID); err != nil {
		return err
	}
	return a.renderImageList(c, nil, "Image deleted.")
}

func (a *App) renderImageList(c echo.Context, preview *imagegen.Generated, msg string) error {
	images, err := a.Images.List(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(images, preview, msg, CsrfToken(c)))
}
