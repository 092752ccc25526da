package views

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/studiosite/store"
)

func TestAdminPostFormRendersEditorToolbar(t *testing.T) {
	var b strings.Builder
	err := AdminPostForm(store.BlogPost{Title: "Draft"}, true, "tok").Render(context.Background(), &b)
	require.NoError(t, err)

	html := b.String()
	for _, action := range []string{"bold", "italic", "h1", "h2", "h3", "link", "image", "ul", "ol", "code", "quote"} {
		assert.Contains(t, html, `data-md-action="`+action+`"`, "toolbar is missing the %s button", action)
	}
	// Shortcut buttons must never submit the surrounding form.
	assert.NotContains(t, html, `<button data-md-action`)
	assert.Contains(t, html, `<button type="button" data-md-action="bold"`)
	assert.Contains(t, html, `<textarea name="content"`)
}
