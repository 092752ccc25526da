package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSubmissionDefaults(t *testing.T) {
	in, err := buildSubmission(options{
		title:   "T",
		content: "body",
		tags:    "",
	})
	require.NoError(t, err)

	assert.Equal(t, "T", in.Title)
	assert.Equal(t, "T", in.Excerpt, "excerpt falls back to the title")
	assert.Equal(t, []string{}, in.Tags)
	assert.False(t, in.Published, "submissions default to draft")
}

func TestBuildSubmissionParsesTags(t *testing.T) {
	in, err := buildSubmission(options{
		title:   "Launch",
		excerpt: "We shipped",
		content: "# Launch",
		tags:    "a, ,b,",
	})
	require.NoError(t, err)

	assert.Equal(t, "We shipped", in.Excerpt)
	assert.Equal(t, []string{"a", "b"}, in.Tags)
}

func TestBuildSubmissionRequiresTitleAndContent(t *testing.T) {
	_, err := buildSubmission(options{content: "body"})
	assert.Error(t, err)

	_, err = buildSubmission(options{title: "T"})
	assert.Error(t, err)

	_, err = buildSubmission(options{title: "   ", content: "body"})
	assert.Error(t, err)
}
