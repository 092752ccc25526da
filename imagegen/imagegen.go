// Package imagegen is a thin client for the hosted image-generation API
// used by the admin image library.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

const httpTimeout = 120 * time.Second

// ErrEmptyPrompt is returned before any network call when the prompt is
// blank.
var ErrEmptyPrompt = errors.New("imagegen: prompt must not be empty")

// Model is a selectable generation model with a display name for the
// admin UI.
type Model struct {
	ID   string
	Name string
}

// Models is the fixed set of models the generate form offers.
var Models = []Model{
	{ID: "dall-e-3", Name: "DALL-E 3"},
	{ID: "gpt-image-1", Name: "GPT Image 1"},
}

// ValidModel reports whether id is one of the selectable models.
func ValidModel(id string) bool {
	for _, m := range Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Size is a generation size preset.
type Size string

// Size presets offered by the generate form.
const (
	SizeLandscape Size = "landscape_16_9"
	SizeSquare    Size = "square"
	SizePortrait  Size = "portrait_4_3"
)

// Sizes lists the presets in display order.
var Sizes = []Size{SizeLandscape, SizeSquare, SizePortrait}

// Dimensions maps a preset to the pixel size the API expects. Unknown
// presets fall back to square.
func (s Size) Dimensions() string {
	switch s {
	case SizeLandscape:
		return "1792x1024"
	case SizePortrait:
		return "1024x1792"
	default:
		return "1024x1024"
	}
}

// Label returns the preset's display name for the admin UI.
func (s Size) Label() string {
	switch s {
	case SizeLandscape:
		return "Landscape (16:9)"
	case SizePortrait:
		return "Portrait (4:3)"
	default:
		return "Square"
	}
}

// Generated is the transient result of a generation call. It is held in
// the admin form until the user saves it to the library; nothing is
// persisted here.
type Generated struct {
	URL    string
	Prompt string
}

// Client calls the image-generation HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client. baseURL may be empty to use the hosted default.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// Generate requests a single image for prompt. The call is synchronous
// and is not retried; on failure the caller shows nothing and the user
// may try again.
func (c *Client) Generate(ctx context.Context, prompt, model string, size Size) (Generated, error) {
	if strings.TrimSpace(prompt) == "" {
		return Generated{}, ErrEmptyPrompt
	}
	if !ValidModel(model) {
		return Generated{}, fmt.Errorf("imagegen: unknown model %q", model)
	}

	body := map[string]any{
		"model":  model,
		"prompt": prompt,
		"n":      1,
		"size":   size.Dimensions(),
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Generated{}, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(jsonBody))
	if err != nil {
		return Generated{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Generated{}, fmt.Errorf("image api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Generated{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Generated{}, fmt.Errorf("image api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Generated{}, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return Generated{}, errors.New("imagegen: no image returned")
	}

	return Generated{URL: result.Data[0].URL, Prompt: prompt}, nil
}

// Fetch downloads the image bytes behind a transient generated URL.
// Generated URLs expire upstream, so a failure here usually means the
// user waited too long before saving.
func (c *Client) Fetch(ctx context.Context, imgURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
