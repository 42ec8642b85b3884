package verify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultClassifierURL   = "https://api.anthropic.com/v1/messages"
	DefaultClassifierModel = "claude-sonnet-4-20250514"
	apiVersion             = "2023-06-01"
	maxTokens              = 1000
)

var errNoText = errors.New("classifier response has no text block")

// HTTPClassifier asks a vision model behind a messages-style API whether an
// image shows the requested item.
type HTTPClassifier struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
	logger     *slog.Logger
}

type ClassifierConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewHTTPClassifier(cfg ClassifierConfig) *HTTPClassifier {
	c := &HTTPClassifier{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     cfg.Logger,
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = 30 * time.Second
	}
	if c.url == "" {
		c.url = DefaultClassifierURL
	}
	if c.model == "" {
		c.model = DefaultClassifierModel
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

var _ Classifier = (*HTTPClassifier)(nil)

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

func prompt(itemName string) string {
	return fmt.Sprintf(`You are verifying images for a location-based scavenger hunt.

The player is looking for: "%[1]s"

Analyze this image and determine if it shows the requested item. Consider:
- Does the image clearly show %[1]s?
- Is the item the main subject of the photo?

Respond ONLY with a JSON object (no preamble, no markdown):
{
  "verified": true or false,
  "confidence": number between 0-100,
  "feedback": "brief encouraging message explaining your decision"
}`, itemName)
}

func (c *HTTPClassifier) Classify(ctx context.Context, itemName string, image []byte, mediaType string) (Classification, error) {
	log := c.logger.With("component", "classifier", "item", itemName)
	if mediaType == "" {
		mediaType = http.DetectContentType(image)
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Type: "image", Source: &imageSource{
					Type:      "base64",
					MediaType: mediaType,
					Data:      base64.StdEncoding.EncodeToString(image),
				}},
				{Type: "text", Text: prompt(itemName)},
			},
		}},
	})
	if err != nil {
		return Classification{}, fmt.Errorf("encoding classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Classification{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", apiVersion)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("classifier responded", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Classification{}, fmt.Errorf("classifier status %d: %s", resp.StatusCode, string(msg))
	}

	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Classification{}, fmt.Errorf("decoding classifier response: %w", err)
	}
	return parseClassification(out)
}

func parseClassification(resp messagesResponse) (Classification, error) {
	var text string
	found := false
	for _, b := range resp.Content {
		if b.Type == "text" {
			text, found = b.Text, true
			break
		}
	}
	if !found {
		return Classification{}, errNoText
	}

	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	var c Classification
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return Classification{}, fmt.Errorf("parsing classification %q: %w", text, err)
	}
	c.Confidence = min(max(c.Confidence, 0), 100)
	return c, nil
}

// DecodeImage accepts raw base64 or a data URL ("data:image/png;base64,...")
// and returns the bytes and, for data URLs, the declared media type.
func DecodeImage(s string) ([]byte, string, error) {
	mediaType := ""
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", errors.New("malformed data URL")
		}
		mediaType, _, _ = strings.Cut(meta, ";")
		s = data
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	if len(b) == 0 {
		return nil, "", errors.New("image is empty")
	}
	return b, mediaType, nil
}
