package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/models"
)

const DefaultBaseURL = "http://localhost:8080"

// Client wraps the flashcard backend's HTTP API. It holds no per-user state;
// the bearer token travels in the request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the `{ success, message, data }` wrapper the AI endpoints use.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type formFile struct {
	field string
	media *models.Media
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token, ok := TokenFromContext(ctx)
	if !ok {
		return nil, ErrMissingToken
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) send(req *http.Request, op string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("op", op),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("backend request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// doJSON sends in (if non-nil) as JSON and decodes the response into out (if
// non-nil). An empty body is an error only when out is non-nil and
// allowEmpty is false.
func (c *Client) doJSON(ctx context.Context, op, fallback, method, path string, in, out any, allowEmpty bool) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(op, fallback, resp, out, allowEmpty)
}

func (c *Client) doMultipart(ctx context.Context, op, fallback, path string, fields map[string]string, files []formFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("%s: write field %s: %w", op, k, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.media.Name))
		h.Set("Content-Type", f.media.MIMEType)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("%s: create part %s: %w", op, f.field, err)
		}
		if _, err := part.Write(f.media.Data); err != nil {
			return fmt.Errorf("%s: write part %s: %w", op, f.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: close form: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.send(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(op, fallback, resp, out, false)
}

func decodeResponse(op, fallback string, resp *http.Response, out any, allowEmpty bool) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(op, fallback, resp)
	}
	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return nil
}

func unwrap[T any](op, fallback string, env *envelope[T]) (T, error) {
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		var zero T
		return zero, &Error{Op: op, Message: msg}
	}
	return env.Data, nil
}
