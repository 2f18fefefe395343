package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
)

// ErrNotConfigured is returned when the client is used without a base URL.
var ErrNotConfigured = errors.New("library: video host not configured")

// Client talks to the video-hosting API's library and collection endpoints.
// Requests are rate limited and retried with backoff; the remote side is a
// shared service and throttles aggressive callers.
type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
	limiter   *rate.Limiter
	attempts  uint
	logger    *slog.Logger
}

// NewClient builds a Client from the video_host configuration section.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.VideoHost.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := cfg.VideoHost.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	perSecond := cfg.VideoHost.RatePerSecond
	if perSecond <= 0 {
		perSecond = 4
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.VideoHost.BaseURL, "/"),
		accessKey: cfg.VideoHost.AccessKey,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(perSecond), 1),
		attempts:  uint(attempts),
		logger:    logging.NewComponentLogger(logger, "library-client"),
	}
}

// Libraries lists every library visible to the configured access key, so
// Client satisfies the Directory interface.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	var out struct {
		Items []Library `json:"items"`
	}
	if err := c.get(ctx, "/library", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Collections lists the collections inside one library.
func (c *Client) Collections(ctx context.Context, libraryID int64) ([]Collection, error) {
	var out struct {
		Items []Collection `json:"items"`
	}
	path := fmt.Sprintf("/library/%d/collections", libraryID)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateCollection creates a named collection inside a library and returns it.
func (c *Client) CreateCollection(ctx context.Context, libraryID int64, name string) (Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Collection{}, errors.New("library: collection name cannot be empty")
	}
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return Collection{}, fmt.Errorf("encode collection request: %w", err)
	}
	var created Collection
	path := fmt.Sprintf("/library/%d/collections", libraryID)
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return Collection{}, err
	}
	return created, nil
}

// EnsureCollection returns the existing collection with the given name or
// creates it when absent. Name comparison is case-insensitive to match the
// remote side's behavior.
func (c *Client) EnsureCollection(ctx context.Context, libraryID int64, name string) (Collection, error) {
	collections, err := c.Collections(ctx, libraryID)
	if err != nil {
		return Collection{}, err
	}
	for _, col := range collections {
		if strings.EqualFold(col.Name, name) {
			return col, nil
		}
	}
	created, err := c.CreateCollection(ctx, libraryID, name)
	if err != nil {
		return Collection{}, err
	}
	c.logger.Info("created collection",
		logging.Int64("library_id", libraryID),
		logging.String(logging.FieldCollection, name))
	return created, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("build request url: %w", err)
	}

	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			return c.roundTrip(ctx, method, endpoint, body, out)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			c.logger.Warn("retrying video host request",
				logging.String("method", method),
				logging.String("path", path),
				logging.Any("attempt", attempt+1),
				logging.Error(err))
		}),
	)
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessKey != "" {
		req.Header.Set("AccessKey", c.accessKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("video host request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("video host returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		// Client errors will not heal on retry; server errors and 429 might.
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Unrecoverable(err)
		}
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
