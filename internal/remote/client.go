// Package remote implements the people repository over the REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/jaskcontacts/internal/api"
	"github.com/jask/jaskcontacts/internal/domain"
)

// ErrStatus wraps unexpected HTTP replies.
var ErrStatus = errors.New("unexpected status")

const DefaultPollInterval = 2 * time.Second

// Client is a domain.PeopleRepository backed by a remote server.
type Client struct {
	base   string
	http   *http.Client
	poll   time.Duration
	logger *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithPollInterval sets how often SubscribeAll re-reads the list.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.poll = d
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// New returns a client for the server at baseURL (scheme and host, with or
// without the api prefix).
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, api.Prefix) {
		base += api.Prefix
	}
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: 30 * time.Second},
		poll:   DefaultPollInterval,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func statusError(resp *http.Response) error {
	var body api.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "" {
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, body.Error)
	}
	return fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
}

func (c *Client) list(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/people", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

// SubscribeAll polls the list and emits whenever it differs from the last
// emission. The first read is emitted immediately.
func (c *Client) SubscribeAll(ctx context.Context) <-chan domain.PeopleUpdate {
	out := make(chan domain.PeopleUpdate)
	go func() {
		defer close(out)
		ticker := time.NewTicker(c.poll)
		defer ticker.Stop()

		var last []byte
		lastErr := ""
		first := true
		for {
			raw, err := c.list(ctx)
			if ctx.Err() != nil {
				return
			}
			var u domain.PeopleUpdate
			changed := false
			switch {
			case err != nil:
				c.logger.Warn("poll people", "err", err)
				changed = first || err.Error() != lastErr
				lastErr = err.Error()
				u.Err = fmt.Errorf("list people: %w", err)
			default:
				changed = first || lastErr != "" || !bytes.Equal(raw, last)
				lastErr = ""
				last = raw
				if jerr := json.Unmarshal(raw, &u.People); jerr != nil {
					u = domain.PeopleUpdate{Err: fmt.Errorf("decode people: %w", jerr)}
				}
			}
			first = false
			if changed {
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (c *Client) FindByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	resp, err := c.do(ctx, http.MethodGet, "/people/"+id.String(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		var p domain.Person
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return nil, fmt.Errorf("decode person: %w", err)
		}
		return &p, nil
	case http.StatusNotFound:
		return nil, nil
	}
	return nil, statusError(resp)
}

func (c *Client) Count(ctx context.Context) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, "/people/count", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, statusError(resp)
	}
	var body api.CountResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return body.Count, nil
}

// write maps a mutation reply onto the port contract: 2xx is true,
// 409/422/404 and transport failures are false, anything else is a fault.
func (c *Client) write(ctx context.Context, method, path string, body any) (bool, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		c.logger.Warn("people write failed", "method", method, "path", path, "err", err)
		return false, nil
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusNotFound:
		c.logger.Info("people write rejected", "method", method, "path", path, "status", resp.StatusCode)
		return false, nil
	}
	return false, statusError(resp)
}

func (c *Client) Add(ctx context.Context, p domain.Person) (bool, error) {
	return c.write(ctx, http.MethodPost, "/people", p)
}

func (c *Client) AddAll(ctx context.Context, people []domain.Person) (bool, error) {
	return c.write(ctx, http.MethodPost, "/people/batch", people)
}

func (c *Client) Update(ctx context.Context, p domain.Person) (bool, error) {
	return c.write(ctx, http.MethodPut, "/people/"+p.ID.String(), p)
}

func (c *Client) Remove(ctx context.Context, p domain.Person) (bool, error) {
	return c.write(ctx, http.MethodDelete, "/people/"+p.ID.String(), nil)
}
