// Package remote talks to a REST item collection:
//
//	GET    {base}/{collection}
//	POST   {base}/{collection}
//	PUT    {base}/{collection}/{id}
//	DELETE {base}/{collection}/{id}
//
// Both `tada serve` and hosted mock APIs speak this shape.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

// A 429 is retried up to maxRetries times, waiting as long as Retry-After asks.
const (
	maxRetries       = 5
	defaultRetryWait = time.Second
	maxRetryWait     = 10 * time.Second
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collection API %s error %d: %s", e.Op, e.Status, e.Body)
}

// Is lets errors.Is(err, store.ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == store.ErrNotFound && e.Status == http.StatusNotFound
}

// Options configure a Client. Zero values pick sane defaults.
type Options struct {
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	// Token returns the bearer token per request; empty means no header.
	Token      func() string
	HTTPClient *http.Client
}

// Client is the HTTP wrapper for a remote item collection.
type Client struct {
	baseURL    string
	token      func() string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new collection client rooted at baseURL.
func NewClient(baseURL string, opt Options) *Client {
	hc := opt.HTTPClient
	if hc == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if opt.RatePerSec > 0 {
		limit = rate.Limit(opt.RatePerSec)
	}
	burst := opt.Burst
	if burst <= 0 {
		burst = 1
	}
	token := opt.Token
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: hc,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

func (c *Client) collectionURL(collection string, id model.ID) (string, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return "", err
	}
	u := c.baseURL + "/" + collection
	if id != "" {
		u += "/" + url.PathEscape(string(id))
	}
	return u, nil
}

// List fetches the full collection via GET.
func (c *Client) List(ctx context.Context, collection string) ([]model.Item, error) {
	u, err := c.collectionURL(collection, "")
	if err != nil {
		return nil, err
	}
	var items []model.Item
	if err := c.do(ctx, "list", http.MethodGet, u, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create posts a new item and returns the record with its server-assigned id.
func (c *Client) Create(ctx context.Context, collection string, in model.Item) (model.Item, error) {
	u, err := c.collectionURL(collection, "")
	if err != nil {
		return model.Item{}, err
	}
	in.ID = ""
	var out model.Item
	if err := c.do(ctx, "create", http.MethodPost, u, in, &out); err != nil {
		return model.Item{}, err
	}
	return out, nil
}

// Update replaces the item with the given id via PUT.
func (c *Client) Update(ctx context.Context, collection string, id model.ID, in model.Item) (model.Item, error) {
	u, err := c.collectionURL(collection, id)
	if err != nil {
		return model.Item{}, err
	}
	in.ID = id
	var out model.Item
	if err := c.do(ctx, "update", http.MethodPut, u, in, &out); err != nil {
		return model.Item{}, err
	}
	return out, nil
}

// Remove deletes the item with the given id. The response body is ignored.
func (c *Client) Remove(ctx context.Context, collection string, id model.ID) error {
	u, err := c.collectionURL(collection, id)
	if err != nil {
		return err
	}
	return c.do(ctx, "remove", http.MethodDelete, u, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, u string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		payload = b
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("collection API %s: %w", op, err)
		}
		resp, err := c.send(ctx, op, method, u, payload)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			wait := retryAfter(resp.Header.Get("Retry-After"), time.Now())
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if err := sleep(ctx, wait); err != nil {
				return fmt.Errorf("collection API %s: %w", op, err)
			}
			continue
		}

		err = decode(op, resp, out)
		resp.Body.Close()
		return err
	}
}

func (c *Client) send(ctx context.Context, op, method, u string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call collection %s API: %w", op, err)
	}
	return resp, nil
}

func decode(op string, resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryWait)
	}
	if at, err := http.ParseTime(v); err == nil {
		return min(max(at.Sub(now), 0), maxRetryWait)
	}
	return defaultRetryWait
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
