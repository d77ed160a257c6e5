package linkcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/lthms/linkdex/internal/manifest"
)

// DeadLink reports one resource whose URL failed its check.
type DeadLink struct {
	Name   string `yaml:"name" json:"name"`
	URL    string `yaml:"url" json:"url"`
	Status string `yaml:"status" json:"status"`
}

// Checker probes URLs with HEAD requests, falling back to GET when the
// server rejects HEAD. A nil store disables caching.
type Checker struct {
	client *retryablehttp.Client
	store  *Store
	maxAge time.Duration
}

// New builds a checker with the given per-request timeout. store may be
// nil; maxAge bounds how long a cached pass is trusted.
func New(timeout time.Duration, store *Store, maxAge time.Duration) *Checker {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	return &Checker{client: client, store: store, maxAge: maxAge}
}

// Check probes every record and returns the dead ones. Records with a fresh
// cached pass are skipped. Results are recorded in the store as they arrive.
func (c *Checker) Check(ctx context.Context, records []manifest.Resource) ([]DeadLink, error) {
	var dead []DeadLink
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return dead, err
		}
		if r.URL == "" {
			continue
		}
		if c.store != nil && c.store.Fresh(r.URL, c.maxAge) {
			continue
		}

		status, ok := c.probe(ctx, r.URL)
		if c.store != nil {
			if err := c.store.Record(r.URL, status, ok); err != nil {
				slog.Warn("linkcheck: could not cache result", "url", r.URL, "error", err)
			}
		}
		if !ok {
			dead = append(dead, DeadLink{Name: r.DisplayName(), URL: r.URL, Status: status})
		}
	}
	return dead, nil
}

func (c *Checker) probe(ctx context.Context, url string) (string, bool) {
	status, ok, err := c.request(ctx, http.MethodHead, url)
	if err != nil {
		return err.Error(), false
	}
	if !ok && status == fmt.Sprint(http.StatusMethodNotAllowed) {
		status, ok, err = c.request(ctx, http.MethodGet, url)
		if err != nil {
			return err.Error(), false
		}
	}
	return status, ok
}

func (c *Checker) request(ctx context.Context, method, url string) (string, bool, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return "", false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	return fmt.Sprint(resp.StatusCode), resp.StatusCode < 400, nil
}
