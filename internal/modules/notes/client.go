// Package notes reads learning notes from a Scrapbox project.
package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/choiben-assist/ai-backend/internal/config"
	"go.uber.org/zap"
)

// Page is one entry of a project's page list.
type Page struct {
	Title   string `json:"title"`
	Updated int64  `json:"updated"`
}

// Client talks to the Scrapbox REST API. Every failure degrades to an empty
// result and a log line; nothing is returned to the caller as an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	now        func() time.Time
}

func New(cfg config.NotesConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Named("notes"),
		now:        time.Now,
	}
}

// ListPages returns the project's page list in API order.
func (c *Client) ListPages(ctx context.Context, project string) []Page {
	var payload struct {
		Pages []Page `json:"pages"`
	}
	body, err := c.get(ctx, "/pages/"+url.PathEscape(project))
	if err != nil {
		c.log.Error("failed to list pages", zap.String("project", project), zap.Error(err))
		return nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Error("malformed page list", zap.String("project", project), zap.Error(err))
		return nil
	}
	return payload.Pages
}

// PageText returns the plain text body of one page, or "" when unavailable.
func (c *Client) PageText(ctx context.Context, project, title string) string {
	body, err := c.get(ctx, "/pages/"+url.PathEscape(project)+"/"+url.PathEscape(title)+"/text")
	if err != nil {
		c.log.Error("failed to fetch page text",
			zap.String("project", project),
			zap.String("title", title),
			zap.Error(err),
		)
		return ""
	}
	return string(body)
}

// RecentPages returns pages updated within the last days, newest first.
func (c *Client) RecentPages(ctx context.Context, project string, days int) []Page {
	pages := c.ListPages(ctx, project)
	if len(pages) == 0 {
		return nil
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Updated > pages[j].Updated })

	cutoff := c.now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	out := pages[:0]
	for _, p := range pages {
		if p.Updated > cutoff {
			out = append(out, p)
		}
	}
	return out
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
