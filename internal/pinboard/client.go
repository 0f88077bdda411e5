// Package pinboard is a minimal client for the Pinboard v1 API, covering
// the two calls an incremental sync needs.
package pinboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/pinsync/internal/config"
	"github.com/user/pinsync/internal/syncer"
)

var (
	// ErrNoCredentials is returned by New when neither a token nor a
	// username/password pair is configured.
	ErrNoCredentials = errors.New("pinboard: no credentials configured (set pinboard.token or pinboard.username/password)")
	// ErrUnauthorized is returned when the API rejects the credentials.
	ErrUnauthorized = errors.New("pinboard: authentication failed")
)

const userAgent = "pinsync/1.0"

// Client talks to the Pinboard API. It implements syncer.Remote.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	token    string
	username string
	password string
}

// New builds a client from config. Credential problems surface here so the
// caller decides how to exit.
func New(cfg config.PinboardConfig) (*Client, error) {
	if cfg.Token == "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, ErrNoCredentials
	}
	if cfg.Token != "" && !strings.Contains(cfg.Token, ":") {
		return nil, fmt.Errorf("pinboard: malformed API token, expected user:TOKEN")
	}
	base := strings.TrimRight(cfg.APIURL, "/")
	if base == "" {
		base = config.DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		BaseURL:  base,
		token:    cfg.Token,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

type updateResponse struct {
	UpdateTime string `json:"update_time"`
}

// post matches the JSON returned by posts/all.
type post struct {
	Href        string `json:"href"`
	Description string `json:"description"`
	Extended    string `json:"extended"`
	Tags        string `json:"tags"`
	Time        string `json:"time"`
}

// LastModified returns the most recent time a bookmark was added, updated
// or deleted.
func (c *Client) LastModified(ctx context.Context) (time.Time, error) {
	var resp updateResponse
	if err := c.get(ctx, "posts/update", nil, &resp); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, resp.UpdateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("pinboard: bad update_time %q: %w", resp.UpdateTime, err)
	}
	return t, nil
}

// Posts returns all bookmarks modified at or after since, optionally
// filtered by a single tag.
func (c *Client) Posts(ctx context.Context, since time.Time, tag string) ([]syncer.Bookmark, error) {
	params := url.Values{}
	params.Set("fromdt", since.UTC().Format(time.RFC3339))
	if tag != "" {
		params.Set("tag", tag)
	}

	var posts []post
	if err := c.get(ctx, "posts/all", params, &posts); err != nil {
		return nil, err
	}

	bookmarks := make([]syncer.Bookmark, 0, len(posts))
	for _, p := range posts {
		b := syncer.Bookmark{
			URL:         p.Href,
			Description: p.Description,
			Extended:    p.Extended,
			Tags:        strings.Fields(p.Tags),
		}
		if p.Time != "" {
			if t, err := time.Parse(time.RFC3339, p.Time); err == nil {
				b.Time = t
			}
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("format", "json")
	if c.token != "" {
		params.Set("auth_token", c.token)
	}

	reqURL := c.BaseURL + "/" + method + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token == "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("pinboard %s: %w", method, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pinboard %s: status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pinboard %s: decoding response: %w", method, err)
	}
	return nil
}
