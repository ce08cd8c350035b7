// Package instagram provides a client for an Apify-style Instagram profile
// scrape API: POST a list of usernames, receive one profile item per handle.
package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/resilience"
)

const defaultBaseURL = "https://api.apify.com/v2/acts/apify~instagram-profile-scraper/run-sync-get-dataset-items"

// ErrProfileNotFound is returned when the scraper yields no item for the
// requested handle.
var ErrProfileNotFound = errors.New("instagram: profile not found")

// Client fetches Instagram profile data.
type Client interface {
	Profile(ctx context.Context, handle string) (*Profile, error)
}

// Profile is one scraped profile item.
type Profile struct {
	Username          string `json:"username"`
	FullName          string `json:"fullName"`
	Biography         string `json:"biography"`
	FollowersCount    *int   `json:"followersCount"`
	FollowsCount      int    `json:"followsCount"`
	PostsCount        int    `json:"postsCount"`
	IsBusinessAccount bool   `json:"isBusinessAccount"`
	Private           bool   `json:"private"`
	ExternalURL       string `json:"externalUrl"`
	LatestPosts       []Post `json:"latestPosts"`
}

// Post is one recent post on a profile.
type Post struct {
	Caption       string    `json:"caption"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	Timestamp     time.Time `json:"timestamp"`
}

type profileRequest struct {
	Usernames    []string `json:"usernames"`
	ResultsLimit int      `json:"resultsLimit"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default scrape endpoint (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates an Instagram scrape client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Profile(ctx context.Context, handle string) (*Profile, error) {
	body, err := json.Marshal(profileRequest{
		Usernames:    []string{handle},
		ResultsLimit: 1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "instagram: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?token="+c.token, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "instagram: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "instagram: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "instagram: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := eris.Errorf("instagram: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var items []Profile
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, eris.Wrap(err, "instagram: unmarshal response")
	}
	if len(items) == 0 {
		return nil, ErrProfileNotFound
	}

	return &items[0], nil
}
