// Package social converts an Instagram handle into follower counts, posting
// history, and a computed engagement rate.
//
// Unlike the other adapters, failures here are loud: callers need to
// distinguish "no data available" from "fetch succeeded but empty", so every
// failure mode maps to a typed sentinel error.
package social

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/pkg/instagram"
)

// engagementSampleSize is the maximum number of recent posts used for the
// engagement-rate average.
const engagementSampleSize = 12

var (
	// ErrNoCredential means no scraper token is configured.
	ErrNoCredential = errors.New("social: no credential configured")
	// ErrProfileNotFound means the handle does not exist.
	ErrProfileNotFound = errors.New("social: profile not found")
	// ErrPrivateProfile means the profile exists but is private.
	ErrPrivateProfile = errors.New("social: profile is private")
	// ErrIncompleteProfile means the payload was missing the follower count.
	ErrIncompleteProfile = errors.New("social: incomplete profile payload")
)

// Metrics is the normalized result of a profile fetch.
type Metrics struct {
	Handle         string           `json:"handle"`
	Followers      int              `json:"followers"`
	Following      int              `json:"following"`
	Posts          int              `json:"posts"`
	IsBusiness     bool             `json:"is_business"`
	Biography      string           `json:"biography"`
	ExternalURL    string           `json:"external_url,omitempty"`
	EngagementRate float64          `json:"engagement_rate"`
	AvgLikes       float64          `json:"avg_likes"`
	LatestPosts    []instagram.Post `json:"latest_posts,omitempty"`
}

// Fetcher fetches and normalizes profile metrics.
type Fetcher struct {
	client instagram.Client
	retry  resilience.RetryConfig
}

// NewFetcher creates a Fetcher. A nil client means no credential was
// configured; Fetch then fails with ErrNoCredential.
func NewFetcher(client instagram.Client) *Fetcher {
	return &Fetcher{
		client: client,
		retry:  resilience.DefaultRetryConfig(),
	}
}

// Fetch retrieves metrics for a handle or profile URL. Transient scrape
// failures are retried; all terminal failures surface as errors.
func (f *Fetcher) Fetch(ctx context.Context, handle string) (*Metrics, error) {
	if f == nil || f.client == nil {
		return nil, ErrNoCredential
	}

	normalized := NormalizeHandle(handle)
	if normalized == "" {
		return nil, eris.Wrap(ErrProfileNotFound, "social: empty handle")
	}

	profile, err := resilience.DoVal(ctx, f.retry, func(ctx context.Context) (*instagram.Profile, error) {
		return f.client.Profile(ctx, normalized)
	})
	if err != nil {
		if errors.Is(err, instagram.ErrProfileNotFound) {
			return nil, eris.Wrapf(ErrProfileNotFound, "social: handle %q", normalized)
		}
		return nil, eris.Wrapf(err, "social: fetch profile %q", normalized)
	}

	if profile.Private {
		return nil, eris.Wrapf(ErrPrivateProfile, "social: handle %q", normalized)
	}
	if profile.FollowersCount == nil {
		return nil, eris.Wrapf(ErrIncompleteProfile, "social: handle %q", normalized)
	}

	m := &Metrics{
		Handle:      normalized,
		Followers:   *profile.FollowersCount,
		Following:   profile.FollowsCount,
		Posts:       profile.PostsCount,
		IsBusiness:  profile.IsBusinessAccount,
		Biography:   profile.Biography,
		ExternalURL: profile.ExternalURL,
		LatestPosts: profile.LatestPosts,
	}
	m.EngagementRate, m.AvgLikes = engagement(profile.LatestPosts, m.Followers)

	zap.L().Debug("social: fetched profile",
		zap.String("handle", normalized),
		zap.Int("followers", m.Followers),
		zap.Float64("engagement_rate", m.EngagementRate),
		zap.Int("latest_posts", len(m.LatestPosts)),
	)

	return m, nil
}

// engagement computes mean(likes+comments)/followers×100 over up to
// engagementSampleSize most recent posts, rounded to 2 decimals.
func engagement(posts []instagram.Post, followers int) (rate, avgLikes float64) {
	if len(posts) == 0 || followers <= 0 {
		return 0, 0
	}

	sample := posts
	if len(sample) > engagementSampleSize {
		sample = sample[:engagementSampleSize]
	}

	var interactions, likes int
	for _, p := range sample {
		interactions += p.LikesCount + p.CommentsCount
		likes += p.LikesCount
	}

	n := float64(len(sample))
	rate = (float64(interactions) / n) / float64(followers) * 100
	rate = math.Round(rate*100) / 100
	avgLikes = math.Round(float64(likes)/n*100) / 100
	return rate, avgLikes
}

// NormalizeHandle accepts a bare handle, an @handle, or a full profile URL
// and returns the bare lowercase handle.
func NormalizeHandle(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "instagram.com") {
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		if u, err := url.Parse(s); err == nil {
			s = strings.Trim(u.Path, "/")
			// Only the first path segment is the handle.
			if idx := strings.Index(s, "/"); idx > 0 {
				s = s[:idx]
			}
		}
	}

	s = strings.TrimPrefix(s, "@")
	return strings.ToLower(strings.TrimSpace(s))
}
