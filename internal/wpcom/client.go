// Package wpcom fetches posts from the WordPress.com public REST API.
package wpcom

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/nDmitry/wpgallery/internal/app"
	"github.com/nDmitry/wpgallery/internal/entity"
)

const (
	DefaultBaseURL   = "https://public-api.wordpress.com"
	DefaultUserAgent = "Mozilla/5.0 (compatible; wpgallery/1.0; +https://github.com/nDmitry/wpgallery)"

	postFields = "ID,date,title,excerpt,URL,attachments"
)

// Client issues one GET per Fetch against the posts endpoint of a site.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		d = 0
	}
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: DefaultUserAgent,
		logger:    app.Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch returns the posts of the collection's site, requesting PerPage of
// them. It never fails: any transport, status or decoding problem is
// logged and an empty list is returned.
func (c *Client) Fetch(ctx context.Context, collection entity.PostCollection) []entity.Post {
	posts, err := c.fetch(ctx, collection.Site, collection.PerPage)

	if err != nil {
		c.logger.Warn("Could not fetch posts",
			"site", collection.Site,
			"error", err)

		return []entity.Post{}
	}

	return posts
}

func (c *Client) fetch(ctx context.Context, site string, perPage int) ([]entity.Post, error) {
	endpoint := c.postsURL(site, perPage)

	collector := colly.NewCollector(
		colly.UserAgent(c.userAgent),
		colly.StdlibContext(ctx),
	)
	collector.WithTransport(httpTransport)
	collector.SetRequestTimeout(c.timeout)

	var body []byte
	var reqErr error

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
	})

	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	collector.OnError(func(r *colly.Response, err error) {
		reqErr = fmt.Errorf("request error %s (status %d): %w", endpoint, r.StatusCode, err)
	})

	if err := collector.Visit(endpoint); err != nil {
		if reqErr != nil {
			return nil, reqErr
		}
		return nil, fmt.Errorf("could not visit %s: %w", endpoint, err)
	}

	if reqErr != nil {
		return nil, reqErr
	}

	return decodePosts(body)
}

// postsURL builds /rest/v1.2/sites/<site>/posts with the fixed query.
func (c *Client) postsURL(site string, perPage int) string {
	query := url.Values{}
	query.Set("number", strconv.Itoa(perPage))
	query.Set("fields", postFields)

	return fmt.Sprintf("%s/rest/v1.2/sites/%s/posts?%s",
		c.baseURL,
		url.PathEscape(site),
		query.Encode(),
	)
}

type postsResponse struct {
	Posts []apiPost `json:"posts"`
}

type apiPost struct {
	ID          int                      `json:"ID"`
	Date        string                   `json:"date"`
	Title       string                   `json:"title"`
	Excerpt     string                   `json:"excerpt"`
	URL         string                   `json:"URL"`
	Attachments map[string]apiAttachment `json:"attachments"`
}

type apiAttachment struct {
	URL string `json:"URL"`
}

func decodePosts(body []byte) ([]entity.Post, error) {
	if err := validate(body); err != nil {
		return nil, err
	}

	var resp postsResponse

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("could not decode posts: %w", err)
	}

	posts := make([]entity.Post, 0, len(resp.Posts))

	for _, p := range resp.Posts {
		posts = append(posts, entity.Post{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Excerpt,
			CreatedAt: p.Date,
			URL:       p.URL,
			ImageURL:  firstAttachmentURL(p.Attachments),
		})
	}

	return posts, nil
}

// firstAttachmentURL returns the URL of the attachment with the lowest id.
// Keys are attachment ids; non-numeric keys sort after numeric ones.
func firstAttachmentURL(attachments map[string]apiAttachment) string {
	if len(attachments) == 0 {
		return ""
	}

	ids := make([]string, 0, len(attachments))

	for id := range attachments {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return attachmentKeyLess(ids[i], ids[j])
	})

	return attachments[ids[0]].URL
}

func attachmentKeyLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)

	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
