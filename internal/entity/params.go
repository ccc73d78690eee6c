package entity

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"
)

// FeedParams represents validated request parameters for feed export
type FeedParams struct {
	// Format is the feed format, either "atom" or "rss"
	Format string

	// CacheTTL is the cache time-to-live in minutes
	// A value of 0 means no caching
	CacheTTL int
}

// NewFeedParamsFromRequest parses and validates the feed request parameters.
// The site itself is resolved from the location like any other navigation.
func NewFeedParamsFromRequest(r *http.Request) (*FeedParams, error) {
	qp := r.URL.Query()

	format := qp.Get("format")

	if format == "" {
		format = FormatRSS
	} else if format != FormatRSS && format != FormatAtom {
		return nil, fmt.Errorf("format must be %s or %s", FormatRSS, FormatAtom)
	}

	cacheTTL := 0

	if ttlStr := qp.Get("cache_ttl"); ttlStr != "" {
		var err error
		cacheTTL, err = strconv.Atoi(ttlStr)

		if err != nil {
			return nil, fmt.Errorf("cache_ttl must be a valid integer")
		}

		if cacheTTL < 0 {
			return nil, fmt.Errorf("cache_ttl must be non-negative")
		}
	}

	return &FeedParams{
		Format:   format,
		CacheTTL: cacheTTL,
	}, nil
}
