// Package route turns navigation locations into routes.
package route

import (
	"net/url"
	"strings"

	"github.com/nDmitry/wpgallery/internal/entity"
)

const siteParam = "site"

// Resolve maps a location to exactly one route. It never fails: anything
// it cannot make sense of resolves to SiteNotFound.
//
// The location may carry its query either in the URL itself ("/?site=x")
// or in a hash fragment ("/#?site=x", "/#/?site=x"); the fragment wins.
func Resolve(location, defaultSite string) entity.Route {
	path, rawQuery, ok := split(location)

	if !ok || (path != "" && path != "/") {
		return entity.SiteNotFound()
	}

	if rawQuery == "" {
		return entity.SiteRoute(defaultSite, 0)
	}

	query, err := url.ParseQuery(rawQuery)

	if err != nil {
		return entity.SiteNotFound()
	}

	sites, present := query[siteParam]

	if !present {
		return entity.SiteNotFound()
	}

	if len(sites) == 0 || sites[0] == "" {
		return entity.NoSiteGiven()
	}

	return entity.SiteRoute(sites[0], 0)
}

// split extracts the effective path and raw query from a location.
func split(location string) (path string, rawQuery string, ok bool) {
	u, err := url.Parse(location)

	if err != nil {
		return "", "", false
	}

	fragment := u.EscapedFragment()

	if fragment == "" {
		return u.Path, u.RawQuery, true
	}

	// Hash routing: the fragment is itself a path with an optional query.
	fragPath, fragQuery, _ := strings.Cut(fragment, "?")

	if fragPath != "" && fragPath != "/" {
		return fragPath, fragQuery, true
	}

	if u.Path != "" && u.Path != "/" {
		return u.Path, fragQuery, true
	}

	return fragPath, fragQuery, true
}
