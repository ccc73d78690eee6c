package entity

import "fmt"

type RouteKind int

const (
	RouteSiteNotFound RouteKind = iota
	RouteNoSiteGiven
	RouteSite
)

// Route is the navigation intent derived from a location.
// Site and Page are meaningful only for RouteSite.
type Route struct {
	Kind RouteKind
	Site string
	Page int
}

func SiteRoute(site string, page int) Route {
	return Route{Kind: RouteSite, Site: site, Page: page}
}

func NoSiteGiven() Route {
	return Route{Kind: RouteNoSiteGiven}
}

func SiteNotFound() Route {
	return Route{Kind: RouteSiteNotFound}
}

func (r Route) String() string {
	switch r.Kind {
	case RouteSite:
		return fmt.Sprintf("site(%s, %d)", r.Site, r.Page)
	case RouteNoSiteGiven:
		return "no-site-given"
	default:
		return "site-not-found"
	}
}
