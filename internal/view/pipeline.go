// Package view turns application state into a renderable gallery.
package view

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nDmitry/wpgallery/internal/entity"
)

const (
	videoSuffix    = ".mov"
	lineBreak      = "<br"
	singleLineMin  = 80
	singleLineMax  = 160
	NoSiteGivenMsg = "No site given. Add ?site=<domain> to the address, for example ?site=discover.wordpress.com"
)

// Excerpts ending with one of these were cut short upstream.
var truncationMarkers = []string{"[&hellip;]</p>\n", "&hellip;</p>\n"}

type Kind int

const (
	KindEmpty Kind = iota
	KindMessage
	KindGallery
)

// Tree is the renderable output of the pipeline.
type Tree struct {
	Kind    Kind
	Message string
	Site    string
	Items   []Item
}

// Item is one gallery entry.
type Item struct {
	ID       int
	ImageURL string
	URL      string
	Title    string
	// Alt is Title with markup and entities resolved to plain text.
	Alt string
	// Content is the upstream excerpt, rendered without sanitization.
	Content          string
	CreatedAt        string
	ContainerClasses []string
	ExcerptClasses   []string
}

// Render builds the tree for a state. It does not modify the state.
func Render(state entity.State) Tree {
	switch state.Route.Kind {
	case entity.RouteNoSiteGiven:
		return Tree{Kind: KindMessage, Message: NoSiteGivenMsg}
	case entity.RouteSite:
		return gallery(state.Posts, state.Route)
	default:
		return Tree{Kind: KindEmpty}
	}
}

func gallery(collection entity.PostCollection, route entity.Route) Tree {
	posts := Window(Displayable(collection), route.Page, collection.PerPage)
	items := make([]Item, 0, len(posts))

	for _, p := range posts {
		items = append(items, Item{
			ID:               p.ID,
			ImageURL:         p.ImageURL,
			URL:              p.URL,
			Title:            p.Title,
			Alt:              PlainText(p.Title),
			Content:          p.Content,
			CreatedAt:        p.CreatedAt,
			ContainerClasses: ContainerClasses(p.Content),
			ExcerptClasses:   ExcerptClasses(p.Content),
		})
	}

	return Tree{Kind: KindGallery, Site: route.Site, Items: items}
}

// Displayable returns the posts with a non-video image, newest first.
// Store order is ascending ID, so newest first means descending ID.
func Displayable(collection entity.PostCollection) []entity.Post {
	ids := slices.Sorted(maps.Keys(collection.Posts))
	posts := make([]entity.Post, 0, len(ids))

	for _, id := range ids {
		p := collection.Posts[id]

		if p.HasImage() && !strings.HasSuffix(p.ImageURL, videoSuffix) {
			posts = append(posts, p)
		}
	}

	slices.Reverse(posts)

	return posts
}

// Window returns the first (page+1)*perPage posts. Every page re-renders
// from the start; it is a growing prefix, not a slice.
func Window(posts []entity.Post, page, perPage int) []entity.Post {
	if page < 0 {
		page = 0
	}

	limit := (page + 1) * perPage

	if limit < 0 {
		limit = 0
	}

	if limit >= len(posts) {
		return posts
	}

	return posts[:limit]
}

func ContainerClasses(content string) []string {
	classes := []string{"excerpt-container"}

	if content == "" {
		classes = append(classes, "empty")
	}

	return classes
}

func ExcerptClasses(content string) []string {
	classes := []string{"excerpt"}

	if !truncated(content) {
		classes = append(classes, "short")
	}

	if singleLine(content) {
		classes = append(classes, "single-line")
	}

	return classes
}

func truncated(content string) bool {
	for _, marker := range truncationMarkers {
		if strings.HasSuffix(content, marker) {
			return true
		}
	}

	return false
}

func singleLine(content string) bool {
	n := utf8.RuneCountInString(content)

	return n > singleLineMin && n < singleLineMax && !strings.Contains(content, lineBreak)
}

// PlainText resolves markup and entities in a fragment of HTML.
func PlainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))

	if err != nil {
		return fragment
	}

	return strings.TrimSpace(doc.Text())
}
