package feed

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/nDmitry/wpgallery/internal/entity"
	"github.com/nDmitry/wpgallery/internal/view"
)

// Generator renders a gallery tree as a syndication feed
type Generator struct{}

// Generate creates a feed from the gallery items and returns it as a byte array
func (g *Generator) Generate(tree view.Tree, params *entity.FeedParams) ([]byte, error) {
	return Generate(tree, params)
}

// Generate creates a feed from the gallery items and returns it as a byte array
func Generate(tree view.Tree, params *entity.FeedParams) ([]byte, error) {
	if tree.Kind != view.KindGallery {
		return nil, fmt.Errorf("no gallery to export")
	}

	siteURL := "https://" + tree.Site

	feed := &feeds.Feed{
		Title:       tree.Site + " gallery",
		Link:        &feeds.Link{Href: siteURL},
		Description: fmt.Sprintf("Image posts from %s", tree.Site),
	}

	for _, it := range tree.Items {
		created := parseDate(it.CreatedAt)

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          it.URL,
			Title:       it.Alt,
			Link:        &feeds.Link{Href: it.URL},
			Description: view.PlainText(it.Content),
			Content:     it.Content,
			Created:     created,
			Enclosure: &feeds.Enclosure{
				Url:    it.ImageURL,
				Type:   imageType(it.ImageURL),
				Length: "0",
			},
		})

		if feed.Created.IsZero() || created.After(feed.Created) {
			feed.Created = created
		}
	}

	var content string
	var err error

	switch params.Format {
	case entity.FormatRSS:
		content, err = feed.ToRss()
	case entity.FormatAtom:
		content, err = feed.ToAtom()
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", params.Format)
	}

	if err != nil {
		return nil, fmt.Errorf("could not marshal gallery %s to feed: %w", tree.Site, err)
	}

	return []byte(content), nil
}

// parseDate reads the API's RFC 3339 dates. Anything else yields the zero time.
func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)

	if err != nil {
		return time.Time{}
	}

	return t
}

func imageType(imageURL string) string {
	ext := path.Ext(imageURL)

	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}

	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
