package entity

// PerPageDefault is the number of posts requested per fetch and shown per page.
const PerPageDefault = 20

type Post struct {
	// Post ID as assigned by the content API. Stable across fetches.
	ID      int
	Title   string
	Content string
	// Opaque date string as returned by the API.
	CreatedAt string
	URL       string
	// Empty when the post has no image attachment.
	ImageURL string
}

// HasImage reports whether the post carries an image URL.
func (p Post) HasImage() bool {
	return p.ImageURL != ""
}

// PostCollection is the accumulated set of posts fetched for one site.
// Values are treated as immutable: Posts is never modified after construction.
type PostCollection struct {
	Site       string
	TotalPosts int
	PerPage    int
	// NextPage is never populated by the fetch client.
	NextPage *string
	Posts    map[int]Post
}

// NewPostCollection creates an empty collection for the site.
func NewPostCollection(site string) PostCollection {
	return PostCollection{
		Site:    site,
		PerPage: PerPageDefault,
		Posts:   map[int]Post{},
	}
}
