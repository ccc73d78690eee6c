package shell_test

import (
	"testing"

	"github.com/nDmitry/wpgallery/internal/entity"
	"github.com/nDmitry/wpgallery/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultSite = "default.example.com"

func TestInit(t *testing.T) {
	state, cmd := shell.Init(defaultSite, entity.PerPageDefault)

	assert.Equal(t, entity.SiteRoute(defaultSite, 0), state.Route)
	assert.Equal(t, defaultSite, state.Posts.Site)
	assert.Equal(t, entity.PerPageDefault, state.Posts.PerPage)
	assert.Empty(t, state.Posts.Posts)

	fetch, ok := cmd.(shell.FetchCmd)
	require.True(t, ok)
	assert.Equal(t, defaultSite, fetch.Collection.Site)
}

func TestUpdate_ReceivePosts(t *testing.T) {
	state := entity.InitialState(defaultSite)
	state.Posts.Posts[1] = entity.Post{ID: 1, Title: "kept"}
	state.Route = entity.NoSiteGiven()

	next, cmd := shell.Update(state, shell.ReceivePosts{Posts: []entity.Post{
		{ID: 1, Title: "ignored"},
		{ID: 2, Title: "added"},
	}}, defaultSite)

	assert.Nil(t, cmd)
	assert.Equal(t, entity.NoSiteGiven(), next.Route, "route is unchanged")
	assert.Len(t, next.Posts.Posts, 2)
	assert.Equal(t, "kept", next.Posts.Posts[1].Title)
	assert.Equal(t, "added", next.Posts.Posts[2].Title)

	// The previous state is left as it was.
	assert.Len(t, state.Posts.Posts, 1)
}

func TestUpdate_LocationChanged(t *testing.T) {
	existing := entity.InitialState(defaultSite)
	existing.Posts.Posts[9] = entity.Post{ID: 9, ImageURL: "http://x/9.jpg"}

	tests := []struct {
		name          string
		location      string
		expectedRoute entity.Route
		expectedSite  string
		expectFetch   bool
	}{
		{
			name:          "Site route retargets the collection and fetches",
			location:      "/?site=other.example.com",
			expectedRoute: entity.SiteRoute("other.example.com", 0),
			expectedSite:  "other.example.com",
			expectFetch:   true,
		},
		{
			name:          "Bare root fetches the default site",
			location:      "/",
			expectedRoute: entity.SiteRoute(defaultSite, 0),
			expectedSite:  defaultSite,
			expectFetch:   true,
		},
		{
			name:          "No site given does not fetch",
			location:      "/?site=",
			expectedRoute: entity.NoSiteGiven(),
			expectedSite:  defaultSite,
		},
		{
			name:          "Site not found does not fetch",
			location:      "/nowhere",
			expectedRoute: entity.SiteNotFound(),
			expectedSite:  defaultSite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, cmd := shell.Update(existing, shell.LocationChanged{Location: tt.location}, defaultSite)

			assert.Equal(t, tt.expectedRoute, next.Route)
			assert.Equal(t, tt.expectedSite, next.Posts.Site)
			assert.Contains(t, next.Posts.Posts, 9, "the collection is not cleared")

			if !tt.expectFetch {
				assert.Nil(t, cmd)
				return
			}

			fetch, ok := cmd.(shell.FetchCmd)
			require.True(t, ok)
			assert.Equal(t, tt.expectedSite, fetch.Collection.Site)
			assert.Equal(t, entity.PerPageDefault, fetch.Collection.PerPage)
		})
	}

	assert.Equal(t, defaultSite, existing.Posts.Site, "input state is not modified")
}

func TestInit_PerPage(t *testing.T) {
	state, cmd := shell.Init(defaultSite, 50)

	assert.Equal(t, 50, state.Posts.PerPage)
	assert.Equal(t, 50, cmd.(shell.FetchCmd).Collection.PerPage)

	state, _ = shell.Init(defaultSite, 0)
	assert.Equal(t, entity.PerPageDefault, state.Posts.PerPage)
}
