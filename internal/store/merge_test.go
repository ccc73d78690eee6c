package store_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/nDmitry/wpgallery/internal/entity"
	"github.com/nDmitry/wpgallery/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id int, title string) entity.Post {
	return entity.Post{ID: id, Title: title, ImageURL: "http://x/a.jpg"}
}

func collection(posts ...entity.Post) entity.PostCollection {
	c := entity.NewPostCollection("site.example.com")
	for _, p := range posts {
		c.Posts[p.ID] = p
	}
	return c
}

func keys(c entity.PostCollection) []int {
	return slices.Sorted(maps.Keys(c.Posts))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name         string
		existing     entity.PostCollection
		incoming     []entity.Post
		expectedKeys []int
		titles       map[int]string
	}{
		{
			name:         "Into an empty collection",
			existing:     collection(),
			incoming:     []entity.Post{post(1, "one"), post(2, "two")},
			expectedKeys: []int{1, 2},
			titles:       map[int]string{1: "one", 2: "two"},
		},
		{
			name:         "Nothing incoming",
			existing:     collection(post(1, "one")),
			incoming:     nil,
			expectedKeys: []int{1},
			titles:       map[int]string{1: "one"},
		},
		{
			name:         "Union of disjoint keys",
			existing:     collection(post(1, "one")),
			incoming:     []entity.Post{post(5, "five")},
			expectedKeys: []int{1, 5},
			titles:       map[int]string{1: "one", 5: "five"},
		},
		{
			name:         "Existing entry wins over incoming",
			existing:     collection(post(1, "old")),
			incoming:     []entity.Post{post(1, "new"), post(2, "two")},
			expectedKeys: []int{1, 2},
			titles:       map[int]string{1: "old", 2: "two"},
		},
		{
			name:         "Later duplicate within incoming wins",
			existing:     collection(),
			incoming:     []entity.Post{post(3, "first"), post(3, "second")},
			expectedKeys: []int{3},
			titles:       map[int]string{3: "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := store.Merge(tt.existing, tt.incoming)

			assert.Equal(t, tt.expectedKeys, keys(merged))

			for id, title := range tt.titles {
				assert.Equal(t, title, merged.Posts[id].Title)
			}
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	c := collection(post(1, "one"), post(2, "two"))
	incoming := []entity.Post{post(2, "changed"), post(3, "three"), post(3, "three again")}

	once := store.Merge(c, incoming)
	twice := store.Merge(once, incoming)

	assert.Equal(t, once, twice)
}

func TestMerge_KeepsOtherFieldsAndInputs(t *testing.T) {
	next := "cursor"
	c := collection(post(1, "one"))
	c.TotalPosts = 42
	c.NextPage = &next

	merged := store.Merge(c, []entity.Post{post(2, "two")})

	assert.Equal(t, c.Site, merged.Site)
	assert.Equal(t, 42, merged.TotalPosts)
	assert.Equal(t, entity.PerPageDefault, merged.PerPage)
	require.NotNil(t, merged.NextPage)
	assert.Equal(t, "cursor", *merged.NextPage)

	// The original collection is left untouched.
	assert.Equal(t, []int{1}, keys(c))
}

func TestMerge_Monotonic(t *testing.T) {
	c := collection(post(1, "one"), post(4, "four"))

	for _, batch := range [][]entity.Post{
		{post(2, "two")},
		{},
		{post(1, "again"), post(7, "seven")},
	} {
		before := keys(c)
		c = store.Merge(c, batch)

		for _, id := range before {
			assert.Contains(t, c.Posts, id)
		}
		for _, p := range batch {
			assert.Contains(t, c.Posts, p.ID)
		}
	}

	assert.Equal(t, []int{1, 2, 4, 7}, keys(c))
	assert.Equal(t, "one", c.Posts[1].Title)
}
