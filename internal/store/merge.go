// Package store accumulates fetched posts into a site's collection.
package store

import (
	"maps"

	"github.com/nDmitry/wpgallery/internal/entity"
)

// Merge returns a new collection holding the union of existing posts and
// incoming ones, keyed by post ID. Existing entries win over incoming ones
// with the same ID; within incoming, the last duplicate wins. All other
// fields are copied from existing. Neither argument is modified.
func Merge(existing entity.PostCollection, incoming []entity.Post) entity.PostCollection {
	fresh := make(map[int]entity.Post, len(incoming))

	for _, p := range incoming {
		fresh[p.ID] = p
	}

	merged := make(map[int]entity.Post, len(existing.Posts)+len(fresh))
	maps.Copy(merged, fresh)
	maps.Copy(merged, existing.Posts)

	result := existing
	result.Posts = merged

	return result
}
