// Package shell owns the application state and applies messages to it.
package shell

import (
	"github.com/nDmitry/wpgallery/internal/entity"
	"github.com/nDmitry/wpgallery/internal/route"
	"github.com/nDmitry/wpgallery/internal/store"
)

// Msg is a message processed by the shell.
type Msg interface {
	isMsg()
}

// ReceivePosts carries the result of a fetch.
type ReceivePosts struct {
	Posts []entity.Post
}

// LocationChanged carries a new navigation location.
type LocationChanged struct {
	Location string
}

func (ReceivePosts) isMsg()    {}
func (LocationChanged) isMsg() {}

// Cmd is a side effect requested by Update. Nil means none.
type Cmd interface {
	isCmd()
}

// FetchCmd asks for the posts of the collection's site.
type FetchCmd struct {
	Collection entity.PostCollection
}

func (FetchCmd) isCmd() {}

// Update applies msg to state and returns the next state together with
// the command to run, if any. It is pure.
func Update(state entity.State, msg Msg, defaultSite string) (entity.State, Cmd) {
	switch m := msg.(type) {
	case ReceivePosts:
		state.Posts = store.Merge(state.Posts, m.Posts)
		return state, nil

	case LocationChanged:
		state.Route = route.Resolve(m.Location, defaultSite)

		if state.Route.Kind != entity.RouteSite {
			return state, nil
		}

		// The collection keeps its posts; only the site it fetches for changes.
		state.Posts.Site = state.Route.Site

		return state, FetchCmd{Collection: state.Posts}

	default:
		return state, nil
	}
}

// Init returns the initial state and the fetch for the default site.
func Init(defaultSite string, perPage int) (entity.State, Cmd) {
	state := entity.InitialState(defaultSite)

	if perPage > 0 {
		state.Posts.PerPage = perPage
	}

	return state, FetchCmd{Collection: state.Posts}
}
