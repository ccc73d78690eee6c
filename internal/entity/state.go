package entity

// State is the whole application state: the accumulated posts and the
// current route. It is replaced, never mutated, on every message.
type State struct {
	Posts PostCollection
	Route Route
}

// InitialState is the state before any navigation: the default site on
// page 0 with an empty collection.
func InitialState(defaultSite string) State {
	return State{
		Posts: NewPostCollection(defaultSite),
		Route: SiteRoute(defaultSite, 0),
	}
}
