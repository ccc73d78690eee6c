package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nDmitry/wpgallery/internal/app"
	"github.com/nDmitry/wpgallery/internal/cache"
	"github.com/nDmitry/wpgallery/internal/entity"
	"github.com/nDmitry/wpgallery/internal/view"
)

const (
	wsPath = "/ws"

	// navigationWait bounds how long a page request waits for its fetch.
	// On expiry the page renders whatever the state holds; the websocket
	// delivers the rest.
	navigationWait = 10 * time.Second
	wsWriteWait    = 10 * time.Second
	wsReadLimit    = 4096
)

// Navigator is the application shell as seen by the HTTP layer
type Navigator interface {
	Navigate(ctx context.Context, location string) error
	Preview(ctx context.Context, location string) entity.State
	State() entity.State
	Subscribe() chan entity.State
	Unsubscribe(ch chan entity.State)
}

// Generator renders a gallery as a feed
type Generator interface {
	Generate(tree view.Tree, params *entity.FeedParams) ([]byte, error)
}

// GalleryHandler serves the gallery page, its feed and live updates
type GalleryHandler struct {
	nav       Navigator
	cache     cache.Cache
	generator Generator
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewGalleryHandler creates a new GalleryHandler and registers its routes
func NewGalleryHandler(mux *http.ServeMux, n Navigator, c cache.Cache, g Generator) *GalleryHandler {
	h := &GalleryHandler{
		nav:       n,
		cache:     c,
		generator: g,
		logger:    app.Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
		},
	}

	mux.HandleFunc("GET /{$}", h.GetGallery)
	mux.HandleFunc("GET /feed", h.GetFeed)
	mux.HandleFunc("GET /state", h.GetState)
	mux.HandleFunc("GET "+wsPath, h.Stream)

	return h
}

// GetGallery navigates the shell to the requested location and renders the gallery
func (h *GalleryHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	h.navigate(r.Context(), r.URL.RequestURI())

	var buf bytes.Buffer

	if err := view.WriteHTML(&buf, view.Render(h.nav.State())); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("Failed to write page", "error", err)
	}
}

// GetFeed exports the gallery of the requested site as RSS or Atom.
// It renders from a private state, so polling readers leave the shared
// route alone.
func (h *GalleryHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewFeedParamsFromRequest(r)

	if err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}

	location := feedLocation(r.URL.Query())
	cacheKey := buildCacheKey(location, params)

	// Try to get from cache first if caching is enabled
	if params.CacheTTL > 0 {
		cachedContent, cacheErr := h.cache.Get(r.Context(), cacheKey)

		if cacheErr == nil {
			w.Header().Set("X-CACHE-STATUS", "HIT")
			h.serveFeed(w, cachedContent, params.Format, params.CacheTTL)
			return
		} else if cacheErr != cache.ErrCacheMiss {
			h.logger.Error("Cache error", "error", cacheErr)
		}
	}

	tree := h.preview(r.Context(), location)

	if tree.Kind != view.KindGallery {
		h.handleError(w, fmt.Errorf("no site given"), http.StatusBadRequest)
		return
	}

	content, err := h.generator.Generate(tree, params)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	if params.CacheTTL > 0 {
		cacheTTL := time.Duration(params.CacheTTL) * time.Minute

		// Use background context for caching to avoid cancellation
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, content, cacheTTL); err != nil {
			h.logger.Error("Failed to cache content", "error", err)
		}
	}

	w.Header().Set("X-CACHE-STATUS", "MISS")
	h.serveFeed(w, content, params.Format, params.CacheTTL)
}

type stateResponse struct {
	Route      string `json:"route"`
	Site       string `json:"site"`
	PerPage    int    `json:"perPage"`
	TotalPosts int    `json:"totalPosts"`
	Stored     int    `json:"stored"`
	Rendered   int    `json:"rendered"`
}

// GetState reports the bookkeeping of the current state
func (h *GalleryHandler) GetState(w http.ResponseWriter, _ *http.Request) {
	state := h.nav.State()
	tree := view.Render(state)

	resp := stateResponse{
		Route:      state.Route.String(),
		Site:       state.Posts.Site,
		PerPage:    state.Posts.PerPage,
		TotalPosts: state.Posts.TotalPosts,
		Stored:     len(state.Posts.Posts),
		Rendered:   len(tree.Items),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		handleBadErrorResponse(err, resp)
	}
}

// Stream pushes the gallery fragment on connect and after every state change
func (h *GalleryHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)

	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	defer conn.Close()

	updates := h.nav.Subscribe()
	defer h.nav.Unsubscribe(updates)

	conn.SetReadLimit(wsReadLimit)

	// Browsers keep the fragment to themselves, so the page reports its
	// location here whenever the hash changes.
	gone := make(chan struct{})

	go func() {
		defer close(gone)
		for {
			_, msg, err := conn.ReadMessage()

			if err != nil {
				return
			}

			location := string(msg)

			if !strings.HasPrefix(location, "/") {
				h.logger.Debug("Ignoring websocket message", "message", location)
				continue
			}

			h.navigate(r.Context(), location)
		}
	}()

	for {
		select {
		case <-gone:
			return
		case state, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(time.Second))
				return
			}

			var buf bytes.Buffer

			if err := view.WriteFragment(&buf, view.Render(state)); err != nil {
				h.logger.Error("Could not render fragment", "error", err)
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))

			if err := conn.WriteMessage(websocket.TextMessage, buf.Bytes()); err != nil {
				h.logger.Debug("Websocket write failed", "error", err)
				return
			}
		}
	}
}

// navigate sends the location to the shell and waits for it to settle.
// A timeout is not an error: the page renders what the state holds.
func (h *GalleryHandler) navigate(ctx context.Context, location string) {
	ctx, cancel := context.WithTimeout(ctx, navigationWait)
	defer cancel()

	if err := h.nav.Navigate(ctx, location); err != nil {
		h.logger.Warn("Navigation did not settle", "location", location, "error", err)
	}
}

func (h *GalleryHandler) preview(ctx context.Context, location string) view.Tree {
	ctx, cancel := context.WithTimeout(ctx, navigationWait)
	defer cancel()

	return view.Render(h.nav.Preview(ctx, location))
}

// feedLocation maps the feed's site parameter to a gallery location so the
// feed resolves the same route the page would.
func feedLocation(qp url.Values) string {
	if _, present := qp["site"]; !present {
		return "/"
	}

	return "/?" + url.Values{"site": {qp.Get("site")}}.Encode()
}

// buildCacheKey generates a cache key based on request parameters
func buildCacheKey(location string, params *entity.FeedParams) string {
	return fmt.Sprintf("feed:%s:%s", location, params.Format)
}

// serveFeed sends the feed to the client with appropriate headers
func (h *GalleryHandler) serveFeed(w http.ResponseWriter, content []byte, format string, cacheTTL int) {
	var contentType string
	switch format {
	case entity.FormatRSS:
		contentType = "application/rss+xml"
	case entity.FormatAtom:
		contentType = "application/atom+xml"
	default:
		contentType = "application/xml"
	}

	w.Header().Set("Content-Type", contentType+"; charset=utf-8")

	if cacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cacheTTL*60))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}

	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		handleBadErrorResponse(err, content)
	}
}

// handleError responds with an error message
func (h *GalleryHandler) handleError(w http.ResponseWriter, err error, statusCode int) {
	h.logger.Error("Request error", "error", err, "status", statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{"error": err.Error()}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		handleBadErrorResponse(err, response)
	}
}

func handleBadErrorResponse(err error, resp any) {
	app.Logger().Error(
		"failed to encode an error response",
		"error", err,
		"response", resp,
	)
}
