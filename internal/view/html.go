package view

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// The stylesheet is presentation only.
const stylesheet = `
body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; background: #111; color: #eee; }
.message { padding: 2em; text-align: center; color: #aaa; }
.gallery { display: flex; flex-wrap: wrap; gap: 4px; padding: 4px; }
.post { position: relative; flex: 1 1 300px; max-width: 600px; overflow: hidden; }
.post img { display: block; width: 100%; height: auto; }
.excerpt-container { position: absolute; bottom: 0; left: 0; right: 0; background: linear-gradient(transparent, rgba(0,0,0,.85)); padding: 1em; }
.excerpt-container.empty { display: none; }
.excerpt { font-size: .9em; line-height: 1.4; max-height: 6em; overflow: hidden; }
.excerpt.short { max-height: none; }
.excerpt.single-line { white-space: nowrap; text-overflow: ellipsis; }
.excerpt a { color: #9cf; }
`

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Site}}{{.Site}} gallery{{else}}Gallery{{end}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body>
<main id="gallery">{{template "fragment" .Tree}}</main>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  var here = function () { return location.pathname + location.search + location.hash; };
  ws.onopen = function () { if (location.hash) { ws.send(here()); } };
  ws.onmessage = function (e) { document.getElementById("gallery").innerHTML = e.data; };
  window.addEventListener("hashchange", function () { ws.send(here()); });
})();
</script>
</body>
</html>
`

const fragmentTemplate = `{{define "fragment"}}
{{- if eq .Kind 1}}<p class="message">{{.Message}}</p>
{{- else if eq .Kind 2}}<div class="gallery">
{{- range .Items}}
<article class="post" data-id="{{.ID}}">
<a href="{{.URL}}"><img src="{{.ImageURL}}" alt="{{.Alt}}" loading="lazy"></a>
<div class="{{classes .ContainerClasses}}"><div class="{{classes .ExcerptClasses}}">{{trusted .Content}}</div></div>
</article>
{{- end}}
</div>
{{- end}}
{{- end}}`

var templates = template.Must(
	template.New("page").
		Funcs(template.FuncMap{
			"classes": func(c []string) string { return strings.Join(c, " ") },
			// Excerpts are trusted upstream HTML and are injected verbatim.
			"trusted": func(s string) template.HTML { return template.HTML(s) }, // nolint: gosec
		}).
		Parse(pageTemplate + fragmentTemplate),
)

type page struct {
	Site       string
	Stylesheet template.CSS
	Tree       Tree
}

// WriteHTML writes a full HTML document for the tree.
func WriteHTML(w io.Writer, tree Tree) error {
	if err := templates.ExecuteTemplate(w, "page", page{
		Site:       tree.Site,
		Stylesheet: template.CSS(stylesheet),
		Tree:       tree,
	}); err != nil {
		return fmt.Errorf("could not render page: %w", err)
	}

	return nil
}

// WriteFragment writes only the gallery markup, as pushed over the websocket.
func WriteFragment(w io.Writer, tree Tree) error {
	if err := templates.ExecuteTemplate(w, "fragment", tree); err != nil {
		return fmt.Errorf("could not render fragment: %w", err)
	}

	return nil
}
