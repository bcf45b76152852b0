// Package static embeds the stylesheet and the map enhancement script.
package static

import "embed"

// FS holds app.css and map.js, served under /static/.
//
//go:embed *.css *.js
var FS embed.FS
