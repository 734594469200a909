// Package static embeds the html views rendered by the server.
package static

import "embed"

//go:embed views/*.html
var Views embed.FS
