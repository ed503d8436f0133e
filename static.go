package lemons

import (
	"io/fs"
	"net/http"
	"strings"
)

// Static serves files from fsys under urlPath for GET and HEAD. Responses
// are written directly by http.FileServer.
func (a *App) Static(urlPath string, fsys fs.FS, opts ...RouteOption) {
	urlPath = strings.TrimRight(urlPath, "/")
	h := HTTPHandler(http.StripPrefix(urlPath, http.FileServerFS(fsys)))

	a.Get(urlPath+"/{path:.*}", h, opts...)
	a.Head(urlPath+"/{path:.*}", h, opts...)
}
