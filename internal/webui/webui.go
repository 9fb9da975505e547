// Package webui embeds the browser frontend so the server binary is
// self-contained.
package webui

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// Mount registers the embedded UI on the engine's NoRoute chain. Existing
// files are served directly; extensionless paths fall back to index.html so
// client-side routes survive a reload; unknown /api paths stay JSON 404s.
func Mount(engine *gin.Engine) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// the embedded tree is fixed at build time
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"message": "endpoint not found"})
			return
		}

		p := strings.TrimPrefix(path.Clean(c.Request.URL.Path), "/")
		if p == "" {
			p = "index.html"
		}

		if _, err := fs.Stat(sub, p); err != nil {
			if strings.Contains(p, ".") {
				c.Status(http.StatusNotFound)
				return
			}
			c.Request.URL.Path = "/"
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})
}
