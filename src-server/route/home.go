package route

import (
	"net/http"

	"bulletin/src-server/utils"
	"bulletin/src-server/view"
)

func Home(muxer *http.ServeMux, as *utils.AppState) {
	// landing page; "{$}" keeps it from catching every unknown path
	muxer.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		view.Render(w, http.StatusOK, "index.html", view.Page{Title: "Community events"})
	})

	muxer.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		view.Render(w, http.StatusNotFound, "not_found.html", view.Page{Title: "Not found"})
	})
}
