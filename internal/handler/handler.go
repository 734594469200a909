package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/job-web/job-board/internal/server"
	"github.com/pkg/errors"
)

// pageParam reads the page query value; anything but a positive integer is
// the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PermanentRedirectHandler sends the request to dst, keeping its query.
func PermanentRedirectHandler(svr server.Server, dst string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := dst
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		svr.Redirect(w, r, http.StatusMovedPermanently, target)
	}
}

func jobIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil && id > 0
}

func isNotFound(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

func render(svr server.Server, w http.ResponseWriter, r *http.Request, status int, view string, data map[string]interface{}) {
	if err := svr.Render(r, w, status, view, data); err != nil {
		svr.Log(err, fmt.Sprintf("unable to render %s", view))
	}
}

func badRequest(svr server.Server, w http.ResponseWriter, err error) {
	svr.Log(err, "unable to bind form")
	svr.TEXT(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
}

func invalidateFrontPage(svr server.Server) {
	if err := svr.CacheDelete(server.CacheKeyFrontPage); err != nil {
		svr.Log(err, "unable to cleanup front page cache")
	}
}
