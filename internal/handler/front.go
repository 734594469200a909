package handler

import (
	"encoding/json"
	"net/http"

	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
)

// FrontPageHandler shows the first page of online jobs. The page data is
// cached until a job or company changes; the HTML is not, as it depends on
// the caller.
func FrontPageHandler(svr server.Server, jobs jobLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var page job.Pagination
		cached, ok := svr.CacheGet(server.CacheKeyFrontPage)
		if ok {
			if err := json.Unmarshal(cached, &page); err != nil {
				svr.Log(err, "unable to unmarshal cached front page")
				ok = false
			}
		}
		if !ok {
			var err error
			page, err = jobs.EnabledJobs(r.Context(), 1, svr.GetConfig().JobsPerPage)
			if err != nil {
				svr.InternalError(w, r, err, "unable to retrieve front page jobs")
				return
			}
			if b, err := json.Marshal(page); err != nil {
				svr.Log(err, "unable to marshal front page")
			} else if err := svr.CacheSet(server.CacheKeyFrontPage, b); err != nil {
				svr.Log(err, "unable to cache front page")
			}
		}
		render(svr, w, r, http.StatusOK, "index.html", map[string]interface{}{
			"Page": page,
		})
	}
}
