package handler

import (
	"context"
	"net/http"

	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
)

type allJobLister interface {
	AllJobs(ctx context.Context, page, perPage int) (job.Pagination, error)
}

// AdminJobsHandler lists every job, online or not.
func AdminJobsHandler(svr server.Server, jobs allJobLister) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		if !c.IsAdmin() {
			svr.NotFound(w, r)
			return
		}
		page, err := jobs.AllJobs(r.Context(), pageParam(r), svr.GetConfig().JobsPerPage)
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve jobs")
			return
		}
		render(svr, w, r, http.StatusOK, "manage-jobs.html", map[string]interface{}{
			"Title":   svr.Printer(r).Sprintf("All jobs"),
			"Page":    page,
			"BaseURL": job.RouteAdminJobs,
		})
	})
}
