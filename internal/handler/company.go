package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/company"
	"github.com/job-web/job-board/internal/delivery"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
)

// companyJobsLimit bounds the job list of the delivery filter and of the
// public company page.
const companyJobsLimit = 1000

type companyJobLister interface {
	JobsByCompany(ctx context.Context, companyID string, page, perPage int) (job.Pagination, error)
}

type deliveryLister interface {
	DeliveriesByCompany(ctx context.Context, companyID string, jobID int) ([]*delivery.Delivery, error)
}

type companyBySlug interface {
	CompanyBySlug(ctx context.Context, slug string) (company.Company, error)
}

func CompanyJobsHandler(svr server.Server, jobs companyJobLister) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		if !c.IsCompany() {
			svr.NotFound(w, r)
			return
		}
		page, err := jobs.JobsByCompany(r.Context(), c.ID, pageParam(r), svr.GetConfig().JobsPerPage)
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve company jobs")
			return
		}
		render(svr, w, r, http.StatusOK, "manage-jobs.html", map[string]interface{}{
			"Title":   svr.Printer(r).Sprintf("My jobs"),
			"Page":    page,
			"BaseURL": job.RouteCompanyJobs,
		})
	})
}

// CompanyDeliveriesHandler lists the resumes delivered to the jobs of the
// calling company, optionally narrowed to one job with ?job_id=.
func CompanyDeliveriesHandler(svr server.Server, jobs companyJobLister, deliveries deliveryLister) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		if !c.IsCompany() {
			svr.NotFound(w, r)
			return
		}
		p := svr.Printer(r)
		f := delivery.NewCompanyForm()
		f.BindQuery(r.URL.Query())
		ok, err := f.Validate(r.Context(), p)
		if err != nil {
			svr.InternalError(w, r, err, "unable to validate delivery filter")
			return
		}
		jobID := 0
		if ok {
			jobID = f.JobID()
		}
		owned, err := jobs.JobsByCompany(r.Context(), c.ID, 1, companyJobsLimit)
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve company jobs")
			return
		}
		list, err := deliveries.DeliveriesByCompany(r.Context(), c.ID, jobID)
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve deliveries")
			return
		}
		render(svr, w, r, http.StatusOK, "company-deliveries.html", map[string]interface{}{
			"Title":      p.Sprintf("Deliveries"),
			"Form":       f,
			"Jobs":       owned.Items,
			"Deliveries": list,
		})
	})
}

// CompanyPageHandler is the public page of a company with its online jobs.
func CompanyPageHandler(svr server.Server, companies companyBySlug, jobs companyJobLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comp, err := companies.CompanyBySlug(r.Context(), mux.Vars(r)["slug"])
		if isNotFound(err) {
			svr.NotFound(w, r)
			return
		}
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve company")
			return
		}
		all, err := jobs.JobsByCompany(r.Context(), comp.ID, 1, companyJobsLimit)
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve company jobs")
			return
		}
		online := make([]*job.Job, 0, len(all.Items))
		for _, j := range all.Items {
			if j.IsEnable {
				online = append(online, j)
			}
		}
		render(svr, w, r, http.StatusOK, "company.html", map[string]interface{}{
			"Title":   comp.Name,
			"Company": comp,
			"Jobs":    online,
		})
	}
}
