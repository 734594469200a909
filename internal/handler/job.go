package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/company"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
)

type jobGetter interface {
	JobByID(ctx context.Context, id int) (*job.Job, error)
}

type jobLister interface {
	EnabledJobs(ctx context.Context, page, perPage int) (job.Pagination, error)
}

type jobSaver interface {
	SaveJob(ctx context.Context, j *job.Job) error
}

type jobGetUpdater interface {
	jobGetter
	UpdateJob(ctx context.Context, j *job.Job) error
}

type jobGetDeleter interface {
	jobGetter
	DeleteJob(ctx context.Context, id int) error
}

type jobGetToggler interface {
	jobGetter
	SetJobEnabled(ctx context.Context, id int, enabled bool) error
}

type companyGetter interface {
	CompanyByID(ctx context.Context, id string) (company.Company, error)
}

// loadJob writes the not found page itself when it returns false.
func loadJob(svr server.Server, w http.ResponseWriter, r *http.Request, jobs jobGetter) (*job.Job, bool) {
	id, ok := jobIDParam(r)
	if !ok {
		svr.NotFound(w, r)
		return nil, false
	}
	j, err := jobs.JobByID(r.Context(), id)
	if isNotFound(err) {
		svr.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		svr.InternalError(w, r, err, fmt.Sprintf("unable to retrieve job %d", id))
		return nil, false
	}
	return j, true
}

// loadManagedJob is loadJob restricted to the owner of the job and admins.
// Everybody else gets the not found page.
func loadManagedJob(svr server.Server, w http.ResponseWriter, r *http.Request, c auth.Caller, jobs jobGetter) (*job.Job, bool) {
	if !c.HasRole(auth.RoleCompany) {
		svr.NotFound(w, r)
		return nil, false
	}
	j, ok := loadJob(svr, w, r, jobs)
	if !ok {
		return nil, false
	}
	if !job.CanManage(j, c) {
		svr.NotFound(w, r)
		return nil, false
	}
	return j, true
}

func renderJobForm(svr server.Server, w http.ResponseWriter, r *http.Request, f *job.Form, data map[string]interface{}) {
	p := svr.Printer(r)
	data["Form"] = f
	data["Labels"] = f.Labels(p)
	data["Exps"] = job.Exps
	data["Educations"] = job.Educations
	render(svr, w, r, http.StatusOK, "job-form.html", data)
}

func JobIndexHandler(svr server.Server, jobs jobLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := jobs.EnabledJobs(r.Context(), pageParam(r), svr.GetConfig().JobsPerPage)
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve enabled jobs")
			return
		}
		render(svr, w, r, http.StatusOK, "job-index.html", map[string]interface{}{
			"Title":   svr.Printer(r).Sprintf("Jobs"),
			"Page":    page,
			"BaseURL": "/job/",
		})
	}
}

func JobDetailHandler(svr server.Server, jobs jobGetter) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		j, ok := loadJob(svr, w, r, jobs)
		if !ok {
			return
		}
		if !job.IsVisibleTo(j, c) {
			svr.NotFound(w, r)
			return
		}
		render(svr, w, r, http.StatusOK, "job-detail.html", map[string]interface{}{
			"Title":     j.Name,
			"Job":       j,
			"CanManage": job.CanManage(j, c),
			"CanApply":  c.IsUser() && j.IsEnable,
		})
	})
}

// companyExists reports whether the company an admin posts for is stored.
func companyExists(ctx context.Context, companies companyGetter, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, err := companies.CompanyByID(ctx, id)
	if isNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// JobCreateHandler lets a company post a job it owns. Admins pass too and
// post on behalf of the company named by company_id.
func JobCreateHandler(svr server.Server, jobs jobSaver, companies companyGetter) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		if !c.HasRole(auth.RoleCompany) {
			svr.NotFound(w, r)
			return
		}
		p := svr.Printer(r)
		f := job.NewForm()
		companyID := c.ID
		if r.Method == http.MethodPost {
			if err := f.Bind(r); err != nil {
				badRequest(svr, w, err)
				return
			}
			ok, err := f.Validate(r.Context(), p)
			if err != nil {
				svr.InternalError(w, r, err, "unable to validate job form")
				return
			}
			if c.IsAdmin() {
				companyID = strings.TrimSpace(r.PostFormValue("company_id"))
				found, err := companyExists(r.Context(), companies, companyID)
				if err != nil {
					svr.InternalError(w, r, err, fmt.Sprintf("unable to retrieve company %s", companyID))
					return
				}
				if !found {
					f.AddError(p, "company_id", i18n.MsgInvalidChoice)
					ok = false
				}
			}
			if ok {
				if _, err := f.CreateJob(r.Context(), jobs, companyID); err != nil {
					svr.InternalError(w, r, err, "unable to create job")
					return
				}
				invalidateFrontPage(svr)
				svr.Flash(w, r, server.FlashSuccess, i18n.MsgJobCreated)
				svr.Redirect(w, r, http.StatusFound, job.IndexRoute(c))
				return
			}
		}
		data := map[string]interface{}{
			"Title":  p.Sprintf("Post a job"),
			"Action": "/job/create",
		}
		if c.IsAdmin() {
			data["ChooseCompany"] = true
			data["CompanyID"] = companyID
		}
		renderJobForm(svr, w, r, f, data)
	})
}

func JobEditHandler(svr server.Server, jobs jobGetUpdater) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		j, ok := loadManagedJob(svr, w, r, c, jobs)
		if !ok {
			return
		}
		p := svr.Printer(r)
		f := job.NewForm().FromJob(*j)
		if r.Method == http.MethodPost {
			if err := f.Bind(r); err != nil {
				badRequest(svr, w, err)
				return
			}
			valid, err := f.Validate(r.Context(), p)
			if err != nil {
				svr.InternalError(w, r, err, "unable to validate job form")
				return
			}
			if valid {
				if err := f.UpdateJob(r.Context(), jobs, j); err != nil {
					svr.InternalError(w, r, err, fmt.Sprintf("unable to update job %d", j.ID))
					return
				}
				invalidateFrontPage(svr)
				svr.Flash(w, r, server.FlashSuccess, i18n.MsgJobUpdated)
				svr.Redirect(w, r, http.StatusFound, job.IndexRoute(c))
				return
			}
		}
		renderJobForm(svr, w, r, f, map[string]interface{}{
			"Title":  p.Sprintf("Edit job"),
			"Action": fmt.Sprintf("/job/%d/edit", j.ID),
		})
	})
}

// JobDeleteHandler removes the job right away, on GET as well as POST.
func JobDeleteHandler(svr server.Server, jobs jobGetDeleter) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		j, ok := loadManagedJob(svr, w, r, c, jobs)
		if !ok {
			return
		}
		if err := jobs.DeleteJob(r.Context(), j.ID); err != nil {
			svr.InternalError(w, r, err, fmt.Sprintf("unable to delete job %d", j.ID))
			return
		}
		invalidateFrontPage(svr)
		svr.Flash(w, r, server.FlashSuccess, i18n.MsgJobDeleted)
		svr.Redirect(w, r, http.StatusFound, job.IndexRoute(c))
	})
}

func JobEnableHandler(svr server.Server, jobs jobGetToggler) http.HandlerFunc {
	return jobToggleHandler(svr, jobs, true, i18n.MsgJobAlreadyOnline, i18n.MsgJobEnabled)
}

func JobDisableHandler(svr server.Server, jobs jobGetToggler) http.HandlerFunc {
	return jobToggleHandler(svr, jobs, false, i18n.MsgJobAlreadyOffline, i18n.MsgJobDisabled)
}

// jobToggleHandler sets is_enable to enable. A job already in that state is
// left untouched and the caller gets a warning instead.
func jobToggleHandler(svr server.Server, jobs jobGetToggler, enable bool, already, done string) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		j, ok := loadManagedJob(svr, w, r, c, jobs)
		if !ok {
			return
		}
		if j.IsEnable == enable {
			svr.Flash(w, r, server.FlashWarning, already)
			svr.Redirect(w, r, http.StatusFound, job.IndexRoute(c))
			return
		}
		if err := jobs.SetJobEnabled(r.Context(), j.ID, enable); err != nil {
			svr.InternalError(w, r, err, fmt.Sprintf("unable to set is_enable=%t on job %d", enable, j.ID))
			return
		}
		invalidateFrontPage(svr)
		svr.Flash(w, r, server.FlashSuccess, done)
		svr.Redirect(w, r, http.StatusFound, job.IndexRoute(c))
	})
}
