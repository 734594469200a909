package handler

import (
	"context"
	"net/http"

	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/company"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/server"
	"github.com/job-web/job-board/internal/user"
)

type userProfileRepo interface {
	UserByID(ctx context.Context, id string) (user.User, error)
	UpdateResume(ctx context.Context, userID, resume string) error
}

type companyProfileRepo interface {
	CompanyByID(ctx context.Context, id string) (company.Company, error)
	UpdateCompanyDetail(ctx context.Context, c *company.Company) error
}

// UserProfileHandler shows the profile of a user and takes a new PDF resume.
// Companies have their own profile page.
func UserProfileHandler(svr server.Server, users userProfileRepo, store user.ResumeStore) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		if !c.HasRole(auth.RoleUser) || c.IsCompany() {
			svr.NotFound(w, r)
			return
		}
		u, err := users.UserByID(r.Context(), c.ID)
		if isNotFound(err) {
			svr.NotFound(w, r)
			return
		}
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve user")
			return
		}
		p := svr.Printer(r)
		f := user.NewDetailForm()
		if r.Method == http.MethodPost {
			if err := f.Bind(r); err != nil {
				badRequest(svr, w, err)
				return
			}
			ok, err := f.Validate(r.Context(), p)
			if err != nil {
				svr.InternalError(w, r, err, "unable to validate resume")
				return
			}
			if ok {
				if err := f.UpdateDetail(r.Context(), store, users, &u); err != nil {
					svr.InternalError(w, r, err, "unable to update resume")
					return
				}
				svr.Flash(w, r, server.FlashSuccess, i18n.MsgProfileUpdated)
				svr.Redirect(w, r, http.StatusFound, "/user/profile")
				return
			}
		}
		render(svr, w, r, http.StatusOK, "user-profile.html", map[string]interface{}{
			"Title":  p.Sprintf("Profile"),
			"User":   u,
			"Form":   f,
			"Labels": f.Labels(p),
		})
	})
}

func CompanyProfileHandler(svr server.Server, companies companyProfileRepo) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		if !c.IsCompany() {
			svr.NotFound(w, r)
			return
		}
		comp, err := companies.CompanyByID(r.Context(), c.ID)
		if isNotFound(err) {
			svr.NotFound(w, r)
			return
		}
		if err != nil {
			svr.InternalError(w, r, err, "unable to retrieve company")
			return
		}
		p := svr.Printer(r)
		f := company.NewDetailForm().FromCompany(comp)
		if r.Method == http.MethodPost {
			if err := f.Bind(r); err != nil {
				badRequest(svr, w, err)
				return
			}
			ok, err := f.Validate(r.Context(), p)
			if err != nil {
				svr.InternalError(w, r, err, "unable to validate company detail")
				return
			}
			if ok {
				if err := f.UpdateDetail(r.Context(), companies, &comp); err != nil {
					svr.InternalError(w, r, err, "unable to update company detail")
					return
				}
				invalidateFrontPage(svr)
				svr.Flash(w, r, server.FlashSuccess, i18n.MsgProfileUpdated)
				svr.Redirect(w, r, http.StatusFound, "/company/profile")
				return
			}
		}
		render(svr, w, r, http.StatusOK, "company-profile.html", map[string]interface{}{
			"Title":         p.Sprintf("Company profile"),
			"Company":       comp,
			"Form":          f,
			"Labels":        f.Labels(p),
			"FinanceStages": company.FinanceStages,
			"Fields":        company.Fields,
		})
	})
}
