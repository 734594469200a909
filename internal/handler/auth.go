package handler

import (
	"context"
	"net/http"

	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/company"
	"github.com/job-web/job-board/internal/form"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
	"github.com/job-web/job-board/internal/user"
)

type userRegistrar interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	SaveUser(ctx context.Context, u *user.User) error
}

type companyRegistrar interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	SaveCompany(ctx context.Context, c *company.Company) error
}

type userByEmail interface {
	UserByEmail(ctx context.Context, email string) (user.User, error)
}

type companyByEmail interface {
	CompanyByEmail(ctx context.Context, email string) (company.Company, error)
}

func renderRegister(svr server.Server, w http.ResponseWriter, r *http.Request, f *form.Form, title, action string) {
	render(svr, w, r, http.StatusOK, "register.html", map[string]interface{}{
		"Title":  title,
		"Action": action,
		"Form":   f,
		"Labels": f.Labels(svr.Printer(r)),
	})
}

func RegisterUserHandler(svr server.Server, users userRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := svr.Printer(r)
		f := user.NewRegisterForm(users)
		if r.Method == http.MethodPost {
			if err := f.Bind(r); err != nil {
				badRequest(svr, w, err)
				return
			}
			ok, err := f.Validate(r.Context(), p)
			if err != nil {
				svr.InternalError(w, r, err, "unable to validate register form")
				return
			}
			if ok {
				_, err := f.CreateUser(r.Context(), users)
				switch {
				case err == user.ErrEmailTaken:
					f.AddError(p, "email", i18n.MsgEmailTaken)
				case err != nil:
					svr.InternalError(w, r, err, "unable to create user")
					return
				default:
					svr.Flash(w, r, server.FlashSuccess, i18n.MsgRegistered)
					svr.Redirect(w, r, http.StatusFound, "/login")
					return
				}
			}
		}
		renderRegister(svr, w, r, f.Form, p.Sprintf("Register as user"), "/register/user")
	}
}

func RegisterCompanyHandler(svr server.Server, companies companyRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := svr.Printer(r)
		f := company.NewRegisterForm(companies)
		if r.Method == http.MethodPost {
			if err := f.Bind(r); err != nil {
				badRequest(svr, w, err)
				return
			}
			ok, err := f.Validate(r.Context(), p)
			if err != nil {
				svr.InternalError(w, r, err, "unable to validate register form")
				return
			}
			if ok {
				_, err := f.CreateCompany(r.Context(), companies)
				switch {
				case err == user.ErrEmailTaken:
					f.AddError(p, "email", i18n.MsgEmailTaken)
				case err != nil:
					svr.InternalError(w, r, err, "unable to create company")
					return
				default:
					svr.Flash(w, r, server.FlashSuccess, i18n.MsgRegistered)
					svr.Redirect(w, r, http.StatusFound, "/login")
					return
				}
			}
		}
		renderRegister(svr, w, r, f.Form, p.Sprintf("Register company"), "/register/company")
	}
}

// authenticate looks the email up among users first, then among companies.
func authenticate(ctx context.Context, users userByEmail, companies companyByEmail, email, password string) (auth.Caller, bool, error) {
	u, err := users.UserByEmail(ctx, email)
	switch {
	case err == nil:
		if !auth.CheckPassword(u.Password, password) {
			return auth.Anonymous, false, nil
		}
		role := auth.RoleUser
		if u.IsAdmin {
			role = auth.RoleAdmin
		}
		return auth.Caller{ID: u.ID, Name: u.Name, Email: u.Email, Role: role}, true, nil
	case !isNotFound(err):
		return auth.Anonymous, false, err
	}
	c, err := companies.CompanyByEmail(ctx, email)
	switch {
	case isNotFound(err):
		return auth.Anonymous, false, nil
	case err != nil:
		return auth.Anonymous, false, err
	case !auth.CheckPassword(c.Password, password):
		return auth.Anonymous, false, nil
	}
	return auth.Caller{ID: c.ID, Name: c.Name, Email: c.Email, Role: auth.RoleCompany}, true, nil
}

func LoginHandler(svr server.Server, users userByEmail, companies companyByEmail) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := svr.Printer(r)
		f := user.NewLoginForm()
		failed := false
		if r.Method == http.MethodPost {
			if err := f.Bind(r); err != nil {
				badRequest(svr, w, err)
				return
			}
			ok, err := f.Validate(r.Context(), p)
			if err != nil {
				svr.InternalError(w, r, err, "unable to validate login form")
				return
			}
			if ok {
				c, found, err := authenticate(r.Context(), users, companies, f.Get("email"), f.Get("password"))
				if err != nil {
					svr.InternalError(w, r, err, "unable to authenticate")
					return
				}
				if found {
					if err := svr.SaveCaller(w, r, c, f.RememberMe()); err != nil {
						svr.InternalError(w, r, err, "unable to save jwt into session cookie")
						return
					}
					svr.Flash(w, r, server.FlashSuccess, i18n.MsgWelcomeBack, c.Name)
					svr.Redirect(w, r, http.StatusFound, job.IndexRoute(c))
					return
				}
				failed = true
			}
		}
		render(svr, w, r, http.StatusOK, "login.html", map[string]interface{}{
			"Title":       p.Sprintf("Log in"),
			"Form":        f,
			"Labels":      f.Labels(p),
			"LoginFailed": failed,
		})
	}
}

func LogoutHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svr.ClearCaller(w, r); err != nil {
			svr.Log(err, "unable to clear session")
		}
		svr.Flash(w, r, server.FlashSuccess, i18n.MsgLoggedOut)
		svr.Redirect(w, r, http.StatusFound, "/")
	}
}
