package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/delivery"
	"github.com/job-web/job-board/internal/email"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
	"github.com/job-web/job-board/internal/user"
)

type userGetter interface {
	UserByID(ctx context.Context, id string) (user.User, error)
}

type deliverySaver interface {
	SaveDelivery(ctx context.Context, d *delivery.Delivery) error
}

type deliveryNotifier interface {
	NotifyDelivery(ctx context.Context, d email.Delivery) error
}

// notifyCompany mails the hiring company; failures are logged only.
func notifyCompany(svr server.Server, r *http.Request, companies companyGetter, notifier deliveryNotifier, j *job.Job, u user.User) {
	c, err := companies.CompanyByID(r.Context(), j.CompanyID)
	if err != nil {
		svr.Log(err, fmt.Sprintf("unable to retrieve company %s for delivery notice", j.CompanyID))
		return
	}
	err = notifier.NotifyDelivery(r.Context(), email.Delivery{
		CompanyName:  c.Name,
		CompanyEmail: c.Email,
		JobName:      j.Name,
		JobURL:       siteURL(svr, fmt.Sprintf("/job/%d", j.ID)),
		UserName:     u.Name,
		UserEmail:    u.Email,
		ResumeURL:    absoluteURL(svr, u.Resume),
	})
	if err != nil {
		svr.Log(err, fmt.Sprintf("unable to notify company %s of delivery", c.ID))
	}
}

// absoluteURL prefixes site relative links, such as locally stored resumes.
func absoluteURL(svr server.Server, link string) string {
	if strings.HasPrefix(link, "/") {
		return siteURL(svr, link)
	}
	return link
}

// JobApplyHandler delivers the resume of the calling user to a job and lets
// the hiring company know by mail.
func JobApplyHandler(svr server.Server, jobs jobGetter, users userGetter, companies companyGetter, deliveries deliverySaver, notifier deliveryNotifier) http.HandlerFunc {
	return svr.WithCaller(func(w http.ResponseWriter, r *http.Request, c auth.Caller) {
		if !c.IsUser() {
			svr.NotFound(w, r)
			return
		}
		j, ok := loadJob(svr, w, r, jobs)
		if !ok {
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
		detail := fmt.Sprintf("/job/%d", j.ID)
		_, err = delivery.Deliver(r.Context(), deliveries, j, u)
		switch err {
		case nil:
			notifyCompany(svr, r, companies, notifier, j, u)
			svr.Flash(w, r, server.FlashSuccess, i18n.MsgResumeDelivered)
		case delivery.ErrJobClosed:
			svr.NotFound(w, r)
			return
		case delivery.ErrResumeMissing:
			svr.Flash(w, r, server.FlashWarning, i18n.MsgResumeMissing)
			svr.Redirect(w, r, http.StatusFound, "/user/profile")
			return
		case delivery.ErrAlreadyDelivered:
			svr.Flash(w, r, server.FlashWarning, i18n.MsgAlreadyDelivered)
		default:
			svr.InternalError(w, r, err, fmt.Sprintf("unable to deliver resume to job %d", j.ID))
			return
		}
		svr.Redirect(w, r, http.StatusFound, detail)
	})
}
