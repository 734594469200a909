package job

import "github.com/job-web/job-board/internal/auth"

const (
	RouteAdminJobs   = "/admin/jobs"
	RouteCompanyJobs = "/company/jobs"
	RouteFront       = "/"
)

// IsOwnedBy reports whether c is the company that posted j.
func IsOwnedBy(j *Job, c auth.Caller) bool {
	return c.IsAuthenticated() && c.ID != "" && j.CompanyID == c.ID
}

// CanManage reports whether c may edit, delete, enable or disable j.
func CanManage(j *Job, c auth.Caller) bool {
	return c.IsAdmin() || IsOwnedBy(j, c)
}

// IsVisibleTo reports whether c may see j. Disabled jobs are shown only to
// their owner and to admins.
func IsVisibleTo(j *Job, c auth.Caller) bool {
	return j.IsEnable || CanManage(j, c)
}

// IndexRoute is where c lands after any job mutation.
func IndexRoute(c auth.Caller) string {
	switch {
	case c.IsAdmin():
		return RouteAdminJobs
	case c.IsCompany():
		return RouteCompanyJobs
	default:
		return RouteFront
	}
}
