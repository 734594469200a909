package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/company"
	"github.com/job-web/job-board/internal/config"
	"github.com/job-web/job-board/internal/delivery"
	"github.com/job-web/job-board/internal/email"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
	"github.com/job-web/job-board/internal/storage"
	"github.com/job-web/job-board/internal/template"
	"github.com/job-web/job-board/internal/user"
	"github.com/job-web/job-board/static"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	owner    = auth.Caller{ID: "acme", Name: "Acme", Email: "hr@acme.test", Role: auth.RoleCompany}
	rival    = auth.Caller{ID: "globex", Name: "Globex", Email: "hr@globex.test", Role: auth.RoleCompany}
	admin    = auth.Caller{ID: "root", Name: "Root", Email: "root@jobs.test", Role: auth.RoleAdmin}
	jobsUser = auth.Caller{ID: "jane", Name: "Jane", Email: "jane@mail.test", Role: auth.RoleUser}
)

type memJobs struct {
	mu      sync.Mutex
	jobs    map[int]*job.Job
	nextID  int
	toggles int
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: map[int]*job.Job{}}
}

func (m *memJobs) add(j job.Job) *job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	j.ID = m.nextID
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Second)
	}
	if j.CompanyName == "" {
		j.CompanyName = j.CompanyID
		j.CompanySlug = j.CompanyID
	}
	m.jobs[j.ID] = &j
	return &j
}

func (m *memJobs) get(id int) *job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id]
}

func (m *memJobs) list(keep func(*job.Job) bool) []*job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*job.Job
	for _, j := range m.jobs {
		if keep(j) {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}

func paged(items []*job.Job, page, perPage int) job.Pagination {
	p := job.NewPagination(page, perPage)
	p.Total = len(items)
	for i := p.Offset(); i < len(items) && i < p.Offset()+p.PerPage; i++ {
		p.Items = append(p.Items, items[i])
	}
	return p
}

func (m *memJobs) EnabledJobs(ctx context.Context, page, perPage int) (job.Pagination, error) {
	return paged(m.list(func(j *job.Job) bool { return j.IsEnable }), page, perPage), nil
}

func (m *memJobs) AllJobs(ctx context.Context, page, perPage int) (job.Pagination, error) {
	return paged(m.list(func(j *job.Job) bool { return true }), page, perPage), nil
}

func (m *memJobs) JobsByCompany(ctx context.Context, companyID string, page, perPage int) (job.Pagination, error) {
	return paged(m.list(func(j *job.Job) bool { return j.CompanyID == companyID }), page, perPage), nil
}

func (m *memJobs) LatestEnabledJobs(ctx context.Context, limit int) ([]*job.Job, error) {
	items := m.list(func(j *job.Job) bool { return j.IsEnable })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memJobs) JobByID(ctx context.Context, id int) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *j
	return &cp, nil
}

func (m *memJobs) SaveJob(ctx context.Context, j *job.Job) error {
	saved := m.add(*j)
	j.ID = saved.ID
	return nil
}

func (m *memJobs) UpdateJob(ctx context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memJobs) DeleteJob(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
	return nil
}

func (m *memJobs) SetJobEnabled(ctx context.Context, id int, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles++
	m.jobs[id].IsEnable = enabled
	return nil
}

type memCompanies struct {
	companies map[string]company.Company
}

func (m *memCompanies) CompanyByID(ctx context.Context, id string) (company.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return company.Company{}, sql.ErrNoRows
	}
	return c, nil
}

func (m *memCompanies) CompanyByEmail(ctx context.Context, email string) (company.Company, error) {
	for _, c := range m.companies {
		if c.Email == email {
			return c, nil
		}
	}
	return company.Company{}, sql.ErrNoRows
}

func (m *memCompanies) CompanyBySlug(ctx context.Context, slug string) (company.Company, error) {
	for _, c := range m.companies {
		if c.Slug == slug {
			return c, nil
		}
	}
	return company.Company{}, sql.ErrNoRows
}

func (m *memCompanies) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.CompanyByEmail(ctx, email)
	return err == nil, nil
}

func (m *memCompanies) SaveCompany(ctx context.Context, c *company.Company) error {
	m.companies[c.ID] = *c
	return nil
}

func (m *memCompanies) UpdateCompanyDetail(ctx context.Context, c *company.Company) error {
	m.companies[c.ID] = *c
	return nil
}

type memUsers struct {
	users map[string]user.User
}

func (m *memUsers) UserByID(ctx context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) UserByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, sql.ErrNoRows
}

func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.UserByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) SaveUser(ctx context.Context, u *user.User) error {
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) UpdateResume(ctx context.Context, userID, resume string) error {
	u := m.users[userID]
	u.Resume = resume
	m.users[userID] = u
	return nil
}

type memDeliveries struct {
	saved []*delivery.Delivery
}

func (m *memDeliveries) SaveDelivery(ctx context.Context, d *delivery.Delivery) error {
	for _, s := range m.saved {
		if s.JobID == d.JobID && s.UserID == d.UserID {
			return &pq.Error{Code: "23505"}
		}
	}
	d.ID = len(m.saved) + 1
	m.saved = append(m.saved, d)
	return nil
}

func (m *memDeliveries) DeliveriesByCompany(ctx context.Context, companyID string, jobID int) ([]*delivery.Delivery, error) {
	return m.saved, nil
}

type memNotices struct {
	sent []email.Delivery
}

func (m *memNotices) NotifyDelivery(ctx context.Context, d email.Delivery) error {
	m.sent = append(m.sent, d)
	return nil
}

type fixture struct {
	svr        server.Server
	jobs       *memJobs
	companies  *memCompanies
	users      *memUsers
	deliveries *memDeliveries
	resumeDir  string
	notices    *memNotices
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmpl, err := template.NewTemplate(static.Views)
	require.NoError(t, err)
	cfg := config.Config{
		Env:             "dev",
		JobsPerPage:     10,
		DefaultLanguage: "zh-Hans",
		SiteName:        "Job Web",
		SiteHost:        "localhost:8080",
		URLProtocol:     "http://",
		JwtSigningKey:   []byte("0123456789abcdef0123456789abcdef"),
	}
	store := sessions.NewCookieStore([]byte("fedcba9876543210fedcba9876543210"))
	svr, err := server.NewServer(cfg, nil, mux.NewRouter(), tmpl, store, zerolog.Nop())
	require.NoError(t, err)

	f := &fixture{
		svr:  svr,
		jobs: newMemJobs(),
		companies: &memCompanies{companies: map[string]company.Company{
			owner.ID: {ID: owner.ID, Name: owner.Name, Email: owner.Email, Slug: "acme"},
			rival.ID: {ID: rival.ID, Name: rival.Name, Email: rival.Email, Slug: "globex"},
		}},
		users: &memUsers{users: map[string]user.User{
			jobsUser.ID: {ID: jobsUser.ID, Name: jobsUser.Name, Email: jobsUser.Email},
		}},
		deliveries: &memDeliveries{},
		notices:    &memNotices{},
	}
	resumes, err := storage.NewLocalStore(t.TempDir(), "/resumes")
	require.NoError(t, err)
	f.resumeDir = resumes.Dir()
	get := []string{http.MethodGet}
	both := []string{http.MethodGet, http.MethodPost}
	svr.RegisterRoute("/", FrontPageHandler(svr, f.jobs), get)
	svr.RegisterRoute("/job", PermanentRedirectHandler(svr, "/job/"), get)
	svr.RegisterRoute("/job/", JobIndexHandler(svr, f.jobs), get)
	svr.RegisterRoute("/job/create", JobCreateHandler(svr, f.jobs, f.companies), both)
	svr.RegisterRoute("/job/{id:[0-9]+}", JobDetailHandler(svr, f.jobs), get)
	svr.RegisterRoute("/job/{id:[0-9]+}/edit", JobEditHandler(svr, f.jobs), both)
	svr.RegisterRoute("/job/{id:[0-9]+}/delete", JobDeleteHandler(svr, f.jobs), both)
	svr.RegisterRoute("/job/{id:[0-9]+}/enable", JobEnableHandler(svr, f.jobs), both)
	svr.RegisterRoute("/job/{id:[0-9]+}/disable", JobDisableHandler(svr, f.jobs), both)
	svr.RegisterRoute("/job/{id:[0-9]+}/apply", JobApplyHandler(svr, f.jobs, f.users, f.companies, f.deliveries, f.notices), []string{http.MethodPost})
	svr.RegisterRoute("/login", LoginHandler(svr, f.users, f.companies), both)
	svr.RegisterRoute("/logout", LogoutHandler(svr), get)
	svr.RegisterRoute("/register/user", RegisterUserHandler(svr, f.users), both)
	svr.RegisterRoute("/register/company", RegisterCompanyHandler(svr, f.companies), both)
	svr.RegisterRoute("/company/jobs", CompanyJobsHandler(svr, f.jobs), get)
	svr.RegisterRoute("/company/deliveries", CompanyDeliveriesHandler(svr, f.jobs, f.deliveries), get)
	svr.RegisterRoute("/company/profile", CompanyProfileHandler(svr, f.companies), both)
	svr.RegisterRoute("/company/{slug}", CompanyPageHandler(svr, f.companies, f.jobs), get)
	svr.RegisterRoute("/admin/jobs", AdminJobsHandler(svr, f.jobs), get)
	svr.RegisterRoute("/user/profile", UserProfileHandler(svr, f.users, resumes), both)
	svr.RegisterRoute("/job/feed.xml", RSSFeedHandler(svr, f.jobs), get)
	svr.RegisterRoute("/sitemap.xml", SitemapHandler(svr, f.jobs), get)
	return f
}

// session keeps the cookies of one browser across requests.
type session struct {
	cookies map[string]*http.Cookie
}

func (f *fixture) anonymous() *session {
	return &session{cookies: map[string]*http.Cookie{}}
}

func (f *fixture) as(t *testing.T, c auth.Caller) *session {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, f.svr.SaveCaller(rec, httptest.NewRequest(http.MethodGet, "/", nil), c, false))
	s := f.anonymous()
	s.keep(rec)
	return s
}

func (s *session) keep(rec *httptest.ResponseRecorder) {
	for _, c := range rec.Result().Cookies() {
		s.cookies[c.Name] = c
	}
}

func (f *fixture) do(s *session, method, path string, form url.Values) *httptest.ResponseRecorder {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	for _, c := range s.cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.svr.ServeHTTP(rec, r)
	s.keep(rec)
	return rec
}

func (f *fixture) get(s *session, path string) *httptest.ResponseRecorder {
	return f.do(s, http.MethodGet, path, nil)
}

func (f *fixture) post(s *session, path string, form url.Values) *httptest.ResponseRecorder {
	return f.do(s, http.MethodPost, path, form)
}

func jobValues(min, max string) url.Values {
	return url.Values{
		"name":        {"Go 后端工程师"},
		"salary_min":  {min},
		"salary_max":  {max},
		"city":        {"杭州"},
		"tags":        {"Go,PostgreSQL"},
		"exp":         {"3-5年"},
		"education":   {"本科"},
		"treatment":   {"五险一金"},
		"description": {"<p>build the job board</p><script>alert(1)</script>"},
		"is_enable":   {"True"},
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
