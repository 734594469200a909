package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/delivery"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)
	s := f.anonymous()

	rec := f.get(s, "/register/user")
	require.Equal(t, http.StatusOK, rec.Code)

	values := url.Values{
		"name":            {"Jane Doe"},
		"email":           {jobsUser.Email},
		"password":        {"secret1"},
		"repeat_password": {"secret1"},
	}
	rec = f.post(s, "/register/user", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "邮箱已被其他账号使用")

	values.Set("email", "john@mail.test")
	values.Set("repeat_password", "secret2")
	rec = f.post(s, "/register/user", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "两次密码不一致")

	values.Set("repeat_password", "secret1")
	rec = f.post(s, "/register/user", values)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	u, err := f.users.UserByEmail(context.Background(), "john@mail.test")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.Name)
	assert.True(t, auth.CheckPassword(u.Password, "secret1"))
}

func TestRegisterCompany(t *testing.T) {
	f := newFixture(t)
	rec := f.post(f.anonymous(), "/register/company", url.Values{
		"name":            {"Initech Ltd"},
		"email":           {"jobs@initech.test"},
		"password":        {"secret1"},
		"repeat_password": {"secret1"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	c, err := f.companies.CompanyByEmail(context.Background(), "jobs@initech.test")
	require.NoError(t, err)
	assert.Equal(t, "Initech Ltd", c.Name)
	assert.True(t, strings.HasPrefix(c.Slug, "initech-ltd-"), c.Slug)
}

func addPassword(t *testing.T, f *fixture, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := f.users.users[jobsUser.ID]
	u.Password = hash
	f.users.users[jobsUser.ID] = u
	c := f.companies.companies[owner.ID]
	c.Password = hash
	f.companies.companies[owner.ID] = c
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	addPassword(t, f, "secret1")
	hidden := ownedJob(f, "隐藏职位", owner.ID, false)

	s := f.anonymous()
	rec := f.post(s, "/login", url.Values{"email": {jobsUser.Email}, "password": {"wrong1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "邮箱或密码错误")

	rec = f.post(s, "/login", url.Values{"email": {"nobody@mail.test"}, "password": {"secret1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "邮箱或密码错误")

	rec = f.post(s, "/login", url.Values{"email": {jobsUser.Email}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, job.RouteFront, rec.Header().Get("Location"))
	rec = f.get(s, "/")
	assert.Contains(t, rec.Body.String(), "欢迎回来，Jane！")

	c := f.anonymous()
	rec = f.post(c, "/login", url.Values{"email": {owner.Email}, "password": {"secret1"}, "remember_me": {"y"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, job.RouteCompanyJobs, rec.Header().Get("Location"))
	assert.Greater(t, rec.Result().Cookies()[0].MaxAge, 0)
	rec = f.get(c, "/job/"+itoa(hidden.ID))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.get(c, "/logout")
	require.Equal(t, http.StatusFound, rec.Code)
	rec = f.get(c, "/job/"+itoa(hidden.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginAdminUser(t *testing.T) {
	f := newFixture(t)
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	f.users.users[admin.ID] = user.User{ID: admin.ID, Name: admin.Name, Email: admin.Email, Password: hash, IsAdmin: true}

	s := f.anonymous()
	rec := f.post(s, "/login", url.Values{"email": {admin.Email}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, job.RouteAdminJobs, rec.Header().Get("Location"))
	rec = f.get(s, job.RouteAdminJobs)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApply(t *testing.T) {
	f := newFixture(t)
	j := ownedJob(f, "Go 工程师", owner.ID, true)
	closed := ownedJob(f, "已关闭", owner.ID, false)
	s := f.as(t, jobsUser)
	path := "/job/" + itoa(j.ID) + "/apply"

	rec := f.post(s, path, url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user/profile", rec.Header().Get("Location"))
	assert.Empty(t, f.deliveries.saved)

	u := f.users.users[jobsUser.ID]
	u.Resume = "/resumes/jane/cv.pdf"
	f.users.users[jobsUser.ID] = u

	rec = f.post(s, path, url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/job/"+itoa(j.ID), rec.Header().Get("Location"))
	require.Len(t, f.deliveries.saved, 1)
	assert.Equal(t, u.Resume, f.deliveries.saved[0].Resume)
	require.Len(t, f.notices.sent, 1)
	assert.Equal(t, owner.Email, f.notices.sent[0].CompanyEmail)
	assert.Equal(t, "http://localhost:8080/resumes/jane/cv.pdf", f.notices.sent[0].ResumeURL)
	assert.Equal(t, "http://localhost:8080/job/"+itoa(j.ID), f.notices.sent[0].JobURL)

	rec = f.post(s, path, url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Len(t, f.deliveries.saved, 1)
	assert.Len(t, f.notices.sent, 1)
	rec = f.get(s, "/job/"+itoa(j.ID))
	assert.Contains(t, rec.Body.String(), "已经投递过该职位")

	rec = f.post(s, "/job/"+itoa(closed.ID)+"/apply", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.post(f.as(t, owner), path, url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, f.deliveries.saved, 1)
}

func TestUserProfileUploadsResume(t *testing.T) {
	f := newFixture(t)
	s := f.as(t, jobsUser)

	rec := f.get(s, "/user/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.get(f.as(t, owner), "/user/profile")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	upload := func(name string, content []byte) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		part, err := mw.CreateFormFile("resume", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		r := httptest.NewRequest(http.MethodPost, "/user/profile", body)
		r.Header.Set("Content-Type", mw.FormDataContentType())
		for _, c := range s.cookies {
			r.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		f.svr.ServeHTTP(rec, r)
		return rec
	}

	rec = upload("cv.txt", []byte("plain text"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "仅限PDF格式！")

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	rec = upload("cv.pdf", pdf)
	require.Equal(t, http.StatusFound, rec.Code)
	resume := f.users.users[jobsUser.ID].Resume
	require.True(t, strings.HasPrefix(resume, "/resumes/"+jobsUser.ID+"/"), resume)
	stored, err := os.ReadFile(filepath.Join(f.resumeDir, strings.TrimPrefix(resume, "/resumes/")))
	require.NoError(t, err)
	assert.Equal(t, pdf, stored)
}

func TestCompanyProfile(t *testing.T) {
	f := newFixture(t)
	s := f.as(t, owner)

	rec := f.get(s, "/company/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.get(f.as(t, admin), "/company/profile")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	values := url.Values{
		"address":       {"杭州市西湖区"},
		"logo":          {"https://acme.test/logo.png"},
		"finance_stage": {"A轮"},
		"field":         {"企业服务"},
		"website":       {"ftp"},
		"description":   {"We build things"},
		"details":       {"<p>About</p><script>x()</script>"},
	}
	rec = f.post(s, "/company/profile", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "请确认您输入的网址")

	values.Set("website", "https://acme.test")
	rec = f.post(s, "/company/profile", values)
	require.Equal(t, http.StatusFound, rec.Code)
	c := f.companies.companies[owner.ID]
	assert.Equal(t, "杭州市西湖区", c.Address)
	assert.Equal(t, "A轮", c.FinanceStage)
	assert.NotContains(t, c.Details, "<script>")
}

func TestCompanyPages(t *testing.T) {
	f := newFixture(t)
	ownedJob(f, "公开职位", owner.ID, true)
	ownedJob(f, "隐藏职位", owner.ID, false)
	ownedJob(f, "别家职位", rival.ID, true)

	rec := f.get(f.anonymous(), "/company/acme")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "公开职位")
	assert.NotContains(t, rec.Body.String(), "隐藏职位")
	assert.NotContains(t, rec.Body.String(), "别家职位")

	rec = f.get(f.anonymous(), "/company/initech")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.get(f.as(t, owner), job.RouteCompanyJobs)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "公开职位")
	assert.Contains(t, rec.Body.String(), "隐藏职位")
	assert.NotContains(t, rec.Body.String(), "别家职位")

	rec = f.get(f.as(t, jobsUser), job.RouteCompanyJobs)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.get(f.as(t, admin), job.RouteAdminJobs)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "隐藏职位")
	assert.Contains(t, rec.Body.String(), "别家职位")

	rec = f.get(f.as(t, owner), job.RouteAdminJobs)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompanyDeliveries(t *testing.T) {
	f := newFixture(t)
	j := ownedJob(f, "Go 工程师", owner.ID, true)
	f.deliveries.saved = append(f.deliveries.saved, &delivery.Delivery{JobID: j.ID, JobName: j.Name, UserName: "Jane", UserEmail: jobsUser.Email, Resume: "/resumes/jane/cv.pdf"})

	s := f.as(t, owner)
	rec := f.get(s, "/company/deliveries")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/resumes/jane/cv.pdf")

	rec = f.get(s, "/company/deliveries?job_id=abc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "请填写整数")

	rec = f.get(f.as(t, jobsUser), "/company/deliveries")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeeds(t *testing.T) {
	f := newFixture(t)
	j := ownedJob(f, "公开职位", owner.ID, true)
	ownedJob(f, "隐藏职位", owner.ID, false)

	rec := f.get(f.anonymous(), "/job/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "公开职位")
	assert.NotContains(t, rec.Body.String(), "隐藏职位")
	assert.Contains(t, rec.Body.String(), "http://localhost:8080/job/"+itoa(j.ID))

	rec = f.get(f.anonymous(), "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http://localhost:8080/job/"+itoa(j.ID))
	assert.Contains(t, rec.Body.String(), "http://localhost:8080/company/"+owner.ID)
}
