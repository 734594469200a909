package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
	"github.com/snabb/sitemap"
)

const feedSize = 20

type latestJobLister interface {
	LatestEnabledJobs(ctx context.Context, limit int) ([]*job.Job, error)
}

func siteURL(svr server.Server, path string) string {
	cfg := svr.GetConfig()
	return cfg.URLProtocol + cfg.SiteHost + path
}

func RSSFeedHandler(svr server.Server, jobs latestJobLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := jobs.LatestEnabledJobs(r.Context(), feedSize)
		if err != nil {
			svr.Log(err, "unable to retrieve jobs for rss feed")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		cfg := svr.GetConfig()
		feed := &feeds.Feed{
			Title:       cfg.SiteName,
			Link:        &feeds.Link{Href: siteURL(svr, "/")},
			Description: cfg.SiteName,
			Created:     time.Now(),
		}
		for _, j := range list {
			feed.Items = append(feed.Items, &feeds.Item{
				Title:       fmt.Sprintf("%s - %s · %s · %s", j.Name, j.CompanyName, j.City, j.SalaryRange()),
				Link:        &feeds.Link{Href: siteURL(svr, fmt.Sprintf("/job/%d", j.ID))},
				Description: j.Description,
				Author:      &feeds.Author{Name: j.CompanyName},
				Created:     j.CreatedAt,
			})
		}
		rss, err := feed.ToRss()
		if err != nil {
			svr.Log(err, "unable to convert rss feed to xml")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		svr.XML(w, http.StatusOK, []byte(rss))
	}
}

// SitemapHandler lists the front page, the job list and the latest online
// jobs with their company pages.
func SitemapHandler(svr server.Server, jobs latestJobLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := jobs.LatestEnabledJobs(r.Context(), companyJobsLimit)
		if err != nil {
			svr.Log(err, "unable to retrieve jobs for sitemap")
			svr.TEXT(w, http.StatusInternalServerError, "unable to fetch sitemap")
			return
		}
		sm := sitemap.New()
		sm.Add(&sitemap.URL{Loc: siteURL(svr, "/"), ChangeFreq: sitemap.ChangeFreq("hourly")})
		sm.Add(&sitemap.URL{Loc: siteURL(svr, "/job/"), ChangeFreq: sitemap.ChangeFreq("hourly")})
		companies := map[string]bool{}
		for _, j := range list {
			lastMod := j.CreatedAt
			sm.Add(&sitemap.URL{
				Loc:        siteURL(svr, fmt.Sprintf("/job/%d", j.ID)),
				LastMod:    &lastMod,
				ChangeFreq: sitemap.ChangeFreq("weekly"),
			})
			if j.CompanySlug == "" || companies[j.CompanySlug] {
				continue
			}
			companies[j.CompanySlug] = true
			sm.Add(&sitemap.URL{
				Loc:        siteURL(svr, "/company/"+j.CompanySlug),
				ChangeFreq: sitemap.ChangeFreq("weekly"),
			})
		}
		buf := new(bytes.Buffer)
		if _, err := sm.WriteTo(buf); err != nil {
			svr.Log(err, "unable to write sitemap")
			svr.TEXT(w, http.StatusInternalServerError, "unable to save sitemap file")
			return
		}
		svr.XML(w, http.StatusOK, buf.Bytes())
	}
}
