package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/company"
	"github.com/job-web/job-board/internal/config"
	"github.com/job-web/job-board/internal/database"
	"github.com/job-web/job-board/internal/delivery"
	"github.com/job-web/job-board/internal/email"
	"github.com/job-web/job-board/internal/handler"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/server"
	"github.com/job-web/job-board/internal/storage"
	"github.com/job-web/job-board/internal/template"
	"github.com/job-web/job-board/internal/user"
	"github.com/job-web/job-board/static"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load config")
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)
	tmpl, err := template.NewTemplate(static.Views)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to parse views")
	}
	resumes, err := storage.New(storage.Config{
		Kind:     cfg.ResumeStorage,
		Dir:      cfg.ResumeDir,
		BaseURL:  cfg.ResumeBaseURL,
		Bucket:   cfg.S3Bucket,
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to set up resume storage")
	}
	emailClient := email.NewClient(cfg.EmailAPIKey, cfg.EmailSender, cfg.SiteName, cfg.EmailAPIURL)
	if !emailClient.Enabled() {
		logger.Info().Msg("EMAIL_API_KEY not set, delivery notices are disabled")
	}
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.Env != "dev"

	svr, err := server.NewServer(cfg, conn, mux.NewRouter(), tmpl, sessionStore, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create server")
	}

	jobRepo := job.NewRepository(conn)
	userRepo := user.NewRepository(conn)
	companyRepo := company.NewRepository(conn)
	deliveryRepo := delivery.NewRepository(conn)

	get := []string{http.MethodGet}
	getPost := []string{http.MethodGet, http.MethodPost}

	svr.RegisterRoute("/sitemap.xml", handler.SitemapHandler(svr, jobRepo), get)
	svr.RegisterRoute("/job/feed.xml", handler.RSSFeedHandler(svr, jobRepo), get)
	if local, ok := resumes.(*storage.LocalStore); ok {
		svr.RegisterPathPrefix("/resumes/", http.StripPrefix("/resumes/", http.FileServer(http.Dir(local.Dir()))), get)
	}

	svr.RegisterRoute("/", handler.FrontPageHandler(svr, jobRepo), get)

	// account
	svr.RegisterRoute("/register/user", handler.RegisterUserHandler(svr, userRepo), getPost)
	svr.RegisterRoute("/register/company", handler.RegisterCompanyHandler(svr, companyRepo), getPost)
	svr.RegisterRoute("/login", handler.LoginHandler(svr, userRepo, companyRepo), getPost)
	svr.RegisterRoute("/logout", handler.LogoutHandler(svr), get)
	svr.RegisterRoute("/user/profile", svr.RoleRequired(auth.RoleUser, handler.UserProfileHandler(svr, userRepo, resumes)), getPost)

	// jobs
	svr.RegisterRoute("/job", handler.PermanentRedirectHandler(svr, "/job/"), get)
	svr.RegisterRoute("/job/", handler.JobIndexHandler(svr, jobRepo), get)
	svr.RegisterRoute("/job/create", svr.RoleRequired(auth.RoleCompany, handler.JobCreateHandler(svr, jobRepo, companyRepo)), getPost)
	svr.RegisterRoute("/job/{id:[0-9]+}", handler.JobDetailHandler(svr, jobRepo), get)
	svr.RegisterRoute("/job/{id:[0-9]+}/edit", svr.RoleRequired(auth.RoleCompany, handler.JobEditHandler(svr, jobRepo)), getPost)
	svr.RegisterRoute("/job/{id:[0-9]+}/delete", svr.RoleRequired(auth.RoleCompany, handler.JobDeleteHandler(svr, jobRepo)), getPost)
	svr.RegisterRoute("/job/{id:[0-9]+}/enable", svr.RoleRequired(auth.RoleCompany, handler.JobEnableHandler(svr, jobRepo)), getPost)
	svr.RegisterRoute("/job/{id:[0-9]+}/disable", svr.RoleRequired(auth.RoleCompany, handler.JobDisableHandler(svr, jobRepo)), getPost)
	svr.RegisterRoute("/job/{id:[0-9]+}/apply", svr.RoleRequired(auth.RoleUser, handler.JobApplyHandler(svr, jobRepo, userRepo, companyRepo, deliveryRepo, emailClient)), []string{http.MethodPost})

	// company, the fixed paths go before the slug
	svr.RegisterRoute(job.RouteCompanyJobs, svr.RoleRequired(auth.RoleCompany, handler.CompanyJobsHandler(svr, jobRepo)), get)
	svr.RegisterRoute("/company/deliveries", svr.RoleRequired(auth.RoleCompany, handler.CompanyDeliveriesHandler(svr, jobRepo, deliveryRepo)), get)
	svr.RegisterRoute("/company/profile", svr.RoleRequired(auth.RoleCompany, handler.CompanyProfileHandler(svr, companyRepo)), getPost)
	svr.RegisterRoute("/company/{slug}", handler.CompanyPageHandler(svr, companyRepo, jobRepo), get)

	// admin
	svr.RegisterRoute(job.RouteAdminJobs, svr.RoleRequired(auth.RoleAdmin, handler.AdminJobsHandler(svr, jobRepo)), get)

	logger.Fatal().Err(svr.Run()).Msg("server stopped")
}
