package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port            string
	DatabaseURL     string
	SessionKey      []byte
	JwtSigningKey   []byte
	Env             string // either prod or dev, will disable https and few other bits
	SentryDSN       string
	JobsPerPage     int    // configures how many jobs are shown per page result
	DefaultLanguage string // language used when Accept-Language matches nothing
	SiteName        string // Job site name
	SiteHost        string // Job site hostname
	AdminEmail      string
	URLProtocol     string
	ResumeStorage   string // either local or s3
	ResumeDir       string
	ResumeBaseURL   string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	EmailAPIKey     string // transactional mail is skipped when empty
	EmailAPIURL     string
	EmailSender     string
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "unable to load .env")
	}
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	jobsPerPage := 10
	if s := os.Getenv("JOBS_PER_PAGE"); s != "" {
		jobsPerPage, err = strconv.Atoi(s)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert JOBS_PER_PAGE to int")
		}
		if jobsPerPage < 1 {
			return Config{}, fmt.Errorf("JOBS_PER_PAGE must be positive")
		}
	}
	defaultLanguage := os.Getenv("DEFAULT_LANGUAGE")
	if defaultLanguage == "" {
		defaultLanguage = "zh-Hans"
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		siteName = "Job Web"
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		siteHost = "localhost:" + port
	}
	resumeStorage := strings.ToLower(os.Getenv("RESUME_STORAGE"))
	if resumeStorage == "" {
		resumeStorage = "local"
	}
	if resumeStorage != "local" && resumeStorage != "s3" {
		return Config{}, fmt.Errorf("RESUME_STORAGE must be either local or s3")
	}
	s3Bucket := os.Getenv("S3_BUCKET")
	if resumeStorage == "s3" && s3Bucket == "" {
		return Config{}, fmt.Errorf("S3_BUCKET cannot be empty")
	}
	resumeDir := os.Getenv("RESUME_DIR")
	if resumeDir == "" {
		resumeDir = "./uploads"
	}
	emailSender := os.Getenv("EMAIL_SENDER")
	if emailSender == "" {
		emailSender = "no-reply@" + strings.Split(siteHost, ":")[0]
	}
	urlProtocol := "http://"
	if !strings.EqualFold(env, "dev") {
		urlProtocol = "https://"
	}

	return Config{
		Port:            port,
		DatabaseURL:     databaseURL,
		SessionKey:      sessionKeyBytes,
		JwtSigningKey:   jwtSigningKeyBytes,
		Env:             env,
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		JobsPerPage:     jobsPerPage,
		DefaultLanguage: defaultLanguage,
		SiteName:        siteName,
		SiteHost:        siteHost,
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		URLProtocol:     urlProtocol,
		ResumeStorage:   resumeStorage,
		ResumeDir:       resumeDir,
		ResumeBaseURL:   os.Getenv("RESUME_BASE_URL"),
		S3Bucket:        s3Bucket,
		S3Region:        os.Getenv("S3_REGION"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		EmailAPIKey:     os.Getenv("EMAIL_API_KEY"),
		EmailAPIURL:     os.Getenv("EMAIL_API_URL"),
		EmailSender:     emailSender,
	}, nil
}
