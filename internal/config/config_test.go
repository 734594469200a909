package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	for _, k := range []string{
		"PORT", "DATABASE_URL", "ENV", "SESSION_KEY", "JWT_SIGNING_KEY", "JOBS_PER_PAGE",
		"DEFAULT_LANGUAGE", "SITE_NAME", "SITE_HOST", "RESUME_STORAGE", "S3_BUCKET", "RESUME_DIR", "EMAIL_SENDER",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func required() map[string]string {
	return map[string]string{
		"PORT":            "9876",
		"DATABASE_URL":    "postgres://localhost/jobs?sslmode=disable",
		"ENV":             "DEV",
		"SESSION_KEY":     "c2Vzc2lvbi1rZXk=",
		"JWT_SIGNING_KEY": "and0LWtleQ==",
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setEnv(t, required())
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9876", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []byte("session-key"), cfg.SessionKey)
	assert.Equal(t, []byte("jwt-key"), cfg.JwtSigningKey)
	assert.Equal(t, 10, cfg.JobsPerPage)
	assert.Equal(t, "zh-Hans", cfg.DefaultLanguage)
	assert.Equal(t, "localhost:9876", cfg.SiteHost)
	assert.Equal(t, "http://", cfg.URLProtocol)
	assert.Equal(t, "local", cfg.ResumeStorage)
	assert.Equal(t, "./uploads", cfg.ResumeDir)
	assert.Equal(t, "no-reply@localhost", cfg.EmailSender)
}

func TestLoadConfigRejectsMissingOrBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"missing port":       {"PORT": ""},
		"missing database":   {"DATABASE_URL": ""},
		"bad session key":    {"SESSION_KEY": "not base64!"},
		"bad jobs per page":  {"JOBS_PER_PAGE": "ten"},
		"zero jobs per page": {"JOBS_PER_PAGE": "0"},
		"unknown storage":    {"RESUME_STORAGE": "ftp"},
		"s3 without bucket":  {"RESUME_STORAGE": "s3"},
	}
	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			env := required()
			for k, v := range override {
				env[k] = v
			}
			setEnv(t, env)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
