package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/config"
	"github.com/job-web/job-board/internal/database"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/user"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// Creates the admin account from ADMIN_EMAIL, ADMIN_NAME and ADMIN_PASSWORD.
// The password follows the rules of user registration.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load config")
	}
	if cfg.AdminEmail == "" {
		logger.Fatal().Msg("ADMIN_EMAIL cannot be empty")
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	ctx := context.Background()
	userRepo := user.NewRepository(conn)
	f := user.NewRegisterForm(userRepo)
	f.Set("name", name)
	f.Set("email", cfg.AdminEmail)
	f.Set("password", password)
	f.Set("repeat_password", password)
	ok, err := f.Validate(ctx, i18n.NewPrinter("en", i18n.ParseLanguage("en")))
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to validate admin")
	}
	if !ok {
		for field, msgs := range f.Errors {
			logger.Error().Str("field", field).Msg(strings.Join(msgs, " "))
		}
		os.Exit(1)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to hash password")
	}
	u := &user.User{
		ID:        ksuid.New().String(),
		Name:      name,
		Email:     cfg.AdminEmail,
		Password:  hash,
		IsAdmin:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := userRepo.SaveUser(ctx, u); err != nil {
		logger.Fatal().Err(err).Msg("unable to save admin")
	}
	logger.Info().Str("id", u.ID).Str("email", u.Email).Msg("admin created")
}
