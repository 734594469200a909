package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/job-web/job-board/internal/company"
	"github.com/job-web/job-board/internal/config"
	"github.com/job-web/job-board/internal/database"
	"github.com/rs/zerolog"
)

// Fills the summary of companies that gave a website but no description,
// reading it from their home page.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	logger.Info().Msg("inferring company descriptions from websites")
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load config")
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)

	ctx := context.Background()
	companyRepo := company.NewRepository(conn)
	cs, err := companyRepo.CompaniesWithoutDescription(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to list companies")
	}
	logger.Info().Msgf("found %d companies without description", len(cs))
	client := &http.Client{Timeout: 10 * time.Second}
	updated := 0
	for i := range cs {
		c := cs[i]
		description, err := company.FetchDescription(ctx, client, c)
		if err != nil {
			logger.Warn().Err(err).Str("company", c.ID).Msg("unable to fetch website")
			continue
		}
		if description == "" {
			logger.Info().Str("company", c.ID).Msg("no description found")
			continue
		}
		c.Description = description
		if err := companyRepo.UpdateCompanyDetail(ctx, &c); err != nil {
			logger.Error().Err(err).Str("company", c.ID).Msg("unable to save description")
			continue
		}
		updated++
	}
	logger.Info().Msgf("updated %d companies", updated)
}
