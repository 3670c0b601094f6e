// Package app wires configuration, clients, and services together
package app

import (
	"fmt"

	"github.com/finsight-io/finsight/internal/clients/edgar"
	"github.com/finsight-io/finsight/internal/clients/fmp"
	"github.com/finsight-io/finsight/internal/clients/yahoo"
	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/services/facts"
	"github.com/finsight-io/finsight/internal/services/filings"
	"github.com/finsight-io/finsight/internal/services/history"
	"github.com/finsight-io/finsight/internal/services/identity"
	"github.com/finsight-io/finsight/internal/services/snapshot"
)

// App holds the wired application: configuration, logger, and the
// services the HTTP layer depends on.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Identity interfaces.IdentityService
	Facts    interfaces.FactsService
	Snapshot interfaces.SnapshotService
	History  interfaces.HistoryService
	Filings  interfaces.FilingsService
}

// NewApp loads configuration and wires all clients and services.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	edgarClient := edgar.NewClient(
		config.Clients.EDGAR.UserAgent,
		edgar.WithBaseURL(config.Clients.EDGAR.BaseURL),
		edgar.WithDataBaseURL(config.Clients.EDGAR.DataBaseURL),
		edgar.WithRateLimit(config.Clients.EDGAR.RateLimit),
		edgar.WithTimeout(config.Clients.EDGAR.GetTimeout()),
		edgar.WithLogger(logger),
	)

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	// Market-field preference order: FMP first when configured, Yahoo as
	// the always-on fallback.
	var providers []interfaces.MarketDataProvider
	var quotes []interfaces.QuoteProvider
	var dailyBars interfaces.DailyBarProvider

	if config.Clients.FMP.APIKey != "" {
		fmpClient := fmp.NewClient(
			config.Clients.FMP.APIKey,
			fmp.WithBaseURL(config.Clients.FMP.BaseURL),
			fmp.WithRateLimit(config.Clients.FMP.RateLimit),
			fmp.WithTimeout(config.Clients.FMP.GetTimeout()),
			fmp.WithLogger(logger),
		)
		providers = append(providers, fmpClient)
		quotes = append(quotes, fmpClient)
		dailyBars = fmpClient
	} else {
		logger.Warn().Msg("FMP API key not configured, provider disabled")
	}

	providers = append(providers, yahooClient)
	quotes = append(quotes, yahooClient)

	identitySvc := identity.NewService(edgarClient, config.Cache.GetIdentityTTL(), logger)
	factsSvc := facts.NewService(edgarClient, config.Cache.FactsSize, config.Cache.GetFactsTTL(), logger)
	snapshotSvc := snapshot.NewService(identitySvc, factsSvc, providers, quotes, yahooClient, dailyBars, logger)
	historySvc := history.NewService(yahooClient, dailyBars, logger)
	filingsSvc := filings.NewService(identitySvc, edgarClient, logger)

	logger.Info().
		Str("environment", config.Environment).
		Int("providers", len(providers)).
		Msg("Application initialized")

	return &App{
		Config:   config,
		Logger:   logger,
		Identity: identitySvc,
		Facts:    factsSvc,
		Snapshot: snapshotSvc,
		History:  historySvc,
		Filings:  filingsSvc,
	}, nil
}
