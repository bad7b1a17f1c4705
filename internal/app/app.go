// Package app assembles the marketplace HTTP server from configuration:
// storage, auth, the optional job queue and keyword expander, and the
// usecase layer on top of them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/helperaz/helper-marketplace/external/keywordexpander"
	"github.com/helperaz/helper-marketplace/internal/config"
	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
	"github.com/helperaz/helper-marketplace/internal/infrastructure/account/gotrue"
	"github.com/helperaz/helper-marketplace/internal/infrastructure/jobqueue"
	cacherepo "github.com/helperaz/helper-marketplace/internal/infrastructure/repository/cache"
	"github.com/helperaz/helper-marketplace/internal/infrastructure/repository/memory"
	"github.com/helperaz/helper-marketplace/internal/infrastructure/repository/postgres"
	"github.com/helperaz/helper-marketplace/internal/interfaces/httpapi"
	basecache "github.com/helperaz/helper-marketplace/internal/platform/cache"
	idgen "github.com/helperaz/helper-marketplace/internal/platform/id"
	"github.com/helperaz/helper-marketplace/internal/platform/resilience"
	"github.com/helperaz/helper-marketplace/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	profileRepo := repos.profiles
	if cfg.CacheEnabled {
		profileRepo = cacherepo.NewProfileRepository(profileRepo, basecache.NewStore(cfg.CacheTTL))
	}

	verifier := gotrue.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthUserInfoPath,
		cfg.AuthServiceKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthCircuitEnabled,
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMaxReq,
		},
		logger,
		gotrue.WithJWTSecret(cfg.AuthJWTSecret),
		gotrue.WithTokenCacheTTL(cfg.AuthTokenCacheTTL),
	)

	var scheduler usecase.CompletionScheduler
	if cfg.QStashEnabled {
		publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
		scheduler = jobqueue.NewCompletionScheduler(publisher)
	}

	var expander usecase.KeywordExpander
	if cfg.ExpanderEnabled {
		expander = keywordexpander.NewClient(keywordexpander.ClientConfig{
			BaseURL:    cfg.ExpanderBaseURL,
			APIKey:     cfg.ExpanderAPIKey,
			Model:      cfg.ExpanderModel,
			Timeout:    cfg.ExpanderTimeout,
			MaxRetries: cfg.ExpanderMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ExpanderCircuitEnabled,
				FailureThreshold: cfg.ExpanderCircuitFailureCount,
				OpenTimeout:      cfg.ExpanderCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ExpanderCircuitHalfOpenMaxReq,
			},
		})
	}

	profileSvc := usecase.NewProfileService(profileRepo)
	onboardingSvc := usecase.NewOnboardingService(profileRepo)
	offerSvc := usecase.NewOfferService(
		repos.offers,
		repos.transactions,
		profileRepo,
		idgen.NewRandomGenerator(),
		scheduler,
		logger,
	)
	searchSvc := usecase.NewSearchService(profileRepo, expander, logger)
	sessionSvc := usecase.NewSessionService(profileSvc, repos.offers)
	sweeperSvc := usecase.NewCompletionSweeperService(repos.offers, cfg.SweeperWorkerCount, logger)

	handler := httpapi.NewHandler(
		profileSvc,
		onboardingSvc,
		offerSvc,
		searchSvc,
		sessionSvc,
		sweeperSvc,
		logger,
	)
	router := httpapi.NewRouter(
		handler,
		verifier,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

type repositories struct {
	profiles     profile.Repository
	offers       offer.Repository
	transactions transaction.Repository
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		if cfg.SeedDemoData {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				return repositories{}, fmt.Errorf("seed demo data: %w", err)
			}
		}
		logger.Info("storage initialized", "driver", cfg.StorageDriver, "db", dbNameFromURL(cfg.DBURL))
		return repositories{
			profiles:     postgres.NewProfileRepository(db),
			offers:       postgres.NewOfferRepository(db),
			transactions: postgres.NewTransactionRepository(db),
		}, nil

	case config.StorageMemory:
		var seed []profile.Profile
		if cfg.SeedDemoData {
			seed = memory.SeedProfiles()
		}
		txnRepo := memory.NewTransactionRepository()
		logger.Info("storage initialized", "driver", cfg.StorageDriver, "seeded_profiles", len(seed))
		return repositories{
			profiles:     memory.NewProfileRepository(seed),
			offers:       memory.NewOfferRepository(txnRepo),
			transactions: txnRepo,
		}, nil

	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}
