package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/melodia-app/backend/internal/auth"
	"github.com/melodia-app/backend/internal/handler"
	"github.com/melodia-app/backend/internal/mail"
	"github.com/melodia-app/backend/internal/storage"
	"github.com/melodia-app/backend/pkg/config"
	"github.com/melodia-app/backend/pkg/cookie"
	"github.com/melodia-app/backend/pkg/email"
	"github.com/melodia-app/backend/pkg/httpserver"
	"github.com/melodia-app/backend/pkg/logger"
	"github.com/melodia-app/backend/pkg/mongo"
)

type appConfig struct {
	// StorageDriver selects the credential store: "mongo" or "memory".
	// Memory is for local development only, state is lost on restart.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"mongo"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		logCfg    logger.Config
		authCfg   auth.Config
		emailCfg  email.Config
		serverCfg httpserver.Config
		googleCfg auth.GoogleConfig
		githubCfg auth.GithubConfig
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&serverCfg)
	config.MustLoad(&googleCfg)
	config.MustLoad(&githubCfg)

	log := logger.New(logCfg)
	slog.SetDefault(log)

	store, health, err := newStore(ctx, appCfg.StorageDriver, log)
	if err != nil {
		return err
	}

	sender, err := newSender(emailCfg, log)
	if err != nil {
		return err
	}
	notifier := mail.NewNotifier(sender)

	tokens, err := auth.NewTokenService(authCfg)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordManager(store, notifier, log, authCfg)

	providers, err := newProviders(googleCfg, githubCfg, log)
	if err != nil {
		return err
	}
	bridge := auth.NewBridge(store, log, providers...)

	svc := auth.NewService(store, tokens, passwords, bridge, log)
	authHandler := handler.NewAuthHandler(svc, tokens, cookie.New(), appCfg.SecureCookies, log)
	router := handler.NewRouter(authHandler, health)

	srv := httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log))
	log.InfoContext(ctx, "starting server", slog.String("addr", serverCfg.Addr))
	return srv.Run(ctx, router)
}

// newStore builds the credential store and its health probe.
func newStore(ctx context.Context, driver string, log *slog.Logger) (auth.UserStore, handler.Healthcheck, error) {
	switch driver {
	case "memory":
		log.WarnContext(ctx, "using in-memory store, state is not persisted")
		return storage.NewMemoryStore(), nil, nil
	case "mongo":
		var cfg mongo.Config
		config.MustLoad(&cfg)

		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store := storage.NewMongoStore(client.Database(cfg.Database))
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return store, mongo.Healthcheck(client), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// newSender picks Postmark when credentials are configured, otherwise the
// file-based dev sender.
func newSender(cfg email.Config, log *slog.Logger) (email.EmailSender, error) {
	if cfg.UseDevSender() {
		log.Warn("postmark credentials missing, writing emails to disk",
			slog.String("dir", cfg.DevOutputDir))
		return email.NewDevSender(cfg.DevOutputDir), nil
	}
	return email.NewPostmarkClient(cfg)
}

// newProviders wires the OAuth providers that have credentials configured.
func newProviders(googleCfg auth.GoogleConfig, githubCfg auth.GithubConfig, log *slog.Logger) ([]auth.IdentityProvider, error) {
	var providers []auth.IdentityProvider

	if googleCfg.Enabled() {
		p, err := auth.NewGoogleProvider(googleCfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	} else {
		log.Warn("google sign-in disabled, no client id configured")
	}

	if githubCfg.Enabled() {
		p, err := auth.NewGithubProvider(githubCfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	} else {
		log.Warn("github sign-in disabled, no client credentials configured")
	}

	return providers, nil
}
