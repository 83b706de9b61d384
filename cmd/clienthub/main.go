package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/gentyx/clienthub/internal/blob"
	"github.com/gentyx/clienthub/internal/cli"
	"github.com/gentyx/clienthub/internal/config"
	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/notify"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/gentyx/clienthub/internal/service"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store, err := blob.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("opening upload dir: %w", err)
	}

	// Wire repositories
	clientRepo := repository.NewSQLiteClientRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	documentRepo := repository.NewSQLiteDocumentRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	var notifier service.Notifier = service.NewLogNotifier(logger)
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			// Notifications are best-effort; keep the log notifier.
			logger.Warn("telegram notifier disabled", "error", err)
		} else {
			notifier = notify.Fanout{notifier, tg}
		}
	}

	app := &cli.App{
		Clients:  service.NewClientService(clientRepo, uow, observers...),
		Stages:   service.NewStageService(stageRepo, clientRepo, uow, observers...),
		Tasks:    service.NewTaskService(taskRepo, documentRepo, clientRepo, uow, store, notifier, observers...),
		Progress: service.NewProgressService(clientRepo, stageRepo, taskRepo, observers...),
		Audit:    service.NewAuditService(auditRepo, clientRepo),
		Import:   service.NewImportService(uow, observers...),

		Config:      cfg,
		Logger:      logger,
		Version:     version,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	// Execute root command
	return cli.NewRootCmd(app).Execute()
}
