package cli

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/odysseus0/internlog/internal/config"
	"github.com/odysseus0/internlog/internal/fetch"
	"github.com/odysseus0/internlog/internal/ingest"
	"github.com/odysseus0/internlog/internal/render"
	"github.com/odysseus0/internlog/internal/store"
)

type App struct {
	cfg       config.Config
	db        *sql.DB
	store     *store.Store
	ingestor  *ingest.Ingestor
	fetcher   *fetch.Fetcher
	logger    *slog.Logger
	logCloser io.Closer
}

// NewApp opens the database and wires the write path. The app owns logCloser
// and closes it with the database.
func NewApp(cfg config.Config, dbPath string, logger *slog.Logger, logCloser io.Closer) (*App, error) {
	cfg.DBPath = dbPath
	db, err := store.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", "path", cfg.DBPath)

	s := store.NewStore(db)
	ig := ingest.New(s, ingest.Options{
		Renderer: render.NewRenderer(),
		Logger:   logger,
		Audit:    cfg.AuditDangerous,
	})

	return &App{
		cfg:       cfg,
		db:        db,
		store:     s,
		ingestor:  ig,
		fetcher:   fetch.NewFetcher(s, ig, cfg, logger),
		logger:    logger,
		logCloser: logCloser,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}
