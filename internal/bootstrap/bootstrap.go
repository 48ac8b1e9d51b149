package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	annotationinadapter "folio/internal/modules/annotation/adapter/in"
	annotationoutadapter "folio/internal/modules/annotation/adapter/out"
	annotationservice "folio/internal/modules/annotation/service"
	annotationusecase "folio/internal/modules/annotation/usecase"
	documentinadapter "folio/internal/modules/document/adapter/in"
	documentoutadapter "folio/internal/modules/document/adapter/out"
	documentin "folio/internal/modules/document/port/in"
	documentservice "folio/internal/modules/document/service"
	documentusecase "folio/internal/modules/document/usecase"
	libraryinadapter "folio/internal/modules/library/adapter/in"
	libraryoutadapter "folio/internal/modules/library/adapter/out"
	libraryservice "folio/internal/modules/library/service"
	libraryusecase "folio/internal/modules/library/usecase"
	narrationinadapter "folio/internal/modules/narration/adapter/in"
	narrationoutadapter "folio/internal/modules/narration/adapter/out"
	narrationservice "folio/internal/modules/narration/service"
	narrationusecase "folio/internal/modules/narration/usecase"
	readerinadapter "folio/internal/modules/reader/adapter/in"
	readeroutadapter "folio/internal/modules/reader/adapter/out"
	"folio/internal/modules/reader/domain"
	readerservice "folio/internal/modules/reader/service"
	readerusecase "folio/internal/modules/reader/usecase"
	sessioninadapter "folio/internal/modules/session/adapter/in"
	sessionoutadapter "folio/internal/modules/session/adapter/out"
	sessionservice "folio/internal/modules/session/service"
	sessionusecase "folio/internal/modules/session/usecase"
	"folio/internal/platform/clock"
	"folio/internal/platform/config"
	"folio/internal/platform/id"
	"folio/internal/platform/logging"
	"folio/internal/platform/schedule"
	"folio/internal/platform/sqlitedb"
	"folio/internal/platform/tx"
	uiapp "folio/internal/ui/app"
)

// Rasterized pages stay cached this long after their last use.
const (
	bitmapTTL     = 10 * time.Minute
	bitmapCleanup = 5 * time.Minute
	inboxSettle   = 2 * time.Second
)

type App struct {
	LibraryCLI    libraryinadapter.CLIHandler
	DocumentCLI   documentinadapter.CLIHandler
	ReaderCLI     readerinadapter.CLIHandler
	ReaderTUI     readerinadapter.TUIHandler
	SessionCLI    sessioninadapter.CLIHandler
	SessionTUI    sessioninadapter.TUIHandler
	NarrationTUI  narrationinadapter.TUIHandler
	AnnotationCLI annotationinadapter.CLIHandler
	Logger        *slog.Logger

	documents documentin.Usecase
	db        *sql.DB
}

// New wires every module against the library database. Logs go to logOutput,
// or to stderr when it is nil.
func New(cfg config.Config, logOutput io.Writer) (*App, error) {
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logOutput})
	clk := clock.SystemClock{}

	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}
	txManager := tx.NewSQLManager(db)

	libraryStore := libraryoutadapter.NewSQLiteStore(db)
	annotationStore := annotationoutadapter.NewSQLiteStore(db)
	streakStore := sessionoutadapter.NewSQLiteStreakStore(db)
	ctx := context.Background()
	for _, store := range []interface{ Open(context.Context) error }{libraryStore, annotationStore, streakStore} {
		if err := store.Open(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare library database: %w", err)
		}
	}
	libraryUC := libraryusecase.NewInteractor(libraryservice.NewLibraryService(libraryStore, libraryStore, txManager))

	documentUC := documentusecase.NewInteractor(documentservice.NewPipelineService(
		documentoutadapter.NewLibraryAdapter(libraryUC),
		documentoutadapter.NewPDFRenderer(),
		clk,
		id.Derived,
		cfg.Reader.ThumbnailWidth,
		logger,
	))

	scheduler := schedule.CronScheduler{}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(sessionoutadapter.NewLibraryAdapter(libraryUC), scheduler, clk, cfg.Reader.FlushInterval, logger),
		sessionservice.NewFocusService(scheduler, clk, cfg.Reader.IdleThreshold),
		sessionservice.NewStreakService(streakStore, clk),
		logger,
	)

	readerUC := readerusecase.NewInteractor(readerservice.NewReaderService(
		readeroutadapter.NewDocumentAdapter(documentUC),
		readeroutadapter.NewSessionAdapter(sessionUC),
		readeroutadapter.NewBitmapCache(bitmapTTL, bitmapCleanup),
		readeroutadapter.NewMemorySurface(),
		readeroutadapter.NewMemorySurface(),
		domain.GestureConfig{EdgeRatio: cfg.Reader.EdgeZoneRatio, CommitRatio: cfg.Reader.CommitRatio},
		domain.DefaultDisplay(cfg.Reader.DefaultZoom),
		logger,
	))

	narrationUC := narrationusecase.NewInteractor(narrationservice.NewNarrationService(
		narrationoutadapter.NewReaderAdapter(readerUC),
		narrationoutadapter.NewESpeakSpeaker(cfg.Narration.Command),
		cfg.Narration.Voice,
		cfg.Narration.Rate,
		logger,
	))

	annotationUC := annotationusecase.NewInteractor(annotationservice.NewAnnotationService(
		annotationStore,
		annotationoutadapter.NewLibraryAdapter(libraryUC),
		annotationoutadapter.NewFileExporter(cfg.ExportDir),
		txManager,
		clk,
		id.UUID{},
	))

	return &App{
		LibraryCLI:    libraryinadapter.NewCLIHandler(libraryUC),
		DocumentCLI:   documentinadapter.NewCLIHandler(documentUC),
		ReaderCLI:     readerinadapter.NewCLIHandler(readerUC),
		ReaderTUI:     readerinadapter.NewTUIHandler(readerUC),
		SessionCLI:    sessioninadapter.NewCLIHandler(sessionUC),
		SessionTUI:    sessioninadapter.NewTUIHandler(sessionUC),
		NarrationTUI:  narrationinadapter.NewTUIHandler(narrationUC),
		AnnotationCLI: annotationinadapter.NewCLIHandler(annotationUC),
		Logger:        logger,
		documents:     documentUC,
		db:            db,
	}, nil
}

// RemoveEntry deletes a library entry and then its bookmarks and notes. The
// entry is gone even when the annotation cleanup fails; that failure is only
// logged.
func (a *App) RemoveEntry(ctx context.Context, id string) error {
	if err := a.LibraryCLI.Remove(ctx, id); err != nil {
		return err
	}
	if err := a.AnnotationCLI.Forget(ctx, id); err != nil {
		a.Logger.Warn("remove annotations", slog.String("document", id), slog.Any("err", err))
	}
	return nil
}

// NewInboxWatcher watches dir and imports every PDF that settles in it.
func (a *App) NewInboxWatcher(dir string, tags []string) *documentinadapter.InboxWatcher {
	return documentinadapter.NewInboxWatcher(a.documents, dir, tags, inboxSettle, a.Logger)
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(libraryTUI{CLIHandler: app.LibraryCLI, app: app}, app.DocumentCLI, app.ReaderTUI, app.SessionTUI, app.NarrationTUI, app.AnnotationCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	_, err := program.Run()

	// The reading time of a session still open when the program ends is
	// flushed here.
	ctx := context.Background()
	app.NarrationTUI.Stop(ctx)
	if closeErr := app.ReaderTUI.Close(ctx); closeErr != nil {
		app.Logger.Warn("close reader", slog.Any("err", closeErr))
	}
	return err
}

// libraryTUI lets the terminal UI remove entries together with their
// annotations.
type libraryTUI struct {
	libraryinadapter.CLIHandler
	app *App
}

func (l libraryTUI) Remove(ctx context.Context, id string) error {
	return l.app.RemoveEntry(ctx, id)
}
