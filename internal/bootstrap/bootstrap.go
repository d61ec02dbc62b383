package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	completioninadapter "jarvis/internal/modules/completion/adapter/in"
	completionoutadapter "jarvis/internal/modules/completion/adapter/out"
	completionout "jarvis/internal/modules/completion/port/out"
	completionservice "jarvis/internal/modules/completion/service"
	completionusecase "jarvis/internal/modules/completion/usecase"
	preferenceinadapter "jarvis/internal/modules/preference/adapter/in"
	preferenceoutadapter "jarvis/internal/modules/preference/adapter/out"
	preferenceservice "jarvis/internal/modules/preference/service"
	preferenceusecase "jarvis/internal/modules/preference/usecase"
	scheduleinadapter "jarvis/internal/modules/schedule/adapter/in"
	scheduleoutadapter "jarvis/internal/modules/schedule/adapter/out"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	scheduleservice "jarvis/internal/modules/schedule/service"
	scheduleusecase "jarvis/internal/modules/schedule/usecase"
	taskinadapter "jarvis/internal/modules/task/adapter/in"
	taskoutadapter "jarvis/internal/modules/task/adapter/out"
	taskservice "jarvis/internal/modules/task/service"
	taskusecase "jarvis/internal/modules/task/usecase"
	"jarvis/internal/platform/clock"
	"jarvis/internal/platform/config"
	"jarvis/internal/platform/googleauth"
	"jarvis/internal/platform/id"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
	uiapp "jarvis/internal/ui/app"
)

type App struct {
	CompletionCLI completioninadapter.CLIHandler
	TaskCLI       taskinadapter.CLIHandler
	ScheduleCLI   scheduleinadapter.CLIHandler
	PreferenceCLI preferenceinadapter.CLIHandler

	google googleauth.Store
	db     *sql.DB
}

// New opens the database and wires every module. The caller owns the App and
// must Close it.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.NewULID()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	app, err := wire(cfg, logger, db, clk, ids)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func wire(cfg config.Config, logger *slog.Logger, db *sql.DB, clk clock.Clock, ids id.Generator) (*App, error) {
	txm := tx.NewSQLManager(db)

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	interactions, err := completionoutadapter.NewSQLiteInteractionStore(db)
	if err != nil {
		return nil, fmt.Errorf("new interaction store: %w", err)
	}
	completionUC := completionusecase.NewInteractor(completionservice.NewCompletionService(
		clk, ids, provider, interactions,
		completionservice.Defaults{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature, Timeout: cfg.RequestTimeout},
		logger.With("module", "completion"),
	))

	prefStore, err := preferenceoutadapter.NewSQLitePreferenceStore(db)
	if err != nil {
		return nil, fmt.Errorf("new preference store: %w", err)
	}
	preferenceUC := preferenceusecase.NewInteractor(preferenceservice.NewPreferenceService(clk, ids, prefStore, prefStore))

	tasks, err := taskoutadapter.NewSQLiteTaskStore(db)
	if err != nil {
		return nil, fmt.Errorf("new task store: %w", err)
	}
	analyses, err := taskoutadapter.NewSQLiteAnalysisStore(db)
	if err != nil {
		return nil, fmt.Errorf("new analysis store: %w", err)
	}
	taskUC := taskusecase.NewInteractor(taskservice.NewTaskService(
		clk, ids, tasks, analyses,
		taskoutadapter.NewCompletionAdapter(completionUC),
		taskoutadapter.NewPreferenceAdapter(preferenceUC),
		txm,
		logger.With("module", "task"),
	))

	schedules, err := scheduleoutadapter.NewSQLiteScheduleStore(db)
	if err != nil {
		return nil, fmt.Errorf("new schedule store: %w", err)
	}
	recurring, err := scheduleoutadapter.NewSQLiteRecurringStore(db)
	if err != nil {
		return nil, fmt.Errorf("new recurring store: %w", err)
	}
	artifacts, err := scheduleoutadapter.NewLocalArtifactStore(cfg.ExportDir)
	if err != nil {
		return nil, err
	}
	google := googleauth.Store{Dir: cfg.GoogleDir}
	publisher := scheduleoutadapter.NewGoogleCalendarPublisher(func(ctx context.Context) (*calendar.Service, error) {
		client, err := google.Client(ctx)
		if err != nil {
			return nil, err
		}
		return calendar.NewService(ctx, option.WithHTTPClient(client))
	}, cfg.CalendarID, time.Local)
	scheduleUC := scheduleusecase.NewInteractor(scheduleservice.NewScheduleService(
		clk, ids, schedules, recurring,
		scheduleoutadapter.NewCompletionAdapter(completionUC),
		scheduleoutadapter.NewPreferenceAdapter(preferenceUC),
		scheduleoutadapter.NewTaskAdapter(taskUC),
		[]scheduleout.Exporter{
			scheduleoutadapter.NewICSExporter(clk.Now),
			scheduleoutadapter.NewHTMLExporter(),
			scheduleoutadapter.NewTextExporter(),
			scheduleoutadapter.NewMarkdownExporter(),
		},
		artifacts,
		publisher,
		txm,
		logger.With("module", "schedule"),
	))

	return &App{
		CompletionCLI: completioninadapter.NewCLIHandler(completionUC),
		TaskCLI:       taskinadapter.NewCLIHandler(taskUC),
		ScheduleCLI:   scheduleinadapter.NewCLIHandler(scheduleUC),
		PreferenceCLI: preferenceinadapter.NewCLIHandler(preferenceUC),
		google:        google,
		db:            db,
	}, nil
}

func newProvider(cfg config.Config) (completionout.Provider, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	switch cfg.Provider {
	case config.ProviderOllama:
		return completionoutadapter.NewOllamaProvider(cfg.OllamaHost, cfg.Model, httpClient)
	default:
		return completionoutadapter.NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, httpClient), nil
	}
}

// AuthorizeCalendar runs the Google consent flow and stores the token.
func (a *App) AuthorizeCalendar(ctx context.Context, w io.Writer) error {
	return a.google.Authorize(ctx, w)
}

func (a *App) Close() error {
	return a.db.Close()
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(ctx, app.TaskCLI, app.ScheduleCLI, app.CompletionCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
