package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jarvis/internal/modules/task/dto"
	"jarvis/internal/platform/config"
	"jarvis/internal/platform/logging"
)

func TestNewWiresModulesOnOneDatabase(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := config.Config{
		DataDir:        dir,
		DBPath:         filepath.Join(dir, "jarvis.db"),
		ExportDir:      filepath.Join(dir, "exports"),
		GoogleDir:      filepath.Join(dir, "google"),
		Provider:       config.ProviderOllama,
		Model:          "llama3.2",
		OllamaHost:     "http://127.0.0.1:1",
		MaxTokens:      256,
		RequestTimeout: time.Second,
		CalendarID:     "primary",
	}
	app, err := New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer func() { _ = app.Close() }()

	ctx := context.Background()
	added, err := app.TaskCLI.Add(ctx, dto.TaskInput{Description: "Water plants", DurationMinutes: 10})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	tasks, err := app.TaskCLI.List(ctx, 5, true)
	if err != nil || len(tasks) != 1 || tasks[0].ID != added.ID {
		t.Fatalf("unexpected tasks %+v: %v", tasks, err)
	}
	formats := app.ScheduleCLI.Formats()
	if len(formats) != 4 {
		t.Fatalf("expected four export formats, got %v", formats)
	}
	if _, err := app.PreferenceCLI.List(ctx); err != nil {
		t.Fatalf("list preferences: %v", err)
	}
}
