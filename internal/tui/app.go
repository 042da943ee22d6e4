package tui

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/debugtap/debugtap/internal/capture"
	"github.com/debugtap/debugtap/internal/config"
	"github.com/debugtap/debugtap/internal/logging"
)

// App wraps the Bubbletea program and the capture engine feeding it.
type App struct {
	program *tea.Program
	engine  *capture.Engine
	logger  *logging.Logger
	cfg     *config.Config
}

// New creates a viewer application around an engine.
func New(engine *capture.Engine, cfg *config.Config, logger *logging.Logger) *App {
	return &App{
		engine: engine,
		logger: logger,
		cfg:    cfg,
	}
}

// Run starts capture, runs the viewer until quit, and stops capture before
// returning. The engine's sink forwards each message into the Bubbletea
// event loop; the model itself never touches the engine.
func (a *App) Run() error {
	model := NewModel(a.cfg.TUI.MaxMessages)
	a.program = tea.NewProgram(model, tea.WithAltScreen())

	err := a.engine.Start(func(pid uint32, text string) {
		a.program.Send(captureMsg{PID: pid, Text: text})
	})
	if err != nil {
		if errors.Is(err, capture.ErrAlreadyCaptured) {
			return fmt.Errorf("another debug-output listener is already running: %w", err)
		}
		return err
	}
	defer func() {
		if err := a.engine.Stop(); err != nil {
			a.logger.Error("stopping capture", "error", err)
		}
	}()

	// Forward termination signals as a quit so the deferred Stop still runs
	// and the kernel objects are released.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	a.logger.Info("viewer started", "backlog", a.cfg.TUI.MaxMessages)
	_, err = a.program.Run()
	return err
}
