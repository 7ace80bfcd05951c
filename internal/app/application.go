// Package app wires the configuration, clients, event loop and terminal UI
// into one runnable application.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hivecore/hivemon/internal/client"
	"github.com/hivecore/hivemon/internal/config"
	"github.com/hivecore/hivemon/internal/core"
	"github.com/hivecore/hivemon/internal/eventbus"
)

const defaultPollInterval = 2 * time.Second

// Application manages the complete application lifecycle.
type Application struct {
	config  *config.Config
	bus     *eventbus.Bus
	state   *core.State
	service *core.Service
	model   *AppModel
}

// NewApplication loads the active profile and builds the full stack around
// it. The caller owns Start/Stop.
func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.IsValid() {
		return nil, fmt.Errorf("no gateway configured; run `hivemon profile add` first")
	}

	profile := cfg.Current()
	manage := client.NewManage(profile.ManageURL(), profile.AdminToken)
	infer := client.NewInfer(profile.InferURL(), profile.ClientToken)

	state := core.NewState()
	bus := eventbus.NewBus(defaultPollInterval)
	service := core.NewService(state, bus, manage, infer)

	model := &AppModel{
		state:   state,
		bus:     bus,
		target:  profile.ManageURL(),
		spinner: newSpinner(),
	}

	return &Application{
		config:  cfg,
		bus:     bus,
		state:   state,
		service: service,
		model:   model,
	}, nil
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return s
}

// StopAfter arms a supervisory shutdown timer. Used by the --run-for flag for
// scripted runs.
func (app *Application) StopAfter(d time.Duration) {
	app.bus.StopAfter(d)
}

// Start runs the event loop and the UI and blocks until the program exits.
func (app *Application) Start() error {
	p := tea.NewProgram(app.model, tea.WithAltScreen())
	app.service.OnQuit(p.Quit)

	app.bus.StartTicker()
	// Prime the caches without waiting for the first tick.
	_ = app.bus.Publish(eventbus.TickEvent{})
	go app.service.Run()

	_, err := p.Run()
	return err
}

// Stop shuts the producers and the event loop down.
func (app *Application) Stop() {
	app.bus.Stop()
}
