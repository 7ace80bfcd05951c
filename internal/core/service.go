package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/hivecore/hivemon/internal/eventbus"
	"github.com/hivecore/hivemon/internal/models"
)

// ManagementAPI is the slice of the gateway's management surface the polling
// loop consumes.
type ManagementAPI interface {
	Queue(ctx context.Context) (models.QueueMap, error)
	WorkerStatuses(ctx context.Context) (models.WorkerStatuses, error)
	WorkerConnections(ctx context.Context) (models.WorkerConnections, error)
	WorkerPings(ctx context.Context) (models.WorkerPings, error)
	WorkerVersions(ctx context.Context) (models.WorkerVersions, error)
	WorkerTags(ctx context.Context) (models.WorkerTags, error)
	Keys(ctx context.Context) (models.AuthKeys, error)
}

// InferenceAPI is the inference surface: action streams plus chat completion
// for the console.
type InferenceAPI interface {
	ActionStreamer
	Generate(ctx context.Context, model, prompt string) (string, error)
}

const pollTimeout = 10 * time.Second

// Service owns the event loop. It consumes the merged bus stream, feeds key
// presses to the controller, refreshes caches on ticks and implements the
// controller's Runner side effects.
type Service struct {
	state  *State
	bus    *eventbus.Bus
	manage ManagementAPI
	infer  InferenceAPI
	tasks  *TaskManager

	controller *Controller

	// quit tells the UI layer to shut down. Set before Run.
	quit func()
}

// NewService wires the event loop around the shared state and API clients.
func NewService(state *State, bus *eventbus.Bus, manage ManagementAPI, infer InferenceAPI) *Service {
	s := &Service{
		state:  state,
		bus:    bus,
		manage: manage,
		infer:  infer,
		tasks:  NewTaskManager(state, infer),
	}
	s.controller = NewController(state, s)
	return s
}

// OnQuit registers the callback invoked when the loop decides to exit.
func (s *Service) OnQuit(fn func()) {
	s.quit = fn
}

// Run consumes the bus until StopEvent. Call it on its own goroutine; it is
// the only consumer of the merged stream.
func (s *Service) Run() {
	for ev := range s.bus.Events() {
		switch ev := ev.(type) {
		case eventbus.InputEvent:
			if s.controller.HandleKey(ev.Key) {
				s.shutdown()
				return
			}
		case eventbus.TickEvent:
			s.poll()
		case eventbus.StopEvent:
			s.shutdown()
			return
		}
	}
}

func (s *Service) shutdown() {
	s.bus.Stop()
	if s.quit != nil {
		s.quit()
	}
}

// poll refreshes the caches the active view depends on. A failed fetch keeps
// the previous cache and raises a banner; the dedup in AddBanner keeps a dead
// gateway from flooding the queue.
func (s *Service) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	switch s.state.ActiveView() {
	case ViewDashboard, ViewNodes, ViewConsole:
		s.pollWorkers(ctx)
	case ViewQueues:
		if q, err := s.manage.Queue(ctx); err != nil {
			s.state.AddBanner(fmt.Sprintf("Failed to fetch queue: %v", err))
		} else {
			s.state.SetQueueMap(q)
		}
	case ViewKeys:
		if keys, err := s.manage.Keys(ctx); err != nil {
			s.state.AddBanner(fmt.Sprintf("Failed to fetch keys: %v", err))
		} else {
			s.state.SetAuthKeys(keys)
		}
	}
}

func (s *Service) pollWorkers(ctx context.Context) {
	if v, err := s.manage.WorkerStatuses(ctx); err != nil {
		s.state.AddBanner(fmt.Sprintf("Failed to fetch worker status: %v", err))
	} else {
		s.state.SetWorkerStatuses(v)
	}
	if v, err := s.manage.WorkerConnections(ctx); err != nil {
		s.state.AddBanner(fmt.Sprintf("Failed to fetch worker connections: %v", err))
	} else {
		s.state.SetWorkerConnections(v)
	}
	if v, err := s.manage.WorkerPings(ctx); err != nil {
		s.state.AddBanner(fmt.Sprintf("Failed to fetch worker pings: %v", err))
	} else {
		s.state.SetWorkerPings(v)
	}
	if v, err := s.manage.WorkerVersions(ctx); err != nil {
		s.state.AddBanner(fmt.Sprintf("Failed to fetch worker versions: %v", err))
	} else {
		s.state.SetWorkerVersions(v)
	}
	if v, err := s.manage.WorkerTags(ctx); err != nil {
		s.state.AddBanner(fmt.Sprintf("Failed to fetch worker tags: %v", err))
	} else {
		s.state.SetWorkerTags(v)
	}
	if q, err := s.manage.Queue(ctx); err != nil {
		s.state.AddBanner(fmt.Sprintf("Failed to fetch queue: %v", err))
	} else {
		s.state.SetQueueMap(q)
	}
}

// SpawnAction starts the confirmed model action on a background task.
func (s *Service) SpawnAction(kind ActionKind, model, node string) {
	s.tasks.Spawn(kind, model, node)
}

// RunConsole sends a prompt through the inference API using the first model
// known to the gateway. The response replaces the console output pane.
func (s *Service) RunConsole(prompt string) {
	model := s.firstQueuedModel()
	if model == "" {
		s.state.AddBanner("No model is registered with the gateway yet")
		return
	}
	s.state.SetConsoleOutput([]string{fmt.Sprintf("> %s", prompt), "...thinking..."})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		answer, err := s.infer.Generate(ctx, model, prompt)
		if err != nil {
			s.state.SetConsoleOutput([]string{fmt.Sprintf("> %s", prompt)})
			s.state.AddBanner(fmt.Sprintf("Console request failed: %v", err))
			return
		}
		lines := append([]string{fmt.Sprintf("> %s", prompt), ""}, strings.Split(answer, "\n")...)
		s.state.SetConsoleOutput(lines)
	}()
}

// firstQueuedModel picks the lexically first name from the queue cache.
func (s *Service) firstQueuedModel() string {
	snap := s.state.Snapshot()
	names := make([]string, 0, len(snap.QueueMap))
	for name := range snap.QueueMap {
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

// CopyToClipboard places text on the system clipboard.
func (s *Service) CopyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
