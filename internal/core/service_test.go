package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hivecore/hivemon/internal/eventbus"
	"github.com/hivecore/hivemon/internal/models"
)

type fakeManage struct {
	fail     bool
	statuses models.WorkerStatuses
	queue    models.QueueMap
	keys     models.AuthKeys
}

func (f *fakeManage) check() error {
	if f.fail {
		return errors.New("connection refused")
	}
	return nil
}

func (f *fakeManage) Queue(context.Context) (models.QueueMap, error) {
	return f.queue, f.check()
}

func (f *fakeManage) WorkerStatuses(context.Context) (models.WorkerStatuses, error) {
	return f.statuses, f.check()
}

func (f *fakeManage) WorkerConnections(context.Context) (models.WorkerConnections, error) {
	return models.WorkerConnections{}, f.check()
}

func (f *fakeManage) WorkerPings(context.Context) (models.WorkerPings, error) {
	return models.WorkerPings{}, f.check()
}

func (f *fakeManage) WorkerVersions(context.Context) (models.WorkerVersions, error) {
	return models.WorkerVersions{}, f.check()
}

func (f *fakeManage) WorkerTags(context.Context) (models.WorkerTags, error) {
	return models.WorkerTags{}, f.check()
}

func (f *fakeManage) Keys(context.Context) (models.AuthKeys, error) {
	return f.keys, f.check()
}

type fakeInfer struct {
	fakeStreamer
	reply  string
	genErr error
}

func (f *fakeInfer) Generate(_ context.Context, model, prompt string) (string, error) {
	return f.reply, f.genErr
}

func startService(t *testing.T, state *State, manage ManagementAPI, infer InferenceAPI) (*eventbus.Bus, chan struct{}) {
	t.Helper()
	bus := eventbus.NewBus(time.Hour)
	svc := NewService(state, bus, manage, infer)
	quit := make(chan struct{})
	svc.OnQuit(func() { close(quit) })
	go svc.Run()
	t.Cleanup(bus.Stop)
	return bus, quit
}

func TestTickRefreshesDashboardCaches(t *testing.T) {
	state := NewState()
	manage := &fakeManage{
		statuses: statusesFor("alpha"),
		queue:    models.QueueMap{"llama3": 0},
	}
	bus, _ := startService(t, state, manage, &fakeInfer{})

	require.NoError(t, bus.Publish(eventbus.TickEvent{}))
	require.Eventually(t, func() bool {
		return state.SelectedWorker() == "alpha"
	}, 2*time.Second, 10*time.Millisecond)
	require.Empty(t, state.Banners())
}

func TestTickRefreshesKeysView(t *testing.T) {
	state := NewState()
	for state.ActiveView() != ViewKeys {
		state.NextView()
	}
	manage := &fakeManage{keys: authKeysFixture()}
	bus, _ := startService(t, state, manage, &fakeInfer{})

	require.NoError(t, bus.Publish(eventbus.TickEvent{}))
	require.Eventually(t, func() bool {
		_, ok := state.SelectedKey()
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTickFailureBannersAndKeepsCache(t *testing.T) {
	state := NewState()
	state.SetWorkerStatuses(statusesFor("alpha"))
	manage := &fakeManage{fail: true}
	bus, _ := startService(t, state, manage, &fakeInfer{})

	require.NoError(t, bus.Publish(eventbus.TickEvent{}))
	require.Eventually(t, func() bool {
		return len(state.Banners()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "alpha", state.SelectedWorker(), "stale cache survives a failed poll")
}

func TestQuitKeyStopsLoop(t *testing.T) {
	state := NewState()
	bus, quit := startService(t, state, &fakeManage{}, &fakeInfer{})

	require.NoError(t, bus.Publish(eventbus.InputEvent{Key: "q"}))
	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on quit key")
	}
}

func TestStopEventStopsLoop(t *testing.T) {
	state := NewState()
	bus, quit := startService(t, state, &fakeManage{}, &fakeInfer{})

	bus.Stop()
	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on StopEvent")
	}
}

func TestConsolePromptUsesFirstQueuedModel(t *testing.T) {
	state := NewState()
	state.SetQueueMap(models.QueueMap{
		"zephyr": 0,
		"llama3": 2,
	})
	svc := NewService(state, eventbus.NewBus(time.Hour), &fakeManage{}, &fakeInfer{reply: "hello back"})

	svc.RunConsole("hello")
	require.Eventually(t, func() bool {
		out := state.Snapshot().ConsoleOutput
		for _, line := range out {
			if line == "hello back" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsolePromptWithoutModelsBanners(t *testing.T) {
	state := NewState()
	svc := NewService(state, eventbus.NewBus(time.Hour), &fakeManage{}, &fakeInfer{})

	svc.RunConsole("hello")
	require.Equal(t, []string{"No model is registered with the gateway yet"}, state.Banners())
}
