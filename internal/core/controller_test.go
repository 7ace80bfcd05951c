package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type spawnCall struct {
	kind  ActionKind
	model string
	node  string
}

type fakeRunner struct {
	spawned []spawnCall
	prompts []string
	copied  []string
	copyErr error
}

func (f *fakeRunner) SpawnAction(kind ActionKind, model, node string) {
	f.spawned = append(f.spawned, spawnCall{kind: kind, model: model, node: node})
}

func (f *fakeRunner) RunConsole(prompt string) {
	f.prompts = append(f.prompts, prompt)
}

func (f *fakeRunner) CopyToClipboard(text string) error {
	f.copied = append(f.copied, text)
	return f.copyErr
}

func press(c *Controller, keys ...string) {
	for _, k := range keys {
		c.HandleKey(k)
	}
}

func newTestController(t *testing.T) (*Controller, *State, *fakeRunner) {
	t.Helper()
	state := NewState()
	runner := &fakeRunner{}
	return NewController(state, runner), state, runner
}

func TestPullWorkflowSpawnsTask(t *testing.T) {
	c, state, runner := newTestController(t)
	state.SetWorkerStatuses(statusesFor("worker1"))

	// Workers list -> action list -> "Pull model" -> type the name -> confirm.
	press(c, "right", "down", "enter")
	require.Equal(t, FocusActionInput, state.FocusRegion())

	press(c, "l", "l", "a", "m", "a", "3", "enter")
	require.Equal(t, FocusActionConfirm, state.FocusRegion())
	require.Equal(t, ConfirmProceed, state.ConfirmChoice())

	press(c, "enter")
	require.Equal(t, []spawnCall{{kind: ActionPull, model: "llama3", node: "worker1"}}, runner.spawned)
	require.Equal(t, PanelResponse, state.Panel().State)
	require.True(t, state.ActionInProgress())
}

func TestEmptyModelNameRejected(t *testing.T) {
	c, state, runner := newTestController(t)
	state.SetWorkerStatuses(statusesFor("worker1"))

	press(c, "right", "down", "enter", "enter")
	require.Equal(t, FocusActionInput, state.FocusRegion(), "no transition on empty name")
	require.Equal(t, []string{"Model name cannot be empty"}, state.Banners())
	require.Empty(t, runner.spawned)
}

func TestConfirmAbortRecordsCancellationLine(t *testing.T) {
	c, state, runner := newTestController(t)
	state.SetWorkerStatuses(statusesFor("worker1"))

	press(c, "right", "down", "down", "enter")
	press(c, "o", "l", "d", "enter")
	press(c, "right", "enter") // toggle to abort, commit

	require.Empty(t, runner.spawned, "abort must not reach the network")
	require.False(t, state.ActionInProgress())
	require.Equal(t, []string{"Action cancelled by user."}, state.OutputLines())
	require.True(t, state.Panel().Success)
}

func TestActionListEnterWithoutWorkerBanners(t *testing.T) {
	c, state, runner := newTestController(t)

	press(c, "right", "down", "enter")
	require.Equal(t, FocusActionList, state.FocusRegion())
	require.Equal(t, []string{"No worker selected"}, state.Banners())
	require.Empty(t, runner.spawned)
}

func TestEscapeBacksOutOfInputAndConfirm(t *testing.T) {
	c, state, _ := newTestController(t)
	state.SetWorkerStatuses(statusesFor("worker1"))

	press(c, "right", "down", "enter", "esc")
	require.Equal(t, PanelIdle, state.Panel().State)
	require.Equal(t, FocusActionList, state.FocusRegion())

	press(c, "enter", "m", "enter", "esc")
	require.Equal(t, PanelIdle, state.Panel().State)
	require.Equal(t, FocusActionList, state.FocusRegion())
}

func TestGuardRejectsKeysWhileActionRuns(t *testing.T) {
	c, state, runner := newTestController(t)
	state.SetWorkerStatuses(statusesFor("worker1"))

	press(c, "right", "down", "enter")
	press(c, "m", "enter", "enter")
	require.True(t, state.ActionInProgress())
	require.Len(t, runner.spawned, 1)

	// Force focus away from the response panel so the guard is the only
	// thing standing between the operator and a second action.
	state.mu.Lock()
	state.focus = FocusActionList
	state.mu.Unlock()

	before := state.Snapshot()
	for _, key := range []string{"tab", "shift+tab", "left", "right", "enter"} {
		press(c, key)
	}
	after := state.Snapshot()

	require.Len(t, runner.spawned, 1, "no second task")
	require.Equal(t, before.ActiveView, after.ActiveView)
	require.Equal(t, before.Focus, after.Focus)
	require.Equal(t, before.Panel.State, after.Panel.State)
	require.Equal(t, []string{"An action is still running; dismiss its panel first"}, after.Banners)
}

func TestResponsePanelScrollAndDismiss(t *testing.T) {
	c, state, _ := newTestController(t)
	state.SetWorkerStatuses(statusesFor("worker1"))

	press(c, "right", "down", "enter", "m", "enter", "enter")
	state.AppendOutputLine("line one", true)
	state.AppendOutputLine("line two", true)

	press(c, "down", "down", "up")
	require.Equal(t, 1, state.Panel().Scroll)

	press(c, "esc")
	require.Equal(t, PanelIdle, state.Panel().State)
	require.Equal(t, FocusActionList, state.FocusRegion())
}

func TestQuitKeys(t *testing.T) {
	c, state, _ := newTestController(t)

	require.True(t, c.HandleKey("ctrl+c"))
	require.True(t, c.HandleKey("q"))

	// "q" in the response panel also quits, leaving the task to the
	// application teardown.
	state.BeginActionInput(ActionPull)
	state.InputRune('m')
	state.SubmitInput()
	state.CommitConfirm()
	require.True(t, c.HandleKey("q"))
}

func TestRefreshClearsCachesAndBanners(t *testing.T) {
	c, state, _ := newTestController(t)
	state.SetWorkerStatuses(statusesFor("worker1"))

	press(c, "r")
	require.Equal(t, "", state.SelectedWorker())
	require.Equal(t, []string{"Caches cleared; repolling"}, state.Banners())

	press(c, "d")
	require.Empty(t, state.Banners())
}

func TestConsoleKeysReachRunner(t *testing.T) {
	c, state, runner := newTestController(t)
	for state.ActiveView() != ViewConsole {
		press(c, "tab")
	}

	press(c, "h", "i", "enter")
	require.Equal(t, []string{"hi"}, runner.prompts)
	require.Equal(t, "", state.ConsoleInput(), "submit clears the buffer")

	press(c, "x", "backspace", "enter")
	require.Len(t, runner.prompts, 1, "blank prompt is dropped")
}

func TestCopyKeyOnKeysView(t *testing.T) {
	c, state, runner := newTestController(t)
	state.SetAuthKeys(authKeysFixture())
	for state.ActiveView() != ViewKeys {
		press(c, "tab")
	}

	press(c, "c")
	require.Equal(t, []string{"tok-1"}, runner.copied)
	require.Equal(t, []string{`Copied key "ci" to clipboard`}, state.Banners())
}
