package core

import (
	"fmt"
	"strings"
)

// Runner is what the controller delegates side effects to: spawning the one
// background action task, running a console prompt, copying to the clipboard.
// The event-loop service implements it; tests substitute fakes.
type Runner interface {
	SpawnAction(kind ActionKind, model, node string)
	RunConsole(prompt string)
	CopyToClipboard(text string) error
}

// Controller advances the action-panel state machine and the rest of the key
// handling. All state access goes through the store's command methods.
type Controller struct {
	state  *State
	runner Runner
}

func NewController(state *State, runner Runner) *Controller {
	return &Controller{state: state, runner: runner}
}

// guardedKeys would move focus or start a new action; they are rejected while
// a task runs and focus is elsewhere, so a running task's target state cannot
// be orphaned. Quit and Escape stay live as escape valves.
var guardedKeys = map[string]bool{
	"tab":       true,
	"shift+tab": true,
	"left":      true,
	"right":     true,
	"enter":     true,
}

// HandleKey processes one key press. It returns true when the application
// should quit.
func (c *Controller) HandleKey(key string) bool {
	if key == "ctrl+c" {
		return true
	}

	switch c.state.FocusRegion() {
	case FocusActionResponse:
		return c.handleResponseKey(key)
	case FocusActionInput:
		c.handleInputKey(key)
		return false
	case FocusActionConfirm:
		c.handleConfirmKey(key)
		return false
	}

	if c.state.ActionInProgress() && guardedKeys[key] {
		c.state.AddBanner("An action is still running; dismiss its panel first")
		return false
	}

	if c.state.ActiveView() == ViewConsole {
		return c.handleConsoleKey(key)
	}
	return c.handleListKey(key)
}

func (c *Controller) handleResponseKey(key string) bool {
	switch key {
	case "up":
		c.state.ScrollOutput(-1)
	case "down":
		c.state.ScrollOutput(1)
	case "q":
		return true
	default:
		// Any other key dismisses, cancelling the task if still running.
		c.state.DismissPanel()
	}
	return false
}

func (c *Controller) handleInputKey(key string) {
	switch key {
	case "esc":
		c.state.CancelToIdle()
	case "enter":
		if !c.state.SubmitInput() {
			c.state.AddBanner("Model name cannot be empty")
		}
	case "backspace":
		c.state.InputBackspace()
	case "left":
		c.state.InputCursorLeft()
	case "right":
		c.state.InputCursorRight()
	default:
		if runes := []rune(key); len(runes) == 1 {
			c.state.InputRune(runes[0])
		}
	}
}

func (c *Controller) handleConfirmKey(key string) {
	switch key {
	case "esc":
		c.state.CancelToIdle()
	case "left":
		c.state.ToggleConfirm(-1)
	case "right":
		c.state.ToggleConfirm(1)
	case "enter":
		node := c.state.SelectedWorker()
		model, kind, proceed := c.state.CommitConfirm()
		if proceed {
			c.runner.SpawnAction(kind, model, node)
		} else {
			c.state.AppendOutputLine("Action cancelled by user.", true)
			c.state.FinishAction(true)
		}
	}
}

func (c *Controller) handleConsoleKey(key string) bool {
	switch key {
	case "enter":
		if prompt := strings.TrimSpace(c.state.ConsoleTakeInput()); prompt != "" {
			c.runner.RunConsole(prompt)
		}
	case "backspace":
		c.state.ConsoleBackspace()
	case "tab":
		c.state.NextView()
	case "shift+tab":
		c.state.PrevView()
	default:
		// Printable keys go into the prompt, including 'd' and 'q';
		// banners are dismissed from any other view.
		if runes := []rune(key); len(runes) == 1 {
			c.state.ConsoleAppendRune(runes[0])
		}
	}
	return false
}

func (c *Controller) handleListKey(key string) bool {
	switch key {
	case "q":
		return true
	case "tab":
		c.state.NextView()
	case "shift+tab":
		c.state.PrevView()
	case "left":
		c.state.FocusLeft()
	case "right":
		c.state.FocusRight()
	case "up":
		c.state.SelectionUp()
	case "down":
		c.state.SelectionDown()
	case "r":
		c.state.ClearCaches()
		c.state.AddBanner("Caches cleared; repolling")
	case "d":
		c.state.DismissBanner()
	case "c":
		if c.state.ActiveView() == ViewKeys {
			c.copySelectedKey()
		}
	case "enter":
		c.handleListEnter()
	}
	return false
}

func (c *Controller) copySelectedKey() {
	k, ok := c.state.SelectedKey()
	if !ok {
		c.state.AddBanner("No key selected")
		return
	}
	if err := c.runner.CopyToClipboard(k.Value); err != nil {
		c.state.AddBanner(fmt.Sprintf("Clipboard error: %v", err))
		return
	}
	c.state.AddBanner(fmt.Sprintf("Copied key %q to clipboard", k.Name))
}

func (c *Controller) handleListEnter() {
	switch c.state.FocusRegion() {
	case FocusWorkerList:
		c.state.FocusRight()
	case FocusActionList:
		worker := c.state.SelectedWorker()
		if worker == "" {
			c.state.AddBanner("No worker selected")
			return
		}
		switch kind := c.state.SelectedAction(); kind {
		case ActionListModels:
			c.state.AddBanner(fmt.Sprintf("Models served by %s are listed in the info panel", worker))
		case ActionPull, ActionDelete:
			c.state.BeginActionInput(kind)
		}
	}
}
