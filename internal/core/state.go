// Package core holds the shared application state, the action-panel state
// machine, the background task manager and the event loop that ties them
// together.
package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/hivecore/hivemon/internal/models"
)

// View is one of the top-level screens.
type View int

const (
	ViewDashboard View = iota
	ViewNodes
	ViewQueues
	ViewKeys
	ViewConsole
	ViewLogs
)

// AllViews lists the views in tab order.
var AllViews = []View{ViewDashboard, ViewNodes, ViewQueues, ViewKeys, ViewConsole, ViewLogs}

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewNodes:
		return "Nodes"
	case ViewQueues:
		return "Queues"
	case ViewKeys:
		return "Keys"
	case ViewConsole:
		return "Console"
	case ViewLogs:
		return "Logs"
	}
	return "Unknown"
}

// Focus determines which pane interprets keyboard input.
type Focus int

const (
	FocusWorkerList Focus = iota
	FocusActionList
	FocusGlobalPane
	FocusActionInput
	FocusActionConfirm
	FocusActionResponse
)

// ActionKind is the remote operation an action panel drives.
type ActionKind int

const (
	ActionListModels ActionKind = iota
	ActionPull
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionListModels:
		return "List models"
	case ActionPull:
		return "Pull model"
	case ActionDelete:
		return "Delete model"
	}
	return "Unknown"
}

// Verb returns the short verb used in panel titles and summary lines.
func (k ActionKind) Verb() string {
	switch k {
	case ActionPull:
		return "pull"
	case ActionDelete:
		return "delete"
	}
	return "run"
}

// WorkerActions is the fixed action list shown next to the workers list.
var WorkerActions = []ActionKind{ActionListModels, ActionPull, ActionDelete}

// PanelState tags the action panel variant.
type PanelState int

const (
	PanelIdle PanelState = iota
	PanelInput
	PanelConfirm
	PanelResponse
)

// OutputLine is one appended line of action output.
type OutputLine struct {
	Text string
	OK   bool
}

// ActionPanel is the multi-step action workflow state. Its lifecycle is owned
// by the controller; fields are only touched through State methods.
type ActionPanel struct {
	State  PanelState
	Kind   ActionKind
	Model  string
	Input  string
	Cursor int

	// Placeholder is rendered while Output is still empty, so the operator
	// sees immediate feedback without polluting the append-only output.
	Placeholder string
	Output      []OutputLine
	Success     bool
	Scroll      int
}

const maxLogLines = 200

// ConfirmProceed and ConfirmAbort are the two confirmation choices.
const (
	ConfirmProceed = 0
	ConfirmAbort   = 1
)

// State is the single shared mutable container. Every access goes through a
// command method that scopes the lock; no method performs network I/O or
// sleeps while holding it.
type State struct {
	mu sync.Mutex

	activeView     View
	focus          Focus
	selectedWorker int
	selectedAction int
	selectedKey    int

	workerStatuses    models.WorkerStatuses
	workerConnections models.WorkerConnections
	workerPings       models.WorkerPings
	workerVersions    models.WorkerVersions
	workerTags        models.WorkerTags
	queueMap          models.QueueMap
	authKeys          models.AuthKeys

	panel            ActionPanel
	confirmChoice    int
	actionInProgress bool
	cancelTask       context.CancelFunc

	banners       []string
	consoleInput  string
	consoleOutput []string
	logs          []string
}

// NewState returns a State in its initial configuration: Dashboard view,
// focus on the workers list, empty caches.
func NewState() *State {
	return &State{
		activeView: ViewDashboard,
		focus:      FocusWorkerList,
	}
}

// --- views and focus ---

// ActiveView returns the current screen.
func (s *State) ActiveView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeView
}

// NextView cycles to the next tab. Switching views never resets other state.
func (s *State) NextView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeView = AllViews[(int(s.activeView)+1)%len(AllViews)]
}

// PrevView cycles to the previous tab.
func (s *State) PrevView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeView = AllViews[(int(s.activeView)+len(AllViews)-1)%len(AllViews)]
}

// FocusRegion returns the pane that currently interprets input.
func (s *State) FocusRegion() Focus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// FocusRight cycles WorkerList -> ActionList -> GlobalPane -> WorkerList.
// Panel focus regions are not reachable this way.
func (s *State) FocusRight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.focus {
	case FocusWorkerList:
		s.focus = FocusActionList
	case FocusActionList:
		s.focus = FocusGlobalPane
	case FocusGlobalPane:
		s.focus = FocusWorkerList
	}
}

// FocusLeft is the inverse of FocusRight, saturating at the workers list.
func (s *State) FocusLeft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.focus {
	case FocusActionList:
		s.focus = FocusWorkerList
	case FocusGlobalPane:
		s.focus = FocusActionList
	}
}

// SelectionUp moves the cursor of the focused list up by one.
func (s *State) SelectionUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.activeView == ViewKeys:
		if s.selectedKey > 0 {
			s.selectedKey--
		}
	case s.focus == FocusWorkerList:
		if s.selectedWorker > 0 {
			s.selectedWorker--
		}
	case s.focus == FocusActionList:
		if s.selectedAction > 0 {
			s.selectedAction--
		}
	}
}

// SelectionDown moves the cursor of the focused list down by one, clamped to
// the list length.
func (s *State) SelectionDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.activeView == ViewKeys:
		if s.selectedKey < len(s.authKeys)-1 {
			s.selectedKey++
		}
	case s.focus == FocusWorkerList:
		if s.selectedWorker < len(s.workerNamesLocked())-1 {
			s.selectedWorker++
		}
	case s.focus == FocusActionList:
		if s.selectedAction < len(WorkerActions)-1 {
			s.selectedAction++
		}
	}
}

// SelectedWorker returns the name of the selected worker, or "" when the
// worker list is empty or not yet fetched.
func (s *State) SelectedWorker() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := s.workerNamesLocked()
	if s.selectedWorker >= len(names) {
		return ""
	}
	return names[s.selectedWorker]
}

// SelectedAction returns the highlighted worker action.
func (s *State) SelectedAction() ActionKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WorkerActions[s.selectedAction]
}

// SelectedKey returns the highlighted auth key, if any.
func (s *State) SelectedKey() (models.AuthKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedKey >= len(s.authKeys) {
		return models.AuthKey{}, false
	}
	return s.authKeys[s.selectedKey], true
}

// workerNamesLocked derives the sorted, selectable worker names. The
// "Unauthenticated" pseudo-worker is excluded. Callers hold the lock.
func (s *State) workerNamesLocked() []string {
	return selectableWorkers(s.workerStatuses)
}

// --- cached snapshots ---

// SetWorkerStatuses replaces the status cache and clamps the worker cursor to
// the shrunk list.
func (s *State) SetWorkerStatuses(v models.WorkerStatuses) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerStatuses = v
	if n := len(s.workerNamesLocked()); s.selectedWorker >= n {
		s.selectedWorker = max(0, n-1)
	}
}

func (s *State) SetWorkerConnections(v models.WorkerConnections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerConnections = v
}

func (s *State) SetWorkerPings(v models.WorkerPings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerPings = v
}

func (s *State) SetWorkerVersions(v models.WorkerVersions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerVersions = v
}

func (s *State) SetWorkerTags(v models.WorkerTags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerTags = v
}

func (s *State) SetQueueMap(v models.QueueMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueMap = v
}

// SetAuthKeys replaces the key cache and clamps the key cursor.
func (s *State) SetAuthKeys(v models.AuthKeys) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authKeys = v
	if s.selectedKey >= len(v) {
		s.selectedKey = max(0, len(v)-1)
	}
}

// ClearCaches drops every cached snapshot, cancels any pending task and
// resets the action panel. Used on profile switch and manual refresh.
func (s *State) ClearCaches() {
	s.mu.Lock()
	cancel := s.cancelTask
	s.cancelTask = nil
	s.actionInProgress = false
	s.workerStatuses = nil
	s.workerConnections = nil
	s.workerPings = nil
	s.workerVersions = nil
	s.workerTags = nil
	s.queueMap = nil
	s.authKeys = nil
	s.consoleOutput = nil
	s.consoleInput = ""
	s.panel = ActionPanel{}
	if s.focus == FocusActionInput || s.focus == FocusActionConfirm || s.focus == FocusActionResponse {
		s.focus = FocusActionList
	}
	s.mu.Unlock()

	// Invoke the handle outside the lock; the task's own writes take the
	// lock on their path.
	if cancel != nil {
		cancel()
	}
}

// --- banners and logs ---

// AddBanner enqueues a user-facing message. A message identical to the most
// recently queued one is suppressed so tick-poll failures do not flood the
// queue. Every banner is also recorded on the log ring.
func (s *State) AddBanner(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logLocked(msg)
	if n := len(s.banners); n > 0 && s.banners[n-1] == msg {
		return
	}
	s.banners = append(s.banners, msg)
}

// DismissBanner removes the oldest banner.
func (s *State) DismissBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.banners) > 0 {
		s.banners = s.banners[1:]
	}
}

// Banners returns a copy of the pending banner queue, oldest first.
func (s *State) Banners() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.banners))
	copy(out, s.banners)
	return out
}

func (s *State) logLocked(msg string) {
	s.logs = append(s.logs, msg)
	if len(s.logs) > maxLogLines {
		s.logs = s.logs[len(s.logs)-maxLogLines:]
	}
}

// --- console ---

func (s *State) ConsoleInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consoleInput
}

func (s *State) ConsoleAppendRune(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consoleInput += string(r)
}

func (s *State) ConsoleBackspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.consoleInput) > 0 {
		runes := []rune(s.consoleInput)
		s.consoleInput = string(runes[:len(runes)-1])
	}
}

// ConsoleTakeInput returns the trimmed console buffer and clears it.
func (s *State) ConsoleTakeInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	input := s.consoleInput
	s.consoleInput = ""
	return input
}

func (s *State) SetConsoleOutput(lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consoleOutput = lines
}

// --- action panel ---

// Panel returns a copy of the action panel, including its output lines.
func (s *State) Panel() ActionPanel {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.panel
	p.Output = append([]OutputLine(nil), s.panel.Output...)
	return p
}

// OutputLines returns just the text of the panel's output lines.
func (s *State) OutputLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.panel.Output))
	for i, l := range s.panel.Output {
		out[i] = l.Text
	}
	return out
}

// ConfirmChoice returns the current confirmation selection.
func (s *State) ConfirmChoice() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmChoice
}

// ActionInProgress reports whether a background action is still running.
func (s *State) ActionInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actionInProgress
}

// BeginActionInput enters AwaitingInput for kind, resetting the input buffer
// and cursor.
func (s *State) BeginActionInput(kind ActionKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panel = ActionPanel{State: PanelInput, Kind: kind}
	s.focus = FocusActionInput
}

// InputRune inserts r at the input cursor.
func (s *State) InputRune(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelInput {
		return
	}
	runes := []rune(s.panel.Input)
	runes = append(runes[:s.panel.Cursor], append([]rune{r}, runes[s.panel.Cursor:]...)...)
	s.panel.Input = string(runes)
	s.panel.Cursor++
}

// InputBackspace deletes the rune before the cursor.
func (s *State) InputBackspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelInput || s.panel.Cursor == 0 {
		return
	}
	runes := []rune(s.panel.Input)
	runes = append(runes[:s.panel.Cursor-1], runes[s.panel.Cursor:]...)
	s.panel.Input = string(runes)
	s.panel.Cursor--
}

// InputCursorLeft and InputCursorRight move the input cursor.
func (s *State) InputCursorLeft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State == PanelInput && s.panel.Cursor > 0 {
		s.panel.Cursor--
	}
}

func (s *State) InputCursorRight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State == PanelInput && s.panel.Cursor < len([]rune(s.panel.Input)) {
		s.panel.Cursor++
	}
}

// SubmitInput moves AwaitingInput to AwaitingConfirmation when the buffer is
// non-empty, defaulting the choice to proceed. It reports whether the
// transition happened.
func (s *State) SubmitInput() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelInput || s.panel.Input == "" {
		return false
	}
	s.panel.State = PanelConfirm
	s.panel.Model = s.panel.Input
	s.confirmChoice = ConfirmProceed
	s.focus = FocusActionConfirm
	return true
}

// ToggleConfirm flips the confirmation choice. With exactly two choices a
// press in either direction lands on the other value, clamped at the edges.
func (s *State) ToggleConfirm(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelConfirm {
		return
	}
	choice := s.confirmChoice + delta
	if choice < ConfirmProceed {
		choice = ConfirmProceed
	}
	if choice > ConfirmAbort {
		choice = ConfirmAbort
	}
	s.confirmChoice = choice
}

// CommitConfirm leaves AwaitingConfirmation for Running/Response. It returns
// the model, kind and whether the operator chose to proceed; the caller
// spawns the task on proceed. On proceed a placeholder is set for the renderer
// to show until the first real output line arrives.
func (s *State) CommitConfirm() (model string, kind ActionKind, proceed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelConfirm {
		return "", 0, false
	}
	model = s.panel.Model
	kind = s.panel.Kind
	proceed = s.confirmChoice == ConfirmProceed

	s.panel.State = PanelResponse
	s.panel.Output = nil
	s.panel.Success = true
	s.panel.Scroll = 0
	s.focus = FocusActionResponse
	if proceed {
		s.actionInProgress = true
		s.panel.Placeholder = fmt.Sprintf("Starting %s of %s...", kind.Verb(), model)
		s.logLocked(s.panel.Placeholder)
	}
	return model, kind, proceed
}

// AppendOutputLine appends one line of task output. Appends are ignored once
// the panel has left the Response state, so a cancelled or dismissed action
// can never write into a later panel.
func (s *State) AppendOutputLine(text string, ok bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelResponse {
		return false
	}
	s.panel.Output = append(s.panel.Output, OutputLine{Text: text, OK: ok})
	if !ok {
		s.panel.Success = false
	}
	s.logLocked(text)
	return true
}

// FinishAction records the task's overall outcome and clears the in-progress
// flag, dropping the cancel handle. The Response panel stays visible until
// dismissed.
func (s *State) FinishAction(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State == PanelResponse && !success {
		s.panel.Success = false
	}
	s.actionInProgress = false
	s.cancelTask = nil
}

// DismissPanel leaves the Response state, cancelling the task if it is still
// running, and returns focus to the action list.
func (s *State) DismissPanel() {
	s.mu.Lock()
	cancel := s.cancelTask
	s.cancelTask = nil
	s.actionInProgress = false
	s.panel = ActionPanel{}
	s.confirmChoice = ConfirmProceed
	s.focus = FocusActionList
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// CancelToIdle aborts AwaitingInput or AwaitingConfirmation back to Idle.
func (s *State) CancelToIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelInput && s.panel.State != PanelConfirm {
		return
	}
	s.panel = ActionPanel{}
	s.confirmChoice = ConfirmProceed
	s.focus = FocusActionList
}

// SetPendingTask stores the cancellation handle of the one in-flight task.
func (s *State) SetPendingTask(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTask = cancel
}

// ScrollOutput adjusts the response panel scroll offset.
func (s *State) ScrollOutput(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.State != PanelResponse {
		return
	}
	s.panel.Scroll += delta
	if s.panel.Scroll < 0 {
		s.panel.Scroll = 0
	}
	if n := len(s.panel.Output); s.panel.Scroll > n {
		s.panel.Scroll = n
	}
}
