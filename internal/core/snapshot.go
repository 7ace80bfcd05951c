package core

import (
	"sort"

	"github.com/hivecore/hivemon/internal/models"
)

// unauthenticatedWorker is the pseudo-entry the gateway reports for
// connections that have not completed verification. It is shown but never
// selectable.
const unauthenticatedWorker = "Unauthenticated"

// selectableWorkers derives the sorted worker names from a status snapshot.
func selectableWorkers(statuses models.WorkerStatuses) []string {
	if statuses == nil {
		return nil
	}
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		if name != unauthenticatedWorker {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Snapshot is a point-in-time copy of everything the renderer needs. Taking
// one holds the lock only for the copy, never across rendering.
type Snapshot struct {
	ActiveView     View
	Focus          Focus
	SelectedWorker int
	SelectedAction int
	SelectedKey    int
	WorkerNames    []string

	WorkerStatuses    models.WorkerStatuses
	WorkerConnections models.WorkerConnections
	WorkerPings       models.WorkerPings
	WorkerVersions    models.WorkerVersions
	WorkerTags        models.WorkerTags
	QueueMap          models.QueueMap
	AuthKeys          models.AuthKeys

	Panel            ActionPanel
	ConfirmChoice    int
	ActionInProgress bool

	Banners       []string
	ConsoleInput  string
	ConsoleOutput []string
	Logs          []string
}

// Snapshot copies the current state for rendering. Map contents are shared
// with the store but are replaced wholesale on update, never mutated, so the
// renderer can read them without the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	panel := s.panel
	panel.Output = append([]OutputLine(nil), s.panel.Output...)

	return Snapshot{
		ActiveView:     s.activeView,
		Focus:          s.focus,
		SelectedWorker: s.selectedWorker,
		SelectedAction: s.selectedAction,
		SelectedKey:    s.selectedKey,
		WorkerNames:    s.workerNamesLocked(),

		WorkerStatuses:    s.workerStatuses,
		WorkerConnections: s.workerConnections,
		WorkerPings:       s.workerPings,
		WorkerVersions:    s.workerVersions,
		WorkerTags:        s.workerTags,
		QueueMap:          s.queueMap,
		AuthKeys:          append(models.AuthKeys(nil), s.authKeys...),

		Panel:            panel,
		ConfirmChoice:    s.confirmChoice,
		ActionInProgress: s.actionInProgress,

		Banners:       append([]string(nil), s.banners...),
		ConsoleInput:  s.consoleInput,
		ConsoleOutput: append([]string(nil), s.consoleOutput...),
		Logs:          append([]string(nil), s.logs...),
	}
}
