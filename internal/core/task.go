package core

import (
	"context"
	"fmt"
	"io"

	"github.com/hivecore/hivemon/internal/ingest"
)

// ActionStreamer opens the remote NDJSON stream for a model action. The
// stream must be bound to ctx so cancelling it aborts the read.
type ActionStreamer interface {
	PullModel(ctx context.Context, model, node string) (io.ReadCloser, error)
	DeleteModel(ctx context.Context, model, node string) (io.ReadCloser, error)
}

// TaskManager spawns the single background task that executes a confirmed
// action and streams its output into the shared state. The controller only
// spawns from the AwaitingConfirmation commit, so at most one task is ever
// outstanding.
type TaskManager struct {
	state    *State
	streamer ActionStreamer
}

func NewTaskManager(state *State, streamer ActionStreamer) *TaskManager {
	return &TaskManager{state: state, streamer: streamer}
}

// Spawn starts the background task and stores its cancellation handle in the
// state. Invoking the handle stops the task at its next suspension point
// without any further writes.
func (tm *TaskManager) Spawn(kind ActionKind, model, node string) {
	ctx, cancel := context.WithCancel(context.Background())
	tm.state.SetPendingTask(cancel)
	go tm.run(ctx, kind, model, node)
}

func (tm *TaskManager) run(ctx context.Context, kind ActionKind, model, node string) {
	var (
		body io.ReadCloser
		err  error
	)
	switch kind {
	case ActionDelete:
		body, err = tm.streamer.DeleteModel(ctx, model, node)
	default:
		body, err = tm.streamer.PullModel(ctx, model, node)
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		tm.state.AppendOutputLine(fmt.Sprintf("Request failed: %v", err), false)
		tm.state.AddBanner(fmt.Sprintf("%s of %s failed: %v", kind, model, err))
		tm.finish(ctx, kind, false)
		return
	}
	defer body.Close()

	success := tm.consume(ctx, body, kind)
	tm.finish(ctx, kind, success)
}

// consume reads the stream chunk by chunk, feeding the ingester and appending
// each decoded record under the store's lock. The context is checked at every
// suspension point; after cancellation no line is appended.
func (tm *TaskManager) consume(ctx context.Context, body io.Reader, kind ActionKind) bool {
	dec := &ingest.Decoder{}
	success := true
	buf := make([]byte, 4096)

	for {
		if ctx.Err() != nil {
			return success
		}
		n, err := body.Read(buf)
		if n > 0 {
			if !tm.appendRecords(ctx, dec.Write(buf[:n]), kind, &success) {
				return success
			}
		}
		if err == io.EOF {
			tm.appendRecords(ctx, dec.Flush(), kind, &success)
			return success
		}
		if err != nil {
			if ctx.Err() != nil {
				return success
			}
			success = false
			tm.state.AppendOutputLine(fmt.Sprintf("Stream error: %v", err), false)
			tm.state.AddBanner(fmt.Sprintf("%s stream error: %v", kind, err))
			return success
		}
	}
}

// appendRecords writes decoded records into the state. It reports false when
// the task should stop: the context was cancelled or the panel was dismissed
// underneath it.
func (tm *TaskManager) appendRecords(ctx context.Context, records []ingest.Record, kind ActionKind, success *bool) bool {
	for _, rec := range records {
		if ctx.Err() != nil {
			return false
		}
		if !rec.OK {
			*success = false
			tm.state.AddBanner(fmt.Sprintf("%s error: %s", kind, rec.Message))
		}
		if !tm.state.AppendOutputLine(rec.Message, rec.OK) {
			return false
		}
	}
	return true
}

// finish writes the authoritative summary line and clears the in-progress
// flag. Skipped entirely when the task was cancelled.
func (tm *TaskManager) finish(ctx context.Context, kind ActionKind, success bool) {
	if ctx.Err() != nil {
		return
	}
	summary := fmt.Sprintf("Model %s completed successfully.", kind.Verb())
	if !success {
		summary = fmt.Sprintf("Model %s completed with errors.", kind.Verb())
	}
	tm.state.AppendOutputLine(summary, success)
	tm.state.FinishAction(success)
}
