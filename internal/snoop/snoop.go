// Package snoop captures the visible text of one virtual console and relays
// it to a writer, leaving the user's foreground console and terminal echo as
// they were.
//
// A run is a single pass through the phases below; the first failing phase
// ends it. Echo restoration after a failure is left to the exit hook that the
// terminal registered when echo was turned off.
//
//	query origin -> activate target -> set selection -> restore origin ->
//	enter raw -> spawn reader -> trigger paste -> join reader -> restore raw
package snoop

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"pkt.systems/vcsnoop/internal/brokenpipe"
	"pkt.systems/vcsnoop/internal/logx"
	"pkt.systems/vcsnoop/internal/relay"
	"pkt.systems/vcsnoop/schema"
)

// Phase names a step of a run.
type Phase string

// Phases in the order a run visits them.
const (
	PhaseQueryOrigin    Phase = "query_origin"
	PhaseActivateTarget Phase = "activate_target"
	PhaseSetSelection   Phase = "set_selection"
	PhaseRestoreOrigin  Phase = "restore_origin"
	PhaseEnterRaw       Phase = "enter_raw"
	PhaseSpawnReader    Phase = "spawn_reader"
	PhaseTriggerPaste   Phase = "trigger_paste"
	PhaseJoinReader     Phase = "join_reader"
	PhaseRestoreRaw     Phase = "restore_raw"
	PhaseDone           Phase = "done"
)

// Terminal is the controlling terminal as seen by a run.
type Terminal interface {
	relay.Source
	ActiveConsole() (schema.ConsoleIndex, error)
	Activate(index schema.ConsoleIndex) error
	SetSelection() error
	PasteSelection() error
	EnterRaw() error
	RestoreRaw() error
}

// Config tunes a run.
type Config struct {
	ChunkSize int
}

// Result describes a finished or aborted run.
type Result struct {
	Origin schema.ConsoleIndex
	Target schema.ConsoleIndex
	// Phase is the last phase reached.
	Phase Phase
	Relay relay.Outcome
}

// PhaseError ties a failure to the phase it ended.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	if e == nil || e.Err == nil {
		return "snoop failed"
	}
	return e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Run captures target's screen and writes it to out.
func Run(ctx context.Context, term Terminal, target schema.ConsoleIndex, out io.Writer, cfg Config) (Result, error) {
	res := Result{Target: target}
	if !target.Valid() {
		return res, fmt.Errorf("console %d: %w", target, schema.ErrNotConsole)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	log := logx.WithTarget(ctx, target)

	enter := func(phase Phase) {
		res.Phase = phase
		log.Debug("snoop phase", "phase", phase)
	}
	step := func(phase Phase, fn func() error) error {
		enter(phase)
		if err := fn(); err != nil {
			return &PhaseError{Phase: phase, Err: err}
		}
		return nil
	}

	if err := step(PhaseQueryOrigin, func() error {
		origin, err := term.ActiveConsole()
		res.Origin = origin
		return err
	}); err != nil {
		return res, err
	}
	log = logx.WithOrigin(log, res.Origin)

	if err := step(PhaseActivateTarget, func() error { return term.Activate(target) }); err != nil {
		return res, err
	}
	if err := step(PhaseSetSelection, term.SetSelection); err != nil {
		return res, err
	}
	if err := step(PhaseRestoreOrigin, func() error { return term.Activate(res.Origin) }); err != nil {
		return res, err
	}
	if err := step(PhaseEnterRaw, term.EnterRaw); err != nil {
		return res, err
	}

	release := brokenpipe.Hold()
	defer release()

	enter(PhaseSpawnReader)
	reader := relay.Start(ctx, term, out, relay.Config{ChunkSize: cfg.ChunkSize})
	if err := step(PhaseTriggerPaste, term.PasteSelection); err != nil {
		// Nothing was pasted, so the reader ends at its idle timeout; join it
		// so it never outlives the terminal.
		res.Relay, _ = reader.Wait()
		return res, err
	}
	if err := step(PhaseJoinReader, func() error {
		outcome, err := reader.Wait()
		res.Relay = outcome
		return err
	}); err != nil {
		return res, err
	}
	if err := step(PhaseRestoreRaw, term.RestoreRaw); err != nil {
		return res, err
	}
	release()

	if werr := res.Relay.WriteErr; werr != nil {
		if errors.Is(werr, unix.EPIPE) {
			return res, &PhaseError{Phase: PhaseJoinReader, Err: schema.ErrBrokenPipe}
		}
		return res, &PhaseError{Phase: PhaseJoinReader, Err: fmt.Errorf("write(): %w", werr)}
	}
	res.Phase = PhaseDone
	log.Debug("snoop complete", "bytes", res.Relay.Forwarded)
	return res, nil
}
