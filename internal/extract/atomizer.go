package extract

import (
	"context"
	"log/slog"
	"time"
)

// Outcome is the result of one atomization run. On failure Atoms holds the
// single diagnostic atom and Err records the cause.
type Outcome struct {
	Atoms     []Atom
	Truncated bool
	Err       error
}

// Failed reports whether the run degraded to the diagnostic atom.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Atomizer drives the capability and turns its output into atoms.
type Atomizer struct {
	capability Capability
	stats      *LLMStats
	log        *slog.Logger
}

func NewAtomizer(capability Capability, stats *LLMStats, log *slog.Logger) *Atomizer {
	if log == nil {
		log = slog.Default()
	}
	return &Atomizer{capability: capability, stats: stats, log: log}
}

// Atomize maps text onto atoms. Capability failures and malformed output
// never escape as errors; they become the diagnostic atom.
func (a *Atomizer) Atomize(ctx context.Context, text, filename string) Outcome {
	prompt, truncated := BuildPrompt(text)
	if truncated {
		a.log.Warn("document truncated before atomization",
			"filename", filename,
			"limit_chars", CharLimit,
		)
	}

	a.log.Debug("submitting document for atomization",
		"filename", filename,
		"bytes", len(prompt.Document),
		"est_tokens", EstimateTokens(prompt.Document),
	)

	start := time.Now()
	raw, err := a.capability.Generate(ctx, prompt)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		a.record(elapsed, false)
		err = &CapabilityError{Err: err}
		a.log.Error("atomization capability failed", "filename", filename, "error", err)
		return Outcome{Atoms: []Atom{ErrorAtom(err)}, Truncated: truncated, Err: err}
	}

	atoms, err := Assemble(Sanitize(raw), filename)
	if err != nil {
		a.record(elapsed, false)
		a.log.Error("atomization output rejected",
			"filename", filename,
			"error", err,
			"raw", truncate(raw, rawLogLimit),
		)
		return Outcome{Atoms: []Atom{ErrorAtom(err)}, Truncated: truncated, Err: err}
	}

	a.record(elapsed, true)
	a.log.Info("atomization complete",
		"filename", filename,
		"atoms", len(atoms),
		"duration_ms", elapsed,
	)
	return Outcome{Atoms: atoms, Truncated: truncated}
}

func (a *Atomizer) record(durationMs int64, ok bool) {
	if a.stats == nil {
		return
	}
	if ok {
		a.stats.Record(durationMs)
	} else {
		a.stats.RecordFailure(durationMs)
	}
}
