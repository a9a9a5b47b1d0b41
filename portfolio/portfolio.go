/*
Package portfolio evaluates whole policy portfolios for the worklist UI.

PURPOSE:
  The engine classifies one policy at a time; this package runs it across a
  portfolio and assembles the derived views the back office actually reads:
  per-policy evaluations (schedule + statuses + summary + folder), folder
  counts for the worklist tabs, and the duplicate report.

SNAPSHOT SEMANTICS:
  Every batch takes ONE caller-supplied "today" and threads it through every
  per-policy call. A batch spanning a midnight rollover still classifies
  every policy against the same date, so folder counts and duplicate flags
  stay mutually consistent.

CONCURRENCY:
  All functions here are pure over their inputs. Hosts evaluating many
  policies in parallel hand each invocation an immutable snapshot; nothing
  in this package shares accumulator state between calls.

SEE ALSO:
  - engine: The per-policy rules
  - portfolio/store.go: Persistence interface for policies and receipts
*/
package portfolio

import (
	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/insurers"
)

// =============================================================================
// PER-POLICY EVALUATION
// =============================================================================

// Entry pairs a policy with its persisted receipts (possibly none).
type Entry struct {
	Policy   engine.Policy
	Receipts []engine.Receipt
}

// Evaluation is the full derived view of one policy: everything the UI
// renders is computed here, never stored.
type Evaluation struct {
	Policy    engine.Policy
	Schedule  []engine.Receipt
	Statuses  []engine.Status // parallel to Schedule
	Aggregate engine.Status
	Summary   engine.Summary
	Folder    engine.Folder
}

// Evaluate computes the derived view of one policy as of today.
// Persisted receipts are authoritative; absent those, a synthetic schedule
// is generated with the insurer grace defaults.
func Evaluate(e Entry, today engine.Date) Evaluation {
	schedule := engine.GenerateScheduleWithGrace(e.Policy, e.Receipts, insurers.GracePeriodDays)

	statuses := make([]engine.Status, len(schedule))
	for i, r := range schedule {
		statuses[i] = engine.ClassifyReceipt(r, today)
	}

	aggregate := engine.ClassifyPolicy(schedule, e.Policy.StoredStatus, today)
	return Evaluation{
		Policy:    e.Policy,
		Schedule:  schedule,
		Statuses:  statuses,
		Aggregate: aggregate,
		Summary:   engine.Summarize(schedule, today),
		Folder:    engine.ClassifyFolder(e.Policy, aggregate, today),
	}
}

// =============================================================================
// WORKLIST
// =============================================================================

// Worklist is the folder view of a portfolio: every evaluation bucketed by
// folder, plus per-folder counts. The All count always equals the portfolio
// size; every other count equals the number of policies whose classification
// landed in that folder.
type Worklist struct {
	Today       engine.Date
	Evaluations []Evaluation
	Counts      map[engine.Folder]int
}

// ByFolder returns the evaluations in one folder, or the whole portfolio
// for FolderAll, preserving input order.
func (w Worklist) ByFolder(f engine.Folder) []Evaluation {
	if f == engine.FolderAll {
		return w.Evaluations
	}
	var out []Evaluation
	for _, ev := range w.Evaluations {
		if ev.Folder == f {
			out = append(out, ev)
		}
	}
	return out
}

// BuildWorklist evaluates every entry against a single snapshot date and
// tallies the folder counts.
func BuildWorklist(entries []Entry, today engine.Date) Worklist {
	w := Worklist{
		Today:       today,
		Evaluations: make([]Evaluation, 0, len(entries)),
		Counts:      map[engine.Folder]int{engine.FolderAll: len(entries)},
	}
	for _, e := range entries {
		ev := Evaluate(e, today)
		w.Evaluations = append(w.Evaluations, ev)
		w.Counts[ev.Folder]++
	}
	return w
}

// =============================================================================
// DUPLICATES
// =============================================================================

// Duplicates runs duplicate detection over the portfolio's policies.
func Duplicates(entries []Entry) engine.DuplicateReport {
	policies := make([]engine.Policy, len(entries))
	for i, e := range entries {
		policies[i] = e.Policy
	}
	return engine.DetectDuplicates(policies)
}
