package sync

import (
	"context"
	"fmt"

	"skilljar-sync/internal/domain"
)

// ContentAPI is the slice of the remote API the resolver needs.
type ContentAPI interface {
	GetContentItem(ctx context.Context, lessonID, itemID string) (domain.ContentItem, error)
	UpdateContentItem(ctx context.Context, lessonID, itemID, contentHTML string) error
}

// ItemState is the terminal (or suspended) state of one content item in a
// sync pass.
type ItemState string

const (
	StateInSync               ItemState = "in-sync"
	StateSkippedDiffOnly      ItemState = "skipped-diff-only"
	StateSkippedDryRun        ItemState = "skipped-dry-run"
	StateAwaitingConfirmation ItemState = "awaiting-confirmation"
	StatePushed               ItemState = "pushed"
	StateSkippedByUser        ItemState = "skipped-by-user"
)

// Policy selects what happens to a divergent item. Precedence: DiffOnly wins
// over everything, then DryRun, then Force; with none set the resolver
// suspends and waits for a decision.
type Policy struct {
	ShowDiff bool
	DiffOnly bool
	DryRun   bool
	Force    bool
}

// PendingPush is a suspended push awaiting an explicit decision. The resolver
// itself never prompts; the caller resumes it via Apply or Reject.
type PendingPush struct {
	LessonID  string
	ItemID    string
	LocalHTML string
}

// Outcome describes what happened to one content item.
type Outcome struct {
	ItemID    string
	State     ItemState
	Divergent bool
	Diff      []Segment    // set when divergent and the policy shows diffs
	Pending   *PendingPush // set when State is StateAwaitingConfirmation
}

// Resolver drives the per-item state machine of the push path.
type Resolver struct {
	API    ContentAPI
	Policy Policy
}

// Resolve runs one content item through fetch-remote, compare, and the policy
// gate. A remote fetch failure is returned as an error; the caller logs it
// with the item id and moves on to the next item.
func (r *Resolver) Resolve(ctx context.Context, lessonID, itemID, localHTML string) (Outcome, error) {
	out := Outcome{ItemID: itemID}

	remote, err := r.API.GetContentItem(ctx, lessonID, itemID)
	if err != nil {
		return out, fmt.Errorf("fetch remote content-item %s: %w", itemID, err)
	}

	if Normalize(localHTML) == Normalize(remote.ContentHTML) {
		out.State = StateInSync
		return out, nil
	}

	out.Divergent = true
	if r.Policy.ShowDiff {
		out.Diff = DiffLines(remote.ContentHTML, localHTML)
	}

	switch {
	case r.Policy.DiffOnly:
		out.State = StateSkippedDiffOnly
	case r.Policy.DryRun:
		out.State = StateSkippedDryRun
	case r.Policy.Force:
		if err := r.API.UpdateContentItem(ctx, lessonID, itemID, localHTML); err != nil {
			return out, fmt.Errorf("push content-item %s: %w", itemID, err)
		}
		out.State = StatePushed
	default:
		out.State = StateAwaitingConfirmation
		out.Pending = &PendingPush{LessonID: lessonID, ItemID: itemID, LocalHTML: localHTML}
	}
	return out, nil
}

// Apply resumes a suspended push with an affirmative decision.
func (r *Resolver) Apply(ctx context.Context, p *PendingPush) (Outcome, error) {
	out := Outcome{ItemID: p.ItemID, Divergent: true}
	if err := r.API.UpdateContentItem(ctx, p.LessonID, p.ItemID, p.LocalHTML); err != nil {
		return out, fmt.Errorf("push content-item %s: %w", p.ItemID, err)
	}
	out.State = StatePushed
	return out, nil
}

// Reject resumes a suspended push with a negative decision.
func (r *Resolver) Reject(p *PendingPush) Outcome {
	return Outcome{ItemID: p.ItemID, Divergent: true, State: StateSkippedByUser}
}
