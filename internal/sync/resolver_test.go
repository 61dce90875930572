package sync

import (
	"context"
	"errors"
	"testing"

	"skilljar-sync/internal/domain"
)

type fakeContentAPI struct {
	remote     map[string]string // itemID -> content_html
	getErr     error
	updateErr  error
	getCalls   int
	updates    []string // itemIDs pushed
	lastPushed string
}

func (f *fakeContentAPI) GetContentItem(_ context.Context, _, itemID string) (domain.ContentItem, error) {
	f.getCalls++
	if f.getErr != nil {
		return domain.ContentItem{}, f.getErr
	}
	return domain.ContentItem{ID: itemID, ContentHTML: f.remote[itemID]}, nil
}

func (f *fakeContentAPI) UpdateContentItem(_ context.Context, _, itemID, contentHTML string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, itemID)
	f.lastPushed = contentHTML
	return nil
}

func TestResolveInSyncUnderNormalization(t *testing.T) {
	api := &fakeContentAPI{remote: map[string]string{"i1": "<p>hello   world</p>\n"}}
	r := &Resolver{API: api, Policy: Policy{Force: true}}

	out, err := r.Resolve(context.Background(), "l1", "i1", "  <p>hello world</p>")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.State != StateInSync {
		t.Fatalf("state = %q, want %q", out.State, StateInSync)
	}
	if len(api.updates) != 0 {
		t.Errorf("in-sync item must not trigger a remote update, got %v", api.updates)
	}
}

func TestResolveDivergentForcePushes(t *testing.T) {
	api := &fakeContentAPI{remote: map[string]string{"i1": "<p>old</p>"}}
	r := &Resolver{API: api, Policy: Policy{Force: true, ShowDiff: true}}

	out, err := r.Resolve(context.Background(), "l1", "i1", "<p>new</p>")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !out.Divergent || out.State != StatePushed {
		t.Fatalf("outcome = %+v, want divergent pushed", out)
	}
	if len(api.updates) != 1 || api.lastPushed != "<p>new</p>" {
		t.Errorf("expected one push of local content, got %v %q", api.updates, api.lastPushed)
	}
	if out.Diff == nil {
		t.Error("expected diff segments when ShowDiff is set")
	}
}

func TestResolveDiffOnlyBeatsForce(t *testing.T) {
	api := &fakeContentAPI{remote: map[string]string{"i1": "<p>old</p>"}}
	r := &Resolver{API: api, Policy: Policy{DiffOnly: true, Force: true, DryRun: true}}

	out, err := r.Resolve(context.Background(), "l1", "i1", "<p>new</p>")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.State != StateSkippedDiffOnly {
		t.Fatalf("state = %q, want %q", out.State, StateSkippedDiffOnly)
	}
	if len(api.updates) != 0 {
		t.Errorf("diff-only must suppress every push, got %v", api.updates)
	}
}

func TestResolveDryRunBeatsForce(t *testing.T) {
	api := &fakeContentAPI{remote: map[string]string{"i1": "<p>old</p>"}}
	r := &Resolver{API: api, Policy: Policy{DryRun: true, Force: true}}

	out, err := r.Resolve(context.Background(), "l1", "i1", "<p>new</p>")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.State != StateSkippedDryRun || len(api.updates) != 0 {
		t.Fatalf("dry-run must report intent without pushing: %+v, updates %v", out, api.updates)
	}
}

func TestResolveSuspendsForConfirmation(t *testing.T) {
	api := &fakeContentAPI{remote: map[string]string{"i1": "<p>old</p>"}}
	r := &Resolver{API: api, Policy: Policy{}}

	out, err := r.Resolve(context.Background(), "l1", "i1", "<p>new</p>")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.State != StateAwaitingConfirmation || out.Pending == nil {
		t.Fatalf("expected a suspended push, got %+v", out)
	}

	// Negative decision.
	rejected := r.Reject(out.Pending)
	if rejected.State != StateSkippedByUser || len(api.updates) != 0 {
		t.Fatalf("reject must not push: %+v updates %v", rejected, api.updates)
	}

	// Affirmative decision.
	applied, err := r.Apply(context.Background(), out.Pending)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied.State != StatePushed || len(api.updates) != 1 {
		t.Fatalf("apply must push exactly once: %+v updates %v", applied, api.updates)
	}
}

func TestResolveFetchErrorPropagates(t *testing.T) {
	api := &fakeContentAPI{getErr: errors.New("boom")}
	r := &Resolver{API: api, Policy: Policy{Force: true}}

	if _, err := r.Resolve(context.Background(), "l1", "i1", "x"); err == nil {
		t.Fatal("expected an error when the remote fetch fails")
	}
	if len(api.updates) != 0 {
		t.Error("no push may happen after a failed fetch")
	}
}
