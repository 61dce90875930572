package sync

import (
	"context"

	"skilljar-sync/internal/logging"
	"skilljar-sync/internal/mirror"
)

// PushReport summarizes one push run.
type PushReport struct {
	InSync  int
	Pushed  int
	Skipped int
	Failed  int
}

// PushHooks let the caller render progress and answer confirmations without
// the engine touching a terminal. Divergent fires before any confirmation so
// the diff is on screen when the question is asked. A nil Confirm rejects
// every suspended push.
type PushHooks struct {
	LessonStart func(courseTitle, lessonTitle string)
	Divergent   func(out Outcome)
	Outcome     func(out Outcome)
	Confirm     func(p *PendingPush) bool
}

// Pusher walks mirrored courses and reconciles each content item against the
// remote through the Resolver.
type Pusher struct {
	Store    *mirror.Store
	Resolver *Resolver
	Hooks    PushHooks
}

// PushCourses syncs the given course slugs (the injectable unit-of-work list;
// the CLI passes either --course or the store listing). lessonFilter, when
// set, restricts work to one lesson slug. A course with missing metadata is
// skipped with a warning; item-level failures are counted and logged but
// never stop the batch.
func (p *Pusher) PushCourses(ctx context.Context, slugs []string, lessonFilter string) PushReport {
	var rep PushReport
	for _, slug := range slugs {
		p.pushCourse(ctx, slug, lessonFilter, &rep)
	}
	return rep
}

func (p *Pusher) pushCourse(ctx context.Context, slug, lessonFilter string, rep *PushReport) {
	course, lessons, err := p.Store.ReadCourseTree(slug)
	if err != nil {
		if mirror.IsNotFound(err) {
			logging.Warn("skipping course: missing details or metadata", "course", slug)
			return
		}
		logging.Error("read course tree failed", "course", slug, "err", err)
		rep.Failed++
		return
	}

	for _, lesson := range lessons {
		if lessonFilter != "" && lesson.Slug != lessonFilter {
			continue
		}
		if p.Hooks.LessonStart != nil {
			p.Hooks.LessonStart(course.Title, lesson.Title)
		}

		for _, item := range lesson.ContentItems {
			local, err := p.Store.ReadContent(slug, item.File)
			if err != nil {
				logging.Error("read local content failed", "course", slug, "item", item.ID, "err", err)
				rep.Failed++
				continue
			}

			out, err := p.Resolver.Resolve(ctx, lesson.ID, item.ID, local)
			if err != nil {
				logging.Error("resolve failed", "course", slug, "item", item.ID, "err", err)
				rep.Failed++
				continue
			}

			if out.Divergent && p.Hooks.Divergent != nil {
				p.Hooks.Divergent(out)
			}
			if out.State == StateAwaitingConfirmation {
				out = p.decide(ctx, out, rep)
			}
			if p.Hooks.Outcome != nil {
				p.Hooks.Outcome(out)
			}
			rep.count(out)
		}
	}
}

// decide resumes a suspended push with the caller's answer.
func (p *Pusher) decide(ctx context.Context, out Outcome, rep *PushReport) Outcome {
	pending := out.Pending
	if p.Hooks.Confirm == nil || !p.Hooks.Confirm(pending) {
		resumed := p.Resolver.Reject(pending)
		resumed.Diff = out.Diff
		return resumed
	}
	resumed, err := p.Resolver.Apply(ctx, pending)
	if err != nil {
		logging.Error("push failed", "item", pending.ItemID, "err", err)
		rep.Failed++
		resumed.State = "" // counted as failed, not as a skip
	}
	resumed.Diff = out.Diff
	return resumed
}

func (r *PushReport) count(out Outcome) {
	switch out.State {
	case StateInSync:
		r.InSync++
	case StatePushed:
		r.Pushed++
	case StateSkippedDiffOnly, StateSkippedDryRun, StateSkippedByUser:
		r.Skipped++
	}
}
