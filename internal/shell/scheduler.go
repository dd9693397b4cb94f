package shell

import "context"

// Work produces an Effect off the UI loop.
type Work func(ctx context.Context) Effect

// Scheduler runs async work and hands the resulting Effect back to apply on
// the UI loop.
type Scheduler interface {
	Go(work Work, apply func(Effect))
}

// Inline runs work on the caller's goroutine. Used by exec mode and tests.
type Inline struct {
	Context context.Context
}

func (s Inline) Go(work Work, apply func(Effect)) {
	ctx := s.Context
	if ctx == nil {
		ctx = context.Background()
	}
	var eff Effect
	if work != nil {
		eff = work(ctx)
	}
	if apply != nil {
		apply(eff)
	}
}

// Deferred queues work until Flush is called. Tests use it to observe the
// window between dispatch and completion.
type Deferred struct {
	queue []func()
}

func (d *Deferred) Go(work Work, apply func(Effect)) {
	d.queue = append(d.queue, func() {
		Inline{}.Go(work, apply)
	})
}

// Pending returns the number of queued jobs.
func (d *Deferred) Pending() int { return len(d.queue) }

// Flush runs queued jobs in order, including jobs queued while flushing.
func (d *Deferred) Flush() {
	for len(d.queue) > 0 {
		job := d.queue[0]
		d.queue = d.queue[1:]
		job()
	}
}
