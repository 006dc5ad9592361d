package reconcile

// Scheduler defers work to the owner's next idle period. Schedule is only
// called from the owning goroutine and fn must run on that goroutine too.
type Scheduler interface {
	Schedule(fn func())
}

// IdleQueue is a Scheduler the owning event loop drains when it has nothing
// else to do. It is not safe for concurrent use.
type IdleQueue struct {
	tasks []func()
}

func (q *IdleQueue) Schedule(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// RunIdle runs every queued task and returns how many ran. Tasks scheduled
// while draining wait for the next call.
func (q *IdleQueue) RunIdle() int {
	tasks := q.tasks
	q.tasks = nil
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Pending returns the number of queued tasks.
func (q *IdleQueue) Pending() int {
	return len(q.tasks)
}
