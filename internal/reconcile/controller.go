// Package reconcile keeps a grading grid's visible assessments consistent
// with durable storage while many cells are edited at once.
//
// A Controller is owned by a single goroutine, typically a UI event loop.
// Every edit updates visible state immediately; writes run on their own
// goroutines and report back through Completions, which the owner feeds to
// Apply. Nothing the owner calls ever waits on storage, except Settle.
//
// Writes run detached from the caller's cancellation: once a change is
// visible its write carries on to storage even if the owner goes away.
// Writes for the same cell are neither coalesced nor cancelled, and by
// default every completion is applied when it arrives, so a superseded
// write that finishes late can briefly reinstate a stale value.
// WithDiscardStale enables a per-cell generation check that drops such
// completions instead.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Op distinguishes the write a completion answers.
type Op int

const (
	OpPersist Op = iota
	OpClear
)

func (o Op) String() string {
	if o == OpClear {
		return "clear"
	}
	return "persist"
}

// Completion is the outcome of one write, delivered on Completions.
type Completion struct {
	Op         Op
	Generation uint64
	Request    app.PersistAssessmentRequest
	Clear      app.ClearAssessmentRequest
	Record     *domain.GradeRecord
	Err        error

	match    responseKey
	snapshot snapshot
}

// CellError is returned by Apply when a write failed and the cell was
// rolled back.
type CellError struct {
	Key CellKey
	Err error
}

func (e *CellError) Error() string {
	return app.UserMessage(e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// ErrUnknownCell is returned when an operation names a cell the controller
// does not hold.
var ErrUnknownCell = errors.New("unknown grid cell")

// Controller owns the live view of one rendered grading grid.
type Controller struct {
	persister    app.PersistAssessmentUseCase
	idle         Scheduler
	logger       *zap.Logger
	metrics      *metrics.Recorder
	discardStale bool
	newID        func() string
	now          func() time.Time

	cells      map[CellKey]*Cell
	order      []CellKey
	byResponse map[responseKey]CellKey

	pendingNotes   map[CellKey]string
	flushScheduled bool

	completions chan Completion
	ready       chan struct{}
}

type Option func(*Controller)

// WithScheduler sets the idle scheduler notes flushes are deferred to.
// Without one, flushes happen immediately.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.idle = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithDiscardStale drops completions whose generation is older than the
// cell's latest write.
func WithDiscardStale(discard bool) Option {
	return func(c *Controller) { c.discardStale = discard }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides how temporary record ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// New creates a Controller that writes through persister.
func New(persister app.PersistAssessmentUseCase, opts ...Option) *Controller {
	c := &Controller{
		persister:    persister,
		logger:       zap.NewNop(),
		newID:        func() string { return uuid.New().String() },
		now:          func() time.Time { return time.Now().UTC() },
		cells:        make(map[CellKey]*Cell),
		byResponse:   make(map[responseKey]CellKey),
		pendingNotes: make(map[CellKey]string),
		completions:  make(chan Completion, 64),
		ready:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddCell registers a cell with its last committed record, which may be nil.
// Registering an existing key replaces its state.
func (c *Controller) AddCell(key CellKey, contentPointID *string, committed *domain.GradeRecord) *Cell {
	if _, ok := c.cells[key]; !ok {
		c.order = append(c.order, key)
	}
	cell := &Cell{Key: key, ContentPointID: contentPointID, Record: committed.Clone()}
	c.cells[key] = cell
	c.byResponse[cell.responseKey()] = key
	return cell
}

// Seed registers one group-level cell per enrollment and column, attaching
// the current group-level record for that enrollment and content group.
func (c *Controller) Seed(grid *app.Grid) {
	current := make(map[domain.AssessmentKey]*domain.GradeRecord)
	for _, r := range grid.Assessments {
		if r.IsGroupLevel() {
			current[r.Key()] = r
		}
	}
	for _, e := range grid.Enrollments {
		for _, col := range grid.Columns {
			key := CellKey{
				EnrollmentID:   e.ID,
				PlanItemID:     col.PlanItem.ID,
				ContentGroupID: col.PlanItem.ContentGroupID,
			}
			committed := current[domain.AssessmentKey{EnrollmentID: e.ID, ContentGroupID: col.PlanItem.ContentGroupID}]
			c.AddCell(key, nil, committed)
		}
	}
}

// Cell returns the live state of key.
func (c *Controller) Cell(key CellKey) (*Cell, bool) {
	cell, ok := c.cells[key]
	return cell, ok
}

// Cells returns every cell in registration order.
func (c *Controller) Cells() []*Cell {
	out := make([]*Cell, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.cells[k])
	}
	return out
}

// Records returns the visible records of every graded cell, the input a
// fresh aggregation pass needs.
func (c *Controller) Records() []*domain.GradeRecord {
	var out []*domain.GradeRecord
	for _, k := range c.order {
		if r := c.cells[k].Record; r != nil {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Completions delivers write outcomes. The owner must receive from it and
// pass each value to Apply on its own goroutine.
func (c *Controller) Completions() <-chan Completion {
	return c.completions
}

// InFlight returns the number of writes issued and not yet applied.
func (c *Controller) InFlight() int {
	n := 0
	for _, cell := range c.cells {
		n += cell.InFlight
	}
	return n
}

// ChangeGrade makes gradeScaleID the cell's grade. The change is applied to
// the visible record at once and one write is issued for it. It is a no-op,
// returning false, when the grade and the latest notes already match the
// visible record.
func (c *Controller) ChangeGrade(ctx context.Context, key CellKey, gradeScaleID string) (bool, error) {
	cell, ok := c.cells[key]
	if !ok {
		return false, ErrUnknownCell
	}
	if gradeScaleID == "" {
		return false, nil
	}
	notes := c.latestNotes(cell)
	if cell.Record != nil && cell.Record.GradeScaleID == gradeScaleID && domain.EqualStrPtr(notes, cell.Record.Notes) {
		return false, nil
	}

	snap := cell.snapshot()
	now := c.now()

	optimistic := cell.Record.Clone()
	if optimistic == nil {
		optimistic = &domain.GradeRecord{
			ID:             domain.TempIDPrefix + c.newID(),
			EnrollmentID:   key.EnrollmentID,
			PlanItemID:     domain.StrPtr(key.PlanItemID),
			ContentGroupID: key.ContentGroupID,
			ContentPointID: cell.ContentPointID,
			CreatedAt:      now,
		}
	}
	optimistic.ApplyGrade(gradeScaleID, notes, now)
	cell.Record = optimistic

	req := app.PersistAssessmentRequest{
		EnrollmentID:   key.EnrollmentID,
		PlanItemID:     key.PlanItemID,
		ContentGroupID: key.ContentGroupID,
		ContentPointID: cell.ContentPointID,
		GradeScaleID:   gradeScaleID,
		Notes:          notes,
	}
	if snap.record != nil && !snap.record.IsTemporary() {
		req.ExistingRecordID = domain.StrPtr(snap.record.ID)
	}

	comp := c.issue(cell, snap)
	comp.Op = OpPersist
	comp.Request = req
	c.metrics.ReconcileEvent(metrics.EventOptimisticApply)

	ctx = context.WithoutCancel(ctx)
	go func() {
		comp.Record, comp.Err = c.persister.PersistAssessment(ctx, req)
		c.deliver(comp)
	}()
	return true, nil
}

// ClearGrade removes the cell's grade. The record disappears from view at
// once and a clear is issued for the cell's key. It returns false when the
// cell has no grade.
func (c *Controller) ClearGrade(ctx context.Context, key CellKey) (bool, error) {
	cell, ok := c.cells[key]
	if !ok {
		return false, ErrUnknownCell
	}
	if cell.Record == nil {
		return false, nil
	}

	snap := cell.snapshot()
	cell.Record = nil

	req := app.ClearAssessmentRequest{
		EnrollmentID:   key.EnrollmentID,
		PlanItemID:     key.PlanItemID,
		ContentGroupID: key.ContentGroupID,
		ContentPointID: cell.ContentPointID,
	}
	comp := c.issue(cell, snap)
	comp.Op = OpClear
	comp.Clear = req
	c.metrics.ReconcileEvent(metrics.EventOptimisticApply)

	ctx = context.WithoutCancel(ctx)
	go func() {
		comp.Err = c.persister.ClearAssessment(ctx, req)
		c.deliver(comp)
	}()
	return true, nil
}

func (c *Controller) issue(cell *Cell, snap snapshot) Completion {
	cell.Generation++
	cell.InFlight++
	cell.Err = nil
	c.metrics.AddInFlight(1)
	return Completion{
		Generation: cell.Generation,
		match:      cell.responseKey(),
		snapshot:   snap,
	}
}

func (c *Controller) deliver(comp Completion) {
	c.completions <- comp
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after completions are delivered. One signal may stand
// for several completions, and a signal may find them already applied.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// ApplyReady applies every completion already delivered without waiting
// for more. It returns how many it applied and the failures among them.
func (c *Controller) ApplyReady() (int, error) {
	var (
		n    int
		errs []error
	)
	for {
		select {
		case comp := <-c.completions:
			n++
			if err := c.Apply(comp); err != nil {
				errs = append(errs, err)
			}
		default:
			return n, errors.Join(errs...)
		}
	}
}

// Settle blocks until every issued write has completed and been applied,
// or ctx ends. It returns the failures it applied and, on timeout, how many
// writes were still outstanding.
func (c *Controller) Settle(ctx context.Context) error {
	var errs []error
	for c.InFlight() > 0 {
		select {
		case comp := <-c.completions:
			if err := c.Apply(comp); err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("%d writes still in flight: %w", c.InFlight(), ctx.Err()))
			return errors.Join(errs...)
		}
	}
	return errors.Join(errs...)
}

// ChangeNotes buffers editor text for the cell and schedules one flush for
// however many keystrokes arrive before the owner goes idle. It never
// issues a write.
func (c *Controller) ChangeNotes(key CellKey, text string) error {
	if _, ok := c.cells[key]; !ok {
		return ErrUnknownCell
	}
	c.pendingNotes[key] = text
	if c.flushScheduled {
		return nil
	}
	c.flushScheduled = true
	if c.idle == nil {
		c.FlushNotes()
		return nil
	}
	c.idle.Schedule(func() { c.FlushNotes() })
	return nil
}

// FlushNotes moves buffered editor text into the cells' visible notes and
// returns how many cells changed.
func (c *Controller) FlushNotes() int {
	n := len(c.pendingNotes)
	for key, text := range c.pendingNotes {
		c.cells[key].Notes = domain.StrPtr(text)
		delete(c.pendingNotes, key)
	}
	c.flushScheduled = false
	if n > 0 {
		c.metrics.ReconcileEvent(metrics.EventNotesFlush)
	}
	return n
}

// Close ends editing of the cell. Buffered notes are flushed and, if they
// differ from the record's notes, saved once through the grade pathway with
// the grade unchanged. Notes typed into an ungraded cell stay in the editor
// because a record needs a grade.
func (c *Controller) Close(ctx context.Context, key CellKey) (bool, error) {
	cell, ok := c.cells[key]
	if !ok {
		return false, ErrUnknownCell
	}
	c.FlushNotes()
	if cell.Notes == nil || cell.Record == nil {
		return false, nil
	}
	if domain.EqualStrPtr(cell.Notes, cell.Record.Notes) {
		return false, nil
	}
	return c.ChangeGrade(ctx, key, cell.Record.GradeScaleID)
}

// latestNotes is the newest notes text for cell: buffered keystrokes first,
// then flushed editor text, then the record's own notes.
func (c *Controller) latestNotes(cell *Cell) *string {
	if text, ok := c.pendingNotes[cell.Key]; ok {
		return domain.StrPtr(text)
	}
	if cell.Notes != nil {
		return domain.StrPtr(*cell.Notes)
	}
	if cell.Record != nil && cell.Record.Notes != nil {
		return domain.StrPtr(*cell.Record.Notes)
	}
	return nil
}

// Apply folds one completion into the grid. On success the visible record
// becomes the stored one; on failure the cell returns to its state before
// the edit and the returned *CellError carries the reason.
func (c *Controller) Apply(comp Completion) error {
	key, ok := c.byResponse[comp.match]
	if !ok {
		return nil
	}
	cell := c.cells[key]
	if cell.InFlight > 0 {
		cell.InFlight--
		c.metrics.AddInFlight(-1)
	}

	if c.discardStale && comp.Generation != cell.Generation {
		c.metrics.ReconcileEvent(metrics.EventStaleDiscarded)
		c.logger.Debug("discarding stale completion",
			zap.String("enrollment_id", key.EnrollmentID),
			zap.String("plan_item_id", key.PlanItemID),
			zap.Stringer("op", comp.Op),
			zap.Uint64("generation", comp.Generation),
			zap.Uint64("latest", cell.Generation),
		)
		return nil
	}

	if comp.Err != nil {
		cell.restore(comp.snapshot)
		cell.Err = comp.Err
		c.metrics.ReconcileEvent(metrics.EventRollback)
		c.logger.Warn("assessment write failed, cell rolled back",
			zap.String("enrollment_id", key.EnrollmentID),
			zap.String("plan_item_id", key.PlanItemID),
			zap.Stringer("op", comp.Op),
			zap.String("code", string(app.PersistErrorCodeOf(comp.Err))),
			zap.Error(comp.Err),
		)
		return &CellError{Key: key, Err: comp.Err}
	}

	switch comp.Op {
	case OpClear:
		cell.Record = nil
	default:
		cell.Record = comp.Record.Clone()
	}
	cell.Err = nil
	c.metrics.ReconcileEvent(metrics.EventConfirmed)
	return nil
}
