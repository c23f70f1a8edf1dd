// Package validation implements the product form validation engine:
// synchronous per-field rules, a cross-field revision-date rule, and a
// debounced asynchronous ID uniqueness check, combined into a single
// submit-readiness decision.
package validation

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalogo/internal/models"
)

// CheckIDFunc reports whether a product ID already exists upstream.
// It is injected by the caller; the engine never owns the transport.
type CheckIDFunc func(id string) (bool, error)

// DefaultDebounce is the quiet interval applied to ID edits before the
// uniqueness check is issued.
const DefaultDebounce = 250 * time.Millisecond

// ErrNotSubmittable is returned by Submit when the form still has
// validation errors or a pending uniqueness check.
var ErrNotSubmittable = errors.New("form is not submittable")

// Engine holds the validation state for one product form instance.
// An Engine is owned by a single form; it is safe for the debounced
// check goroutine and the owner to touch it concurrently, but it is
// not meant to be shared between forms.
type Engine struct {
	mu       sync.Mutex
	checkID  CheckIDFunc
	debounce time.Duration

	values    map[string]string
	touched   map[string]bool
	submitted bool
	seed      *models.Product

	// Debounced uniqueness check state. gen is bumped on every ID
	// edit, reset and close; a scheduled check only runs, and its
	// result is only applied, while its generation is still current.
	gen     uint64
	pending bool
	idTaken bool
	timer   *time.Timer
	settled chan struct{}
	closed  bool
}

// NewEngine creates an engine in create mode. A non-positive debounce
// falls back to DefaultDebounce.
func NewEngine(checkID CheckIDFunc, debounce time.Duration) *Engine {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	e := &Engine{
		checkID:  checkID,
		debounce: debounce,
		settled:  make(chan struct{}),
	}
	close(e.settled) // nothing pending yet
	e.resetLocked(nil)
	return e
}

// Editing reports whether the engine holds a seed record, i.e. the form
// is editing an existing product and the ID field is locked.
func (e *Engine) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seed != nil
}

// Reset restores the form from a seed record (edit mode, ID locked) or
// clears it (create mode, ID unlocked). Any in-flight uniqueness check
// is abandoned and the touched/submitted visibility flags are cleared.
// Reset may be called again at any time, e.g. when a seed record
// arrives after the form is already live.
func (e *Engine) Reset(seed *models.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked(seed)
}

func (e *Engine) resetLocked(seed *models.Product) {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.idTaken = false
	e.settleLocked()

	e.seed = seed
	e.submitted = false
	e.touched = make(map[string]bool)
	e.values = make(map[string]string)
	if seed != nil {
		e.values[FieldID] = seed.ID
		e.values[FieldName] = seed.Name
		e.values[FieldDescription] = seed.Description
		e.values[FieldLogo] = seed.Logo
		e.values[FieldDateRelease] = seed.DateRelease
		e.values[FieldDateRevision] = seed.DateRevision
	}
}

// SetField records a user edit. Editing date_release derives
// date_revision (a derived update, deliberately not marked touched);
// editing id restarts the debounced uniqueness check. Edits to id are
// ignored in edit mode, where the field is locked.
func (e *Engine) SetField(field, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if field == FieldID && e.seed != nil {
		return
	}

	e.values[field] = value
	e.touched[field] = true

	switch field {
	case FieldDateRelease:
		if _, err := time.Parse(time.DateOnly, value); err == nil {
			e.values[FieldDateRevision] = ComputeRevisionDate(value)
		}
	case FieldID:
		e.scheduleIDCheckLocked(value)
	}
}

// Value returns the current value of a field, including values derived
// by the engine itself (date_revision after a release-date edit).
func (e *Engine) Value(field string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[field]
}

// FieldError returns the current violation for a field, or the zero
// ErrorKind when the field is clean. The advisory IDTaken result is
// only reported once the shape rules pass.
func (e *Engine) FieldError(field string) ErrorKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fieldErrorLocked(field)
}

func (e *Engine) fieldErrorLocked(field string) ErrorKind {
	if kind := ValidateField(field, e.values[field]); kind != "" {
		return kind
	}
	if field == FieldID && e.idTaken {
		return IDTaken
	}
	return ""
}

// FormError returns the cross-field violation, evaluated against the
// latest values. Both dates must be present for the rule to apply.
func (e *Engine) FormError() FormErrorKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.formErrorLocked()
}

func (e *Engine) formErrorLocked() FormErrorKind {
	release := e.values[FieldDateRelease]
	revision := e.values[FieldDateRevision]
	if release == "" || revision == "" {
		return ""
	}
	if revision != ComputeRevisionDate(release) {
		return InvalidRevisionDate
	}
	return ""
}

// ShowFieldError reports whether the field's error should be displayed:
// errors exist as soon as they are computed, but stay hidden until the
// field has been touched or the form submitted.
func (e *Engine) ShowFieldError(field string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fieldErrorLocked(field) == "" {
		return false
	}
	return e.touched[field] || e.submitted
}

// ShowFormError is the form-scope counterpart of ShowFieldError: the
// cross-field error is displayed once any field has been touched or the
// form submitted.
func (e *Engine) ShowFormError() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.formErrorLocked() == "" {
		return false
	}
	return len(e.touched) > 0 || e.submitted
}

// ErrorMessage returns the user-facing message for the field's current
// error, applying the strict kind priority, or "" for a clean field.
func (e *Engine) ErrorMessage(field string) string {
	return Message(field, e.FieldError(field))
}

// FormErrorMessage returns the user-facing message for the cross-field
// error, or "" when the form is consistent.
func (e *Engine) FormErrorMessage() string {
	return FormMessage(e.FormError())
}

// Pending reports whether a uniqueness check is still outstanding.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Settle blocks until no uniqueness check is pending, or the context is
// done. Server-side callers settle the engine before deciding on
// submission; a form UI would instead poll Pending.
func (e *Engine) Settle(ctx context.Context) error {
	for {
		e.mu.Lock()
		if !e.pending {
			e.mu.Unlock()
			return nil
		}
		ch := e.settled
		e.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// Submittable reports whether the record can be submitted: every field
// passes its synchronous rules, no uniqueness check is pending, and the
// cross-field rule holds.
func (e *Engine) Submittable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submittableLocked()
}

func (e *Engine) submittableLocked() bool {
	for _, field := range Fields {
		if e.fieldErrorLocked(field) != "" {
			return false
		}
	}
	if e.pending {
		return false
	}
	return e.formErrorLocked() == ""
}

// Submit returns the full record when the form is submittable. On
// refusal it marks every field touched, forcing full error visibility,
// and returns ErrNotSubmittable. In edit mode the locked ID is
// reattached from the seed record's identity rather than taken from the
// form payload.
func (e *Engine) Submit() (*models.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.submitted = true
	if !e.submittableLocked() {
		for _, field := range Fields {
			e.touched[field] = true
		}
		return nil, ErrNotSubmittable
	}

	product := &models.Product{
		ID:           e.values[FieldID],
		Name:         e.values[FieldName],
		Description:  e.values[FieldDescription],
		Logo:         e.values[FieldLogo],
		DateRelease:  e.values[FieldDateRelease],
		DateRevision: e.values[FieldDateRevision],
	}
	if e.seed != nil {
		product.ID = e.seed.ID
	}
	return product, nil
}

// Close tears the engine down, abandoning any in-flight uniqueness
// check so no result is applied afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.settleLocked()
}

// scheduleIDCheckLocked restarts the debounced uniqueness check for the
// latest ID value. The check is skipped, settling immediately clean,
// in edit mode, for empty values and for values that already fail the
// synchronous shape rules.
func (e *Engine) scheduleIDCheckLocked(value string) {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.idTaken = false

	if e.seed != nil || value == "" || ValidateField(FieldID, value) != "" {
		e.settleLocked()
		return
	}

	if !e.pending {
		e.pending = true
		e.settled = make(chan struct{})
	}
	gen := e.gen
	e.timer = time.AfterFunc(e.debounce, func() {
		e.runIDCheck(gen, value)
	})
}

func (e *Engine) runIDCheck(gen uint64, value string) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return
	}
	checkID := e.checkID
	e.mu.Unlock()

	exists, err := checkID(value)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.gen {
		// Superseded by a newer edit; drop the stale result.
		return
	}
	// The check is advisory: a failing capability fails open.
	e.idTaken = err == nil && exists
	e.settleLocked()
}

func (e *Engine) settleLocked() {
	if e.pending {
		e.pending = false
		close(e.settled)
	}
}
