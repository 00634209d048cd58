// Package contact simulates sending the contact form.
//
// Nothing leaves the process: a submission waits a fixed delay, reports
// success, clears the draft and returns to idle. There is no failure path.
package contact

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Zachkp/portfolio/internal/apperror"
)

// Draft is the form being edited.
type Draft struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Status of the submit button.
type Status int

const (
	Idle Status = iota
	Submitting
)

func (s Status) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Result is what the visitor is told once the submission completes.
type Result struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SentAt      time.Time `json:"sent_at"`
}

const (
	SuccessTitle       = "Message Sent!"
	SuccessDescription = "Thank you for your message. I'll get back to you soon!"
)

// Submitter owns the draft and the single in-flight submission.
type Submitter struct {
	clock clockwork.Clock
	delay time.Duration

	mu       sync.Mutex
	draft    Draft
	status   Status
	timer    clockwork.Timer
	pending  chan Result
	onChange func(Status)
}

func NewSubmitter(clock clockwork.Clock, delay time.Duration) *Submitter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Submitter{clock: clock, delay: delay}
}

// OnChange registers fn to run on every status transition.
func (s *Submitter) OnChange(fn func(Status)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Draft returns a copy of the current draft.
func (s *Submitter) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the draft. Editing stays possible while a submission is in flight.
func (s *Submitter) SetDraft(d Draft) {
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
}

// Status returns the current submission status.
func (s *Submitter) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Revise replaces the draft unless a submission is in flight, in which case it
// returns apperror.ErrBusy and the draft being sent is kept.
func (s *Submitter) Revise(d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == Submitting {
		return apperror.ErrBusy
	}
	s.draft = d
	return nil
}

// Submit starts a simulated submission of the current draft. The returned
// channel yields one Result after the delay, or is closed without a value if
// Stop runs first. While a submission is in flight Submit returns
// apperror.ErrBusy and changes nothing.
func (s *Submitter) Submit() (<-chan Result, error) {
	return s.start(nil)
}

// SubmitDraft replaces the draft with d and submits it in one step. While a
// submission is in flight it returns apperror.ErrBusy and d is discarded.
func (s *Submitter) SubmitDraft(d Draft) (<-chan Result, error) {
	return s.start(&d)
}

func (s *Submitter) start(d *Draft) (<-chan Result, error) {
	s.mu.Lock()
	if s.status == Submitting {
		s.mu.Unlock()
		return nil, apperror.ErrBusy
	}
	if d != nil {
		s.draft = *d
	}
	s.status = Submitting
	pending := make(chan Result, 1)
	s.pending = pending
	s.timer = s.clock.AfterFunc(s.delay, func() { s.complete(pending) })
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(Submitting)
	}
	return pending, nil
}

func (s *Submitter) complete(pending chan Result) {
	s.mu.Lock()
	if s.pending != pending {
		// Stopped before the timer fired.
		s.mu.Unlock()
		return
	}
	s.draft = Draft{}
	s.status = Idle
	s.pending = nil
	s.timer = nil
	fn := s.onChange
	result := Result{
		Title:       SuccessTitle,
		Description: SuccessDescription,
		SentAt:      s.clock.Now(),
	}
	s.mu.Unlock()

	pending <- result
	close(pending)
	if fn != nil {
		fn(Idle)
	}
}

// Stop abandons an in-flight submission and releases its timer.
func (s *Submitter) Stop() {
	s.abandon(nil)
}

// Abandon stops the submission pending was returned for. It does nothing once
// that submission has completed, even if another one has started since.
func (s *Submitter) Abandon(pending <-chan Result) {
	if pending != nil {
		s.abandon(pending)
	}
}

func (s *Submitter) abandon(only <-chan Result) {
	s.mu.Lock()
	if only != nil && (s.pending == nil || (<-chan Result)(s.pending) != only) {
		s.mu.Unlock()
		return
	}
	timer, pending := s.timer, s.pending
	s.timer, s.pending = nil, nil
	wasBusy := s.status == Submitting
	s.status = Idle
	fn := s.onChange
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if pending != nil {
		close(pending)
	}
	if wasBusy && fn != nil {
		fn(Idle)
	}
}
