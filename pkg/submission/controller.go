package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/generate"
)

// ErrSubmissionInFlight is returned when Submit is called while another
// attempt holds the controls.
var ErrSubmissionInFlight = errors.New("submission: already in flight")

// Phase is a state of the submission state machine:
//
//	Idle → Validating → Rejected → Idle
//	Idle → Validating → Submitting → Awaiting → Succeeded|Failed → Idle
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseRejected   Phase = "rejected"
	PhaseSubmitting Phase = "submitting"
	PhaseAwaiting   Phase = "awaiting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// View is the boundary adapter over the bound controls.
type View interface {
	Interactive
	ReadState() (form.FormState, error)
}

// Presenter consumes outcomes: the result panel for successes and the modal
// for every failure message.
type Presenter interface {
	ShowResult(outcome Outcome) error
	Notify(message string) error
}

// PhaseObserver is called on every phase transition.
type PhaseObserver func(phase Phase)

// Controller orchestrates submission attempts. A Controller is safe for use
// by multiple goroutines; only one attempt runs at a time.
type Controller struct {
	generator generate.Generator
	lock      Lock
	logger    logrus.FieldLogger
	observers []PhaseObserver
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPhaseObserver registers a callback for phase transitions.
func WithPhaseObserver(observer PhaseObserver) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observers = append(c.observers, observer)
		}
	}
}

// New constructs a Controller around the generation service client.
func New(generator generate.Generator, options ...Option) (*Controller, error) {
	if generator == nil {
		return nil, errors.New("submission: generator is required")
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := &Controller{generator: generator, logger: logger}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// InFlight reports whether an attempt is currently awaiting the service.
func (c *Controller) InFlight() bool {
	return c.lock.Held()
}

// Submit runs one attempt against view and hands the outcome to presenter.
// The returned error is non-nil only when the attempt could not start
// (ErrSubmissionInFlight, unreadable view state); validation and service
// failures are reported through the Outcome and the presenter.
func (c *Controller) Submit(ctx context.Context, view View, presenter Presenter) (Outcome, error) {
	if view == nil || presenter == nil {
		return Outcome{}, errors.New("submission: view and presenter are required")
	}
	if c.lock.Held() {
		return Outcome{}, ErrSubmissionInFlight
	}

	c.enter(PhaseValidating)
	state, err := view.ReadState()
	if err != nil {
		c.enter(PhaseIdle)
		return Outcome{}, fmt.Errorf("submission: read state: %w", err)
	}

	snap := state.Snapshot()
	log := c.logger.WithFields(logrus.Fields{
		"start_year":     snap.StartYear,
		"end_year":       snap.EndYear,
		"levels":         strings.Join(snap.Levels.Strings(), ","),
		"include_parent": snap.IncludeParent,
	})

	if verdict := form.Validate(snap); !verdict.OK {
		c.enter(PhaseRejected)
		log.WithField("reason", verdict.Message).Info("submission: rejected")
		notifyErr := presenter.Notify(verdict.Message)
		c.enter(PhaseIdle)
		return Rejected(verdict), notifyErr
	}

	outcome, ok := c.attempt(ctx, view, snap, log)
	if !ok {
		return Outcome{}, ErrSubmissionInFlight
	}
	c.present(presenter, outcome, log)
	c.enter(PhaseIdle)
	return outcome, nil
}

// attempt holds the lock for the network round trip only. The deferred
// release runs on every exit, panics included. A panic still walks observers
// through Failed back to Idle before it propagates.
func (c *Controller) attempt(ctx context.Context, view View, snap form.Snapshot, log *logrus.Entry) (Outcome, bool) {
	release, ok := c.lock.TryAcquire(view)
	if !ok {
		c.enter(PhaseIdle)
		return Outcome{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("submission: generator panicked")
			c.enter(PhaseFailed)
			c.enter(PhaseIdle)
			panic(r)
		}
	}()
	defer release()

	c.enter(PhaseSubmitting)
	req := snap.Request()

	c.enter(PhaseAwaiting)
	resp, err := c.generator.Generate(ctx, req)
	outcome := Interpret(resp, err)
	if outcome.Succeeded() {
		c.enter(PhaseSucceeded)
		log.WithField("download", outcome.DownloadURL).Info("submission: succeeded")
	} else {
		c.enter(PhaseFailed)
		entry := log.WithField("message", outcome.Message)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("submission: failed")
	}
	return outcome, true
}

func (c *Controller) present(presenter Presenter, outcome Outcome, log *logrus.Entry) {
	if outcome.Succeeded() {
		if err := presenter.ShowResult(outcome); err != nil {
			log.WithError(err).Error("submission: render result failed")
			_ = presenter.Notify(MsgGenerateFailed)
		}
		return
	}
	if err := presenter.Notify(outcome.Message); err != nil {
		log.WithError(err).Error("submission: notify failed")
	}
}

func (c *Controller) enter(phase Phase) {
	for _, observer := range c.observers {
		observer(phase)
	}
}
