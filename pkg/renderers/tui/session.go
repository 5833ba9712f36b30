package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/render"
	"github.com/goliatone/go-xzqh/pkg/submission"
)

// Submitter runs one submission attempt.
type Submitter interface {
	Submit(ctx context.Context, view submission.View, presenter submission.Presenter) (submission.Outcome, error)
}

// Session walks the user through the form in a terminal: start year, end
// year, levels and parent match, then submits. It implements
// submission.View and submission.Presenter over its own FormState.
type Session struct {
	submitter Submitter
	driver    PromptDriver
	theme     Theme
	repeat    bool
	logger    logrus.FieldLogger

	mu          sync.Mutex
	ctx         context.Context
	state       form.FormState
	interactive bool
}

// New constructs a Session. The survey driver is used unless another one is
// supplied.
func New(submitter Submitter, options ...Option) (*Session, error) {
	if submitter == nil {
		return nil, errors.New("tui: submitter is required")
	}
	s := &Session{
		submitter:   submitter,
		theme:       DefaultTheme,
		logger:      discardLogger(),
		state:       form.Init(),
		interactive: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run prompts for the form values and submits them until an attempt
// finishes, or, with WithRepeat, until the user declines another round.
// Rejected snapshots are reported and the prompts start over.
func (s *Session) Run(ctx context.Context) (submission.Outcome, error) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	for {
		state, err := s.collect(ctx)
		if err != nil {
			return submission.Outcome{}, err
		}
		s.setState(state)

		outcome, err := s.submitter.Submit(ctx, s, s)
		if err != nil {
			return outcome, err
		}
		if outcome.Kind == submission.OutcomeRejected {
			continue
		}
		if !s.repeat {
			return outcome, nil
		}
		again, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "是否继续生成？"})
		if err != nil {
			return outcome, err
		}
		if !again {
			return outcome, nil
		}
	}
}

// collect runs the prompts, threading each answer through the form
// controllers so later prompts see derived options.
func (s *Session) collect(ctx context.Context) (form.FormState, error) {
	state := s.State()

	startIdx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "起始年份",
		Options:      yearLabels(state.StartOptions),
		DefaultIndex: indexOfYear(state.StartOptions, state.StartYear),
		PageSize:     10,
	})
	if err != nil {
		return form.FormState{}, err
	}
	if startIdx < 0 || startIdx >= len(state.StartOptions) {
		return form.FormState{}, fmt.Errorf("%w: start year", ErrNoSelection)
	}
	state = form.ApplyStartYear(state, state.StartOptions[startIdx])

	endIdx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "终止年份",
		Options:      yearLabels(state.EndOptions),
		DefaultIndex: indexOfYear(state.EndOptions, state.EndYear),
		PageSize:     10,
	})
	if err != nil {
		return form.FormState{}, err
	}
	if endIdx < 0 || endIdx >= len(state.EndOptions) {
		return form.FormState{}, fmt.Errorf("%w: end year", ErrNoSelection)
	}
	state = form.SelectEndYear(state, state.EndOptions[endIdx])

	order := form.ControlOrder(state.LevelOrder)
	levelLabels := make([]string, len(order))
	var defaults []int
	for i, level := range order {
		levelLabels[i] = level.Label()
		if state.Levels.Has(level) {
			defaults = append(defaults, i)
		}
	}
	picked, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  "需要输出的层级",
		Options:  levelLabels,
		Defaults: defaults,
	})
	if err != nil {
		return form.FormState{}, err
	}
	var levels form.LevelSet
	for _, idx := range picked {
		if idx >= 0 && idx < len(order) {
			levels = levels.With(order[idx], true)
		}
	}
	state = form.ApplyLevels(state, levels)

	if state.Parent.YesDisabled {
		if err := s.driver.Info(ctx, s.theme.InfoPrefix+"仅输出省级，不匹配上级区划代码"); err != nil {
			return form.FormState{}, err
		}
		return state, nil
	}

	defaultChoice := 0
	if state.Parent.Choice == form.ChoiceNo {
		defaultChoice = 1
	}
	choiceIdx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "是否需要匹配上级区划代码",
		Options:      []string{"是", "否"},
		DefaultIndex: defaultChoice,
	})
	if err != nil {
		return form.FormState{}, err
	}
	choice := form.ChoiceYes
	if choiceIdx == 1 {
		choice = form.ChoiceNo
	}
	return form.SelectParentMatch(state, choice), nil
}

// State returns the session's current form state.
func (s *Session) State() form.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state form.FormState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// ReadState implements submission.View.
func (s *Session) ReadState() (form.FormState, error) {
	return s.State(), nil
}

// SetInteractive implements submission.View. Disabling prints a progress
// line.
func (s *Session) SetInteractive(enabled bool) {
	s.mu.Lock()
	s.interactive = enabled
	ctx := s.ctx
	s.mu.Unlock()

	if enabled || ctx == nil {
		return
	}
	if err := s.driver.Info(ctx, "处理中…"); err != nil {
		s.logger.WithError(err).Debug("tui: progress message")
	}
}

// ShowResult implements submission.Presenter.
func (s *Session) ShowResult(outcome submission.Outcome) error {
	ctx := s.runContext()
	msg := s.theme.InfoPrefix + "处理成功，请点击下载：" + outcome.DownloadURL
	if err := s.driver.Info(ctx, msg); err != nil {
		return err
	}
	if summary := render.Summary(outcome); summary != "" {
		return s.driver.Info(ctx, summary)
	}
	return nil
}

// Notify implements submission.Presenter.
func (s *Session) Notify(message string) error {
	return s.driver.Info(s.runContext(), s.theme.ErrorPrefix+message)
}

func (s *Session) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func yearLabels(years []int) []string {
	out := make([]string, len(years))
	for i, year := range years {
		out[i] = strconv.Itoa(year)
	}
	return out
}

func indexOfYear(years []int, year int) int {
	for i, y := range years {
		if y == year {
			return i
		}
	}
	return 0
}

// Interactive reports whether the prompts are currently accepting input.
func (s *Session) Interactive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interactive
}
