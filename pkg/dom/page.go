package dom

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/render"
	"github.com/goliatone/go-xzqh/pkg/submission"
)

const (
	selStartYear   = "#startYear"
	selEndYear     = "#endYear"
	selLevelBoxes  = ".level-option input[name='level[]']"
	selParentRadio = "input[name='parentMatch']"
	selControls    = "#adminCodeForm select, #adminCodeForm input, #adminCodeForm button"
	selLoading     = ".loading-indicator"
	selResultArea  = "#result-area"
	selModal       = "#modal"
	selModalText   = "#modal-message"

	classActive = "active"
)

// ErrMissingElement reports a document lacking a required control.
var ErrMissingElement = errors.New("dom: missing element")

// Page is a parsed form document. It implements submission.View and
// submission.Presenter. A Page is safe for concurrent use.
type Page struct {
	mu       sync.Mutex
	doc      *goquery.Document
	results  render.ResultRenderer
	notifier *render.Notifier
}

// Option configures a Page.
type Option func(*Page)

// WithResultRenderer sets the renderer used for the success panel.
func WithResultRenderer(renderer render.ResultRenderer) Option {
	return func(p *Page) {
		if renderer != nil {
			p.results = renderer
		}
	}
}

// Load parses an HTML document.
func Load(r io.Reader, options ...Option) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	page := &Page{doc: doc}
	for _, opt := range options {
		if opt != nil {
			opt(page)
		}
	}
	if page.results == nil {
		renderer, err := render.New()
		if err != nil {
			return nil, err
		}
		page.results = renderer
	}
	page.notifier = render.NewNotifier(page.mirrorModal)

	for _, sel := range []string{selStartYear, selEndYear, selResultArea, selModal, selModalText} {
		if doc.Find(sel).Length() == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingElement, sel)
		}
	}
	return page, nil
}

// Parse is Load over a string.
func Parse(html string, options ...Option) (*Page, error) {
	return Load(strings.NewReader(html), options...)
}

// HTML serialises the current document.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Html()
}

// ReadState reads the controls into a FormState.
func (p *Page) ReadState() (form.FormState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readState()
}

func (p *Page) readState() (form.FormState, error) {
	var state form.FormState
	var err error

	state.StartOptions, state.StartYear, err = readSelect(p.doc.Find(selStartYear))
	if err != nil {
		return form.FormState{}, fmt.Errorf("dom: start year: %w", err)
	}
	state.EndOptions, state.EndYear, err = readSelect(p.doc.Find(selEndYear))
	if err != nil {
		return form.FormState{}, fmt.Errorf("dom: end year: %w", err)
	}

	var levelErr error
	p.doc.Find(selLevelBoxes).EachWithBreak(func(_ int, box *goquery.Selection) bool {
		_, checked := box.Attr("checked")
		level, err := form.ParseLevel(box.AttrOr("value", ""))
		if err != nil {
			if !checked {
				return true
			}
			levelErr = err
			return false
		}
		state.LevelOrder = append(state.LevelOrder, level)
		if checked {
			state.Levels = state.Levels.With(level, true)
		}
		return true
	})
	if levelErr != nil {
		return form.FormState{}, fmt.Errorf("dom: levels: %w", levelErr)
	}

	p.doc.Find(selParentRadio).Each(func(_ int, radio *goquery.Selection) {
		choice := form.ParseChoice(radio.AttrOr("value", ""))
		if _, checked := radio.Attr("checked"); checked {
			state.Parent.Choice = choice
		}
		if choice == form.ChoiceYes && state.Levels.ProvinceOnly() {
			state.Parent.YesDisabled = true
		}
	})
	return state, nil
}

// readSelect returns the option years and the selected year. Without a
// selected attribute the first option is selected, as in a browser.
func readSelect(sel *goquery.Selection) ([]int, int, error) {
	options := sel.Find("option")
	if options.Length() == 0 {
		return nil, 0, errors.New("no options")
	}
	years := make([]int, 0, options.Length())
	selected := -1
	var parseErr error
	options.EachWithBreak(func(i int, opt *goquery.Selection) bool {
		year, err := form.ParseYear(opt.AttrOr("value", opt.Text()))
		if err != nil {
			parseErr = err
			return false
		}
		years = append(years, year)
		if _, ok := opt.Attr("selected"); ok && selected < 0 {
			selected = year
		}
		return true
	})
	if parseErr != nil {
		return nil, 0, parseErr
	}
	if selected < 0 {
		selected = years[0]
	}
	return years, selected, nil
}

// ApplyState writes state into the controls.
func (p *Page) ApplyState(state form.FormState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyState(state)
}

func (p *Page) applyState(state form.FormState) {
	writeSelect(p.doc.Find(selStartYear), state.StartOptions, state.StartYear)
	writeSelect(p.doc.Find(selEndYear), state.EndOptions, state.EndYear)

	p.doc.Find(selLevelBoxes).Each(func(_ int, box *goquery.Selection) {
		level := form.Level(box.AttrOr("value", ""))
		setFlag(box, "checked", state.Levels.Has(level))
	})
	p.doc.Find(selParentRadio).Each(func(_ int, radio *goquery.Selection) {
		choice := form.ParseChoice(radio.AttrOr("value", ""))
		setFlag(radio, "checked", choice != form.ChoiceNone && choice == state.Parent.Choice)
		if choice == form.ChoiceYes {
			setFlag(radio, "disabled", state.Parent.YesDisabled)
		}
	})
}

func writeSelect(sel *goquery.Selection, years []int, selected int) {
	if years == nil {
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			year, err := form.ParseYear(opt.AttrOr("value", ""))
			setFlag(opt, "selected", err == nil && year == selected)
		})
		return
	}
	var b strings.Builder
	for _, year := range years {
		value := strconv.Itoa(year)
		b.WriteString(`<option value="` + value + `"`)
		if year == selected {
			b.WriteString(" selected")
		}
		b.WriteString(">" + value + "</option>")
	}
	sel.Empty()
	sel.AppendHtml(b.String())
}

func setFlag(sel *goquery.Selection, attr string, on bool) {
	if on {
		sel.SetAttr(attr, "")
		return
	}
	sel.RemoveAttr(attr)
}

// HandleEvent applies a control change and returns the recomputed state.
func (p *Page) HandleEvent(ev form.Event) (form.FormState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, err := p.readState()
	if err != nil {
		return form.FormState{}, err
	}
	next, err := form.Dispatch(state, ev)
	if err != nil {
		return form.FormState{}, err
	}
	p.applyState(next)
	return next, nil
}

// SetInteractive disables or re-enables every form control and toggles the
// loading indicator. Re-enabling keeps the "include parent" radio disabled
// while only province is checked.
func (p *Page) SetInteractive(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	controls := p.doc.Find(selControls)
	loading := p.doc.Find(selLoading)
	if !enabled {
		controls.SetAttr("disabled", "")
		loading.AddClass(classActive)
		return
	}
	controls.RemoveAttr("disabled")
	loading.RemoveClass(classActive)
	if state, err := p.readState(); err == nil && state.Parent.YesDisabled {
		p.doc.Find(selParentRadio).FilterFunction(func(_ int, radio *goquery.Selection) bool {
			return form.ParseChoice(radio.AttrOr("value", "")) == form.ChoiceYes
		}).SetAttr("disabled", "")
	}
}

// Interactive reports whether the submit control is enabled.
func (p *Page) Interactive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, disabled := p.doc.Find("#adminCodeForm button[type='submit']").Attr("disabled")
	return !disabled
}

// ShowResult replaces the result area content with the success panel.
func (p *Page) ShowResult(outcome submission.Outcome) error {
	html, err := p.results.RenderResult(outcome)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	area := p.doc.Find(selResultArea)
	area.SetHtml(html)
	area.SetAttr("style", "display: block")
	return nil
}

// Notify shows message in the modal.
func (p *Page) Notify(message string) error {
	return p.notifier.Notify(message)
}

// CloseModal handles the modal close control.
func (p *Page) CloseModal() {
	p.notifier.Close()
}

// ClickModal handles a click on the open modal.
func (p *Page) ClickModal(target render.ClickTarget) {
	p.notifier.ClickBackdrop(target)
}

// Modal returns the modal state.
func (p *Page) Modal() render.Modal {
	return p.notifier.Current()
}

func (p *Page) mirrorModal(modal render.Modal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc.Find(selModalText).SetText(modal.Message)
	display := "none"
	if modal.Visible {
		display = "block"
	}
	p.doc.Find(selModal).SetAttr("style", "display: "+display)
}

var (
	_ submission.View      = (*Page)(nil)
	_ submission.Presenter = (*Page)(nil)
)
