package dom_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-xzqh/pkg/dom"
	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/generate"
	"github.com/goliatone/go-xzqh/pkg/render"
	"github.com/goliatone/go-xzqh/pkg/submission"
	"github.com/goliatone/go-xzqh/pkg/testsupport"
)

func loadInitialPage(t *testing.T) *dom.Page {
	t.Helper()
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	html, err := renderer.RenderPage(render.PageView{State: form.Init(), Interactive: true})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	page, err := dom.Parse(string(html), dom.WithResultRenderer(renderer))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return page
}

func TestParse_RequiresContract(t *testing.T) {
	if _, err := dom.Parse(`<html><body><select id="startYear"></select></body></html>`); err == nil {
		t.Fatalf("expected missing element error")
	}
}

func TestReadState_InitialPage(t *testing.T) {
	page := loadInitialPage(t)
	got, err := page.ReadState()
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if diff := cmp.Diff(form.Init(), got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

const reorderedLevelsPage = `<html><body><form id="adminCodeForm">
<select id="startYear"><option value="2000" selected>2000</option></select>
<select id="endYear"><option value="2023" selected>2023</option></select>
<label class="level-option"><input type="checkbox" name="level[]" value="county" checked></label>
<label class="level-option"><input type="checkbox" name="level[]" value="city"></label>
<label class="level-option"><input type="checkbox" name="level[]" value="province" checked></label>
<input type="radio" name="parentMatch" value="yes"><input type="radio" name="parentMatch" value="no" checked>
</form>
<div id="result-area"></div><div id="modal"><p id="modal-message"></p></div>
</body></html>`

func TestReadState_LevelsFollowPageOrder(t *testing.T) {
	page, err := dom.Parse(reorderedLevelsPage)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	state, err := page.ReadState()
	if err != nil {
		t.Fatalf("read state: %v", err)
	}

	want := form.Request{StartYear: 2000, EndYear: 2023, Levels: []string{"county", "province"}}
	if diff := cmp.Diff(want, state.Snapshot().Request()); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleEvent_StartYearRebuildsEndOptions(t *testing.T) {
	page := loadInitialPage(t)

	if _, err := page.HandleEvent(form.Event{Kind: form.EventEndYearChanged, Year: 2018}); err != nil {
		t.Fatalf("end year event: %v", err)
	}
	if _, err := page.HandleEvent(form.Event{Kind: form.EventStartYearChanged, Year: 2015}); err != nil {
		t.Fatalf("start year event: %v", err)
	}

	got, err := page.ReadState()
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if got.StartYear != 2015 || got.EndYear != 2018 {
		t.Fatalf("expected 2015-2018, got %d-%d", got.StartYear, got.EndYear)
	}
	if diff := cmp.Diff(form.EndYearOptions(2015), got.EndOptions); diff != "" {
		t.Fatalf("end options mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleEvent_ProvinceOnlyLocksParent(t *testing.T) {
	page := loadInitialPage(t)
	if _, err := page.HandleEvent(form.Event{Kind: form.EventLevelToggled, Level: form.LevelProvince, Checked: true}); err != nil {
		t.Fatalf("toggle province: %v", err)
	}
	state, err := page.HandleEvent(form.Event{Kind: form.EventLevelToggled, Level: form.LevelCity, Checked: false})
	if err != nil {
		t.Fatalf("toggle city: %v", err)
	}
	want := form.ParentMatch{Choice: form.ChoiceNo, YesDisabled: true}
	if diff := cmp.Diff(want, state.Parent); diff != "" {
		t.Fatalf("parent mismatch (-want +got):\n%s", diff)
	}

	html, err := page.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(html, `value="yes" disabled=""`) {
		t.Fatalf("yes radio not disabled:\n%s", html)
	}
}

func TestSetInteractive_KeepsProvinceLock(t *testing.T) {
	page := loadInitialPage(t)
	page.ApplyState(form.ApplyLevels(form.Init(), form.NewLevelSet(form.LevelProvince)))

	page.SetInteractive(false)
	if page.Interactive() {
		t.Fatalf("controls still enabled")
	}
	html, _ := page.HTML()
	if !strings.Contains(html, "loading-indicator active") {
		t.Fatalf("loading indicator inactive")
	}

	page.SetInteractive(true)
	if !page.Interactive() {
		t.Fatalf("controls still disabled")
	}
	html, _ = page.HTML()
	if strings.Contains(html, "loading-indicator active") {
		t.Fatalf("loading indicator still active")
	}
	if !strings.Contains(html, `value="yes" disabled=""`) {
		t.Fatalf("re-enabling cleared the province lock")
	}
}

func TestSubmit_ShowsResultInPage(t *testing.T) {
	page := loadInitialPage(t)
	var sent form.Request
	ctrl, err := submission.New(testsupport.GeneratorFunc(func(_ context.Context, req form.Request) (generate.Response, error) {
		sent = req
		return generate.Response{
			Status: generate.StatusSuccess,
			Meta:   generate.Meta{Downloads: generate.Downloads{ZipFile: "/downloads/panel.zip"}},
		}, nil
	}))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	outcome, err := ctrl.Submit(context.Background(), page, page)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if diff := cmp.Diff(form.Init().Snapshot().Request(), sent); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	if !page.Interactive() {
		t.Fatalf("controls not re-enabled")
	}
	html, _ := page.HTML()
	if !strings.Contains(html, `href="/downloads/panel.zip"`) || !strings.Contains(html, `id="result-area" style="display: block"`) {
		t.Fatalf("result not shown:\n%s", html)
	}
}

func TestSubmit_FailureOpensModal(t *testing.T) {
	page := loadInitialPage(t)
	ctrl, err := submission.New(testsupport.GeneratorFunc(func(context.Context, form.Request) (generate.Response, error) {
		return generate.Response{}, &generate.ServerError{StatusCode: 500, Message: "数据源不可用"}
	}))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	if _, err := ctrl.Submit(context.Background(), page, page); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(render.Modal{Visible: true, Message: "数据源不可用"}, page.Modal()); diff != "" {
		t.Fatalf("modal mismatch (-want +got):\n%s", diff)
	}
	html, _ := page.HTML()
	if !strings.Contains(html, `<p id="modal-message">数据源不可用</p>`) {
		t.Fatalf("modal message not mirrored:\n%s", html)
	}

	page.ClickModal(render.TargetContent)
	if !page.Modal().Visible {
		t.Fatalf("content click closed the modal")
	}
	page.CloseModal()
	html, _ = page.HTML()
	if !strings.Contains(html, `id="modal" class="modal" style="display: none"`) {
		t.Fatalf("modal not hidden:\n%s", html)
	}
}

func TestShowResult_ReplacesEarlierPanel(t *testing.T) {
	page := loadInitialPage(t)
	for _, url := range []string{"/downloads/first.zip", "/downloads/second.zip"} {
		if err := page.ShowResult(submission.Success(url, generate.Meta{})); err != nil {
			t.Fatalf("show result: %v", err)
		}
	}
	html, _ := page.HTML()
	if n := strings.Count(html, `class="result-content"`); n != 1 {
		t.Fatalf("expected one result panel, got %d", n)
	}
	if strings.Contains(html, "first.zip") || !strings.Contains(html, "second.zip") {
		t.Fatalf("earlier panel not replaced:\n%s", html)
	}
}
