package xzqh

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-xzqh/pkg/form"
)

func TestNewController_RequiresGeneratorURL(t *testing.T) {
	if _, err := NewController(Options{}); err == nil {
		t.Fatalf("expected error without generator URL")
	}
}

func TestNewHandler_EndToEnd(t *testing.T) {
	var got form.Request
	generator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xzqh/generate" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success","meta":{"downloads":{"zip_file":"/xzqh/static/downloads/p.zip"},"startYear":2000,"endYear":2005,"levels":["province"],"includeParent":false}}`)
	}))
	t.Cleanup(generator.Close)

	handler, err := NewHandler(Options{GeneratorURL: generator.URL, ThemeVariant: "dark"})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	host := httptest.NewServer(handler)
	t.Cleanup(host.Close)

	resp, err := http.Get(host.URL + "/xzqh/")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(page), `href="/xzqh/static/xzqh.css"`) {
		t.Fatalf("stylesheet link missing:\n%s", page)
	}

	resp, err = http.PostForm(host.URL+"/xzqh/", url.Values{
		"startYear":   {"2000"},
		"endYear":     {"2005"},
		"level[]":     {"province"},
		"parentMatch": {"no"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if got.StartYear != 2000 || got.EndYear != 2005 || got.IncludeParent {
		t.Fatalf("unexpected request %+v", got)
	}
	for _, want := range []string{`href="/xzqh/static/downloads/p.zip"`, "2000-2005年 · 省级"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("response missing %q:\n%s", want, body)
		}
	}
}
