package generate_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/generate"
	"github.com/goliatone/go-xzqh/pkg/testsupport"
)

func validRequest() form.Request {
	return form.Request{StartYear: 2010, EndYear: 2020, Levels: []string{"city", "county"}, IncludeParent: true}
}

func newClient(t *testing.T, srv *httptest.Server) *generate.Client {
	t.Helper()
	client, err := generate.NewClient(srv.URL+"/", generate.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGenerate_PostsJSONAndDecodesSuccess(t *testing.T) {
	body := testsupport.MustReadFixture(t, "testdata/success.json")
	var got form.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/xzqh/generate" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	resp, err := newClient(t, srv).Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff(validRequest(), got); diff != "" {
		t.Fatalf("request body mismatch (-want +got):\n%s", diff)
	}
	want := generate.Response{
		Status: "success",
		Meta: generate.Meta{
			Downloads:     generate.Downloads{ZipFile: "/xzqh/static/downloads/a.zip"},
			StartYear:     2010,
			EndYear:       2020,
			Levels:        []string{"city", "county"},
			IncludeParent: true,
		},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
	if !resp.Succeeded() {
		t.Fatalf("expected success envelope")
	}
}

func TestGenerate_ServerErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","message":"数据库错误：timeout"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv).Generate(context.Background(), validRequest())
	var serverErr *generate.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.StatusCode != http.StatusInternalServerError || serverErr.Message != "数据库错误：timeout" {
		t.Fatalf("unexpected server error %+v", serverErr)
	}
	if !errors.Is(err, generate.ErrServer) {
		t.Fatalf("expected errors.Is ErrServer")
	}
}

func TestGenerate_ServerErrorWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(t, srv).Generate(context.Background(), validRequest())
	if !errors.Is(err, generate.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestGenerate_NonSuccessEnvelopeIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"pending"}`))
	}))
	defer srv.Close()

	resp, err := newClient(t, srv).Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Succeeded() {
		t.Fatalf("expected non-success envelope")
	}
}

func TestGenerate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newClient(t, srv)
	srv.Close()

	_, err := client.Generate(context.Background(), validRequest())
	if !errors.Is(err, generate.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestGenerate_CancelledContextIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(t, srv).Generate(ctx, validRequest())
	if !errors.Is(err, generate.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestGenerate_ContractRejectsBeforeSending(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := newClient(t, srv)
	cases := []form.Request{
		{StartYear: 1970, EndYear: 2020, Levels: []string{"city"}},
		{StartYear: 2010, EndYear: 2020, Levels: []string{}},
		{StartYear: 2010, EndYear: 2020, Levels: []string{"village"}},
	}
	for _, req := range cases {
		if _, err := client.Generate(context.Background(), req); !errors.Is(err, generate.ErrContract) {
			t.Fatalf("request %+v: expected contract error, got %v", req, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no requests sent, got %d", hits.Load())
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := generate.NewClient("  "); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
