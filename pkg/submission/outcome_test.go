package submission_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-xzqh/pkg/generate"
	"github.com/goliatone/go-xzqh/pkg/submission"
)

func TestInterpret(t *testing.T) {
	cases := []struct {
		name    string
		resp    generate.Response
		err     error
		kind    submission.OutcomeKind
		message string
		url     string
	}{
		{
			name: "success",
			resp: successResponse(),
			kind: submission.OutcomeSuccess,
			url:  "/xzqh/static/downloads/x.zip",
		},
		{
			name:    "success marker without download",
			resp:    generate.Response{Status: generate.StatusSuccess},
			kind:    submission.OutcomeFailure,
			message: submission.MsgGenerateFailed,
		},
		{
			name:    "error envelope",
			resp:    generate.Response{Status: "error", Message: "ignored"},
			kind:    submission.OutcomeFailure,
			message: submission.MsgGenerateFailed,
		},
		{
			name:    "server error with message",
			err:     &generate.ServerError{StatusCode: 400, Message: "无效的年份格式"},
			kind:    submission.OutcomeFailure,
			message: "无效的年份格式",
		},
		{
			name:    "server error without message",
			err:     &generate.ServerError{StatusCode: 500},
			kind:    submission.OutcomeFailure,
			message: submission.MsgRequestFailed,
		},
		{
			name:    "malformed body",
			err:     &generate.MalformedResponseError{StatusCode: 502, Err: errors.New("invalid character")},
			kind:    submission.OutcomeFailure,
			message: submission.MsgGenerateFailed,
		},
		{
			name:    "transport",
			err:     &generate.TransportError{Err: errors.New("timeout")},
			kind:    submission.OutcomeFailure,
			message: submission.MsgGenerateFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := submission.Interpret(tc.resp, tc.err)
			if got.Kind != tc.kind || got.Message != tc.message || got.DownloadURL != tc.url {
				t.Fatalf("unexpected outcome %+v", got)
			}
		})
	}
}
