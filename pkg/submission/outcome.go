package submission

import (
	"errors"

	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/generate"
)

// User-facing failure messages.
const (
	// MsgGenerateFailed is shown for transport failures and unusable responses.
	MsgGenerateFailed = "生成失败，请联系管理员"
	// MsgRequestFailed is shown for server errors without their own message.
	MsgRequestFailed = "请求失败"
)

// OutcomeKind tags an Outcome.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
	// OutcomeRejected marks snapshots refused by the validator; no request
	// was sent.
	OutcomeRejected OutcomeKind = "rejected"
)

// Outcome is the result of one submission attempt.
type Outcome struct {
	Kind        OutcomeKind
	DownloadURL string
	Message     string
	Meta        generate.Meta
	Err         error
}

// Success builds a success outcome.
func Success(downloadURL string, meta generate.Meta) Outcome {
	return Outcome{Kind: OutcomeSuccess, DownloadURL: downloadURL, Meta: meta}
}

// Failure builds a failure outcome.
func Failure(message string, err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: message, Err: err}
}

// Rejected builds the outcome of a snapshot refused by the validator.
func Rejected(verdict form.Verdict) Outcome {
	return Outcome{Kind: OutcomeRejected, Message: verdict.Message, Err: verdict.Err()}
}

// Succeeded reports whether o carries a download location.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// Interpret maps the generator result to an Outcome:
//
//   - non-success HTTP status: the server message, or MsgRequestFailed
//   - any other error (transport, contract, undecodable body): MsgGenerateFailed
//   - success envelope with a download location: Success
//   - anything else: MsgGenerateFailed
func Interpret(resp generate.Response, err error) Outcome {
	if err != nil {
		var serverErr *generate.ServerError
		if errors.As(err, &serverErr) {
			if serverErr.Message != "" {
				return Failure(serverErr.Message, err)
			}
			return Failure(MsgRequestFailed, err)
		}
		return Failure(MsgGenerateFailed, err)
	}
	if !resp.Succeeded() || resp.Meta.Downloads.ZipFile == "" {
		return Failure(MsgGenerateFailed, nil)
	}
	return Success(resp.Meta.Downloads.ZipFile, resp.Meta)
}
