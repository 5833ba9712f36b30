package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/goliatone/go-xzqh/pkg/form"
)

// StatusSuccess is the envelope status marking a generated archive.
const StatusSuccess = "success"

// DefaultTimeout bounds a single generation request when the caller does not
// provide its own HTTP client.
const DefaultTimeout = 2 * time.Minute

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Downloads lists the artefacts produced by the service.
type Downloads struct {
	ZipFile string `json:"zip_file"`
}

// Meta echoes the request parameters alongside the download locations.
type Meta struct {
	Downloads     Downloads `json:"downloads"`
	StartYear     int       `json:"startYear,omitempty"`
	EndYear       int       `json:"endYear,omitempty"`
	Levels        []string  `json:"levels,omitempty"`
	IncludeParent bool      `json:"includeParent,omitempty"`
}

// Response is the JSON envelope returned by the generation service.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Meta    Meta   `json:"meta"`
}

// Succeeded reports whether the envelope carries the success marker.
func (r Response) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Generator is the seam used by the submission controller.
type Generator interface {
	Generate(ctx context.Context, req form.Request) (Response, error)
}

// Client posts generation requests to the remote service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	contract   *Contract
	logger     logrus.FieldLogger
}

// Ensure Client satisfies Generator.
var _ Generator = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The default client wraps the
// default transport with OpenTelemetry instrumentation.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithContract overrides the embedded endpoint contract.
func WithContract(contract *Contract) Option {
	return func(c *Client) {
		if contract != nil {
			c.contract = contract
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHTTPClient returns an HTTP client with an OpenTelemetry instrumented
// transport and the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewClient builds a client for the service rooted at baseURL (scheme and
// host, optionally a path prefix). The endpoint path comes from the contract.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("generate: base URL is required")
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: NewHTTPClient(DefaultTimeout),
		logger:     discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.contract == nil {
		contract, err := DefaultContract()
		if err != nil {
			return nil, err
		}
		c.contract = contract
	}
	return c, nil
}

// Endpoint returns the absolute URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.baseURL + c.contract.Path
}

// Generate issues a single request and decodes the response envelope.
//
// Errors are typed: *ContractError (nothing sent), *TransportError (no
// response), *ServerError (non-2xx status), *MalformedResponseError (body is
// not a JSON envelope). A decoded envelope whose status is not "success" is
// returned without error; interpreting it is the caller's job.
func (c *Client) Generate(ctx context.Context, req form.Request) (Response, error) {
	if err := c.contract.ValidateRequest(req); err != nil {
		return Response{}, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("generate: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, c.contract.method(), c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("generate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log := c.logger.WithFields(logrus.Fields{
		"endpoint":   c.Endpoint(),
		"start_year": req.StartYear,
		"end_year":   req.EndYear,
		"levels":     strings.Join(req.Levels, ","),
	})
	log.Debug("generate: sending request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.WithError(err).Warn("generate: transport failure")
		return Response{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.WithError(err).Warn("generate: read body failed")
		return Response{}, &TransportError{Err: err}
	}

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope Response
		if err := json.Unmarshal(raw, &envelope); err != nil {
			log.WithError(err).Warn("generate: undecodable error body")
			return Response{}, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
		}
		log.WithField("message", envelope.Message).Info("generate: server rejected request")
		return Response{}, &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(envelope.Message)}
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.WithError(err).Warn("generate: undecodable success body")
		return Response{}, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
	}
	log.WithField("envelope_status", envelope.Status).Debug("generate: response decoded")
	return envelope, nil
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
