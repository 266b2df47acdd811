// Package backend is the HTTP client for the membership, payment and geo REST
// backend. Every call goes through one circuit breaker and one span.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"memberportal/pkg/platform/circuit"
	"memberportal/pkg/platform/sentinel"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "memberportal_backend_request_duration_seconds",
		Help:    "Latency of backend REST calls by operation and outcome",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"op", "outcome"})
	breakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memberportal_backend_breaker_transitions_total",
		Help: "Backend circuit breaker state changes",
	}, []string{"to"})
)

const (
	opRegister          = "register"
	opPaymentInit       = "payment_initialize"
	opPaymentVerify     = "payment_verify"
	opVotingInfo        = "voting_info"
	opProvinces         = "geo_provinces"
	opMunicipalities    = "geo_municipalities"
	opWards             = "geo_wards"
	opVotingStations    = "geo_voting_stations"
	opMembershipTypes   = "membership_types"
	maxErrorBodyBytes   = 4 << 10
	maxResponseBodySize = 1 << 20
)

// Client talks to the single backend base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *circuit.Breaker
	tracer  trace.Tracer
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(cl *Client) {
		if b != nil {
			cl.breaker = b
		}
	}
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(cl *Client) {
		if tp != nil {
			cl.tracer = tp.Tracer("memberportal/backend")
		}
	}
}

// New builds a client for baseURL, e.g. "https://api.example.org/api".
func New(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		breaker: circuit.New("backend"),
		tracer:  otel.Tracer("memberportal/backend"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Register submits a completed registration. A response with successful=false
// is returned as-is; only transport and HTTP failures are errors.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) (*Envelope[RegistrationData], error) {
	var out Envelope[RegistrationData]
	if err := c.do(ctx, opRegister, http.MethodPost, "registration", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitializePayment opens a gateway transaction for a registered subscription.
func (c *Client) InitializePayment(ctx context.Context, req PaymentInitRequest) (*Envelope[PaymentInitData], error) {
	var out Envelope[PaymentInitData]
	if err := c.do(ctx, opPaymentInit, http.MethodPost, "payment/initialize", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPayment asks whether the gateway settled reference.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*Envelope[PaymentVerifyData], error) {
	var out Envelope[PaymentVerifyData]
	if err := c.do(ctx, opPaymentVerify, http.MethodPost, "payment/verify", nil, PaymentVerifyRequest{Reference: reference}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VotingInfo looks up the electoral-roll geography for an identity number.
func (c *Client) VotingInfo(ctx context.Context, idNumber string) (*VotingInfo, error) {
	var out Envelope[VotingInfo]
	q := url.Values{"idNumber": {idNumber}}
	if err := c.do(ctx, opVotingInfo, http.MethodGet, "membership/voting-info", q, nil, &out); err != nil {
		return nil, err
	}
	if !out.Successful {
		return nil, &Error{Op: opVotingInfo, Status: http.StatusOK, Message: unsuccessfulMessage(out.Message)}
	}
	return &out.Data, nil
}

func (c *Client) Provinces(ctx context.Context, query string) ([]Option, error) {
	return c.options(ctx, opProvinces, "geoInfo/provinces", url.Values{"q": {query}})
}

func (c *Client) Municipalities(ctx context.Context, province, query string) ([]Option, error) {
	return c.options(ctx, opMunicipalities, "geoInfo/municipalities", url.Values{
		"province": {province},
		"q":        {query},
	})
}

func (c *Client) Wards(ctx context.Context, province, municipality, query string) ([]Option, error) {
	return c.options(ctx, opWards, "geoInfo/wards", url.Values{
		"province":     {province},
		"municipality": {municipality},
		"q":            {query},
	})
}

func (c *Client) VotingStations(ctx context.Context, ward, query string) ([]Option, error) {
	return c.options(ctx, opVotingStations, "geoInfo/voting-stations", url.Values{
		"ward": {ward},
		"q":    {query},
	})
}

// MembershipTypes lists the membership types with their minimum donation.
func (c *Client) MembershipTypes(ctx context.Context) ([]MembershipType, error) {
	var out Envelope[[]MembershipType]
	if err := c.do(ctx, opMembershipTypes, http.MethodGet, "membership/types", nil, nil, &out); err != nil {
		return nil, err
	}
	if !out.Successful {
		return nil, &Error{Op: opMembershipTypes, Status: http.StatusOK, Message: unsuccessfulMessage(out.Message)}
	}
	return out.Data, nil
}

func (c *Client) options(ctx context.Context, op, path string, q url.Values) ([]Option, error) {
	var out Envelope[[]Option]
	if err := c.do(ctx, op, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	if !out.Successful {
		return nil, &Error{Op: op, Status: http.StatusOK, Message: unsuccessfulMessage(out.Message)}
	}
	if out.Data == nil {
		return []Option{}, nil
	}
	return out.Data, nil
}

func unsuccessfulMessage(msg string) string {
	if msg == "" {
		return "request was not successful"
	}
	return msg
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "backend."+op, trace.WithSpanKind(trace.SpanKindClient))
	start := time.Now()
	status := 0
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		span.End()
		requestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	}()

	if !c.breaker.Allow() {
		return &Error{Op: op, Message: "backend temporarily unavailable", Err: sentinel.ErrUnavailable}
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("url.path", endpoint.Path),
	)

	var reader io.Reader
	if body != nil {
		raw, mErr := json.Marshal(body)
		if mErr != nil {
			return &Error{Op: op, Message: "encode request", Err: mErr}
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return &Error{Op: op, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure(ctx, op)
		return &Error{Op: op, Message: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode >= 500 {
		c.recordFailure(ctx, op)
	} else {
		c.recordSuccess(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &Error{Op: op, Status: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func (c *Client) recordFailure(ctx context.Context, op string) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		breakerTransitions.WithLabelValues("open").Inc()
		c.logger.WarnContext(ctx, "backend circuit opened",
			"breaker", c.breaker.Name(),
			"op", op,
		)
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		breakerTransitions.WithLabelValues("closed").Inc()
		c.logger.InfoContext(ctx, "backend circuit closed",
			"breaker", c.breaker.Name(),
		)
	}
}

// errorMessage pulls a message out of an error body, which is either an
// envelope, {"error": "..."} or plain text.
func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Title   string `json:"title"`
	}
	if json.Unmarshal(raw, &body) == nil {
		for _, m := range []string{body.Message, body.Error, body.Title} {
			if m != "" {
				return m
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return fallback
}
