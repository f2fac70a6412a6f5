// Package transport issues the HTTP calls behind every resource client and
// hands each result to the callback loop.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/metrics"
	"github.com/bnema/fin/internal/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

type Options struct {
	HTTPClient *http.Client
	// Jar replaces the client's cookie jar. When both are empty an
	// in-memory jar is created.
	Jar http.CookieJar
	// Scheduler receives every asynchronous callback. Nil runs callbacks
	// on the request goroutine.
	Scheduler ports.Scheduler
	// Timeout bounds each request; zero means no limit.
	Timeout      time.Duration
	Metrics      *metrics.Transport
	Logger       logrus.FieldLogger
	NewRequestID func() string
}

type HTTP struct {
	client    *http.Client
	scheduler ports.Scheduler
	timeout   time.Duration
	metrics   *metrics.Transport
	log       logrus.FieldLogger
	requestID func() string
}

var _ ports.Transport = (*HTTP)(nil)

func New(opts Options) (*HTTP, error) {
	client := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		client = &copied
	}
	switch {
	case opts.Jar != nil:
		client.Jar = opts.Jar
	case client.Jar == nil:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		client.Jar = jar
	}

	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = ports.SchedulerFunc(func(fn func()) { fn() })
	}
	requestID := opts.NewRequestID
	if requestID == nil {
		requestID = uuid.NewString
	}

	return &HTTP{
		client:    client,
		scheduler: scheduler,
		timeout:   opts.Timeout,
		metrics:   opts.Metrics,
		log:       logging.Component(opts.Logger, "transport"),
		requestID: requestID,
	}, nil
}

// Send delivers exactly one callback. Requests that cannot be built are
// reported before Send returns; everything else arrives through the
// scheduler.
func (t *HTTP) Send(ctx context.Context, req ports.Request, cb ports.Callback) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))

	requestCtx, cancel := ctx, context.CancelFunc(func() {})
	if t.timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, t.timeout)
	}

	httpReq, err := t.build(requestCtx, method, req)
	if err != nil {
		cancel()
		t.metrics.Start(method)(metrics.OutcomeOpenFailed)
		t.log.WithError(err).WithField("url", req.URL).Warn("request not sent")
		cb(nil, &Error{Err: err})
		return
	}

	entry := t.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       httpReq.URL.Path,
		"request_id": httpReq.Header.Get(HeaderRequestID),
	})
	entry.Debug("request sent")
	finish := t.metrics.Start(method)

	go func() {
		defer cancel()

		resp, err := t.roundTrip(httpReq, req.ResponseKind)
		switch {
		case err == nil:
			finish(metrics.OutcomeResponse)
			entry.WithField("status", resp.Status).Debug("response received")
		case resp == nil && isDecodeError(err):
			finish(metrics.OutcomeDecodeFail)
			entry.WithError(err).Warn("response not decoded")
		default:
			finish(metrics.OutcomeNetworkFail)
			entry.WithError(err).Warn("request failed")
		}

		t.scheduler.Post(func() { cb(resp, err) })
	}()
}

func (t *HTTP) build(ctx context.Context, method string, req ports.Request) (*http.Request, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMethod, req.Method)
	}

	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w %q", ErrMalformedURL, req.URL)
	}

	var (
		body        io.Reader
		contentType string
	)
	if method == http.MethodGet {
		appendQuery(u, req.Data)
	} else {
		buf, ct, err := encodeForm(req.Data)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.ResponseKind != ports.ResponseText && httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, t.requestID())
	}

	return httpReq, nil
}

func (t *HTTP) roundTrip(httpReq *http.Request, kind ports.ResponseKind) (*ports.Response, error) {
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	statusText := statusText(resp)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, StatusText: statusText, Err: fmt.Errorf("read body: %w", err)}
	}
	if kind != ports.ResponseText && !gjson.ValidBytes(body) {
		return nil, &Error{Status: resp.StatusCode, StatusText: statusText, Err: fmt.Errorf("%w: body is not json", ErrDecode)}
	}

	return &ports.Response{
		Status:     resp.StatusCode,
		StatusText: statusText,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func isDecodeError(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Status != 0
}
