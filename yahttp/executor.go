// Package yahttp executes HTTP requests resiliently. One call to Execute may
// perform several physical sends: it follows redirects, lets an unsuccessful
// response handler fix up the request, backs off and retries on unsuccessful
// responses or transport failures, all bounded by a single retry budget.
//
// For every non-2xx response the order is fixed: the handler first, then the
// redirect resolver, then back-off. A response is never both redirected and
// backed off.
//
// Example usage:
//
//	cfg := yahttp.DefaultConfig()
//	cfg.BackoffUnsuccessful = true
//
//	executor, err := yahttp.NewDefaultExecutor(cfg, log)
//	if err != nil {
//		return err
//	}
//
//	req, _ := yahttp.NewRequest(http.MethodGet, "https://example.com/status", nil)
//
//	resp, err := executor.Execute(ctx, req)
//	if err != nil {
//		if respErr, ok := yaerrors.As[*yahttp.UnsuccessfulResponseError](err); ok {
//			log.Warnf("server said %d", respErr.StatusCode)
//		}
//		return err
//	}
//	defer resp.Ignore()
package yahttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/YaCodeDev/GoYaHTTP/yabackoff"
	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/YaCodeDev/GoYaHTTP/yagzip"
	"github.com/YaCodeDev/GoYaHTTP/yalogger"
	"github.com/YaCodeDev/GoYaHTTP/yaretry"
)

const instrumentationName = "github.com/YaCodeDev/GoYaHTTP/yahttp"

// BackoffFactory builds a fresh back-off for one logical request.
type BackoffFactory func() yabackoff.Backoff

// Option customises an Executor.
type Option func(*Executor)

// WithLogger sets the logger. Every logical request logs with its own request id.
func WithLogger(log yalogger.Logger) Option {
	return func(e *Executor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTransportBackoff sets the back-off used between transport-failure retries.
// It only applies when Config.RetryOnTransportFailure is set.
func WithTransportBackoff(factory BackoffFactory) Option {
	return func(e *Executor) {
		e.transportBackoff = factory
	}
}

// WithResponseBackoff sets the back-off used between retries of unsuccessful
// responses. A nil factory disables response back-off.
//
// Example usage:
//
//	yahttp.WithResponseBackoff(func() yabackoff.Backoff {
//		return yabackoff.NewConstant(10*time.Millisecond, 7)
//	})
func WithResponseBackoff(factory BackoffFactory) Option {
	return func(e *Executor) {
		e.responseBackoff = factory
	}
}

// WithBackoffRequired replaces the rule deciding which status codes are backed off.
func WithBackoffRequired(required BackoffRequired) Option {
	return func(e *Executor) {
		if required != nil {
			e.backoffRequired = required
		}
	}
}

// WithTransportRetryable replaces the rule deciding which transport errors are
// retried. The default accepts everything except context cancellation.
func WithTransportRetryable(retryable func(error) bool) Option {
	return func(e *Executor) {
		if retryable != nil {
			e.transportRetryable = retryable
		}
	}
}

// WithUnsuccessfulResponseHandler installs the handler consulted first on every
// non-2xx response.
func WithUnsuccessfulResponseHandler(handler UnsuccessfulResponseHandler) Option {
	return func(e *Executor) {
		e.handler = handler
	}
}

// WithExecuteInterceptors appends interceptors run before every send.
func WithExecuteInterceptors(interceptors ...ExecuteInterceptor) Option {
	return func(e *Executor) {
		e.executeInterceptors = append(e.executeInterceptors, interceptors...)
	}
}

// WithResponseInterceptors appends interceptors run on the returned response.
func WithResponseInterceptors(interceptors ...ResponseInterceptor) Option {
	return func(e *Executor) {
		e.responseInterceptors = append(e.responseInterceptors, interceptors...)
	}
}

// WithSleeper replaces the sleeper used for back-off waits.
func WithSleeper(sleeper yabackoff.Sleeper) Option {
	return func(e *Executor) {
		if sleeper != nil {
			e.sleeper = sleeper
		}
	}
}

// WithTracerProvider records one span per logical request.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(e *Executor) {
		if provider != nil {
			e.tracer = provider.Tracer(instrumentationName)
		}
	}
}

// WithMeterProvider counts sends in the yahttp.attempts counter.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(e *Executor) {
		if provider != nil {
			e.meter = provider.Meter(instrumentationName)
		}
	}
}

// WithPropagator replaces the propagator injecting trace context into request headers.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(e *Executor) {
		if propagator != nil {
			e.propagator = propagator
		}
	}
}

// Executor runs logical requests over a Transport. It holds no per-request state
// and is safe for concurrent use.
type Executor struct {
	transport            Transport
	cfg                  Config
	log                  yalogger.Logger
	gzip                 *yagzip.Gzip
	transportBackoff     BackoffFactory
	responseBackoff      BackoffFactory
	backoffRequired      BackoffRequired
	transportRetryable   func(error) bool
	handler              UnsuccessfulResponseHandler
	executeInterceptors  []ExecuteInterceptor
	responseInterceptors []ResponseInterceptor
	sleeper              yabackoff.Sleeper
	tracer               trace.Tracer
	meter                metric.Meter
	attempts             metric.Int64Counter
	propagator           propagation.TextMapPropagator
}

// NewExecutor builds an Executor over transport. Back-off for transport failures
// and unsuccessful responses comes from cfg.Backoff unless replaced by options.
//
// Example usage:
//
//	executor, err := yahttp.NewExecutor(transport, cfg,
//		yahttp.WithLogger(log),
//		yahttp.WithUnsuccessfulResponseHandler(refreshToken),
//	)
func NewExecutor(transport Transport, cfg Config, opts ...Option) (*Executor, yaerrors.Error) {
	if transport == nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, ErrInvalidRequest, "[HTTP] executor needs a transport")
	}

	e := &Executor{
		transport:          transport,
		cfg:                cfg,
		log:                yalogger.NewNop(),
		gzip:               yagzip.NewGzip(),
		backoffRequired:    BackoffOnServerError,
		transportRetryable: isRetryableTransportError,
		sleeper:            yabackoff.DefaultSleeper,
		tracer:             tracenoop.NewTracerProvider().Tracer(instrumentationName),
		meter:              metricnoop.NewMeterProvider().Meter(instrumentationName),
		propagator:         propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}

	if len(cfg.BackoffStatusCodes) > 0 {
		e.backoffRequired = BackoffOnStatusCodes(cfg.BackoffStatusCodes...)
	}

	if cfg.RetryOnTransportFailure || cfg.BackoffUnsuccessful {
		if err := cfg.Backoff.Validate(); err != nil {
			return nil, err.Wrap("[HTTP] executor backoff")
		}

		factory := exponentialFactory(cfg.Backoff)

		if cfg.RetryOnTransportFailure {
			e.transportBackoff = factory
		}

		if cfg.BackoffUnsuccessful {
			e.responseBackoff = factory
		}
	}

	for _, opt := range opts {
		opt(e)
	}

	counter, err := e.meter.Int64Counter(
		"yahttp.attempts",
		metric.WithDescription("Physical sends performed by the executor"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "[HTTP] create attempts counter")
	}

	e.attempts = counter

	return e, nil
}

// NewDefaultExecutor builds an Executor over a NetTransport configured from cfg.
func NewDefaultExecutor(cfg Config, log yalogger.Logger, opts ...Option) (*Executor, yaerrors.Error) {
	transport, err := NewNetTransport(cfg.Timeout, cfg.ProxyURL, log)
	if err != nil {
		return nil, err.Wrap("[HTTP] default executor")
	}

	return NewExecutor(transport, cfg, append([]Option{WithLogger(log)}, opts...)...)
}

func exponentialFactory(cfg yabackoff.ExponentialConfig) BackoffFactory {
	return func() yabackoff.Backoff {
		backoff, err := yabackoff.NewExponentialWithConfig(cfg)
		if err != nil {
			return yabackoff.StopBackoff{}
		}

		return backoff
	}
}

func isRetryableTransportError(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Do is Execute for a request built from method, rawURL and content.
//
// Example usage:
//
//	resp, err := executor.Do(ctx, http.MethodPost, "https://api.local/users", yahttp.NewJSONContent(user))
func (e *Executor) Do(ctx context.Context, method, rawURL string, content Content) (*Response, yaerrors.Error) {
	req, err := NewRequest(method, rawURL, content)
	if err != nil {
		return nil, err
	}

	return e.Execute(ctx, req)
}

// Execute runs req until it succeeds, fails terminally or the retry budget runs
// out. On success the caller owns Response.Body. Errors wrap one of
// *TransportError, *UnsuccessfulResponseError, *RedirectProtocolError or
// *CancellationError, and their codes are the final status code, 502, 502 and 499
// respectively.
//
// With Config.ErrorOnUnsuccessful unset, a terminal non-2xx response is returned
// instead of an UnsuccessfulResponseError.
func (e *Executor) Execute(ctx context.Context, req *Request) (*Response, yaerrors.Error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	x := e.newExecution(req)

	ctx, span := e.tracer.Start(ctx, "yahttp.execute",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(x.req.Method),
			semconv.URLFullKey.String(x.req.URL.Redacted()),
			semconv.ServerAddressKey.String(x.req.URL.Hostname()),
		),
	)
	defer span.End()

	x.span = span

	resp, err := x.run(ctx)

	span.SetAttributes(attribute.Int("yahttp.sends", x.sends))

	if resp != nil {
		span.SetAttributes(semconv.HTTPResponseStatusCodeKey.Int(resp.StatusCode))

		for _, interceptor := range e.responseInterceptors {
			if ierr := interceptor(ctx, resp); ierr != nil {
				_ = resp.Ignore()
				resp = nil
				err = yaerrors.FromErrorWithLog(
					http.StatusInternalServerError,
					fmt.Errorf("%w: %w", ErrInterceptor, ierr),
					"[HTTP] response interceptor",
					x.log,
				)

				break
			}
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.UnwrapLastError())

		return nil, err
	}

	return resp, nil
}

// execution is the state of one logical request. The retriers and their back-off
// policies live for the whole request so elapsed-time accounting spans attempts.
type execution struct {
	*Executor

	req              *Request
	log              yalogger.Logger
	span             trace.Span
	retries          uint
	sends            int
	transportRetrier *yaretry.Retrier[error]
	responseRetrier  *yaretry.Retrier[int]
	lastFailure      error
}

func (e *Executor) newExecution(req *Request) *execution {
	x := &execution{
		Executor: e,
		req:      req.Clone(),
	}

	x.log = e.log.WithRandomRequestID().WithFields(map[string]any{
		"method": x.req.Method,
		"url":    x.req.URL.Redacted(),
	})

	var transportBackoff, responseBackoff yabackoff.Backoff

	if e.cfg.RetryOnTransportFailure && e.transportBackoff != nil {
		transportBackoff = e.transportBackoff()
	}

	if e.responseBackoff != nil {
		responseBackoff = e.responseBackoff()
	}

	x.transportRetrier = yaretry.New(
		transportBackoff,
		e.transportRetryable,
		yaretry.WithSleeper(e.sleeper),
		yaretry.WithLogger(x.log),
	)
	x.responseRetrier = yaretry.New(
		responseBackoff,
		func(status int) bool { return e.backoffRequired(status) },
		yaretry.WithSleeper(e.sleeper),
		yaretry.WithLogger(x.log),
	)

	return x
}

// retryable reports whether another send may follow the current one.
func (x *execution) retryable() bool {
	if x.retries >= x.cfg.MaxRetries {
		return false
	}

	return x.req.Content == nil || x.req.Content.RetrySupported()
}

func (x *execution) run(ctx context.Context) (*Response, yaerrors.Error) {
	for {
		retryable := x.retryable()

		resp, err := x.send(ctx)
		if err != nil {
			if errors.Is(err, ErrInterceptor) {
				return nil, yaerrors.FromErrorWithLog(
					http.StatusInternalServerError,
					err,
					"[HTTP] execute interceptor",
					x.log,
				)
			}

			if ctx.Err() != nil {
				return nil, x.cancellation(ctx.Err(), &TransportError{
					Method: x.req.Method,
					URL:    x.req.URL,
					Sends:  x.sends,
					Cause:  err,
				})
			}

			if x.cfg.RetryOnTransportFailure && retryable {
				retry, rerr := x.transportRetrier.ShouldRetry(ctx, err)
				if rerr != nil {
					return nil, x.cancellation(rerr, err)
				}

				if retry {
					x.next("transport", err)

					continue
				}
			}

			return nil, yaerrors.FromErrorWithLog(
				http.StatusBadGateway,
				&TransportError{Method: x.req.Method, URL: x.req.URL, Sends: x.sends, Cause: err},
				"[HTTP] send",
				x.log,
			)
		}

		if resp.IsSuccess() {
			x.log.Debugf("Received %d after %d sends", resp.StatusCode, x.sends)

			return resp, nil
		}

		if x.handler != nil {
			handled, herr := x.handler.HandleResponse(ctx, x.req, resp, retryable)
			if herr != nil {
				_ = resp.Ignore()

				return nil, yaerrors.FromErrorWithLog(
					yaerrors.CodeOf(herr),
					herr,
					"[HTTP] unsuccessful response handler",
					x.log,
				)
			}

			if handled {
				if !retryable {
					return x.terminal(resp)
				}

				_ = resp.Ignore()
				x.next("handled", nil)

				continue
			}
		}

		if x.cfg.FollowRedirects && IsRedirect(resp.StatusCode) {
			decision, rerr := ResolveRedirect(resp.StatusCode, resp.Header, x.req.Method, x.req.URL)
			if rerr != nil {
				return nil, x.redirectProtocol(resp, rerr)
			}

			if !retryable {
				return x.terminal(resp)
			}

			_ = resp.Ignore()

			x.log.Debugf("Following %d redirect to %s", resp.StatusCode, decision.URL.Redacted())
			x.req.applyRedirect(decision)
			x.next("redirect", nil)

			continue
		}

		if retryable {
			retry, rerr := x.responseRetrier.ShouldRetry(ctx, resp.StatusCode)
			if rerr != nil {
				last := resp.unsuccessfulError()
				_ = resp.Ignore()

				return nil, x.cancellation(rerr, last)
			}

			if retry {
				_ = resp.Ignore()
				x.next("backoff", nil)

				continue
			}
		}

		return x.terminal(resp)
	}
}

// next consumes one unit of the retry budget.
func (x *execution) next(reason string, failure error) {
	x.retries++
	x.lastFailure = failure

	x.span.AddEvent(fmt.Sprintf("retry #%d", x.retries), trace.WithAttributes(
		attribute.String("yahttp.retry.reason", reason),
		semconv.URLFullKey.String(x.req.URL.Redacted()),
	))

	if failure != nil {
		x.log.Warnf("Retrying after %s failure (%d/%d): %v", reason, x.retries, x.cfg.MaxRetries, failure)
	} else {
		x.log.Debugf("Retrying after %s (%d/%d)", reason, x.retries, x.cfg.MaxRetries)
	}
}

// send runs the execute interceptors and performs one physical attempt.
func (x *execution) send(ctx context.Context) (*Response, error) {
	for _, interceptor := range x.executeInterceptors {
		if err := interceptor(ctx, x.req); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterceptor, err)
		}
	}

	tr := x.transportRequest(ctx)

	x.sends++
	x.attempts.Add(ctx, 1, metric.WithAttributes(semconv.HTTPRequestMethodKey.String(x.req.Method)))
	x.log.Debugf("Send #%d %s %s", x.sends, tr.Method, tr.URL.Redacted())

	resp, err := x.transport.Send(ctx, tr)

	if tr.Body != nil {
		_ = tr.Body.Close()
	}

	if err != nil {
		return nil, err
	}

	return newResponse(resp, x.req.Method, x.req.URL, x.sends), nil
}

// transportRequest renders the current request for the wire. Headers are rebuilt
// from the request on every attempt so per-attempt additions never accumulate.
func (x *execution) transportRequest(ctx context.Context) *TransportRequest {
	header := make(http.Header, len(x.req.Header)+len(x.cfg.DefaultHeaders)+4)

	for name, value := range x.cfg.DefaultHeaders {
		header.Set(name, value)
	}

	for name, values := range x.req.Header {
		header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}

	if userAgent := x.userAgent(header.Get("User-Agent")); userAgent != "" {
		header.Set("User-Agent", userAgent)
	}

	if header.Get("Accept-Encoding") == "" {
		header.Set("Accept-Encoding", yagzip.EncodingGzip)
	}

	x.propagator.Inject(ctx, propagation.HeaderCarrier(header))

	tr := &TransportRequest{
		Method: x.req.Method,
		URL:    x.req.URL,
		Header: header,
	}

	content := x.req.Content
	if content == nil {
		return tr
	}

	if typ := content.Type(); typ != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", typ)
	}

	if x.cfg.GzipRequests {
		header.Set("Content-Encoding", yagzip.EncodingGzip)

		tr.Body = x.gzip.EncodeReader(func(w io.Writer) error {
			_, err := content.WriteTo(w)

			return err
		})
		tr.ContentLength = -1

		return tr
	}

	if content.Length() == 0 {
		return tr
	}

	tr.Body, tr.ContentLength = contentBody(content)

	return tr
}

func (x *execution) userAgent(current string) string {
	if current == "" {
		current = x.cfg.UserAgent
	}

	if x.cfg.SuppressUserAgentSuffix {
		return current
	}

	if current == "" {
		return UserAgentSuffix
	}

	if strings.HasSuffix(current, UserAgentSuffix) {
		return current
	}

	return current + " " + UserAgentSuffix
}

// contentBody opens content directly when it supports it and otherwise streams
// WriteTo through a pipe.
func contentBody(content Content) (io.ReadCloser, int64) {
	if o, ok := content.(opener); ok {
		r, err := o.Open()
		if err != nil {
			pr, pw := io.Pipe()
			_ = pw.CloseWithError(err)

			return pr, -1
		}

		return io.NopCloser(r), content.Length()
	}

	pr, pw := io.Pipe()

	go func() {
		_, err := content.WriteTo(pw)
		_ = pw.CloseWithError(err)
	}()

	return pr, content.Length()
}

// terminal ends the request with resp: either as an UnsuccessfulResponseError
// carrying a body excerpt, or as the live response when errors are disabled.
func (x *execution) terminal(resp *Response) (*Response, yaerrors.Error) {
	if !x.cfg.ErrorOnUnsuccessful {
		return resp, nil
	}

	respErr := resp.unsuccessfulError()
	respErr.Content = resp.snapshot(x.cfg.ContentLoggingLimit)

	return nil, yaerrors.FromErrorWithLog(
		resp.StatusCode,
		respErr,
		fmt.Sprintf("[HTTP] %s %s", x.req.Method, x.req.URL.Redacted()),
		x.log,
	)
}

func (x *execution) redirectProtocol(resp *Response, rerr yaerrors.Error) yaerrors.Error {
	respErr := resp.unsuccessfulError()
	respErr.Content = resp.snapshot(x.cfg.ContentLoggingLimit)

	protocolErr, ok := yaerrors.As[*RedirectProtocolError](rerr)
	if !ok {
		protocolErr = &RedirectProtocolError{StatusCode: resp.StatusCode, Reason: rerr.Error()}
	}

	protocolErr.Response = respErr

	return yaerrors.FromErrorWithLog(
		http.StatusBadGateway,
		protocolErr,
		fmt.Sprintf("[HTTP] %s %s", x.req.Method, x.req.URL.Redacted()),
		x.log,
	)
}

func (x *execution) cancellation(cause error, last error) yaerrors.Error {
	if last == nil {
		last = x.lastFailure
	}

	return yaerrors.FromErrorWithLog(
		StatusClientClosedRequest,
		&CancellationError{
			Method: x.req.Method,
			URL:    x.req.URL,
			Sends:  x.sends,
			Cause:  cause,
			Last:   last,
		},
		"[HTTP] canceled",
		x.log,
	)
}
