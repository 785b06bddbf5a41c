// Package verifier performs liveness checks on citation URLs. It is pure
// I/O: nothing here touches persisted state, so a verification pass can be
// re-run at any time.
package verifier

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/resilience"
)

// Result classifies one URL after probing.
type Result struct {
	URL        string                   `json:"url"`
	Alive      bool                     `json:"alive"`
	StatusCode int                      `json:"statusCode,omitempty"`
	Status     model.VerificationStatus `json:"verificationStatus"`
	Err        string                   `json:"error,omitempty"`
}

// definitiveError marks a probe that reached the server and got a
// conclusive 4xx/5xx. Not retryable.
type definitiveError struct {
	statusCode int
}

func (e *definitiveError) Error() string {
	return "definitive status " + http.StatusText(e.statusCode)
}

// Option configures the verifier.
type Option func(*Verifier)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(v *Verifier) { v.http = hc }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(v *Verifier) { v.retry = cfg }
}

// WithTimeout sets the per-request timeout. Bounded to keep a hung endpoint
// from stalling a whole batch.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		v.http.Timeout = d
	}
}

// WithConcurrency caps how many probes VerifyAll runs at once. 0 means
// batch-sized (effectively unbounded for typical batches).
func WithConcurrency(n int) Option {
	return func(v *Verifier) { v.concurrency = n }
}

// Verifier probes citation URLs with HEAD (GET fallback for government
// endpoints) and classifies each as verified, unverified, or failed.
type Verifier struct {
	http        *http.Client
	reg         *registry.Registry
	retry       resilience.RetryConfig
	userAgent   string
	concurrency int
}

// New creates a Verifier. The registry drives the government-domain
// leniency rules.
func New(reg *registry.Registry, opts ...Option) *Verifier {
	v := &Verifier{
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 8 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 8 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		reg:       reg,
		retry:     resilience.VerifierRetryConfig(),
		userAgent: "Mozilla/5.0 (compatible; CitationBot/1.0)",
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Verify probes one URL. Government-classified domains degrade to
// unverified on transport failure instead of failed, because official sites
// intermittently reject HEAD or bungle TLS handshakes with automated
// clients.
func (v *Verifier) Verify(ctx context.Context, rawURL string) Result {
	isGov := v.reg != nil && v.reg.IsGovernment(rawURL)

	status, err := resilience.DoVal(ctx, v.retry, func(ctx context.Context) (int, error) {
		return v.probe(ctx, rawURL, isGov)
	})

	if err == nil {
		return Result{URL: rawURL, Alive: true, StatusCode: status, Status: model.VerificationVerified}
	}

	var de *definitiveError
	if errors.As(err, &de) {
		return Result{
			URL:        rawURL,
			StatusCode: de.statusCode,
			Status:     model.VerificationFailed,
			Err:        de.Error(),
		}
	}

	// Transport-level failure: lenient for government endpoints.
	st := model.VerificationFailed
	if isGov {
		st = model.VerificationUnverified
	}
	return Result{URL: rawURL, Status: st, Err: err.Error()}
}

// VerifyCitation verifies one citation with the PDF exemption applied: a PDF
// replacement for a PDF original skips probing entirely, since PDF endpoints
// frequently reject HEAD and GET despite being valid.
func (v *Verifier) VerifyCitation(ctx context.Context, c model.Citation, originalWasPDF bool) Result {
	if originalWasPDF && c.IsPDF() {
		return Result{URL: c.URL, Alive: true, Status: model.VerificationVerified}
	}
	return v.Verify(ctx, c.URL)
}

// VerifyAll fans verification out over the batch so end-to-end latency is
// roughly constant regardless of result-set size. Concurrency is bounded by
// the batch size.
func (v *Verifier) VerifyAll(ctx context.Context, urls []string) map[string]Result {
	results := make([]Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	limit := v.concurrency
	if limit <= 0 {
		limit = len(urls) + 1
	}
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = v.Verify(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Result, len(urls))
	for _, r := range results {
		out[r.URL] = r
	}
	return out
}

// probe issues one HEAD (plus GET fallback for government domains) and
// returns the status code on success. 200 and 403 count as alive — a 403 is
// usually bot-blocking, not absence.
func (v *Verifier) probe(ctx context.Context, rawURL string, isGov bool) (int, error) {
	status, headErr := v.request(ctx, http.MethodHead, rawURL)
	if headErr == nil {
		return status, nil
	}

	if isGov {
		// Government endpoints often reject HEAD outright; give GET one shot
		// within the same attempt.
		zap.L().Debug("verifier: HEAD failed on government domain, trying GET",
			zap.String("url", rawURL),
			zap.Error(headErr),
		)
		if status, getErr := v.request(ctx, http.MethodGet, rawURL); getErr == nil {
			return status, nil
		}
	}

	return 0, headErr
}

func (v *Verifier) request(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, &definitiveError{statusCode: http.StatusBadRequest}
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.http.Do(req)
	if err != nil {
		return 0, eris.Wrapf(err, "verifier: %s %s", method, rawURL)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusForbidden {
		return resp.StatusCode, nil
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return 0, resilience.NewTransientError(
			eris.Errorf("verifier: status %d for %s", resp.StatusCode, rawURL),
			resp.StatusCode,
		)
	}

	return 0, &definitiveError{statusCode: resp.StatusCode}
}
