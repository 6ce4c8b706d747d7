package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/tkingovr/body-guard/internal/body"
	"github.com/tkingovr/body-guard/internal/host"
)

// errFilter marks response failures caused by the body filters rather than
// by the upstream.
var errFilter = errors.New("body filter failed")

type requestKey struct{}

// Options controls body buffering and per-request limits.
type Options struct {
	// BufferSize is the number of body bytes kept in memory. The rest is
	// spilled into a temporary file.
	BufferSize int

	// TempDir is where spill files are created. Empty means os.TempDir.
	TempDir string

	// ArenaLimit bounds the memory a request may use for rebuilt bodies.
	ArenaLimit int
}

// Proxy is an HTTP reverse proxy that runs every request body through the
// access stage and every response body through the output body stage of
// a host pipeline.
type Proxy struct {
	target       *url.URL
	reverseProxy *httputil.ReverseProxy
	pipeline     *host.Pipeline
	opts         Options
	logger       *slog.Logger
}

// NewProxy creates a new proxy targeting the given URL. The pipeline must
// be started before requests are served.
func NewProxy(target string, pipeline *host.Pipeline, opts Options, logger *slog.Logger) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid target URL %q: scheme and host are required", target)
	}
	if opts.BufferSize <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", opts.BufferSize)
	}

	p := &Proxy{
		target:   u,
		pipeline: pipeline,
		opts:     opts,
		logger:   logger,
	}

	rp := httputil.NewSingleHostReverseProxy(u)
	director := rp.Director
	rp.Director = func(req *http.Request) {
		director(req)
		req.Host = u.Host
		// Let the transport negotiate compression so filters see plain bodies.
		req.Header.Del("Accept-Encoding")
	}
	rp.ModifyResponse = p.modifyResponse
	rp.ErrorHandler = p.errorHandler
	p.reverseProxy = rp

	return p, nil
}

// ServeHTTP handles incoming HTTP requests.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := p.spool(r.Body)
	r.Body.Close()
	if err != nil {
		p.logger.Error("reading request body", "error", err)
		http.Error(w, "failed to read request", http.StatusBadRequest)
		return
	}
	defer cleanup()

	hr := host.NewRequest(r.Method, r.URL.Path, p.opts.ArenaLimit)
	hr.ContentType = r.Header.Get("Content-Type")
	hr.Body = in

	code := p.pipeline.Access(r.Context(), hr)
	switch {
	case code.IsStatus():
		p.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", int(code))
		http.Error(w, http.StatusText(int(code)), int(code))
		return
	case code == host.Error:
		http.Error(w, "internal filter error", http.StatusInternalServerError)
		return
	}

	// Forward the request with the body as the access stage saw it
	r.ContentLength = in.Size()
	if r.ContentLength == 0 {
		r.Body = http.NoBody
	} else {
		r.Body = io.NopCloser(body.NewStream(in))
	}
	r.Header.Del("Transfer-Encoding")
	r = r.WithContext(context.WithValue(r.Context(), requestKey{}, hr))
	p.reverseProxy.ServeHTTP(w, r)
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	hr, ok := resp.Request.Context().Value(requestKey{}).(*host.Request)
	if !ok {
		return nil
	}

	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "text/event-stream" {
		p.logger.Debug("SSE response stream passed through", "status", resp.StatusCode)
		return nil
	}
	if ce := resp.Header.Get("Content-Encoding"); ce != "" && ce != "identity" {
		p.logger.Debug("encoded response passed through", "encoding", ce, "path", hr.Path)
		return nil
	}

	in, cleanup, err := p.spool(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	hr.Response.SetContentLength(resp.ContentLength)
	if code := p.pipeline.Filter(resp.Request.Context(), hr, in); code != host.OK {
		cleanup()
		return fmt.Errorf("%w: %s", errFilter, code)
	}

	resp.Body = &chainBody{Reader: body.NewStream(hr.Output), cleanup: cleanup}
	if n := hr.Response.ContentLength; n != resp.ContentLength {
		resp.ContentLength = n
		if n >= 0 {
			resp.Header.Set("Content-Length", strconv.FormatInt(n, 10))
		} else {
			resp.Header.Del("Content-Length")
		}
	}
	return nil
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errFilter) {
		p.logger.Error("response filter error", "error", err, "url", r.URL.String())
		http.Error(w, "internal filter error", http.StatusInternalServerError)
		return
	}
	p.logger.Error("proxy error", "error", err, "url", r.URL.String())
	http.Error(w, "proxy error: "+err.Error(), http.StatusBadGateway)
}

// chainBody streams a body chain and drops its spill files on Close.
type chainBody struct {
	io.Reader
	cleanup func()
}

func (b *chainBody) Close() error {
	b.cleanup()
	return nil
}

// Handler returns an http.Handler for use with http.Server.
func (p *Proxy) Handler() http.Handler {
	return p
}

// ListenAndServe starts the HTTP proxy server.
func (p *Proxy) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: p,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	p.logger.Info("starting HTTP proxy",
		"listen", addr,
		"target", p.target.String(),
	)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) && ctx.Err() != nil {
		return nil
	}
	return err
}
