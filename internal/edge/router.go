// Package edge routes API paths to the inspection and report services and
// serves the static client with an index.html fallback for client-side
// routes.
package edge

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"inspections/internal/server"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

var proxyMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

type Options struct {
	InspectionAPIURL string
	ReportAPIURL     string
	StaticDir        string
}

type Router struct {
	logger    *logrus.Logger
	staticDir string
	files     http.Handler

	inspections http.Handler
	reports     http.Handler
}

func New(logger *logrus.Logger, opts Options) (*Router, error) {
	rt := &Router{
		logger:    logger,
		staticDir: opts.StaticDir,
		files:     http.FileServer(http.Dir(opts.StaticDir)),
	}

	var err error
	if rt.inspections, err = rt.proxy("inspection-api", opts.InspectionAPIURL, "Unable to reach inspection API"); err != nil {
		return nil, err
	}
	if rt.reports, err = rt.proxy("report-service", opts.ReportAPIURL, "Unable to reach report service"); err != nil {
		return nil, err
	}

	if rt.inspections == nil {
		logger.Warn("INSPECTION_API_URL is not set, /api/inspections will return 503")
	}
	if rt.reports == nil {
		logger.Warn("REPORT_API_URL is not set, /api/reports will return 503")
	}

	return rt, nil
}

func (rt *Router) Routes(r *flow.Mux) {
	inspections := rt.orUnavailable(rt.inspections)
	reports := rt.orUnavailable(rt.reports)

	r.Handle("/api/inspections", inspections, proxyMethods...)
	r.Handle("/api/inspections/...", inspections, proxyMethods...)
	r.Handle("/api/presigned-url", inspections, proxyMethods...)
	r.Handle("/api/reports", reports, proxyMethods...)
	r.Handle("/api/reports/...", reports, proxyMethods...)
	r.Handle("/api/...", rt.orUnavailable(nil), proxyMethods...)

	r.HandleFunc("/...", rt.handleStatic, http.MethodGet)
}

// proxy returns nil when rawURL is empty.
func (rt *Router) proxy(name, rawURL, unreachable string) (http.Handler, error) {
	if rawURL == "" {
		return nil, nil
	}

	target, err := url.Parse(rawURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid %s url %q", name, rawURL)
	}

	rt.logger.WithField("target", target.String()).Infof("proxying %s", name)

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if id := server.RequestIDFromContext(pr.In.Context()); id != "" {
				pr.Out.Header.Set(server.HeaderRequestID, id)
			}
		},
		// The edge sets these itself; upstream copies would be duplicated.
		ModifyResponse: func(resp *http.Response) error {
			for key := range resp.Header {
				if strings.HasPrefix(key, "Access-Control-") || key == http.CanonicalHeaderKey(server.HeaderRequestID) {
					resp.Header.Del(key)
				}
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			rt.logger.WithError(err).WithField("upstream", name).Error("proxy error")
			server.WriteJSON(w, http.StatusBadGateway, map[string]any{
				"error":   "Bad Gateway",
				"message": unreachable,
			})
		},
	}, nil
}

func (rt *Router) orUnavailable(h http.Handler) http.Handler {
	if h != nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":   "Service Unavailable",
			"message": "API service not configured",
		})
	})
}

// handleStatic serves files from the static directory and falls back to
// index.html for anything that is not a regular file.
func (rt *Router) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	full := filepath.Join(rt.staticDir, filepath.FromSlash(name))

	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		rt.files.ServeHTTP(w, r)
		return
	}

	http.ServeFile(w, r, filepath.Join(rt.staticDir, "index.html"))
}
