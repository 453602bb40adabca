package apiclient

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/fatih/color"
)

var methodColors = map[string]color.Attribute{
	http.MethodGet:    color.FgGreen,
	http.MethodPost:   color.FgBlue,
	http.MethodPut:    color.FgCyan,
	http.MethodDelete: color.FgYellow,
	http.MethodPatch:  color.FgMagenta,
}

// WithRequestTrace prints one line per request to w, for development.
func WithRequestTrace(w io.Writer, useColors bool) Option {
	return func(c *Client) {
		next := c.httpClient.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		traced := *c.httpClient
		traced.Transport = &traceTransport{next: next, out: w, useColors: useColors}
		c.httpClient = &traced
	}
}

type traceTransport struct {
	next      http.RoundTripper
	out       io.Writer
	useColors bool
	lock      sync.Mutex
}

func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)

	status := "error"
	if err == nil {
		status = fmt.Sprint(resp.StatusCode)
	}
	t.logRoute(req.Method, req.URL.Path, status)
	return resp, err
}

func (t *traceTransport) logRoute(method, path, status string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	paddedMethod := fmt.Sprintf(" %-7s", method)
	if t.useColors {
		attr, ok := methodColors[method]
		if !ok {
			attr = color.FgHiBlack
		}
		paddedMethod = color.New(attr).Sprint(paddedMethod)
	}
	fmt.Fprintf(t.out, "[%s] %s %s\n", paddedMethod, path, status)
}
