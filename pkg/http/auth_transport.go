package http

import "net/http"

// bearerTransport sets the Authorization header on a clone of every request.
type bearerTransport struct {
	header string
	next   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.header)
	return t.next.RoundTrip(clone)
}

// WithAuthToken authenticates requests with a bearer token. An empty token
// leaves requests untouched, local model servers usually run without auth.
func WithAuthToken(token string) HttpOpts {
	return func(c *clientConfig) {
		if token == "" {
			return
		}
		c.wrappers = append(c.wrappers, func(rt http.RoundTripper) http.RoundTripper {
			return &bearerTransport{header: "Bearer " + token, next: rt}
		})
	}
}
