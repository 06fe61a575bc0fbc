package http

import "time"

// HttpOpts tunes the client built by NewConnector.
type HttpOpts func(*clientConfig)

// WithConnClientTimeout bounds dialing a new connection.
func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.dialTimeout = timeout
	}
}

// WithRequestTimeout bounds a whole request including reading the body.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.requestTimeout = timeout
	}
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.keepAlive = keepAlive
	}
}

func WithTLSHandshakeTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.tlsHandshakeTimeout = timeout
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.idleConnTimeout = timeout
	}
}

// WithIdlePool sizes the keep-alive pool. Non-positive values keep the defaults.
func WithIdlePool(maxIdle, maxIdlePerHost int) HttpOpts {
	return func(c *clientConfig) {
		if maxIdle > 0 {
			c.maxIdleConns = maxIdle
		}
		if maxIdlePerHost > 0 {
			c.maxIdleConnsPerHost = maxIdlePerHost
		}
	}
}

// WithTransport wraps the base transport. Wrappers apply in the order given,
// so the last one sees the request first.
func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *clientConfig) {
		c.wrappers = append(c.wrappers, transport)
	}
}

// WithInsecureSkipVerify disables certificate checks, meant for self-hosted
// model gateways with private certificates.
func WithInsecureSkipVerify(skip bool) HttpOpts {
	return func(c *clientConfig) {
		c.insecureSkipVerify = skip
	}
}
