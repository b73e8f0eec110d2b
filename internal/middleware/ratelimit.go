package middleware

import (
	"context"
	"net"
	"strings"

	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/ratelimit"
	"github.com/droplabz/backend/pkg/router"
	"github.com/droplabz/backend/pkg/xcontext"
)

// RateLimit rejects the request with TooManyRequests when the client ip has
// used up its attempts in the current window. Store failures let the request
// through. Forwarding headers are only read from trustedProxies.
func RateLimit(limiter *ratelimit.Limiter, trustedProxies []string) router.MiddlewareFunc {
	proxies := parseTrustedProxies(trustedProxies)

	return func(ctx context.Context) (context.Context, error) {
		ip := proxies.clientIP(ctx)
		ok, err := limiter.Allow(ctx, xcontext.HTTPRequest(ctx).URL.Path+":"+ip)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot check rate limit of %s: %v", ip, err)
			return ctx, nil
		}

		if !ok {
			return ctx, errorx.New(errorx.TooManyRequests, "Too many requests, please try again later")
		}

		return ctx, nil
	}
}

type trustedProxies []*net.IPNet

func parseTrustedProxies(values []string) trustedProxies {
	result := trustedProxies{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		if !strings.Contains(v, "/") {
			if ip := net.ParseIP(v); ip != nil && ip.To4() != nil {
				v += "/32"
			} else {
				v += "/128"
			}
		}

		if _, ipNet, err := net.ParseCIDR(v); err == nil {
			result = append(result, ipNet)
		}
	}

	return result
}

func (p trustedProxies) contains(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	for _, ipNet := range p {
		if ipNet.Contains(parsed) {
			return true
		}
	}

	return false
}

// clientIP returns the remote address of the request. When the request comes
// from a trusted proxy, it is the right-most untrusted address of
// X-Forwarded-For, or X-Real-Ip.
func (p trustedProxies) clientIP(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	remote, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		remote = req.RemoteAddr
	}

	if !p.contains(remote) {
		return remote
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !p.contains(hop) {
				return hop
			}
		}

		if first := strings.TrimSpace(hops[0]); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(req.Header.Get("X-Real-Ip")); realIP != "" {
		return realIP
	}

	return remote
}
