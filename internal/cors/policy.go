// Package cors decides whether a browser origin may call the API.
package cors

import (
	"net/url"
	"strings"
)

// devOrigins are always allowed so local frontends work without config.
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// Reason explains a Decision.
type Reason string

const (
	ReasonNoOrigin      Reason = "no_origin"
	ReasonAllowList     Reason = "allow_list"
	ReasonDevelopment   Reason = "development"
	ReasonTrustedDomain Reason = "trusted_domain"
	ReasonNotAllowed    Reason = "not_allowed"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

// Policy is immutable after construction and safe for concurrent use.
type Policy struct {
	allowed       map[string]struct{}
	trustedDomain string
}

// NewPolicy builds a Policy from the configured allow-list and trusted
// deployment domain (for example "vercel.app"; empty disables suffix matching).
func NewPolicy(allowedOrigins []string, trustedDomain string) *Policy {
	p := &Policy{
		allowed:       make(map[string]struct{}, len(allowedOrigins)+len(devOrigins)),
		trustedDomain: strings.ToLower(strings.Trim(strings.TrimSpace(trustedDomain), ".")),
	}
	for _, o := range allowedOrigins {
		if o = normalize(o); o != "" {
			p.allowed[o] = struct{}{}
		}
	}
	return p
}

// Decide reports whether origin is permitted. Requests without an Origin
// header come from non-browser clients and are allowed.
func (p *Policy) Decide(origin string) Decision {
	o := normalize(origin)
	if o == "" {
		return Decision{Allowed: true, Reason: ReasonNoOrigin}
	}
	if _, ok := p.allowed[o]; ok {
		return Decision{Allowed: true, Reason: ReasonAllowList}
	}
	for _, d := range devOrigins {
		if o == d {
			return Decision{Allowed: true, Reason: ReasonDevelopment}
		}
	}
	if p.matchesTrustedDomain(o) {
		return Decision{Allowed: true, Reason: ReasonTrustedDomain}
	}
	return Decision{Allowed: false, Reason: ReasonNotAllowed}
}

// Allowed is Decide reduced to a bool.
func (p *Policy) Allowed(origin string) bool {
	return p.Decide(origin).Allowed
}

func (p *Policy) matchesTrustedDomain(origin string) bool {
	if p.trustedDomain == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == p.trustedDomain || strings.HasSuffix(host, "."+p.trustedDomain)
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
