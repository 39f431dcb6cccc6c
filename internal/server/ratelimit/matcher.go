package ratelimit

import "strings"

// unlimited routes are never counted: probes and the long-lived event stream.
var unlimited = map[string]bool{
	"GET /health":     true,
	"GET /metrics":    true,
	"GET /api/events": true,
}

// Match returns the rule for a request, an unlimited rule for exempt routes, or nil.
// Exact paths win over prefixes.
func Match(path string, method string, rules []Rule) *Rule {
	if unlimited[method+" "+path] {
		return &Rule{Path: path, Method: method}
	}

	for i := range rules {
		rule := &rules[i]
		if rule.Method == method && rule.Path == path {
			return rule
		}
	}

	for i := range rules {
		rule := &rules[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return nil
}
