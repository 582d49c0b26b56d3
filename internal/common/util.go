package common

import (
	"net/http"
	"strings"
)

// ClientIP returns the first hop of X-Forwarded-For, then X-Real-IP.
func ClientIP(req *http.Request) string {
	if req == nil {
		return ""
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	return strings.TrimSpace(req.Header.Get("X-Real-IP"))
}
