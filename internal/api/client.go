package api

import "net/http"

// clientInfo is what the service records about the caller of a request:
// signup/login store it with the account, ask stores the IP with the
// session and query log.
type clientInfo struct {
	IP        string
	UserAgent string
	Referer   string
}

// extractClientInfo reads the caller's identity from the request.
// IP resolution honors proxy headers only when trustProxy is set.
func extractClientInfo(r *http.Request, trustProxy bool) clientInfo {
	userAgent := r.Header.Get("User-Agent")
	if userAgent == "" {
		userAgent = "unknown"
	}
	return clientInfo{
		IP:        clientIP(r, trustProxy),
		UserAgent: userAgent,
		Referer:   r.Header.Get("Referer"),
	}
}
