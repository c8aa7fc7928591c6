package middleware

import "net/http"

// IsHTMXRequest returns true if the request was issued by HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
