package middleware

import "net/http"

// MethodOverride lets HTML forms issue PUT and DELETE through a hidden
// _method field on a POST. It wraps the router rather than running inside it
// so the rewritten method takes part in route matching.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch r.PostFormValue("_method") {
			case http.MethodPut:
				r.Method = http.MethodPut
			case http.MethodDelete:
				r.Method = http.MethodDelete
			}
		}
		next.ServeHTTP(w, r)
	})
}
