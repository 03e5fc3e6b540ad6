package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows any origin in development and none but same-origin requests
// otherwise.
func Cors(development bool) Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return development
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"*"},
	}
	return cors.New(options).Handler
}
