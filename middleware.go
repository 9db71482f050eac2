package mapwire

import (
	"net/http"

	"mapwire/di"
	"mapwire/mapper"
)

// AssertValid returns middleware that validates the registered mapper
// configuration on every request and answers 500 with the validation
// error when it is invalid.
func AssertValid(r di.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			cfg, err := di.Get[*mapper.Configuration](r)
			if err == nil {
				err = cfg.AssertConfigurationIsValid()
			}

			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
