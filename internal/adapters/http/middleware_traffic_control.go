package httpadapter

import (
	"net/http"

	"golang.org/x/time/rate"
)

type TrafficControlConfig struct {
	RateLimitRPS float64
	RateBurst    int
	MaxInFlight  int
}

// trafficControlMiddleware applies a token-bucket rate limit and a hard
// in-flight cap. Over-rate requests get 429 with Retry-After; requests that
// would exceed the in-flight cap get 503 immediately, shedding load instead
// of queueing it.
func trafficControlMiddleware(cfg TrafficControlConfig, next http.Handler) http.Handler {
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	var inFlight chan struct{}
	if cfg.MaxInFlight > 0 {
		inFlight = make(chan struct{}, cfg.MaxInFlight)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}

		if inFlight != nil {
			select {
			case inFlight <- struct{}{}:
				defer func() { <-inFlight }()
			default:
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server overloaded"})
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
