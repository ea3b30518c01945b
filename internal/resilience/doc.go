// Package resilience provides reliability patterns for upstream wiki and
// database calls.
//
// Only circuit breakers are implemented. The trigger service deliberately
// does not retry failed upstream requests: the polling caller re-invokes
// every trigger on its own schedule, so a failed poll simply yields again
// a few minutes later.
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.FeaturedFeedConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchUpstream()
//	})
package resilience
