package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConditionalRequests tracks inbound requests carrying If-None-Match or If-Modified-Since
	ConditionalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "albumproxy_conditional_requests_total",
			Help: "Total number of media requests carrying cache validators",
		},
		[]string{"kind"},
	)

	// NotModifiedResponses tracks 304 short-circuits by validator
	NotModifiedResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "albumproxy_not_modified_total",
			Help: "Total number of 304 Not Modified responses answered without upstream",
		},
		[]string{"kind", "validator"}, // "etag", "last_modified"
	)
)
