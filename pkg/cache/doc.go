// Package cache decides how proxied media may be cached by HTTP clients.
//
// Nothing is stored on the server. Every decision is a pure function of the
// media kind and the identifier, so concurrent requests never coordinate:
//
// - Per-kind policies (max-age, public, immutable, or no-store)
// - Strong ETags derived from a SHA-256 digest of kind and identifier
// - A synthetic, stable Last-Modified instant for thumbnails
// - If-None-Match / If-Modified-Since evaluation before any upstream call
// - Prometheus metrics for conditional hits
//
// # Basic Usage
//
//	policy := cache.PolicyFor(media.KindThumbnail, media.SizeThumbnail)
//	validators := cache.Compute(policy, id)
//
//	cond := cache.ConditionalFromHeader(r.Header)
//	if ok, _ := cache.NotModified(policy, validators, cond); ok {
//		cache.ApplyHeaders(w.Header(), policy, validators)
//		w.WriteHeader(http.StatusNotModified)
//		return
//	}
//
//	// fetch from upstream, then:
//	cache.ApplyHeaders(w.Header(), policy, validators)
//
// # Policies
//
//	original asset  public, max-age=86400              ETag
//	thumbnail       public, max-age=2592000, immutable  ETag + Last-Modified
//	album metadata  no-store                           none
//
// # Metrics
//
//   - albumproxy_conditional_requests_total{kind} - requests carrying validators
//   - albumproxy_not_modified_total{kind, validator} - 304 short-circuits
package cache
