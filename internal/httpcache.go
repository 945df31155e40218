/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/golfscore/s3cache"
	log "github.com/sirupsen/logrus"
)

// NewCache returns an S3-backed cache for the given bucket. If bucket is
// empty or the S3 cache cannot be initialized, an in-memory cache is
// returned instead.
func NewCache(ctx context.Context, bucket string) httpcache.Cache {
	if bucket == "" {
		return httpcache.NewMemoryCache()
	}

	cache := s3cache.New(ctx, bucket, s3cache.WithGzip(), s3cache.WithErrorLogging())
	if err := cache.Init(); err != nil {
		log.Warnf("httpcache: failed to init S3 cache: %v; falling back to memory", err)
		return httpcache.NewMemoryCache()
	}

	return cache
}

// NewCachedHttpClient returns an http.Client that caches responses in cache.
// It also enforces a client-side TTL by rewriting origin cache headers, since
// course scorecard pages rarely send usable ones.
func NewCachedHttpClient(cache httpcache.Cache, maxAge time.Duration) *http.Client {
	hc := httpcache.NewTransport(cache)
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", UserAgent)
			}
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control",
				fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
