package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"portfolio/internal/util"
)

const (
	cacheKeyPrefix    = "page:"
	cacheStatusHeader = "X-Cache"
)

// cachedResponse is the stored form of a successful response.
type cachedResponse struct {
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// bufferedResponse captures a handler's output so it can be stored before
// being written to the client.
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header)}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

type flightResult struct {
	status int
	header http.Header
	body   []byte
}

// cached serves repeat requests for the same path and query from the
// response cache for ttl. Only 200 responses without "Cache-Control: no-store"
// are stored. Concurrent misses for one key run the handler once.
func (s *Server) cached(ttl time.Duration, next http.HandlerFunc) http.Handler {
	if s.cache == nil || ttl <= 0 {
		return next
	}
	maxAge := "max-age=" + strconv.Itoa(int(ttl.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := util.LoggerFromContext(ctx)
		key := cacheKeyPrefix + r.URL.Path + "?" + r.URL.RawQuery

		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("response cache read failed", "key", key, "err", err)
		}
		if ok {
			var entry cachedResponse
			if err := json.Unmarshal(raw, &entry); err == nil {
				copyHeader(w.Header(), entry.Header)
				w.Header().Set(cacheStatusHeader, "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(entry.Body)
				return
			}
			logger.Warn("response cache entry unreadable", "key", key)
		}

		v, _, _ := s.flight.Do(key, func() (any, error) {
			// waiters share this run; one client going away must not fail the rest
			shared := r.WithContext(context.WithoutCancel(ctx))
			ctx := shared.Context()
			rec := newBufferedResponse()
			next(rec, shared)
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			res := flightResult{status: status, header: rec.header, body: rec.body.Bytes()}
			if status != http.StatusOK || rec.header.Get("Cache-Control") == "no-store" {
				return res, nil
			}
			res.header.Set("Cache-Control", maxAge)
			payload, err := json.Marshal(cachedResponse{Header: storableHeader(res.header), Body: res.body})
			if err == nil {
				err = s.cache.Set(ctx, key, payload, ttl)
			}
			if err != nil {
				logger.Warn("response cache write failed", "key", key, "err", err)
			}
			return res, nil
		})
		res := v.(flightResult)
		copyHeader(w.Header(), res.header)
		w.Header().Set(cacheStatusHeader, "MISS")
		w.WriteHeader(res.status)
		_, _ = w.Write(res.body)
	})
}

// storableHeader keeps the headers that describe the body.
func storableHeader(h http.Header) http.Header {
	out := make(http.Header)
	for _, name := range []string{"Content-Type", "Content-Language", "Cache-Control"} {
		if v := h.Values(name); len(v) > 0 {
			out[name] = append([]string(nil), v...)
		}
	}
	return out
}

func copyHeader(dst, src http.Header) {
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
}
