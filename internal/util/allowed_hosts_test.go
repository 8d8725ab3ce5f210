package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithAllowedHosts(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := WithAllowedHosts([]string{"example.com", ".example.org", "127.0.0.1", "::1"}, ok)

	tests := []struct {
		host string
		want int
	}{
		{host: "example.com", want: http.StatusOK},
		{host: "EXAMPLE.com:8000", want: http.StatusOK},
		{host: "www.example.com", want: http.StatusBadRequest},
		{host: "example.org", want: http.StatusOK},
		{host: "api.example.org", want: http.StatusOK},
		{host: "badexample.org", want: http.StatusBadRequest},
		{host: "127.0.0.1:8000", want: http.StatusOK},
		{host: "[::1]:8000", want: http.StatusOK},
		{host: "evil.test", want: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tc.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("host %q status = %d, want %d", tc.host, rec.Code, tc.want)
			}
		})
	}
}

func TestWithAllowedHostsWildcardAndEmpty(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	for _, hosts := range [][]string{nil, {"*"}} {
		h := WithAllowedHosts(hosts, ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "anything.test"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("hosts %v status = %d, want 200", hosts, rec.Code)
		}
	}
}
