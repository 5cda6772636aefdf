package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTransport_SetsHeader(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	client := &http.Client{Transport: NewTransport(StaticToken("tok"), nil)}
	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()

	if got != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer tok")
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("original request must not be modified")
	}
}

func TestTransport_TokenErrorAbortsRequest(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer ts.Close()

	boom := errors.New("vault sealed")
	tr := NewTransport(TokenSourceFunc(func(context.Context) (string, error) { return "", boom }), nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	if _, err := tr.RoundTrip(req); !errors.Is(err, boom) {
		t.Errorf("expected token error, got %v", err)
	}
	if called {
		t.Error("request must not reach the server")
	}

	if _, err := (&Transport{}).RoundTrip(req); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}
