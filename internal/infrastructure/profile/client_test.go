package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":2,"email":"janet.weaver@reqres.in","first_name":"Janet","last_name":"Weaver","avatar":"https://reqres.in/img/faces/2-image.jpg"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	p, err := c.Get(context.Background(), "2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.ID != 2 || p.FirstName != "Janet" || p.Email != "janet.weaver@reqres.in" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestGet_UpstreamStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, 2*time.Second)
			if _, err := c.Get(context.Background(), "1"); !errors.Is(err, ErrUpstream) {
				t.Errorf("Get with status %d = %v, want ErrUpstream", tt.status, err)
			}
		})
	}
}

func TestGet_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Get(context.Background(), "1"); !errors.Is(err, ErrUpstream) {
		t.Errorf("Get against closed server = %v, want ErrUpstream", err)
	}
}

func TestGet_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not-json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Get(context.Background(), "1"); !errors.Is(err, ErrUpstream) {
		t.Errorf("Get with invalid body = %v, want ErrUpstream", err)
	}
}
