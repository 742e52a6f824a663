package xapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
)

func TestGet_Success(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":{"id":"1","username":"alice","name":"Alice"},"meta":{"result_count":1,"next_token":"abc"}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL))
	params := url.Values{}
	params.Set("user.fields", "id,name,username")
	env, err := c.Get(context.Background(), "users/by/username/alice", params)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok")
	}
	if !strings.Contains(gotQuery, "user.fields=") {
		t.Errorf("query = %q, missing user.fields", gotQuery)
	}
	if !env.HasData() {
		t.Error("HasData() = false, want true")
	}
	if env.NextToken() != "abc" {
		t.Errorf("NextToken() = %q, want %q", env.NextToken(), "abc")
	}
	if env.Meta.ResultCount != 1 {
		t.Errorf("ResultCount = %d, want 1", env.Meta.ResultCount)
	}
}

func TestGet_NoToken(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.Get(context.Background(), "tweets/1", nil)
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if hits != 0 {
		t.Errorf("upstream hit %d times, want 0", hits)
	}
}

func TestGet_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"title":"Too Many Requests"}`))
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL))
	_, err := c.Get(context.Background(), "tweets/1", nil)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %T, want *StatusError", err)
	}
	if serr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", serr.Status)
	}
	want := `X API error (HTTP 429): {"title":"Too Many Requests"}`
	if serr.Error() != want {
		t.Errorf("Error() = %q, want %q", serr.Error(), want)
	}
}

func TestGet_EmbeddedErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"detail preferred",
			`{"errors":[{"detail":"Not authorized","title":"Forbidden"}]}`,
			"X API returned errors: Not authorized",
		},
		{
			"title fallback",
			`{"errors":[{"title":"Not Found Error"}]}`,
			"X API returned errors: Not Found Error",
		},
		{
			"placeholder fallback",
			`{"errors":[{}]}`,
			"X API returned errors: Unknown error",
		},
		{
			"joined with semicolons",
			`{"errors":[{"detail":"first"},{"detail":"second"}]}`,
			"X API returned errors: first; second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("tok", WithBaseURL(srv.URL))
			_, err := c.Get(context.Background(), "tweets/1", nil)
			var aerr *APIError
			if !errors.As(err, &aerr) {
				t.Fatalf("err = %T (%v), want *APIError", err, err)
			}
			if aerr.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", aerr.Error(), tt.want)
			}
		})
	}
}

func TestGet_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient("tok", WithBaseURL(srv.URL))
	_, err := c.Get(context.Background(), "tweets/1", nil)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %T (%v), want *TransportError", err, err)
	}
	if terr.Timeout {
		t.Error("Timeout = true for connection failure")
	}
	if !strings.HasPrefix(terr.Error(), "Network error: ") {
		t.Errorf("Error() = %q, want Network error prefix", terr.Error())
	}
}

func TestGet_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := c.Get(context.Background(), "tweets/1", nil)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %T (%v), want *TransportError", err, err)
	}
	if !terr.Timeout {
		t.Error("Timeout = false, want true")
	}
	if !strings.Contains(terr.Error(), "timed out") {
		t.Errorf("Error() = %q, want timeout mention", terr.Error())
	}
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		hasData  bool
		next     string
		wantErrs int
	}{
		{"object data", `{"data":{"id":"1"}}`, true, "", 0},
		{"array data", `{"data":[{"id":"1"},{"id":"2"}]}`, true, "", 0},
		{"null data", `{"data":null}`, false, "", 0},
		{"no data", `{}`, false, "", 0},
		{"meta token", `{"data":[],"meta":{"next_token":"t1"}}`, true, "t1", 0},
		{"unknown keys skipped", `{"data":{"id":"1"},"extra":{"deep":[1,2]}}`, true, "", 0},
		{"errors", `{"errors":[{"detail":"a"},{"title":"b"}]}`, false, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := decodeEnvelope([]byte(tt.body))
			if err != nil {
				t.Fatalf("decodeEnvelope: %v", err)
			}
			if env.HasData() != tt.hasData {
				t.Errorf("HasData() = %v, want %v", env.HasData(), tt.hasData)
			}
			if env.NextToken() != tt.next {
				t.Errorf("NextToken() = %q, want %q", env.NextToken(), tt.next)
			}
			if len(env.Errors) != tt.wantErrs {
				t.Errorf("len(Errors) = %d, want %d", len(env.Errors), tt.wantErrs)
			}
		})
	}
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	if _, err := decodeEnvelope([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"users", "by", "username", "alice"}, "users/by/username/alice"},
		{[]string{"tweets", "123", "liking_users"}, "tweets/123/liking_users"},
		{[]string{"users", "a/b"}, "users/a%2Fb"},
		{[]string{"users", "a b"}, "users/a%20b"},
	}
	for _, tt := range tests {
		if got := Path(tt.segments...); got != tt.want {
			t.Errorf("Path(%v) = %q, want %q", tt.segments, got, tt.want)
		}
	}
}

func TestIncludesUserByID(t *testing.T) {
	inc := &Includes{Users: []User{
		{ID: "1", Username: "alice"},
		{ID: "2", Username: "bob"},
	}}
	if u := inc.UserByID("2"); u == nil || u.Username != "bob" {
		t.Errorf("UserByID(2) = %+v, want bob", u)
	}
	if u := inc.UserByID("3"); u != nil {
		t.Errorf("UserByID(3) = %+v, want nil", u)
	}
	var nilInc *Includes
	if u := nilInc.UserByID("1"); u != nil {
		t.Error("nil Includes lookup should return nil")
	}
}
