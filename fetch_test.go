package reqcurry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"a": 1}`))
	}))
	defer srv.Close()

	got := make(chan map[string]int, 2)
	src := New[map[string]int](srv.URL, WithFailureHandler(func(f Failure) {
		t.Errorf("unexpected failure: %v", f)
	}))
	src.Endpoint("/").Invoke(func(m map[string]int) { got <- m })

	select {
	case m := <-got:
		assert.Equal(t, map[string]int{"a": 1}, m)
	case <-time.After(time.Second):
		t.Fatal("consumer was not called")
	}

	// exactly once
	time.Sleep(50 * time.Millisecond)
	select {
	case m := <-got:
		t.Fatalf("consumer called again with %v", m)
	default:
	}
}

func TestInvokeUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	failures := make(chan Failure, 1)
	got := make(chan map[string]any, 1)
	src := New[map[string]any](url,
		WithTimeout(2*time.Second),
		WithFailureHandler(func(f Failure) { failures <- f }),
	)
	src.Endpoint("/users").Invoke(func(m map[string]any) { got <- m })

	select {
	case f := <-failures:
		assert.Equal(t, KindTransport, f.Kind)
		assert.Equal(t, url+"/users", f.Locator)
		require.Error(t, f.Err)
	case <-time.After(3 * time.Second):
		t.Fatal("no failure reported")
	}

	select {
	case m := <-got:
		t.Fatalf("consumer called with %v despite failure", m)
	default:
	}
}

func TestInvokeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{{{not json`))
	}))
	defer srv.Close()

	failures := make(chan Failure, 1)
	got := make(chan map[string]any, 1)
	src := New[map[string]any](srv.URL, WithFailureHandler(func(f Failure) { failures <- f }))
	src.Endpoint("/").Invoke(func(m map[string]any) { got <- m })

	select {
	case f := <-failures:
		assert.Equal(t, KindDecode, f.Kind)
		require.Error(t, f.Err)
	case <-time.After(time.Second):
		t.Fatal("no failure reported")
	}

	select {
	case m := <-got:
		t.Fatalf("consumer called with %v despite failure", m)
	default:
	}
}

func TestInvokeNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	failures := make(chan Failure, 1)
	src := New[map[string]any](srv.URL, WithFailureHandler(func(f Failure) { failures <- f }))
	src.Endpoint("/missing").Invoke(func(map[string]any) {
		t.Error("consumer called on non-2xx response")
	})

	select {
	case f := <-failures:
		assert.Equal(t, KindTransport, f.Kind)
	case <-time.After(time.Second):
		t.Fatal("no failure reported")
	}
}

func TestFailureError(t *testing.T) {
	f := Failure{Kind: KindDecode, Locator: "http://x/y", Err: assert.AnError}
	assert.Contains(t, f.Error(), "decode")
	assert.Contains(t, f.Error(), "http://x/y")
	assert.ErrorIs(t, f, assert.AnError)
}
