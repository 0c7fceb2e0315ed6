package gdn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient returns a client pointed at the given server with caching
// disabled and retry delays short enough for tests.
func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(nil, 0, nil)
	c.SetEndpoint(srv.URL)
	c.retryDelay = time.Millisecond
	return c
}

func TestSetEndpointNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare host gets scheme", "gdn.api.xereo.net", "http://gdn.api.xereo.net/"},
		{"scheme kept", "https://gdn.api.xereo.net", "https://gdn.api.xereo.net/"},
		{"trailing slash collapsed", "http://gdn.api.xereo.net/", "http://gdn.api.xereo.net/"},
		{"many trailing slashes", "http://gdn.api.xereo.net///", "http://gdn.api.xereo.net/"},
	}

	c := NewClient(nil, 0, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := c.Query().SetEndpoint(tt.input)
			if q.endpoint != tt.want {
				t.Errorf("endpoint = %q, want %q", q.endpoint, tt.want)
			}
		})
	}
}

func TestURL(t *testing.T) {
	c := NewClient(nil, 0, nil)

	tests := []struct {
		name string
		q    *Query
		want string
	}{
		{
			"full chain",
			c.Query().SelectJar(2).Get("builds").Where("build", ">", 1234).OrderBy("build", "desc").Page(3),
			"http://gdn.api.xereo.net/v1/jar/2/build?where=build.gt.1234&sort=build.desc&page=3json",
		},
		{
			"no parameters",
			c.Query().Get("jars"),
			"http://gdn.api.xereo.net/v1/jar?json",
		},
		{
			"nested selectors",
			c.Query().SelectJar(2).SelectVersion(7).Get("builds"),
			"http://gdn.api.xereo.net/v1/jar/2/version/7/build?json",
		},
		{
			"unqualified column is resolved",
			c.Query().Get("jars").Where("name", "=", "paper"),
			"http://gdn.api.xereo.net/v1/jar?where=jar.name.eq.paperjson",
		},
		{
			"in filter joins with dots",
			c.Query().Get("builds").Where("build.id", "in", []int{1, 2, 3}),
			"http://gdn.api.xereo.net/v1/build?where=build.id.in.1.2.3json",
		},
		{
			"string id",
			c.Query().SelectJar("paper").Get("channels"),
			"http://gdn.api.xereo.net/v1/jar/paper/channel?json",
		},
		{
			"singular resource unchanged",
			c.Query().Get("version"),
			"http://gdn.api.xereo.net/v1/version?json",
		},
		{
			"empty resource is a no-op",
			c.Query().Get(""),
			"http://gdn.api.xereo.net/v1?json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.Err(); err != nil {
				t.Fatalf("unexpected chain error: %v", err)
			}
			if got := tt.q.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURLEscapesValues(t *testing.T) {
	c := NewClient(nil, 0, nil)
	q := c.Query().Get("jars").Where("name", "=", "foo bar")
	want := "http://gdn.api.xereo.net/v1/jar?where=jar.name.eq.foo+barjson"
	if got := q.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestParamOverwriteKeepsPosition(t *testing.T) {
	c := NewClient(nil, 0, nil)
	q := c.Query().Get("builds").Page(1).OrderBy("build", "asc").Page(9)
	want := "http://gdn.api.xereo.net/v1/build?page=9&sort=build.ascjson"
	if got := q.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestChainErrors(t *testing.T) {
	c := NewClient(nil, 0, nil)

	tests := []struct {
		name string
		q    *Query
		want error
	}{
		{"unknown column", c.Query().Where("bogus", "=", 1), ErrUnknownColumn},
		{"invalid operator", c.Query().Where("name", "!=", 1), ErrInvalidOperator},
		{"in without slice", c.Query().Where("name", "in", 5), ErrInvalidOperator},
		{"invalid direction", c.Query().OrderBy("name", "sideways"), ErrInvalidDirection},
		{"order by unknown column", c.Query().OrderBy("bogus", "asc"), ErrUnknownColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.Err(); !errors.Is(err, tt.want) {
				t.Errorf("Err() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPageRejectsNonPositive(t *testing.T) {
	c := NewClient(nil, 0, nil)
	for _, n := range []int{0, -1} {
		if err := c.Query().Page(n).Err(); err == nil {
			t.Errorf("Page(%d) should record an error", n)
		}
	}
}

func TestStickyErrorShortCircuits(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	q := c.Query().Where("bogus", "=", 1).Get("jars").Page(2)

	if err := q.Err(); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("Err() = %v, want ErrUnknownColumn", err)
	}
	if _, err := q.Results(context.Background()); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Results() = %v, want ErrUnknownColumn", err)
	}
	if _, err := q.Records(context.Background()); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Records() = %v, want ErrUnknownColumn", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}

	// Later configuration calls after the error must not extend the route.
	if got := len(q.route); got != 1 {
		t.Errorf("route length = %d, want 1 (only the version segment)", got)
	}
}

func TestResultsMemoized(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[{"id":1}],"pages":2}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	q := newTestClient(srv).Query().Get("jars")

	first, err := q.Results(ctx)
	if err != nil {
		t.Fatalf("first Results: %v", err)
	}
	second, err := q.Results(ctx)
	if err != nil {
		t.Fatalf("second Results: %v", err)
	}
	if first != second {
		t.Error("memoized envelope should be the same instance")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}

	// Reset drops the memo; the next access hits the server again.
	q.Reset().Get("jars")
	if _, err := q.Results(ctx); err != nil {
		t.Fatalf("Results after Reset: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server saw %d requests after Reset, want 2", n)
	}
}

func TestProjection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"checksum":"abc","size":1024}],"pages":5}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	q := newTestClient(srv).Query().Get("builds")

	n, err := q.Len(ctx)
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}

	rec, err := q.RecordAt(ctx, 0)
	if err != nil {
		t.Fatalf("RecordAt: %v", err)
	}
	if got, ok := rec.Str("checksum"); !ok || got != "abc" {
		t.Errorf("checksum = %q (%v), want %q", got, ok, "abc")
	}
	if got, ok := rec.Int("size"); !ok || got != 1024 {
		t.Errorf("size = %d (%v), want 1024", got, ok)
	}

	if _, err := q.RecordAt(ctx, 1); err == nil {
		t.Error("RecordAt(1) should fail for a single-row result")
	}

	pages, err := q.Field(ctx, "pages")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if pages != float64(5) {
		t.Errorf("pages = %v (%T), want 5", pages, pages)
	}
	missing, err := q.Field(ctx, "total")
	if err != nil {
		t.Fatalf("Field(total): %v", err)
	}
	if missing != nil {
		t.Errorf("absent field = %v, want nil", missing)
	}

	want := `[{"checksum":"abc","size":1024}]`
	if got := q.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	data, err := q.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != want {
		t.Errorf("MarshalJSON = %q, want %q", data, want)
	}
}

func TestDecodeFailureNotMemoized(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`not json`))
			return
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	q := newTestClient(srv).Query().Get("jars")

	if _, err := q.Results(ctx); !errors.Is(err, ErrDecode) {
		t.Fatalf("first Results = %v, want ErrDecode", err)
	}
	if _, err := q.Results(ctx); err != nil {
		t.Fatalf("second Results should retry and succeed, got %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server saw %d requests, want 2", n)
	}
}

func TestNotFoundIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	q := newTestClient(srv).Query().Get("jars")
	if _, err := q.Results(context.Background()); !errors.Is(err, ErrTransport) {
		t.Errorf("Results = %v, want ErrTransport", err)
	}
}

func TestStringOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	q := newTestClient(srv).Query().Get("jars")
	if got := q.String(); got != "[]" {
		t.Errorf("String() on failure = %q, want %q", got, "[]")
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"strings", []string{"a", "b"}, "a.b"},
		{"ints", []int{1, 2, 3}, "1.2.3"},
		{"mixed", []any{"a", 2}, "a.2"},
		{"empty", []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := joinList(tt.value)
			if err != nil {
				t.Fatalf("joinList: %v", err)
			}
			if got != tt.want {
				t.Errorf("joinList = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := joinList("not a slice"); !errors.Is(err, ErrInvalidOperator) {
		t.Errorf("joinList(string) = %v, want ErrInvalidOperator", err)
	}
}
