package gdn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// apiVersion is the fixed leading route segment.
const apiVersion = "v1"

// Query composes a single request against the GDN API through chained
// configuration calls, executes it lazily on first result access, and
// memoizes the decoded response for the lifetime of the instance.
//
// Configuration methods mutate the query and return it for chaining. The
// first configuration error (unknown column, invalid operator, and so on) is
// recorded at the offending call; later configuration calls become no-ops and
// every terminal accessor reports the error before any network activity.
//
// A Query is owned by a single logical caller; it is not safe for concurrent
// use. Independent queries on the same Client are independently safe.
type Query struct {
	client   *Client
	endpoint string
	route    []string
	params   []param
	refresh  bool
	result   *Envelope
	err      error
}

// param is a single query-string parameter. Parameters keep their first
// insertion position; re-setting a key replaces the value in place.
type param struct {
	key   string
	value string
}

// SetEndpoint stores the base URL for the query. An endpoint without a scheme
// separator gets an "http://" prefix; trailing slashes are collapsed to
// exactly one. Hostname syntax is not validated.
func (q *Query) SetEndpoint(endpoint string) *Query {
	if q.err != nil {
		return q
	}
	if !strings.Contains(endpoint, "//") {
		endpoint = "http://" + endpoint
	}
	q.endpoint = strings.TrimRight(endpoint, "/") + "/"
	return q
}

// Reset returns the query to its initial state: empty parameters, the seeded
// version route, no memoized result, and no recorded error. The endpoint is
// kept. The next result access after Reset triggers a fresh request.
func (q *Query) Reset() *Query {
	q.route = []string{apiVersion}
	q.params = nil
	q.result = nil
	q.err = nil
	return q
}

// SelectJar narrows the route to the jar with the given id.
func (q *Query) SelectJar(id any) *Query { return q.selectKind("jar", id) }

// SelectChannel narrows the route to the channel with the given id.
func (q *Query) SelectChannel(id any) *Query { return q.selectKind("channel", id) }

// SelectVersion narrows the route to the version with the given id.
func (q *Query) SelectVersion(id any) *Query { return q.selectKind("version", id) }

// SelectBuild narrows the route to the build with the given id.
func (q *Query) SelectBuild(id any) *Query { return q.selectKind("build", id) }

// selectKind appends a kind label and a stringified id to the route.
// Selectors may be chained in any order and any number of times; the path
// simply reflects call order, which is how nested queries are expressed
// ("builds of version of jar").
func (q *Query) selectKind(kind string, id any) *Query {
	if q.err != nil {
		return q
	}
	q.route = append(q.route, kind, fmt.Sprint(id))
	return q
}

// Get targets a resource collection by appending its singular name to the
// route. The name is singularized by stripping one trailing "s" ("builds"
// becomes "build"; "version" is left unchanged). An empty name is a no-op,
// kept for chain readability.
func (q *Query) Get(resource string) *Query {
	if q.err != nil || resource == "" {
		return q
	}
	q.route = append(q.route, strings.TrimSuffix(resource, "s"))
	return q
}

// Where sets the filter clause. The column is resolved against the resource
// schemas; the operator must be one of the comparison symbols (=, <, >, <=,
// >=) or the literal "in", in which case value must be a slice whose elements
// form a dot-joined membership list. Only one filter clause is representable;
// the last call wins.
func (q *Query) Where(column, operator string, value any) *Query {
	if q.err != nil {
		return q
	}
	col, err := ResolveColumn(column)
	if err != nil {
		q.err = err
		return q
	}

	var clause string
	if operator == "in" {
		list, err := joinList(value)
		if err != nil {
			q.err = err
			return q
		}
		clause = col + ".in." + list
	} else {
		tok, err := mapOperator(operator)
		if err != nil {
			q.err = err
			return q
		}
		clause = col + "." + tok + "." + fmt.Sprint(value)
	}
	q.setParam("where", clause)
	return q
}

// Page sets the result page to fetch. n must be at least 1.
func (q *Query) Page(n int) *Query {
	if q.err != nil {
		return q
	}
	if n < 1 {
		q.err = fmt.Errorf("page must be positive, got %d", n)
		return q
	}
	q.setParam("page", strconv.Itoa(n))
	return q
}

// OrderBy sets the sort clause. The column is resolved against the resource
// schemas and direction must be "asc" or "desc".
func (q *Query) OrderBy(column, direction string) *Query {
	if q.err != nil {
		return q
	}
	if direction != "asc" && direction != "desc" {
		q.err = fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
		return q
	}
	col, err := ResolveColumn(column)
	if err != nil {
		q.err = err
		return q
	}
	q.setParam("sort", col+"."+direction)
	return q
}

// Refresh controls whether execution bypasses the client's response cache.
// The per-instance memo is unaffected.
func (q *Query) Refresh(refresh bool) *Query {
	q.refresh = refresh
	return q
}

// Err returns the first configuration error recorded on the chain, if any.
func (q *Query) Err() error { return q.err }

// setParam overwrites an existing key in place or appends a new one,
// preserving first-insertion order in the query string.
func (q *Query) setParam(key, value string) {
	for i := range q.params {
		if q.params[i].key == key {
			q.params[i].value = value
			return
		}
	}
	q.params = append(q.params, param{key: key, value: value})
}

// URL renders the request URL: endpoint, slash-joined route, "?", the
// percent-encoded parameters in insertion order joined by "&", and the
// literal trailing "json" marker the API requires, with no separator before
// it.
func (q *Query) URL() string {
	var b strings.Builder
	b.WriteString(q.endpoint)
	b.WriteString(strings.Join(q.route, "/"))
	b.WriteString("?")
	for i, p := range q.params {
		if i > 0 {
			b.WriteString("&")
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(p.value))
	}
	b.WriteString("json")
	return b.String()
}

// Results executes the query if it has not run yet and returns the decoded
// envelope. The HTTP GET happens at most once per instance: subsequent calls
// return the memoized envelope without touching the network. A failed attempt
// is not memoized, so the next access retries.
func (q *Query) Results(ctx context.Context) (*Envelope, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.result != nil {
		return q.result, nil
	}
	body, err := q.client.get(ctx, q.URL(), q.refresh)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	q.result = env
	return env, nil
}

// Records returns the result rows, executing the query if needed.
func (q *Query) Records(ctx context.Context) ([]Record, error) {
	env, err := q.Results(ctx)
	if err != nil {
		return nil, err
	}
	return env.Records(), nil
}

// RecordAt returns the result row at index i, executing the query if needed.
func (q *Query) RecordAt(ctx context.Context, i int) (Record, error) {
	env, err := q.Results(ctx)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= env.Len() {
		return nil, fmt.Errorf("record index %d out of range (%d results)", i, env.Len())
	}
	return env.Records()[i], nil
}

// Len returns the number of result rows, executing the query if needed.
func (q *Query) Len(ctx context.Context) (int, error) {
	env, err := q.Results(ctx)
	if err != nil {
		return 0, err
	}
	return env.Len(), nil
}

// Field looks up a top-level field of the response envelope (e.g. "pages"),
// executing the query if needed. Returns nil for an absent field, mirroring
// the API's optional metadata.
func (q *Query) Field(ctx context.Context, name string) (any, error) {
	env, err := q.Results(ctx)
	if err != nil {
		return nil, err
	}
	v, _ := env.Field(name)
	return v, nil
}

// String renders the result rows as JSON text, executing the query if
// needed. Failures render as an empty array; callers that need to
// distinguish errors should use Records or Results.
func (q *Query) String() string {
	records, err := q.Records(context.Background())
	if err != nil {
		return "[]"
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// MarshalJSON renders the result rows as JSON, executing the query if needed.
func (q *Query) MarshalJSON() ([]byte, error) {
	records, err := q.Records(context.Background())
	if err != nil {
		return nil, err
	}
	return json.Marshal(records)
}

// joinList renders a membership-filter value list as a dot-joined string.
func joinList(value any) (string, error) {
	var parts []string
	switch v := value.(type) {
	case []string:
		parts = v
	case []int:
		parts = make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
	case []any:
		parts = make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
	default:
		return "", fmt.Errorf("%w: \"in\" requires a slice value, got %T", ErrInvalidOperator, value)
	}
	return strings.Join(parts, "."), nil
}
