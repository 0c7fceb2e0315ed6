package gdn

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for builder-configuration failures. These surface at the
// offending chained call, before any network activity.
var (
	// ErrUnknownColumn is returned when a bare column name matches no resource schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidOperator is returned for an unrecognized comparison symbol.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrInvalidDirection is returned for a sort direction other than asc or desc.
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// kinds lists the queryable resource kinds in declaration order.
// Column resolution scans kinds in this order and the first match wins,
// so the order is part of the wire contract.
var kinds = []string{"jar", "channel", "version", "build"}

// schema maps each resource kind to its column names.
var schema = map[string][]string{
	"jar":     {"id", "name", "site_url", "created_at", "updated_at"},
	"channel": {"id", "name", "created_at", "updated_at"},
	"version": {"id", "name", "created_at", "updated_at"},
	"build":   {"id", "checksum", "url", "size", "created_at", "updated_at"},
}

// operators maps comparison symbols to the API-side operator tokens.
var operators = map[string]string{
	"=":  "eq",
	"<":  "lt",
	">":  "gt",
	"<=": "lteq",
	">=": "gteq",
}

// Kinds returns the resource kinds in declaration order.
func Kinds() []string {
	out := make([]string, len(kinds))
	copy(out, kinds)
	return out
}

// Columns returns the column names of the given resource kind, or nil if the
// kind is unknown.
func Columns(kind string) []string {
	cols, ok := schema[kind]
	if !ok {
		return nil
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// ResolveColumn qualifies a bare column name with its owning resource kind.
//
// A name containing a dot is assumed to be already qualified and is returned
// unchanged. A name equal to a resource kind is likewise returned unchanged:
// the API addresses each resource's own ordinal by its kind name (e.g. the
// build number of a build is filtered as "build"). Any other bare name is
// matched against the kind schemas in declaration order; the first kind whose
// column list contains it wins and the result is "kind.name".
func ResolveColumn(name string) (string, error) {
	if strings.Contains(name, ".") {
		return name, nil
	}
	if _, ok := schema[name]; ok {
		return name, nil
	}
	for _, kind := range kinds {
		for _, col := range schema[kind] {
			if col == name {
				return kind + "." + name, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// mapOperator translates a comparison symbol into its API token.
func mapOperator(symbol string) (string, error) {
	tok, ok := operators[symbol]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperator, symbol)
	}
	return tok, nil
}
