package cli

import (
	"fmt"
	"strings"
)

// filterOperators lists the comparison symbols accepted in --where
// expressions, longest first so that ">=" is not split as ">" + "=".
var filterOperators = []string{">=", "<=", "=", "<", ">"}

// parseFilter splits a --where expression into column, operator, and value.
//
// Two forms are accepted:
//
//	column<op>value      e.g. "build>1234", "checksum=abc"
//	column in a,b,c      membership; the comma-separated list becomes a slice
func parseFilter(expr string) (column, operator string, value any, err error) {
	if col, list, ok := strings.Cut(expr, " in "); ok {
		items := strings.Split(list, ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		return strings.TrimSpace(col), "in", items, nil
	}

	for _, op := range filterOperators {
		if col, val, ok := strings.Cut(expr, op); ok {
			col, val = strings.TrimSpace(col), strings.TrimSpace(val)
			if col == "" || val == "" {
				return "", "", nil, fmt.Errorf("invalid filter %q: empty column or value", expr)
			}
			return col, op, val, nil
		}
	}
	return "", "", nil, fmt.Errorf("invalid filter %q: no operator (expected =, <, >, <=, >=, or \"in\")", expr)
}

// parseSort splits a --sort expression of the form "column" or "column:dir"
// into column and direction. The direction defaults to asc.
func parseSort(expr string) (column, direction string) {
	if col, dir, ok := strings.Cut(expr, ":"); ok {
		return strings.TrimSpace(col), strings.TrimSpace(dir)
	}
	return strings.TrimSpace(expr), "asc"
}
