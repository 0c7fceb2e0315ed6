// Package gdn provides a fluent query-builder client for the GDN jars API.
//
// # Overview
//
// The GDN API organizes Minecraft server jars, their versions, channels, and
// builds in a strict parent/child hierarchy. This package composes a URL path
// and query string from chained method calls, issues a single HTTP GET
// lazily, memoizes the parsed response, and exposes the result set through
// container-like accessors.
//
// # Usage
//
//	client := gdn.NewClient(nil, 0, nil)
//
//	q := client.Query().
//		SelectJar(2).
//		Get("builds").
//		Where("build", ">", 1234).
//		OrderBy("build", "desc").
//		Page(3)
//
//	records, err := q.Records(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pages, _ := q.Field(ctx, "pages")
//
// The chain above requests
//
//	http://gdn.api.xereo.net/v1/jar/2/build?where=build.gt.1234&sort=build.desc&page=3json
//
// including the API's literal trailing "json" marker.
//
// # Column Resolution
//
// Filter and sort columns are resolved against the static resource schemas.
// A bare name is qualified with the first kind (jar, channel, version, build)
// whose column list contains it; names that already contain a dot, or that
// name a resource kind itself, pass through unchanged. Unknown names fail the
// chain immediately with [ErrUnknownColumn] rather than reaching the API as a
// malformed filter.
//
// # Execution
//
// Execution is lazy and memoized: the first call to Results (or any accessor
// built on it) performs exactly one GET through the client; later calls reuse
// the decoded envelope. Reset clears the memo along with all configuration.
// Transport and decode failures wrap [ErrTransport] and [ErrDecode] and leave
// the query re-triggerable.
//
// # Caching
//
// Independently of per-query memoization, the shared [Client] can cache raw
// response bodies in a pluggable backend (see the cache package). The default
// backend is the null cache, so cross-query caching is strictly opt-in.
package gdn
