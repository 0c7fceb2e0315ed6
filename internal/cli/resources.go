package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xereo/gdn-go/pkg/gdn"
)

// listOpts holds the flags shared by the resource listing commands.
type listOpts struct {
	jar     string // parent jar id
	channel string // parent channel id
	version string // parent version id
	where   string // filter expression, e.g. "build>1234"
	sort    string // sort expression, e.g. "build:desc"
	page    int
	refresh bool // bypass the response cache
	urlOnly bool // print the composed URL instead of executing
	jsonOut bool // print raw JSON instead of a table
}

func (o *listOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.jar, "jar", "", "select a parent jar by id")
	cmd.Flags().StringVar(&o.channel, "channel", "", "select a parent channel by id")
	cmd.Flags().StringVar(&o.version, "version", "", "select a parent version by id")
	cmd.Flags().StringVarP(&o.where, "where", "w", "", `filter expression (e.g. "build>1234", "id in 1,2,3")`)
	cmd.Flags().StringVarP(&o.sort, "sort", "s", "", `sort expression (e.g. "build:desc")`)
	cmd.Flags().IntVarP(&o.page, "page", "p", 0, "result page to fetch")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().BoolVar(&o.urlOnly, "url", false, "print the request URL without executing")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "print results as JSON")
}

func newJarsCmd(root *rootOpts) *cobra.Command {
	return newListCmd(root, "jars", "jar", "List server jars")
}

func newChannelsCmd(root *rootOpts) *cobra.Command {
	return newListCmd(root, "channels", "channel", "List release channels")
}

func newVersionsCmd(root *rootOpts) *cobra.Command {
	return newListCmd(root, "versions", "version", "List versions")
}

func newBuildsCmd(root *rootOpts) *cobra.Command {
	return newListCmd(root, "builds", "build", "List builds")
}

// newListCmd creates a listing command for one resource collection. The kind
// is the singular resource name, used to pick table columns.
func newListCmd(root *rootOpts, use, kind, short string) *cobra.Command {
	opts := &listOpts{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Parent selectors narrow the query to a branch of the resource hierarchy, e.g.

  gdn ` + use + ` --jar 2 --where "build>1234" --sort build:desc --page 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), root, opts, use, kind)
		},
	}
	opts.register(cmd)
	return cmd
}

func runList(ctx context.Context, root *rootOpts, opts *listOpts, resource, kind string) error {
	client, err := newClient(ctx, root)
	if err != nil {
		return err
	}

	q, err := buildQuery(client, opts, resource)
	if err != nil {
		return err
	}

	if opts.urlOnly {
		fmt.Println(q.URL())
		return nil
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spin := newSpinner(ctx, "Fetching "+resource)
	spin.start()
	env, err := q.Results(ctx)
	spin.stop()
	if err != nil {
		printError("Query failed: %v", err)
		return err
	}
	prog.done(fmt.Sprintf("Fetched %d %s", env.Len(), resource))

	if opts.jsonOut {
		data, err := json.MarshalIndent(env.Records(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printRecords(kind, env)
	return nil
}

// buildQuery translates flags into a query chain. Builder errors (unknown
// columns, bad operators) surface here, before any request is made.
func buildQuery(client *gdn.Client, opts *listOpts, resource string) (*gdn.Query, error) {
	q := client.Query()
	if opts.jar != "" {
		q.SelectJar(opts.jar)
	}
	if opts.channel != "" {
		q.SelectChannel(opts.channel)
	}
	if opts.version != "" {
		q.SelectVersion(opts.version)
	}
	q.Get(resource)

	if opts.where != "" {
		col, op, val, err := parseFilter(opts.where)
		if err != nil {
			return nil, err
		}
		q.Where(col, op, val)
	}
	if opts.sort != "" {
		col, dir := parseSort(opts.sort)
		q.OrderBy(col, dir)
	}
	if opts.page > 0 {
		q.Page(opts.page)
	}
	q.Refresh(opts.refresh)

	if err := q.Err(); err != nil {
		return nil, err
	}
	return q, nil
}

// printRecords renders result rows as a table using the kind's schema columns
// for header order, followed by page metadata when the envelope carries it.
func printRecords(kind string, env *gdn.Envelope) {
	if env.Len() == 0 {
		printInfo("No results")
		return
	}

	headers := gdn.Columns(kind)
	if headers == nil {
		headers = recordKeys(env.Records()[0])
	}

	rows := make([][]string, 0, env.Len())
	for _, rec := range env.Records() {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := rec[h]; ok {
				row[i] = formatValue(v)
			}
		}
		rows = append(rows, row)
	}
	fmt.Print(renderTable(headers, rows))

	if pages, ok := env.Pages(); ok {
		printDetail("%d pages available", pages)
	}
}

// resourceNames returns the plural command-line names of the queryable
// resource collections, in hierarchy order.
func resourceNames() []string {
	kinds := gdn.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k + "s"
	}
	return names
}

// recordKeys returns a record's keys in stable (sorted) order, used when the
// resource has no static schema to order columns by.
func recordKeys(rec gdn.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue renders a decoded JSON value for table display. Whole floats
// print as integers since JSON numbers decode as float64.
func formatValue(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}
