package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newURLCmd creates the url command, which composes a request URL from the
// same flags as the listing commands and prints it without executing.
func newURLCmd(root *rootOpts) *cobra.Command {
	opts := &listOpts{}

	cmd := &cobra.Command{
		Use:   "url <resource>",
		Short: "Print the composed request URL without executing it",
		Long: `Print the request URL a query would issue, without contacting the API.

Examples:
  gdn url builds --jar 2 --where "build>1234" --sort build:desc --page 3
  gdn url jars`,
		ValidArgs: resourceNames(),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), root)
			if err != nil {
				return err
			}
			q, err := buildQuery(client, opts, args[0])
			if err != nil {
				return err
			}
			fmt.Println(q.URL())
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}
