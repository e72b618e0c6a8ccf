package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/fieldbench/internal/subjects"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List benchmark groups and their operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, def := range subjects.Catalogue() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				g := def.Build()
				fmt.Fprintf(out, "%s (%s)\n", def.Key, def.Title)
				fmt.Fprintf(out, "  init:       %s\n", strings.Join(g.Init.Names(), ", "))
				fmt.Fprintf(out, "  candidates: %d\n", g.Candidates.Len())
				for _, name := range g.Candidates.Names() {
					fmt.Fprintf(out, "    - %s\n", name)
				}
			}
			return nil
		},
	}
}
