package cmd

import (
	"fmt"

	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/spf13/cobra"
)

var countPlain bool

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many tasks are left",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *todo.Store) error {
			n := s.RemainingCount()
			if countPlain {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), todo.RemainingLabel(n))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().BoolVar(&countPlain, "plain", false, "print only the number")
}
