package main

import (
	"github.com/spf13/cobra"
)

// NewListenersCmd creates the listeners subcommand.
func NewListenersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listeners [pattern]",
		Short: "List registered named listeners",
		Long: `List the names registered in the built-in listener registry.
An optional glob pattern filters the output, e.g. 'robot listeners "s*"'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}

			names, err := newRegistry().Names(pattern)
			if err != nil {
				return err
			}
			for _, name := range names {
				cmd.Println(name)
			}
			return nil
		},
	}
}
