package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imagenespdf/projkit/internal/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree [root]",
	Short: "Print the annotated project tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := rootArg(args)
		if err != nil {
			return err
		}
		l, err := loadLayout()
		if err != nil {
			return err
		}

		tr, err := tree.Render(root, l.Descriptions)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, tr.Text)
		fmt.Fprintf(out, "\n%d directorios, %d archivos\n", tr.Dirs, tr.Files)
		return nil
	},
}
