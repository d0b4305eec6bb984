package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mindcanvas/internal/codec"
)

func generateCmd(flags *globalFlags) *cobra.Command {
	var (
		save   bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Expand a topic into a mind map",
		Long: `Ask the configured providers to expand a topic into main branches and
subtopics. Providers are tried in order; the offline static outline is
used when none answers.

  mindcanvas generate "Travel planning"
  mindcanvas generate Chess --save
  mindcanvas generate Gardening -f markdown > garden.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			g, err := a.maps.Generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			snap := g.Snapshot()

			if format == "" {
				printTree(cmd.OutOrStdout(), snap)
			} else {
				c, err := codec.ForFormat(format)
				if err != nil {
					return err
				}
				if err := c.Export(&snap, cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			if save {
				rec, err := a.maps.Save(cmd.Context(), snap)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), good.Sprint("✓")+" saved as "+rec.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the generated map")
	cmd.Flags().StringVarP(&format, "format", "f", "", "print as json, yaml or markdown instead of a tree")
	return cmd
}
