package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"mindcanvas/internal/codec"
	"mindcanvas/internal/config"
)

func listCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored mind maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			maps, err := a.maps.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(maps) == 0 {
				fmt.Fprintln(out, "No maps stored. Try `mindcanvas generate <topic> --save`.")
				return nil
			}
			rows := make([][]string, 0, len(maps))
			for _, m := range maps {
				rows = append(rows, []string{m.ID, m.Topic, strconv.Itoa(m.NodeCount), m.UpdatedAt.Local().Format("2006-01-02 15:04")})
			}
			table(out, []string{"ID", "Topic", "Nodes", "Updated"}, rows)
			return nil
		},
	}
}

func showCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored map as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.maps.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), rec.Snapshot)
			return nil
		},
	}
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored map as JSON, YAML or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if output == "" {
				if format == "" {
					format = "json"
				}
				return a.maps.Export(cmd.Context(), args[0], format, cmd.OutOrStdout())
			}
			if format == "" {
				c, err := codec.ForPath(output)
				if err != nil {
					return err
				}
				format = c.Format()
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := a.maps.Export(cmd.Context(), args[0], format, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), good.Sprint("✓")+" exported "+output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or markdown (default: from --output, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func importCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Store map files as new maps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			failed := 0
			for _, path := range args {
				id, err := importFile(cmd.Context(), a, path, format)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", bad.Sprint("✗"), path, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", good.Sprint("✓"), path, subtle.Sprint(id))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to import", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or markdown (default: from file extension)")
	return cmd
}

func importFile(ctx context.Context, a *app, path, format string) (string, error) {
	if format == "" {
		c, err := codec.ForPath(path)
		if err != nil {
			return "", err
		}
		format = c.Format()
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rec, err := a.maps.Import(ctx, format, f)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func deleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored maps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range args {
				if err := a.maps.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), good.Sprint("✓")+" deleted "+id)
			}
			return nil
		},
	}
}

func agentsCmd(flags *globalFlags) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List expert agents created from map branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			agents, err := a.agents.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(agents) == 0 {
				fmt.Fprintln(out, "No agents yet.")
				return nil
			}
			if verbose {
				for _, ag := range agents {
					fmt.Fprintln(out, brand.Sprint(ag.Name)+" "+subtle.Sprint(ag.ID))
					fmt.Fprintln(out, ag.SystemPrompt)
					fmt.Fprintln(out)
				}
				return nil
			}
			rows := make([][]string, 0, len(agents))
			for _, ag := range agents {
				source := ag.SourceMapID
				if source == "" {
					source = "-"
				}
				rows = append(rows, []string{ag.ID, ag.Name, source, ag.CreatedAt.Local().Format("2006-01-02 15:04")})
			}
			table(out, []string{"ID", "Name", "Map", "Created"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print system prompts")
	return cmd
}

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if path == "" {
				path = "(defaults)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), subtle.Sprint("config: "+path))
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Summary())
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), good.Sprint("✓")+" wrote "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
