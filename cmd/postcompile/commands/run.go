package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/postcompile/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [projects...]",
		Short: "Run the configured execution units",
		Long: "Run assembles each project's class path, opens an isolated loading scope over it\n" +
			"and runs the execution units in order, stopping at the first failure.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions(cmd, args)
			opts.Jobs, _ = cmd.Flags().GetInt("jobs")
			return c.app.Run(cmd.Context(), opts)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringSliceP("unit", "u", nil, "Execution unit to run, replaces the configured units (repeatable)")
	cmd.Flags().IntP("jobs", "j", 1, "Maximum number of workspace projects run at once (0 means no limit)")
	return cmd
}

func (c *CLI) newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units [projects...]",
		Short: "List the execution units visible to each project",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Units(cmd.Context(), runOptions(cmd, args))
		},
	}
	addInputFlags(cmd)
	return cmd
}

// addInputFlags registers the flags that shape the class path of each project.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to postcompile.yaml or postcompile.work.yaml")
	cmd.Flags().StringP("output-dir", "o", "", "Compiled output directory, replaces the configured one")
	cmd.Flags().StringArrayP("artifact", "a", nil, "Artifact appended to each project's class path (repeatable)")
	cmd.Flags().StringArrayP("resource", "r", nil, "Resource URL appended to the class path (repeatable)")
}

func runOptions(cmd *cobra.Command, projects []string) app.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	artifacts, _ := cmd.Flags().GetStringArray("artifact")
	resources, _ := cmd.Flags().GetStringArray("resource")

	opts := app.RunOptions{
		ConfigPath: configPath,
		Projects:   projects,
		OutputDir:  outputDir,
		Artifacts:  artifacts,
		Resources:  resources,
	}
	if cmd.Flags().Lookup("unit") != nil {
		opts.Units, _ = cmd.Flags().GetStringSlice("unit")
	}
	return opts
}
