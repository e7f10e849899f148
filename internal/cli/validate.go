package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/tally/internal/config"
	"github.com/wesleyorama2/tally/internal/output"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a workload configuration file",
		Long: `Check a workload file against the workload schema and the semantic rules
(unique event names, ascending buckets, sane distributions).

  tally validate --config workload.yaml`,
		RunE: runValidate,
	}

	cmd.Flags().StringP("config", "c", "", "Workload configuration file (YAML or JSON)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	noColor, _ := cmd.Flags().GetBool("no-color")
	scheme := output.NoColorScheme()
	if !noColor && output.IsTerminal(cmd.OutOrStdout()) {
		scheme = output.DefaultColorScheme()
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", scheme.ErrorIcon(), configFile)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: workload %q, %d events, %d workers\n",
		scheme.SuccessIcon(), configFile, cfg.Name, len(cfg.Events), cfg.Workers)
	return nil
}
