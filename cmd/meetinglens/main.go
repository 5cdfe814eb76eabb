// Command meetinglens runs the meeting intelligence toolkit: compose
// execution plans for hero prompts, classify calendar events, measure plan
// stability across trials and compare batch outputs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "meetinglens",
		Short:         "Meeting intelligence toolkit: plan composition, classification and stability analysis",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVarP(&g.backendName, "backend", "b", "", "backend to use (openai, anthropic, ollama)")
	cmd.PersistentFlags().StringVarP(&g.model, "model", "m", "", "model identifier override")
	cmd.PersistentFlags().StringVarP(&g.outputDir, "output", "o", "", "artifact output directory")
	cmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress log output")

	cmd.AddCommand(newComposeCmd(g))
	cmd.AddCommand(newClassifyCmd(g))
	cmd.AddCommand(newBatchCmd(g))
	cmd.AddCommand(newStabilityCmd(g))
	cmd.AddCommand(newCompareCmd())

	return cmd
}
