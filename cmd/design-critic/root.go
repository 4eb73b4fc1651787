package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the design-critic command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design-critic",
		Short: "AI-powered design critique service",
		Long: `design-critic renders or accepts a design artifact (HTML, image URL,
or base64 image) and returns a structured critique from an AI vision
model (OpenAI, Anthropic or Google).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
