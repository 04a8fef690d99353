package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/riskdesk/internal/version"
)

func main() {
	if err := rootCMD().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCMD() *cobra.Command {
	var env string
	root := &cobra.Command{
		Use:          "riskdesk",
		Short:        "Clinical risk decision support API",
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&env, "env", "", "config environment (default $ENV or local)")

	root.AddCommand(serveCMD(&env), importCMD(&env), evidenceCMD(&env))
	return root
}
