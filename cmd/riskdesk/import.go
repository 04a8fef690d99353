package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/riskdesk/internal/domain/batch"
	"github.com/kailas-cloud/riskdesk/internal/repository/patient"
	"github.com/kailas-cloud/riskdesk/internal/usecase/registry"
)

func importCMD(env *string) *cobra.Command {
	var csvPath string
	var batchSize int
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load patient records from a CSV file into the registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := bootstrap(ctx, *env, false)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(filepath.Clean(csvPath))
			if err != nil {
				return eris.Wrapf(err, "open %s", csvPath)
			}
			defer func() { _ = f.Close() }()

			svc := registry.New(patient.New(a.db)).WithBatchSize(batchSize)
			results, err := svc.Import(ctx, f)
			if results != nil {
				printImport(cmd.OutOrStdout(), results)
			}
			if err != nil {
				return eris.Wrap(err, "import")
			}

			ok, failed := dombatch.Count(results)
			a.logger.Info("Registry import finished",
				zap.String("csv", csvPath),
				zap.Int("imported", ok),
				zap.Int("failed", failed),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "path to the patient CSV file")
	cmd.Flags().IntVar(&batchSize, "batch-size", registry.DefaultBatchSize, "rows per transaction")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func printImport(w io.Writer, results []dombatch.Result) {
	for _, r := range results {
		if r.Status() == dombatch.StatusError {
			_, _ = fmt.Fprintf(w, "line %d (patient %d): %v\n", r.Line(), r.PatientID(), r.Err())
		}
	}
	ok, failed := dombatch.Count(results)
	_, _ = fmt.Fprintf(w, "imported %d records, %d failed\n", ok, failed)
}
