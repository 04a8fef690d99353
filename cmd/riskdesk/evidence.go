package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	domev "github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/repository/patient"
	"github.com/kailas-cloud/riskdesk/internal/repository/refdoc"
	evidenceuc "github.com/kailas-cloud/riskdesk/internal/usecase/evidence"
)

// evidenceOutput is the JSON printed by the evidence command.
type evidenceOutput struct {
	PatientID int64  `json:"patient_id"`
	Question  string `json:"question,omitempty"`
	domev.Result
}

func evidenceCMD(env *string) *cobra.Command {
	var id int64
	var question string
	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Print the document evidence retrieved for a patient",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := bootstrap(ctx, *env, false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := patient.New(a.db).Get(ctx, id)
			if err != nil {
				return eris.Wrapf(err, "patient %d", id)
			}

			docs := refdoc.NewIndex(a.cfg.Documents.GuidelinesPath, a.cfg.Documents.PolicyPath, a.logger)
			res := evidenceuc.New(docs).Retrieve(p, question)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(evidenceOutput{PatientID: id, Question: question, Result: res})
		},
	}
	cmd.Flags().Int64Var(&id, "patient", 0, "patient id")
	cmd.Flags().StringVar(&question, "question", "", "optional question that widens the clinical search")
	_ = cmd.MarkFlagRequired("patient")
	return cmd
}
