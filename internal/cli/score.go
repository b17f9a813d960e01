package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/internal/store/memory"
)

type scoreOptions struct {
	records   string
	ledger    bool
	overrides string
	weights   string
	window    int
	mode      string
	asOf      string
	asJSON    bool
}

func ScoreCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var o scoreOptions
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank records by renewal priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, logger(cmd), o)
		},
	}
	cmd.Flags().StringVarP(&o.records, "records", "r", "", "JSON file of records")
	cmd.Flags().BoolVar(&o.ledger, "ledger", false, "Records file holds ledger policies with wei amounts")
	cmd.Flags().StringVar(&o.overrides, "overrides", "", "JSON file of manual overrides")
	cmd.Flags().StringVarP(&o.weights, "weights", "w", "", "YAML file of factor weights (default weights when empty)")
	cmd.Flags().IntVar(&o.window, "window", core.DefaultWindowDays, "Look-ahead in days")
	cmd.Flags().StringVar(&o.mode, "mode", "", "csv or ledger (ledger when --ledger is set)")
	cmd.Flags().StringVar(&o.asOf, "as-of", "", "Score as of this RFC3339 time instead of now")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Print the pipeline as JSON")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}

func runScore(cmd *cobra.Command, log *slog.Logger, o scoreOptions) error {
	ctx := cmd.Context()

	recs, err := loadRecords(o.records, o.ledger)
	if err != nil {
		return err
	}

	q := core.PipelineQuery{TimeWindowDays: o.window, Mode: core.PipelineMode(o.mode)}
	if q.Mode == "" && o.ledger {
		q.Mode = core.ModeLedger
	}
	if o.weights != "" {
		if q.Weights, err = loadWeights(o.weights); err != nil {
			return err
		}
	}

	var engineOpts []core.EngineOption
	if o.asOf != "" {
		at, err := time.Parse(time.RFC3339, o.asOf)
		if err != nil {
			return fmt.Errorf("--as-of: %w", err)
		}
		engineOpts = append(engineOpts, core.WithClock(func() time.Time { return at }))
	}

	svc := core.NewRenewalService(memory.NewRecordRepo(recs...), core.NewMemoryOverrideStore(), core.NewEngine(log, engineOpts...))
	if o.overrides != "" {
		overrides, err := loadOverrides(o.overrides)
		if err != nil {
			return err
		}
		for _, ov := range overrides {
			in := core.OverrideInput{Score: ov.Score, Reason: ov.Reason, CreatedBy: ov.CreatedBy}
			if _, err := svc.SetOverride(ctx, ov.RecordID, in); err != nil {
				return fmt.Errorf("override %s: %w", ov.RecordID, err)
			}
		}
	}

	p, err := svc.Pipeline(ctx, q)
	if err != nil {
		return err
	}
	if o.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	return printPipeline(cmd.OutOrStdout(), p)
}

func printPipeline(out io.Writer, p core.Pipeline) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRECORD\tSCORE\tURGENCY\tDAYS\tOVERRIDE\tEXPLANATION")
	for i, it := range p.Items {
		ov := "-"
		if it.ManualOverride != nil {
			ov = fmt.Sprintf("%d (was %d)", it.PriorityScore, it.ComputedScore)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\t%s\n",
			i+1, it.Record.ID, it.PriorityScore, it.UrgencyLevel, it.DaysUntilExpiry, ov, it.Explanation)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d records: %d critical, %d high, %d medium, %d low\n",
		len(p.Items),
		p.Counts[core.UrgencyCritical], p.Counts[core.UrgencyHigh],
		p.Counts[core.UrgencyMedium], p.Counts[core.UrgencyLow])
	return err
}
