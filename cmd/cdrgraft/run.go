package main

import (
	"fmt"
	"io"
	"os"

	"cdrgraft/internal/antibody"
	"cdrgraft/internal/config"
	"cdrgraft/internal/germline"
	"cdrgraft/internal/humanize"
	"cdrgraft/internal/oasis"
	"cdrgraft/internal/pipeline"
	"cdrgraft/internal/report"
	"cdrgraft/internal/session"

	"github.com/spf13/cobra"
)

func runCDRGraft(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)

	params := humanize.Params{
		Scheme:            cfg.Scheme,
		CDRDefinition:     cfg.CDRDefinition,
		HeavyVGermline:    cfg.HeavyVGermline,
		LightVGermline:    cfg.LightVGermline,
		BackmutateVernier: cfg.BackmutateVernier,
		SapiensIterations: cfg.SapiensIterations,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	printSettings(os.Stderr, params)

	numberer := antibody.NewMotifNumberer()
	lib, err := germline.Load()
	if err != nil {
		return err
	}
	engine := humanize.NewGraftEngine(lib, numberer)

	var scorer oasis.Scorer
	if cfg.OASisDB != "" && !cfg.FastaOnly {
		db, err := oasis.Open(oasis.Params{
			DBPath:              cfg.OASisDB,
			MinFractionSubjects: cfg.MinFractionSubjects,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		scorer = db
	}

	if len(args) == 0 {
		controller := &session.Controller{
			Numberer:  numberer,
			Humanizer: engine,
			Scorer:    scorer,
			Params:    params,
			Log:       logger,
		}
		return controller.Run(os.Stdin, os.Stdout, os.Stderr)
	}

	return runBatch(cmd, args, cfg, params, numberer, engine, scorer)
}

func runBatch(cmd *cobra.Command, inputs []string, cfg config.Config, params humanize.Params,
	numberer antibody.Numberer, engine humanize.Humanizer, scorer oasis.Scorer) error {

	fmt.Fprintln(os.Stderr, "Reading input files...")
	source := &pipeline.FastaSource{Paths: inputs, Limit: cfg.Limit, Log: logger}
	records, err := source.Records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No valid sequences found!")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Processing %d sequences...\n", len(records))

	runner := &pipeline.Runner{
		Numberer:  numberer,
		Humanizer: engine,
		Scorer:    scorer,
		Params:    params,
		Workers:   cfg.Workers,
		Log:       logger,
	}
	result, err := runner.Run(cmd.Context(), records)
	if err != nil {
		return err
	}

	if cfg.FastaOnly {
		if err := writeFastaOnly(cfg.Output, result.Entries, params); err != nil {
			return err
		}
	} else if cfg.Output == "" {
		if err := report.WriteFasta(os.Stdout, result.Entries, params, true); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(os.Stderr, "Writing report to %s...\n", cfg.Output)
		if err := report.WriteDir(cfg.Output, result.Entries, params, scorer != nil); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Completed! Output saved to %s\n", cfg.Output)
	}

	noun := "antibodies"
	if result.Processed() == 1 {
		noun = "antibody"
	}
	fmt.Fprintf(os.Stderr, "Successfully humanized %d of %d %s\n", result.Processed(), result.Total, noun)
	return nil
}

func writeFastaOnly(path string, entries []pipeline.Entry, params humanize.Params) error {
	var w io.Writer = os.Stdout
	if path != "" {
		fmt.Fprintf(os.Stderr, "Writing output to %s...\n", path)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	return report.WriteFasta(w, entries, params, false)
}

func printSettings(w io.Writer, params humanize.Params) {
	fmt.Fprintln(w, "Settings:")
	fmt.Fprintln(w, "- Humanization method: CDR Grafting")
	fmt.Fprintf(w, "- Numbering scheme: %s\n", params.Scheme)
	fmt.Fprintf(w, "- CDR definition: %s\n", params.CDRDefinition)
	fmt.Fprintf(w, "- Heavy V germline: %s\n", params.HeavyVGermline)
	fmt.Fprintf(w, "- Light V germline: %s\n", params.LightVGermline)
	vernier := "No"
	if params.BackmutateVernier {
		vernier = "Yes"
	}
	fmt.Fprintf(w, "- Backmutate Vernier zone: %s\n", vernier)
	if params.SapiensIterations > 0 {
		fmt.Fprintf(w, "- Refinement iterations: %d\n", params.SapiensIterations)
	}
	fmt.Fprintln(w)
}
