package main

import (
	"fmt"
	"os"

	"cdrgraft/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgPath             string
	output              string
	fastaOnly           bool
	oasisDB             string
	scheme              string
	cdrDefinition       string
	heavyVGermline      string
	lightVGermline      string
	backmutateVernier   bool
	sapiensIterations   int
	limit               int
	workers             int
	minFractionSubjects float64
	verbose             bool

	// Logger
	logger *zap.Logger
)

// rootCmd is the single cdrgraft command.
var rootCmd = &cobra.Command{
	Use:   "cdrgraft [inputs...]",
	Short: "Humanize antibodies by grafting CDRs onto human germline frameworks",
	Long: `CDR Grafting transplants the CDR loops of each input antibody onto the most
similar human germline framework, optionally with Vernier zone backmutations
and iterative framework refinement. With an OASis peptide database the run
also reports humanness scores for the parental and humanized chains.

Examples:

  # Graft CDRs onto auto-selected human germlines, print to standard output
  cdrgraft input.fa

  # FASTA output only (skips humanness scoring and report assembly)
  cdrgraft input.fa --fasta-only --output humanized.fa

  # Full report with 2 refinement iterations and OASis scoring
  cdrgraft input.fa --sapiens-iterations 2 --output ./report/ \
    --oasis-db /path/to/OASis_9mers_v1.db

  # Specify custom germline genes
  cdrgraft input.fa --heavy-v-germline 'IGHV3-23*01' \
    --light-v-germline 'IGKV1-39*01' --output ./report/

Without input paths, cdrgraft starts an interactive session.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE:          runCDRGraft,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaults := config.Default()
	flags := rootCmd.Flags()
	flags.StringVar(&cfgPath, "config", "", "YAML config file with run defaults")
	flags.StringVar(&output, "output", "", "Output directory path. With --fasta-only, output FASTA file path")
	flags.BoolVar(&fastaOnly, "fasta-only", false, "Output only a FASTA file with humanized sequences (speeds up processing)")
	flags.StringVar(&oasisDB, "oasis-db", "", "OAS peptide database connection string (required to run OASis)")
	flags.StringVar(&scheme, "scheme", defaults.Scheme, "Numbering scheme: kabat, chothia or imgt")
	flags.StringVar(&cdrDefinition, "cdr-definition", defaults.CDRDefinition, "CDR definition: kabat, chothia or north")
	flags.StringVar(&heavyVGermline, "heavy-v-germline", defaults.HeavyVGermline, "Heavy chain V germline gene (auto for automatic selection)")
	flags.StringVar(&lightVGermline, "light-v-germline", defaults.LightVGermline, "Light chain V germline gene (auto for automatic selection)")
	flags.BoolVar(&backmutateVernier, "backmutate-vernier", false, "Backmutate Vernier zone residues to parental")
	flags.IntVar(&sapiensIterations, "sapiens-iterations", 0, "Additional refinement iterations after CDR grafting")
	flags.IntVar(&limit, "limit", 0, "Process only first N records")
	flags.IntVar(&workers, "workers", defaults.Workers, "Parallel record workers (1 = sequential; output order is preserved)")
	flags.Float64Var(&minFractionSubjects, "min-fraction-subjects", defaults.MinFractionSubjects, "Minimum fraction of subjects for OASis peptide prevalence")
	flags.BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// applyFlagOverrides copies explicitly set flags over the file-loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("output", func() { cfg.Output = output })
	set("fasta-only", func() { cfg.FastaOnly = fastaOnly })
	set("oasis-db", func() { cfg.OASisDB = oasisDB })
	set("scheme", func() { cfg.Scheme = scheme })
	set("cdr-definition", func() { cfg.CDRDefinition = cdrDefinition })
	set("heavy-v-germline", func() { cfg.HeavyVGermline = heavyVGermline })
	set("light-v-germline", func() { cfg.LightVGermline = lightVGermline })
	set("backmutate-vernier", func() { cfg.BackmutateVernier = backmutateVernier })
	set("sapiens-iterations", func() { cfg.SapiensIterations = sapiensIterations })
	set("limit", func() { cfg.Limit = limit })
	set("workers", func() { cfg.Workers = workers })
	set("min-fraction-subjects", func() { cfg.MinFractionSubjects = minFractionSubjects })
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
