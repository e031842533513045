package main

import (
	"fmt"
	"os"
	"strings"

	"goimpact/adapters/excel"
	"goimpact/app"
	"goimpact/domain/impact"
	"goimpact/internal"
	"goimpact/internal/config"
	"goimpact/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// sweepPlaceholder fills Ingest.grpers_val for sweeps, which replace it per subgroup.
const sweepPlaceholder = "*"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "goimpact",
		Short:         "Disparate-impact testing for 2x2 group/outcome tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Analysis document (YAML with Ingest and StatsTesting2x2Cont sections)")
	rootCmd.PersistentFlags().StringSlice("params", nil, "Additional YAML documents merged over the config in order")
	rootCmd.PersistentFlags().String("data", "", "CSV or XLSX data file (defaults to Ingest.filepath)")
	rootCmd.PersistentFlags().String("format", "text", "Output format: text or json")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: ERROR, WARN, INFO, DEBUG, TRACE")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Subgroups analysed at once by sweep and demo (0 = number of CPUs)")

	for _, name := range []string{"config", "params", "data", "format", "log-level", "concurrency"} {
		_ = v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	v.SetEnvPrefix("GOIMPACT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(
		newAnalyzeCmd(v),
		newSweepCmd(v),
		newValuesCmd(v),
		newDemoCmd(v),
		newVersionCmd(),
	)
	return rootCmd
}

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	var subgroup string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one disparate-impact analysis",
		Long: `Run the chi-square, phi and four-fifths tests for the subgroup slice
named by Ingest.grpers and Ingest.grpers_val.

Example: goimpact analyze --config config.yaml --data applicants.csv --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(v)
			if err != nil {
				return err
			}
			if subgroup != "" {
				doc.Set(config.SectionIngest, "grpers_val", subgroup)
			}
			ad, err := doc.Resolve(v.GetString("config"))
			if err != nil {
				return err
			}
			table, err := loadTable(v, ad.DataPath)
			if err != nil {
				return err
			}

			env, err := newService(v).Run(cmd.Context(), table, ad.Config)
			if err != nil {
				return err
			}
			return writeEnvelope(cmd.OutOrStdout(), v.GetString("format"), env)
		},
	}

	cmd.Flags().StringVar(&subgroup, "subgroup", "", "Override Ingest.grpers_val")
	return cmd
}

func newSweepCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the analysis for every value of the subgroup column",
		Long: `Run one analysis per distinct value of Ingest.grpers. Ingest.grpers_val
may be omitted. Subgroups whose tables are degenerate are reported with their
error instead of a report.

Example: goimpact sweep --config config.yaml --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(v)
			if err != nil {
				return err
			}
			doc.SetDefault(config.SectionIngest, "grpers_val", sweepPlaceholder)
			ad, err := doc.Resolve(v.GetString("config"))
			if err != nil {
				return err
			}
			table, err := loadTable(v, ad.DataPath)
			if err != nil {
				return err
			}

			res, err := newService(v).Sweep(cmd.Context(), table, ad.Config)
			if err != nil {
				return err
			}
			return writeSweep(cmd.OutOrStdout(), v.GetString("format"), res)
		},
	}
}

func newValuesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "values [column]",
		Short: "List the distinct values of a column",
		Long: `List the sorted distinct non-empty values of a column, to choose
group, outcome and subgroup values for the analysis document.

Example: goimpact values gender --data applicants.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataPath := ""
			if v.GetString("config") != "" {
				doc, err := loadDocument(v)
				if err != nil {
					return err
				}
				if dataPath, err = doc.DataPath(); err != nil {
					return err
				}
				dataPath = config.ResolveDataPath(v.GetString("config"), dataPath)
			}
			table, err := loadTable(v, dataPath)
			if err != nil {
				return err
			}
			values, err := impact.DistinctValues(table, args[0])
			if err != nil {
				return err
			}
			return writeValues(cmd.OutOrStdout(), v.GetString("format"), args[0], values)
		},
	}
}

func newDemoCmd(v *viper.Viper) *cobra.Command {
	var seed int64
	var csvOut string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Sweep a synthetic hiring dataset",
		Long: `Generate a synthetic applicant dataset (gender, outcome, job_title) and
sweep it by job title comparing Female and Male applicants.

Example: goimpact demo --seed 7 --write-csv applicants.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genCfg := testkit.DefaultHiringConfig()
			genCfg.Seed = seed
			table := testkit.NewHiringDataGenerator(genCfg).Generate()

			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return err
				}
				if err := testkit.WriteCSV(f, table); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			}

			res, err := newService(v).Sweep(cmd.Context(), table, testkit.DefaultAnalysisConfig())
			if err != nil {
				return err
			}
			return writeSweep(cmd.OutOrStdout(), v.GetString("format"), res)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the generated dataset")
	cmd.Flags().StringVar(&csvOut, "write-csv", "", "Also write the generated dataset to this CSV file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goimpact %s\n", version)
		},
	}
}

func newLogger(v *viper.Viper) *internal.Logger {
	level := v.GetString("log-level")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	return internal.NewLogger(internal.ParseLogLevel(level), os.Stderr)
}

func newService(v *viper.Viper) *app.AnalysisService {
	return app.NewAnalysisService(newLogger(v)).WithMaxConcurrency(v.GetInt("concurrency"))
}

func loadDocument(v *viper.Viper) (config.Document, error) {
	path := v.GetString("config")
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	return config.LoadDocument(path, v.GetStringSlice("params")...)
}

// loadTable reads --data, falling back to the document's data path.
func loadTable(v *viper.Viper, docPath string) (impact.Table, error) {
	path := v.GetString("data")
	if path == "" {
		path = docPath
	}
	if path == "" {
		return impact.Table{}, fmt.Errorf("no data file: pass --data or set Ingest.filepath")
	}
	return excel.NewDataReader(path).WithLogger(newLogger(v)).ReadTable()
}
