package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"whrlab/adapters/excel"
	"whrlab/app"
	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
	"whrlab/internal/config"
	"whrlab/internal/container"
	apperrors "whrlab/internal/errors"
	"whrlab/internal/logging"
	"whrlab/internal/testkit"
	"whrlab/internal/views"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "whr",
		Short:         "World Happiness Report analysis pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newDescribeCmd(),
		newViewsCmd(),
		newSeedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if apperrors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "error [%s]: %v\n", apperrors.GetCode(err), err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for problems the user can fix in the invocation and 1
// for everything else
func exitCode(err error) int {
	if errors.Is(err, apperrors.ErrConfigInvalid) || errors.Is(err, apperrors.ErrInvalidInput) {
		return 2
	}
	return 1
}

// loadConfig reads the environment, applies any flags the user set and
// validates the result once
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.FromEnv()

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.File, _ = flags.GetString("data")
	}
	if flags.Changed("sheet") {
		cfg.Data.Sheet, _ = flags.GetString("sheet")
	}
	if flags.Changed("missing") {
		cfg.Data.MissingTokens, _ = flags.GetStringSlice("missing")
	}
	if flags.Changed("gap") {
		cfg.Data.GapFile, _ = flags.GetString("gap")
	}
	if flags.Changed("out") {
		cfg.Output.Dir, _ = flags.GetString("out")
	}
	if flags.Changed("year") {
		cfg.Views.ScatterYear, _ = flags.GetInt("year")
	}
	if flags.Changed("bandwidth") {
		cfg.Views.BandwidthFactor, _ = flags.GetFloat64("bandwidth")
	}
	if flags.Changed("bins") {
		cfg.Views.HistogramBins, _ = flags.GetInt("bins")
	}
	if flags.Changed("bin-width") {
		cfg.Views.HistogramBinSize, _ = flags.GetFloat64("bin-width")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "configuration validation failed")
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.Human)
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build every view and write them as SVG",
		Long: `Load a World Happiness Report table, build the five views and write
each successful one as SVG into the output directory.

Settings come from WHR_* environment variables (or .env); flags override them.

Example: whr run --data whr.csv --gap gaps.csv --out figures --bins 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Data.File == "" {
				return apperrors.ConfigInvalid("no data file: set WHR_DATA_FILE or pass --data")
			}

			c, err := container.New(cfg)
			if err != nil {
				return err
			}
			report, err := c.RunAndPublish(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(report)
			}
			printReport(report)
			return nil
		},
	}

	addDataFlags(cmd)
	cmd.Flags().String("gap", "", "Long-format gap table for the faceted view")
	cmd.Flags().String("out", "figures", "Output directory for SVG files")
	cmd.Flags().Int("year", views.DefaultScatterYear, "Year shown by the scatter view")
	cmd.Flags().Float64("bandwidth", analysis.DefaultBandwidthFactor, "KDE bandwidth factor in (0, 1]")
	cmd.Flags().Int("bins", analysis.DefaultHistogramBins, "Histogram bin count")
	cmd.Flags().Float64("bin-width", 0, "Histogram bin width; overrides --bins when set")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run report as JSON")

	return cmd
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [columns...]",
		Short: "Profile numeric columns of the data file",
		Long: `Print count, missing, mean, standard deviation, min, median and max for
numeric columns. With no arguments every numeric column is profiled.

Example: whr describe --data whr.csv "Life Ladder" "Log GDP per capita"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Data.File == "" {
				return apperrors.ConfigInvalid("no data file: set WHR_DATA_FILE or pass --data")
			}

			c, err := container.New(cfg)
			if err != nil {
				return err
			}
			table, err := c.Loader.LoadTable(cmd.Context(), cfg.Data.File)
			if err != nil {
				return err
			}

			var profiles []analysis.ColumnProfile
			if len(args) == 0 {
				profiles = analysis.DescribeAll(table)
			} else {
				for _, column := range args {
					profile, err := analysis.Describe(table, column)
					if err != nil {
						return err
					}
					profiles = append(profiles, profile)
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tCOUNT\tMISSING\tMEAN\tSTD\tMIN\tMEDIAN\tMAX")
			for _, p := range profiles {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
					p.Column, p.Count, p.Missing, p.Mean, p.StdDev, p.Min, p.Median, p.Max)
			}
			return w.Flush()
		},
	}

	addDataFlags(cmd)
	return cmd
}

func newViewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List the views built by run",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, kind := range figure.AllKinds {
				fmt.Println(kind)
			}
		},
	}
}

func newSeedCmd() *cobra.Command {
	var countries int
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Write a synthetic WHR table and gap table for trying the pipeline",
		Long: `Generate deterministic synthetic data shaped like the World Happiness
Report and write whr.csv and gaps.csv into dir.

Example: whr seed testdata --countries 60 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			genConfig := testkit.DefaultWHRConfig()
			genConfig.CountryCount = countries
			genConfig.Seed = seed
			generator := testkit.NewWHRDataGenerator(genConfig)

			table, err := generator.GenerateTable()
			if err != nil {
				return err
			}
			gaps, err := generator.GenerateGapTable()
			if err != nil {
				return err
			}

			for name, t := range map[string]*dataset.Table{"whr.csv": table, "gaps.csv": gaps} {
				path := filepath.Join(dir, name)
				if err := excel.WriteTable(path, t); err != nil {
					return err
				}
				fmt.Printf("wrote %s (%d rows)\n", path, t.Len())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&countries, "countries", 40, "Number of synthetic countries")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")
	return cmd
}

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "WHR data file (csv or xlsx)")
	cmd.Flags().String("sheet", "", "Workbook sheet to read from xlsx inputs (default first sheet)")
	cmd.Flags().StringSlice("missing", nil, "Cell texts read as missing in numeric columns (default NA,N/A,NaN,nan,null,NULL)")
	cmd.Flags().String("log-level", "info", "Log level: debug|info|warn|error")
}

func printReport(report *app.Report) {
	if report.Fingerprint.IsEmpty() {
		fmt.Printf("Run %s over %d rows\n", report.RunID, report.Rows)
	} else {
		fmt.Printf("Run %s over %d rows (%s)\n", report.RunID, report.Rows, report.Fingerprint.Short())
	}
	for _, res := range report.Results {
		if res.OK() {
			fmt.Printf("  ok    %-18s %v\n", res.Kind, res.Paths)
			continue
		}
		fmt.Printf("  skip  %-18s [%s] %v\n", res.Kind, apperrors.GetCode(res.Err), res.Err)
	}
}

func printJSON(report *app.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
