package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ferc1-etl/internal/config"
	"github.com/ferc1-etl/internal/db"
	"github.com/ferc1-etl/internal/etl"
	"github.com/ferc1-etl/internal/features"
	"github.com/ferc1-etl/internal/plants"
	"github.com/ferc1-etl/internal/web"
)

var (
	// Global database connection
	dbConn *db.Connection

	verbose bool
)

func main() {
	if err := config.LoadEnv(); err != nil {
		logrus.Fatalf("Failed to load environment: %v", err)
	}

	var err error
	dbConn, err = db.NewConnection()
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	rootCmd := &cobra.Command{
		Use:   "ferc1",
		Short: "FERC Form 1 plant identity ETL",
		Long:  `Resolves FERC Form 1 plant records into cross-year plant time series`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")

	rootCmd.AddCommand(createTransformCmd())
	rootCmd.AddCommand(createScoreCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// pipelineConfig assembles the pipeline configuration from the environment.
func pipelineConfig() etl.Config {
	return etl.Config{
		MinSim:  config.MinSim(),
		Verbose: verbose,
		Features: features.Config{
			NgramMin: config.NgramMin(),
			NgramMax: config.NgramMax(),
			Weights: features.Weights{
				PlantName:        config.PlantNameWeight(),
				PlantType:        config.PlantTypeWeight(),
				ConstructionType: config.ConstructionTypeWeight(),
				CapacityMW:       config.CapacityWeight(),
				ConstructionYear: config.ConstructionYearWeight(),
				RespondentID:     config.RespondentWeight(),
			},
		},
	}
}

// referenceTables loads the category mappings, from file when configured.
func referenceTables() (*plants.ReferenceTables, error) {
	if path := config.RefTables(); path != "" {
		return plants.LoadReferenceTables(path)
	}
	return plants.DefaultReferenceTables(), nil
}

func newPipeline() (*etl.Pipeline, error) {
	refs, err := referenceTables()
	if err != nil {
		return nil, err
	}
	return etl.NewPipeline(dbConn.DB, pipelineConfig(), refs), nil
}

// createTransformCmd creates the transform subcommand.
func createTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform [table|all]",
		Short: "Resolve plant identities for a staged plant table",
		Long:  `Identifies distinct plants across filing years and writes the grouped records`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline()
			if err != nil {
				return err
			}

			names := []string{args[0]}
			if args[0] == "all" {
				names = names[:0]
				for _, spec := range etl.Tables {
					names = append(names, spec.Name)
				}
			}

			for _, name := range names {
				stats, err := pipeline.TransformTable(name)
				if err != nil {
					return fmt.Errorf("transform %s: %w", name, err)
				}
				fmt.Printf("%s: %d plants identified, %d of %d records (%.1f%%) categorized\n",
					name, stats.Plants, stats.Grouped, stats.Total, stats.PctGrouped)
			}
			return nil
		},
	}
}

// createScoreCmd creates the score subcommand.
func createScoreCmd() *cobra.Command {
	var truthFile string

	cmd := &cobra.Command{
		Use:   "score [table]",
		Short: "Score plant grouping against hand-classified truth data",
		Long:  `Compares predicted plant time series against known-good groups, one comma-delimited record ID list per line`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			truth, err := readTruthGroups(truthFile)
			if err != nil {
				return err
			}

			pipeline, err := newPipeline()
			if err != nil {
				return err
			}
			score, err := pipeline.ScoreTable(args[0], truth)
			if err != nil {
				return err
			}
			fmt.Printf("%s: mean sequence similarity %.4f over %d truth groups\n",
				args[0], score, len(truth))
			return nil
		},
	}
	cmd.Flags().StringVarP(&truthFile, "truth", "t", "", "path to truth groups file")
	cmd.MarkFlagRequired("truth")
	return cmd
}

// createServeCmd creates the status server subcommand.
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve run progress and resolved plant groups over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline()
			if err != nil {
				return err
			}
			return web.NewServer(config.HTTPAddr(), pipeline).Run()
		},
	}
}

// createPingCmd creates a command to test database connectivity.
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Database connection successful!")

			for _, spec := range etl.Tables {
				var count int
				err := dbConn.DB.QueryRow(
					fmt.Sprintf("SELECT COUNT(*) FROM %s", spec.StagingName)).Scan(&count)
				if err != nil {
					logrus.Warnf("Error counting %s records: %v", spec.StagingName, err)
					continue
				}
				fmt.Printf("%s: %d staged records\n", spec.Name, count)
			}
		},
	}
}

// readTruthGroups reads one comma-delimited record ID group per line,
// skipping blank lines and comments.
func readTruthGroups(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open truth file: %w", err)
	}
	defer f.Close()

	var groups []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		groups = append(groups, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read truth file: %w", err)
	}
	return groups, nil
}
