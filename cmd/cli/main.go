package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yurifrl/budgetu/pkg/budgetfile"
	"github.com/yurifrl/budgetu/pkg/config"
	"github.com/yurifrl/budgetu/pkg/csv"
	"github.com/yurifrl/budgetu/pkg/download"
	"github.com/yurifrl/budgetu/pkg/export"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/server"
	"github.com/yurifrl/budgetu/pkg/service"
	"github.com/yurifrl/budgetu/pkg/store"
)

var (
	cfgFile string
	fs      = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:           "budgetu",
	Short:         "Personal budget tracker and exporter",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [budget_file|dir|glob]",
	Short: "Export budgets as budget_report.json and/or budget_report.csv",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		formats := export.Formats
		if cfg.Format != "all" {
			f, err := export.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}
			formats = []export.Format{f}
		}
		opts := export.Options{CSV: csv.Options{Quote: cfg.CSV.Quote}}

		inputPath := cfg.Budget
		if len(args) == 1 {
			inputPath = args[0]
		}

		if cfg.OutputDir == "-" {
			data, err := budgetfile.Load(fs, inputPath)
			if err != nil {
				return err
			}
			exp := export.New(logger, &download.WriterDownloader{W: cmd.OutOrStdout()}, opts)
			for _, f := range formats {
				if err := exp.Export(f, data); err != nil {
					return err
				}
			}
			return nil
		}

		processor := service.NewProcessor(fs, logger, opts)

		matches, err := afero.Glob(fs, inputPath)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files found matching pattern %s", inputPath)
		}

		// A single file exports straight into the output directory.
		if len(matches) == 1 {
			if isDir, _ := afero.IsDir(fs, matches[0]); !isDir {
				return processor.ProcessFile(matches[0], cfg.OutputDir, formats)
			}
		}

		failed := 0
		for _, match := range matches {
			isDir, err := afero.IsDir(fs, match)
			if err != nil {
				logger.Warn("failed to stat file", "error", err, "file", match)
				failed++
				continue
			}

			if isDir {
				if _, err := processor.ProcessDirectory(match, cfg.OutputDir, formats); err != nil {
					logger.Warn("failed to process directory", "error", err, "dir", match)
					failed++
				}
				continue
			}
			if !service.IsBudgetFile(match) {
				continue
			}
			name := filepath.Base(match)
			outDir := filepath.Join(cfg.OutputDir, strings.TrimSuffix(name, filepath.Ext(name)))
			if err := processor.ProcessFile(match, outDir, formats); err != nil {
				logger.Warn("failed to process file", "error", err, "file", match)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d input(s) failed to export", failed)
		}
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [budget_file]",
	Short: "Show the flattened export records and budget totals",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}

		data, err := loadBudget(cfg, args)
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			return dumpRecords(cmd.OutOrStdout(), models.Flatten(data))
		}
		return renderPreview(cmd.OutOrStdout(), data)
	},
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter budget file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		path := cfg.Budget
		if len(args) == 1 {
			path = args[0]
		}

		force, _ := cmd.Flags().GetBool("force")
		if exists, _ := afero.Exists(fs, path); exists && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := budgetfile.Save(fs, path, budgetfile.Default()); err != nil {
			return err
		}
		logger.Info("wrote budget file", "path", path)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [budget_file]",
	Short: "Serve the budget and its exports over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		data := budgetfile.Default()
		if len(args) == 1 || cfg.Budget != "" {
			loaded, err := loadBudget(cfg, args)
			switch {
			case err == nil:
				data = loaded
			case len(args) == 1:
				return err
			default:
				logger.Warn("starting from the default budget", "err", err)
			}
		}

		st := store.New(data)
		srv := server.New(st, export.Options{CSV: csv.Options{Quote: cfg.CSV.Quote}}, logger)
		addr := fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port)
		logger.Info("starting server", "addr", addr)
		return srv.Start(addr)
	},
}

// setup builds the configuration (config file + flag overrides) and a logger for it.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "budgetu",
		Level:           cfg.Level(),
	})
	return cfg, logger, nil
}

func loadBudget(cfg *config.Config, args []string) (models.BudgetData, error) {
	path := cfg.Budget
	if len(args) == 1 {
		path = args[0]
	}
	return budgetfile.Load(fs, path)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("budget", "budget.yaml", "Budget file used when no argument is given")

	exportCmd.Flags().StringP("format", "f", "all", "Export format: json, csv or all")
	exportCmd.Flags().StringP("output", "o", ".", "Output directory, or - for stdout")
	exportCmd.Flags().Bool("csv-quote", false, "Quote CSV fields holding commas, quotes or line breaks")

	previewCmd.Flags().Bool("raw", false, "Dump the flattened records instead of a table")

	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	serveCmd.Flags().String("port", "3000", "Server port")
	serveCmd.Flags().Bool("csv-quote", false, "Quote CSV fields holding commas, quotes or line breaks")

	rootCmd.AddCommand(exportCmd, previewCmd, initCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
