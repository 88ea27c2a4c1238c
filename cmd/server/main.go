package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/yurifrl/budgetu/pkg/budgetfile"
	"github.com/yurifrl/budgetu/pkg/config"
	"github.com/yurifrl/budgetu/pkg/csv"
	"github.com/yurifrl/budgetu/pkg/export"
	"github.com/yurifrl/budgetu/pkg/server"
	"github.com/yurifrl/budgetu/pkg/store"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "budgetu",
	})

	flags := pflag.NewFlagSet("budgetu-server", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.String("port", "3000", "Server port")
	flags.String("budget", "budget.yaml", "Budget file to start from")
	flags.Bool("csv-quote", false, "Quote CSV fields holding commas, quotes or line breaks")
	flags.String("log-level", "info", "Log level")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.Level())

	data, err := budgetfile.Load(afero.NewOsFs(), cfg.Budget)
	if err != nil {
		logger.Warn("starting from the default budget", "err", err)
		data = budgetfile.Default()
	}

	srv := server.New(store.New(data), export.Options{CSV: csv.Options{Quote: cfg.CSV.Quote}}, logger)
	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port)
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
