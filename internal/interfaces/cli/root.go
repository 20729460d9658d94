// Package cli implements the pharmarisk command line interface.  It runs the
// analysis pipeline offline against the synthetic data source, with no
// database, cache, or broker required.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/medequity/pharmarisk/internal/application/alerting"
	"github.com/medequity/pharmarisk/internal/application/analysis"
	"github.com/medequity/pharmarisk/internal/application/approval"
	"github.com/medequity/pharmarisk/internal/application/cliff"
	"github.com/medequity/pharmarisk/internal/application/normalize"
	"github.com/medequity/pharmarisk/internal/application/risk"
	"github.com/medequity/pharmarisk/internal/config"
	"github.com/medequity/pharmarisk/internal/domain/company"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
)

type rootOptions struct {
	configPath string
	revenue    string
	name       string
}

// staticCompanies resolves the analyzed ticker from command line flags
// instead of the reference database.
type staticCompanies struct {
	revenue decimal.Decimal
	name    string
}

func (s staticCompanies) GetByTicker(_ context.Context, ticker string) (company.Company, error) {
	return company.New(ticker, s.name, s.revenue)
}

// NewRootCommand builds the pharmarisk command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "pharmarisk",
		Short:         "Pharmaceutical regulatory and patent cliff risk analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (optional)")
	root.PersistentFlags().StringVar(&opts.revenue, "revenue", "", "annual revenue in USD (enables impact projection)")
	root.PersistentFlags().StringVar(&opts.name, "name", "", "company display name")

	root.AddCommand(newAnalyzeCommand(opts))
	root.AddCommand(newAlertsCommand(opts))
	return root
}

// Execute runs the CLI and exits nonzero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildService assembles an offline analysis service from the options.
func buildService(opts *rootOptions) (analysis.Service, error) {
	cfg := &config.Config{}
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		config.ApplyDefaults(cfg)
	}

	revenue := decimal.Zero
	if opts.revenue != "" {
		parsed, err := decimal.NewFromString(strings.ReplaceAll(opts.revenue, ",", ""))
		if err != nil {
			return nil, fmt.Errorf("invalid --revenue %q: %w", opts.revenue, err)
		}
		revenue = parsed
	}

	now := time.Now().UTC()
	source := &normalize.SyntheticSource{Anchor: now}
	return analysis.NewService(
		staticCompanies{revenue: revenue, name: opts.name},
		analysis.NewFeedEventSource(source, logging.NewNopLogger()),
		source,
		risk.NewScorer(cfg.Analytics.Risk),
		approval.NewPredictor(cfg.Analytics.Approval),
		cliff.NewAnalyzer(cfg.Analytics.Cliff),
		alerting.NewGenerator(cfg.Analytics.Alerting),
		nil,
		nil,
		nil,
		logging.NewNopLogger(),
		analysis.Options{ResultTTL: cfg.Analytics.ResultTTL},
	), nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
