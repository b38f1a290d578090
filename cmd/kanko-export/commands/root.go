package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/kanko/bootstrap"
	"github.com/kbukum/kanko/extract"
	"github.com/kbukum/kanko/httpclient"
	"github.com/kbukum/kanko/kanko"
	"github.com/kbukum/kanko/observability"
	"github.com/kbukum/kanko/tsv"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kanko-export [--config <path/to/config.yml>]",
	Short: "Exports tourism spots from the spot API as tab-separated rows.",
	Long: `Exports every spot of the configured categories as header-less
tab-separated rows on stdout:

  name, kana, category1, category2, category3, postal_code, address_name, address_kana

Logs are written to stderr.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		return export(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: search ./cmd/kanko-export, ./config, .)")
	rootCmd.AddCommand(versionCmd)
}

// ExecuteContext runs the root command and exits non-zero on failure.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// export wires the components and streams every row of the run to out.
func export(ctx context.Context, cfg *AppConfig, out io.Writer, opts ...bootstrap.Option) error {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return err
	}

	telemetry := observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	transport := httpclient.NewComponent(cfg.Extract.HTTPClientConfig())
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}
	if err := app.RegisterComponent(transport); err != nil {
		return err
	}

	rows := tsv.NewWriter(out)
	app.OnStop(func(context.Context) error {
		return rows.Flush()
	})

	var extractor *extract.Extractor
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		metrics := observability.DefaultMetrics()
		client := kanko.NewClient(transport, a.Cfg.Extract.Endpoint(),
			kanko.WithMetrics(metrics),
			kanko.WithLogger(a.ComponentLogger(kanko.ComponentName)),
		)
		extractor = extract.New(client, a.Cfg.Extract.Categories,
			extract.WithMetrics(metrics),
			extract.WithLogger(a.ComponentLogger(extract.ComponentName)),
			extract.WithRunID(a.Cfg.Extract.RunID),
		)
		return nil
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		_, err := extractor.Run(ctx, rows)
		return err
	})
}
