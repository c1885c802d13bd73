// Reads an ActivityStreams object from stdin, optionally resolves the links
// in it, and writes the result to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tkrehbiel/smacktivity/server"
	"github.com/tkrehbiel/smacktivity/server/telemetry"
)

func readConfig(filename string) server.Config {
	var cfg server.Config
	if filename == "" {
		return cfg
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		telemetry.Error(err, "opening config [%s]", filename)
	} else {
		c, err := server.ReadConfig(b)
		if err != nil {
			telemetry.Error(err, "parsing config [%s]", filename)
		}
		cfg = c
	}

	return cfg
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configFile string
		verbose    bool
		timeout    int
		opts       server.RunOptions
	)

	cmd := &cobra.Command{
		Use:   "smacktivity",
		Short: "Read an ActivityPub object from stdin and do something with it",
		Long: `smacktivity reads a single ActivityStreams JSON document from stdin.

With no flags the document is written back out in canonical form. --resolve
fetches the objects one property links to and embeds them; --all does that for
every link, recursively, skipping paging cursors and url.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := readConfig(configFile)
			if timeout > 0 {
				cfg.Fetch.TimeoutSeconds = timeout
			}
			if verbose {
				cfg.Server.Trace = true
			}
			telemetry.SetTrace(cfg.Server.Trace)

			svc, err := server.NewService(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			err = svc.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
			if verbose {
				telemetry.LogCounters()
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Resolve, "resolve", "r", "", "resolve the links of one property (e.g. attributed_to)")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "resolve every link recursively")
	cmd.Flags().BoolVar(&opts.Values, "values", false, "print each resolved value of --resolve instead of the whole object")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "use debug printing rather than JSON")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config json file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace fetches to stderr and print counters")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "fetch timeout in seconds")

	return cmd
}
