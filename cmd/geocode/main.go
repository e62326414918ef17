// geocode resolves free-form location strings into coordinates from the
// command line by trying geocoding providers in order.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/pkg/geomux"
)

var rootCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve location strings through geocoding providers",
	Long: `
geocode resolves free-form location strings into coordinates. Providers are
named by URI and tried in order; the first one producing a usable result
wins. Results print to stdout as canonical JSON.
`,
}

var (
	providerURIs []string
	resolveAll   bool
	userAgent    string
	timeout      time.Duration
	showAttempts bool
	verbose      bool
)

var resolveCmd = &cobra.Command{
	Use:          "resolve <location>",
	Short:        "Resolve a location string to coordinates",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		cfg := geomux.Config()
		cfg.Transport.Timeout = timeout
		cfg.Transport.UserAgent = userAgent
		for _, uri := range providerURIs {
			cfg.Providers = append(cfg.Providers, config.ProviderConfig{URI: uri})
		}

		ctx := cmd.Context()
		d, err := geomux.NewFromConfig(ctx, cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		query := args[0]

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if resolveAll {
			results := d.ResolveAll(ctx, query)
			if showAttempts {
				printAttempts(d)
			}
			if len(results) == 0 {
				return fmt.Errorf("no provider resolved %q", query)
			}
			return enc.Encode(results)
		}

		result := d.ResolveOne(ctx, query)
		if showAttempts {
			printAttempts(d)
		}
		if result == nil {
			return fmt.Errorf("no provider resolved %q", query)
		}
		return enc.Encode(result)
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List registered provider schemes",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		for _, scheme := range geomux.Schemes() {
			fmt.Println(scheme)
		}
	},
}

func printAttempts(d *geomux.Dispatcher) {
	for _, a := range d.Log() {
		switch {
		case a.CacheHit():
			fmt.Fprintf(os.Stderr, "cache\t%s\t%d results\n", a.Location, len(a.Results))
		case a.Failed():
			fmt.Fprintf(os.Stderr, "%s\t%s\t%s\terror: %s\n", a.Geocoder, a.Location, a.Elapsed, a.Err)
		default:
			fmt.Fprintf(os.Stderr, "%s\t%s\t%s\t%d results\n", a.Geocoder, a.Location, a.Elapsed, len(a.Results))
		}
	}
}

func init() {
	resolveCmd.Flags().StringSliceVar(&providerURIs, "providers", []string{"nominatim://"}, "provider URIs, tried in order")
	resolveCmd.Flags().BoolVar(&resolveAll, "all", false, "print the winning provider's full candidate batch")
	resolveCmd.Flags().StringVar(&userAgent, "user-agent", "geomux/1.0", "User-Agent header sent to providers")
	resolveCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	resolveCmd.Flags().BoolVar(&showAttempts, "attempts", false, "print the attempt log to stderr")
	resolveCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(providersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
