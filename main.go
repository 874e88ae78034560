package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/vuln-correlator/advisory"
	"github.com/aquasecurity/vuln-correlator/component"
	"github.com/aquasecurity/vuln-correlator/constraint"
	"github.com/aquasecurity/vuln-correlator/correlator"
	"github.com/aquasecurity/vuln-correlator/knowledge"
	"github.com/aquasecurity/vuln-correlator/report"
)

const envPrefix = "VULNCORR"

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("vuln-correlator failed")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd(viper.New()).ExecuteContext(ctx)
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vuln-correlator",
		Short:         "Correlate vulnerability advisories with software components",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			logger, err := newLogger(v.GetString("log-level"), v.GetBool("log-json"))
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().Bool("log-json", false, "log as JSON instead of console output")
	cmd.PersistentFlags().String("tables", "", "knowledge tables file (yaml or json)")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(newMatchCmd(v), newRangeCmd(v))
	return cmd
}

func newLogger(level string, asJSON bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, xerrors.Errorf("invalid log level %q: %w", level, err)
	}
	var logger zerolog.Logger
	if asJSON {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger.Level(lvl).With().Timestamp().Logger(), nil
}

func loadTables(path string) (*knowledge.Tables, error) {
	if path == "" {
		return knowledge.Default(), nil
	}
	return knowledge.Load(path)
}

func newMatchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match advisories against a component list and write one report per advisory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd.Context(), v, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.String("advisories", "", "advisory feed file (JSON array or {\"items\": [...]})")
	f.String("components", "", "component list file (JSON array of {name, version, language})")
	f.StringSlice("purl", nil, "package URL of an installed component, repeatable")
	f.StringSlice("requirement", nil, "requirement string such as 'requests[socks]>=2.28.0', repeatable")
	f.String("language", "python", "language of components given with --requirement")
	f.String("output", "", "report directory (default is the user cache directory)")
	f.Int("workers", 0, "advisories correlated at once (default GOMAXPROCS)")
	f.Duration("timeout", 0, "deadline for a single advisory, 0 disables it")
	f.Float64("threshold", 0.5, "score a similarity based match has to exceed")
	f.String("metrics-file", "", "write Prometheus metrics of the run to this file")
	f.Bool("stdout", false, "print reports to stdout instead of writing files")
	return cmd
}

func runMatch(ctx context.Context, v *viper.Viper, out io.Writer) error {
	logger := zerolog.Ctx(ctx)

	tables, err := loadTables(v.GetString("tables"))
	if err != nil {
		return xerrors.Errorf("knowledge tables error: %w", err)
	}

	components, err := loadComponents(v)
	if err != nil {
		return err
	}
	if len(components) == 0 {
		return fmt.Errorf("no components given")
	}

	path := v.GetString("advisories")
	if path == "" {
		return fmt.Errorf("--advisories is required")
	}
	records, err := advisory.LoadFile(path)
	if err != nil {
		return xerrors.Errorf("advisory feed error: %w", err)
	}
	if err := advisory.Validate(records); err != nil {
		logger.Warn().Err(err).Msg("Advisory feed has invalid entries")
	}

	reg := prometheus.NewRegistry()
	engine := correlator.New(tables, correlator.WithThreshold(v.GetFloat64("threshold")))
	runner := correlator.NewRunner(engine,
		correlator.WithWorkers(v.GetInt("workers")),
		correlator.WithTimeout(v.GetDuration("timeout")),
		correlator.WithRegisterer(reg),
	)
	reports, err := runner.Run(ctx, components, records)
	if err != nil {
		return err
	}

	if mf := v.GetString("metrics-file"); mf != "" {
		if err := prometheus.WriteToTextfile(mf, reg); err != nil {
			return xerrors.Errorf("metrics write error: %w", err)
		}
	}

	if v.GetBool("stdout") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "\t")
		return enc.Encode(reports)
	}

	w := report.NewWriter()
	if dir := v.GetString("output"); dir != "" {
		w = report.NewWriter(report.WithOutputDir(dir))
	}
	return w.Write(ctx, reports)
}

func loadComponents(v *viper.Viper) ([]component.Component, error) {
	var components []component.Component
	if path := v.GetString("components"); path != "" {
		loaded, err := component.LoadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("component list error: %w", err)
		}
		components = append(components, loaded...)
	}
	for _, p := range v.GetStringSlice("purl") {
		c, err := component.FromPURL(p)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	language := v.GetString("language")
	for _, r := range v.GetStringSlice("requirement") {
		c := component.ParseRequirement(r).Component(language).Clean()
		if c.Name == "" {
			continue
		}
		components = append(components, c)
	}
	return components, nil
}

type rangeInfo struct {
	constraint.Range
	Min       string `json:"min,omitempty"`
	Max       string `json:"max,omitempty"`
	Exact     string `json:"exact,omitempty"`
	Satisfied *bool  `json:"satisfied,omitempty"`
}

func newRangeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range EXPRESSION",
		Short: "Parse a version constraint expression and optionally check a version against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := constraint.Parse(args[0])
			info := rangeInfo{Range: r}
			info.Min, _ = r.MinVersion()
			info.Max, _ = r.MaxVersion()
			info.Exact, _ = r.ExactVersion()
			if version := v.GetString("check"); version != "" {
				ok, err := r.Satisfies(version, v.GetString("ecosystem"))
				if err != nil {
					return err
				}
				info.Satisfied = &ok
			}
			data, err := json.MarshalIndent(info, "", "\t")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().String("check", "", "version to check against the range")
	cmd.Flags().String("ecosystem", "", "ecosystem deciding the version ordering (python, npm, maven, go, ...)")
	return cmd
}
