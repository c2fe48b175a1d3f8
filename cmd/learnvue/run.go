package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seven-it/Learn-Vue/internal/script"
	"github.com/seven-it/Learn-Vue/pkg/metrics"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		format      string
		dumpMetrics bool
		s3Region    string
		s3Endpoint  string
	)

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run a scenario and print its events",
		Long: `Run a scenario file and print every watcher callback and warning.

The scenario is read from a file, from standard input ("-") or from S3
("s3://bucket/key", credentials from AWS_ACCESS_KEY_ID and
AWS_SECRET_ACCESS_KEY).

Examples:
  learnvue run counter.yaml
  learnvue run --sync --format=json counter.yaml
  cat counter.yaml | learnvue run -
  learnvue run s3://scenarios/arrays.yaml --s3-region=eu-west-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("s3-region") {
				s.cfg.S3.Region = s3Region
			}
			if cmd.Flags().Changed("s3-endpoint") {
				s.cfg.S3.Endpoint = s3Endpoint
			}
			if dumpMetrics && s.collector == nil {
				s.registry = prometheus.NewRegistry()
				s.collector = metrics.New(
					metrics.WithRegistry(s.registry),
					metrics.WithNamespace(s.cfg.Metrics.Namespace),
				)
			}

			loader := &script.Loader{Stdin: cmd.InOrStdin()}
			if strings.HasPrefix(args[0], "s3://") {
				loader.S3 = script.NewS3Client(s.cfg.S3.Region, s.cfg.S3.Endpoint)
			}

			sc, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			res, runErr := script.NewRunner(s.runnerOptions()...).Run(cmd.Context(), sc)
			if res != nil {
				if err := printResult(cmd.OutOrStdout(), format, res); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}

			if dumpMetrics {
				fmt.Fprintln(cmd.OutOrStdout())
				return metrics.WriteText(cmd.OutOrStdout(), s.registry)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Print Prometheus metrics after the run")
	cmd.Flags().StringVar(&s3Region, "s3-region", "", "AWS region for s3:// scenarios (default from learnvue.json)")
	cmd.Flags().StringVar(&s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")

	return cmd
}

func printResult(w io.Writer, format string, res *script.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		printText(w, res)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// printText prints events and warnings interleaved by step.
func printText(w io.Writer, res *script.Result) {
	ev, wn := 0, 0
	for ev < len(res.Events) || wn < len(res.Warnings) {
		if wn < len(res.Warnings) && (ev >= len(res.Events) || res.Warnings[wn].Step <= res.Events[ev].Step) {
			x := res.Warnings[wn]
			fmt.Fprintf(w, "step %-3d %-5s %s: %s\n", x.Step, "warn", x.Code, x.Message)
			wn++
			continue
		}
		x := res.Events[ev]
		fmt.Fprintf(w, "step %-3d %-5s %s: %s -> %s\n", x.Step, "watch", x.Watcher, show(x.Old), show(x.Value))
		ev++
	}
	if res.Data != nil {
		fmt.Fprintf(w, "final    %s\n", show(res.Data))
	}
}

func show(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
