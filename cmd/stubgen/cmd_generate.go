package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/config"
	"github.com/dhamidi/stubgen/format"
	"github.com/dhamidi/stubgen/jar"
	"github.com/dhamidi/stubgen/java"
	"github.com/dhamidi/stubgen/mappings"
)

func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		namespace  string
		strict     bool
		workers    int
		keep       bool
	)

	cmd := &cobra.Command{
		Use:   "generate <mappings> <input> <outdir> [<librariesDir>]",
		Short: "Write Java stubs for every class of a jar or class directory",
		Long: `Generate reads the classes of <input>, names their parameters and attaches
documentation from the Tiny v2 file <mappings>, and writes one .java file per
top-level class under <outdir>. Jars under <librariesDir> are scanned for
nested-class information. With --config, the arguments may be omitted.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 4 || (len(args) > 0 && len(args) < 3) {
				return errors.Errorf("expected <mappings> <input> <outdir> [<librariesDir>], got %d arguments", len(args))
			}
			if len(args) == 0 && configPath == "" {
				return errors.New("expected <mappings> <input> <outdir> or --config")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if len(args) >= 3 {
				cfg.Mappings, cfg.Input, cfg.Output = args[0], args[1], args[2]
			}
			if len(args) == 4 {
				cfg.Libraries = args[3]
			}
			flags := cmd.Flags()
			if flags.Changed("namespace") {
				cfg.Namespace = namespace
			}
			if flags.Changed("strict") {
				cfg.Strict = strict
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("keep") {
				cfg.Clean = !keep
			}
			if verbosity > cfg.Verbosity {
				cfg.Verbosity = verbosity
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			commonlog.Configure(cfg.Verbosity, nil)

			result, err := runGenerate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files for %d classes to %s (%d diagnostics)\n",
				result.Files, result.Classes, cfg.Output, len(result.Diagnostics))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML settings file")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", mappings.DefaultNamespace, "mapping namespace to read names from")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on malformed member signatures instead of skipping them")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "concurrent workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&keep, "keep", false, "do not wipe the output directory first")

	return cmd
}

type generateResult struct {
	Classes     int
	Files       int
	Diagnostics []error
}

func runGenerate(ctx context.Context, cfg config.Config) (*generateResult, error) {
	store := mappings.Empty()
	if cfg.Mappings != "" {
		var err error
		if store, err = mappings.Load(cfg.Mappings, cfg.Namespace); err != nil {
			return nil, err
		}
	}

	nodes, err := jar.ReadClasses(ctx, cfg.Input, cfg.Workers)
	if err != nil {
		return nil, err
	}

	builder := java.NewEnvironmentBuilder()
	for _, node := range nodes {
		builder.AddClass(node)
	}
	if cfg.Libraries != "" {
		records, err := jar.ScanLibraries(ctx, cfg.Libraries, cfg.Workers)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			builder.AddLibraryNested(record)
		}
	}

	gen := java.NewGenerator(builder.Build(), store, java.WithStrict(cfg.Strict))
	roots, err := gen.Generate(nodes)
	if err != nil {
		return nil, err
	}

	writer := &format.TreeWriter{Dir: cfg.Output, Clean: cfg.Clean, Workers: cfg.Workers}
	files, err := writer.Write(ctx, roots)
	if err != nil {
		return nil, err
	}

	result := &generateResult{Files: files, Diagnostics: gen.Diagnostics()}
	for _, root := range roots {
		root.Walk(func(*java.ClassModel) { result.Classes++ })
	}
	return result, nil
}
