package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"schemagraph/internal/config"
	"schemagraph/internal/observability"
	"schemagraph/internal/repositories"
	"schemagraph/internal/services"
)

var (
	format     string
	outputFile string
	schemaName string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "schemactl",
	Short: "Inspect a database catalog as a schema graph",
	Long:  `schemactl reads the configured database catalog (same DB_* settings as the API server) and prints the reconciled schema graph.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		observability.SetupLogger(os.Stderr, level, "text")
	},
	SilenceUsage: true,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the schema graph",
	RunE:  runDump,
}

var constraintsCmd = &cobra.Command{
	Use:   "constraints",
	Short: "Print raw constraint rows without reconciliation",
	RunE:  runConstraints,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&schemaName, "schema", "s", "", "Schema to inspect (default: DB_SCHEMA)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	dumpCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, mermaid or diagram")

	rootCmd.AddCommand(dumpCmd, constraintsCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	return withService(cmd.Context(), func(ctx context.Context, svc *services.SchemaService, w io.Writer) error {
		switch format {
		case "mermaid":
			diagram, err := svc.GetMermaid(ctx)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, diagram)
			return err
		case "diagram":
			diagram, err := svc.GetDiagram(ctx)
			if err != nil {
				return err
			}
			return writeJSON(w, diagram)
		default:
			graph, err := svc.GetSchema(ctx)
			if err != nil {
				return err
			}
			return writeJSON(w, graph)
		}
	})
}

func runConstraints(cmd *cobra.Command, args []string) error {
	return withService(cmd.Context(), func(ctx context.Context, svc *services.SchemaService, w io.Writer) error {
		rows, err := svc.GetConstraints(ctx)
		if err != nil {
			return err
		}
		return writeJSON(w, map[string]any{"rows": rows})
	})
}

func withService(ctx context.Context, fn func(context.Context, *services.SchemaService, io.Writer) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if schemaName != "" {
		cfg.DB.Schema = schemaName
	}

	catalog, err := repositories.NewCatalogRepository(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer catalog.Close()

	var writer io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		writer = f
	}

	svc := services.NewSchemaService(catalog, cfg.DB.QueryTimeout)
	return fn(ctx, svc, writer)
}

func validateFormat(f string) error {
	switch f {
	case "json", "mermaid", "diagram":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be 'json', 'mermaid' or 'diagram')", f)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
