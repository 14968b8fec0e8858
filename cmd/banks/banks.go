// Package banks implements the banks command
package banks

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/root"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/bankschema"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/container"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// Cmd represents the banks command
var Cmd = &cobra.Command{
	Use:   "banks [name]",
	Short: "List bank schemas or resolve a bank name",
	Long: `List the configured bank schemas with their mandatory and credential fields.

With an argument, resolve a free-text bank name or code the way uploaded
documents are resolved and show the matching schema.`,
	Example: `  product-intake banks
  product-intake banks "bank rakyat indonesia"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := root.GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		registry, err := container.LoadRegistry(cfg)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return PrintResolved(cmd.OutOrStdout(), registry, args[0])
		}
		return PrintSchemas(cmd.OutOrStdout(), registry)
	},
}

// PrintSchemas writes a table of every schema.
func PrintSchemas(w io.Writer, registry *bankschema.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CODE\tNAME\tNUMERIC\tMANDATORY\tCREDENTIALS")
	for _, s := range registry.Schemas() {
		numeric := s.NumericCode
		if numeric == "" {
			numeric = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.Code, s.Name, numeric, len(s.Mandatory()), joinKeys(s.Credentials))
	}
	return tw.Flush()
}

// PrintResolved writes the schema a bank name resolves to.
func PrintResolved(w io.Writer, registry *bankschema.Registry, name string) error {
	s := registry.Resolve(name)
	_, _ = fmt.Fprintf(w, "%q resolves to %s (%s)\n", name, s.Code, s.Name)
	_, _ = fmt.Fprintf(w, "Mandatory:   %s\n", joinKeys(s.Mandatory()))
	_, _ = fmt.Fprintf(w, "Optional:    %s\n", joinKeys(s.Optional()))
	_, err := fmt.Fprintf(w, "Credentials: %s\n", joinKeys(s.Credentials))
	if subtypes := s.SubtypeKeys(); len(subtypes) > 0 && err == nil {
		_, err = fmt.Fprintf(w, "Subtypes:    %s\n", strings.Join(subtypes, ", "))
	}
	return err
}

func joinKeys(keys []models.FieldKey) string {
	if len(keys) == 0 {
		return "-"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
