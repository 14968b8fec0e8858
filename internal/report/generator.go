// Package report renders batch results for operators.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// ReportGenerator renders batch results in various formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{
		logger: logging.OrDefault(logger).WithField("component", "ReportGenerator"),
	}
}

// GenerateReport renders result in the given format (json, yaml or text).
func (g *ReportGenerator) GenerateReport(result *intake.BatchResult, format string) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no batch result to report")
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		return g.generateJSONReport(result)
	case FormatYAML:
		return g.generateYAMLReport(result)
	case FormatText:
		return g.generateTextReport(result)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(result *intake.BatchResult) ([]byte, error) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

// generateYAMLReport goes through JSON so both formats share key names.
func (g *ReportGenerator) generateYAMLReport(result *intake.BatchResult) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	var tree interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateTextReport(result *intake.BatchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Files:\n")
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, f := range result.Files {
		line := fmt.Sprintf("  %s\t%s\t%s\t%d records", f.Name, formatOrDash(string(f.Format)), f.Status, f.Records)
		if f.Error != "" {
			line += "\t" + f.Error
		}
		_, _ = fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	s := result.Validation.Summary
	fmt.Fprintf(&buf, "\nValidation: %d total, %d valid, %d invalid\n", s.Total, s.Valid, s.Invalid)
	for _, e := range result.Validation.Errors {
		fmt.Fprintf(&buf, "  record %d: %s\n", e.Index, strings.Join(e.FieldErrors, "; "))
	}

	if rep := result.Reconciliation; rep != nil {
		fmt.Fprintf(&buf, "\nReconciliation: %d duplicates, %d lookup errors\n", rep.Duplicates, rep.LookupErrors)
		writeList(&buf, "missing customers", rep.MissingCustomers)
		writeList(&buf, "missing orders", rep.MissingOrders)
		writeList(&buf, "missing field staff", rep.MissingFieldStaff)
	}

	if len(result.Warnings) > 0 {
		buf.WriteString("\nMissing bank fields:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&buf, "  record %d (%s): %s\n", w.RecordIndex, w.Bank, joinKeys(w.Missing))
		}
	}
	return buf.Bytes(), nil
}

func writeList(buf *bytes.Buffer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(buf, "  %s: %s\n", label, strings.Join(items, ", "))
}

func joinKeys(keys []models.FieldKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func formatOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
