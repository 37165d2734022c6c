// Package report renders projections and monthly summaries as a terminal
// table, CSV, JSON or YAML.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"fjacquet/budget-csv/internal/aggregator"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/projector"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Theme colors (Flexoki Dark)
var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorText   = lipgloss.Color("#FFFCF0")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// Generator writes reports.
type Generator struct {
	logger    logging.Logger
	delimiter rune
	places    int32
}

// NewGenerator creates a Generator. delimiter applies to CSV output and
// places to the rendering of projected amounts.
func NewGenerator(logger logging.Logger, delimiter rune, places int32) *Generator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{logger: logger, delimiter: delimiter, places: places}
}

// ProjectionRow is the flat rendering of a BudgetProjection.
type ProjectionRow struct {
	Category        string `csv:"category" json:"category" yaml:"category"`
	Month           string `csv:"month" json:"month" yaml:"month"`
	ProjectedAmount string `csv:"projected_amount" json:"projected_amount" yaml:"projected_amount"`
}

// BreakdownRow is the flat rendering of a projection with its intermediates.
type BreakdownRow struct {
	Category        string `csv:"category" json:"category" yaml:"category"`
	Month           string `csv:"month" json:"month" yaml:"month"`
	Points          int    `csv:"points" json:"points" yaml:"points"`
	WeightedAverage string `csv:"weighted_average" json:"weighted_average" yaml:"weighted_average"`
	Median          string `csv:"median" json:"median" yaml:"median"`
	Cap             string `csv:"cap" json:"cap" yaml:"cap"`
	Capped          string `csv:"capped" json:"capped" yaml:"capped"`
	MonthAverage    string `csv:"month_average" json:"month_average" yaml:"month_average"`
	OverallAverage  string `csv:"overall_average" json:"overall_average" yaml:"overall_average"`
	SeasonalFactor  string `csv:"seasonal_factor" json:"seasonal_factor" yaml:"seasonal_factor"`
	ProjectedAmount string `csv:"projected_amount" json:"projected_amount" yaml:"projected_amount"`
}

// MonthSummaryRow is the flat rendering of an aggregator.MonthSummary.
type MonthSummaryRow struct {
	Month              string `csv:"month" json:"month" yaml:"month"`
	Total              string `csv:"total" json:"total" yaml:"total"`
	AverageTransaction string `csv:"average_transaction" json:"average_transaction" yaml:"average_transaction"`
	Transactions       int    `csv:"transactions" json:"transactions" yaml:"transactions"`
}

// CategoryMonthRow is the flat rendering of an aggregator.CategoryMonthTotal.
type CategoryMonthRow struct {
	Month    string `csv:"month" json:"month" yaml:"month"`
	Category string `csv:"category" json:"category" yaml:"category"`
	Total    string `csv:"total" json:"total" yaml:"total"`
}

// WriteProjections renders budget projections.
func (g *Generator) WriteProjections(w io.Writer, projections []models.BudgetProjection, format string) error {
	rows := make([]ProjectionRow, len(projections))
	for i, p := range projections {
		rows[i] = ProjectionRow{
			Category:        p.Category,
			Month:           p.ForMonth.String(),
			ProjectedAmount: g.money(p.ProjectedAmount),
		}
	}
	return write(g, w, format, "Projected budgets", rows,
		[]string{"Category", "Month", "Projected"},
		func(r ProjectionRow) []string {
			return []string{r.Category, r.Month, r.ProjectedAmount}
		})
}

// WriteBreakdowns renders projections with every intermediate value.
func (g *Generator) WriteBreakdowns(w io.Writer, explanations []projector.Explanation, format string) error {
	rows := make([]BreakdownRow, len(explanations))
	for i, e := range explanations {
		b := e.Breakdown
		rows[i] = BreakdownRow{
			Category:        e.Category,
			Month:           e.ForMonth.String(),
			Points:          b.Points,
			WeightedAverage: intermediate(b.WeightedAverage),
			Median:          intermediate(b.Median),
			Cap:             intermediate(b.Cap),
			Capped:          intermediate(b.Capped),
			MonthAverage:    intermediate(b.MonthAverage),
			OverallAverage:  intermediate(b.OverallAverage),
			SeasonalFactor:  intermediate(b.SeasonalFactor),
			ProjectedAmount: g.money(b.Projected),
		}
	}
	return write(g, w, format, "Projection breakdown", rows,
		[]string{"Category", "Month", "Points", "WA", "Median", "Cap", "Capped", "Month avg", "Overall avg", "Season", "Projected"},
		func(r BreakdownRow) []string {
			return []string{r.Category, r.Month, strconv.Itoa(r.Points), r.WeightedAverage, r.Median, r.Cap,
				r.Capped, r.MonthAverage, r.OverallAverage, r.SeasonalFactor, r.ProjectedAmount}
		})
}

// WriteMonthlySummary renders per-month totals.
func (g *Generator) WriteMonthlySummary(w io.Writer, summary []aggregator.MonthSummary, format string) error {
	rows := make([]MonthSummaryRow, len(summary))
	for i, s := range summary {
		rows[i] = MonthSummaryRow{
			Month:              s.Month.String(),
			Total:              g.money(s.Total),
			AverageTransaction: g.money(s.AverageTransaction),
			Transactions:       s.Transactions,
		}
	}
	return write(g, w, format, "Monthly spend", rows,
		[]string{"Month", "Total", "Avg transaction", "Transactions"},
		func(r MonthSummaryRow) []string {
			return []string{r.Month, r.Total, r.AverageTransaction, strconv.Itoa(r.Transactions)}
		})
}

// WriteCategoryMonthly renders per-(month, category) totals.
func (g *Generator) WriteCategoryMonthly(w io.Writer, totals []aggregator.CategoryMonthTotal, format string) error {
	rows := make([]CategoryMonthRow, len(totals))
	for i, t := range totals {
		rows[i] = CategoryMonthRow{
			Month:    t.Month.String(),
			Category: t.Category,
			Total:    g.money(t.Total),
		}
	}
	return write(g, w, format, "Monthly spend by category", rows,
		[]string{"Month", "Category", "Total"},
		func(r CategoryMonthRow) []string {
			return []string{r.Month, r.Category, r.Total}
		})
}

func (g *Generator) money(d decimal.Decimal) string {
	return d.StringFixed(g.places)
}

func intermediate(d decimal.Decimal) string {
	return d.Round(4).String()
}

// write dispatches rows to the renderer for format.
func write[T any](g *Generator, w io.Writer, format, title string, rows []T, headers []string, cells func(T) []string) error {
	var err error
	switch format {
	case FormatTable:
		data := make([][]string, len(rows))
		for i, r := range rows {
			data[i] = cells(r)
		}
		err = renderTable(w, title, headers, data)
	case FormatCSV:
		err = g.writeCSV(w, rows)
	case FormatJSON:
		err = writeJSON(w, rows)
	case FormatYAML:
		err = writeYAML(w, rows)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		g.logger.WithError(err).Error("Failed to write report",
			logging.Field{Key: logging.FieldFormat, Value: format})
		return fmt.Errorf("failed to write %s report: %w", format, err)
	}

	g.logger.Debug("Report written",
		logging.Field{Key: logging.FieldFormat, Value: format},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

func renderTable(w io.Writer, title string, headers []string, data [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(title), t.Render())
	return err
}

func (g *Generator) writeCSV(w io.Writer, rows any) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.delimiter
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter))
}

func writeJSON(w io.Writer, rows any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeYAML(w io.Writer, rows any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return err
	}
	return enc.Close()
}
