// Package output renders count reports as a table, CSV or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// TotalsLabel is the group label of the grand-total row.
const TotalsLabel = "TOTALS"

// NoFilesMessage replaces an empty table.
const NoFilesMessage = "No files found."

// Format selects how reports are rendered.
type Format int

const (
	FormatTable Format = iota
	FormatCSV
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "table"
	}
}

// ParseFormat parses "table", "csv" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "table", "":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unknown format %q (want table, csv or json)", s)
}

// Row is one rendered row: a group label followed by its values in header
// order.
type Row struct {
	Group  string   `json:"group"`
	Values []uint64 `json:"values"`
}

// Report is a rendered count result. Headers name the group column and then
// every value column.
type Report struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
	Totals  *Row     `json:"totals,omitempty"`
}

// LanguageInfo is one row of the language listing.
type LanguageInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	QueryDirs  []string `json:"query_dirs"`
}

// Config holds output configuration.
type Config struct {
	Format Format
	Output io.Writer
}

// Writer handles report output.
type Writer struct {
	format Format
	out    io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	return &Writer{
		format: cfg.Format,
		out:    cfg.Output,
	}
}

// WriteReport renders r. The totals row, when present, comes last. A report
// with no rows is still a valid CSV or JSON document; as a table it prints
// NoFilesMessage.
func (w *Writer) WriteReport(r Report) error {
	if w.format == FormatJSON {
		if r.Rows == nil {
			r.Rows = []Row{}
		}
		return w.writeJSON(r)
	}
	if w.format == FormatTable && len(r.Rows) == 0 {
		_, err := fmt.Fprintln(w.out, NoFilesMessage)
		return err
	}

	rows := make([][]string, 0, len(r.Rows)+1)
	for _, row := range r.Rows {
		rows = append(rows, row.cells())
	}
	var footer []string
	if r.Totals != nil {
		footer = r.Totals.cells()
	}

	if w.format == FormatCSV {
		if footer != nil {
			rows = append(rows, footer)
		}
		return w.writeCSV(r.Headers, rows)
	}

	table := w.newTable(r.Headers)
	align := make([]int, len(r.Headers))
	for i := range align {
		align[i] = tablewriter.ALIGN_RIGHT
	}
	align[0] = tablewriter.ALIGN_LEFT
	table.SetColumnAlignment(align)
	table.AppendBulk(rows)
	if footer != nil {
		table.SetFooter(footer)
		table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)
	}
	table.Render()
	return nil
}

// WriteLanguages renders the language listing.
func (w *Writer) WriteLanguages(langs []LanguageInfo) error {
	if w.format == FormatJSON {
		return w.writeJSON(langs)
	}

	headers := []string{"Language", "Extensions", "Query Dir Name"}
	rows := make([][]string, 0, len(langs))
	for _, l := range langs {
		rows = append(rows, []string{
			l.Name,
			strings.Join(l.Extensions, ","),
			strings.Join(l.QueryDirs, ","),
		})
	}

	if w.format == FormatCSV {
		return w.writeCSV(headers, rows)
	}

	table := w.newTable(headers)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func (w *Writer) newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w.out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(headers)
	return table
}

func (w *Writer) writeCSV(headers []string, rows [][]string) error {
	cw := csv.NewWriter(w.out)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func (w *Writer) writeJSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r Row) cells() []string {
	out := make([]string, 0, 1+len(r.Values))
	out = append(out, r.Group)
	for _, v := range r.Values {
		out = append(out, strconv.FormatUint(v, 10))
	}
	return out
}

// WriteError writes an error to stderr as a JSON object.
func WriteError(err error) {
	writeError(os.Stderr, err)
}

func writeError(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]string{
		"error": err.Error(),
	})
}
