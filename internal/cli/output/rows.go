package output

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ResultSet is a fully materialized query result, small enough to
// hold in memory. Lesson queries return at most a few thousand rows.
type ResultSet struct {
	Columns []string
	Rows    []map[string]any
}

// CollectRows drains rows into a ResultSet, converting []byte values
// to strings for readability.
func CollectRows(rows *sql.Rows) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

// RenderResultSet writes a result set in the requested format.
// Supported formats: table (default), json, csv, md/markdown.
func RenderResultSet(w io.Writer, rs *ResultSet, format string) error {
	switch format {
	case "json":
		return renderRowsJSON(w, rs)
	case "csv":
		return renderRowsCSV(w, rs)
	case "md", "markdown":
		return renderRowsMarkdown(w, rs)
	default:
		return renderRowsTable(w, rs)
	}
}

func renderRowsTable(w io.Writer, rs *ResultSet) error {
	if len(rs.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, result := range rs.Rows {
		row := make(table.Row, len(rs.Columns))
		for i, col := range rs.Columns {
			row[i] = FormatValue(result[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rs.Rows))
	return nil
}

func renderRowsJSON(w io.Writer, rs *ResultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rs.Rows)
}

func renderRowsCSV(w io.Writer, rs *ResultSet) error {
	_, _ = fmt.Fprintln(w, strings.Join(rs.Columns, ","))
	for _, result := range rs.Rows {
		values := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			values[i] = escapeCSV(FormatValue(result[col]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderRowsMarkdown(w io.Writer, rs *ResultSet) error {
	if len(rs.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(rs.Columns, " | "))
	seps := make([]string, len(rs.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, result := range rs.Rows {
		values := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			values[i] = FormatValue(result[col])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

// FormatValue renders a scanned SQL value as display text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", val), "0"), ".")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
