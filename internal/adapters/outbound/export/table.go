package export

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableMode controls how a Table renders.
type TableMode int

const (
	ASCII    TableMode = iota // fixed-width terminal tables
	Markdown                  // GitHub-flavoured Markdown tables
)

// Table builds a table once and renders it in the mode set at creation.
type Table struct {
	writer table.Writer
	mode   TableMode
}

// NewTable returns an empty table.
func NewTable(m TableMode) *Table {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &Table{writer: w, mode: m}
}

func (t *Table) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
}

// Row appends a row. Values are printed with fmt and flattened to one line.
func (t *Table) Row(vals ...any) {
	row := make(table.Row, len(vals))
	for i, v := range vals {
		row[i] = cell(v)
	}
	t.writer.AppendRow(row)
}

// AlignRight right-aligns the given 1-based columns.
func (t *Table) AlignRight(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, n := range cols {
		cfgs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight}
	}
	t.writer.SetColumnConfigs(cfgs)
}

func (t *Table) Len() int { return t.writer.Length() }

func (t *Table) String() string {
	if t.mode == Markdown {
		return t.writer.RenderMarkdown()
	}
	return t.writer.Render()
}

func cell(v any) string {
	s := fmt.Sprint(v)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
