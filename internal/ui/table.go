package ui

import (
	"sort"
	"strings"
)

// Row is one line of a key/value table
type Row struct {
	Key   string
	Value string
}

// RowsFromMap returns the map entries as rows sorted by key
func RowsFromMap(m map[string]string) []Row {
	rows := make([]Row, 0, len(m))
	for k, v := range m {
		rows = append(rows, Row{Key: k, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// RenderTable renders a titled two-column table. Keys are padded to the
// widest key; "on" and "off" values are colored.
func RenderTable(title string, rows []Row) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(TableTitleStyle.Render(title))
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		b.WriteString(TableOffStyle.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}

	keyWidth := 0
	for _, row := range rows {
		if len(row.Key) > keyWidth {
			keyWidth = len(row.Key)
		}
	}

	for _, row := range rows {
		b.WriteString("  ")
		b.WriteString(TableKeyStyle.Render(row.Key + strings.Repeat(" ", keyWidth-len(row.Key))))
		b.WriteString("  ")
		b.WriteString(styleValue(row.Value))
		b.WriteString("\n")
	}
	return b.String()
}

func styleValue(v string) string {
	switch v {
	case "on":
		return TableOnStyle.Render(v)
	case "off":
		return TableOffStyle.Render(v)
	default:
		return ResultValueStyle.Render(v)
	}
}
