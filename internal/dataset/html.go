package dataset

import (
	"html"
	"strings"
)

// tableStyle mirrors the compact presentation used when flattening sheets
// into a paginated document.
const tableStyle = `<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; width: 100%; font-size: 10px; }
th, td { border: 1px solid #dddddd; text-align: left; padding: 4px; }
th { background-color: #f2f2f2; }
h2 { font-size: 14px; margin-top: 20px; }
</style>`

// RenderHTML renders one or more datasets as titled HTML tables, suitable
// for flattening into a landscape PDF. This is a presentation transform:
// only visible text survives.
func RenderHTML(titles []string, sets []*Dataset) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString(tableStyle)
	sb.WriteString("\n</head>\n<body>\n")
	for i, ds := range sets {
		if i < len(titles) && titles[i] != "" {
			sb.WriteString("<h2>")
			sb.WriteString(html.EscapeString(titles[i]))
			sb.WriteString("</h2>\n")
		}
		writeTable(&sb, ds)
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func writeTable(sb *strings.Builder, ds *Dataset) {
	sb.WriteString("<table>\n<thead>\n<tr>")
	for _, col := range ds.Columns {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(col))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr>\n</thead>\n<tbody>\n")
	for i := range ds.Rows {
		sb.WriteString("<tr>")
		for _, cell := range ds.Record(i) {
			sb.WriteString("<td>")
			sb.WriteString(html.EscapeString(cell))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")
}
