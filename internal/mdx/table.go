package mdx

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alnah/go-mdsite/internal/yamlutil"
)

// TableBlockLanguage is the fenced code info string that marks a table block.
const TableBlockLanguage = "table"

// TableData is tabular content authored as headers plus rows.
// Row lengths are not checked against the header count.
type TableData struct {
	Headers []string   `yaml:"headers"`
	Rows    [][]string `yaml:"rows"`
}

// ParseTableBlock decodes the YAML body of a table block.
func ParseTableBlock(body []byte) (*TableData, error) {
	var data TableData
	if err := yamlutil.DecodeBlock(body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableBlock, err)
	}
	if len(data.Headers) == 0 && len(data.Rows) == 0 {
		return nil, fmt.Errorf("%w: no headers or rows", ErrTableBlock)
	}
	return &data, nil
}

// RenderTable writes one header cell per header and one body row per row,
// one cell per entry, in order. Mismatched rows render as given.
func RenderTable(w io.Writer, data TableData, class string) error {
	var b strings.Builder

	b.WriteString("<table")
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteByte('"')
	}
	b.WriteString(">\n<thead>\n<tr>\n")
	for _, header := range data.Headers {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(header))
		b.WriteString("</th>\n")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range data.Rows {
		b.WriteString("<tr>\n")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
