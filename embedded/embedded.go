// Package embedded implements the §4.3 embedded-metadata extractor: it
// derives a minimal Table description directly from a CSV file's
// dialect-tokenized header, with no external metadata document.
package embedded

import (
	"fmt"
	"io"
	"strings"

	"github.com/csvw-go/rdf-tabular/dialect"
	"github.com/csvw-go/rdf-tabular/metadata"
)

// Extract reads r under the given EffectiveDialect and builds a Table
// whose url is url and whose tableSchema's columns carry the titles
// found in the dialect's header rows (joined newline-wise when
// headerRowCount > 1, per §4.2). If no header rows are configured, the
// columns are titleless and their count is inferred from the first
// data row.
func Extract(r io.Reader, d metadata.EffectiveDialect, url string) (*metadata.Table, error) {
	tok := dialect.NewReader(r, d)

	var headerRows [][]string
	for i := 0; i < d.HeaderRowCount; i++ {
		row, err := tok.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("embedded: reading header row %d: %w", i+1, err)
		}
		headerRows = append(headerRows, row)
	}

	var columns []*metadata.Column
	if len(headerRows) > 0 {
		width := 0
		for _, row := range headerRows {
			if len(row) > width {
				width = len(row)
			}
		}
		for i := 0; i < width; i++ {
			var parts []string
			for _, row := range headerRows {
				if i < len(row) && row[i] != "" {
					parts = append(parts, row[i])
				}
			}
			col := &metadata.Column{Position: i + 1}
			if len(parts) > 0 {
				col.Titles = metadata.NewNaturalLanguageString(strings.Join(parts, "\n"))
			}
			columns = append(columns, col)
		}
	} else {
		row, err := tok.ReadRow()
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("embedded: reading first data row: %w", err)
		}
		for i := range row {
			columns = append(columns, &metadata.Column{Position: i + 1})
		}
	}

	notes := make([]metadata.CommentEntry, len(tok.Comments))
	for i, c := range tok.Comments {
		notes[i] = metadata.CommentEntry{Text: c}
	}

	return &metadata.Table{
		URL:   url,
		Notes: notes,
		TableSchema: &metadata.Schema{
			Columns: columns,
		},
	}, nil
}
