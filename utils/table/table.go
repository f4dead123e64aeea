/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package table

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// minWidth is the narrowest column printed
const minWidth = 4

// PrintTable writes rows as a bordered text table followed by a row count.
// Every row must have one cell per column; missing cells print empty.
//
//	+------+-------+
//	| a    | c     |
//	+------+-------+
//	| 1    | Hi    |
//	+------+-------+
//	(1 rows)
func PrintTable(w io.Writer, columns []string, rows [][]string) error {
	widths := ColumnWidths(columns, rows)

	var sb strings.Builder
	writeBorder(&sb, widths)
	writeLine(&sb, widths, columns)
	writeBorder(&sb, widths)
	for _, row := range rows {
		writeLine(&sb, widths, row)
	}
	if len(rows) > 0 {
		writeBorder(&sb, widths)
	}
	fmt.Fprintf(&sb, "(%d rows)\n", len(rows))

	_, err := io.WriteString(w, sb.String())
	return err
}

// ColumnWidths returns the display width of each column in characters
func ColumnWidths(columns []string, rows [][]string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = utf8.RuneCountInString(col)
		for _, row := range rows {
			if i < len(row) {
				if n := utf8.RuneCountInString(row[i]); n > widths[i] {
					widths[i] = n
				}
			}
		}
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
	}
	return widths
}

// PrintTableBorder writes one border line for the given column widths
func PrintTableBorder(w io.Writer, columnWidths []int) error {
	var sb strings.Builder
	writeBorder(&sb, columnWidths)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeBorder(sb *strings.Builder, widths []int) {
	sb.WriteString("+")
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
}

func writeLine(sb *strings.Builder, widths []int, cells []string) {
	sb.WriteString("|")
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(cell)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
