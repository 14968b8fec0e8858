// Package xmlutils provides the XPath helpers used to read Office Open XML
// parts.
package xmlutils

// WordML holds the XPath expressions for a WordprocessingML document part.
// xmlpath matches local names, so the "w:" prefix is omitted.
var WordML = struct {
	// Paragraph selects every paragraph, including those inside tables.
	Paragraph string
	// TableRow selects the rows of every table.
	TableRow string
	// Cell selects the cells of a row, relative to the row.
	Cell string
	// CellParagraph selects the paragraphs of a cell, relative to the cell.
	CellParagraph string
}{
	Paragraph:     "//p",
	TableRow:      "//tbl/tr",
	Cell:          "tc",
	CellParagraph: "p",
}
