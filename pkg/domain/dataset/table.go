// Package dataset holds the tabular form that inventory data travels in
// between loaders, the validator and the transfer engine.
package dataset

// Column names understood by the transfer engine
const (
	ColArticle         = "Article"
	ColOM              = "OM"
	ColLocation        = "Location"
	ColInventory       = "Inventory"
	ColSales           = "Sales"
	ColSafetyStock     = "Safety Stock"
	ColPendingReceived = "Pending Received"
)

// RequiredColumns must be present for a transfer calculation
var RequiredColumns = []string{ColArticle, ColOM, ColInventory, ColSales}

// NumericColumns are coerced to non-negative numbers by validation
var NumericColumns = []string{ColInventory, ColSales, ColSafetyStock, ColPendingReceived}

// Table is an ordered set of named columns over rows of text cells.
// Rows may be shorter than Columns; missing trailing cells read as blank.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New creates a table with the given header and rows
func New(columns []string, rows ...[]string) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of a column, or -1 when absent.
// Names match exactly and case-sensitively.
func (t *Table) Index(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Has reports whether the column is present
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Cell returns the value at row i for the named column
func (t *Table) Cell(i int, name string) (string, bool) {
	col := t.Index(name)
	if col < 0 {
		return "", false
	}
	return cellAt(t.Rows[i], col), true
}

// Clone returns a deep copy whose rows are padded to the column count
func (t *Table) Clone() *Table {
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		width := len(columns)
		if len(row) > width {
			width = len(row)
		}
		cp := make([]string, width)
		copy(cp, row)
		rows[i] = cp
	}
	return &Table{Columns: columns, Rows: rows}
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
