package data

// Table is a parsed CSV file: the header line and the remaining records as
// raw strings.
type Table struct {
	Header []string
	Rows   [][]string
}
