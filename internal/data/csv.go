package data

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ReadTable parses comma separated records. The first record is the header.
// Blank lines are skipped and records may differ in width; the encoder
// decides what to keep.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	t := &Table{}
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		if blank(rec) {
			continue
		}
		if first {
			t.Header = rec
			first = false
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if first {
		return nil, errors.New("csv has no header")
	}
	return t, nil
}

func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer f.Close()
	return ReadTable(f)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
