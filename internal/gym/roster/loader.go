package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Header aliases accepted for each required column. Matching happens after
// trimming surrounding whitespace and lower-casing the header cell.
var (
	keyHeaders      = []string{"matricula", "matrícula", "identifier", "id"}
	nameHeaders     = []string{"nombre", "name", "display_name"}
	categoryHeaders = []string{"categoria", "categoría", "category"}
)

// LoadFile reads a roster from a .csv or .xlsx file.
func LoadFile(path string, opts ...DirectoryOption) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryLoad, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f, opts...)
	case ".xlsx", ".xlsm":
		return LoadXLSX(f, opts...)
	default:
		return nil, fmt.Errorf("%w: unsupported roster format %q", ErrDirectoryLoad, filepath.Ext(path))
	}
}

// LoadCSV reads a roster from comma-separated rows with a header line.
func LoadCSV(r io.Reader, opts ...DirectoryOption) (*Directory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", ErrDirectoryLoad, err)
	}
	return fromRows(rows, opts...)
}

// LoadXLSX reads a roster from the first sheet of a workbook.
func LoadXLSX(r io.Reader, opts ...DirectoryOption) (*Directory, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrDirectoryLoad, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrDirectoryLoad)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrDirectoryLoad, sheets[0], err)
	}
	return fromRows(rows, opts...)
}

func fromRows(rows [][]string, opts ...DirectoryOption) (*Directory, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: source is empty", ErrDirectoryLoad)
	}

	// Excel's "CSV UTF-8" export prefixes the first header cell with a BOM.
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	cols, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		key := cell(row, cols.key)
		if key == "" {
			continue
		}
		cat, err := ParseCategory(cell(row, cols.category))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrDirectoryLoad, line, err)
		}
		members = append(members, Member{
			Key:      key,
			Name:     cell(row, cols.name),
			Category: cat,
		})
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no members in source", ErrDirectoryLoad)
	}

	return NewDirectory(members, opts...)
}

type columns struct {
	key, name, category int
}

func locateColumns(header []string) (columns, error) {
	find := func(aliases []string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			for _, a := range aliases {
				if h == a {
					return i
				}
			}
		}
		return -1
	}

	c := columns{
		key:      find(keyHeaders),
		name:     find(nameHeaders),
		category: find(categoryHeaders),
	}

	var missing []string
	if c.key < 0 {
		missing = append(missing, "matricula")
	}
	if c.name < 0 {
		missing = append(missing, "nombre")
	}
	if c.category < 0 {
		missing = append(missing, "categoria")
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: missing columns %s", ErrDirectoryLoad, strings.Join(missing, ", "))
	}
	return c, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// IsLoadError reports whether err came from building a directory.
func IsLoadError(err error) bool { return errors.Is(err, ErrDirectoryLoad) }
