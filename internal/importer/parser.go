// Package importer loads vehicle catalog CSV files into the metaobject store.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GKRMP/garage/internal/domain"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// Column names; header matching is case-insensitive
const (
	ColumnID       = "id"
	ColumnCategory = "category"
	ColumnYear     = "year"
	ColumnMake     = "make"
	ColumnModel    = "model"
	ColumnStyle    = "style"
)

// RequiredColumns must all be present in the header and non-empty in every row
var RequiredColumns = []string{ColumnID, ColumnCategory, ColumnYear, ColumnMake, ColumnModel}

var columnAliases = map[string]string{
	"vehicle_id": ColumnID,
	"trim":       ColumnStyle,
	"submodel":   ColumnStyle,
}

// Warning describes a skipped row
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// ParseResult is the outcome of reading a CSV file
type ParseResult struct {
	Records  []domain.VehicleRecord
	Warnings []Warning
	Rows     int // data rows read, including skipped ones
}

// Parse reads a header row followed by vehicle rows. Malformed rows are
// skipped with a warning; a missing required header column is an error.
func Parse(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &apperrors.ErrValidation{Message: "csv is empty"}
	}
	if err != nil {
		return nil, &apperrors.ErrValidation{Message: fmt.Sprintf("read header: %v", err)}
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	res := &ParseResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				res.Rows++
				res.Warnings = append(res.Warnings, Warning{Line: parseErr.StartLine, Message: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isBlank(row) {
			continue
		}
		res.Rows++
		line, _ := reader.FieldPos(0)

		rec, warning := recordFromRow(row, index, line)
		if warning != "" {
			res.Warnings = append(res.Warnings, Warning{Line: line, Message: warning})
			continue
		}
		rec.Handle = Slug(rec)
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, col := range missing {
			fields[col] = "required column"
		}
		return nil, &apperrors.ErrValidation{
			Message: fmt.Sprintf("csv header is missing required columns: %s", strings.Join(missing, ", ")),
			Fields:  fields,
		}
	}
	return index, nil
}

func recordFromRow(row []string, index map[string]int, line int) (domain.VehicleRecord, string) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, col := range RequiredColumns {
		if get(col) == "" {
			return domain.VehicleRecord{}, fmt.Sprintf("missing %s", col)
		}
	}
	year, err := strconv.Atoi(get(ColumnYear))
	if err != nil || year < 1886 || year > 2100 {
		return domain.VehicleRecord{}, fmt.Sprintf("invalid year %q", get(ColumnYear))
	}

	return domain.VehicleRecord{
		Identifier: get(ColumnID),
		Category:   get(ColumnCategory),
		Year:       year,
		Make:       get(ColumnMake),
		Model:      get(ColumnModel),
		Style:      get(ColumnStyle),
		Line:       line,
	}, ""
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
