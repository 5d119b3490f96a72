package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/camden-git/familyring/models"
)

// Separator is the CSV field separator. Semicolons inside values are written
// as commas so that exported files open cleanly in spreadsheet programs.
const Separator = ';'

// WriteCSV writes a header line followed by one line per record, using the
// columns of models.RecordColumns.
func WriteCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	if err := cw.Write(models.RecordColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", rec.Code, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordRow(rec models.Record) []string {
	values := map[string]string{
		"Gen":           strconv.Itoa(rec.Gen),
		"Code":          rec.Code,
		"RingCode":      rec.RingCode,
		"Name":          rec.Name,
		"Birth":         rec.Birth,
		"Death":         rec.Death,
		"BirthPlace":    rec.BirthPlace,
		"Gender":        rec.Gender,
		"ParentCode":    rec.ParentCode,
		"PartnerCode":   rec.PartnerCode,
		"InheritedFrom": rec.InheritedFrom,
		"Note":          rec.Note,
	}
	row := make([]string, len(models.RecordColumns))
	for i, col := range models.RecordColumns {
		row[i] = strings.ReplaceAll(values[col], string(Separator), ",")
	}
	return row
}

// ReadCSV reads records from a semicolon separated file whose first line names
// the columns. Columns are matched by name, so files with fewer or reordered
// columns load as long as Code and Name are present.
func ReadCSV(r io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv import is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{"Code", "Name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv header lacks the %s column", required)
		}
	}

	var records []models.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		gen, _ := strconv.Atoi(get("Gen"))
		records = append(records, models.Record{
			Gen:           gen,
			Code:          get("Code"),
			RingCode:      get("RingCode"),
			Name:          get("Name"),
			Birth:         get("Birth"),
			Death:         get("Death"),
			BirthPlace:    get("BirthPlace"),
			Gender:        get("Gender"),
			ParentCode:    get("ParentCode"),
			PartnerCode:   get("PartnerCode"),
			InheritedFrom: get("InheritedFrom"),
			Note:          get("Note"),
		})
	}
	return records, nil
}
