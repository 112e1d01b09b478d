package guests

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a guest sheet. The first record is the header; columns are
// matched case-insensitively (Name, Group, RSVP, Plus Ones, Phone) and Name
// is required. Rows without a name are skipped. Every row is tagged with
// sheet as its source sheet.
func ReadCSV(r io.Reader, sheet string) ([]Raw, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read sheet %s: no header", sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
		if _, ok := cols[key]; !ok {
			cols[key] = i
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("failed to read sheet %s: missing Name column", sheet)
	}

	var rows []Raw
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		field := func(key string) string {
			i, ok := cols[key]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		name := field("name")
		if name == "" {
			continue
		}
		plusOnes, _ := strconv.Atoi(field("plusones"))
		rows = append(rows, Raw{
			Name:        name,
			Group:       field("group"),
			RSVP:        field("rsvp"),
			PlusOnes:    plusOnes,
			SourceSheet: sheet,
			Phone:       field("phone"),
		})
	}
	return rows, nil
}
