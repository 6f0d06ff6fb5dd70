// Package ingestion reads raw rosters into record batches. The engine never
// trusts a roster: per-row problems are left for normalization to skip and
// warn about, and only structural problems (missing file, missing columns)
// fail the read.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
)

// Roster template column names.
const (
	ColStudentID   = "Student_ID"
	ColStudentName = "Student_Name"
	ColStudentMail = "Student_Email"
	ColParentMail  = "Parent_Email"
	ColMid         = "Mid_Total"
	ColFinal       = "Final_Total"
	ColClassTests  = "CT_Total"
	ColAssignment  = "Assignment_Total"
	ColAttendance  = "Attendance_Total"
)

// requiredColumns must all be present in the header. CO columns are optional:
// a roster without them simply carries no outcome data.
var requiredColumns = []string{
	ColStudentID, ColStudentName,
	ColMid, ColFinal, ColClassTests, ColAssignment, ColAttendance,
}

// ReadCSVFile reads a roster file into raw records, in file order.
func ReadCSVFile(path string) ([]assessment.RawScoreRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingestion: open roster: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads a roster from a stream. The first row is the header; every
// following row becomes one RawScoreRecord with its zero-based row index.
func ReadCSV(r io.Reader) ([]assessment.RawScoreRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnreadableRoster, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingColumn, col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []assessment.RawScoreRecord
	for rowIdx := 0; ; rowIdx++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", shared.ErrUnreadableRoster, rowIdx, err)
		}

		rec := assessment.RawScoreRecord{
			Row:          rowIdx,
			StudentID:    cell(row, ColStudentID),
			StudentName:  cell(row, ColStudentName),
			StudentEmail: cell(row, ColStudentMail),
			ParentEmail:  cell(row, ColParentMail),
			Mid:          cell(row, ColMid),
			Final:        cell(row, ColFinal),
			ClassTests:   cell(row, ColClassTests),
			Assignment:   cell(row, ColAssignment),
			Attendance:   cell(row, ColAttendance),
			COScores:     make(map[string]string, assessment.NumCOs),
		}
		for _, key := range assessment.COKeys() {
			if _, ok := index[key]; ok {
				rec.COScores[key] = cell(row, key)
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, shared.ErrRosterEmpty
	}
	return records, nil
}
