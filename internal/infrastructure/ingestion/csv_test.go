package ingestion

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
)

const rosterHeader = "Student_ID,Student_Name,Student_Email,Parent_Email,Mid_Total,Final_Total,CT_Total,Assignment_Total,Attendance_Total,CO1,CO2,CO3,CO4"

func TestReadCSVParsesTemplateColumns(t *testing.T) {
	roster := rosterHeader + "\n" +
		"2021001,John Smith,john@x.edu,parent@x.com,25.5,34,15,4.5,5,14,16,12,15\n" +
		"2021002,Fahmida Islam,,,20,30,12,4,4,10,11,9,12\n"

	records, err := ReadCSV(strings.NewReader(roster))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, 0, first.Row)
	assert.Equal(t, "2021001", first.StudentID)
	assert.Equal(t, "John Smith", first.StudentName)
	assert.Equal(t, "john@x.edu", first.StudentEmail)
	assert.Equal(t, "parent@x.com", first.ParentEmail)
	assert.Equal(t, "25.5", first.Mid)
	assert.Equal(t, "34", first.Final)
	assert.Equal(t, "15", first.ClassTests)
	assert.Equal(t, "4.5", first.Assignment)
	assert.Equal(t, "5", first.Attendance)
	assert.Equal(t, "16", first.COScores["CO2"])

	second := records[1]
	assert.Equal(t, 1, second.Row)
	assert.Empty(t, second.StudentEmail)
	assert.Equal(t, "9", second.COScores["CO3"])
}

func TestReadCSVMissingRequiredColumn(t *testing.T) {
	roster := "Student_ID,Student_Name,Final_Total,CT_Total,Assignment_Total,Attendance_Total\n" +
		"2021001,John Smith,34,15,4.5,5\n"

	_, err := ReadCSV(strings.NewReader(roster))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrMissingColumn))
	assert.Contains(t, err.Error(), "Mid_Total")
}

func TestReadCSVWithoutOutcomeColumns(t *testing.T) {
	roster := "Student_ID,Student_Name,Mid_Total,Final_Total,CT_Total,Assignment_Total,Attendance_Total\n" +
		"2021001,John Smith,25,34,15,4.5,5\n"

	records, err := ReadCSV(strings.NewReader(roster))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].COScores)
}

func TestReadCSVEmptyRoster(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(rosterHeader + "\n"))
	assert.True(t, errors.Is(err, shared.ErrRosterEmpty))
}

func TestReadCSVEmptyStream(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, shared.ErrUnreadableRoster))
}

func TestSampleRosterDeterministic(t *testing.T) {
	a := SampleRoster(42)
	b := SampleRoster(42)
	require.Len(t, a, 5)
	assert.Equal(t, a, b)

	c := SampleRoster(7)
	assert.NotEqual(t, a, c)
}

func TestSampleRosterNormalizes(t *testing.T) {
	records := SampleRoster(42)

	metrics, warnings := assessment.NormalizeRoster(records)
	assert.Empty(t, warnings)
	require.Len(t, metrics, len(records))
	for _, m := range metrics {
		assert.GreaterOrEqual(t, m.TotalMarks, 0.0)
		assert.LessOrEqual(t, m.TotalMarks, assessment.MaxTotalMarks)
		assert.Len(t, m.COScores, assessment.NumCOs)
	}
}
