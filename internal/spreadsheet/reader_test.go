package spreadsheet

import (
	"bytes"
	"testing"

	"timeclock/internal/domain"
	"timeclock/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory xlsx whose first sheet holds rows.
func workbook(t *testing.T, rows ...[]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadPunches_EnglishHeaders(t *testing.T) {
	r := workbook(t,
		[]interface{}{"Employee ID", "Name", "Date", "Time", "Punch Type", "Position"},
		[]interface{}{"E001", "山田", "2024/3/5", "9:00", "出勤", "reji"},
		[]interface{}{"", "blank", "2024/3/5", "9:00", "出勤", ""},
		[]interface{}{"E001", "山田", "2024/3/5", "15:00", "退勤", "レジ"},
	)

	records, err := ReadPunches(r, "punches.xlsx")

	require.NoError(t, err)
	require.Len(t, records, 2, "rows without an id are skipped")
	assert.Equal(t, domain.RawRecord{
		EmployeeID: "E001", EmployeeName: "山田", Date: "2024/3/5", Time: "9:00", PunchType: "出勤", Position: "reji",
	}, records[0])
	assert.Equal(t, "退勤", records[1].PunchType)
}

func TestReadPunches_PunchTypeKeepsPadding(t *testing.T) {
	r := workbook(t,
		[]interface{}{"employee_id", "date", "time", "type"},
		[]interface{}{" E001 ", "2024-03-05", "17:00", " 退勤 "},
	)

	records, err := ReadPunches(r, "punches.xlsx")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "E001", records[0].EmployeeID)
	assert.Equal(t, " 退勤 ", records[0].PunchType)
}

func TestReadPunches_JapaneseHeadersAndSerials(t *testing.T) {
	r := workbook(t,
		[]interface{}{"社員番号", "氏名", "日付", "時刻", "種別"},
		[]interface{}{"E002", "佐藤", 45356, 0.375, "休憩開始"},
		[]interface{}{"E002", "佐藤", "2024-03-05", 45356.75, "退勤"},
	)

	records, err := ReadPunches(r, "打刻.xlsx")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-05", records[0].Date)
	assert.Equal(t, "09:00:00", records[0].Time)
	assert.Equal(t, "18:00:00", records[1].Time)
	assert.Empty(t, records[0].Position, "the position column is optional")
}

func TestReadPunches_MissingColumns(t *testing.T) {
	r := workbook(t, []interface{}{"Employee ID", "Date"})

	_, err := ReadPunches(r, "punches.xlsx")

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
	assert.Contains(t, err.Error(), "time")
	assert.Contains(t, err.Error(), "punch_type")
}

func TestReadEmployees(t *testing.T) {
	r := workbook(t,
		[]interface{}{"ID", "名前", "時給"},
		[]interface{}{"E001", "山田", "¥1,200"},
		[]interface{}{"E002", "佐藤", ""},
		[]interface{}{"", "", "900"},
	)

	employees, err := ReadEmployees(r, "staff.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []domain.Employee{
		{ID: "E001", Name: "山田", HourlyWage: 1200},
		{ID: "E002", Name: "佐藤"},
	}, employees)
}

func TestReadEmployees_BadWage(t *testing.T) {
	r := workbook(t,
		[]interface{}{"ID", "Name", "Wage"},
		[]interface{}{"E001", "山田", "time and a half"},
	)

	_, err := ReadEmployees(r, "staff.xlsx")

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
	assert.Contains(t, err.Error(), "row 2")
}

func TestRead_DetectsSheetKind(t *testing.T) {
	punches, err := Read(workbook(t,
		[]interface{}{"id", "date", "time", "type"},
		[]interface{}{"E001", "2024-03-05", "9:00", "clock_in"},
	), "log.xlsx")
	require.NoError(t, err)
	assert.Len(t, punches.Punches, 1)
	assert.Empty(t, punches.Employees)

	staff, err := Read(workbook(t,
		[]interface{}{"id", "name"},
		[]interface{}{"E001", "山田"},
	), "staff.xlsx")
	require.NoError(t, err)
	assert.Len(t, staff.Employees, 1)
	assert.Empty(t, staff.Punches)

	_, err = Read(workbook(t, []interface{}{"foo", "bar"}), "other.xlsx")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
}

func TestRead_InvalidWorkbook(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a workbook")), "broken.xlsx")

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
	assert.Contains(t, err.Error(), "broken.xlsx")
}

func TestNormalizeCells(t *testing.T) {
	assert.Equal(t, "2024-03-05", normalizeDateCell("45356"))
	assert.Equal(t, "2024/3/5", normalizeDateCell("2024/3/5"))
	assert.Equal(t, "20240305", normalizeDateCell("20240305"))
	assert.Equal(t, "12:30:00", normalizeTimeCell("0.520833333"))
	assert.Equal(t, "930", normalizeTimeCell("930"))
	assert.Equal(t, "9:00", normalizeTimeCell("9:00"))
}
