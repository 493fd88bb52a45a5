// Package spreadsheet reads punch logs and employee lists exported from the
// store's spreadsheet.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows bounds how many rows are read from a legacy workbook
const maxXLSRows = 100000

// maxExcelSerial is 9999-12-31
const maxExcelSerial = 2958466

// column lists the header spellings accepted for one field
type column struct {
	field    string
	headers  []string
	required bool
}

var punchColumns = []column{
	{field: "employee_id", headers: []string{"employee_id", "employee id", "id", "社員id", "従業員id", "社員番号"}, required: true},
	{field: "employee_name", headers: []string{"employee_name", "employee name", "name", "氏名", "名前"}},
	{field: "date", headers: []string{"date", "日付"}, required: true},
	{field: "time", headers: []string{"time", "時刻", "時間"}, required: true},
	{field: "punch_type", headers: []string{"punch_type", "punch type", "type", "種別", "打刻種別"}, required: true},
	{field: "position", headers: []string{"position", "ポジション", "持ち場"}},
}

var employeeColumns = []column{
	{field: "employee_id", headers: []string{"employee_id", "employee id", "id", "社員id", "従業員id", "社員番号"}, required: true},
	{field: "employee_name", headers: []string{"employee_name", "employee name", "name", "氏名", "名前"}, required: true},
	{field: "hourly_wage", headers: []string{"hourly_wage", "hourly wage", "wage", "時給"}},
}

// Contents is what one workbook held. Only one of the slices is filled,
// depending on the header row.
type Contents struct {
	Employees []domain.Employee
	Punches   []domain.RawRecord
}

// Read loads a workbook and decides from its header row whether it is a
// punch log or an employee list.
func Read(r io.Reader, filename string) (*Contents, error) {
	rows, err := readRowsFromSpreadsheet(r, filename)
	if err != nil {
		return nil, errors.NewImportError(filename, err)
	}
	if idx, err := headerIndex(rows[0], punchColumns); err == nil {
		return &Contents{Punches: punchRows(rows, idx)}, nil
	}
	idx, err := headerIndex(rows[0], employeeColumns)
	if err != nil {
		return nil, errors.NewImportError(filename, fmt.Errorf("not a punch log or employee list: %w", err))
	}
	employees, err := employeeRows(rows, idx)
	if err != nil {
		return nil, errors.NewImportError(filename, err)
	}
	return &Contents{Employees: employees}, nil
}

// ReadPunches reads punch rows from an .xlsx or .xls workbook. Rows without
// an employee id are skipped. Date and time cells stored as Excel serials are
// converted to their text form.
func ReadPunches(r io.Reader, filename string) ([]domain.RawRecord, error) {
	rows, err := readRowsFromSpreadsheet(r, filename)
	if err != nil {
		return nil, errors.NewImportError(filename, err)
	}
	idx, err := headerIndex(rows[0], punchColumns)
	if err != nil {
		return nil, errors.NewImportError(filename, err)
	}
	return punchRows(rows, idx), nil
}

// ReadEmployees reads employee rows. A blank wage means no wage on file.
func ReadEmployees(r io.Reader, filename string) ([]domain.Employee, error) {
	rows, err := readRowsFromSpreadsheet(r, filename)
	if err != nil {
		return nil, errors.NewImportError(filename, err)
	}
	idx, err := headerIndex(rows[0], employeeColumns)
	if err != nil {
		return nil, errors.NewImportError(filename, err)
	}
	employees, err := employeeRows(rows, idx)
	if err != nil {
		return nil, errors.NewImportError(filename, err)
	}
	return employees, nil
}

func punchRows(rows [][]string, idx map[string]int) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id := cellValue(row, idx["employee_id"])
		if id == "" {
			continue
		}
		records = append(records, domain.RawRecord{
			EmployeeID:   id,
			EmployeeName: cellValue(row, idx["employee_name"]),
			Date:         normalizeDateCell(cellValue(row, idx["date"])),
			Time:         normalizeTimeCell(cellValue(row, idx["time"])),
			PunchType:    rawCellValue(row, idx["punch_type"]),
			Position:     cellValue(row, idx["position"]),
		})
	}
	return records
}

func employeeRows(rows [][]string, idx map[string]int) ([]domain.Employee, error) {
	employees := make([]domain.Employee, 0, len(rows)-1)
	for i, row := range rows[1:] {
		id := cellValue(row, idx["employee_id"])
		if id == "" {
			continue
		}
		raw := cellValue(row, idx["hourly_wage"])
		wage, err := parseWage(raw)
		if err != nil {
			// the header is row 1
			return nil, errors.NewInvalidInputError("hourly_wage", raw, fmt.Sprintf("row %d: %v", i+2, err))
		}
		employees = append(employees, domain.Employee{
			ID:         id,
			Name:       cellValue(row, idx["employee_name"]),
			HourlyWage: wage,
		})
	}
	return employees, nil
}

func readRowsFromSpreadsheet(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(maxXLSRows)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}

		// raw values keep date-formatted cells as serials
		rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	}
}

func headerIndex(header []string, columns []column) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for _, col := range columns {
		idx[col.field] = -1
	}
	for i, h := range header {
		name := normalizeHeader(h)
		for _, col := range columns {
			if idx[col.field] >= 0 {
				continue
			}
			for _, candidate := range col.headers {
				if name == candidate {
					idx[col.field] = i
				}
			}
		}
	}
	var missing []string
	for _, col := range columns {
		if col.required && idx[col.field] < 0 {
			missing = append(missing, col.field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	return strings.TrimSpace(rawCellValue(row, idx))
}

// rawCellValue keeps padding; punch labels are matched exactly.
func rawCellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeDateCell turns an Excel date serial into YYYY-MM-DD and leaves
// any other text alone.
func normalizeDateCell(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < 1 || serial >= maxExcelSerial {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02")
}

// normalizeTimeCell turns an Excel time fraction or a date-time serial into
// HH:MM:SS.
func normalizeTimeCell(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < 0 || serial >= maxExcelSerial {
		return value
	}
	if serial >= 1 && serial == float64(int64(serial)) {
		// a bare integer such as 930 is not a time
		return value
	}
	if serial < 1 {
		// day 1 carries no leap-year correction
		serial++
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Add(500 * time.Millisecond).Truncate(time.Second).Format("15:04:05")
}

func parseWage(value string) (int64, error) {
	value = strings.NewReplacer("¥", "", "円", "", ",", "").Replace(strings.TrimSpace(value))
	if value == "" {
		return 0, nil
	}
	wage, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid wage %q", value)
	}
	if wage < 0 {
		return 0, fmt.Errorf("negative wage %d", wage)
	}
	return wage, nil
}
