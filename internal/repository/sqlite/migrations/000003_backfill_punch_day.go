package migrations

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

func init() {
	RegisterGoMigration(3, Up_000003_backfill_punch_day, Down_000003_backfill_punch_day)
}

// Up_000003_backfill_punch_day fills the day column of punches stored before
// it existed. Dates written as 2024/1/5 or 2024.1.5 become 2024-01-05; rows
// whose date cannot be read keep the separator-normalized text.
func Up_000003_backfill_punch_day(tx *sql.Tx) error {
	type row struct {
		seq  int64
		date string
	}
	var pending []row

	rows, err := tx.Query("SELECT seq, date FROM punches WHERE day = ''")
	if err != nil {
		return fmt.Errorf("failed to query punches: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.seq, &r.date); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan punch: %w", err)
		}
		pending = append(pending, r)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating punches: %w", err)
	}
	rows.Close()

	stmt, err := tx.Prepare("UPDATE punches SET day = ? WHERE seq = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare day update statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range pending {
		if _, err := stmt.Exec(canonicalDay(r.date), r.seq); err != nil {
			return fmt.Errorf("failed to update day for punch %d: %w", r.seq, err)
		}
	}
	return nil
}

// Down_000003_backfill_punch_day clears the backfilled values.
func Down_000003_backfill_punch_day(tx *sql.Tx) error {
	if _, err := tx.Exec("UPDATE punches SET day = ''"); err != nil {
		return fmt.Errorf("failed to clear day: %w", err)
	}
	return nil
}

func canonicalDay(date string) string {
	date = strings.NewReplacer(".", "-", "/", "-").Replace(strings.TrimSpace(date))
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	y, errY := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	d, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return date
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
