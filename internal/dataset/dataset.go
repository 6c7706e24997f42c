package dataset

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Column names every historical source must provide
const (
	ColumnDate        = "date"
	ColumnDayOfWeek   = "day_of_week"
	ColumnTemperature = "temperature"
	ColumnIsHoliday   = "is_holiday"
	ColumnOrderCount  = "order_count"
)

// RequiredColumns lists the header names a source must contain
var RequiredColumns = []string{
	ColumnDate,
	ColumnDayOfWeek,
	ColumnTemperature,
	ColumnIsHoliday,
	ColumnOrderCount,
}

var (
	// ErrDataUnavailable is returned when the source does not exist
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrSchemaMismatch is returned when required columns are absent
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrMalformedRecord is returned when a cell cannot be parsed
	ErrMalformedRecord = errors.New("malformed record")
)

// HistoricalRecord is one day of observed orders
type HistoricalRecord struct {
	Date        string  `json:"date"`
	DayOfWeek   int     `json:"day_of_week"`
	Temperature float64 `json:"temperature"`
	IsHoliday   bool    `json:"is_holiday"`
	OrderCount  int     `json:"order_count"`
}

// Load reads historical records from path. Files ending in .db, .sqlite or
// .sqlite3 are read from an "orders" table; anything else is parsed as CSV
// with a header row.
func Load(path string) ([]HistoricalRecord, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s not found", ErrDataUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

// ReadCSV parses delimited text with a header row
func ReadCSV(r io.Reader) ([]HistoricalRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input, expected columns %v", ErrSchemaMismatch, sortedRequired())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []HistoricalRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}

		cell := func(name string) string {
			return strings.TrimSpace(row[index[name]])
		}
		rec, err := parseRecord(cell)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// loadSQLite reads the orders table of a read-only SQLite database
func loadSQLite(path string) ([]HistoricalRecord, error) {
	dsn, err := sqliteReadOnlyDSN(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT name FROM pragma_table_info('orders')")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to read table info: %w", err)
		}
		columns = append(columns, name)
	}
	rows.Close()

	if _, err := columnIndex(columns); err != nil {
		return nil, err
	}

	// Cells are read back as text so both loaders share one parser
	data, err := db.Query(`
		SELECT CAST(date AS TEXT), CAST(day_of_week AS TEXT), CAST(temperature AS TEXT),
		       CAST(is_holiday AS TEXT), CAST(order_count AS TEXT)
		FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer data.Close()

	var records []HistoricalRecord
	n := 0
	for data.Next() {
		n++
		var date, day, temp, holiday, orders sql.NullString
		if err := data.Scan(&date, &day, &temp, &holiday, &orders); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRecord, n, err)
		}
		values := map[string]string{
			ColumnDate:        date.String,
			ColumnDayOfWeek:   day.String,
			ColumnTemperature: temp.String,
			ColumnIsHoliday:   holiday.String,
			ColumnOrderCount:  orders.String,
		}
		rec, err := parseRecord(func(name string) string { return strings.TrimSpace(values[name]) })
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		records = append(records, rec)
	}
	if err := data.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return records, nil
}

// sqliteReadOnlyDSN builds a file: URI for path, escaping characters such
// as '?' and '#' that SQLite would otherwise read as URI delimiters
func sqliteReadOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String(), nil
}

// columnIndex maps required column names to their position in header
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %v, expected %v", ErrSchemaMismatch, missing, sortedRequired())
	}
	return index, nil
}

func parseRecord(cell func(string) string) (HistoricalRecord, error) {
	rec := HistoricalRecord{Date: cell(ColumnDate)}

	day, err := strconv.Atoi(cell(ColumnDayOfWeek))
	if err != nil {
		return rec, malformed(ColumnDayOfWeek, cell(ColumnDayOfWeek))
	}
	rec.DayOfWeek = day

	temp, err := strconv.ParseFloat(cell(ColumnTemperature), 64)
	if err != nil {
		return rec, malformed(ColumnTemperature, cell(ColumnTemperature))
	}
	rec.Temperature = temp

	holiday, err := strconv.ParseBool(cell(ColumnIsHoliday))
	if err != nil {
		return rec, malformed(ColumnIsHoliday, cell(ColumnIsHoliday))
	}
	rec.IsHoliday = holiday

	orders, err := strconv.Atoi(cell(ColumnOrderCount))
	if err != nil || orders < 0 {
		return rec, malformed(ColumnOrderCount, cell(ColumnOrderCount))
	}
	rec.OrderCount = orders

	return rec, nil
}

func malformed(column, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrMalformedRecord, column, value)
}

func sortedRequired() []string {
	names := append([]string(nil), RequiredColumns...)
	sort.Strings(names)
	return names
}
