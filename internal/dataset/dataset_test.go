package dataset

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const validCSV = `date,day_of_week,temperature,is_holiday,order_count
2024-01-01,1,15,0,50
2024-01-02,2,18.5,0,55
2024-01-06,6,30,1,120
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// createTestOrdersDB creates a SQLite database with an orders table
func createTestOrdersDB(t *testing.T, dir string, withOrderCount bool) string {
	t.Helper()

	dbPath := filepath.Join(dir, "orders.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to create test DB: %v", err)
	}
	defer db.Close()

	statements := []string{
		`CREATE TABLE orders (date TEXT, day_of_week INTEGER, temperature REAL, is_holiday INTEGER, order_count INTEGER)`,
		`INSERT INTO orders VALUES ('2024-01-01', 1, 15.0, 0, 50)`,
		`INSERT INTO orders VALUES ('2024-01-06', 6, 30.5, 1, 120)`,
	}
	if !withOrderCount {
		statements = []string{
			`CREATE TABLE orders (date TEXT, day_of_week INTEGER, temperature REAL, is_holiday INTEGER)`,
			`INSERT INTO orders VALUES ('2024-01-01', 1, 15.0, 0)`,
		}
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to execute: %s: %v", stmt, err)
		}
	}
	return dbPath
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "orders.csv", validCSV)

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	want := HistoricalRecord{Date: "2024-01-02", DayOfWeek: 2, Temperature: 18.5, IsHoliday: false, OrderCount: 55}
	if records[1] != want {
		t.Errorf("Expected %+v, got %+v", want, records[1])
	}
	if !records[2].IsHoliday {
		t.Error("Expected third record to be a holiday")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestReadCSVMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing string
	}{
		{"no order_count", "date,day_of_week,temperature,is_holiday\n2024-01-01,1,15,0\n", "order_count"},
		{"no date", "day_of_week,temperature,is_holiday,order_count\n1,15,0,50\n", "date"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadCSV(strings.NewReader(tt.input))
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Fatalf("Expected ErrSchemaMismatch, got %v", err)
			}
			if records != nil {
				t.Errorf("Expected no records, got %d", len(records))
			}
			if tt.missing != "" && !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("Expected error to name %q, got %v", tt.missing, err)
			}
		})
	}
}

func TestReadCSVSchemaCheckedBeforeRows(t *testing.T) {
	// The bad cell would fail parsing; the missing column must be reported first
	input := "date,day_of_week,temperature,is_holiday\n2024-01-01,x,15,0\n"
	_, err := ReadCSV(strings.NewReader(input))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReadCSVColumnOrderAndExtras(t *testing.T) {
	input := "order_count,weather,is_holiday,temperature,day_of_week,date\n75,sunny,true,21.5,5,2024-01-05\n"
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	want := HistoricalRecord{Date: "2024-01-05", DayOfWeek: 5, Temperature: 21.5, IsHoliday: true, OrderCount: 75}
	if records[0] != want {
		t.Errorf("Expected %+v, got %+v", want, records[0])
	}
}

func TestReadCSVMalformedCells(t *testing.T) {
	header := "date,day_of_week,temperature,is_holiday,order_count\n"
	tests := []struct {
		name string
		row  string
	}{
		{"non-numeric day", "2024-01-01,mon,15,0,50"},
		{"non-numeric temperature", "2024-01-01,1,warm,0,50"},
		{"bad holiday flag", "2024-01-01,1,15,maybe,50"},
		{"negative orders", "2024-01-01,1,15,0,-3"},
		{"fractional orders", "2024-01-01,1,15,0,50.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(header + tt.row + "\n"))
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("Expected ErrMalformedRecord, got %v", err)
			}
			if err != nil && !strings.Contains(err.Error(), "line 2") {
				t.Errorf("Expected error to name line 2, got %v", err)
			}
		})
	}
}

func TestLoadSQLite(t *testing.T) {
	path := createTestOrdersDB(t, t.TempDir(), true)

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	want := HistoricalRecord{Date: "2024-01-06", DayOfWeek: 6, Temperature: 30.5, IsHoliday: true, OrderCount: 120}
	if records[1] != want {
		t.Errorf("Expected %+v, got %+v", want, records[1])
	}
}

func TestLoadSQLiteEscapedPath(t *testing.T) {
	root := t.TempDir()
	src := createTestOrdersDB(t, root, true)

	// Built outside and moved in, as the driver itself splits plain paths on '?'
	dir := filepath.Join(root, "odd?name#1 %20")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	path := filepath.Join(dir, "orders.db")
	if err := os.Rename(src, path); err != nil {
		t.Fatalf("Failed to move test DB: %v", err)
	}

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestLoadSQLiteMissingColumn(t *testing.T) {
	path := createTestOrdersDB(t, t.TempDir(), false)

	_, err := Load(path)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch, got %v", err)
	}
}

func TestSample(t *testing.T) {
	records := Sample()
	if len(records) != 14 {
		t.Fatalf("Expected 14 sample records, got %d", len(records))
	}

	holidays := 0
	for _, r := range records {
		if r.DayOfWeek < 1 || r.DayOfWeek > 7 {
			t.Errorf("Day out of range: %d", r.DayOfWeek)
		}
		if r.OrderCount < 50 || r.OrderCount > 130 {
			t.Errorf("Orders out of range: %d", r.OrderCount)
		}
		if r.IsHoliday {
			holidays++
		}
	}
	if holidays != 4 {
		t.Errorf("Expected 4 holidays, got %d", holidays)
	}
}
