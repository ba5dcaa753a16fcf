package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteLines writes lines joined by newline into dir/name and returns the path.
func WriteLines(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// RateFileLines is a small semicolon separated rate file with a header, a
// decimal comma and a weekend gap (2024-01-06 and 2024-01-07 are missing).
func RateFileLines() []string {
	return []string{
		"date;low;high",
		"2024-01-08;1,10;1,30",
		"2024-01-02;1,00;1,20",
		"2024-01-03;1,02;1,22",
		"2024-01-04;1,04;1,24",
		"2024-01-05;1,06;1,26",
		"2024-01-09;1,12;1,32",
		"2024-01-15;1,20;1,40",
	}
}

// TransactionFileLines is a comma separated, headerless transaction file with
// day-first datetimes and quoted descriptions.
func TransactionFileLines() []string {
	return []string{
		`03.01.2024 10:15,"Coffee, large",-3.50`,
		`02.01.2024 09:00,"Salary",2500.00`,
		`05.01.2024 18:30,"Books",-42.10`,
		`13.01.2024 12:00,"Refund",15.00`,
	}
}
