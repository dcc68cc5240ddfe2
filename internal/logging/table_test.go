package logging

import (
	"math"
	"strings"
	"testing"
)

func TestMetricTableEmpty(t *testing.T) {
	table := NewMetricTable("Chunks", "Share")
	if got := table.String(); got != "" {
		t.Errorf("empty table rendered %q, want empty string", got)
	}
}

func TestMetricTableAlignment(t *testing.T) {
	table := NewMetricTable("Chunks", "Share")
	table.AddRow("Speaker 1", []string{"120", "80%"}, "", "")
	table.AddRow("Speaker 2", []string{"30", "20%"}, "", "")

	out := table.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3 (header + 2 rows)", len(lines))
	}
	if !strings.Contains(lines[0], "Chunks") || !strings.Contains(lines[0], "Share") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Speaker 1") {
		t.Errorf("row 1 = %q, want Speaker 1 first", lines[1])
	}
	// Value columns line up across rows.
	if strings.Index(lines[1], "120") == -1 || strings.Index(lines[2], "30") == -1 {
		t.Fatalf("values missing: %q / %q", lines[1], lines[2])
	}
	end1 := strings.Index(lines[1], "120") + len("120")
	end2 := strings.Index(lines[2], "30") + len("30")
	if end1 != end2 {
		t.Errorf("value column misaligned: %d vs %d\n%s", end1, end2, out)
	}
}

func TestMetricTableMissingValues(t *testing.T) {
	table := NewMetricTable("A", "B")
	table.AddRow("row", []string{"1"}, "", "")

	out := table.String()
	if !strings.Contains(out, MissingValue) {
		t.Errorf("missing value not rendered as %q:\n%s", MissingValue, out)
	}
}

func TestMetricTableInterpretationColumn(t *testing.T) {
	table := NewMetricTable("Value")
	table.AddRow("mean", []string{"-21.0"}, "dB", "healthy level")

	out := table.String()
	if !strings.Contains(out, "Interpretation") {
		t.Errorf("interpretation header missing:\n%s", out)
	}
	if !strings.Contains(out, "healthy level") {
		t.Errorf("interpretation text missing:\n%s", out)
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"regular", -21.04, 1, "-21.0"},
		{"zero", 0, 2, "0.00"},
		{"tiny", 0.00002, 3, "2.00e-05"},
		{"nan", math.NaN(), 1, MissingValue},
		{"inf", math.Inf(1), 1, MissingValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMetric(tt.value, tt.decimals); got != tt.want {
				t.Errorf("formatMetric(%f, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(0.825); got != "83%" {
		t.Errorf("formatPercent(0.825) = %q, want 83%%", got)
	}
	if got := formatPercent(math.NaN()); got != MissingValue {
		t.Errorf("formatPercent(NaN) = %q, want %q", got, MissingValue)
	}
}

func TestFormatDurationHMS(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{12.3, "12.3s"},
		{92, "1m 32s"},
		{3700, "1h 1m 40s"},
	}
	for _, tt := range tests {
		if got := formatDurationHMS(tt.seconds); got != tt.want {
			t.Errorf("formatDurationHMS(%f) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	out := wrapText("one two three four five", 9, "  ")
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if len(strings.TrimPrefix(line, "  ")) > 9 {
			t.Errorf("line %d too long: %q", i, line)
		}
	}
	if len(lines) < 2 {
		t.Errorf("text not wrapped: %q", out)
	}
}
