package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kartoza/order-planner/internal/forecast"
)

func TestRunHolidaySaturday(t *testing.T) {
	var out bytes.Buffer
	if err := run(strings.NewReader("6\n30\n1\n"), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Model trained successfully.",
		"Estimated orders: 123",
		"Demand level: High",
		"Recommended staff (25 orders/worker, 10% margin): 6",
		"Actual vs predicted orders:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q\n%s", want, text)
		}
	}
}

func TestRunIsRepeatable(t *testing.T) {
	var first, second bytes.Buffer
	if err := run(strings.NewReader("6\n30\n1\n"), &first); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if err := run(strings.NewReader("6\n30\n1\n"), &second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if first.String() != second.String() {
		t.Error("Expected identical output across runs")
	}
}

func TestRunInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non-numeric day", "sat\n30\n1\n"},
		{"non-numeric temperature", "6\nwarm\n1\n"},
		{"bad holiday flag", "6\n30\nyes\n"},
		{"day out of range", "9\n30\n1\n"},
		{"temperature out of range", "6\n60\n1\n"},
		{"huge temperature", "6\n1e300\n1\n"},
		{"truncated input", "6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(strings.NewReader(tt.input), &out)
			if !errors.Is(err, forecast.ErrInvalidScenario) {
				t.Errorf("Expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}
