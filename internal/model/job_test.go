package model

import (
	"encoding/json"
	"testing"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"00:00", ClockTime{0, 0}, false},
		{"9:5", ClockTime{9, 5}, false},
		{"14:30", ClockTime{14, 30}, false},
		{"23:59", ClockTime{23, 59}, false},
		{"24:00", ClockTime{}, true},
		{"12:60", ClockTime{}, true},
		{"noon", ClockTime{}, true},
		{"", ClockTime{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClockTime(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClockTimeJSONRoundTrip(t *testing.T) {
	orig := ClockTime{Hour: 7, Minute: 45}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"07:45"` {
		t.Errorf("marshaled as %s, want \"07:45\"", data)
	}

	var back ClockTime
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != orig {
		t.Errorf("round trip got %v, want %v", back, orig)
	}
}

func TestClockTimeMinuteOfDay(t *testing.T) {
	if got := (ClockTime{Hour: 14, Minute: 30}).MinuteOfDay(); got != 870 {
		t.Errorf("MinuteOfDay() = %d, want 870", got)
	}
}

func TestNewSyncJobValidation(t *testing.T) {
	if _, err := NewSyncJob("", "bucket", "", ClockTime{}); err == nil {
		t.Error("expected error for empty folder path")
	}
	if _, err := NewSyncJob("/data", "", "", ClockTime{}); err == nil {
		t.Error("expected error for empty bucket name")
	}

	job, err := NewSyncJob("/data", "bucket", "backups/", ClockTime{Hour: 3})
	if err != nil {
		t.Fatalf("NewSyncJob() error = %v", err)
	}
	if job.ID == "" {
		t.Error("expected a generated id")
	}
	if !job.IsEnabled {
		t.Error("new jobs should be enabled")
	}
}
