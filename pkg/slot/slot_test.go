package slot

import (
	"reflect"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"morning", "09:00", 9 * time.Hour, false},
		{"afternoon", "16:45", 16*time.Hour + 45*time.Minute, false},
		{"midnight", "00:00", 0, false},
		{"last minute", "23:59", 23*time.Hour + 59*time.Minute, false},
		{"missing leading zero", "9:00", 0, true},
		{"hour out of range", "24:00", 0, true},
		{"minute out of range", "09:60", 0, true},
		{"garbage", "banana", 0, true},
		{"empty", "", 0, true},
		{"trailing junk", "09:000", 0, true},
		{"letter in minutes", "09:0a", 0, true},
		{"letter in hours", "0a:00", 0, true},
		{"whitespace padding", " 9:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q): expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate_LocalMidnight(t *testing.T) {
	got, err := ParseDate("2026-03-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) || got.Location() != time.Local {
		t.Errorf("ParseDate = %v (%v), want local midnight %v", got, got.Location(), want)
	}

	// A date parsed into the local zone combines with a time of day into the
	// same wall clock that time.Now reports.
	moment, err := At(got, "09:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wantMoment := time.Date(2026, 3, 12, 9, 0, 0, 0, time.Local); !moment.Equal(wantMoment) {
		t.Errorf("At(ParseDate, 09:00) = %v, want %v", moment, wantMoment)
	}

	if _, err := ParseDate("12.03.2026"); err == nil {
		t.Error("expected error for non YYYY-MM-DD input")
	}
}

func TestQuantizeRange_InclusiveBoundaries(t *testing.T) {
	got, err := QuantizeRange("13:00", "13:30", FineStep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"13:00", "13:15", "13:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QuantizeRange(13:00, 13:30) = %v, want %v", got, want)
	}
}

func TestQuantizeRange_SingleSlot(t *testing.T) {
	got, err := QuantizeRange("13:00", "13:00", FineStep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "13:00" {
		t.Errorf("zero-width range must still yield its boundary slot, got %v", got)
	}
}

func TestQuantizeRange_InvalidInput(t *testing.T) {
	if _, err := QuantizeRange("13:xx", "14:00", FineStep); err == nil {
		t.Error("expected error for malformed start time")
	}
	if _, err := QuantizeRange("13:00", "nope", FineStep); err == nil {
		t.Error("expected error for malformed end time")
	}
	if _, err := QuantizeRange("13:00", "14:00", 0); err == nil {
		t.Error("expected error for non-positive step")
	}
}

func TestQuantizeRange_EmptyWhenReversed(t *testing.T) {
	got, err := QuantizeRange("14:00", "13:00", FineStep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("reversed range should yield no slots, got %v", got)
	}
}

func TestAfternoon(t *testing.T) {
	got := Afternoon()
	if len(got) != 16 {
		t.Fatalf("afternoon grid should hold 16 slots, got %d: %v", len(got), got)
	}
	if got[0] != "13:00" || got[len(got)-1] != "16:45" {
		t.Errorf("afternoon grid boundaries wrong: first=%s last=%s", got[0], got[len(got)-1])
	}
}

func TestAt(t *testing.T) {
	date := time.Date(2024, 2, 25, 17, 42, 3, 0, time.Local)
	got, err := At(date, "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 2, 25, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v (date clock component must be discarded)", got, want)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, s := range StandardTimes {
		d, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if back := Format(d); back != s {
			t.Errorf("round trip %q -> %q", s, back)
		}
	}
}
