package ledger

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-31", want: NewDate(2025, time.January, 31)},
		{in: "2025-7-1", want: NewDate(2025, time.July, 1)},
		{in: "31-01-2025", wantErr: true},
		{in: "not a date", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2025, time.March, 1)
	b := NewDate(2025, time.March, 2)
	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before() broken for %v vs %v", a, b)
	}
	if a.Add(1) != b {
		t.Errorf("Add(1) = %v, want %v", a.Add(1), b)
	}
	// Day arithmetic normalizes across month boundaries.
	if got := NewDate(2025, time.January, 31).Add(1); got != NewDate(2025, time.February, 1) {
		t.Errorf("Add(1) across month = %v", got)
	}
}

func TestRange_Contains(t *testing.T) {
	in := Range{From: NewDate(2025, time.March, 1), To: NewDate(2025, time.March, 31)}
	if !in.Contains(NewDate(2025, time.March, 1)) || !in.Contains(NewDate(2025, time.March, 31)) {
		t.Error("Contains() must include boundaries")
	}
	if in.Contains(NewDate(2025, time.February, 28)) {
		t.Error("Contains() must exclude dates before From")
	}
	open := AsOf(NewDate(2025, time.March, 31))
	if !open.Contains(NewDate(1990, time.January, 1)) {
		t.Error("lower-open range must reach back to inception")
	}
	if open.Contains(NewDate(2025, time.April, 1)) {
		t.Error("lower-open range must stop at To")
	}
}

func TestHistory_AsOf(t *testing.T) {
	var h History[string]
	h.Append(NewDate(2025, time.January, 10), "a")
	h.Append(NewDate(2025, time.January, 20), "b")
	h.Append(NewDate(2025, time.January, 10), "a2") // overwrite

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after overwrite", h.Len())
	}

	testCases := []struct {
		day    Date
		want   string
		wantOK bool
	}{
		{NewDate(2025, time.January, 9), "", false},
		{NewDate(2025, time.January, 10), "a2", true},
		{NewDate(2025, time.January, 15), "a2", true},
		{NewDate(2025, time.January, 20), "b", true},
		{NewDate(2025, time.February, 1), "b", true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOf(tc.day)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ValueAsOf(%v) = %q, %v, want %q, %v", tc.day, got, ok, tc.want, tc.wantOK)
		}
	}

	if day, v := h.Latest(); day != NewDate(2025, time.January, 20) || v != "b" {
		t.Errorf("Latest() = %v, %q", day, v)
	}
}

func TestHistory_SortedInsert(t *testing.T) {
	var h History[int]
	h.Append(NewDate(2025, time.March, 3), 3)
	h.Append(NewDate(2025, time.March, 1), 1)
	h.Append(NewDate(2025, time.March, 2), 2)

	var got []int
	h.Values(func(_ Date, v int) bool {
		got = append(got, v)
		return true
	})
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("Values() out of order: %v", got)
		}
	}
}
