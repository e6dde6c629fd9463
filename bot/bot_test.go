package bot

import (
	"testing"
	"time"
)

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{-time.Hour, msgDeadlinePassed},
		{0, msgDeadlinePassed},
		{30 * time.Minute, "30 دقيقة"},
		{90 * time.Minute, "1 ساعة و 30 دقيقة"},
		{50 * time.Hour, "2 يوم و 2 ساعة"},
	}
	for _, tc := range cases {
		if got := formatRemaining(tc.d); got != tc.want {
			t.Errorf("formatRemaining(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestParseGradeInput(t *testing.T) {
	grade, feedback, err := parseGradeInput("85 | عمل ممتاز")
	if err != nil || grade != 85 || feedback != "عمل ممتاز" {
		t.Errorf("parseGradeInput full form: %d %q %v", grade, feedback, err)
	}

	grade, feedback, err = parseGradeInput(" 70 ")
	if err != nil || grade != 70 || feedback != "" {
		t.Errorf("parseGradeInput bare grade: %d %q %v", grade, feedback, err)
	}

	if _, _, err := parseGradeInput("abc"); err == nil {
		t.Error("parseGradeInput should reject non-numeric input")
	}
}
