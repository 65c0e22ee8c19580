package metrics

import "testing"

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"PT1H2M3S", 3723},
		{"PT15M33S", 933},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT10M", 600},
		{"P1DT2H", 0},
		{"garbage", 0},
		{"", 0},
	}

	for _, tc := range cases {
		if got := ParseISODuration(tc.input); got != tc.want {
			t.Errorf("ParseISODuration(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}
