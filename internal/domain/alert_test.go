package domain

import "testing"

func int64p(v int64) *int64 {
	return &v
}

func TestAlertWindowResolve(t *testing.T) {
	const now = int64(1_700_000_000_000)
	const day = int64(24 * 60 * 60 * 1000)

	cases := []struct {
		name     string
		window   AlertWindow
		from, to int64
	}{
		{"empty", AlertWindow{}, 0, now},
		{"from and to", AlertWindow{From: int64p(100), To: int64p(200)}, 100, 200},
		{"from only", AlertWindow{From: int64p(100)}, 100, now},
		{"to only", AlertWindow{To: int64p(200)}, 0, 200},
		{"days", AlertWindow{Days: int64p(3)}, now - 3*day, now},
		{"from and to beat days", AlertWindow{From: int64p(100), To: int64p(200), Days: int64p(3)}, 100, 200},
		{"from beats days", AlertWindow{From: int64p(100), Days: int64p(3)}, 100, now},
		{"to beats days", AlertWindow{To: int64p(200), Days: int64p(3)}, 0, 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to := tc.window.Resolve(now)
			if from != tc.from || to != tc.to {
				t.Fatalf("Resolve = (%d, %d), want (%d, %d)", from, to, tc.from, tc.to)
			}
		})
	}
}
