package crypto_test

import (
	"testing"

	"securechat/internal/crypto"
)

func TestCheckPassphrase(t *testing.T) {
	cases := []struct {
		name       string
		passphrase string
		score      int
		acceptable bool
	}{
		{"all requirements", "Sn0wLeopard!2024", 5, true},
		{"empty", "", 0, false},
		{"short but varied", "Ab1!", 4, false},
		{"long lowercase only", "correcthorsebattery", 2, false},
		{"no symbol", "Sn0wLeopard2024", 4, false},
		{"no digit", "SnowLeopard!", 4, false},
		{"no upper", "sn0wleopard!2024", 4, false},
		{"no lower", "SN0WLEOPARD!2024", 4, false},
		{"unicode symbol counts", "Sn0wLeopard€2024", 5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := crypto.CheckPassphrase(tc.passphrase)
			if rep.Score != tc.score {
				t.Fatalf("score = %d, want %d (%+v)", rep.Score, tc.score, rep)
			}
			if rep.Acceptable() != tc.acceptable {
				t.Fatalf("Acceptable() = %v, want %v (%+v)", rep.Acceptable(), tc.acceptable, rep)
			}
		})
	}
}
