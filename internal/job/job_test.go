package job

import "testing"

func TestSalaryRange(t *testing.T) {
	cases := []struct {
		name     string
		min, max float64
		currency string
		want     string
	}{
		{"both bounds eur", 70000, 90000, "EUR", "€70,000 - €90,000"},
		{"both bounds usd", 70000, 90000, "USD", "$70,000 - $90,000"},
		{"other currency", 70000, 90000, "GBP", "GBP 70,000 - GBP 90,000"},
		{"default currency", 70000, 90000, "", "€70,000 - €90,000"},
		{"min only", 70000, 0, "EUR", "€70,000+"},
		{"max only", 0, 90000, "EUR", "Up to €90,000"},
		{"no bounds", 0, 0, "EUR", ""},
		{"small amount", 900, 0, "EUR", "€900+"},
		{"millions", 1250000, 0, "EUR", "€1,250,000+"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Posting{MinSalary: tc.min, MaxSalary: tc.max, Currency: tc.currency}
			if got := p.SalaryRange(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGroupThousands(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"999":      "999",
		"1000":     "1,000",
		"65000":    "65,000",
		"1250000":  "1,250,000",
		"10000000": "10,000,000",
	}
	for in, want := range cases {
		if got := groupThousands(in); got != want {
			t.Fatalf("groupThousands(%s): expected %s, got %s", in, want, got)
		}
	}
}
