package query

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "iphone 15", "iphone 15"},
		{"leading and trailing space", "  iphone 15  ", "iphone 15"},
		{"internal runs", "iphone \t\t 15   pro", "iphone 15 pro"},
		{"upper case", "IPhone 15 PRO", "iphone 15 pro"},
		{"tabs and newlines", "iphone\n15\tpro", "iphone 15 pro"},
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  Sony   WH-1000XM5 ",
		"MACBOOK\tair",
		"",
		"already normalized",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_EquivalentInputs(t *testing.T) {
	variants := []string{
		"galaxy s24 ultra",
		"  Galaxy S24 Ultra",
		"GALAXY\t S24   ULTRA ",
	}
	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		if got := Normalize(v); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestKey_StableAcrossVariants(t *testing.T) {
	a := Key("  Pixel 9  Pro ")
	b := Key("pixel 9 pro")
	if a != b {
		t.Errorf("equivalent inputs produced different keys: %s vs %s", a, b)
	}

	c := Key("pixel 9")
	if a == c {
		t.Error("different queries produced the same key")
	}
}
