package source

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  int
		valid bool
	}{
		{"plain", "1299", 1299, true},
		{"currency symbol", "₹1,299", 1299, true},
		{"grouped", "1,29,900", 129900, true},
		{"surrounding text", "from 499 onwards", 499, true},
		{"not available", "N/A", 0, false},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"zero", "0", 0, false},
		{"zero with symbol", "₹0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePrice(tt.in)
			if ok != tt.valid {
				t.Fatalf("parsePrice(%q) valid = %v, want %v", tt.in, ok, tt.valid)
			}
			if ok && got != tt.want {
				t.Errorf("parsePrice(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestAbsolutize(t *testing.T) {
	const origin = "https://www.flipkart.com"

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"absolute passes through", "https://www.flipkart.com/p/x?pid=1", "https://www.flipkart.com/p/x?pid=1", false},
		{"relative path", "/p/x?pid=1", "https://www.flipkart.com/p/x?pid=1", false},
		{"relative without slash", "p/x", "https://www.flipkart.com/p/x", false},
		{"other absolute host", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg", false},
		{"unparsable", "http://%zz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := absolutize(origin, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("absolutize(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("absolutize(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
