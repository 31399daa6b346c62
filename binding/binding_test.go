package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{"index": 7, "lib": "fpdf"}
	cases := []struct {
		in   string
		want string
	}{
		{"Line ${index}", "Line 7"},
		{"${ index }", "7"},
		{"#${index:%03d}", "#007"},
		{"${lib}/${index}", "fpdf/7"},
		{"${missing}", "${missing}"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := Interpolate("Line ${index}", nil); got != "Line ${index}" {
		t.Fatalf("nil data 应保留占位符，实际 %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${index} of ${total} (${index:%02d})")
	if len(got) != 2 || got[0] != "index" || got[1] != "total" {
		t.Fatalf("Placeholders 结果不符: %v", got)
	}
}
