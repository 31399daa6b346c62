package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性（到 pt/mm）。
func TestLengthToConversions(t *testing.T) {
	if got := (Length{Value: 1, Unit: UnitIN}).ToPT(); math.Abs(got-72) > 1e-9 {
		t.Fatalf("1in 转 pt 期望 72，实际 %g", got)
	}
	if got := (Length{Value: 2.54, Unit: UnitCM}).To(UnitMM); math.Abs(got-25.4) > 1e-6 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	if got := (Length{Value: 12, Unit: UnitPT}).To(UnitMM); math.Abs(got-12*PtToMm) > 1e-9 {
		t.Fatalf("12pt 转 mm 期望 %g，实际 %g", 12*PtToMm, got)
	}
	// 无单位按 pt 处理
	if got := (Length{Value: 72, Unit: UnitNone}).ToPT(); got != 72 {
		t.Fatalf("无单位 72 转 pt 期望 72，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"72", 72},
		{"72pt", 72},
		{" 1in ", 72},
		{"0", 0},
		{"25.4mm", 72},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", c.in, err)
		}
		if diff := math.Abs(l.ToPT() - c.want); diff > 1e-3 {
			t.Fatalf("ParseLength(%q) = %gpt, want %g", c.in, l.ToPT(), c.want)
		}
	}
	for _, bad := range []string{"abc", "-3pt", "12px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应返回错误", bad)
		}
	}
	if l, err := ParseLength("  "); err != nil || l.Value != 0 {
		t.Fatalf("空白输入应解析为 0，实际 %+v err=%v", l, err)
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	fontSize := Length{Value: 10, Unit: UnitPT}

	factor, err := ParseLineHeight("1.116x")
	if err != nil {
		t.Fatalf("ParseLineHeight error: %v", err)
	}
	if got := factor.Resolve(fontSize, UnitPT); math.Abs(got-11.16) > 1e-9 {
		t.Fatalf("1.116x 解析错误: got=%g", got)
	}

	abs, err := ParseLineHeight("14pt")
	if err != nil {
		t.Fatalf("ParseLineHeight error: %v", err)
	}
	if abs.Kind != LineHeightAbsolute {
		t.Fatalf("14pt 应为绝对行高，实际 kind=%d", abs.Kind)
	}
	if got := abs.Resolve(fontSize, UnitPT); got != 14 {
		t.Fatalf("14pt 行高解析错误: got=%g", got)
	}

	for _, bad := range []string{"0x", "0", "tall"} {
		if _, err := ParseLineHeight(bad); err == nil {
			t.Fatalf("ParseLineHeight(%q) 应返回错误", bad)
		}
	}
}
