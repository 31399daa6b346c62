package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 版面统一使用 pt；渲染器在自己的边界上换算（canvas 用 mm）。

// Unit 记录长度的书写单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，按 pt 处理
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 的换算系数。
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// Length 保留数值和原始单位，换算推迟到使用处。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// To converts the length to target; only UnitMM and UnitPT are meaningful targets.
func (l Length) To(target Unit) float64 {
	pt := l.Value
	switch l.Unit {
	case UnitMM:
		pt = l.Value * MmToPt
	case UnitCM:
		pt = l.Value * 10 * MmToPt
	case UnitIN:
		pt = l.Value * 72
	}
	if target == UnitMM {
		return pt * PtToMm
	}
	return pt
}

func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseLength parses "72", "72pt", "25.4mm", "2cm" or "1in". Empty input is zero.
func ParseLength(value string) (Length, error) {
	num := strings.ToLower(strings.TrimSpace(value))
	if num == "" {
		return Length{}, nil
	}
	unit := UnitNone
	for _, s := range unitSuffixes {
		if strings.HasSuffix(num, s.suffix) {
			unit = s.unit
			num = strings.TrimSpace(strings.TrimSuffix(num, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无效的长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负数：%q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind 区分倍数行高和绝对行高。
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec is either a factor of the font size ("1.116x") or a length ("14pt").
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight parses a LineHeightSpec.
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if factor, ok := strings.CutSuffix(v, "x"); ok {
		f, err := strconv.ParseFloat(factor, 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, fmt.Errorf("无效的行高倍数 %q", value)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	if l.Value == 0 {
		return LineHeightSpec{}, fmt.Errorf("行高必须为正数：%q", value)
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Resolve 按字号计算绝对行高。
func (s LineHeightSpec) Resolve(fontSize Length, target Unit) float64 {
	if s.Kind == LineHeightFactor {
		return fontSize.To(target) * s.Factor
	}
	return s.Len.To(target)
}
