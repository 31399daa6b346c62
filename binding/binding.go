// Package binding 负责模板占位符的解析与替换，例如表格标签 "Line ${index}"。
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

// ${name} 或 ${name:%verb}，后者按 fmt 动词格式化。
var exprPattern = regexp.MustCompile(`\$\{([^}:]+)(?::(%[^}]+))?\}`)

// Interpolate 将文本中的 ${name} 替换为 data 中的值。
// 名称不存在时保留原占位符。
func Interpolate(text string, data map[string]any) string {
	if len(data) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		val, ok := data[strings.TrimSpace(groups[1])]
		if !ok {
			return match
		}
		if verb := groups[2]; verb != "" {
			return fmt.Sprintf(verb, val)
		}
		return fmt.Sprint(val)
	})
}

// Placeholders 返回模板中出现的名称，按出现顺序去重。
func Placeholders(text string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
