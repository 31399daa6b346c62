package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// 内置字体名称。
const (
	Serif = "serif"
	Sans  = "sans"
	Mono  = "mono"
)

var builtin = map[string][]byte{
	Serif: lmroman10regular.TTF,
	Sans:  lmsans10regular.TTF,
	Mono:  lmmono10regular.TTF,
}

// Names 返回全部内置字体名称。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin 判断 name 是否指向内置字体，可写为 "serif" 或 "embed:serif"。
func IsBuiltin(name string) bool {
	_, ok := builtin[normalize(name)]
	return ok
}

// Load 返回内置字体的字节数据。
func Load(name string) ([]byte, error) {
	data, ok := builtin[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %q，可选: %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// LoadFile 读取字体文件；内置名称优先。
func LoadFile(src string) ([]byte, error) {
	if IsBuiltin(src) {
		return Load(src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", src, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("字体文件 %s 为空", src)
	}
	return data, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "embed:"))
}
