package renderer

import "github.com/gettalong/pdfbench/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 是可参与基准测试的 PDF 库：既负责折行测量，也负责最终渲染。
// 同一实例只服务一次调用，不保证并发安全。
type Backend interface {
	Renderer
	layout.Typesetter
	Name() string
}
