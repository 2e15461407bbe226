package excel

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format 工作簿文件格式
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX           // Office Open XML（zip 容器）
	FormatXLS            // 旧版二进制格式（OLE2 容器）
)

func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	default:
		return "unknown"
	}
}

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	errUnsupportedFormat = errors.New("不支持的文件格式")
)

// DetectFormat 根据文件头判断格式，扩展名只在内容无法判断时参考
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, len(ole2Magic))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, err
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(head, ole2Magic):
		return FormatXLS, nil
	}

	if n == 0 {
		return FormatUnknown, errors.New("文件为空")
	}
	ext := strings.ToLower(filepath.Ext(path))
	return FormatUnknown, errors.Join(errUnsupportedFormat, errors.New("扩展名 "+ext+" 与文件内容不符"))
}
