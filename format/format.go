package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format 输出格式，由请求路径后缀决定
type Format string

const (
	JSON Format = "json"
	XML  Format = "xml"
	RSS  Format = "rss"
	Atom Format = "atom"
)

// ParseFormat 解析路径后缀，未知后缀按 JSON 处理
func ParseFormat(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "xml":
		return XML
	case "rss":
		return RSS
	case "atom":
		return Atom
	default:
		return JSON
	}
}

// SplitExtension 拆分路径与格式后缀，例如 "statuses/show/12.json"
func SplitExtension(path string) (string, Format, bool) {
	slash := strings.LastIndex(path, "/")
	dot := strings.LastIndex(path, ".")
	if dot <= slash {
		return path, JSON, false
	}

	switch ext := strings.ToLower(path[dot+1:]); ext {
	case "json", "xml", "rss", "atom":
		return path[:dot], Format(ext), true
	default:
		return path, JSON, false
	}
}

// ContentType 响应的 Content-Type
func (f Format) ContentType() string {
	switch f {
	case XML:
		return "text/xml"
	case RSS:
		return "application/rss+xml"
	case Atom:
		return "application/atom+xml"
	default:
		return "application/json"
	}
}

// Document 待渲染的响应
// XML 输出为 <Root> 包裹 {Key: Value}；JSON 只输出 Value，Envelope 为 true 时输出 {Key: Value}
type Document struct {
	Root     string
	Key      string
	Value    any
	Envelope bool
}

// feedPreamble RSS/Atom 在 XML 声明前额外输出的声明行
const feedPreamble = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Render 按格式序列化响应，返回内容与 Content-Type
func Render(f Format, doc Document) ([]byte, string, error) {
	switch f {
	case XML:
		out, err := renderXML(doc)
		return out, f.ContentType(), err
	case RSS, Atom:
		out, err := renderXML(doc)
		if err != nil {
			return nil, "", err
		}
		return append([]byte(feedPreamble), out...), f.ContentType(), nil
	default:
		out, err := renderJSON(doc)
		return out, JSON.ContentType(), err
	}
}

func renderJSON(doc Document) ([]byte, error) {
	var value any = doc.Value
	if doc.Envelope {
		value = map[string]any{doc.Key: doc.Value}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DateLayout 旧版 API 的时间格式，例如 "Tue Jan 02 03:04:05 +0000 2024"
const DateLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Date 按旧版 API 格式输出 UTC 时间
func Date(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
