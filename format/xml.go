package format

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const xmlDeclaration = `<?xml version="1.0"?>` + "\n"

// 根元素上固定声明的命名空间，顺序即输出顺序
var namespaces = []struct{ prefix, uri string }{
	{"", "http://api.twitter.com"},
	{"statusnet", "http://status.net/schema/api/1/"},
	{"friendica", "http://friendi.ca/schema/api/1/"},
	{"georss", "http://www.georss.org/georss"},
}

// 这些根元素不带命名空间，厂商前缀会被去掉
var bareRoots = map[string]bool{
	"ok":      true,
	"hash":    true,
	"config":  true,
	"version": true,
	"ids":     true,
	"notes":   true,
	"photos":  true,
}

// 需要改写为 prefix:rest 的厂商前缀
var vendorPrefixes = []string{"statusnet", "friendica"}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r", "&#13;",
)

func renderXML(doc Document) ([]byte, error) {
	value, err := toNode(doc.Value)
	if err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}

	bare := bareRoots[doc.Root]
	value = renameKeys(value, bare)

	var attrs strings.Builder
	if !bare {
		for _, ns := range namespaces {
			if ns.prefix == "" {
				fmt.Fprintf(&attrs, ` xmlns="%s"`, ns.uri)
			} else {
				fmt.Fprintf(&attrs, ` xmlns:%s="%s"`, ns.prefix, ns.uri)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)

	switch value.kind {
	case nullNode:
		fmt.Fprintf(&buf, "<%s%s/>\n", doc.Root, attrs.String())
	case scalarNode:
		writeText(&buf, doc.Root+attrs.String(), doc.Root, value.text)
		buf.WriteByte('\n')
	default:
		var children bytes.Buffer
		if value.kind == listNode {
			writeList(&children, 1, singular(doc.Key), value)
		} else {
			writeFields(&children, 1, value)
		}
		if children.Len() == 0 {
			fmt.Fprintf(&buf, "<%s%s/>\n", doc.Root, attrs.String())
		} else {
			fmt.Fprintf(&buf, "<%s%s>\n", doc.Root, attrs.String())
			buf.Write(children.Bytes())
			fmt.Fprintf(&buf, "</%s>\n", doc.Root)
		}
	}

	return buf.Bytes(), nil
}

func writeFields(buf *bytes.Buffer, depth int, n *node) {
	for _, f := range n.fields {
		writeElement(buf, depth, f.key, f.value)
	}
}

// writeList 列表展开为同名的兄弟元素
func writeList(buf *bytes.Buffer, depth int, name string, n *node) {
	for _, item := range n.items {
		writeElement(buf, depth, name, item)
	}
}

func writeElement(buf *bytes.Buffer, depth int, name string, n *node) {
	indent := strings.Repeat("  ", depth)

	switch n.kind {
	case nullNode:
		fmt.Fprintf(buf, "%s<%s/>\n", indent, name)
	case scalarNode:
		buf.WriteString(indent)
		writeText(buf, name, name, n.text)
		buf.WriteByte('\n')
	case listNode:
		writeList(buf, depth, singular(name), n)
	case objectNode:
		var children bytes.Buffer
		writeFields(&children, depth+1, n)
		if children.Len() == 0 {
			fmt.Fprintf(buf, "%s<%s/>\n", indent, name)
			return
		}
		fmt.Fprintf(buf, "%s<%s>\n", indent, name)
		buf.Write(children.Bytes())
		fmt.Fprintf(buf, "%s</%s>\n", indent, name)
	}
}

// writeText 空文本输出为自闭合标签
func writeText(buf *bytes.Buffer, open, name, text string) {
	if text == "" {
		fmt.Fprintf(buf, "<%s/>", open)
		return
	}
	fmt.Fprintf(buf, "<%s>%s</%s>", open, textEscaper.Replace(xmlChars(text)), name)
}

// xmlChars 把 XML 1.0 不允许的字符与非法 UTF-8 替换为 U+FFFD
func xmlChars(text string) string {
	clean := true
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if (r == utf8.RuneError && size == 1) || !isXMLChar(r) {
			clean = false
			break
		}
		i += size
	}
	if clean {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if (r == utf8.RuneError && size == 1) || !isXMLChar(r) {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	return b.String()
}

// isXMLChar XML 1.0 的 Char 产生式
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// renameKeys 把 statusnet_x / friendica_x 改写为 statusnet:x / friendica:x；
// 根元素不带命名空间时直接去掉前缀
func renameKeys(n *node, bare bool) *node {
	switch n.kind {
	case objectNode:
		for i := range n.fields {
			n.fields[i].key = vendorKey(n.fields[i].key, bare)
			n.fields[i].value = renameKeys(n.fields[i].value, bare)
		}
	case listNode:
		for i := range n.items {
			n.items[i] = renameKeys(n.items[i], bare)
		}
	}
	return n
}

func vendorKey(key string, bare bool) string {
	for _, prefix := range vendorPrefixes {
		rest, ok := strings.CutPrefix(key, prefix+"_")
		if !ok || rest == "" {
			continue
		}
		if bare {
			return rest
		}
		return prefix + ":" + rest
	}
	return key
}

// singular 列表元素名：statuses -> status, ids -> id, direct_messages -> direct_message
func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies"):
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "uses"), strings.HasSuffix(name, "sses"), strings.HasSuffix(name, "xes"):
		return strings.TrimSuffix(name, "es")
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") && !strings.HasSuffix(name, "us"):
		return strings.TrimSuffix(name, "s")
	}
	return name
}
