package format

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

type nodeKind int

const (
	nullNode nodeKind = iota
	scalarNode
	objectNode
	listNode
)

// node 有序的中间结构：结构体字段按声明顺序，map 按 key 排序
type node struct {
	kind   nodeKind
	text   string
	fields []field
	items  []*node
}

type field struct {
	key   string
	value *node
}

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func toNode(v any) (*node, error) {
	return valueNode(reflect.ValueOf(v))
}

func valueNode(v reflect.Value) (*node, error) {
	if !v.IsValid() {
		return &node{kind: nullNode}, nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return &node{kind: nullNode}, nil
		}
	}

	if n, ok, err := marshalerNode(v); ok {
		return n, err
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return valueNode(v.Elem())
	case reflect.Bool:
		return scalar(strconv.FormatBool(v.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar(strconv.FormatInt(v.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scalar(strconv.FormatUint(v.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return scalar(strconv.FormatFloat(v.Float(), 'f', -1, 64)), nil
	case reflect.String:
		return scalar(v.String()), nil
	case reflect.Slice:
		if v.IsNil() {
			return &node{kind: listNode}, nil
		}
		return listValue(v)
	case reflect.Array:
		return listValue(v)
	case reflect.Map:
		return mapValue(v)
	case reflect.Struct:
		n := &node{kind: objectNode}
		if err := structFields(v, n); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type())
	}
}

func scalar(text string) *node {
	return &node{kind: scalarNode, text: text}
}

// marshalerNode 实现了 json.Marshaler / encoding.TextMarshaler 的类型按其 JSON 结果处理
func marshalerNode(v reflect.Value) (*node, bool, error) {
	t := v.Type()
	switch {
	case t.Implements(jsonMarshalerType):
		raw, err := v.Interface().(json.Marshaler).MarshalJSON()
		if err != nil {
			return nil, true, err
		}
		var generic any
		dec := json.NewDecoder(strings.NewReader(string(raw)))
		dec.UseNumber()
		if err := dec.Decode(&generic); err != nil {
			return nil, true, err
		}
		n, err := valueNode(reflect.ValueOf(generic))
		return n, true, err
	case t.Implements(textMarshalerType):
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, true, err
		}
		return scalar(string(text)), true, nil
	}
	return nil, false, nil
}

func listValue(v reflect.Value) (*node, error) {
	n := &node{kind: listNode, items: make([]*node, 0, v.Len())}
	for i := 0; i < v.Len(); i++ {
		item, err := valueNode(v.Index(i))
		if err != nil {
			return nil, err
		}
		n.items = append(n.items, item)
	}
	return n, nil
}

func mapValue(v reflect.Value) (*node, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("unsupported map key type %s", v.Type().Key())
	}

	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	n := &node{kind: objectNode, fields: make([]field, 0, len(keys))}
	for _, k := range keys {
		child, err := valueNode(v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())))
		if err != nil {
			return nil, err
		}
		n.fields = append(n.fields, field{key: k, value: child})
	}
	return n, nil
}

// structFields 按 json tag 展开结构体字段，匿名嵌入字段平铺到父级
func structFields(v reflect.Value, n *node) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)

		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}

		if sf.Anonymous && name == "" {
			embedded := fv
			if embedded.Kind() == reflect.Pointer {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if err := structFields(embedded, n); err != nil {
					return err
				}
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if strings.Contains(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}

		child, err := valueNode(fv)
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
		n.fields = append(n.fields, field{key: name, value: child})
	}
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
