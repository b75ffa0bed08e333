package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the Schema.
// Deterministic ordering: type names sorted lexicographically, fields and
// enum values in declaration order.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	renderSchemaDefinition(&b, s)

	for _, typ := range s.Types() {
		if IsBuiltin(typ) {
			continue
		}
		switch typ.Kind() {
		case TypeKindScalar:
			renderScalar(&b, typ)
		case TypeKindEnum:
			renderEnum(&b, typ)
		case TypeKindObject:
			renderComposite(&b, "type", typ)
		case TypeKindInterface:
			renderComposite(&b, "interface", typ)
		case TypeKindUnion:
			renderUnion(&b, typ)
		}
	}

	out := strings.TrimRight(b.String(), "\n") + "\n"
	return out
}

// ----- render helpers -----

func renderSchemaDefinition(b *strings.Builder, s *Schema) {
	if s.Query().Name() == "Query" && (s.Mutation() == nil || s.Mutation().Name() == "Mutation") {
		return
	}
	b.WriteString("schema {\n  query: ")
	b.WriteString(s.Query().Name())
	b.WriteString("\n")
	if m := s.Mutation(); m != nil {
		b.WriteString("  mutation: ")
		b.WriteString(m.Name())
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderDescription(b *strings.Builder, desc string, indent string) {
	if desc == "" {
		return
	}
	b.WriteString(indent)
	b.WriteString("\"\"\"\n")
	// Escape quotes in description
	escaped := strings.ReplaceAll(desc, "\"", "\\\"")
	for _, line := range strings.Split(escaped, "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString("\"\"\"\n")
}

func renderDeprecation(b *strings.Builder, reason string) {
	if reason == "" {
		return
	}
	b.WriteString(" @deprecated(reason: ")
	b.WriteString(strconv.Quote(reason))
	b.WriteString(")")
}

func renderScalar(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("scalar ")
	b.WriteString(typ.Name())
	b.WriteString("\n\n")
}

func renderEnum(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("enum ")
	b.WriteString(typ.Name())
	b.WriteString(" {\n")
	for _, val := range typ.EnumValues() {
		renderDescription(b, val.Description(), "  ")
		b.WriteString("  ")
		b.WriteString(val.Name())
		renderDeprecation(b, val.DeprecationReason())
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderComposite(b *strings.Builder, keyword string, typ *Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString(keyword)
	b.WriteString(" ")
	b.WriteString(typ.Name())
	if ifaces := typ.Interfaces(); len(ifaces) > 0 {
		names := make([]string, len(ifaces))
		for i, iface := range ifaces {
			names[i] = iface.Name()
		}
		sort.Strings(names)
		b.WriteString(" implements ")
		b.WriteString(strings.Join(names, " & "))
	}
	b.WriteString(" {\n")
	for _, field := range typ.Fields() {
		renderField(b, field)
	}
	b.WriteString("}\n\n")
}

func renderUnion(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("union ")
	b.WriteString(typ.Name())
	b.WriteString(" = ")
	for i, possibleType := range typ.UnionTypes() {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(possibleType.Name())
	}
	b.WriteString("\n\n")
}

func renderField(b *strings.Builder, field *Field) {
	renderDescription(b, field.Description(), "  ")
	b.WriteString("  ")
	b.WriteString(field.Name())
	if args := field.Args(); len(args) > 0 {
		b.WriteString("(")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name())
			b.WriteString(": ")
			b.WriteString(arg.Type().String())
			if arg.DefaultValue() != nil {
				b.WriteString(" = ")
				b.WriteString(renderValue(arg.DefaultValue()))
			}
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(field.Type().String())
	renderDeprecation(b, field.DeprecationReason())
	b.WriteString("\n")
}

// renderValue renders a default value literal.
func renderValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		var parts []string
		for _, item := range v {
			parts = append(parts, renderValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
