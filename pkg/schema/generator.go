// Package schema derives JSON Schema documents from Go types.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSONSchema is the subset of JSON Schema the generator emits.
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	AdditionalProperties *JSONSchema            `json:"additionalProperties,omitempty"`
	Enum                 []any                  `json:"enum,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	MinItems             *int                   `json:"minItems,omitempty"`
	Minimum              *float64               `json:"minimum,omitempty"`
}

const schemaRef = "https://json-schema.org/draft/2020-12/schema"

var rawMessageType = reflect.TypeOf(json.RawMessage(nil))

type Generator struct {
	tagKey  string
	idBase  string
	visited map[reflect.Type]bool
}

type Option func(*Generator)

// WithTagKey selects the struct tag that names properties, "json" by default.
// Rule files use "yaml".
func WithTagKey(key string) Option {
	return func(g *Generator) {
		g.tagKey = key
	}
}

// WithIDBase sets the prefix of the root $id.
func WithIDBase(base string) Option {
	return func(g *Generator) {
		g.idBase = strings.TrimSuffix(base, "/")
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{tagKey: "json"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the schema of t with root metadata set.
func (g *Generator) Generate(t reflect.Type) (*JSONSchema, error) {
	g.visited = make(map[reflect.Type]bool)

	s, err := g.forType(t)
	if err != nil {
		return nil, err
	}

	s.Schema = schemaRef
	name := indirect(t).Name()
	s.Title = name
	if g.idBase != "" && name != "" {
		s.ID = fmt.Sprintf("%s/%s", g.idBase, strings.ToLower(name))
	}
	return s, nil
}

// GenerateJSON renders the schema of v's type as indented JSON.
func (g *Generator) GenerateJSON(v any) ([]byte, error) {
	s, err := g.Generate(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return out, nil
}

// Map returns s as a generic JSON value, the form model SDKs accept for
// structured output.
func (s *JSONSchema) Map() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Generator) forType(t reflect.Type) (*JSONSchema, error) {
	t = indirect(t)

	if t == rawMessageType {
		// Any JSON value.
		return &JSONSchema{}, nil
	}

	switch t.Kind() {
	case reflect.Struct:
		if g.visited[t] {
			return nil, fmt.Errorf("recursive type %s is not supported", t)
		}
		g.visited[t] = true
		defer delete(g.visited, t)
		return g.forStruct(t)
	case reflect.Slice, reflect.Array:
		items, err := g.forType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for array items: %w", err)
		}
		return &JSONSchema{Type: "array", Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key type %s is not supported", t.Key())
		}
		values, err := g.forType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for map values: %w", err)
		}
		return &JSONSchema{Type: "object", AdditionalProperties: values}, nil
	case reflect.String:
		return &JSONSchema{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}, nil
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}, nil
	case reflect.Interface:
		return &JSONSchema{}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}
}

func (g *Generator) forStruct(t reflect.Type) (*JSONSchema, error) {
	s := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		embeddedStruct := field.Anonymous && indirect(field.Type).Kind() == reflect.Struct
		if !field.IsExported() && !embeddedStruct {
			continue
		}

		name, inline := g.fieldName(field)
		if name == "-" {
			continue
		}

		fs, err := g.forType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for field %s: %w", field.Name, err)
		}

		if inline {
			for k, v := range fs.Properties {
				s.Properties[k] = v
			}
			s.Required = append(s.Required, fs.Required...)
			continue
		}

		if desc := field.Tag.Get("description"); desc != "" {
			fs.Description = desc
		}
		required := applySchemaTag(field.Tag.Get("schema"), fs)
		s.Properties[name] = fs
		if required {
			s.Required = append(s.Required, name)
		}
	}

	return s, nil
}

// fieldName resolves the property name from the configured tag. Embedded
// structs without a name are inlined, as encoding/json and yaml ",inline" do.
func (g *Generator) fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get(g.tagKey)
	name, opts, _ := strings.Cut(tag, ",")
	if name == "-" && opts == "" {
		return "-", false
	}

	if field.Anonymous && name == "" && indirect(field.Type).Kind() == reflect.Struct {
		return "", true
	}
	if strings.Contains(opts, "inline") {
		return "", true
	}
	if name == "" {
		name = strings.ToLower(field.Name[:1]) + field.Name[1:]
	}
	return name, false
}

// applySchemaTag reads `schema:"required,enum=a|b,minItems=1,minimum=0,pattern=..."`
// and reports whether the field is required.
func applySchemaTag(tag string, s *JSONSchema) bool {
	required := false
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		key, value, _ := strings.Cut(part, "=")

		switch key {
		case "required":
			required = true
		case "enum":
			for _, e := range strings.Split(value, "|") {
				s.Enum = append(s.Enum, e)
			}
		case "pattern":
			s.Pattern = value
		case "minItems":
			if n, err := strconv.Atoi(value); err == nil {
				s.MinItems = &n
			}
		case "minimum":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Minimum = &f
			}
		}
	}
	return required
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
