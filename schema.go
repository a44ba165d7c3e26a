package fexpr

import "time"

// Extractor pulls a typed, possibly-absent value out of a target record.
// Absence (the second return false) is encoded by the caller; the field
// wrapper below turns it into a Null Value.
type Extractor[T any, V any] func(T) (V, bool)

// Field pairs a Type tag with the callable that extracts it from a target.
// The extractor always returns either a Value of Field.Kind, or Null.
type Field[T any] struct {
	Kind      Type
	extractor func(T) Value
}

func (f Field[T]) extract(target T) Value {
	return f.extractor(target)
}

// Schema is an immutable, flattened field-path -> Field map for a target
// record type T. Build one with NewSchemaBuilder.
type Schema[T any] struct {
	fields map[string]Field[T]
}

// Get looks up a field by its (possibly colon-joined) path.
func (s *Schema[T]) Get(path string) (Field[T], bool) {
	f, ok := s.fields[path]
	return f, ok
}

// SchemaBuilder accumulates named fields for a target type T. A builder is
// not safe for concurrent use; the Schema it Builds is immutable and safe
// to share.
type SchemaBuilder[T any] struct {
	fields map[string]Field[T]
}

// NewSchemaBuilder starts an empty builder for target type T.
func NewSchemaBuilder[T any]() *SchemaBuilder[T] {
	return &SchemaBuilder[T]{fields: make(map[string]Field[T])}
}

func registerField[T any](b *SchemaBuilder[T], name string, kind Type, wrapped func(T) Value) *SchemaBuilder[T] {
	b.fields[name] = Field[T]{Kind: kind, extractor: wrapped}
	return b
}

// WithStringField registers a String-typed field.
func (b *SchemaBuilder[T]) WithStringField(name string, extract Extractor[T, string]) *SchemaBuilder[T] {
	return registerField(b, name, TypeString, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewString(v)
		}
		return Null
	})
}

// WithNumberField registers a Number-typed field.
func (b *SchemaBuilder[T]) WithNumberField(name string, extract Extractor[T, float64]) *SchemaBuilder[T] {
	return registerField(b, name, TypeNumber, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewNumber(v)
		}
		return Null
	})
}

// WithBooleanField registers a Boolean-typed field.
func (b *SchemaBuilder[T]) WithBooleanField(name string, extract Extractor[T, bool]) *SchemaBuilder[T] {
	return registerField(b, name, TypeBoolean, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewBoolean(v)
		}
		return Null
	})
}

// WithRawField registers a Raw (byte sequence) typed field.
func (b *SchemaBuilder[T]) WithRawField(name string, extract Extractor[T, []byte]) *SchemaBuilder[T] {
	return registerField(b, name, TypeRaw, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewRaw(v)
		}
		return Null
	})
}

// WithDateTimeField registers a DateTime-typed field.
func (b *SchemaBuilder[T]) WithDateTimeField(name string, extract Extractor[T, time.Time]) *SchemaBuilder[T] {
	return registerField(b, name, TypeDateTime, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewDateTime(v)
		}
		return Null
	})
}

// WithStringListField registers a StringList-typed field.
func (b *SchemaBuilder[T]) WithStringListField(name string, extract Extractor[T, []string]) *SchemaBuilder[T] {
	return registerField(b, name, TypeStringList, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewStringList(v)
		}
		return Null
	})
}

// WithNumberListField registers a NumberList-typed field.
func (b *SchemaBuilder[T]) WithNumberListField(name string, extract Extractor[T, []float64]) *SchemaBuilder[T] {
	return registerField(b, name, TypeNumberList, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewNumberList(v)
		}
		return Null
	})
}

// WithBooleanListField registers a BooleanList-typed field.
func (b *SchemaBuilder[T]) WithBooleanListField(name string, extract Extractor[T, []bool]) *SchemaBuilder[T] {
	return registerField(b, name, TypeBooleanList, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewBooleanList(v)
		}
		return Null
	})
}

// WithRawListField registers a RawList-typed field.
func (b *SchemaBuilder[T]) WithRawListField(name string, extract Extractor[T, [][]byte]) *SchemaBuilder[T] {
	return registerField(b, name, TypeRawList, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewRawList(v)
		}
		return Null
	})
}

// WithDateTimeListField registers a DateTimeList-typed field.
func (b *SchemaBuilder[T]) WithDateTimeListField(name string, extract Extractor[T, []time.Time]) *SchemaBuilder[T] {
	return registerField(b, name, TypeDateTimeList, func(t T) Value {
		if v, ok := extract(t); ok {
			return NewDateTimeList(v)
		}
		return Null
	})
}

// WithSubField flattens every field of a nested Schema[U] into this
// builder under the "name:" prefix. parent resolves the sub-record from
// the outer target; if it reports absence, every flattened field
// short-circuits to Null without invoking the child extractor, per spec §3.
func WithSubField[T, U any](b *SchemaBuilder[T], name string, sub *Schema[U], parent Extractor[T, U]) *SchemaBuilder[T] {
	for childPath, childField := range sub.fields {
		flatPath := name + ":" + childPath
		cf := childField
		b.fields[flatPath] = Field[T]{
			Kind: cf.Kind,
			extractor: func(t T) Value {
				u, ok := parent(t)
				if !ok {
					return Null
				}
				return cf.extract(u)
			},
		}
	}
	return b
}

// Build freezes the accumulated fields into an immutable Schema.
func (b *SchemaBuilder[T]) Build() *Schema[T] {
	frozen := make(map[string]Field[T], len(b.fields))
	for k, v := range b.fields {
		frozen[k] = v
	}
	return &Schema[T]{fields: frozen}
}
