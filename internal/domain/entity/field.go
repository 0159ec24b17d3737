package entity

import "strings"

// Field is one free-form attribute of a catalog entity. Labels are not a fixed
// schema: what a field means (name, phone, rate, unit) is decided at read time
// by label matching, never by position or a schema contract.
type Field struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Entity is a customer or a stock item: an id plus an ordered bag of fields.
// Mutation is always full field-list replacement.
type Entity struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

// FindField returns the value of the first field whose label contains any of
// the given terms, case-insensitively. This is the single matching rule for
// all best-effort semantic lookups; callers must not re-implement it.
func FindField(fields []Field, terms ...string) (string, bool) {
	for _, f := range fields {
		label := strings.ToLower(f.Label)
		for _, term := range terms {
			if strings.Contains(label, strings.ToLower(term)) {
				return f.Value, true
			}
		}
	}
	return "", false
}

// Name returns the best-effort display name of the entity. Falls back to the
// first field value, then the id, so an entity always renders as something.
func (e Entity) Name() string {
	if v, ok := FindField(e.Fields, "name"); ok && v != "" {
		return v
	}
	if len(e.Fields) > 0 && e.Fields[0].Value != "" {
		return e.Fields[0].Value
	}
	return e.ID
}

// Phone returns the best-effort phone field value.
func (e Entity) Phone() string {
	v, _ := FindField(e.Fields, "phone", "mobile", "contact")
	return v
}

// Rate returns the best-effort price field value as entered (a free-form
// decimal string, possibly empty).
func (e Entity) Rate() string {
	v, _ := FindField(e.Fields, "rate", "price")
	return v
}

// Unit returns the best-effort unit-of-measure field value.
func (e Entity) Unit() string {
	v, _ := FindField(e.Fields, "unit")
	return v
}

// FieldByID returns the field with the given id, if present. Field ids are
// unique within one entity.
func (e Entity) FieldByID(id string) (Field, bool) {
	for _, f := range e.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// CloneFields returns a copy of the field list so callers can hand it to the
// reducer without sharing backing arrays with request-scoped data.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}
