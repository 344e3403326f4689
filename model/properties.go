package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/graphquery/helper"
)

// Properties represents the JSONB property mapping of a graph record
type Properties map[string]Value

// Value implements the driver.Valuer interface for database storage
func (p Properties) Value() (driver.Value, error) {
	return p.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (p *Properties) Scan(value interface{}) error {
	return p.Unmarshal(value)
}

// Marshal converts Properties to JSON bytes
func (p Properties) Marshal() ([]byte, error) {
	return json.Marshal(ObjectValue(p))
}

// Unmarshal converts JSON bytes or Properties to Properties
func (p *Properties) Unmarshal(value interface{}) error {
	if value == nil {
		*p = Properties{}
		return nil
	}

	if s, ok := value.(Properties); ok {
		*p = s
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	var v Value
	if err := json.Unmarshal(b, &v); err != nil {
		return helper.NewError("unmarshal properties", err)
	}

	obj, ok := v.Object()
	if !ok {
		return helper.NewError("unmarshal properties", errors.New("properties must be a JSON object"))
	}

	*p = obj
	return nil
}

// StringField returns the property with the given key if it is a non-empty string
func (p Properties) StringField(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.String()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
