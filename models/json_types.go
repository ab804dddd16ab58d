package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList is stored as a JSONB array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Compatibility describes which editors, assistants and frameworks a rule
// targets. Stored as a JSONB object with a fixed shape.
type Compatibility struct {
	IDEs         []string `json:"ides"`
	AIAssistants []string `json:"ai_assistants"`
	Frameworks   []string `json:"frameworks"`
}

func (c Compatibility) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Compatibility) Scan(value interface{}) error {
	if value == nil {
		*c = Compatibility{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("unsupported type for Compatibility")
	}
}
