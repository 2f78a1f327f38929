package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CharBool is a nullable boolean stored as a CHAR(1) column holding 'T',
// 'F', or NULL. Legacy course data uses this encoding throughout, so the
// translation happens here at the storage boundary and nowhere else.
type CharBool struct {
	Bool  bool
	Valid bool
}

// TrueChar returns a non-null CharBool holding b.
func TrueChar(b bool) CharBool {
	return CharBool{Bool: b, Valid: true}
}

func (c CharBool) Value() (driver.Value, error) {
	if !c.Valid {
		return nil, nil
	}
	if c.Bool {
		return "T", nil
	}
	return "F", nil
}

func (c *CharBool) Scan(value interface{}) error {
	if value == nil {
		*c = CharBool{}
		return nil
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("charbool: cannot scan %T", value)
	}

	switch s {
	case "T":
		*c = CharBool{Bool: true, Valid: true}
	case "F":
		*c = CharBool{Bool: false, Valid: true}
	case "":
		*c = CharBool{}
	default:
		return fmt.Errorf("charbool: invalid stored value %q", s)
	}
	return nil
}

func (CharBool) GormDataType() string {
	return "char(1)"
}

func (c CharBool) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Bool)
}

func (c *CharBool) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = CharBool{}
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*c = CharBool{Bool: b, Valid: true}
	return nil
}
