package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// YesNo is a bool persisted as the legacy "sim"/"nao" TEXT values.
type YesNo bool

func (y YesNo) Value() (driver.Value, error) {
	if y {
		return "sim", nil
	}
	return "nao", nil
}

func (y *YesNo) Scan(value interface{}) error {
	if value == nil {
		*y = false
		return nil
	}
	switch v := value.(type) {
	case string:
		*y = YesNo(v == "sim")
		return nil
	case []byte:
		*y = YesNo(string(v) == "sim")
		return nil
	case bool:
		*y = YesNo(v)
		return nil
	case int64:
		*y = v != 0
		return nil
	default:
		return fmt.Errorf("yesno scan: unsupported type %T", value)
	}
}

func (YesNo) GormDataType() string { return "text" }

// ParseYesNo interprets a submitted form value. The legacy forms post "sim",
// HTML checkboxes post "on"; everything else is treated as no.
func ParseYesNo(s string) YesNo {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "on", "1", "true", "yes":
		return true
	}
	return false
}
