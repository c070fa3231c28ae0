package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentType is the caller-supplied tender label of a receipt
type PaymentType string

const (
	PaymentTypeCash PaymentType = "CASH"
	PaymentTypeCard PaymentType = "CARD"
)

func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether p is one of the known payment types
func (p PaymentType) IsValid() bool {
	return p == PaymentTypeCash || p == PaymentTypeCard
}

// SlipLabel returns the wording printed on a pickup slip
func (p PaymentType) SlipLabel() string {
	if p == PaymentTypeCash {
		return "BAR"
	}
	return "KARTE"
}

func (p *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*p = PaymentType(str)
	return nil
}

func (p PaymentType) Value() (driver.Value, error) {
	return string(p), nil
}

func (p *PaymentType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*p = PaymentType(v)
	case []byte:
		*p = PaymentType(v)
	case nil:
		*p = ""
	default:
		return fmt.Errorf("enum: cannot scan %T into PaymentType", value)
	}
	return nil
}
