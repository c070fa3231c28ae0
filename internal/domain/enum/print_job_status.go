package enum

import (
	"database/sql/driver"
	"fmt"
)

// PrintJobStatus represents the lifecycle state of a print job
type PrintJobStatus string

const (
	PrintJobStatusPending PrintJobStatus = "PENDING"
	PrintJobStatusPrinted PrintJobStatus = "PRINTED"
	PrintJobStatusFailed  PrintJobStatus = "FAILED"
)

func (s PrintJobStatus) String() string {
	return string(s)
}

// IsOpen reports whether the job still needs operator attention
func (s PrintJobStatus) IsOpen() bool {
	return s != PrintJobStatusPrinted
}

func (s PrintJobStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *PrintJobStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = PrintJobStatus(v)
	case []byte:
		*s = PrintJobStatus(v)
	case nil:
		*s = PrintJobStatusPending
	default:
		return fmt.Errorf("enum: cannot scan %T into PrintJobStatus", value)
	}
	return nil
}
