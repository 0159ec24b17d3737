package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BillStatus represents where a bill sits in its lifecycle. Membership in the
// queue or the archive is the authoritative signal; the status field mirrors it
// so transitions can be tested independently of list partitioning.
type BillStatus int

const (
	BillStatusQueued   BillStatus = 0
	BillStatusArchived BillStatus = 1
)

func (s BillStatus) String() string {
	names := [...]string{"Queued", "Archived"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Queued"
	}
	return names[s]
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BillStatus(i)
		return nil
	}
	switch str {
	case "Queued":
		*s = BillStatusQueued
	case "Archived":
		*s = BillStatusArchived
	}
	return nil
}

func (s BillStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillStatusQueued
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BillStatus(v)
	case int:
		*s = BillStatus(v)
	}
	return nil
}
