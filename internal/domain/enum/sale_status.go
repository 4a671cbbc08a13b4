package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the status of a recorded transaction
type SaleStatus int

const (
	SaleStatusCompleted SaleStatus = 0
	SaleStatusPending   SaleStatus = 1
	SaleStatusCancelled SaleStatus = 2
)

var saleStatusLabels = []string{"Completed", "Pending", "Cancelled"}

func (s SaleStatus) String() string { return label(saleStatusLabels, int(s)) }

func (s SaleStatus) IsValid() bool { return s >= SaleStatusCompleted && s <= SaleStatusCancelled }

// ParseSaleStatus converts a label such as "Cancelled" into a SaleStatus.
func ParseSaleStatus(s string) (SaleStatus, bool) {
	i, ok := parse(saleStatusLabels, s)
	return SaleStatus(i), ok
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	i, err := decode(saleStatusLabels, data)
	if err != nil {
		return err
	}
	*s = SaleStatus(i)
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusCompleted
		return nil
	}
	*s = SaleStatus(scan(value))
	return nil
}

// SaleType distinguishes sales from refunds
type SaleType int

const (
	SaleTypeSale   SaleType = 0
	SaleTypeRefund SaleType = 1
)

var saleTypeLabels = []string{"Sale", "Refund"}

func (t SaleType) String() string { return label(saleTypeLabels, int(t)) }

func (t SaleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *SaleType) UnmarshalJSON(data []byte) error {
	i, err := decode(saleTypeLabels, data)
	if err != nil {
		return err
	}
	*t = SaleType(i)
	return nil
}

func (t SaleType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *SaleType) Scan(value interface{}) error {
	*t = SaleType(scan(value))
	return nil
}
