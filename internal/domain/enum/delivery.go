package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DeliveryStatus is the dispatch state of a delivery order. Any status may be
// overwritten with any other; Entregue and Cancelado archive the order.
type DeliveryStatus int

const (
	DeliveryPendente  DeliveryStatus = 0
	DeliveryEmPreparo DeliveryStatus = 1
	DeliveryEmRota    DeliveryStatus = 2
	DeliveryEntregue  DeliveryStatus = 3
	DeliveryCancelado DeliveryStatus = 4
	DeliveryProblema  DeliveryStatus = 5
)

var deliveryStatusLabels = []string{"Pendente", "Em Preparo", "Em Rota", "Entregue", "Cancelado", "Problema"}

func (s DeliveryStatus) String() string { return label(deliveryStatusLabels, int(s)) }

func (s DeliveryStatus) IsValid() bool { return s >= DeliveryPendente && s <= DeliveryProblema }

// IsTerminal reports whether the order is archived.
func (s DeliveryStatus) IsTerminal() bool {
	switch s {
	case DeliveryEntregue, DeliveryCancelado:
		return true
	case DeliveryPendente, DeliveryEmPreparo, DeliveryEmRota, DeliveryProblema:
		return false
	}
	return false
}

// ParseDeliveryStatus converts a label such as "Em Rota".
func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	i, ok := parse(deliveryStatusLabels, s)
	return DeliveryStatus(i), ok
}

func (s DeliveryStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DeliveryStatus) UnmarshalJSON(data []byte) error {
	i, err := decode(deliveryStatusLabels, data)
	if err != nil {
		return err
	}
	*s = DeliveryStatus(i)
	return nil
}

func (s DeliveryStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DeliveryStatus) Scan(value interface{}) error {
	if value == nil {
		*s = DeliveryPendente
		return nil
	}
	*s = DeliveryStatus(scan(value))
	return nil
}

// DeliveryMethod is the carrier used for the order
type DeliveryMethod int

const (
	DeliveryMotoboy  DeliveryMethod = 0
	DeliveryCorreios DeliveryMethod = 1
	DeliveryJadlog   DeliveryMethod = 2
	DeliveryRetirada DeliveryMethod = 3
)

var deliveryMethodLabels = []string{"Motoboy", "Correios", "Jadlog", "Retirada"}

func (m DeliveryMethod) String() string { return label(deliveryMethodLabels, int(m)) }

func (m DeliveryMethod) IsValid() bool { return m >= DeliveryMotoboy && m <= DeliveryRetirada }

// IsLocal reports whether the order is delivered by the store's own couriers.
func (m DeliveryMethod) IsLocal() bool { return m == DeliveryMotoboy }

// IsDispatch reports whether the order is shipped through a carrier.
func (m DeliveryMethod) IsDispatch() bool {
	return m == DeliveryCorreios || m == DeliveryJadlog
}

func (m DeliveryMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *DeliveryMethod) UnmarshalJSON(data []byte) error {
	i, err := decode(deliveryMethodLabels, data)
	if err != nil {
		return err
	}
	*m = DeliveryMethod(i)
	return nil
}

func (m DeliveryMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *DeliveryMethod) Scan(value interface{}) error {
	*m = DeliveryMethod(scan(value))
	return nil
}

// DeliverySource is the channel the order came from
type DeliverySource int

const (
	SourceWhatsApp  DeliverySource = 0
	SourceEcommerce DeliverySource = 1
	SourceStore     DeliverySource = 2
)

var deliverySourceLabels = []string{"WhatsApp", "E-commerce", "Loja Física"}

func (s DeliverySource) String() string { return label(deliverySourceLabels, int(s)) }

func (s DeliverySource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DeliverySource) UnmarshalJSON(data []byte) error {
	i, err := decode(deliverySourceLabels, data)
	if err != nil {
		return err
	}
	*s = DeliverySource(i)
	return nil
}

func (s DeliverySource) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DeliverySource) Scan(value interface{}) error {
	*s = DeliverySource(scan(value))
	return nil
}

// PayoutStatus tracks whether the courier has been paid for a delivery
type PayoutStatus int

const (
	PayoutPending PayoutStatus = 0
	PayoutPaid    PayoutStatus = 1
)

var payoutStatusLabels = []string{"Pending", "Paid"}

func (s PayoutStatus) String() string { return label(payoutStatusLabels, int(s)) }

func ParsePayoutStatus(s string) (PayoutStatus, bool) {
	i, ok := parse(payoutStatusLabels, s)
	return PayoutStatus(i), ok
}

func (s PayoutStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PayoutStatus) UnmarshalJSON(data []byte) error {
	i, err := decode(payoutStatusLabels, data)
	if err != nil {
		return err
	}
	*s = PayoutStatus(i)
	return nil
}

func (s PayoutStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PayoutStatus) Scan(value interface{}) error {
	*s = PayoutStatus(scan(value))
	return nil
}
