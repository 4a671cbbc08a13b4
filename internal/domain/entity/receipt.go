package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	TaxID     string `json:"tax_id,omitempty"` // CNPJ
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptCustomer is the customer block. Identified is false for counter sales.
type ReceiptCustomer struct {
	Identified bool   `json:"identified"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Courier    string `json:"courier,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// ReceiptPayment is one payment line.
type ReceiptPayment struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Receipt is a value object representing a printable receipt.
// It is not a database entity; it is composed from a sale at print time and
// every renderer reads the amounts from it without recomputing.
type Receipt struct {
	Header      ReceiptHeader    `json:"header"`
	SaleID      string           `json:"sale_id"`
	Date        string           `json:"date"`
	Seller      string           `json:"seller,omitempty"`
	IsDelivery  bool             `json:"is_delivery"`
	Customer    ReceiptCustomer  `json:"customer"`
	Items       []ReceiptItem    `json:"items"`
	SubTotal    int64            `json:"sub_total"`
	Discount    int64            `json:"discount"`
	DeliveryFee int64            `json:"delivery_fee"`
	Surcharge   int64            `json:"surcharge"`
	Total       int64            `json:"total"`
	Payments    []ReceiptPayment `json:"payments"`
	HasChange   bool             `json:"has_change"`
	Change      int64            `json:"change"`
	Footer      []string         `json:"footer"`
	PrintedAt   string           `json:"printed_at"`
}
