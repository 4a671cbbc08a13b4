package dispatch

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
)

// PayoutLine is what a courier is owed (or was paid) for delivered orders
type PayoutLine struct {
	Motoboy  string `json:"motoboy"`
	Count    int    `json:"count"`
	TotalFee int64  `json:"-"` // Stored in cents
}

// MarshalJSON converts the fee total to decimal for API responses
func (l PayoutLine) MarshalJSON() ([]byte, error) {
	type Alias PayoutLine
	return json.Marshal(&struct {
		Alias
		TotalFee float64 `json:"total_fee"`
	}{
		Alias:    Alias(l),
		TotalFee: money.ToFloat(l.TotalFee),
	})
}

// Payable reports whether a delivery counts towards courier payouts
func Payable(d *entity.Delivery) bool {
	return d.Status == enum.DeliveryEntregue && d.Method == enum.DeliveryMotoboy
}

// PayoutReport groups delivered motoboy orders with the given payout status by
// courier. Lines are sorted by courier name.
func PayoutReport(deliveries []entity.Delivery, status enum.PayoutStatus) []PayoutLine {
	byName := make(map[string]*PayoutLine)
	for i := range deliveries {
		d := &deliveries[i]
		if !Payable(d) || d.PayoutStatus != status {
			continue
		}
		name := d.CourierName()
		line, ok := byName[name]
		if !ok {
			line = &PayoutLine{Motoboy: name}
			byName[name] = line
		}
		line.Count++
		line.TotalFee += d.Fee
	}

	out := make([]PayoutLine, 0, len(byName))
	for _, line := range byName {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Motoboy < out[j].Motoboy })
	return out
}

// SummaryItem is the part of a sold line shown in a delivery summary
type SummaryItem struct {
	Quantity int
	Name     string
}

const summaryLimit = 50

// ItemsSummary renders "2x Batom, 1x Rímel", cut to 50 characters plus "...".
func ItemsSummary(items []SummaryItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	s := strings.Join(parts, ", ")
	if utf8.RuneCountInString(s) > summaryLimit {
		return string([]rune(s)[:summaryLimit]) + "..."
	}
	return s
}

var nonDigits = regexp.MustCompile(`\D`)

// WhatsAppLink builds the wa.me link used by couriers to contact a customer.
// It returns false when the phone has no digits.
func WhatsAppLink(phone, customerName, storeName string) (string, bool) {
	clean := nonDigits.ReplaceAllString(phone, "")
	if clean == "" {
		return "", false
	}
	text := fmt.Sprintf("Olá %s, aqui é da entrega da %s. Estou com seu pedido!", customerName, storeName)
	return fmt.Sprintf("https://wa.me/55%s?text=%s", clean, url.QueryEscape(text)), true
}
