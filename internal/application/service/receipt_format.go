package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
	"github.com/primake/primake-api/pkg/printer"
)

const (
	receiptDateLayout    = "02/01/2006 15:04"
	receiptClosingLine   = "Volte sempre."
	unidentifiedCustomer = "Cliente não identificado"
)

// BuildReceipt composes the printable receipt of a sale. Every amount is
// copied from the stored sale; nothing is recomputed.
func BuildReceipt(sale *entity.Sale, settings *entity.CompanySettings, printedAt time.Time) *entity.Receipt {
	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: settings.Name,
			TaxID:     settings.CNPJ,
			Address:   strings.TrimSpace(strings.Join(nonEmpty(settings.Address, settings.City), " - ")),
			Phone:     settings.Phone,
		},
		SaleID:      sale.ID,
		Date:        sale.Date.Format(receiptDateLayout),
		Seller:      sale.SellerName,
		IsDelivery:  sale.IsDelivery,
		SubTotal:    sale.SubTotal,
		Discount:    sale.Discount,
		DeliveryFee: sale.DeliveryFee,
		Surcharge:   sale.Surcharge,
		Total:       sale.Total,
		PrintedAt:   printedAt.Format(receiptDateLayout),
	}

	if sale.HasCustomer() {
		r.Customer = entity.ReceiptCustomer{
			Identified: true,
			Name:       sale.CustomerName,
			Phone:      sale.CustomerPhone,
		}
		if sale.IsDelivery {
			r.Customer.Address = sale.Address
			r.Customer.City = sale.City
			r.Customer.Courier = sale.MotoboyName
		}
	} else {
		r.Customer = entity.ReceiptCustomer{Name: unidentifiedCustomer}
	}

	r.Items = make([]entity.ReceiptItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		name := it.Name
		if it.VariationName != "" {
			name = fmt.Sprintf("%s (%s)", it.Name, it.VariationName)
		}
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}

	if len(sale.Payments) == 0 {
		r.Payments = []entity.ReceiptPayment{{Label: sale.PaymentLabel, Amount: sale.Total}}
	}
	for _, p := range sale.Payments {
		r.Payments = append(r.Payments, entity.ReceiptPayment{
			Label:  p.Method.ReceiptLabel(p.Installments),
			Amount: p.Charged,
		})
	}

	if sale.PaidWith(enum.PaymentMoney) {
		r.HasChange = true
		r.Change = sale.Change
	}

	if settings.ReceiptMessage != "" {
		r.Footer = append(r.Footer, settings.ReceiptMessage)
	}
	r.Footer = append(r.Footer, receiptClosingLine)
	return r
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// RenderReceiptESCPOS lays the receipt out for a thermal printer
func RenderReceiptESCPOS(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("CNPJ: %s", r.Header.TaxID)
	}
	doc.Text(r.Date)
	if r.IsDelivery {
		doc.SetBold(true).Text("PEDIDO PARA ENTREGA").SetBold(false)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Venda:", r.SaleID)
	if r.Seller != "" {
		doc.KeyValue("Vendedor:", r.Seller)
	}

	doc.Separator('-').
		SetBold(true).Text("DADOS DO CLIENTE").SetBold(false)
	if r.Customer.Identified {
		doc.TextF("Nome: %s", r.Customer.Name)
		if r.Customer.Phone != "" {
			doc.TextF("Tel: %s", r.Customer.Phone)
		}
		if r.IsDelivery {
			doc.TextF("End: %s", strings.Join(nonEmpty(r.Customer.Address, r.Customer.City), ", "))
			if r.Customer.Courier != "" {
				doc.TextF("Entregador: %s", r.Customer.Courier)
			}
		}
	} else {
		doc.Text(r.Customer.Name)
	}

	doc.Separator('-').
		SetBold(true).KeyValue("ITEM", "VALOR").SetBold(false)
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money.Format(item.Total))
	}

	doc.Separator('-').
		KeyValue("Subtotal", money.BRL(r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue("Desconto", "- "+money.BRL(r.Discount))
	}
	if r.IsDelivery {
		doc.KeyValue("Taxa Entrega", money.BRL(r.DeliveryFee))
	}
	if r.Surcharge > 0 {
		doc.KeyValue("Acréscimo Crédito", money.BRL(r.Surcharge))
	}
	doc.SetBold(true).
		KeyValue("TOTAL", money.BRL(r.Total)).
		SetBold(false)

	doc.Separator('.')
	if len(r.Payments) == 1 {
		doc.KeyValue("Forma Pagto.", strings.ToUpper(r.Payments[0].Label))
	} else {
		doc.Text("Forma Pagto.")
		for _, p := range r.Payments {
			doc.KeyValue("  "+p.Label, money.BRL(p.Amount))
		}
	}
	if r.HasChange {
		doc.KeyValue("Troco", money.BRL(r.Change))
	}

	doc.LineFeed().SetAlign(printer.AlignCenter)
	for _, line := range r.Footer {
		doc.Text(line)
	}
	doc.Text(r.PrintedAt).
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"brl":   money.BRL,
	"upper": strings.ToUpper,
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Recibo {{.SaleID}}</title>
<style>
@page { size: 80mm auto; margin: 0; }
body { width: 72mm; margin: 0 auto; padding: 4mm 0; font-family: "Courier New", monospace; font-size: 12px; color: #111; }
.center { text-align: center; }
.section { border-bottom: 1px dashed #999; padding: 6px 0; }
.row { display: flex; justify-content: space-between; }
.row span:first-child { overflow: hidden; text-overflow: ellipsis; white-space: nowrap; padding-right: 8px; }
.muted { color: #666; font-size: 11px; }
.banner { display: inline-block; background: #000; color: #fff; padding: 1px 6px; font-weight: bold; margin-top: 4px; }
.total { font-size: 15px; font-weight: bold; margin-top: 4px; }
.bold { font-weight: bold; }
</style>
</head>
<body>
<div class="section center">
  <div class="bold">{{.Header.StoreName}}</div>
  {{if .Header.Address}}<div class="muted">{{.Header.Address}}</div>{{end}}
  {{if .Header.Phone}}<div class="muted">{{.Header.Phone}}</div>{{end}}
  {{if .Header.TaxID}}<div class="muted">CNPJ: {{.Header.TaxID}}</div>{{end}}
  <div class="muted">{{.Date}}</div>
  {{if .IsDelivery}}<div class="banner">PEDIDO PARA ENTREGA</div>{{end}}
</div>
<div class="section">
  <div class="row"><span>Venda</span><span>{{.SaleID}}</span></div>
  {{if .Seller}}<div class="row"><span>Vendedor</span><span>{{.Seller}}</span></div>{{end}}
</div>
<div class="section">
  <div class="bold">DADOS DO CLIENTE</div>
  {{if .Customer.Identified}}
  <div>Nome: {{.Customer.Name}}</div>
  {{if .Customer.Phone}}<div>Tel: {{.Customer.Phone}}</div>{{end}}
  {{if .IsDelivery}}
  <div class="bold">End: {{.Customer.Address}}{{if .Customer.City}}, {{.Customer.City}}{{end}}</div>
  {{if .Customer.Courier}}<div class="bold">Entregador: {{.Customer.Courier}}</div>{{end}}
  {{end}}
  {{else}}
  <div class="muted"><i>{{.Customer.Name}}</i></div>
  {{end}}
</div>
<div class="section">
  <div class="row bold"><span>ITEM</span><span>VALOR</span></div>
  {{range .Items}}<div class="row"><span>{{.Quantity}}x {{.Name}}</span><span>{{brl .Total}}</span></div>
  {{end}}
</div>
<div class="section">
  <div class="row muted"><span>Subtotal</span><span>{{brl .SubTotal}}</span></div>
  {{if gt .Discount 0}}<div class="row muted"><span>Desconto</span><span>- {{brl .Discount}}</span></div>{{end}}
  {{if .IsDelivery}}<div class="row muted"><span>Taxa Entrega</span><span>{{brl .DeliveryFee}}</span></div>{{end}}
  {{if gt .Surcharge 0}}<div class="row muted"><span>Acréscimo Crédito</span><span>{{brl .Surcharge}}</span></div>{{end}}
  <div class="row total"><span>TOTAL</span><span>{{brl .Total}}</span></div>
  {{if eq (len .Payments) 1}}
  <div class="row muted"><span>Forma Pagto.</span><span class="bold">{{upper (index .Payments 0).Label}}</span></div>
  {{else}}
  <div class="muted">Forma Pagto.</div>
  {{range .Payments}}<div class="row muted"><span>{{.Label}}</span><span>{{brl .Amount}}</span></div>
  {{end}}
  {{end}}
  {{if .HasChange}}<div class="row muted"><span>Troco</span><span>{{brl .Change}}</span></div>{{end}}
</div>
<div class="center muted" style="padding-top: 12px">
  {{range .Footer}}<div>{{.}}</div>
  {{end}}
  <div>{{.PrintedAt}}</div>
</div>
</body>
</html>
`))

// RenderReceiptHTML renders the 80 mm HTML receipt used for preview and the
// browser print window
func RenderReceiptHTML(r *entity.Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
