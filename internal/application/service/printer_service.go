package service

import (
	"context"
	"fmt"
	"time"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService builds sale receipts and sends them to the thermal printer.
type PrinterService struct {
	printer     printer.Printer
	sales       *SaleService
	settings    *SettingsService
	printerType string
	charWidth   int
	log         *zap.Logger
	now         func() time.Time
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	sales *SaleService,
	settings *SettingsService,
	printerType string,
	charWidth int,
	log *zap.Logger,
) *PrinterService {
	if charWidth <= 0 {
		charWidth = printer.Width80mm
	}
	return &PrinterService{
		printer:     p,
		sales:       sales,
		settings:    settings,
		printerType: printerType,
		charWidth:   charWidth,
		log:         log,
		now:         time.Now,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"char_width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		CharWidth:  s.charWidth,
	}
}

// SaleReceipt composes the receipt of a stored sale
func (s *PrinterService) SaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	sale, err := s.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReceipt(sale, settings, s.now()), nil
}

// SaleReceiptHTML renders the printable HTML page of a sale
func (s *PrinterService) SaleReceiptHTML(ctx context.Context, saleID string) ([]byte, error) {
	receipt, err := s.SaleReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return RenderReceiptHTML(receipt)
}

// PrintSaleReceipt sends the receipt of a sale to the thermal printer. The
// receipt is returned even when printing fails so the caller can fall back to
// the HTML version.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	receipt, err := s.SaleReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(RenderReceiptESCPOS(receipt, s.charWidth)); err != nil {
		s.log.Warn("receipt print failed", zap.String("sale_id", receipt.SaleID), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// TestPrint sends a sample receipt to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sample := &entity.Sale{
		ID:         "TESTE-001",
		Date:       now,
		SellerName: "Sistema",
		Items: []entity.SaleItem{
			{Name: "Item de teste 1", Quantity: 1, UnitPrice: 1000, Total: 1000},
			{Name: "Item de teste 2", Quantity: 2, UnitPrice: 500, Total: 1000},
		},
		SubTotal:  2000,
		BaseTotal: 2000,
		Total:     2000,
		Payments: []entity.PaymentPart{
			{Method: enum.PaymentPix, Amount: 2000, Charged: 2000, Installments: 1},
		},
	}
	receipt := BuildReceipt(sample, settings, now)

	if err := s.printer.Print(RenderReceiptESCPOS(receipt, s.charWidth)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}
