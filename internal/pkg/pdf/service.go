// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

var ErrDisabled = errors.New("pdf receipts are disabled")

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

// Service renders order receipts
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Enabled reports whether PDF rendering is switched on
func (s *Service) Enabled() bool {
	return s.config.PDF.Enabled
}

// GenerateReceipt renders a PDF receipt for an order
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(s.config.PDF.Dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the receipt page that GenerateReceipt converts
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	data := ReceiptData{
		OrderDate: o.CreatedAt.Format("January 2, 2006"),
		Order:     o,
		Company: CompanyInfo{
			Name:  s.config.App.CompanyName,
			Email: s.config.App.CompanyEmail,
			Phone: s.config.App.CompanyPhone,
		},
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// ReceiptData is passed to the receipt template
type ReceiptData struct {
	OrderDate string
	Order     *order.Order
	Company   CompanyInfo
}

// CompanyInfo is printed in the receipt header
type CompanyInfo struct {
	Name  string
	Email string
	Phone string
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Order.OrderNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 20px; margin-bottom: 30px; }
        .title { font-size: 28px; font-weight: bold; color: #2563eb; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
        th { background: #f8f9fa; text-align: left; padding: 10px; border-bottom: 2px solid #dee2e6; }
        td { padding: 10px; border-bottom: 1px solid #eee; }
        .right { text-align: right; }
        .totals td { border: none; padding: 4px 10px; }
        .grand { font-size: 18px; font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.Company.Name}}</div>
        <div>{{.Company.Email}} · {{.Company.Phone}}</div>
    </div>

    <h2>Order {{.Order.OrderNumber}}</h2>
    <p>Placed on {{.OrderDate}} · Status: {{.Order.Status}}</p>

    <h3>Ship to</h3>
    <p>
        {{.Order.ShipTo.FullName}}<br>
        {{.Order.ShipTo.Address}}<br>
        {{.Order.ShipTo.City}} {{.Order.ShipTo.ZipCode}}<br>
        {{.Order.ShipTo.Country}}
    </p>

    <table>
        <thead>
            <tr><th>Item</th><th>Color</th><th class="right">Qty</th><th class="right">Price</th><th class="right">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{.Name}}{{if .Brand}} <small>({{.Brand}})</small>{{end}}</td>
                <td>{{.Color}}</td>
                <td class="right">{{.Quantity}}</td>
                <td class="right">${{.UnitPrice.StringFixed 2}}</td>
                <td class="right">${{.LineTotal.StringFixed 2}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td class="right">Subtotal</td><td class="right">${{.Order.Subtotal.StringFixed 2}}</td></tr>
        <tr><td class="right">Shipping</td><td class="right">{{if .Order.Shipping.IsZero}}Free{{else}}${{.Order.Shipping.StringFixed 2}}{{end}}</td></tr>
        <tr><td class="right">Tax</td><td class="right">${{.Order.Tax.StringFixed 2}}</td></tr>
        <tr class="grand"><td class="right">Total</td><td class="right">${{.Order.Total.StringFixed 2}}</td></tr>
    </table>

    <p>Paid with card ending in {{.Order.CardLast4}}</p>
</body>
</html>
`
