// Package invoice renders booking confirmations for email and display.
// Rendering only formats the stored snapshot; nothing is recomputed.
package invoice

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"car-rental/internal/models"
	"car-rental/internal/pricing"
)

// Document is a rendered invoice
type Document struct {
	Subject string
	HTML    string
	Text    string
}

var funcs = map[string]any{
	"money": func(m models.Money) string { return "$" + m.String() },
}

var htmlTmpl = htmltemplate.Must(htmltemplate.New("invoice.html").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Booking {{.BookingID}}</title></head>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h1>Booking Confirmation</h1>
  <p>Dear {{.FirstName}} {{.LastName}},</p>
  <p>Thank you for your reservation. Your booking reference is <strong>{{.BookingID}}</strong>.</p>
  <h2>Rental Details</h2>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td>Vehicle</td><td>{{.CarName}}</td></tr>
    <tr><td>Pickup date</td><td>{{.PickupDate}}</td></tr>
    <tr><td>Return date</td><td>{{.ReturnDate}}</td></tr>
    <tr><td>Pickup location</td><td>{{.PickupLocation}}</td></tr>
    <tr><td>Email</td><td>{{.Email}}</td></tr>
    <tr><td>Phone</td><td>{{.Phone}}</td></tr>
    {{- if .AdditionalInfo}}
    <tr><td>Additional information</td><td>{{.AdditionalInfo}}</td></tr>
    {{- end}}
  </table>
  <h2>Invoice</h2>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td>Daily rate</td><td>${{.PricePerDay}}</td></tr>
    <tr><td>Days</td><td>{{.Days}}</td></tr>
    <tr><td>Subtotal</td><td>{{money .Subtotal}}</td></tr>
    <tr><td>Tax ({{.TaxRate}}%)</td><td>{{money .Tax}}</td></tr>
    <tr><td><strong>Total</strong></td><td><strong>{{money .Total}}</strong></td></tr>
    <tr><td>Payment status</td><td>{{.PaymentStatus}}</td></tr>
  </table>
  <p>Booked on {{.BookingDate}}</p>
</body>
</html>
`))

var textTmpl = texttemplate.Must(texttemplate.New("invoice.txt").Funcs(funcs).Parse(`Booking Confirmation {{.BookingID}}

Dear {{.FirstName}} {{.LastName}},

Vehicle:          {{.CarName}}
Pickup date:      {{.PickupDate}}
Return date:      {{.ReturnDate}}
Pickup location:  {{.PickupLocation}}
{{- if .AdditionalInfo}}
Additional info:  {{.AdditionalInfo}}
{{- end}}

Daily rate:       ${{.PricePerDay}}
Days:             {{.Days}}
Subtotal:         {{money .Subtotal}}
Tax ({{.TaxRate}}%):         {{money .Tax}}
Total:            {{money .Total}}
Payment status:   {{.PaymentStatus}}

Booked on {{.BookingDate}}
`))

type view struct {
	models.Booking
	TaxRate int
}

// Render formats a booking as an HTML and plain-text document
func Render(b models.Booking) (Document, error) {
	v := view{Booking: b, TaxRate: pricing.TaxRatePercent}

	var html bytes.Buffer
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return Document{}, fmt.Errorf("failed to render html invoice: %w", err)
	}

	var text bytes.Buffer
	if err := textTmpl.Execute(&text, v); err != nil {
		return Document{}, fmt.Errorf("failed to render text invoice: %w", err)
	}

	return Document{
		Subject: fmt.Sprintf("Booking Confirmation %s - %s", b.BookingID, b.CarName),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
