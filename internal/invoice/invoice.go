// Package invoice renders the customer-facing order invoice document. PDF
// rasterization and sharing are downstream collaborators; this stops at the
// rendered HTML.
package invoice

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"

	"github.com/codespace555/arya-co/internal/models"
)

const (
	orderedAtLayout = "02 Jan 2006 03:04 PM"
	deliveryLayout  = "02 Jan 2006"
)

var tmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8" />
    <title>Order Invoice</title>
  </head>
  <body>
    <div class="invoice-container">
      <h1>Order Invoice</h1>
      <div class="company">Arya &amp; Co.</div>
      <hr />
      <p><strong>Customer Name:</strong> {{.CustomerName}}</p>
      <p><strong>Order ID:</strong> {{.Order.ID}}</p>
      <p><strong>Product:</strong> {{.Order.ProductName}}</p>
      <p><strong>Quantity:</strong> {{.Order.Quantity}} {{.Order.Unit}}</p>
      <p><strong>Price per unit:</strong> &#8377;{{printf "%.2f" .Order.Price}}</p>
      <p><strong>Total:</strong> &#8377;{{printf "%.2f" .Order.TotalPrice}}</p>
      <p><strong>Ordered At:</strong> {{.OrderedAt}}</p>
      <p><strong>Delivery Date:</strong> {{.DeliveryDate}}</p>
      <p><strong>Status:</strong> {{.Order.Status}}</p>
      <hr />
      <div class="footer">Thank you for your order, {{.CustomerName}}!</div>
    </div>
  </body>
</html>`))

type Data struct {
	CustomerName string
	Order        models.Order
}

// Render produces the invoice document for one order.
func Render(d Data) ([]byte, error) {
	if d.CustomerName == "" {
		d.CustomerName = "Customer"
	}
	view := struct {
		Data
		OrderedAt    string
		DeliveryDate string
	}{
		Data:         d,
		OrderedAt:    d.Order.OrderedAt.Format(orderedAtLayout),
		DeliveryDate: d.Order.DeliveryDate.Format(deliveryLayout),
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, errors.Wrap(err, "render invoice")
	}
	return buf.Bytes(), nil
}
