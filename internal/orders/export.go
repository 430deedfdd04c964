package orders

import (
	"github.com/pkg/errors"

	"github.com/codespace555/arya-co/internal/models"
)

// ErrNothingToExport signals an empty filtered view. It is surfaced to the
// user as information, not treated as a failure, and no file is produced.
var ErrNothingToExport = errors.New("no data to export")

// ExportRow is one flat spreadsheet record. Timestamp formats match the
// report columns the admins already use.
type ExportRow struct {
	Customer     string
	Phone        string
	Product      string
	Quantity     int
	Unit         string
	TotalPrice   float64
	Status       string
	OrderDate    string
	DeliveryDate string
}

const (
	exportOrderDateLayout    = "2006-01-02 15:04"
	exportDeliveryDateLayout = "2006-01-02"
)

// ExportHeaders is the fixed column set, in order.
var ExportHeaders = []string{
	"Customer", "Phone", "Product", "Quantity", "Unit",
	"Total Price", "Status", "Order Date", "Delivery Date",
}

// Project maps the currently filtered view into export rows. It must be fed
// the filtered list, never the full set, so exports always match the screen.
func Project(filtered []models.Order, index map[string]models.User) ([]ExportRow, error) {
	if len(filtered) == 0 {
		return nil, ErrNothingToExport
	}
	rows := make([]ExportRow, 0, len(filtered))
	for _, o := range filtered {
		u := index[o.UserID]
		customer := u.Name
		if customer == "" {
			customer = UnknownUser
		}
		rows = append(rows, ExportRow{
			Customer:     customer,
			Phone:        u.Phone,
			Product:      o.ProductName,
			Quantity:     o.Quantity,
			Unit:         o.Unit,
			TotalPrice:   o.TotalPrice,
			Status:       o.Status.String(),
			OrderDate:    o.OrderedAt.Format(exportOrderDateLayout),
			DeliveryDate: o.DeliveryDate.Format(exportDeliveryDateLayout),
		})
	}
	return rows, nil
}

// Values flattens a row into the header order for sheet writers.
func (r ExportRow) Values() []interface{} {
	return []interface{}{
		r.Customer, r.Phone, r.Product, r.Quantity, r.Unit,
		r.TotalPrice, r.Status, r.OrderDate, r.DeliveryDate,
	}
}
