package catalog

import (
	"strconv"
	"time"
)

// NotAvailable is rendered for absent optional attributes.
const NotAvailable = "N/A"

// DetailField is one labelled line of the detail view.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetailView is the read-only projection of a single product.
type DetailView struct {
	Product Product
	Fields  []DetailField
}

// NewDetailView renders every product attribute in a fixed order.
func NewDetailView(p Product) DetailView {
	imei := "No"
	if p.HasIMEI {
		imei = "Yes"
	}
	fields := []DetailField{
		{Label: "ID", Value: p.ID.String()},
		{Label: "Name", Value: p.Name},
		{Label: "Code", Value: p.Code},
		{Label: "Category", Value: p.Category},
		{Label: "Brand", Value: p.Brand.OrElse(NotAvailable)},
		{Label: "Type", Value: p.Type},
		{Label: "Cost", Value: FormatMoney(p.Cost)},
		{Label: "Price", Value: FormatMoney(p.Price)},
		{Label: "Stock", Value: stockLabel(p)},
		{Label: "Min Qty", Value: strconv.FormatInt(p.MinimumQuantity, 10)},
		{Label: "Stock Alert", Value: strconv.FormatInt(p.StockAlert, 10)},
		{Label: "Unit Sale", Value: p.UnitSale},
		{Label: "Unit Product", Value: p.UnitProduct},
		{Label: "Unit Purchase", Value: p.UnitPurchase},
		{Label: "Tax", Value: p.OrderTax.String() + "% (" + p.TaxMethod + ")"},
		{Label: "Tax Method", Value: p.TaxMethod},
		{Label: "Has IMEI", Value: imei},
		{Label: "Image", Value: p.ImageURL.OrElse(NotAvailable)},
		{Label: "Details", Value: p.Details.OrElse(NotAvailable)},
		{Label: "Created At", Value: p.CreatedAt.UTC().Format(time.RFC3339)},
	}
	return DetailView{Product: p, Fields: fields}
}

func stockLabel(p Product) string {
	qty := strconv.FormatInt(p.CurrentStock, 10)
	if p.UnitSale == "" {
		return qty
	}
	return qty + " " + p.UnitSale
}

type viewState struct {
	open   bool
	target *Product
}

func (v *viewState) show(p Product) {
	target := p
	v.target = &target
	v.open = true
}

func (v *viewState) hide() {
	v.open = false
	v.target = nil
}

func (v viewState) snapshot() *DetailView {
	if !v.open || v.target == nil {
		return nil
	}
	view := NewDetailView(*v.target)
	return &view
}
