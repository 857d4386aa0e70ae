package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Column names of the product view.
const (
	ColProductID   = "ProductID"
	ColProductName = "ProductName"
	ColBarcode     = "Barcode"
	ColPrice       = "Price"
	ColQty         = "Qty"
	ColFileID      = "file_id"
)

var ErrUnknownField = errors.New("unknown product field")

var (
	numericInput   = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	partialNumeric = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d*)?$|^[+-]?(?:\d+\.?\d*|\.\d+)[eE][+-]?\d*$`)
)

// Product is the typed projection of a row shown in the product table.
type Product struct {
	ProductID   string `csv:"ProductID" json:"ProductID"`
	ProductName string `csv:"ProductName" json:"ProductName"`
	Barcode     string `csv:"Barcode" json:"Barcode"`
	Price       string `csv:"Price" json:"Price"`
	Qty         string `csv:"Qty" json:"Qty"`
}

func ProductFromRow(r Row) Product {
	return Product{
		ProductID:   r.String(ColProductID),
		ProductName: r.String(ColProductName),
		Barcode:     r.String(ColBarcode),
		Price:       r.String(ColPrice),
		Qty:         r.String(ColQty),
	}
}

// OutOfStock reports whether the quantity is numerically zero.
func (p Product) OutOfStock() bool {
	q, ok := ToFloat(p.Qty)
	return ok && q == 0
}

// FormatPrice prefixes a stored price with the currency symbol.
func FormatPrice(price string) string {
	return "$" + price
}

// ProductDraft is the add-product form. Price never holds the currency
// symbol; Barcode and Qty hold numeric text or nothing.
type ProductDraft struct {
	ProductName string `json:"ProductName"`
	Barcode     string `json:"Barcode"`
	Price       string `json:"Price"`
	Qty         string `json:"Qty"`
}

// With returns a copy of the draft with one field replaced.
func (d ProductDraft) With(name, value string) (ProductDraft, error) {
	switch name {
	case ColProductName:
		d.ProductName = value
	case ColBarcode:
		d.Barcode = numericOrEmpty(value)
	case ColPrice:
		d.Price = strings.ReplaceAll(value, "$", "")
	case ColQty:
		d.Qty = numericOrEmpty(value)
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return d, nil
}

// DisplayPrice is the Price field as the form shows it.
func (d ProductDraft) DisplayPrice() string {
	if strings.HasPrefix(d.Price, "$") {
		return d.Price
	}
	return FormatPrice(d.Price)
}

// NumericPrefix reports whether value is a number or could become one as
// more characters are typed, such as "-" or "1e".
func NumericPrefix(value string) bool {
	return partialNumeric.MatchString(strings.TrimSpace(value))
}

func numericOrEmpty(value string) string {
	value = strings.TrimSpace(value)
	if !numericInput.MatchString(value) {
		return ""
	}
	return value
}

// SaleRequest is the body of a sell-product call. A nil Price encodes as
// JSON null.
type SaleRequest struct {
	ProductID      any      `json:"productId"`
	QuantityToSell int      `json:"quantityToSell"`
	Price          *float64 `json:"price"`
}
