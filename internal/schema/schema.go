// Package schema defines the fixed set of fields extracted from a listing
// element and the Record type that carries their values.
package schema

import "sort"

// Field identifies one member of the listing schema.
type Field string

const (
	FieldImageURL   Field = "image_url"
	FieldImagePath  Field = "image_path"
	FieldKeyword    Field = "keyword"
	FieldTitle      Field = "title"
	FieldTitleHref  Field = "title_href"
	FieldSeller     Field = "seller"
	FieldSellerLink Field = "seller_link"
	FieldItemID     Field = "item_id"
	FieldPrice      Field = "price"
	FieldShipping   Field = "shipping_cost"
)

// NoColumn marks a field that is never rendered as its own column.
const NoColumn = -1

// Descriptor is the static render metadata for one schema field. A field
// with a Header always has a zero-based Column; a field without a Header is
// internal (a link target or a download source) and never claims a column.
type Descriptor struct {
	Field  Field
	Header string
	Column int
}

// Descriptors is the fixed, ordered schema. Column positions are the report
// contract: image, keyword, title, price, shipping, seller, item id.
var Descriptors = []Descriptor{
	{Field: FieldImageURL, Column: NoColumn},
	{Field: FieldImagePath, Header: "Image", Column: 0},
	{Field: FieldKeyword, Header: "Keyword", Column: 1},
	{Field: FieldTitle, Header: "Title", Column: 2},
	{Field: FieldTitleHref, Column: NoColumn},
	{Field: FieldSeller, Header: "Seller", Column: 5},
	{Field: FieldSellerLink, Column: NoColumn},
	{Field: FieldItemID, Header: "Item ID", Column: 6},
	{Field: FieldPrice, Header: "Listing Price", Column: 3},
	{Field: FieldShipping, Header: "Shipping Cost", Column: 4},
}

var columnByField = func() map[Field]int {
	m := make(map[Field]int, len(Descriptors))
	for _, d := range Descriptors {
		m[d.Field] = d.Column
	}
	return m
}()

// Column returns the zero-based column index for a field, or NoColumn for
// fields that are not rendered directly.
func Column(f Field) int {
	col, ok := columnByField[f]
	if !ok {
		return NoColumn
	}
	return col
}

// Headers returns the display headers in ascending column order.
func Headers() []string {
	ds := make([]Descriptor, 0, len(Descriptors))
	for _, d := range Descriptors {
		if d.Header != "" {
			ds = append(ds, d)
		}
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].Column < ds[j].Column })

	headers := make([]string, len(ds))
	for i, d := range ds {
		headers[i] = d.Header
	}
	return headers
}

// ColumnCount returns the number of rendered columns.
func ColumnCount() int {
	n := 0
	for _, d := range Descriptors {
		if d.Header != "" {
			n++
		}
	}
	return n
}
