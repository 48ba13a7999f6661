package mapper

import "strings"

// Resolve returns the first header containing any of the patterns, compared
// case-insensitively. Patterns are tried in order; for the first pattern that
// matches anything, the earliest matching header wins.
func Resolve(headers, patterns []string) (string, bool) {
	for _, p := range patterns {
		needle := strings.ToLower(p)
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), needle) {
				return h, true
			}
		}
	}
	return "", false
}

// ResolveExact returns the first header equal to any alias, ignoring case and
// surrounding whitespace. Aliases are tried in order.
func ResolveExact(headers, aliases []string) (string, bool) {
	for _, a := range aliases {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), a) {
				return h, true
			}
		}
	}
	return "", false
}

// Field is the alias table for one semantic invoice field.
type Field struct {
	Name string
	// Exact header names, tried before Patterns.
	Exact []string
	// Substring patterns, in priority order.
	Patterns []string
	// Headers containing any of these substrings are never considered.
	Exclude []string
}

// Lookup resolves the field against the headers.
func (f Field) Lookup(headers []string) (string, bool) {
	candidates := headers
	if len(f.Exclude) > 0 {
		candidates = make([]string, 0, len(headers))
		for _, h := range headers {
			if !containsAny(strings.ToLower(h), f.Exclude) {
				candidates = append(candidates, h)
			}
		}
	}
	if col, ok := ResolveExact(candidates, f.Exact); ok {
		return col, true
	}
	return Resolve(candidates, f.Patterns)
}

// Matches reports whether the header would be picked up by this field.
func (f Field) Matches(header string) bool {
	_, ok := f.Lookup([]string{header})
	return ok
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// amountExclusions keeps rate columns out of amount lookups.
var amountExclusions = []string{"rate", "%"}

// Standard fields. Order inside each alias list is significant.
var (
	FieldOrderNumber = Field{
		Name:     "order_number",
		Exact:    []string{"name", "order"},
		Patterns: []string{"order number", "order no", "order id", "order #", "order_id", "order_number"},
	}
	FieldOrderDate      = Field{Name: "order_date", Patterns: []string{"created at", "order date", "processed at"}}
	FieldInvoiceDate    = Field{Name: "invoice_date", Patterns: []string{"invoice date"}}
	FieldFinancialState = Field{Name: "financial_status", Patterns: []string{"financial status", "payment status"}}
	FieldPaymentMethod  = Field{Name: "payment_method", Patterns: []string{"payment method", "payment gateway", "gateway"}}
	FieldTransportMode  = Field{Name: "transport_mode", Patterns: []string{"shipping method", "transport mode", "delivery method"}}
	FieldCancelledAt    = Field{Name: "cancelled_at", Patterns: []string{"cancelled at", "canceled at"}}
	FieldPlaceOfSupply  = Field{Name: "place_of_supply", Patterns: []string{"place of supply"}}
	FieldEmail          = Field{Name: "email", Exact: []string{"email"}, Patterns: []string{"customer email", "email"}}
	FieldPhone          = Field{Name: "phone", Exact: []string{"phone"}, Patterns: []string{"customer phone", "contact number"}}

	FieldBillingName     = Field{Name: "billing_name", Patterns: []string{"billing name", "bill to name", "customer name", "buyer name"}}
	FieldBillingAddress1 = Field{Name: "billing_address1", Patterns: []string{"billing address1", "billing address 1", "billing street", "billing address"}}
	FieldBillingAddress2 = Field{Name: "billing_address2", Patterns: []string{"billing address2", "billing address 2"}}
	FieldBillingCity     = Field{Name: "billing_city", Patterns: []string{"billing city"}}
	FieldBillingState    = Field{Name: "billing_state", Patterns: []string{"billing province name", "billing state", "billing province"}}
	FieldBillingPincode  = Field{Name: "billing_pincode", Patterns: []string{"billing zip", "billing pincode", "billing pin code", "billing postal code"}}
	FieldBillingCountry  = Field{Name: "billing_country", Patterns: []string{"billing country"}}
	FieldBillingPhone    = Field{Name: "billing_phone", Patterns: []string{"billing phone"}}
	FieldBillingGSTIN    = Field{Name: "billing_gstin", Patterns: []string{"billing gstin", "buyer gstin", "customer gstin", "gstin"}}

	FieldShippingName     = Field{Name: "shipping_name", Patterns: []string{"shipping name", "ship to name"}}
	FieldShippingAddress1 = Field{Name: "shipping_address1", Patterns: []string{"shipping address1", "shipping address 1", "shipping street", "shipping address"}}
	FieldShippingAddress2 = Field{Name: "shipping_address2", Patterns: []string{"shipping address2", "shipping address 2"}}
	FieldShippingCity     = Field{Name: "shipping_city", Patterns: []string{"shipping city"}}
	FieldShippingState    = Field{Name: "shipping_state", Patterns: []string{"shipping province name", "shipping state", "shipping province"}}
	FieldShippingPincode  = Field{Name: "shipping_pincode", Patterns: []string{"shipping zip", "shipping pincode", "shipping pin code", "shipping postal code"}}
	FieldShippingCountry  = Field{Name: "shipping_country", Patterns: []string{"shipping country"}}
	FieldShippingPhone    = Field{Name: "shipping_phone", Patterns: []string{"shipping phone"}}

	FieldItemName      = Field{Name: "item_name", Patterns: []string{"lineitem name", "line item name", "item name", "product name", "product title", "item description"}}
	FieldItemSKU       = Field{Name: "item_sku", Patterns: []string{"lineitem sku", "line item sku", "sku"}}
	FieldItemQuantity  = Field{Name: "item_quantity", Patterns: []string{"lineitem quantity", "line item quantity", "quantity", "qty"}}
	FieldItemPrice     = Field{Name: "item_price", Patterns: []string{"lineitem price", "line item price", "unit price", "rate per item", "price"}}
	FieldItemDiscount  = Field{Name: "item_discount", Patterns: []string{"lineitem discount", "line item discount", "item discount"}}
	FieldItemTotal     = Field{Name: "item_total", Patterns: []string{"lineitem total", "line item total", "line total", "item total"}}
	FieldHSN           = Field{Name: "hsn", Patterns: []string{"hsn"}}
	FieldTaxable       = Field{Name: "taxable_amount", Patterns: []string{"taxable amount", "taxable value"}}
	FieldTaxesIncluded = Field{Name: "taxes_included", Patterns: []string{"taxes included", "tax inclusive", "price includes tax"}}

	FieldGSTRate   = Field{Name: "gst_rate", Patterns: []string{"gst rate", "tax rate", "gst %"}}
	FieldCGST      = Field{Name: "cgst", Patterns: []string{"cgst amount", "cgst"}, Exclude: append([]string{"total"}, amountExclusions...)}
	FieldSGST      = Field{Name: "sgst", Patterns: []string{"sgst amount", "sgst", "utgst"}, Exclude: append([]string{"total"}, amountExclusions...)}
	FieldIGST      = Field{Name: "igst", Patterns: []string{"igst amount", "igst"}, Exclude: append([]string{"total"}, amountExclusions...)}
	FieldTax1Name  = Field{Name: "tax1_name", Patterns: []string{"tax 1 name"}}
	FieldTax1Value = Field{Name: "tax1_value", Patterns: []string{"tax 1 value"}}
	FieldTax2Name  = Field{Name: "tax2_name", Patterns: []string{"tax 2 name"}}
	FieldTax2Value = Field{Name: "tax2_value", Patterns: []string{"tax 2 value"}}
	FieldTotalCGST = Field{Name: "total_cgst", Patterns: []string{"total cgst"}, Exclude: amountExclusions}
	FieldTotalSGST = Field{Name: "total_sgst", Patterns: []string{"total sgst"}, Exclude: amountExclusions}
	FieldTotalIGST = Field{Name: "total_igst", Patterns: []string{"total igst"}, Exclude: amountExclusions}

	FieldSubtotal        = Field{Name: "subtotal", Patterns: []string{"subtotal", "sub total", "sub-total"}}
	FieldDiscountAmount  = Field{Name: "discount_amount", Patterns: []string{"discount amount", "order discount", "total discount"}}
	FieldDiscountPercent = Field{Name: "discount_percent", Patterns: []string{"discount percent", "discount %"}}
	FieldTotalTax        = Field{Name: "total_tax", Exact: []string{"taxes"}, Patterns: []string{"total tax", "tax total"}}
	FieldTotal           = Field{
		Name:     "total",
		Exact:    []string{"total"},
		Patterns: []string{"total amount", "grand total", "order total", "invoice total", "amount after tax"},
	}
)

// StandardFields lists every field the mapper reads, in declaration order.
var StandardFields = []Field{
	FieldOrderNumber, FieldOrderDate, FieldInvoiceDate, FieldFinancialState,
	FieldPaymentMethod, FieldTransportMode, FieldCancelledAt, FieldPlaceOfSupply,
	FieldEmail, FieldPhone,
	FieldBillingName, FieldBillingAddress1, FieldBillingAddress2, FieldBillingCity,
	FieldBillingState, FieldBillingPincode, FieldBillingCountry, FieldBillingPhone,
	FieldBillingGSTIN,
	FieldShippingName, FieldShippingAddress1, FieldShippingAddress2, FieldShippingCity,
	FieldShippingState, FieldShippingPincode, FieldShippingCountry, FieldShippingPhone,
	FieldItemName, FieldItemSKU, FieldItemQuantity, FieldItemPrice, FieldItemDiscount,
	FieldItemTotal, FieldHSN, FieldTaxable, FieldTaxesIncluded,
	FieldGSTRate, FieldCGST, FieldSGST, FieldIGST,
	FieldTax1Name, FieldTax1Value, FieldTax2Name, FieldTax2Value,
	FieldTotalCGST, FieldTotalSGST, FieldTotalIGST,
	FieldSubtotal, FieldDiscountAmount, FieldDiscountPercent, FieldTotalTax, FieldTotal,
}

// DetectMetafields returns the headers that no standard field would pick up.
func DetectMetafields(headers []string) []string {
	var out []string
	for _, h := range headers {
		matched := false
		for _, f := range StandardFields {
			if f.Matches(h) {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, h)
		}
	}
	return out
}

// columns holds the resolved header for every standard field of one export.
// An empty string means the field is unavailable.
type columns struct {
	orderNumber, orderDate, invoiceDate, financialStatus       string
	paymentMethod, transportMode, cancelledAt, placeOfSupply   string
	email, phone                                               string
	billName, billAddr1, billAddr2, billCity, billState        string
	billPincode, billCountry, billPhone, billGSTIN             string
	shipName, shipAddr1, shipAddr2, shipCity, shipState        string
	shipPincode, shipCountry, shipPhone                        string
	itemName, itemSKU, itemQuantity, itemPrice, itemDiscount   string
	itemTotal, hsn, taxable, taxesIncluded                     string
	totalCGST, totalSGST, totalIGST                            string
	subtotal, discountAmount, discountPercent, totalTax, total string
	tax                                                        TaxColumns
}

func resolveColumns(headers []string) columns {
	get := func(f Field) string {
		col, _ := f.Lookup(headers)
		return col
	}
	return columns{
		orderNumber:     get(FieldOrderNumber),
		orderDate:       get(FieldOrderDate),
		invoiceDate:     get(FieldInvoiceDate),
		financialStatus: get(FieldFinancialState),
		paymentMethod:   get(FieldPaymentMethod),
		transportMode:   get(FieldTransportMode),
		cancelledAt:     get(FieldCancelledAt),
		placeOfSupply:   get(FieldPlaceOfSupply),
		email:           get(FieldEmail),
		phone:           get(FieldPhone),
		billName:        get(FieldBillingName),
		billAddr1:       get(FieldBillingAddress1),
		billAddr2:       get(FieldBillingAddress2),
		billCity:        get(FieldBillingCity),
		billState:       get(FieldBillingState),
		billPincode:     get(FieldBillingPincode),
		billCountry:     get(FieldBillingCountry),
		billPhone:       get(FieldBillingPhone),
		billGSTIN:       get(FieldBillingGSTIN),
		shipName:        get(FieldShippingName),
		shipAddr1:       get(FieldShippingAddress1),
		shipAddr2:       get(FieldShippingAddress2),
		shipCity:        get(FieldShippingCity),
		shipState:       get(FieldShippingState),
		shipPincode:     get(FieldShippingPincode),
		shipCountry:     get(FieldShippingCountry),
		shipPhone:       get(FieldShippingPhone),
		itemName:        get(FieldItemName),
		itemSKU:         get(FieldItemSKU),
		itemQuantity:    get(FieldItemQuantity),
		itemPrice:       get(FieldItemPrice),
		itemDiscount:    get(FieldItemDiscount),
		itemTotal:       get(FieldItemTotal),
		hsn:             get(FieldHSN),
		taxable:         get(FieldTaxable),
		taxesIncluded:   get(FieldTaxesIncluded),
		totalCGST:       get(FieldTotalCGST),
		totalSGST:       get(FieldTotalSGST),
		totalIGST:       get(FieldTotalIGST),
		subtotal:        get(FieldSubtotal),
		discountAmount:  get(FieldDiscountAmount),
		discountPercent: get(FieldDiscountPercent),
		totalTax:        get(FieldTotalTax),
		total:           get(FieldTotal),
		tax: TaxColumns{
			Rate:      get(FieldGSTRate),
			Tax1Name:  get(FieldTax1Name),
			Tax1Value: get(FieldTax1Value),
			Tax2Name:  get(FieldTax2Name),
			Tax2Value: get(FieldTax2Value),
			CGST:      get(FieldCGST),
			SGST:      get(FieldSGST),
			IGST:      get(FieldIGST),
		},
	}
}
