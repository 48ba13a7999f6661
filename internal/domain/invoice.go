package domain

// InvoiceData is the structured GST invoice produced from one order.
// Optional tax fields are nil when the source export carried no value for them.
type InvoiceData struct {
	Business      BusinessDetails `json:"business"`
	Metadata      InvoiceMetadata `json:"metadata"`
	BillToParty   PartyDetails    `json:"bill_to_party"`
	ShipToParty   PartyDetails    `json:"ship_to_party"`
	LineItems     []LineItem      `json:"line_items"`
	TaxSummary    TaxSummary      `json:"tax_summary"`
	AmountInWords string          `json:"amount_in_words"`
	Metafields    []Metafield     `json:"metafields,omitempty"`
}

// BusinessDetails is the seller block printed on every invoice.
type BusinessDetails struct {
	Name      string `json:"name" mapstructure:"name"`
	Address   string `json:"address" mapstructure:"address"`
	City      string `json:"city" mapstructure:"city"`
	State     string `json:"state" mapstructure:"state"`
	StateCode string `json:"state_code" mapstructure:"state_code"`
	Pincode   string `json:"pincode" mapstructure:"pincode"`
	Phone     string `json:"phone" mapstructure:"phone"`
	Email     string `json:"email" mapstructure:"email"`
	GSTIN     string `json:"gstin" mapstructure:"gstin"`
	PAN       string `json:"pan" mapstructure:"pan"`
}

// InvoiceMetadata holds the invoice header fields.
type InvoiceMetadata struct {
	InvoiceNo       string          `json:"invoice_no"`
	OrderNo         string          `json:"order_no"`
	InvoiceDate     string          `json:"invoice_date"`
	OrderDate       string          `json:"order_date"`
	PlaceOfSupply   string          `json:"place_of_supply"`
	TransportMode   string          `json:"transport_mode,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	State           string          `json:"state"`
	StateCode       string          `json:"state_code"`
	FinancialStatus FinancialStatus `json:"financial_status,omitempty"`
	CancelledAt     string          `json:"cancelled_at,omitempty"`

	// OrderNoGenerated marks an OrderNo made up for a row that had none.
	OrderNoGenerated bool `json:"order_no_generated,omitempty"`
}

// PartyDetails represents the bill-to or ship-to party.
type PartyDetails struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	City      string `json:"city,omitempty"`
	State     string `json:"state"`
	StateCode string `json:"state_code"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
	Country   string `json:"country"`
}

// LineItem is one product entry on the invoice.
type LineItem struct {
	SNo             int      `json:"sno"`
	ItemName        string   `json:"item_name"`
	SKU             string   `json:"sku"`
	Quantity        float64  `json:"quantity"`
	RatePerItem     float64  `json:"rate_per_item"`
	DiscountPerItem float64  `json:"discount_per_item"`
	TaxableAmount   float64  `json:"taxable_amount"`
	HSN             string   `json:"hsn"`
	GSTRate         float64  `json:"gst_rate"`
	CGST            *float64 `json:"cgst,omitempty"`
	SGST            *float64 `json:"sgst,omitempty"`
	IGST            *float64 `json:"igst,omitempty"`
	Total           float64  `json:"total"`
}

// TaxSummary aggregates the line items of an invoice.
type TaxSummary struct {
	Subtotal            float64  `json:"subtotal"`
	DiscountPercent     *float64 `json:"discount_percent,omitempty"`
	DiscountAmount      float64  `json:"discount_amount"`
	TotalTaxableAmount  float64  `json:"total_taxable_amount"`
	TotalCGST           *float64 `json:"total_cgst,omitempty"`
	TotalSGST           *float64 `json:"total_sgst,omitempty"`
	TotalIGST           *float64 `json:"total_igst,omitempty"`
	TotalTaxAmount      float64  `json:"total_tax_amount"`
	TotalAmountAfterTax float64  `json:"total_amount_after_tax"`
}

// Metafield is a source column that does not map onto the invoice schema,
// carried along so templates can print it.
type Metafield struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
