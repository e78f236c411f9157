package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxableLine is one transaction line as handed over by accounts
// receivable/payable. Immutable once created.
type TaxableLine struct {
	Amount       decimal.Decimal `json:"amount"`
	Rate         decimal.Decimal `json:"rate"`
	CessRate     decimal.Decimal `json:"cess_rate"`
	IsInterState bool            `json:"is_inter_state"`
	IsInclusive  bool            `json:"is_inclusive"`
}

// TaxSplit is the computed head-wise tax for a line. Amounts carry exactly
// two decimal places; rounding happens once, here, never downstream.
type TaxSplit struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Cess         decimal.Decimal `json:"cess"`
}

// TotalTax returns cgst+sgst+igst+cess.
func (s TaxSplit) TotalTax() decimal.Decimal {
	return s.CGST.Add(s.SGST).Add(s.IGST).Add(s.Cess)
}

// TaxHeads is a head-wise amount vector used by liability, credit and
// set-off calculations.
type TaxHeads struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
	Cess decimal.Decimal `json:"cess"`
}

// Add returns the element-wise sum of two vectors.
func (h TaxHeads) Add(o TaxHeads) TaxHeads {
	return TaxHeads{
		CGST: h.CGST.Add(o.CGST),
		SGST: h.SGST.Add(o.SGST),
		IGST: h.IGST.Add(o.IGST),
		Cess: h.Cess.Add(o.Cess),
	}
}

// Total returns the sum across all heads.
func (h TaxHeads) Total() decimal.Decimal {
	return h.CGST.Add(h.SGST).Add(h.IGST).Add(h.Cess)
}

// OutwardInvoice is a read snapshot of one outward transaction line handed
// to the engine for classification and return generation.
type OutwardInvoice struct {
	InvoiceNumber          string          `json:"invoice_number"`
	InvoiceDate            time.Time       `json:"invoice_date"`
	CounterpartyID         string          `json:"counterparty_id"`
	CounterpartyGSTIN      string          `json:"counterparty_gstin"`
	CounterpartyRegistered bool            `json:"counterparty_registered"`
	PlaceOfSupply          string          `json:"place_of_supply"`
	IsInterState           bool            `json:"is_inter_state"`
	IsInclusive            bool            `json:"is_inclusive"`
	IsExport               bool            `json:"is_export"`
	NoteRef                string          `json:"note_ref,omitempty"`
	NoteType               NoteType        `json:"note_type,omitempty"`
	Amount                 decimal.Decimal `json:"amount"`
	Rate                   decimal.Decimal `json:"rate"`
	CessRate               decimal.Decimal `json:"cess_rate"`
	HSNCode                string          `json:"hsn_code"`
	UQC                    string          `json:"uqc"`
	Quantity               decimal.Decimal `json:"quantity"`
}

// Line returns the taxable line view of the invoice.
func (i *OutwardInvoice) Line() TaxableLine {
	return TaxableLine{
		Amount:       i.Amount,
		Rate:         i.Rate,
		CessRate:     i.CessRate,
		IsInterState: i.IsInterState,
		IsInclusive:  i.IsInclusive,
	}
}

// ClassifiedInvoice is an outward invoice with its regulatory category and
// computed tax split. Never mutated; an amended source invoice produces a
// fresh classification.
type ClassifiedInvoice struct {
	OutwardInvoice
	Category InvoiceCategory `json:"category"`
	Tax      TaxSplit        `json:"tax"`
}

// RecordError describes a single rejected input record with enough context
// to re-validate it without re-running the batch.
type RecordError struct {
	RecordID string `json:"record_id"`
	Rule     string `json:"rule"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Message  string `json:"message"`
}

// PeriodReturn is one stored return, unique per (gstin, return_type, period).
type PeriodReturn struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	GSTIN         string          `db:"gstin" json:"gstin"`
	ReturnType    ReturnType      `db:"return_type" json:"return_type"`
	Period        string          `db:"period" json:"period"`
	FinancialYear string          `db:"financial_year" json:"financial_year"`
	Status        ReturnStatus    `db:"status" json:"status"`
	Payload       json.RawMessage `db:"payload" json:"payload"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// InwardSupply is a purchase-side record for GSTR-3B ITC aggregation.
type InwardSupply struct {
	InvoiceRef    string          `json:"invoice_ref"`
	Source        ITCSource       `json:"source"`
	ReverseCharge bool            `json:"reverse_charge"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	Tax           TaxHeads        `json:"tax"`
}

// ReconRecord is one purchase record from either the books or the
// counterparty feed, keyed by (counterparty GSTIN, invoice number).
type ReconRecord struct {
	Source        ReconSource     `json:"source"`
	GSTIN         string          `json:"gstin"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	TotalTax      decimal.Decimal `json:"total_tax"`
}

// Key returns the exact-match join key.
func (r *ReconRecord) Key() string {
	return r.GSTIN + "|" + r.InvoiceNumber
}

// Total returns taxable value plus tax.
func (r *ReconRecord) Total() decimal.Decimal {
	return r.TaxableValue.Add(r.TotalTax)
}

// ReconUnit is the matcher's verdict for one books and/or feed record.
type ReconUnit struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	RunID         uuid.UUID       `db:"run_id" json:"run_id"`
	GSTIN         string          `db:"gstin" json:"gstin"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	MatchStatus   MatchStatus     `db:"match_status" json:"match_status"`
	Difference    decimal.Decimal `db:"difference" json:"difference"`
	Ambiguous     bool            `db:"ambiguous" json:"ambiguous"`
	FuzzyMatched  bool            `db:"fuzzy_matched" json:"fuzzy_matched"`
	BooksTaxable  decimal.Decimal `db:"books_taxable" json:"books_taxable"`
	BooksTax      decimal.Decimal `db:"books_tax" json:"books_tax"`
	FeedTaxable   decimal.Decimal `db:"feed_taxable" json:"feed_taxable"`
	FeedTax       decimal.Decimal `db:"feed_tax" json:"feed_tax"`
	// FeedInvoiceNumber differs from InvoiceNumber only for fuzzy matches.
	FeedInvoiceNumber string `db:"feed_invoice_number" json:"feed_invoice_number,omitempty"`
}

// ReconSummary aggregates a run's verdicts.
type ReconSummary struct {
	Matched       int             `json:"matched"`
	ValueMismatch int             `json:"value_mismatch"`
	OnlyInBooks   int             `json:"only_in_books"`
	OnlyInFeed    int             `json:"only_in_feed"`
	BooksTotal    decimal.Decimal `json:"books_total"`
	FeedTotal     decimal.Decimal `json:"feed_total"`
	NetDifference decimal.Decimal `json:"net_difference"`
}

// ReconRun is one persisted reconciliation execution.
type ReconRun struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	GSTIN     string          `db:"gstin" json:"gstin"`
	Period    string          `db:"period" json:"period"`
	Tolerance decimal.Decimal `db:"tolerance" json:"tolerance"`
	Summary   json.RawMessage `db:"summary" json:"summary"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// ITCRecord is the per-invoice credit eligibility state machine record.
type ITCRecord struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	InvoiceRef      string      `db:"invoice_ref" json:"invoice_ref"`
	SupplierGSTIN   string      `db:"supplier_gstin" json:"supplier_gstin"`
	InvoiceDate     time.Time   `db:"invoice_date" json:"invoice_date"`
	Tax             TaxHeads    `db:"-" json:"tax"`
	GoodsReceived   bool        `db:"goods_received" json:"goods_received"`
	InvoiceReceived bool        `db:"invoice_received" json:"invoice_received"`
	PaymentMade     bool        `db:"payment_made" json:"payment_made"`
	FeedMatched     bool        `db:"feed_matched" json:"feed_matched"`
	FeedMismatched  bool        `db:"feed_mismatched" json:"feed_mismatched"`
	PaymentDate     *time.Time  `db:"payment_date" json:"payment_date,omitempty"`
	PaymentDeadline time.Time   `db:"payment_deadline" json:"payment_deadline"`
	IsExpired       bool        `db:"is_expired" json:"is_expired"`
	Status          ITCStatus   `db:"status" json:"status"`
	ClaimStatus     ClaimStatus `db:"claim_status" json:"claim_status"`
	// ReversalRequired flags credit that was claimed before expiry and must
	// now be reversed in the next return.
	ReversalRequired bool      `db:"reversal_required" json:"reversal_required"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Conditions returns the eligibility condition map keyed the way the
// eligibility report presents it.
func (r *ITCRecord) Conditions() map[ITCEvent]bool {
	return map[ITCEvent]bool{
		ITCEventGoodsReceived:   r.GoodsReceived,
		ITCEventInvoiceReceived: r.InvoiceReceived,
		ITCEventPaymentMade:     r.PaymentMade,
		ITCEventFeedMatched:     r.FeedMatched,
	}
}

// TDSDeduction is one tax amount withheld at payment time.
type TDSDeduction struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	VendorID      string           `db:"vendor_id" json:"vendor_id"`
	Section       string           `db:"section" json:"section"`
	GrossAmount   decimal.Decimal  `db:"gross_amount" json:"gross_amount"`
	Rate          decimal.Decimal  `db:"rate" json:"rate"`
	LowerRate     *decimal.Decimal `db:"lower_rate" json:"lower_rate,omitempty"`
	TaxAmount     decimal.Decimal  `db:"tax_amount" json:"tax_amount"`
	PaymentDate   time.Time        `db:"payment_date" json:"payment_date"`
	FinancialYear string           `db:"financial_year" json:"financial_year"`
	Quarter       int              `db:"quarter" json:"quarter"`
	ChallanRef    *string          `db:"challan_ref" json:"challan_ref,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

// TDSChallan is a payment voucher grouping deductions for deposit.
// Immutable once deposited.
type TDSChallan struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	ChallanNumber string          `db:"challan_number" json:"challan_number"`
	Sequence      int             `db:"sequence" json:"sequence"`
	FinancialYear string          `db:"financial_year" json:"financial_year"`
	Quarter       int             `db:"quarter" json:"quarter"`
	AmountTotal   decimal.Decimal `db:"amount_total" json:"amount_total"`
	Status        ChallanStatus   `db:"status" json:"status"`
	DepositedAt   *time.Time      `db:"deposited_at" json:"deposited_at,omitempty"`
	DeductionRefs []uuid.UUID     `db:"-" json:"deduction_refs"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// TDSCertificate certifies deposited deductions to a vendor for a quarter.
type TDSCertificate struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	CertificateNumber string          `db:"certificate_number" json:"certificate_number"`
	Sequence          int             `db:"sequence" json:"sequence"`
	VendorID          string          `db:"vendor_id" json:"vendor_id"`
	FinancialYear     string          `db:"financial_year" json:"financial_year"`
	Quarter           int             `db:"quarter" json:"quarter"`
	GrossTotal        decimal.Decimal `db:"gross_total" json:"gross_total"`
	TaxTotal          decimal.Decimal `db:"tax_total" json:"tax_total"`
	DeductionCount    int             `db:"deduction_count" json:"deduction_count"`
	IssuedAt          time.Time       `db:"issued_at" json:"issued_at"`
}
