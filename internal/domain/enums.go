package domain

// InvoiceCategory is the regulatory bucket an outward invoice falls into.
type InvoiceCategory string

const (
	CategoryB2B        InvoiceCategory = "B2B"
	CategoryB2CL       InvoiceCategory = "B2CL"
	CategoryB2CS       InvoiceCategory = "B2CS"
	CategoryCreditNote InvoiceCategory = "CREDIT_NOTE"
	CategoryDebitNote  InvoiceCategory = "DEBIT_NOTE"
	CategoryExport     InvoiceCategory = "EXPORT"
	CategoryNil        InvoiceCategory = "NIL"
)

// NoteType distinguishes credit notes from debit notes.
type NoteType string

const (
	NoteTypeCredit NoteType = "credit"
	NoteTypeDebit  NoteType = "debit"
)

// ReturnType identifies the statutory return form.
type ReturnType string

const (
	ReturnTypeGSTR1  ReturnType = "GSTR1"
	ReturnTypeGSTR3B ReturnType = "GSTR3B"
)

// ReturnStatus is the lifecycle state of a periodic return.
type ReturnStatus string

const (
	ReturnStatusDraft     ReturnStatus = "DRAFT"
	ReturnStatusGenerated ReturnStatus = "GENERATED"
	ReturnStatusValidated ReturnStatus = "VALIDATED"
	ReturnStatusSubmitted ReturnStatus = "SUBMITTED"
	ReturnStatusFiled     ReturnStatus = "FILED"
	ReturnStatusError     ReturnStatus = "ERROR"
)

// returnTransitions defines the allowed forward transitions. ERROR is
// reachable from any state.
var returnTransitions = map[ReturnStatus]ReturnStatus{
	ReturnStatusDraft:     ReturnStatusGenerated,
	ReturnStatusGenerated: ReturnStatusValidated,
	ReturnStatusValidated: ReturnStatusSubmitted,
	ReturnStatusSubmitted: ReturnStatusFiled,
}

// CanTransition reports whether the status may move to next.
func (s ReturnStatus) CanTransition(next ReturnStatus) bool {
	if next == ReturnStatusError {
		return true
	}
	return returnTransitions[s] == next
}

// MatchStatus classifies a reconciliation unit.
type MatchStatus string

const (
	MatchStatusMatched       MatchStatus = "matched"
	MatchStatusValueMismatch MatchStatus = "value_mismatch"
	MatchStatusOnlyInBooks   MatchStatus = "only_in_books"
	MatchStatusOnlyInFeed    MatchStatus = "only_in_feed"
)

// ReconSource tags which side a purchase record came from.
type ReconSource string

const (
	ReconSourceBooks ReconSource = "books"
	ReconSourceFeed  ReconSource = "feed"
)

// ITCStatus is the eligibility state of an input tax credit record.
type ITCStatus string

const (
	ITCStatusPending    ITCStatus = "pending"
	ITCStatusEligible   ITCStatus = "eligible"
	ITCStatusAtRisk     ITCStatus = "at_risk"
	ITCStatusIneligible ITCStatus = "ineligible"
	ITCStatusExpired    ITCStatus = "expired"
	ITCStatusClaimed    ITCStatus = "claimed"
	ITCStatusReversed   ITCStatus = "reversed"
)

// ClaimStatus tracks what has been done with the credit itself.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusClaimed  ClaimStatus = "claimed"
	ClaimStatusReversed ClaimStatus = "reversed"
	ClaimStatusLapsed   ClaimStatus = "lapsed"
)

// ITCEvent is an external condition update keyed by invoice reference.
type ITCEvent string

const (
	ITCEventGoodsReceived   ITCEvent = "goods_received"
	ITCEventInvoiceReceived ITCEvent = "invoice_received"
	ITCEventPaymentMade     ITCEvent = "payment_made"
	ITCEventFeedMatched     ITCEvent = "feed_matched"
	ITCEventFeedMismatch    ITCEvent = "feed_mismatch"
)

// ITCSource categorises where claimed input credit came from.
type ITCSource string

const (
	ITCSourceImport        ITCSource = "import"
	ITCSourceReverseCharge ITCSource = "reverse_charge"
	ITCSourceISD           ITCSource = "isd"
	ITCSourceOther         ITCSource = "other"
)

// ChallanStatus is the deposit state of a TDS challan.
type ChallanStatus string

const (
	ChallanStatusPending   ChallanStatus = "pending"
	ChallanStatusDeposited ChallanStatus = "deposited"
)
