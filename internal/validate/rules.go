package validate

import (
	"fmt"

	"taxos/internal/domain"
	"taxos/internal/tax"
)

// Result is the outcome of one rule against one record.
type Result struct {
	Passed   bool   `json:"passed"`
	RecordID string `json:"record_id"`
	RuleKey  string `json:"rule_key"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Message  string `json:"message"`
}

// invoiceRule checks one aspect of an outward invoice.
type invoiceRule struct {
	ruleKey  string
	ruleName string
	validate func(*domain.OutwardInvoice) Result
}

func ruleResult(passed bool, inv *domain.OutwardInvoice, ruleKey, ruleName, expected, actual string) Result {
	msg := fmt.Sprintf("%s: ok", ruleName)
	if !passed {
		msg = fmt.Sprintf("%s: expected %s, got %s", ruleName, expected, actual)
	}
	return Result{
		Passed: passed, RecordID: inv.InvoiceNumber,
		RuleKey: ruleKey, Expected: expected, Actual: actual, Message: msg,
	}
}

// invoiceRules returns the ingestion rules in evaluation order.
func invoiceRules() []invoiceRule {
	return []invoiceRule{
		{
			ruleKey: "edge.gstin.checksum", ruleName: "Edge: Counterparty GSTIN",
			validate: func(inv *domain.OutwardInvoice) Result {
				// Unregistered counterparties carry no GSTIN.
				if !inv.CounterpartyRegistered {
					return ruleResult(true, inv, "edge.gstin.checksum", "Edge: Counterparty GSTIN", "no GSTIN required", "")
				}
				passed := ValidGSTIN(inv.CounterpartyGSTIN)
				return ruleResult(passed, inv, "edge.gstin.checksum", "Edge: Counterparty GSTIN",
					"15-char GSTIN with valid checksum", inv.CounterpartyGSTIN)
			},
		},
		{
			ruleKey: "edge.rate.allowed", ruleName: "Edge: Rate Slab",
			validate: func(inv *domain.OutwardInvoice) Result {
				passed := tax.RateAllowed(inv.Rate)
				return ruleResult(passed, inv, "edge.rate.allowed", "Edge: Rate Slab",
					"one of 0, 5, 12, 18, 28", inv.Rate.String())
			},
		},
		{
			ruleKey: "edge.amount.nonnegative", ruleName: "Edge: Amount",
			validate: func(inv *domain.OutwardInvoice) Result {
				passed := !inv.Amount.IsNegative()
				return ruleResult(passed, inv, "edge.amount.nonnegative", "Edge: Amount",
					">= 0", inv.Amount.String())
			},
		},
		{
			ruleKey: "edge.place_of_supply", ruleName: "Edge: Place of Supply",
			validate: func(inv *domain.OutwardInvoice) Result {
				// Exports carry no destination state code.
				if inv.IsExport {
					return ruleResult(true, inv, "edge.place_of_supply", "Edge: Place of Supply", "not required for export", "")
				}
				passed := ValidStateCode(inv.PlaceOfSupply)
				return ruleResult(passed, inv, "edge.place_of_supply", "Edge: Place of Supply",
					"2-digit state code (01-38)", inv.PlaceOfSupply)
			},
		},
		{
			ruleKey: "edge.invoice_number", ruleName: "Edge: Invoice Number",
			validate: func(inv *domain.OutwardInvoice) Result {
				passed := inv.InvoiceNumber != ""
				return ruleResult(passed, inv, "edge.invoice_number", "Edge: Invoice Number",
					"non-empty", inv.InvoiceNumber)
			},
		},
		{
			ruleKey: "edge.invoice_date", ruleName: "Edge: Invoice Date",
			validate: func(inv *domain.OutwardInvoice) Result {
				passed := !inv.InvoiceDate.IsZero()
				return ruleResult(passed, inv, "edge.invoice_date", "Edge: Invoice Date",
					"non-zero date", inv.InvoiceDate.Format("2006-01-02"))
			},
		},
	}
}

// Invoice runs all ingestion rules against a single invoice and returns the
// failures. An empty slice means the record may enter classification.
func Invoice(inv *domain.OutwardInvoice) []Result {
	var failures []Result
	for _, r := range invoiceRules() {
		if res := r.validate(inv); !res.Passed {
			failures = append(failures, res)
		}
	}
	return failures
}

// Batch screens a snapshot of invoices, returning the accepted records and
// a per-record error for every rejected one.
func Batch(invs []domain.OutwardInvoice) ([]domain.OutwardInvoice, []domain.RecordError) {
	accepted := make([]domain.OutwardInvoice, 0, len(invs))
	var rejected []domain.RecordError
	for i := range invs {
		failures := Invoice(&invs[i])
		if len(failures) == 0 {
			accepted = append(accepted, invs[i])
			continue
		}
		for _, f := range failures {
			rejected = append(rejected, domain.RecordError{
				RecordID: f.RecordID,
				Rule:     f.RuleKey,
				Expected: f.Expected,
				Actual:   f.Actual,
				Message:  f.Message,
			})
		}
	}
	return accepted, rejected
}
