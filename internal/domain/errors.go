package domain

import "errors"

var (
	ErrInvalidRate            = errors.New("tax rate not in allowed set")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrInvalidGSTIN           = errors.New("invalid GSTIN")
	ErrReturnNotFound         = errors.New("return not found")
	ErrPeriodAlreadyFiled     = errors.New("return already filed for this period")
	ErrInvalidTransition      = errors.New("invalid return status transition")
	ErrRecordNotFound         = errors.New("record not found")
	ErrDuplicateInvoiceRef    = errors.New("invoice reference already registered")
	ErrReversedRecord         = errors.New("reversed credit cannot be resurrected")
	ErrNotClaimable           = errors.New("credit is not in an eligible state")
	ErrChallanDeposited       = errors.New("challan is deposited and immutable")
	ErrDeductionLinked        = errors.New("deduction already linked to a challan")
	ErrNoUnlinkedDeductions   = errors.New("no unlinked deductions for the period")
	ErrNoDepositedDeductions  = errors.New("no deposited deductions for certificate")
	ErrDuplicateChallanNumber = errors.New("challan number already used")
)
