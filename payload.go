package dougs

import (
	"encoding/json"
)

const (
	// CounterpartCategoryID is the category left for the server to resolve.
	CounterpartCategoryID int64 = -1

	operationTypeMileage = "kilometricIndemnity"
	operationTypeExpense = "expense"
	operationDateLayout  = "2006-01-02T15:04:05.000Z07:00"
)

// NewOperation is the body sent to create an operation.
type NewOperation struct {
	Type   string   `json:"type"`
	Date   string   `json:"date"`
	Memo   string   `json:"memo,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
	// Attachments is nil for mileage and empty for expenses.
	Attachments []json.RawMessage `json:"attachments,omitzero"`
	Breakdowns  []Breakdown       `json:"breakdowns"`
}

// Breakdown allocates part of an operation to a category.
type Breakdown struct {
	Amount          float64          `json:"amount"`
	CategoryID      int64            `json:"categoryId"`
	IsCounterpart   bool             `json:"isCounterpart,omitempty"`
	AssociationData *AssociationData `json:"associationData,omitempty"`
	*VATOverride
}

// AssociationData links a breakdown to a car, partner or exemption reason.
type AssociationData struct {
	Kilometers         *int   `json:"kilometers,omitempty"`
	CarID              *int64 `json:"carId,omitempty"`
	PartnerID          *int64 `json:"partnerId,omitempty"`
	VATExemptionReason string `json:"vatExemptionReason,omitempty"`
}

// VATOverride forces VAT to zero on an exempt expense line.
type VATOverride struct {
	AmountExcludingTaxesWithRecoverageRate float64 `json:"amountExcludingTaxesWithRecoverageRate"`
	// VATRate is always sent as null.
	VATRate         *float64 `json:"vatRate"`
	VATAmount       float64  `json:"vatAmount"`
	ManualVATAmount float64  `json:"manualVatAmount"`
}

// BuildMileageOperation returns the creation body for a mileage allowance.
// The server computes the amount from the distance.
func BuildMileageOperation(m MileageInfos) NewOperation {
	kilometers := m.Distance
	return NewOperation{
		Type: operationTypeMileage,
		Date: m.Date.Format(operationDateLayout),
		Memo: m.Memo,
		Breakdowns: []Breakdown{{
			Amount:     0,
			CategoryID: CounterpartCategoryID,
			AssociationData: &AssociationData{
				Kilometers: &kilometers,
				CarID:      m.CarID,
			},
		}},
	}
}

// BuildExpenseOperation returns the creation body for an expense.
// Amounts are converted from cents to currency units.
func BuildExpenseOperation(e ExpenseInfos) NewOperation {
	amount := float64(e.Amount) / 100
	partnerID := e.PartnerID

	line := Breakdown{
		Amount:     amount,
		CategoryID: e.CategoryID,
	}
	if e.VATExemption.Exempt() {
		line.VATOverride = &VATOverride{AmountExcludingTaxesWithRecoverageRate: amount}
		if reason := e.VATExemption.Reason(); reason != "" {
			line.AssociationData = &AssociationData{VATExemptionReason: reason}
		}
	}

	return NewOperation{
		Type:        operationTypeExpense,
		Date:        e.Date.Format(operationDateLayout),
		Memo:        e.Memo,
		Amount:      &amount,
		Attachments: []json.RawMessage{},
		Breakdowns: []Breakdown{
			line,
			{
				Amount:          0,
				CategoryID:      CounterpartCategoryID,
				IsCounterpart:   true,
				AssociationData: &AssociationData{PartnerID: &partnerID},
			},
		},
	}
}
