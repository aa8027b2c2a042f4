package dougs

import (
	"time"

	"github.com/dmitrymomot/dougs/pkg/schema"
)

// Response types returned by the client. They are validated before being
// handed out, see package schema.
type (
	Company                     = schema.Company
	User                        = schema.User
	NaturalPerson               = schema.NaturalPerson
	Car                         = schema.Car
	Category                    = schema.Category
	Partner                     = schema.Partner
	Operation                   = schema.Operation
	UploadVendorInvoiceResponse = schema.UploadVendorInvoiceResponse
)

// VATExemption marks an expense as exempt from VAT, optionally with a reason.
type VATExemption string

const (
	// NoVATExemption leaves VAT to be computed by the server.
	NoVATExemption VATExemption = ""
	// VATExempt sets VAT to zero without giving a reason.
	VATExempt VATExemption = "exempt"
	// VATExemptionOutsideEU sets VAT to zero for purchases outside the EU.
	VATExemptionOutsideEU VATExemption = "exemption:outbound:outsideEuropeanUnion"
)

// Exempt reports whether VAT must be zeroed.
func (v VATExemption) Exempt() bool {
	return v != NoVATExemption
}

// Reason returns the exemption reason sent to the API, if any.
func (v VATExemption) Reason() string {
	if v == NoVATExemption || v == VATExempt {
		return ""
	}
	return string(v)
}

// MileageInfos describes a mileage allowance (indemnités kilométriques).
type MileageInfos struct {
	Date time.Time `json:"date" validate:"required"`
	// Distance in kilometres.
	Distance int    `json:"distance" validate:"gte=0"`
	Memo     string `json:"memo"`
	// CarID is optional; nil leaves the car unset.
	CarID *int64 `json:"carId" validate:"omitempty,gt=0"`
}

// ExpenseInfos describes an expense paid on behalf of the company.
type ExpenseInfos struct {
	Date time.Time `json:"date" validate:"required"`
	// Amount in cents.
	Amount       int64        `json:"amount"`
	CategoryID   int64        `json:"categoryId" validate:"required"`
	PartnerID    int64        `json:"partnerId"`
	Memo         string       `json:"memo"`
	VATExemption VATExemption `json:"vatExemption" validate:"omitempty,oneof=exempt exemption:outbound:outsideEuropeanUnion"`
}

// ListOperationsParams paginates ListOperations. Zero values are not sent.
type ListOperationsParams struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0"`
}

// OperationPatch is a partial operation document merged into the current
// one by UpdateOperation.
type OperationPatch map[string]any
