package schema

import (
	"encoding/json"

	"github.com/google/uuid"
)

type Company struct {
	ID        int64  `json:"id"`
	BrandName string `json:"brandName"`
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email" validate:"email"`
	Company   Company   `json:"company"`
	Companies []Company `json:"companies"`
}

// NaturalPerson is the person record attached to partners and cars.
type NaturalPerson struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Initials  string `json:"initials"`
}

type CarContent struct {
	LicensePlate string `json:"licensePlate"`
}

type CarPartner struct {
	NaturalPerson NaturalPerson `json:"naturalPerson"`
}

type Car struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Content CarContent `json:"content"`
	Partner CarPartner `json:"partner"`
}

type Category struct {
	ID          int64    `json:"id"`
	Wording     string   `json:"wording"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

type Partner struct {
	ID            int64         `json:"id"`
	Position      string        `json:"position"`
	NaturalPerson NaturalPerson `json:"naturalPerson"`
}

// Operation is an accounting entry. Breakdowns are kept as raw JSON: the
// client never interprets existing allocations.
type Operation struct {
	ID          int64             `json:"id"`
	CompanyID   int64             `json:"companyId"`
	Type        string            `json:"type"`
	Amount      float64           `json:"amount"`
	Date        Date              `json:"date"`
	Wording     string            `json:"wording"`
	Name        string            `json:"name"`
	HasVAT      bool              `json:"hasVat"`
	VATRate     *float64          `json:"vatRate"`
	VATAmount   *float64          `json:"vatAmount"`
	TotalAmount float64           `json:"totalAmount"`
	Memo        *string           `json:"memo"`
	Validated   bool              `json:"validated"`
	Breakdowns  []json.RawMessage `json:"breakdowns"`
}

// UploadVendorInvoiceResponse describes the vendor invoice created from an upload.
type UploadVendorInvoiceResponse struct {
	ID                         uuid.UUID         `json:"id"`
	CreatedAt                  Timestamp         `json:"createdAt"`
	UpdatedAt                  Timestamp         `json:"updatedAt"`
	FileName                   string            `json:"fileName"`
	OwnerID                    string            `json:"ownerId"`
	Memo                       *string           `json:"memo"`
	PaymentStatus              string            `json:"paymentStatus" validate:"oneof=not_paid paid"`
	PrefillStatus              string            `json:"prefillStatus" validate:"oneof=initialised prefilled"`
	Amount                     *float64          `json:"amount"`
	IsLocked                   bool              `json:"isLocked"`
	FileID                     int64             `json:"fileId"`
	FilePath                   string            `json:"filePath"`
	FileType                   string            `json:"fileType"`
	Label                      string            `json:"label"`
	SupplierName               *string           `json:"supplierName"`
	SupplierCountry            *string           `json:"supplierCountry"`
	ClientName                 string            `json:"clientName"`
	ClientCountry              *string           `json:"clientCountry"`
	AmountTVA                  *float64          `json:"amountTva"`
	Currency                   string            `json:"currency"`
	IsRefund                   *bool             `json:"isRefund"`
	Type                       *string           `json:"type"`
	Reference                  *string           `json:"reference"`
	TransactionType            *string           `json:"transactionType"`
	Date                       *Timestamp        `json:"date"`
	CompanyID                  int64             `json:"companyId"`
	SourceDocumentID           int64             `json:"sourceDocumentId"`
	OperationAttachments       []json.RawMessage `json:"operationAttachments"`
	AccrualOperationAttachment json.RawMessage   `json:"accrualOperationAttachment"`
	OperationCandidate         json.RawMessage   `json:"operationCandidate"`
	ReceiptID                  int64             `json:"receiptId"`
	Operations                 []json.RawMessage `json:"operations"`
	MatchedOperation           json.RawMessage   `json:"matchedOperation"`
}
