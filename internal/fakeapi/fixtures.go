package fakeapi

import (
	"time"
)

// InvoiceID is the id of every uploaded vendor invoice.
const InvoiceID = "5f0c9a52-8d2e-4c5b-9a61-0d7e4f3b2a19"

const userFixture = `{
	"id": 7,
	"email": "jane@example.com",
	"firstName": "Jane",
	"company": {"id": 42, "brandName": "Acme"},
	"companies": [
		{"id": 42, "brandName": "Acme"},
		{"id": 43, "brandName": "Acme Holding", "legalForm": "SAS"}
	]
}`

const carsFixture = `[
	{
		"id": 11,
		"name": "Clio",
		"content": {"licensePlate": "AB-123-CD", "fiscalPower": 4},
		"partner": {
			"naturalPerson": {
				"id": 5,
				"firstName": "Jane",
				"lastName": "Doe",
				"fullName": "Jane Doe",
				"initials": "JD"
			}
		}
	}
]`

const categoriesFixture = `[
	{"id": 7, "wording": "Fournitures", "keywords": ["papier", "stylo"], "description": "Petit matériel"},
	{"id": 8, "wording": "Restaurant", "keywords": [], "description": ""}
]`

const partnersFixture = `[
	{
		"id": 3,
		"position": "Gérant",
		"naturalPerson": {
			"id": 5,
			"firstName": "Jane",
			"lastName": "Doe",
			"fullName": "Jane Doe",
			"initials": "JD"
		}
	}
]`

func uploadResponse(companyID int64, filename, contentType string) map[string]any {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return map[string]any{
		"id":                         InvoiceID,
		"createdAt":                  now,
		"updatedAt":                  now,
		"fileName":                   filename,
		"ownerId":                    "user-7",
		"memo":                       nil,
		"paymentStatus":              "not_paid",
		"prefillStatus":              "initialised",
		"amount":                     nil,
		"isLocked":                   false,
		"fileId":                     901,
		"filePath":                   "vendor-invoices/" + filename,
		"fileType":                   contentType,
		"label":                      filename,
		"supplierName":               nil,
		"supplierCountry":            nil,
		"clientName":                 "Acme",
		"clientCountry":              nil,
		"amountTva":                  nil,
		"currency":                   "EUR",
		"isRefund":                   nil,
		"type":                       nil,
		"reference":                  nil,
		"transactionType":            nil,
		"date":                       nil,
		"companyId":                  companyID,
		"sourceDocumentId":           77,
		"operationAttachments":       []any{},
		"accrualOperationAttachment": nil,
		"operationCandidate":         nil,
		"receiptId":                  12,
		"operations":                 []any{},
		"matchedOperation":           nil,
	}
}
