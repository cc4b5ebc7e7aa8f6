package model

import (
	"github.com/shopspring/decimal"
)

// DeliveryMethod selects how a generated invoice leaves the system
type DeliveryMethod string

const (
	DeliveryEHF         DeliveryMethod = "EHF"
	DeliveryEFakturaB2C DeliveryMethod = "EFAKTURA_B2C"
	DeliveryEmail       DeliveryMethod = "EMAIL"
)

// Input is the flat record set the mapper turns into one EHF invoice
type Input struct {
	Supplier Supplier      `json:"supplier"`
	Buyer    Buyer         `json:"buyer"`
	Invoice  InvoiceRecord `json:"invoice"`
	Lines    []Line        `json:"lines" validate:"required,min=1,dive"`
}

// Supplier is the issuing company
type Supplier struct {
	OrganizationNumber string `json:"organization_number" validate:"required,numeric,len=9"`
	CompanyName        string `json:"company_name" validate:"required"`
	LegalForm          string `json:"legal_form,omitempty"`
	ContactPerson      string `json:"contact_person,omitempty"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	PostalCode         string `json:"postal_code,omitempty"`
	City               string `json:"city,omitempty"`
	Country            string `json:"country,omitempty"` // free text, e.g. "Norge"
	BankAccount        string `json:"bank_account,omitempty"`
	BankName           string `json:"bank_name,omitempty"`
	IBAN               string `json:"iban,omitempty"`
	SwiftBIC           string `json:"swift_bic,omitempty"`
	EndpointID         string `json:"endpoint_id,omitempty"`
	EndpointScheme     string `json:"endpoint_scheme,omitempty"`
}

// Buyer is the invoiced client as captured on the invoice
type Buyer struct {
	Name               string `json:"name" validate:"required"`
	OrganizationNumber string `json:"organization_number,omitempty" validate:"omitempty,numeric,len=9"`
	ContactPerson      string `json:"contact_person,omitempty"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	PostalCode         string `json:"postal_code,omitempty"`
	City               string `json:"city,omitempty"`
	Country            string `json:"country,omitempty"`
	EndpointID         string `json:"endpoint_id,omitempty"`
	EndpointScheme     string `json:"endpoint_scheme,omitempty"`
}

// InvoiceRecord holds the invoice header and its stored totals
type InvoiceRecord struct {
	Number           string         `json:"number" validate:"required"`
	IssueDate        string         `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate          string         `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TaxPointDate     string         `json:"tax_point_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PeriodStart      string         `json:"period_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd        string         `json:"period_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Currency         string         `json:"currency" validate:"required,iso4217"`
	Note             string         `json:"note,omitempty"`
	AccountingCost   string         `json:"accounting_cost,omitempty"`
	BuyerReference   string         `json:"buyer_reference,omitempty"`
	OrderReference   string         `json:"order_reference,omitempty"`
	ContractID       string         `json:"contract_id,omitempty"`
	PaymentReference string         `json:"payment_reference,omitempty"`
	PaymentTerms     string         `json:"payment_terms,omitempty"`
	BankAccount      string         `json:"bank_account,omitempty"`
	SwiftBIC         string         `json:"swift_bic,omitempty"`
	DeliveryMethod   DeliveryMethod `json:"delivery_method,omitempty" validate:"omitempty,oneof=EHF EFAKTURA_B2C EMAIL"`

	Subtotal      *decimal.Decimal `json:"subtotal" validate:"required"`
	VATAmount     *decimal.Decimal `json:"vat_amount" validate:"required"`
	TotalAmount   *decimal.Decimal `json:"total_amount" validate:"required"`
	PrepaidAmount *decimal.Decimal `json:"prepaid_amount,omitempty"`

	Attachments        []Attachment        `json:"attachments,omitempty" validate:"omitempty,dive"`
	DocumentReferences []DocumentReference `json:"document_references,omitempty" validate:"omitempty,dive"`
}

// Line is one invoice line record
type Line struct {
	Number         int              `json:"number,omitempty" validate:"omitempty,min=1"`
	Description    string           `json:"description,omitempty"`
	ItemName       string           `json:"item_name,omitempty"`
	ItemID         string           `json:"item_id,omitempty"`
	UnitCode       string           `json:"unit_code,omitempty"`
	Quantity       *decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice      *decimal.Decimal `json:"unit_price" validate:"required"`
	VATRate        *decimal.Decimal `json:"vat_rate,omitempty"`
	VATAmount      *decimal.Decimal `json:"vat_amount,omitempty"`
	Note           string           `json:"note,omitempty"`
	AccountingCost string           `json:"accounting_cost,omitempty"`
	OrderLineID    string           `json:"order_line_id,omitempty"`
}

// Attachment is a supporting file embedded in the invoice
type Attachment struct {
	ID          string `json:"id" validate:"required"`
	Description string `json:"description,omitempty"`
	Filename    string `json:"filename" validate:"required"`
	Content     []byte `json:"content" validate:"required"`
}

// DocumentReference points at an external document by id and type code
type DocumentReference struct {
	ID       string `json:"id" validate:"required"`
	TypeCode string `json:"type_code,omitempty"`
}

// DisplayName returns the item name, or the description when no name is set
func (l Line) DisplayName() string {
	if l.ItemName != "" {
		return l.ItemName
	}
	return l.Description
}
