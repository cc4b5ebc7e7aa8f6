package ubl

import (
	"github.com/rezonia/ehf-generator/internal/model"
)

// Invoice is the root of a UBL 2.1 invoice document
type Invoice struct {
	CustomizationID *Identifier
	ProfileID       *Identifier
	ID              *Identifier
	IssueDate       Date
	DueDate         *Date
	InvoiceTypeCode *Code
	Note            *Text
	TaxPointDate    *Date

	DocumentCurrencyCode *Code
	TaxCurrencyCode      *Code
	AccountingCost       *Text
	BuyerReference       *Text

	InvoicePeriod                *Period
	OrderReference               *OrderReference
	ContractDocumentReference    *DocumentReference
	AdditionalDocumentReferences []DocumentReference

	AccountingSupplierParty *Party
	AccountingCustomerParty *Party
	PayeeParty              *Party
	TaxRepresentativeParty  *Party

	PaymentMeans     []PaymentMeans
	PaymentTerms     *PaymentTerms
	AllowanceCharges []AllowanceCharge
	TaxTotals        []TaxTotal

	LegalMonetaryTotal *MonetaryTotal
	InvoiceLines       []InvoiceLine
}

// Period is a date range
type Period struct {
	StartDate *Date
	EndDate   *Date
}

// OrderReference points at the buyer's purchase order
type OrderReference struct {
	ID           *Identifier
	SalesOrderID *Identifier
}

// OrderLineReference points at a line of the buyer's purchase order
type OrderLineReference struct {
	LineID *Identifier
}

// DocumentReference points at a supporting document, optionally embedding it
type DocumentReference struct {
	ID                  *Identifier
	DocumentTypeCode    *Code
	DocumentDescription *Text
	Attachment          *Attachment
}

// Attachment carries either embedded content or an external URI
type Attachment struct {
	EmbeddedDocument *BinaryObject
	ExternalURI      string
}

// Party is a supplier, customer, payee or tax representative
type Party struct {
	EndpointID          *Identifier
	PartyIdentification []PartyIdentification
	PartyName           *PartyName
	PostalAddress       *Address
	PartyTaxSchemes     []PartyTaxScheme
	PartyLegalEntity    *PartyLegalEntity
	Contact             *Contact
}

// PartyIdentification is an additional identifier of a party
type PartyIdentification struct {
	ID *Identifier
}

// PartyName is the trading name of a party
type PartyName struct {
	Name *Text
}

// Address is a postal address
type Address struct {
	StreetName           *Text
	AdditionalStreetName *Text
	CityName             *Text
	PostalZone           *Text
	CountrySubentity     *Text
	AddressLines         []AddressLine
	Country              *Country
}

// AddressLine is a free-form address line
type AddressLine struct {
	Line *Text
}

// Country holds the country code of an address
type Country struct {
	IdentificationCode *Code
}

// PartyTaxScheme is a tax registration of a party
type PartyTaxScheme struct {
	CompanyID *Identifier
	TaxScheme *TaxScheme
}

// TaxScheme identifies the tax regime
type TaxScheme struct {
	ID *Identifier
}

// PartyLegalEntity is the legal registration of a party
type PartyLegalEntity struct {
	RegistrationName *Text
	CompanyID        *Identifier
	CompanyLegalForm *Text
}

// Contact is a contact point of a party
type Contact struct {
	Name           *Text
	Telephone      *Text
	ElectronicMail *Text
}

// IsEmpty reports whether the contact carries no values
func (c *Contact) IsEmpty() bool {
	return c == nil || (c.Name == nil && c.Telephone == nil && c.ElectronicMail == nil)
}

// PaymentMeans describes how the invoice is to be paid
type PaymentMeans struct {
	PaymentMeansCode      *Code
	PaymentID             *Identifier
	PayeeFinancialAccount *FinancialAccount
}

// FinancialAccount is the payee's bank account
type FinancialAccount struct {
	ID                         *Identifier
	Name                       *Text
	FinancialInstitutionBranch *Branch
}

// Branch identifies the bank, usually by BIC
type Branch struct {
	ID   *Identifier
	Name *Text
}

// PaymentTerms is free-text payment terms
type PaymentTerms struct {
	Note *Text
}

// AllowanceCharge is a discount or surcharge
type AllowanceCharge struct {
	ChargeIndicator           Indicator
	AllowanceChargeReasonCode *Code
	AllowanceChargeReason     *Text
	MultiplierFactorNumeric   *Numeric
	Amount                    *Amount
	BaseAmount                *Amount
	TaxCategory               *TaxCategory
}

// TaxTotal is the document tax total with its breakdown
type TaxTotal struct {
	TaxAmount    *Amount
	TaxSubtotals []TaxSubtotal
}

// TaxSubtotal is the tax of one category and rate
type TaxSubtotal struct {
	TaxableAmount *Amount
	TaxAmount     *Amount
	TaxCategory   *TaxCategory
}

// TaxCategory classifies how VAT applies to an amount
type TaxCategory struct {
	ID                     *Identifier
	Percent                *Numeric
	TaxExemptionReasonCode *Code
	TaxExemptionReason     *Text
	TaxScheme              *TaxScheme
}

// MonetaryTotal holds the document level totals
type MonetaryTotal struct {
	LineExtensionAmount   *Amount
	TaxExclusiveAmount    *Amount
	TaxInclusiveAmount    *Amount
	AllowanceTotalAmount  *Amount
	ChargeTotalAmount     *Amount
	PrepaidAmount         *Amount
	PayableRoundingAmount *Amount
	PayableAmount         *Amount
}

// InvoiceLine is one line of the invoice
type InvoiceLine struct {
	ID                  *Identifier
	Note                *Text
	InvoicedQuantity    *Quantity
	LineExtensionAmount *Amount
	AccountingCost      *Text
	InvoicePeriod       *Period
	OrderLineReference  *OrderLineReference
	DocumentReference   *DocumentReference
	AllowanceCharges    []AllowanceCharge
	Item                *Item
	Price               *Price
}

// Item describes what is invoiced on a line
type Item struct {
	Description                *Text
	Name                       *Text
	BuyersItemIdentification   *ItemIdentification
	SellersItemIdentification  *ItemIdentification
	StandardItemIdentification *ItemIdentification
	OriginCountry              *Country
	CommodityClassifications   []CommodityClassification
	ClassifiedTaxCategory      *TaxCategory
	AdditionalItemProperties   []ItemProperty
}

// ItemIdentification identifies an item
type ItemIdentification struct {
	ID *Identifier
}

// CommodityClassification classifies an item in a code list
type CommodityClassification struct {
	ItemClassificationCode *Code
}

// ItemProperty is a name/value pair describing an item
type ItemProperty struct {
	Name  *Text
	Value *Text
}

// Price is the unit price of an item
type Price struct {
	PriceAmount     *Amount
	BaseQuantity    *Quantity
	AllowanceCharge *AllowanceCharge
}

// Validate checks the structural invariants the serializer depends on
func (inv *Invoice) Validate() error {
	if inv == nil {
		return model.NewInvariantError(model.StageSerialize, "invoice is nil", nil)
	}
	if inv.ID == nil || inv.ID.Value == "" {
		return model.NewInvariantError(model.StageSerialize, "invoice has no ID", nil)
	}
	if inv.IssueDate.IsZero() {
		return model.NewInvariantError(model.StageSerialize, "invoice has no issue date", nil)
	}
	if inv.DocumentCurrencyCode == nil || inv.DocumentCurrencyCode.Value == "" {
		return model.NewInvariantError(model.StageSerialize, "invoice has no currency", nil)
	}
	if inv.AccountingSupplierParty == nil {
		return model.NewInvariantError(model.StageSerialize, "invoice has no supplier party", nil)
	}
	if inv.AccountingCustomerParty == nil {
		return model.NewInvariantError(model.StageSerialize, "invoice has no customer party", nil)
	}

	hasBuyerRef := inv.BuyerReference != nil && inv.BuyerReference.Value != ""
	hasOrderRef := inv.OrderReference != nil && inv.OrderReference.ID != nil && inv.OrderReference.ID.Value != ""
	if hasBuyerRef == hasOrderRef {
		return model.NewInvariantError(model.StageSerialize, "exactly one of buyer reference and order reference is required", nil)
	}

	if len(inv.TaxTotals) != 1 {
		return model.NewInvariantError(model.StageSerialize, "exactly one tax total is required", nil)
	}
	if inv.LegalMonetaryTotal == nil || inv.LegalMonetaryTotal.PayableAmount == nil {
		return model.NewInvariantError(model.StageSerialize, "invoice has no monetary total", nil)
	}
	if len(inv.InvoiceLines) == 0 {
		return model.NewInvariantError(model.StageSerialize, "invoice has no lines", nil)
	}
	return nil
}
