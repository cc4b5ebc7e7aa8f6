package xml

import "encoding/xml"

// Wire structures for EHF / PEPPOL BIS 3.0 documents. The root is
// namespace-qualified; children match on local name, which is unique
// within every UBL parent used here.

type ublInvoice struct {
	XMLName xml.Name `xml:"urn:oasis:names:specification:ubl:schema:xsd:Invoice-2 Invoice"`

	CustomizationID      *ublIdentifier `xml:"CustomizationID"`
	ProfileID            *ublIdentifier `xml:"ProfileID"`
	ID                   *ublIdentifier `xml:"ID"`
	IssueDate            string         `xml:"IssueDate"`
	DueDate              string         `xml:"DueDate"`
	InvoiceTypeCode      *ublCode       `xml:"InvoiceTypeCode"`
	Note                 *ublText       `xml:"Note"`
	TaxPointDate         string         `xml:"TaxPointDate"`
	DocumentCurrencyCode *ublCode       `xml:"DocumentCurrencyCode"`
	TaxCurrencyCode      *ublCode       `xml:"TaxCurrencyCode"`
	AccountingCost       *ublText       `xml:"AccountingCost"`
	BuyerReference       *ublText       `xml:"BuyerReference"`

	InvoicePeriod                *ublPeriod            `xml:"InvoicePeriod"`
	OrderReference               *ublOrderReference    `xml:"OrderReference"`
	ContractDocumentReference    *ublDocumentReference `xml:"ContractDocumentReference"`
	AdditionalDocumentReferences []ublDocumentReference `xml:"AdditionalDocumentReference"`

	AccountingSupplierParty *ublPartyWrapper `xml:"AccountingSupplierParty"`
	AccountingCustomerParty *ublPartyWrapper `xml:"AccountingCustomerParty"`
	PayeeParty              *ublParty        `xml:"PayeeParty"`
	TaxRepresentativeParty  *ublParty        `xml:"TaxRepresentativeParty"`

	PaymentMeans     []ublPaymentMeans    `xml:"PaymentMeans"`
	PaymentTerms     *ublPaymentTerms     `xml:"PaymentTerms"`
	AllowanceCharges []ublAllowanceCharge `xml:"AllowanceCharge"`
	TaxTotals        []ublTaxTotal        `xml:"TaxTotal"`

	LegalMonetaryTotal *ublMonetaryTotal `xml:"LegalMonetaryTotal"`
	InvoiceLines       []ublInvoiceLine  `xml:"InvoiceLine"`
}

type ublIdentifier struct {
	Value          string `xml:",chardata"`
	SchemeID       string `xml:"schemeID,attr"`
	SchemeAgencyID string `xml:"schemeAgencyID,attr"`
}

type ublCode struct {
	Value         string `xml:",chardata"`
	ListID        string `xml:"listID,attr"`
	ListAgencyID  string `xml:"listAgencyID,attr"`
	ListVersionID string `xml:"listVersionID,attr"`
	Name          string `xml:"name,attr"`
}

type ublText struct {
	Value      string `xml:",chardata"`
	LanguageID string `xml:"languageID,attr"`
}

type ublAmount struct {
	Value      string `xml:",chardata"`
	CurrencyID string `xml:"currencyID,attr"`
}

type ublQuantity struct {
	Value    string `xml:",chardata"`
	UnitCode string `xml:"unitCode,attr"`
}

type ublBinaryObject struct {
	Value    string `xml:",chardata"`
	MimeCode string `xml:"mimeCode,attr"`
	Filename string `xml:"filename,attr"`
}

type ublPeriod struct {
	StartDate string `xml:"StartDate"`
	EndDate   string `xml:"EndDate"`
}

type ublOrderReference struct {
	ID           *ublIdentifier `xml:"ID"`
	SalesOrderID *ublIdentifier `xml:"SalesOrderID"`
}

type ublDocumentReference struct {
	ID                  *ublIdentifier `xml:"ID"`
	DocumentTypeCode    *ublCode       `xml:"DocumentTypeCode"`
	DocumentDescription *ublText       `xml:"DocumentDescription"`
	Attachment          *ublAttachment `xml:"Attachment"`
}

type ublAttachment struct {
	EmbeddedDocument  *ublBinaryObject `xml:"EmbeddedDocumentBinaryObject"`
	ExternalReference *struct {
		URI string `xml:"URI"`
	} `xml:"ExternalReference"`
}

type ublPartyWrapper struct {
	Party *ublParty `xml:"Party"`
}

type ublParty struct {
	EndpointID          *ublIdentifier `xml:"EndpointID"`
	PartyIdentification []struct {
		ID *ublIdentifier `xml:"ID"`
	} `xml:"PartyIdentification"`
	PartyName *struct {
		Name *ublText `xml:"Name"`
	} `xml:"PartyName"`
	PostalAddress    *ublAddress          `xml:"PostalAddress"`
	PartyTaxSchemes  []ublPartyTaxScheme  `xml:"PartyTaxScheme"`
	PartyLegalEntity *ublPartyLegalEntity `xml:"PartyLegalEntity"`
	Contact          *ublContact          `xml:"Contact"`
}

type ublAddress struct {
	StreetName           *ublText `xml:"StreetName"`
	AdditionalStreetName *ublText `xml:"AdditionalStreetName"`
	CityName             *ublText `xml:"CityName"`
	PostalZone           *ublText `xml:"PostalZone"`
	CountrySubentity     *ublText `xml:"CountrySubentity"`
	AddressLines         []struct {
		Line *ublText `xml:"Line"`
	} `xml:"AddressLine"`
	Country *ublCountry `xml:"Country"`
}

type ublCountry struct {
	IdentificationCode *ublCode `xml:"IdentificationCode"`
}

type ublPartyTaxScheme struct {
	CompanyID *ublIdentifier `xml:"CompanyID"`
	TaxScheme *ublTaxScheme  `xml:"TaxScheme"`
}

type ublTaxScheme struct {
	ID *ublIdentifier `xml:"ID"`
}

type ublPartyLegalEntity struct {
	RegistrationName *ublText       `xml:"RegistrationName"`
	CompanyID        *ublIdentifier `xml:"CompanyID"`
	CompanyLegalForm *ublText       `xml:"CompanyLegalForm"`
}

type ublContact struct {
	Name           *ublText `xml:"Name"`
	Telephone      *ublText `xml:"Telephone"`
	ElectronicMail *ublText `xml:"ElectronicMail"`
}

type ublPaymentMeans struct {
	PaymentMeansCode      *ublCode       `xml:"PaymentMeansCode"`
	PaymentID             *ublIdentifier `xml:"PaymentID"`
	PayeeFinancialAccount *struct {
		ID                         *ublIdentifier `xml:"ID"`
		Name                       *ublText       `xml:"Name"`
		FinancialInstitutionBranch *struct {
			ID   *ublIdentifier `xml:"ID"`
			Name *ublText       `xml:"Name"`
		} `xml:"FinancialInstitutionBranch"`
	} `xml:"PayeeFinancialAccount"`
}

type ublPaymentTerms struct {
	Note *ublText `xml:"Note"`
}

type ublAllowanceCharge struct {
	ChargeIndicator           string          `xml:"ChargeIndicator"`
	AllowanceChargeReasonCode *ublCode        `xml:"AllowanceChargeReasonCode"`
	AllowanceChargeReason     *ublText        `xml:"AllowanceChargeReason"`
	MultiplierFactorNumeric   string          `xml:"MultiplierFactorNumeric"`
	Amount                    *ublAmount      `xml:"Amount"`
	BaseAmount                *ublAmount      `xml:"BaseAmount"`
	TaxCategory               *ublTaxCategory `xml:"TaxCategory"`
}

type ublTaxTotal struct {
	TaxAmount    *ublAmount `xml:"TaxAmount"`
	TaxSubtotals []struct {
		TaxableAmount *ublAmount      `xml:"TaxableAmount"`
		TaxAmount     *ublAmount      `xml:"TaxAmount"`
		TaxCategory   *ublTaxCategory `xml:"TaxCategory"`
	} `xml:"TaxSubtotal"`
}

type ublTaxCategory struct {
	ID                     *ublIdentifier `xml:"ID"`
	Percent                string         `xml:"Percent"`
	TaxExemptionReasonCode *ublCode       `xml:"TaxExemptionReasonCode"`
	TaxExemptionReason     *ublText       `xml:"TaxExemptionReason"`
	TaxScheme              *ublTaxScheme  `xml:"TaxScheme"`
}

type ublMonetaryTotal struct {
	LineExtensionAmount   *ublAmount `xml:"LineExtensionAmount"`
	TaxExclusiveAmount    *ublAmount `xml:"TaxExclusiveAmount"`
	TaxInclusiveAmount    *ublAmount `xml:"TaxInclusiveAmount"`
	AllowanceTotalAmount  *ublAmount `xml:"AllowanceTotalAmount"`
	ChargeTotalAmount     *ublAmount `xml:"ChargeTotalAmount"`
	PrepaidAmount         *ublAmount `xml:"PrepaidAmount"`
	PayableRoundingAmount *ublAmount `xml:"PayableRoundingAmount"`
	PayableAmount         *ublAmount `xml:"PayableAmount"`
}

type ublInvoiceLine struct {
	ID                  *ublIdentifier `xml:"ID"`
	Note                *ublText       `xml:"Note"`
	InvoicedQuantity    *ublQuantity   `xml:"InvoicedQuantity"`
	LineExtensionAmount *ublAmount     `xml:"LineExtensionAmount"`
	AccountingCost      *ublText       `xml:"AccountingCost"`
	InvoicePeriod       *ublPeriod     `xml:"InvoicePeriod"`
	OrderLineReference  *struct {
		LineID *ublIdentifier `xml:"LineID"`
	} `xml:"OrderLineReference"`
	DocumentReference *ublDocumentReference `xml:"DocumentReference"`
	AllowanceCharges  []ublAllowanceCharge  `xml:"AllowanceCharge"`
	Item              *ublItem              `xml:"Item"`
	Price             *ublPrice             `xml:"Price"`
}

type ublItem struct {
	Description                *ublText           `xml:"Description"`
	Name                       *ublText           `xml:"Name"`
	BuyersItemIdentification   *ublItemIdentifier `xml:"BuyersItemIdentification"`
	SellersItemIdentification  *ublItemIdentifier `xml:"SellersItemIdentification"`
	StandardItemIdentification *ublItemIdentifier `xml:"StandardItemIdentification"`
	OriginCountry              *ublCountry        `xml:"OriginCountry"`
	CommodityClassifications   []struct {
		ItemClassificationCode *ublCode `xml:"ItemClassificationCode"`
	} `xml:"CommodityClassification"`
	ClassifiedTaxCategory    *ublTaxCategory `xml:"ClassifiedTaxCategory"`
	AdditionalItemProperties []struct {
		Name  *ublText `xml:"Name"`
		Value *ublText `xml:"Value"`
	} `xml:"AdditionalItemProperty"`
}

type ublItemIdentifier struct {
	ID *ublIdentifier `xml:"ID"`
}

type ublPrice struct {
	PriceAmount     *ublAmount          `xml:"PriceAmount"`
	BaseQuantity    *ublQuantity        `xml:"BaseQuantity"`
	AllowanceCharge *ublAllowanceCharge `xml:"AllowanceCharge"`
}
