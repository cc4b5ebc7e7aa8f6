package ubl

// XML namespaces of a UBL 2.1 invoice
const (
	NamespaceInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NamespaceCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NamespaceCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	PrefixCAC = "cac"
	PrefixCBC = "cbc"
)

// PEPPOL BIS Billing 3.0 document identifiers
const (
	CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"
	ProfileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
	UBLVersion      = "2.1"
)

// Code list values
const (
	InvoiceTypeCommercial = "380"
	PaymentMeansCredit    = "30"
	TaxSchemeVAT          = "VAT"
	TaxSchemeTAX          = "TAX"
	TaxCategoryStandard   = "S"
	TaxCategoryZeroRated  = "Z"
	TaxCategoryExempt     = "E"
)

// Participant identifier schemes and fallbacks
const (
	SchemeNorwegianOrgNumber = "0192"
	PlaceholderEndpointID    = "NO-ENDPOINT"
	NationalRegistryID       = "Foretaksregisteret"
	DefaultCountryCode       = "NO"
	DefaultUnitCode          = "EA"
)

// Routing identifiers used by the delivery network
const (
	DocumentTypeScheme = "busdox-docid-qns"
	DocumentTypeID     = NamespaceInvoice + "::Invoice##" + CustomizationID + "::" + UBLVersion
	ProcessScheme      = "cenbii-procid-ubl"
	ProcessID          = ProfileID
)

// AllowedMimeCodes lists the attachment types PEPPOL accepts
var AllowedMimeCodes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"text/csv",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.oasis.opendocument.spreadsheet",
}
