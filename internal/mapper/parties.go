package mapper

import (
	"strings"

	"github.com/rezonia/ehf-generator/internal/ubl"
)

// countryTokens maps lowercase name fragments to ISO 3166 codes, in
// match order
var countryTokens = []struct {
	token string
	code  string
}{
	{"norge", "NO"},
	{"norway", "NO"},
	{"sverige", "SE"},
	{"sweden", "SE"},
	{"danmark", "DK"},
	{"denmark", "DK"},
}

// CountryCode resolves a free-text country name. ok is false when the
// name is not recognized and the default was used.
func CountryCode(name, def string) (code string, ok bool) {
	lower := strings.ToLower(name)
	if lower != "" {
		for _, ct := range countryTokens {
			if strings.Contains(lower, ct.token) {
				return ct.code, true
			}
		}
	}
	return def, false
}

func (s *mapping) country(field, name string) *ubl.Country {
	code, ok := CountryCode(name, s.rules.DefaultCountry)
	if !ok {
		s.fallback(RuleCountryCode, field, code)
	}
	return &ubl.Country{IdentificationCode: ubl.NewCode(code)}
}

func (s *mapping) supplierParty() *ubl.Party {
	sup := s.in.Supplier
	orgnr := sup.OrganizationNumber

	endpoint := ubl.NewSchemedIdentifier(sup.EndpointID, sup.EndpointScheme)
	if sup.EndpointID == "" || sup.EndpointScheme == "" {
		endpoint = ubl.NewSchemedIdentifier(orgnr, s.rules.DefaultScheme)
		s.fallback(RuleSupplierEndpoint, "supplier.endpoint_id", s.rules.DefaultScheme+":"+orgnr)
	}

	party := &ubl.Party{
		EndpointID: endpoint,
		PartyIdentification: []ubl.PartyIdentification{
			{ID: ubl.NewSchemedIdentifier(orgnr, s.rules.DefaultScheme)},
		},
		PartyName: &ubl.PartyName{Name: ubl.NewText(sup.CompanyName)},
		PostalAddress: &ubl.Address{
			StreetName: ubl.NewText(sup.Address),
			CityName:   ubl.NewText(sup.City),
			PostalZone: ubl.NewText(sup.PostalCode),
			Country:    s.country("supplier.country", sup.Country),
		},
		PartyTaxSchemes: []ubl.PartyTaxScheme{
			{
				CompanyID: ubl.NewIdentifier("NO" + orgnr + "MVA"),
				TaxScheme: &ubl.TaxScheme{ID: ubl.NewIdentifier(ubl.TaxSchemeVAT)},
			},
			{
				CompanyID: ubl.NewIdentifier(s.rules.NationalRegistry),
				TaxScheme: &ubl.TaxScheme{ID: ubl.NewIdentifier(ubl.TaxSchemeTAX)},
			},
		},
		PartyLegalEntity: &ubl.PartyLegalEntity{
			RegistrationName: ubl.NewText(sup.CompanyName),
			CompanyID:        ubl.NewIdentifier(orgnr),
			CompanyLegalForm: ubl.NewText(sup.LegalForm),
		},
	}

	contact := &ubl.Contact{
		Name:           ubl.NewText(sup.ContactPerson),
		Telephone:      ubl.NewText(sup.Phone),
		ElectronicMail: ubl.NewText(sup.Email),
	}
	if !contact.IsEmpty() {
		party.Contact = contact
	}

	return party
}

func (s *mapping) customerParty() *ubl.Party {
	buyer := s.in.Buyer
	orgnr := buyer.OrganizationNumber

	var endpoint *ubl.Identifier
	switch {
	case buyer.EndpointID != "":
		scheme := buyer.EndpointScheme
		if scheme == "" {
			scheme = s.rules.DefaultScheme
		}
		endpoint = ubl.NewSchemedIdentifier(buyer.EndpointID, scheme)
	case orgnr != "":
		endpoint = ubl.NewSchemedIdentifier(orgnr, s.rules.DefaultScheme)
		s.fallback(RuleBuyerEndpoint, "buyer.endpoint_id", s.rules.DefaultScheme+":"+orgnr)
	default:
		endpoint = ubl.NewSchemedIdentifier(s.rules.PlaceholderEndpoint, s.rules.DefaultScheme)
		s.fallback(RuleBuyerEndpoint, "buyer.endpoint_id", s.rules.PlaceholderEndpoint)
	}

	party := &ubl.Party{
		EndpointID: endpoint,
		PartyName:  &ubl.PartyName{Name: ubl.NewText(buyer.Name)},
		PostalAddress: &ubl.Address{
			StreetName: ubl.NewText(buyer.Address),
			CityName:   ubl.NewText(buyer.City),
			PostalZone: ubl.NewText(buyer.PostalCode),
			Country:    s.country("buyer.country", buyer.Country),
		},
		PartyLegalEntity: &ubl.PartyLegalEntity{
			RegistrationName: ubl.NewText(buyer.Name),
			CompanyID:        ubl.NewIdentifier(orgnr),
		},
	}

	if orgnr != "" {
		party.PartyIdentification = []ubl.PartyIdentification{
			{ID: ubl.NewSchemedIdentifier(orgnr, s.rules.DefaultScheme)},
		}
	}

	contact := &ubl.Contact{
		Name:           ubl.NewText(buyer.ContactPerson),
		Telephone:      ubl.NewText(buyer.Phone),
		ElectronicMail: ubl.NewText(buyer.Email),
	}
	if !contact.IsEmpty() {
		party.Contact = contact
	}

	return party
}

// paymentMeans always emits credit transfer. The payee account falls
// back from the invoice to the supplier account and then the IBAN.
func (s *mapping) paymentMeans() ubl.PaymentMeans {
	rec := s.in.Invoice
	sup := s.in.Supplier

	pm := ubl.PaymentMeans{
		PaymentMeansCode: ubl.NewCode(ubl.PaymentMeansCredit),
		PaymentID:        ubl.NewIdentifier(rec.PaymentReference),
	}

	account := rec.BankAccount
	switch {
	case account != "":
	case sup.BankAccount != "":
		account = sup.BankAccount
		s.fallback(RulePaymentAccount, "invoice.bank_account", account)
	case sup.IBAN != "":
		account = sup.IBAN
		s.fallback(RulePaymentAccount, "invoice.bank_account", account)
	default:
		return pm
	}

	acct := &ubl.FinancialAccount{
		ID:   ubl.NewIdentifier(account),
		Name: ubl.NewText(sup.CompanyName),
	}

	swift := rec.SwiftBIC
	if swift == "" {
		swift = sup.SwiftBIC
	}
	if swift != "" {
		acct.FinancialInstitutionBranch = &ubl.Branch{ID: ubl.NewIdentifier(swift)}
	}

	pm.PayeeFinancialAccount = acct
	return pm
}
