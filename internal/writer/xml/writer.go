package xml

import (
	"bytes"
	"io"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"

	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

// DefaultIndent is the number of spaces per nesting level
const DefaultIndent = 2

// Writer renders a UBL invoice to indented UTF-8 XML
type Writer struct {
	indent int
}

// Option configures a Writer
type Option func(*Writer)

// WithIndent sets the number of spaces per indentation level
func WithIndent(spaces int) Option {
	return func(w *Writer) {
		w.indent = spaces
	}
}

// NewWriter creates a new XML writer
func NewWriter(opts ...Option) *Writer {
	w := &Writer{indent: DefaultIndent}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serializes inv to out. A structurally invalid invoice is
// rejected with a model.InvariantError before anything is written.
func (w *Writer) Write(out io.Writer, inv *ubl.Invoice) error {
	data, err := w.WriteToBytes(inv)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return errors.Wrap(err, "write invoice xml")
	}
	return nil
}

// WriteToBytes serializes inv and returns the document bytes
func (w *Writer) WriteToBytes(inv *ubl.Invoice) ([]byte, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	doc := w.Document(inv)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, model.NewInvariantError(model.StageSerialize, "render element tree", err)
	}

	data := buf.Bytes()
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// Document builds the indented element tree for inv without validating it
func (w *Writer) Document(inv *ubl.Invoice) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", ubl.NamespaceInvoice)
	root.CreateAttr("xmlns:"+ubl.PrefixCAC, ubl.NamespaceCAC)
	root.CreateAttr("xmlns:"+ubl.PrefixCBC, ubl.NamespaceCBC)

	writeInvoice(root, inv)

	doc.Indent(w.indent)
	return doc
}

func writeInvoice(root *etree.Element, inv *ubl.Invoice) {
	addIdentifier(root, "CustomizationID", inv.CustomizationID)
	addIdentifier(root, "ProfileID", inv.ProfileID)
	addIdentifier(root, "ID", inv.ID)
	addDate(root, "IssueDate", &inv.IssueDate)
	addDate(root, "DueDate", inv.DueDate)
	addCode(root, "InvoiceTypeCode", inv.InvoiceTypeCode)
	addText(root, "Note", inv.Note)
	addDate(root, "TaxPointDate", inv.TaxPointDate)
	addCode(root, "DocumentCurrencyCode", inv.DocumentCurrencyCode)
	addCode(root, "TaxCurrencyCode", inv.TaxCurrencyCode)
	addText(root, "AccountingCost", inv.AccountingCost)
	addText(root, "BuyerReference", inv.BuyerReference)
	writePeriod(root, "InvoicePeriod", inv.InvoicePeriod)
	writeOrderReference(root, inv.OrderReference)
	writeDocumentReference(root, "ContractDocumentReference", inv.ContractDocumentReference)
	for i := range inv.AdditionalDocumentReferences {
		writeDocumentReference(root, "AdditionalDocumentReference", &inv.AdditionalDocumentReferences[i])
	}

	writeWrappedParty(root, "AccountingSupplierParty", inv.AccountingSupplierParty)
	writeWrappedParty(root, "AccountingCustomerParty", inv.AccountingCustomerParty)
	writeParty(root, "PayeeParty", inv.PayeeParty)
	writeParty(root, "TaxRepresentativeParty", inv.TaxRepresentativeParty)

	for i := range inv.PaymentMeans {
		writePaymentMeans(root, &inv.PaymentMeans[i])
	}
	writePaymentTerms(root, inv.PaymentTerms)
	for i := range inv.AllowanceCharges {
		writeAllowanceCharge(root, &inv.AllowanceCharges[i])
	}
	for i := range inv.TaxTotals {
		writeTaxTotal(root, &inv.TaxTotals[i])
	}
	writeMonetaryTotal(root, "LegalMonetaryTotal", inv.LegalMonetaryTotal)
	for i := range inv.InvoiceLines {
		writeInvoiceLine(root, &inv.InvoiceLines[i])
	}
}

func writePeriod(parent *etree.Element, tag string, p *ubl.Period) {
	if p == nil {
		return
	}
	el := newCAC(tag)
	addDate(el, "StartDate", p.StartDate)
	addDate(el, "EndDate", p.EndDate)
	appendIfPopulated(parent, el)
}

func writeOrderReference(parent *etree.Element, ref *ubl.OrderReference) {
	if ref == nil {
		return
	}
	el := newCAC("OrderReference")
	addIdentifier(el, "ID", ref.ID)
	addIdentifier(el, "SalesOrderID", ref.SalesOrderID)
	appendIfPopulated(parent, el)
}

func writeDocumentReference(parent *etree.Element, tag string, ref *ubl.DocumentReference) {
	if ref == nil {
		return
	}
	el := newCAC(tag)
	addIdentifier(el, "ID", ref.ID)
	addCode(el, "DocumentTypeCode", ref.DocumentTypeCode)
	addText(el, "DocumentDescription", ref.DocumentDescription)
	writeAttachment(el, ref.Attachment)
	appendIfPopulated(parent, el)
}

func writeAttachment(parent *etree.Element, att *ubl.Attachment) {
	if att == nil {
		return
	}
	el := newCAC("Attachment")
	addBinaryObject(el, "EmbeddedDocumentBinaryObject", att.EmbeddedDocument)
	if att.ExternalURI != "" {
		ext := el.CreateElement(cac("ExternalReference"))
		ext.CreateElement(cbc("URI")).SetText(att.ExternalURI)
	}
	appendIfPopulated(parent, el)
}

func writeWrappedParty(parent *etree.Element, tag string, p *ubl.Party) {
	if p == nil {
		return
	}
	el := newCAC(tag)
	writeParty(el, "Party", p)
	appendIfPopulated(parent, el)
}

func writeParty(parent *etree.Element, tag string, p *ubl.Party) {
	if p == nil {
		return
	}
	el := newCAC(tag)
	addIdentifier(el, "EndpointID", p.EndpointID)
	for _, pid := range p.PartyIdentification {
		pidEl := newCAC("PartyIdentification")
		addIdentifier(pidEl, "ID", pid.ID)
		appendIfPopulated(el, pidEl)
	}
	if p.PartyName != nil {
		nameEl := newCAC("PartyName")
		addText(nameEl, "Name", p.PartyName.Name)
		appendIfPopulated(el, nameEl)
	}
	writeAddress(el, "PostalAddress", p.PostalAddress)
	for i := range p.PartyTaxSchemes {
		writePartyTaxScheme(el, &p.PartyTaxSchemes[i])
	}
	writeLegalEntity(el, p.PartyLegalEntity)
	writeContact(el, p.Contact)
	appendIfPopulated(parent, el)
}

func writeAddress(parent *etree.Element, tag string, a *ubl.Address) {
	if a == nil {
		return
	}
	el := newCAC(tag)
	addText(el, "StreetName", a.StreetName)
	addText(el, "AdditionalStreetName", a.AdditionalStreetName)
	addText(el, "CityName", a.CityName)
	addText(el, "PostalZone", a.PostalZone)
	addText(el, "CountrySubentity", a.CountrySubentity)
	for _, line := range a.AddressLines {
		lineEl := newCAC("AddressLine")
		addText(lineEl, "Line", line.Line)
		appendIfPopulated(el, lineEl)
	}
	writeCountry(el, "Country", a.Country)
	appendIfPopulated(parent, el)
}

func writeCountry(parent *etree.Element, tag string, c *ubl.Country) {
	if c == nil {
		return
	}
	el := newCAC(tag)
	addCode(el, "IdentificationCode", c.IdentificationCode)
	appendIfPopulated(parent, el)
}

func writePartyTaxScheme(parent *etree.Element, pts *ubl.PartyTaxScheme) {
	el := newCAC("PartyTaxScheme")
	addIdentifier(el, "CompanyID", pts.CompanyID)
	writeTaxScheme(el, pts.TaxScheme)
	appendIfPopulated(parent, el)
}

func writeTaxScheme(parent *etree.Element, ts *ubl.TaxScheme) {
	if ts == nil {
		return
	}
	el := newCAC("TaxScheme")
	addIdentifier(el, "ID", ts.ID)
	appendIfPopulated(parent, el)
}

func writeLegalEntity(parent *etree.Element, le *ubl.PartyLegalEntity) {
	if le == nil {
		return
	}
	el := newCAC("PartyLegalEntity")
	addText(el, "RegistrationName", le.RegistrationName)
	addIdentifier(el, "CompanyID", le.CompanyID)
	addText(el, "CompanyLegalForm", le.CompanyLegalForm)
	appendIfPopulated(parent, el)
}

func writeContact(parent *etree.Element, c *ubl.Contact) {
	if c.IsEmpty() {
		return
	}
	el := newCAC("Contact")
	addText(el, "Name", c.Name)
	addText(el, "Telephone", c.Telephone)
	addText(el, "ElectronicMail", c.ElectronicMail)
	appendIfPopulated(parent, el)
}

func writePaymentMeans(parent *etree.Element, pm *ubl.PaymentMeans) {
	el := newCAC("PaymentMeans")
	addCode(el, "PaymentMeansCode", pm.PaymentMeansCode)
	addIdentifier(el, "PaymentID", pm.PaymentID)
	if acct := pm.PayeeFinancialAccount; acct != nil {
		acctEl := newCAC("PayeeFinancialAccount")
		addIdentifier(acctEl, "ID", acct.ID)
		addText(acctEl, "Name", acct.Name)
		if br := acct.FinancialInstitutionBranch; br != nil {
			brEl := newCAC("FinancialInstitutionBranch")
			addIdentifier(brEl, "ID", br.ID)
			addText(brEl, "Name", br.Name)
			appendIfPopulated(acctEl, brEl)
		}
		appendIfPopulated(el, acctEl)
	}
	appendIfPopulated(parent, el)
}

func writePaymentTerms(parent *etree.Element, pt *ubl.PaymentTerms) {
	if pt == nil {
		return
	}
	el := newCAC("PaymentTerms")
	addText(el, "Note", pt.Note)
	appendIfPopulated(parent, el)
}

func writeAllowanceCharge(parent *etree.Element, ac *ubl.AllowanceCharge) {
	if ac == nil {
		return
	}
	el := newCAC("AllowanceCharge")
	addIndicator(el, "ChargeIndicator", ac.ChargeIndicator)
	addCode(el, "AllowanceChargeReasonCode", ac.AllowanceChargeReasonCode)
	addText(el, "AllowanceChargeReason", ac.AllowanceChargeReason)
	addNumeric(el, "MultiplierFactorNumeric", ac.MultiplierFactorNumeric)
	addAmount(el, "Amount", ac.Amount)
	addAmount(el, "BaseAmount", ac.BaseAmount)
	writeTaxCategory(el, "TaxCategory", ac.TaxCategory)
	appendIfPopulated(parent, el)
}

func writeTaxTotal(parent *etree.Element, tt *ubl.TaxTotal) {
	el := newCAC("TaxTotal")
	addAmount(el, "TaxAmount", tt.TaxAmount)
	for i := range tt.TaxSubtotals {
		st := &tt.TaxSubtotals[i]
		stEl := newCAC("TaxSubtotal")
		addAmount(stEl, "TaxableAmount", st.TaxableAmount)
		addAmount(stEl, "TaxAmount", st.TaxAmount)
		writeTaxCategory(stEl, "TaxCategory", st.TaxCategory)
		appendIfPopulated(el, stEl)
	}
	appendIfPopulated(parent, el)
}

func writeTaxCategory(parent *etree.Element, tag string, tc *ubl.TaxCategory) {
	if tc == nil {
		return
	}
	el := newCAC(tag)
	addIdentifier(el, "ID", tc.ID)
	addNumeric(el, "Percent", tc.Percent)
	addCode(el, "TaxExemptionReasonCode", tc.TaxExemptionReasonCode)
	addText(el, "TaxExemptionReason", tc.TaxExemptionReason)
	writeTaxScheme(el, tc.TaxScheme)
	appendIfPopulated(parent, el)
}

func writeMonetaryTotal(parent *etree.Element, tag string, mt *ubl.MonetaryTotal) {
	if mt == nil {
		return
	}
	el := newCAC(tag)
	addAmount(el, "LineExtensionAmount", mt.LineExtensionAmount)
	addAmount(el, "TaxExclusiveAmount", mt.TaxExclusiveAmount)
	addAmount(el, "TaxInclusiveAmount", mt.TaxInclusiveAmount)
	addAmount(el, "AllowanceTotalAmount", mt.AllowanceTotalAmount)
	addAmount(el, "ChargeTotalAmount", mt.ChargeTotalAmount)
	addAmount(el, "PrepaidAmount", mt.PrepaidAmount)
	addAmount(el, "PayableRoundingAmount", mt.PayableRoundingAmount)
	addAmount(el, "PayableAmount", mt.PayableAmount)
	appendIfPopulated(parent, el)
}

func writeInvoiceLine(parent *etree.Element, line *ubl.InvoiceLine) {
	el := newCAC("InvoiceLine")
	addIdentifier(el, "ID", line.ID)
	addText(el, "Note", line.Note)
	addQuantity(el, "InvoicedQuantity", line.InvoicedQuantity)
	addAmount(el, "LineExtensionAmount", line.LineExtensionAmount)
	addText(el, "AccountingCost", line.AccountingCost)
	writePeriod(el, "InvoicePeriod", line.InvoicePeriod)
	if olr := line.OrderLineReference; olr != nil {
		olrEl := newCAC("OrderLineReference")
		addIdentifier(olrEl, "LineID", olr.LineID)
		appendIfPopulated(el, olrEl)
	}
	writeDocumentReference(el, "DocumentReference", line.DocumentReference)
	for i := range line.AllowanceCharges {
		writeAllowanceCharge(el, &line.AllowanceCharges[i])
	}
	writeItem(el, line.Item)
	writePrice(el, line.Price)
	appendIfPopulated(parent, el)
}

func writeItem(parent *etree.Element, item *ubl.Item) {
	if item == nil {
		return
	}
	el := newCAC("Item")
	addText(el, "Description", item.Description)
	addText(el, "Name", item.Name)
	writeItemIdentification(el, "BuyersItemIdentification", item.BuyersItemIdentification)
	writeItemIdentification(el, "SellersItemIdentification", item.SellersItemIdentification)
	writeItemIdentification(el, "StandardItemIdentification", item.StandardItemIdentification)
	writeCountry(el, "OriginCountry", item.OriginCountry)
	for _, cc := range item.CommodityClassifications {
		ccEl := newCAC("CommodityClassification")
		addCode(ccEl, "ItemClassificationCode", cc.ItemClassificationCode)
		appendIfPopulated(el, ccEl)
	}
	writeTaxCategory(el, "ClassifiedTaxCategory", item.ClassifiedTaxCategory)
	for _, prop := range item.AdditionalItemProperties {
		propEl := newCAC("AdditionalItemProperty")
		addText(propEl, "Name", prop.Name)
		addText(propEl, "Value", prop.Value)
		appendIfPopulated(el, propEl)
	}
	appendIfPopulated(parent, el)
}

func writeItemIdentification(parent *etree.Element, tag string, id *ubl.ItemIdentification) {
	if id == nil {
		return
	}
	el := newCAC(tag)
	addIdentifier(el, "ID", id.ID)
	appendIfPopulated(parent, el)
}

func writePrice(parent *etree.Element, p *ubl.Price) {
	if p == nil {
		return
	}
	el := newCAC("Price")
	addAmount(el, "PriceAmount", p.PriceAmount)
	addQuantity(el, "BaseQuantity", p.BaseQuantity)
	writeAllowanceCharge(el, p.AllowanceCharge)
	appendIfPopulated(parent, el)
}
