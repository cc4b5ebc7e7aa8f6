package xml

import (
	"github.com/samber/lo"

	"github.com/rezonia/ehf-generator/internal/ubl"
)

// Summary is a flat view of an invoice document
type Summary struct {
	ID             string   `json:"id"`
	IssueDate      string   `json:"issue_date"`
	DueDate        string   `json:"due_date,omitempty"`
	Currency       string   `json:"currency"`
	BuyerReference string   `json:"buyer_reference,omitempty"`
	OrderReference string   `json:"order_reference,omitempty"`
	Supplier       string   `json:"supplier"`
	SupplierID     string   `json:"supplier_endpoint"`
	Customer       string   `json:"customer"`
	CustomerID     string   `json:"customer_endpoint"`
	Lines          int      `json:"lines"`
	TaxCategories  []string `json:"tax_categories"`
	TaxAmount      string   `json:"tax_amount"`
	PayableAmount  string   `json:"payable_amount"`
}

// Summarize flattens inv for listings
func Summarize(inv *ubl.Invoice) Summary {
	s := Summary{
		ID:             idValue(inv.ID),
		IssueDate:      inv.IssueDate.String(),
		Currency:       codeValue(inv.DocumentCurrencyCode),
		BuyerReference: textValue(inv.BuyerReference),
		Lines:          len(inv.InvoiceLines),
	}
	if inv.DueDate != nil {
		s.DueDate = inv.DueDate.String()
	}
	if inv.OrderReference != nil {
		s.OrderReference = idValue(inv.OrderReference.ID)
	}
	s.Supplier, s.SupplierID = partySummary(inv.AccountingSupplierParty)
	s.Customer, s.CustomerID = partySummary(inv.AccountingCustomerParty)

	if len(inv.TaxTotals) > 0 {
		tt := inv.TaxTotals[0]
		s.TaxAmount = amountValue(tt.TaxAmount)
		s.TaxCategories = lo.FilterMap(tt.TaxSubtotals, func(st ubl.TaxSubtotal, _ int) (string, bool) {
			if st.TaxCategory == nil || st.TaxCategory.ID == nil {
				return "", false
			}
			if st.TaxCategory.Percent == nil {
				return st.TaxCategory.ID.Value, true
			}
			return st.TaxCategory.ID.Value + " " + st.TaxCategory.Percent.Value.StringFixed(2) + "%", true
		})
	}
	if inv.LegalMonetaryTotal != nil {
		s.PayableAmount = amountValue(inv.LegalMonetaryTotal.PayableAmount)
	}
	return s
}

func partySummary(p *ubl.Party) (name, endpoint string) {
	if p == nil {
		return "", ""
	}
	if p.PartyName != nil {
		name = textValue(p.PartyName.Name)
	}
	if p.EndpointID != nil {
		endpoint = p.EndpointID.Value
		if p.EndpointID.SchemeID != "" {
			endpoint = p.EndpointID.SchemeID + ":" + endpoint
		}
	}
	return name, endpoint
}

func idValue(id *ubl.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Value
}

func codeValue(c *ubl.Code) string {
	if c == nil {
		return ""
	}
	return c.Value
}

func textValue(t *ubl.Text) string {
	if t == nil {
		return ""
	}
	return t.Value
}

func amountValue(a *ubl.Amount) string {
	if a == nil {
		return ""
	}
	return a.Value.StringFixed(2) + " " + a.CurrencyID
}
