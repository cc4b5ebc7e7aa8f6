package xml

import (
	"encoding/base64"

	"github.com/beevik/etree"

	"github.com/rezonia/ehf-generator/internal/decimal"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

func cac(name string) string { return ubl.PrefixCAC + ":" + name }
func cbc(name string) string { return ubl.PrefixCBC + ":" + name }

func newCAC(name string) *etree.Element {
	return etree.NewElement(cac(name))
}

// appendIfPopulated attaches el only when it ended up with children,
// so absent aggregates never produce empty elements
func appendIfPopulated(parent, el *etree.Element) {
	if len(el.ChildElements()) == 0 {
		return
	}
	parent.AddChild(el)
}

func addIdentifier(parent *etree.Element, name string, id *ubl.Identifier) {
	if id == nil || id.Value == "" {
		return
	}
	el := parent.CreateElement(cbc(name))
	if id.SchemeID != "" {
		el.CreateAttr("schemeID", id.SchemeID)
	}
	if id.SchemeAgencyID != "" {
		el.CreateAttr("schemeAgencyID", id.SchemeAgencyID)
	}
	el.SetText(id.Value)
}

func addCode(parent *etree.Element, name string, c *ubl.Code) {
	if c == nil || c.Value == "" {
		return
	}
	el := parent.CreateElement(cbc(name))
	if c.ListID != "" {
		el.CreateAttr("listID", c.ListID)
	}
	if c.ListAgencyID != "" {
		el.CreateAttr("listAgencyID", c.ListAgencyID)
	}
	if c.ListVersionID != "" {
		el.CreateAttr("listVersionID", c.ListVersionID)
	}
	if c.Name != "" {
		el.CreateAttr("name", c.Name)
	}
	el.SetText(c.Value)
}

func addText(parent *etree.Element, name string, t *ubl.Text) {
	if t == nil || t.Value == "" {
		return
	}
	el := parent.CreateElement(cbc(name))
	if t.LanguageID != "" {
		el.CreateAttr("languageID", t.LanguageID)
	}
	el.SetText(t.Value)
}

func addDate(parent *etree.Element, name string, d *ubl.Date) {
	if d == nil || d.IsZero() {
		return
	}
	parent.CreateElement(cbc(name)).SetText(d.String())
}

func addAmount(parent *etree.Element, name string, a *ubl.Amount) {
	if a == nil {
		return
	}
	el := parent.CreateElement(cbc(name))
	el.CreateAttr("currencyID", a.CurrencyID)
	el.SetText(decimal.Format2(a.Value))
}

func addQuantity(parent *etree.Element, name string, q *ubl.Quantity) {
	if q == nil {
		return
	}
	el := parent.CreateElement(cbc(name))
	el.CreateAttr("unitCode", q.UnitCode)
	el.SetText(decimal.Format2(q.Value))
}

func addNumeric(parent *etree.Element, name string, n *ubl.Numeric) {
	if n == nil {
		return
	}
	parent.CreateElement(cbc(name)).SetText(decimal.Format2(n.Value))
}

func addIndicator(parent *etree.Element, name string, ind ubl.Indicator) {
	if !ind.IsSet() {
		return
	}
	parent.CreateElement(cbc(name)).SetText(ind.String())
}

func addBinaryObject(parent *etree.Element, name string, obj *ubl.BinaryObject) {
	if obj == nil || len(obj.Content) == 0 {
		return
	}
	el := parent.CreateElement(cbc(name))
	el.CreateAttr("mimeCode", obj.MimeCode)
	if obj.Filename != "" {
		el.CreateAttr("filename", obj.Filename)
	}
	el.SetText(base64.StdEncoding.EncodeToString(obj.Content))
}
