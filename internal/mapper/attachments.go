package mapper

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/samber/lo"

	inmodel "github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

const mimePDF = "application/pdf"

var disablePDFConfigDir sync.Once

// AttachmentChecker sniffs the type of embedded attachments and rejects
// types outside the EHF allow-list. PDFs must also parse.
type AttachmentChecker struct {
	allowed []string
	pdfConf *model.Configuration
}

// NewAttachmentChecker creates a checker for the EHF mime allow-list
func NewAttachmentChecker() *AttachmentChecker {
	disablePDFConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &AttachmentChecker{
		allowed: ubl.AllowedMimeCodes,
		pdfConf: conf,
	}
}

// Check returns the detected mime code of content
func (c *AttachmentChecker) Check(content []byte) (string, error) {
	if len(content) == 0 {
		return "", errors.New("attachment is empty")
	}

	detected := mimetype.Detect(content).String()
	mime, _, _ := strings.Cut(detected, ";")
	mime = strings.TrimSpace(mime)

	if !lo.Contains(c.allowed, mime) {
		return "", errors.Newf("mime type %s is not allowed", mime)
	}

	if mime == mimePDF {
		if err := api.Validate(bytes.NewReader(content), c.pdfConf); err != nil {
			return "", errors.Wrap(err, "invalid PDF")
		}
	}

	return mime, nil
}

// applyDocumentReferences emits record references first, then embedded
// attachments, each as an AdditionalDocumentReference
func (s *mapping) applyDocumentReferences(inv *ubl.Invoice, checker *AttachmentChecker) error {
	rec := s.in.Invoice

	for _, ref := range rec.DocumentReferences {
		inv.AdditionalDocumentReferences = append(inv.AdditionalDocumentReferences, ubl.DocumentReference{
			ID:               ubl.NewIdentifier(ref.ID),
			DocumentTypeCode: ubl.NewCode(ref.TypeCode),
		})
	}

	for i, att := range rec.Attachments {
		mime, err := checker.Check(att.Content)
		if err != nil {
			field := fmt.Sprintf("invoice.attachments[%d].content", i)
			return inmodel.NewMalformedInputError(field, att.Filename, "attachment", err.Error())
		}

		inv.AdditionalDocumentReferences = append(inv.AdditionalDocumentReferences, ubl.DocumentReference{
			ID:                  ubl.NewIdentifier(att.ID),
			DocumentDescription: ubl.NewText(att.Description),
			Attachment: &ubl.Attachment{
				EmbeddedDocument: &ubl.BinaryObject{
					Content:  att.Content,
					MimeCode: mime,
					Filename: att.Filename,
				},
			},
		})
	}

	return nil
}
