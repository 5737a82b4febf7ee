package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

var errNotPDF = errors.New("not a pdf document")

// appendPDF copies every page of src after the pages already written. The
// importer panics on malformed input, so panics come back as errors.
func appendPDF(wr *writer, src []byte) (err error) {
	if !bytes.HasPrefix(src, []byte("%PDF")) {
		return errNotPDF
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import pdf: %v", r)
		}
	}()

	rs := io.ReadSeeker(bytes.NewReader(src))
	imp := gofpdi.NewImporter()
	tpl := imp.ImportPageFromStream(wr.pdf, &rs, 1, "/MediaBox")
	sizes := imp.GetPageSizes()
	for page := 1; page <= len(sizes); page++ {
		if page > 1 {
			tpl = imp.ImportPageFromStream(wr.pdf, &rs, page, "/MediaBox")
		}
		box := sizes[page]["/MediaBox"]
		wr.pdf.AddPageFormat("P", fpdf.SizeType{Wd: box["w"], Ht: box["h"]})
		imp.UseImportedTemplate(wr.pdf, tpl, 0, 0, box["w"], box["h"])
	}
	if !wr.pdf.Ok() {
		return fmt.Errorf("import pdf: %w", wr.pdf.Error())
	}
	return nil
}
