package overlay

import (
	"codeberg.org/go-pdf/fpdf"
	realfpdi "github.com/phpdave11/gofpdi"
)

// importer bridges gofpdi's page importer onto an fpdf document. The
// unordered transfer keys imported objects by hash, letting fpdf assign the
// final object ids at serialization time.
type importer struct {
	fpdi *realfpdi.Importer
}

func newImporter() *importer {
	return &importer{fpdi: realfpdi.NewImporter()}
}

// importPage imports page pageNum of sourceFile as a form XObject and
// returns its template id plus the page's media box dimensions. gofpdi
// panics on unreadable input; callers guard with recover.
func (im *importer) importPage(pdf *fpdf.Fpdf, sourceFile string, pageNum int) (tplID int, w, h float64) {
	im.fpdi.SetSourceFile(sourceFile)
	tplID = im.fpdi.ImportPage(pageNum, "/MediaBox")

	pdf.ImportTemplates(im.fpdi.PutFormXobjectsUnordered())
	pdf.ImportObjects(im.fpdi.GetImportedObjectsUnordered())
	pdf.ImportObjPos(im.fpdi.GetImportedObjHashPos())

	if dims, ok := im.fpdi.GetPageSizes()[pageNum]; ok {
		if mb, ok := dims["/MediaBox"]; ok {
			w = mb["w"]
			h = mb["h"]
		}
	}
	return tplID, w, h
}

// useImportedTemplate draws a previously imported template over the given
// rectangle of the current page.
func (im *importer) useImportedTemplate(pdf *fpdf.Fpdf, tplID int, x, y, w, h float64) {
	tplName, scaleX, scaleY, tX, tY := im.fpdi.UseTemplate(tplID, x, y, w, h)
	pdf.UseImportedTemplate(tplName, scaleX, scaleY, tX, tY)
}
