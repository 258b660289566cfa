package card

import (
	"fmt"

	"countrycard/internal/country"

	"github.com/gingfrederik/docx"
)

// WriteDocx saves p as a Word document at path.
func WriteDocx(path string, p country.Projection) error {
	f := docx.NewFile()

	title := f.AddParagraph().AddText(p.CommonName)
	title.Size(20)

	run := f.AddParagraph().AddText(fmt.Sprintf("%s: %s", p.FlagAlt, p.FlagURL))
	run.Size(10)
	run.Color("808080")

	f.AddParagraph() // spacer

	for _, field := range p.Fields() {
		para := f.AddParagraph()
		label := para.AddText(field.Label + ": ")
		label.Color("6b7280")
		para.AddText(field.Value)
	}

	f.AddParagraph()
	if p.MapURL != country.NoMapURL {
		link := f.AddParagraph().AddText("View on Google Maps: " + p.MapURL)
		link.Size(10)
		link.Color("0000FF")
	}

	return f.Save(path)
}
