package extractor

import (
	"testing"
)

func TestHTMLExtractorRows(t *testing.T) {
	doc := `<html><body><table>
<tr><td>05/03</td><td>150,00</td><td></td><td>Cachet concert Emma</td></tr>
<tr><td>06/03</td><td></td><td>45,00</td><td><b>Achat <i>matos</i></b> son</td></tr>
</table></body></html>`

	e := &HTMLExtractor{}
	rows := e.Rows("Emma.html", []byte(doc))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Cells[0] != "05/03" || rows[0].Cells[3] != "Cachet concert Emma" {
		t.Errorf("row 0 = %v", rows[0].Cells)
	}
	if rows[1].Cells[3] != "Achat matos son" {
		t.Errorf("nested tags not stripped: %q", rows[1].Cells[3])
	}
	if rows[0].File != "Emma.html" || rows[1].Index != 1 {
		t.Errorf("row metadata wrong: %+v", rows[1])
	}
}

func TestHTMLExtractorEntities(t *testing.T) {
	doc := `<table><tr>
<td>05/03</td>
<td>1&nbsp;250,50</td>
<td></td>
<td>Caf&eacute; &amp; concert &quot;Le&#39;Club&quot; &lt;solde&gt;</td>
</tr></table>`

	e := &HTMLExtractor{}
	rows := e.Rows("x.html", []byte(doc))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].Cells[1]; got != "1 250,50" {
		t.Errorf("nbsp cell = %q", got)
	}
	if got := rows[0].Cells[3]; got != `Café & concert "Le'Club" <solde>` {
		t.Errorf("entity cell = %q", got)
	}
}

func TestHTMLExtractorShortRowsYielded(t *testing.T) {
	doc := `<table><tr><td>Total</td><td>195,00</td></tr></table>`
	e := &HTMLExtractor{}
	rows := e.Rows("x.html", []byte(doc))
	if len(rows) != 1 || len(rows[0].Cells) != 2 {
		t.Fatalf("short row not yielded: %v", rows)
	}
}

func TestHTMLExtractorUnclosedInlineTags(t *testing.T) {
	doc := `<table><tr><td><span>05/03</td><td>10,00</td><td></td><td>concert</td></tr></table>`
	e := &HTMLExtractor{}
	rows := e.Rows("x.html", []byte(doc))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Cells[0] != "05/03" {
		t.Errorf("cell with unclosed span = %q", rows[0].Cells[0])
	}
}

func TestHTMLExtractorMalformedDocument(t *testing.T) {
	e := &HTMLExtractor{}
	for _, doc := range []string{"", "not html at all", "<div>no table here</div>", "<table><tr>unclosed"} {
		if rows := e.Rows("bad.html", []byte(doc)); len(rows) != 0 {
			t.Errorf("doc %q: got %d rows, want 0", doc, len(rows))
		}
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Emma.html", false},
		{"Emma.HTM", false},
		{"Emma.pdf", false},
		{"Emma.csv", true},
		{"Emma", true},
	}
	for _, tt := range tests {
		if _, err := ForFile(tt.name); (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestPDFExtractorGarbageInput(t *testing.T) {
	e := &PDFExtractor{}
	if rows := e.Rows("x.pdf", []byte("definitely not a pdf")); len(rows) != 0 {
		t.Errorf("garbage pdf produced %d rows", len(rows))
	}
	if rows := e.Rows("x.pdf", nil); len(rows) != 0 {
		t.Errorf("empty pdf produced %d rows", len(rows))
	}
}
