package microstock

import (
	"strings"
	"testing"
	"time"

	"topaz-studio/internal/gemini"
)

func TestWriteCSV(t *testing.T) {
	items := []Item{
		{Name: "cat.png", Metadata: &gemini.StockMetadata{Title: `A "fluffy" cat`, Keywords: "cat,  pet, animal", CategoryID: 1}},
		{Name: "pending.png"},
		{Name: "dog.jpg", Metadata: &gemini.StockMetadata{Title: "Dog", Keywords: "dog", CategoryID: 12}},
	}
	var sb strings.Builder
	if err := WriteCSV(&sb, items); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Filename,Title,Keywords,Category,Releases",
		`"cat.png","A ""fluffy"" cat","cat,pet,animal",1,`,
		`"dog.jpg","Dog","dog",12,`,
	}, "\n")
	if got := sb.String(); got != want {
		t.Errorf("csv =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatal(err)
	}
	if sb.String() != csvHeader {
		t.Errorf("got %q", sb.String())
	}
}

func TestCSVFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := CSVFilename(now); got != "AdobeStock_Metadata_1700000000123.csv" {
		t.Errorf("CSVFilename = %q", got)
	}
}
