package microstock

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

const csvHeader = "Filename,Title,Keywords,Category,Releases"

var keywordGap = regexp.MustCompile(`,\s+`)

// WriteCSV writes the Adobe Stock upload sheet for every item that has
// metadata. Text columns are always quoted.
func WriteCSV(w io.Writer, items []Item) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader); err != nil {
		return err
	}
	for _, it := range items {
		if it.Metadata == nil {
			continue
		}
		row := strings.Join([]string{
			quote(it.Name),
			quote(it.Metadata.Title),
			quote(keywordGap.ReplaceAllString(it.Metadata.Keywords, ",")),
			fmt.Sprintf("%d", it.Metadata.CategoryID),
			"",
		}, ",")
		if _, err := bw.WriteString("\n" + row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func CSVFilename(now time.Time) string {
	return fmt.Sprintf("AdobeStock_Metadata_%d.csv", now.UnixMilli())
}
