package common

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dslipak/pdf"
)

// ExtractRowsFromPDFReader extracts text rows from a PDF, one string per
// visual row. Pages that fail text extraction are logged and skipped.
func ExtractRowsFromPDFReader(reader io.Reader) ([]string, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	rows := make([]string, 0, r.NumPage()*64)
	for no := 1; no <= r.NumPage(); no++ {
		page := r.Page(no)
		pageRows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("WARN could not read text from page %d: %v", no, err)
			continue
		}
		for _, row := range pageRows {
			var b strings.Builder
			for i, text := range row.Content {
				b.WriteString(text.S)
				if i < len(row.Content)-1 {
					b.WriteByte(' ')
				}
			}
			if b.Len() > 0 {
				rows = append(rows, b.String())
			}
		}
	}
	return rows, nil
}

// ExtractRowsFromPDF extracts text rows from a PDF file on disk.
func ExtractRowsFromPDF(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ExtractRowsFromPDFReader(file)
}
