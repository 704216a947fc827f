// Package export writes ranked hotel results to files for offline use.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
)

// CSVWriter exports ranked records to a CSV file.
type CSVWriter struct {
	filename string
}

// NewCSVWriter creates a writer targeting the given path.
func NewCSVWriter(filename string) *CSVWriter {
	return &CSVWriter{filename: filename}
}

// WriteRecords writes the records in their given order, one row per
// hotel.
func (w *CSVWriter) WriteRecords(records []hotel.Record) error {
	file, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close()

	return writeCSV(file, records)
}

func writeCSV(out io.Writer, records []hotel.Record) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	header := []string{"Rank", "Name", "Price", "Rating", "Normalized Rating", "Stars", "Location", "Source", "Booking Link"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		normalized := ""
		if rec.RatingNormalized != nil {
			normalized = strconv.FormatFloat(*rec.RatingNormalized, 'f', 1, 64)
		}
		stars := ""
		if rec.Stars > 0 {
			stars = strconv.Itoa(rec.Stars)
		}
		row := []string{
			strconv.Itoa(rec.Rank),
			rec.Name,
			rec.Price,
			rec.Rating,
			normalized,
			stars,
			rec.Location,
			rec.Source,
			rec.BookingLink,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
