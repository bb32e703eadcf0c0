package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"glassclass/models"
)

const (
	ExportFilename    = "predresults.csv"
	ExportContentType = "text/csv; charset=utf-8"
	ExportTimeLayout  = "2006-01-02 15:04:05.000000-07:00"
)

var ExportHeader = []string{"ID", "RI", "Na", "Mg", "Al", "Si", "K", "Ca", "Ba", "Fe", "Classification", "Prediction Time"}

// WriteCSV writes the header row followed by one row per record, in the order given.
func WriteCSV(w io.Writer, records []models.PredictionRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(exportRow(r)); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", r.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

func exportRow(r models.PredictionRecord) []string {
	row := make([]string, 0, len(ExportHeader))
	row = append(row, strconv.FormatUint(uint64(r.ID), 10))
	for _, v := range r.Measurements().Vector() {
		row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return append(row, r.Classification, r.CreatedAt.Format(ExportTimeLayout))
}
