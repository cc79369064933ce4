// Package csvio reads transaction CSV files and writes categorized
// output files. All struct mapping goes through gocsv so the column
// layout lives in struct tags, not positional code.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"moneymap/internal/logging"
	"moneymap/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// CategorizedRow is one line of the output file: the input transaction
// columns with the assigned classification appended.
type CategorizedRow struct {
	ID                int64           `csv:"id"`
	Date              string          `csv:"date"`
	Description       string          `csv:"description"`
	Amount            decimal.Decimal `csv:"amount"`
	SourceCategory    string          `csv:"source_category"`
	SourceSubcategory string          `csv:"source_subcategory"`
	Category          models.Category `csv:"category"`
	Subcategory       string          `csv:"subcategory"`
	Confidence        float64         `csv:"confidence"`
}

// ReaderWriter handles transaction CSV input and categorized CSV output
// with a configurable delimiter.
type ReaderWriter struct {
	delimiter rune
	logger    logging.Logger
}

// New creates a ReaderWriter. A zero delimiter selects comma.
func New(delimiter rune, logger logging.Logger) *ReaderWriter {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ReaderWriter{
		delimiter: delimiter,
		logger:    logger,
	}
}

// ReadTransactions reads a transaction CSV file. Transactions without an
// explicit id column value get sequential ids assigned in file order,
// starting at 1.
func (rw *ReaderWriter) ReadTransactions(path string) ([]models.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening transactions file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			rw.logger.WithError(err).Warn("Failed to close input file")
		}
	}()

	var transactions []models.Transaction
	if err := gocsv.UnmarshalCSV(rw.newReader(file), &transactions); err != nil {
		return nil, fmt.Errorf("error parsing transactions file %s: %w", path, err)
	}

	for i := range transactions {
		if transactions[i].ID == 0 {
			transactions[i].ID = int64(i + 1)
		}
	}

	rw.logger.WithFields(
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "count", Value: len(transactions)},
	).Info("Read transactions")
	return transactions, nil
}

// WriteCategorized joins transactions with their classification results
// by id and writes the combined rows in transaction order. Every
// transaction must have a matching result.
func (rw *ReaderWriter) WriteCategorized(path string, transactions []models.Transaction, results []models.ClassificationResult) error {
	byID := make(map[int64]models.ClassificationResult, len(results))
	for _, result := range results {
		byID[result.ID] = result
	}

	rows := make([]CategorizedRow, 0, len(transactions))
	for _, tx := range transactions {
		result, found := byID[tx.ID]
		if !found {
			return fmt.Errorf("no classification for transaction %d", tx.ID)
		}
		rows = append(rows, CategorizedRow{
			ID:                tx.ID,
			Date:              tx.Date,
			Description:       tx.Description,
			Amount:            tx.Amount,
			SourceCategory:    tx.SourceCategory,
			SourceSubcategory: tx.SourceSubcategory,
			Category:          result.Category,
			Subcategory:       result.Subcategory,
			Confidence:        result.Confidence,
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			rw.logger.WithError(err).Warn("Failed to close output file")
		}
	}()

	if err := gocsv.MarshalCSV(&rows, rw.newWriter(file)); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}

	rw.logger.WithFields(
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "count", Value: len(rows)},
	).Info("Wrote categorized transactions")
	return nil
}

func (rw *ReaderWriter) newReader(r io.Reader) gocsv.CSVReader {
	reader := csv.NewReader(r)
	reader.Comma = rw.delimiter
	return reader
}

func (rw *ReaderWriter) newWriter(w io.Writer) *gocsv.SafeCSVWriter {
	writer := csv.NewWriter(w)
	writer.Comma = rw.delimiter
	return gocsv.NewSafeCSVWriter(writer)
}
