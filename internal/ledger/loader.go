// Package ledger reads a delimited transaction ledger and turns it into
// cleaned LedgerRecords.
//
// Rows whose timestamp or amount cannot be coerced, whose amount is negative
// or whose field count does not match the header are dropped as malformed.
// Rows that are exact duplicates of an earlier row, after coercion, are
// dropped as duplicates. A missing required column fails the whole load.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fjacquet/budget-csv/internal/config"
	"fjacquet/budget-csv/internal/dateutils"
	"fjacquet/budget-csv/internal/fileutils"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"
)

const parserName = "ledger"

// ErrNegativeAmount marks a row whose amount is below zero.
var ErrNegativeAmount = errors.New("negative amount")

// Options configures a Loader.
type Options struct {
	TimestampColumn string
	AmountColumn    string
	CategoryColumn  string
	// SenderColumn forces the identity column. Empty means auto-detect when
	// DetectSender is set.
	SenderColumn string
	DetectSender bool
	Delimiter    rune
	// Layouts overrides the timestamp layouts tried, in order.
	Layouts  []string
	Location *time.Location
	// Year keeps only rows of that calendar year. Zero keeps everything.
	Year int
}

// DefaultOptions matches the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig maps the csv and ledger configuration sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TimestampColumn: cfg.Ledger.TimestampColumn,
		AmountColumn:    cfg.Ledger.AmountColumn,
		CategoryColumn:  cfg.Ledger.CategoryColumn,
		SenderColumn:    cfg.Ledger.SenderColumn,
		DetectSender:    cfg.Ledger.DetectSender,
		Delimiter:       cfg.DelimiterRune(),
		Layouts:         cfg.CSV.TimestampFormats,
		Location:        cfg.Location(),
	}
}

// Result is the outcome of a load.
type Result struct {
	Records []models.LedgerRecord
	Stats   models.LoadStats
	// IdentityColumn is the header label of the sender column, if any.
	IdentityColumn    string
	IdentityAvailable bool
}

// Loader reads ledgers.
type Loader struct {
	opts   Options
	dates  *dateutils.Parser
	logger logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts Options, logger logging.Logger) *Loader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Loader{
		opts:   opts,
		dates:  dateutils.NewParser(opts.Layouts, opts.Location),
		logger: logger,
	}
}

// ForYear returns a copy of the loader that keeps only rows of year.
func (l *Loader) ForYear(year int) *Loader {
	clone := *l
	clone.opts.Year = year
	return &clone
}

// LoadFile opens and loads the ledger at filePath.
func (l *Loader) LoadFile(filePath string) (*Result, error) {
	l.logger.Info("Loading ledger",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldDelimiter, Value: string(l.opts.Delimiter)})

	file, err := fileutils.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return l.load(file, filePath)
}

// Load reads a ledger from r.
func (l *Loader) Load(r io.Reader) (*Result, error) {
	return l.load(r, "")
}

// columns holds the resolved header indexes.
type columns struct {
	timestamp int
	amount    int
	category  int
	sender    int // -1 without identity column
	header    []string
}

func (l *Loader) newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = l.opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func (l *Loader) load(r io.Reader, source string) (*Result, error) {
	reader := l.newReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: l.expectedFormat(),
			Msg:            "file is empty",
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error reading ledger header: %w", err)
	}

	cols, err := l.resolveColumns(header)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = source
		}
		return nil, err
	}

	result := &Result{}
	if cols.sender >= 0 {
		result.IdentityColumn = cols.header[cols.sender]
		result.IdentityAvailable = true
		l.logger.Info("Sender identity column detected",
			logging.Field{Key: logging.FieldColumn, Value: result.IdentityColumn})
	}

	seen := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				result.Stats.Total++
				result.Stats.Malformed++
				l.logger.Debug("Dropping unreadable row",
					logging.Field{Key: logging.FieldLine, Value: csvErr.Line},
					logging.Field{Key: logging.FieldError, Value: csvErr.Error()})
				continue
			}
			return nil, fmt.Errorf("error reading ledger: %w", err)
		}

		result.Stats.Total++
		line, _ := reader.FieldPos(0)

		rec, key, perr := l.convertRow(record, cols, line)
		if perr != nil {
			result.Stats.Malformed++
			l.logger.Debug("Dropping malformed row",
				logging.Field{Key: logging.FieldLine, Value: line},
				logging.Field{Key: logging.FieldReason, Value: perr.Error()})
			continue
		}

		if _, dup := seen[key]; dup {
			result.Stats.Duplicates++
			l.logger.Debug("Dropping duplicate row",
				logging.Field{Key: logging.FieldLine, Value: line})
			continue
		}
		seen[key] = struct{}{}

		if l.opts.Year != 0 && rec.Timestamp.Year() != l.opts.Year {
			result.Stats.Filtered++
			continue
		}

		result.Records = append(result.Records, rec)
	}

	result.Stats.Kept = len(result.Records)
	result.Stats.LogSummary(l.logger, source)
	return result, nil
}

// convertRow coerces one row and returns it with its duplicate key.
func (l *Loader) convertRow(record []string, cols columns, line int) (models.LedgerRecord, string, error) {
	if len(record) != len(cols.header) {
		return models.LedgerRecord{}, "", &parsererror.ParseError{
			Parser: parserName,
			Line:   line,
			Field:  "record",
			Value:  strconv.Itoa(len(record)) + " fields",
			Err:    fmt.Errorf("expected %d fields", len(cols.header)),
		}
	}

	rawTS := record[cols.timestamp]
	ts, _, err := l.dates.Parse(rawTS)
	if err != nil {
		return models.LedgerRecord{}, "", &parsererror.ParseError{
			Parser: parserName,
			Line:   line,
			Field:  cols.header[cols.timestamp],
			Value:  rawTS,
			Err:    err,
		}
	}

	rawAmount := record[cols.amount]
	amount, err := models.ParseAmount(rawAmount)
	if err == nil && amount.IsNegative() {
		err = ErrNegativeAmount
	}
	if err != nil {
		return models.LedgerRecord{}, "", &parsererror.ParseError{
			Parser: parserName,
			Line:   line,
			Field:  cols.header[cols.amount],
			Value:  rawAmount,
			Err:    err,
		}
	}

	sender := ""
	if cols.sender >= 0 {
		sender = strings.TrimSpace(record[cols.sender])
	}

	rec := models.NewLedgerRecord(ts, amount, strings.TrimSpace(record[cols.category]), sender)
	return rec, duplicateKey(record, cols, rec), nil
}

// duplicateKey identifies a row by its coerced timestamp and amount plus every
// other raw field, so that "100" and "100.00" at the same instant collide.
func duplicateKey(record []string, cols columns, rec models.LedgerRecord) string {
	parts := make([]string, len(record))
	for i, v := range record {
		switch i {
		case cols.timestamp:
			parts[i] = rec.Timestamp.UTC().Format(time.RFC3339Nano)
		case cols.amount:
			parts[i] = rec.Amount.String()
		default:
			parts[i] = v
		}
	}
	return strings.Join(parts, "\x1f")
}

func (l *Loader) resolveColumns(rawHeader []string) (columns, error) {
	header := make([]string, len(rawHeader))
	index := make(map[string]int, len(rawHeader))
	for i, h := range rawHeader {
		label := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = label
		key := strings.ToLower(label)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	cols := columns{sender: -1, header: header}
	var missing []string
	lookup := func(name string) int {
		i, ok := index[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	cols.timestamp = lookup(l.opts.TimestampColumn)
	cols.amount = lookup(l.opts.AmountColumn)
	cols.category = lookup(l.opts.CategoryColumn)
	if l.opts.SenderColumn != "" {
		cols.sender = lookup(l.opts.SenderColumn)
	} else if l.opts.DetectSender {
		cols.sender = DetectSenderColumn(header)
	}

	if len(missing) > 0 {
		return columns{}, &parsererror.InvalidFormatError{
			ExpectedFormat: l.expectedFormat(),
			Msg:            "missing required column(s): " + strings.Join(missing, ", "),
		}
	}
	return cols, nil
}

// DetectSenderColumn returns the index of the first header whose lowercase
// label contains both "sender" and "id", or -1.
func DetectSenderColumn(header []string) int {
	for i, h := range header {
		label := strings.ToLower(h)
		if strings.Contains(label, "sender") && strings.Contains(label, "id") {
			return i
		}
	}
	return -1
}

func (l *Loader) expectedFormat() string {
	return fmt.Sprintf("delimited ledger with columns %q, %q and %q",
		l.opts.TimestampColumn, l.opts.AmountColumn, l.opts.CategoryColumn)
}

// ValidateFormat checks that the file has the required columns and at least
// one data row. Missing columns and header-only files are reported as
// (false, nil); I/O failures as errors.
func (l *Loader) ValidateFormat(filePath string) (bool, error) {
	l.logger.Info("Validating ledger format", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := fileutils.OpenFile(filePath)
	if err != nil {
		return false, fmt.Errorf("error opening file for validation: %w", err)
	}
	defer file.Close()

	reader := l.newReader(file)

	header, err := reader.Read()
	if err == io.EOF {
		l.logger.Info("Ledger file is empty", logging.Field{Key: logging.FieldFile, Value: filePath})
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading CSV header: %w", err)
	}

	if _, err := l.resolveColumns(header); err != nil {
		l.logger.Info("Ledger is missing required columns",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: logging.FieldReason, Value: err.Error()})
		return false, nil
	}

	_, err = reader.Read()
	if err == io.EOF {
		l.logger.Info("Ledger file has no data rows", logging.Field{Key: logging.FieldFile, Value: filePath})
		return false, nil
	} else if err != nil {
		var csvErr *csv.ParseError
		if !errors.As(err, &csvErr) {
			return false, fmt.Errorf("error reading CSV record: %w", err)
		}
	}

	return true, nil
}
