package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLedger = `timestamp,amount (INR),merchant_category,sender_id
2024-01-05 10:00:00,100.00,Food,u1
2024-01-05 10:00:00,100,Food,u1
2024-01-06 11:00:00,abc,Food,u1
not-a-date,50,Food,u2
2024-01-07 09:00:00,-20,Food,u2
2024-02-01 08:00:00,40, Travel ,u2
2024-02-01 08:00:00,40,Travel
2024-02-03 08:00:00,,Travel,u3
`

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_Load_CleansRows(t *testing.T) {
	logger := logging.NewMockLogger()
	loader := NewLoader(DefaultOptions(), logger)

	result, err := loader.Load(strings.NewReader(sampleLedger))
	require.NoError(t, err)

	assert.Equal(t, models.LoadStats{Total: 8, Kept: 2, Malformed: 5, Duplicates: 1}, result.Stats)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, "Food", first.Category)
	assert.Equal(t, "u1", first.SenderID)
	assert.Equal(t, "100", first.Amount.String())
	assert.Equal(t, models.NewMonth(2024, time.January), first.Month)

	second := result.Records[1]
	assert.Equal(t, "Travel", second.Category, "category is trimmed")
	assert.Equal(t, models.NewMonth(2024, time.February), second.Month)

	assert.True(t, result.IdentityAvailable)
	assert.Equal(t, "sender_id", result.IdentityColumn)

	assert.True(t, logger.HasEntry("INFO", "Ledger load summary"))
	assert.Len(t, logger.GetEntriesByLevel("DEBUG"), 6)
}

func TestLoader_Load_MalformedReasonsAreParseErrors(t *testing.T) {
	logger := logging.NewMockLogger()
	loader := NewLoader(DefaultOptions(), logger)

	_, err := loader.Load(strings.NewReader(sampleLedger))
	require.NoError(t, err)

	var reasons []string
	for _, entry := range logger.GetEntriesByLevel("DEBUG") {
		if entry.Message != "Dropping malformed row" {
			continue
		}
		reason, ok := entry.FieldValue(logging.FieldReason)
		require.True(t, ok)
		reasons = append(reasons, reason.(string))
	}
	require.Len(t, reasons, 5)
	assert.Contains(t, reasons[0], "amount (INR)='abc'")
	assert.Contains(t, reasons[1], "timestamp='not-a-date'")
	assert.Contains(t, reasons[2], "negative amount")
	assert.Contains(t, reasons[3], "expected 4 fields")
	assert.Contains(t, reasons[4], "empty amount")
}

func TestLoader_Load_HeaderNormalisation(t *testing.T) {
	input := "\ufeff Timestamp ,AMOUNT (INR), Merchant_Category ,Sender ID\n" +
		"2024-03-01 12:00:00,10,Fuel,s1\n"

	result, err := NewLoader(DefaultOptions(), nil).Load(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "Fuel", result.Records[0].Category)
	assert.True(t, result.IdentityAvailable)
	assert.Equal(t, "Sender ID", result.IdentityColumn)
	assert.Equal(t, "s1", result.Records[0].SenderID)
}

func TestLoader_Load_NoIdentityColumn(t *testing.T) {
	input := "timestamp,amount (INR),merchant_category,sender_name\n" +
		"2024-03-01 12:00:00,10,Fuel,alice\n"

	result, err := NewLoader(DefaultOptions(), nil).Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.False(t, result.IdentityAvailable)
	assert.Empty(t, result.IdentityColumn)
	assert.Empty(t, result.Records[0].SenderID)
}

func TestLoader_Load_SenderOptions(t *testing.T) {
	input := "timestamp,amount (INR),merchant_category,payer,sender_id\n" +
		"2024-03-01 12:00:00,10,Fuel,p1,s1\n"

	t.Run("explicit column", func(t *testing.T) {
		opts := DefaultOptions()
		opts.SenderColumn = "Payer"
		result, err := NewLoader(opts, nil).Load(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, "payer", result.IdentityColumn)
		assert.Equal(t, "p1", result.Records[0].SenderID)
	})

	t.Run("detection disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.DetectSender = false
		result, err := NewLoader(opts, nil).Load(strings.NewReader(input))
		require.NoError(t, err)
		assert.False(t, result.IdentityAvailable)
	})
}

func TestLoader_Load_MissingColumn(t *testing.T) {
	input := "timestamp,amount,merchant_category\n2024-03-01 12:00:00,10,Fuel\n"

	_, err := NewLoader(DefaultOptions(), nil).Load(strings.NewReader(input))
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Contains(t, formatErr.Msg, "amount (INR)")
}

func TestLoader_Load_EmptyInput(t *testing.T) {
	_, err := NewLoader(DefaultOptions(), nil).Load(strings.NewReader(""))
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Contains(t, formatErr.Msg, "file is empty")
}

func TestLoader_Load_CustomDelimiterAndLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = ';'
	opts.Layouts = []string{"02/01/2006"}

	input := "timestamp;amount (INR);merchant_category\n" +
		"31/01/2024;12.5;Books\n" +
		"2024-01-31;12.5;Books\n"

	result, err := NewLoader(opts, nil).Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Kept)
	assert.Equal(t, 1, result.Stats.Malformed)
	assert.Equal(t, models.NewMonth(2024, time.January), result.Records[0].Month)
}

func TestLoader_ForYear(t *testing.T) {
	input := "timestamp,amount (INR),merchant_category\n" +
		"2023-12-31 23:00:00,10,Food\n" +
		"2024-01-01 01:00:00,20,Food\n" +
		"2024-06-15 12:00:00,30,Food\n"

	base := NewLoader(DefaultOptions(), nil)
	result, err := base.ForYear(2024).Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.Kept)
	assert.Equal(t, 1, result.Stats.Filtered)

	all, err := base.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, all.Stats.Kept, "ForYear does not change the original loader")
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeLedger(t, sampleLedger)

	result, err := NewLoader(DefaultOptions(), nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Kept)

	_, err = NewLoader(DefaultOptions(), nil).LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoader_LoadFile_LogsDelimiter(t *testing.T) {
	logger := logging.NewMockLogger()
	opts := DefaultOptions()
	opts.Delimiter = ';'
	path := writeLedger(t, "timestamp;amount (INR);merchant_category\n2024-01-10 10:00:00;100;Food\n")

	_, err := NewLoader(opts, logger).LoadFile(path)
	require.NoError(t, err)

	var delimiter interface{}
	for _, e := range logger.GetEntriesByLevel("INFO") {
		if e.Message != "Loading ledger" {
			continue
		}
		for _, f := range e.Fields {
			if f.Key == logging.FieldDelimiter {
				delimiter = f.Value
			}
		}
	}
	assert.Equal(t, ";", delimiter)
}

func TestLoader_LoadFile_InvalidFormatNamesFile(t *testing.T) {
	path := writeLedger(t, "when,how much\n2024-01-01,1\n")

	_, err := NewLoader(DefaultOptions(), nil).LoadFile(path)
	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, path, formatErr.FilePath)
}

func TestLoader_ValidateFormat(t *testing.T) {
	loader := NewLoader(DefaultOptions(), nil)

	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{"valid", sampleLedger, true},
		{"header only", "timestamp,amount (INR),merchant_category\n", false},
		{"missing columns", "date,amount\n2024-01-01,1\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := loader.ValidateFormat(writeLedger(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
		})
	}

	_, err := loader.ValidateFormat(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestDetectSenderColumn(t *testing.T) {
	assert.Equal(t, 2, DetectSenderColumn([]string{"a", "b", "SENDER_ID"}))
	assert.Equal(t, 0, DetectSenderColumn([]string{"id_of_sender", "sender_id"}))
	assert.Equal(t, -1, DetectSenderColumn([]string{"sender", "user_id"}))
}
