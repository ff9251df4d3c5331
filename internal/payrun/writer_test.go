package payrun

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	payments := []domain.Payment{
		{
			FileNo:         "0347",
			Name:           "ADAMU MUSA",
			Conraiss:       "08",
			Station:        "Gombe",
			Posting:        "Minna",
			Bank:           "UNITY BANK",
			AccountNo:      "0011223344",
			Transport:      5000,
			LocalRuns:      500,
			NumbOfNights:   3,
			AmountPerNight: 2000,
			DTA:            6000,
			Netpay:         11500,
			PaymentTitle:   "2025 Posting Allowance",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, payments))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"File_No", "Name", "Conraiss", "Station", "Posting",
		"Bank", "Account_No", "Transport", "Local_Runs", "Numb_of_nights",
		"Amt_per_night", "DTA", "Netpay", "Payment_Title",
	}, rows[0])

	assert.Equal(t, []string{
		"0347", "ADAMU MUSA", "08", "Gombe", "Minna",
		"UNITY BANK", "0011223344", "5000", "500", "3",
		"2000", "6000", "11500", "2025 Posting Allowance",
	}, rows[1])
}

func TestWriteCSVEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "header only")
}

func TestWriteCSVFractionalAmounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []domain.Payment{{FileNo: "1", Transport: 1234.5, Netpay: 1234.5}}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "1234.5", rows[1][7])
	assert.Equal(t, "1234.5", rows[1][12])
}
