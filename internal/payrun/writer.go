package payrun

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

// csvColumns is the fixed export column order. It matches the layout the
// mandate upload endpoint expects, so do not reorder.
var csvColumns = []string{
	"File_No", "Name", "Conraiss", "Station", "Posting",
	"Bank", "Account_No", "Transport", "Local_Runs", "Numb_of_nights",
	"Amt_per_night", "DTA", "Netpay", "Payment_Title",
}

// WriteCSV serializes a run as a delimited table, one row per payment, in the
// fixed column order.
func WriteCSV(w io.Writer, payments []domain.Payment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range payments {
		row := []string{
			p.FileNo,
			p.Name,
			p.Conraiss,
			p.Station,
			p.Posting,
			p.Bank,
			p.AccountNo,
			formatAmount(p.Transport),
			formatAmount(p.LocalRuns),
			strconv.Itoa(p.NumbOfNights),
			formatAmount(p.AmountPerNight),
			formatAmount(p.DTA),
			formatAmount(p.Netpay),
			p.PaymentTitle,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
