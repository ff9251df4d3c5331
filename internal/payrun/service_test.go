package payrun

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/ingest"
	"github.com/thomasakiou/neco-pay/internal/repository"
)

type testEnv struct {
	svc         *Service
	postingRepo *repository.PostingRepo
	paymentRepo *repository.PaymentRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	postingRepo := repository.NewPostingRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	refRepo := repository.NewReferenceRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	_, err = staffRepo.Insert(&domain.Staff{
		StaffID: "0347", Name: "ADAMU MUSA",
		BankName: "UNITY BANK", AccountNo: "0011223344", Active: true,
	})
	require.NoError(t, err)

	_, err = refRepo.InsertDistance(&domain.Distance{
		Source: "Gombe", Target: "Minna", Distance: 100, Active: true,
	})
	require.NoError(t, err)

	_, err = refRepo.InsertParameter(&domain.Parameter{
		Contiss: "CONR08", PerNight: 2000, Local: 500, Kilometer: 50, Active: true,
	})
	require.NoError(t, err)

	_, err = refRepo.BulkInsertStates([]domain.State{
		{State: "Niger", Capital: "Minna", Active: true},
		{State: "Lagos", Capital: "Ikeja", Active: true},
	})
	require.NoError(t, err)

	return &testEnv{
		svc:         NewService(postingRepo, staffRepo, refRepo, paymentRepo, ingest.DefaultConfig()),
		postingRepo: postingRepo,
		paymentRepo: paymentRepo,
	}
}

var testSheet = []byte(`NATIONAL EXAMINATIONS COUNCIL
S/N,State,File No,Name,Conraiss,Station,Posting
1,Niger,0347,ADAMU MUSA,08,Gombe,
2,Lagos,9999,UNKNOWN STAFF,15,Kano,
`)

func TestServiceIngestSheet(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.IngestSheet(testSheet, "postings.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, result.UploadID)
	assert.Equal(t, 1, result.HeaderRow)
	assert.Equal(t, 2, result.OriginalRows)
	assert.Equal(t, 2, result.CleanedRows)
	assert.Equal(t, 2, result.RecordsStored)
	assert.False(t, result.AlreadyIngested)

	postings, err := env.postingRepo.ListActive()
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "Minna", postings[0].Posting)
	assert.Equal(t, "Ikeja", postings[1].Posting)

	t.Run("reupload_is_noop", func(t *testing.T) {
		again, err := env.svc.IngestSheet(testSheet, "postings.csv")
		require.NoError(t, err)
		assert.True(t, again.AlreadyIngested)

		count, err := env.postingRepo.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestServiceGeneratePayments(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.IngestSheet(testSheet, "postings.csv")
	require.NoError(t, err)

	params := BatchParams{PaymentTitle: "September 2025 Posting", LocalRuns: 500, NumbOfNights: 3}
	run, err := env.svc.GeneratePayments(params)
	require.NoError(t, err)
	require.NotEmpty(t, run.RunID)
	assert.Equal(t, Stats{Records: 2, StaffMisses: 1, DistanceMisses: 1, ParameterMisses: 1}, run.Stats)

	payments, err := env.paymentRepo.ListByRun(run.RunID)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	matched := payments[0]
	assert.Equal(t, "0347", matched.FileNo)
	assert.Equal(t, "UNITY BANK", matched.Bank)
	assert.Equal(t, 5000.0, matched.Transport)
	assert.Equal(t, 6000.0, matched.DTA)
	assert.Equal(t, 11500.0, matched.Netpay)
	assert.Equal(t, "September 2025 Posting", matched.PaymentTitle)

	unmatched := payments[1]
	assert.Equal(t, "9999", unmatched.FileNo)
	assert.Empty(t, unmatched.Bank)
	assert.Equal(t, 500.0, unmatched.Netpay)

	t.Run("second_run_gets_own_id", func(t *testing.T) {
		run2, err := env.svc.GeneratePayments(params)
		require.NoError(t, err)
		assert.NotEqual(t, run.RunID, run2.RunID)

		scoped, err := env.paymentRepo.ListByRun(run2.RunID)
		require.NoError(t, err)
		assert.Len(t, scoped, 2)
	})
}

func TestServiceGeneratePaymentsGuards(t *testing.T) {
	env := newTestEnv(t)

	t.Run("invalid_params", func(t *testing.T) {
		_, err := env.svc.GeneratePayments(BatchParams{})
		var paramErr *InvalidBatchParametersError
		require.ErrorAs(t, err, &paramErr)
	})

	t.Run("no_postings", func(t *testing.T) {
		_, err := env.svc.GeneratePayments(BatchParams{PaymentTitle: "X", NumbOfNights: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no postings")
	})
}

func TestServiceValidatePostings(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.IngestSheet(testSheet, "postings.csv")
	require.NoError(t, err)

	summary, err := env.svc.ValidatePostings()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, []string{"9999"}, summary.MissingFileNos)
}

func TestServiceExportCSV(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.IngestSheet(testSheet, "postings.csv")
	require.NoError(t, err)

	params := BatchParams{PaymentTitle: "September 2025 Posting", LocalRuns: 500, NumbOfNights: 3}
	run, err := env.svc.GeneratePayments(params)
	require.NoError(t, err)
	_, err = env.svc.GeneratePayments(params)
	require.NoError(t, err)

	t.Run("single_run", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, env.svc.ExportCSV(&buf, run.RunID))
		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "File_No", rows[0][0])
		assert.Equal(t, "0347", rows[1][0])
	})

	t.Run("all_runs", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, env.svc.ExportCSV(&buf, ""))
		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, 5)
	})
}
