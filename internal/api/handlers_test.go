package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/ingest"
	"github.com/thomasakiou/neco-pay/internal/payrun"
	"github.com/thomasakiou/neco-pay/internal/repository"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	staffRepo := repository.NewStaffRepo(db)
	refRepo := repository.NewReferenceRepo(db)
	postingRepo := repository.NewPostingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	svc := payrun.NewService(postingRepo, staffRepo, refRepo, paymentRepo, ingest.DefaultConfig())

	_, err = staffRepo.Insert(&domain.Staff{
		StaffID: "0347", Name: "ADAMU MUSA", BankName: "UNITY BANK",
		AccountNo: "0011223344", Active: true,
	})
	require.NoError(t, err)
	_, err = refRepo.InsertDistance(&domain.Distance{Source: "Gombe", Target: "Minna", Distance: 100, Active: true})
	require.NoError(t, err)
	_, err = refRepo.InsertParameter(&domain.Parameter{Contiss: "CONR08", PerNight: 2000, Kilometer: 50, Active: true})
	require.NoError(t, err)
	_, err = refRepo.InsertState(&domain.State{State: "Niger", Capital: "Minna", Active: true})
	require.NoError(t, err)

	return NewRouter(staffRepo, refRepo, postingRepo, paymentRepo, svc)
}

func uploadRequest(t *testing.T, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/postings/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var sheetCSV = []byte("S/N,State,File No,Name,Conraiss,Station,Posting\n1,Niger,0347,ADAMU MUSA,08,Gombe,\n")

func TestUploadPostings(t *testing.T) {
	router := newTestRouter(t)

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "postings.csv", sheetCSV))
		require.Equal(t, http.StatusOK, rec.Code)

		var result payrun.IngestResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 1, result.RecordsStored)
		assert.NotEmpty(t, result.UploadID)
	})

	t.Run("duplicate_upload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "postings.csv", sheetCSV))
		require.Equal(t, http.StatusOK, rec.Code)

		var result payrun.IngestResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.AlreadyIngested)
	})

	t.Run("missing_columns_is_422", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "bad.csv", []byte("A,B\n1,2\n")))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing required columns")
	})

	t.Run("empty_sheet_is_422", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "empty.csv", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing_file_field_is_400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/postings/upload", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGeneratePayments(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "postings.csv", sheetCSV))
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("ok", func(t *testing.T) {
		body := `{"payment_title":"September 2025 Posting","local_runs":500,"numb_of_nights":3}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/generate", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var result payrun.RunResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, 1, result.Stats.Records)
		assert.Zero(t, result.Stats.StaffMisses)
	})

	t.Run("invalid_params_is_400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/generate", strings.NewReader(`{"payment_title":""}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid batch parameters")
	})

	t.Run("list_and_export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var listed struct {
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
		assert.Equal(t, 1, listed.Total)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/payments/export", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "File_No,Name,Conraiss"))
	})
}

func TestValidationEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "postings.csv", sheetCSV))
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/postings/validation", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary payrun.ValidationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Matched)
	assert.Zero(t, summary.Missing)
}

func TestReferenceEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("create_staff_requires_staff_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/staff", strings.NewReader(`{"name":"NO ID"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create_and_list_parameter", func(t *testing.T) {
		body := `{"contiss":"CONR07","pernight":1500,"local":400,"kilometer":45}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/parameters", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/parameters", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var listed struct {
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
		assert.Equal(t, 2, listed.Total)
	})

	t.Run("create_distance_requires_endpoints", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/distances", strings.NewReader(`{"distance":10}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dashboard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var counts map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
		assert.Equal(t, 1, counts["staff"])
	})
}
