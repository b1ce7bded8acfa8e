package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-normalizer/internal/api/mocks"
	"github.com/insightdelivered/statement-normalizer/internal/config"
	"github.com/insightdelivered/statement-normalizer/internal/logger"
	"github.com/insightdelivered/statement-normalizer/internal/models"
)

func setupTestApp(conv Converter) *fiber.App {
	app := fiber.New()
	h := &Handler{Converter: conv, Log: zerolog.Nop(), Version: "test"}
	h.RegisterRoutes(app)
	return app
}

func uploadRequest(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, resp *http.Response) ConvertResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result ConvertResponse
	require.NoError(t, json.Unmarshal(body, &result), string(body))
	return result
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	require.NoError(t, json.Unmarshal(body, &result))

	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
	assert.Equal(t, "test", result["version"])
}

func TestBanksEndpoint(t *testing.T) {
	app := setupTestApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/banks", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var banks []BankInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&banks))
	require.Len(t, banks, len(models.Formats))

	xml := map[string]bool{}
	for _, b := range banks {
		xml[b.Format] = b.XML
	}
	assert.False(t, xml["swedbank"])
	assert.False(t, xml["seb"])
	assert.True(t, xml["citadele"])
	assert.True(t, xml["dnb"])
	assert.True(t, xml["swedbank-fidavista"])
}

func TestConvertEndpointRequiresFile(t *testing.T) {
	app := setupTestApp(nil)

	resp, err := app.Test(uploadRequest(t, map[string]string{"bank": "seb"}, "", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	result := decodeResponse(t, resp)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "No file uploaded")
}

func TestConvertEndpointBankValidation(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantErr string
	}{
		{"missing bank", map[string]string{}, "Missing form field 'bank'"},
		{"unknown bank", map[string]string{"bank": "metro"}, "Unknown bank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(nil)
			resp, err := app.Test(uploadRequest(t, tt.fields, "export.csv", "x"))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, decodeResponse(t, resp).Error, tt.wantErr)
		})
	}
}

func TestConvertEndpointSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	stmt := models.NewStatement("EUR")
	stmt.Bank = "Citadele"
	stmt.SetAccountID("LV11PARX0000000000001")
	stmt.Transactions = []models.Transaction{
		{ID: "A1", Date: date, Amount: decimal.RequireFromString("-10.50"), Currency: "EUR", Category: models.CategoryDebit},
		{ID: "A2", Date: date, Amount: decimal.RequireFromString("100"), Currency: "EUR", Category: models.CategoryDeposit},
	}

	conv := mocks.NewMockConverter(ctrl)
	conv.EXPECT().
		Convert(gomock.Any(), models.FormatCitadele, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Format, r io.Reader) (*models.Statement, error) {
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "<FIDAVISTA/>", string(data))
			return stmt, nil
		})

	app := setupTestApp(conv)
	resp, err := app.Test(uploadRequest(t, map[string]string{"bank": "citadeleLV"}, "export.xml", "<FIDAVISTA/>"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeResponse(t, resp)
	assert.True(t, result.Success)
	assert.Equal(t, "Citadele", result.Bank)
	assert.Equal(t, "LV11PARX0000000000001", result.AccountID)
	assert.Equal(t, 2, result.Count)
	assert.True(t, result.TotalDebit.Equal(decimal.RequireFromString("10.50")), result.TotalDebit.String())
	assert.True(t, result.TotalCredit.Equal(decimal.RequireFromString("100")), result.TotalCredit.String())
	assert.Contains(t, result.CSV, "# Bank,Citadele")
	assert.Contains(t, result.CSV, "2024-03-04,,A1,DEBIT,debit,-10.50,EUR")
}

func TestConvertEndpointNoHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conv := mocks.NewMockConverter(ctrl)
	conv.EXPECT().Convert(gomock.Any(), models.FormatSEB, gomock.Any()).Return(models.NewStatement("EUR"), nil)

	app := setupTestApp(conv)
	resp, err := app.Test(uploadRequest(t, map[string]string{"bank": "seb", "header": "false"}, "export.csv", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeResponse(t, resp)
	assert.True(t, strings.HasPrefix(result.CSV, "Date,"), result.CSV)
	assert.NotNil(t, result.Transactions)
	assert.Equal(t, 0, result.Count)
}

func TestConvertEndpointConversionErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"missing field", models.MissingField("AccountSet", 0, nil), "missing required data"},
		{"other failure", errors.New("boom"), "Parsing failed: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			conv := mocks.NewMockConverter(ctrl)
			conv.EXPECT().Convert(gomock.Any(), models.FormatDNB, gomock.Any()).Return(nil, tt.err)

			app := setupTestApp(conv)
			resp, err := app.Test(uploadRequest(t, map[string]string{"bank": "dnb"}, "export.xml", "<x/>"))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

			result := decodeResponse(t, resp)
			assert.False(t, result.Success)
			assert.Contains(t, result.Error, tt.wantErr)
		})
	}
}

func TestAssemblerConverter(t *testing.T) {
	input := "Klienta konts;Ieraksta tips;Datums;Saņēmējs/Maksātājs;Informācija saņēmējam;Summa;Valūta;Debets/Kredīts;Arhīva kods;Maksājuma veids;Refernces numurs;Dokumenta numurs;\n" +
		"LV00HABA0000000000001;20;04.03.2024;SIA Veikals;Pirkums;12,34;EUR;D;2024030400001;CTX;;;\n"

	var logs bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&logs))

	conv := &AssemblerConverter{Config: config.Default()}
	stmt, err := conv.Convert(ctx, models.FormatSwedbank, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "LV00HABA0000000000001", stmt.AccountID)
	assert.True(t, stmt.Transactions[0].Amount.Equal(decimal.RequireFromString("-12.34")))
	assert.Contains(t, logs.String(), "statement assembled")
}

func TestConvertEndpointPassesRequestLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var logs bytes.Buffer
	conv := mocks.NewMockConverter(ctrl)
	conv.EXPECT().
		Convert(gomock.Any(), models.FormatSEB, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.Format, _ io.Reader) (*models.Statement, error) {
			l := logger.FromContext(ctx)
			l.Info().Msg("converting")
			return models.NewStatement("EUR"), nil
		})

	app := fiber.New()
	h := &Handler{Converter: conv, Log: logger.NewWithWriter(&logs)}
	h.RegisterRoutes(app)

	resp, err := app.Test(uploadRequest(t, map[string]string{"bank": "seb"}, "seb.csv", "x"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := logs.String()
	assert.Contains(t, out, `"message":"converting"`)
	assert.Contains(t, out, `"format":"seb"`)
	assert.Contains(t, out, `"file":"seb.csv"`)
}
