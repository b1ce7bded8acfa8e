package api

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/logger"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/writer"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                  `json:"success"`
	Error        string                `json:"error,omitempty"`
	Bank         string                `json:"bank,omitempty"`
	AccountID    string                `json:"accountId,omitempty"`
	Currency     string                `json:"currency,omitempty"`
	StartDate    *time.Time            `json:"startDate,omitempty"`
	EndDate      *time.Time            `json:"endDate,omitempty"`
	StartBalance *decimal.Decimal      `json:"startBalance,omitempty"`
	EndBalance   *decimal.Decimal      `json:"endBalance,omitempty"`
	Accounts     []*models.BankAccount `json:"accounts,omitempty"`
	Transactions []models.Transaction  `json:"transactions"`
	CSV          string                `json:"csv,omitempty"`
	TotalDebit   decimal.Decimal       `json:"totalDebit"`
	TotalCredit  decimal.Decimal       `json:"totalCredit"`
	Count        int                   `json:"count"`
	Version      string                `json:"version,omitempty"`
}

// BankInfo describes one supported format for /api/banks.
type BankInfo struct {
	Format string `json:"format"`
	XML    bool   `json:"xml"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Converter Converter
	Log       zerolog.Logger
	Version   string
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Get("/banks", h.HandleBanks)
	api.Post("/convert", h.HandleConvert)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

func (h *Handler) HandleBanks(c *fiber.Ctx) error {
	banks := make([]BankInfo, 0, len(models.Formats))
	for _, f := range models.Formats {
		banks = append(banks, BankInfo{Format: string(f), XML: f.IsXML()})
	}
	return c.JSON(banks)
}

func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	bankParam := c.FormValue("bank")
	if bankParam == "" {
		return writeError(c, fiber.StatusBadRequest, "Missing form field 'bank'.")
	}
	format, err := models.ParseFormat(bankParam)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Unknown bank: %q.", bankParam))
	}
	includeHeader := c.FormValue("header") != "false"

	file, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	defer file.Close()

	reqLog := logger.WithFields(h.Log, map[string]interface{}{
		"format": string(format),
		"file":   fh.Filename,
		"size":   fh.Size,
	})
	ctx := logger.WithContext(c.UserContext(), reqLog)

	stmt, err := h.Converter.Convert(ctx, format, file)
	if err != nil {
		reqLog.Warn().Err(err).Msg("conversion failed")
		if errors.Is(err, models.ErrMissingField) {
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Statement is missing required data: %v", err))
		}
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := csvWriter.Write(&csvBuf, stmt); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// nil marshals to null, not []
	txns := stmt.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}
	debit, credit := stmt.Totals()

	return c.JSON(ConvertResponse{
		Success:      true,
		Bank:         stmt.Bank,
		AccountID:    stmt.AccountID,
		Currency:     stmt.Currency,
		StartDate:    stmt.StartDate,
		EndDate:      stmt.EndDate,
		StartBalance: stmt.StartBalance,
		EndBalance:   stmt.EndBalance,
		Accounts:     stmt.Accounts,
		Transactions: txns,
		CSV:          csvBuf.String(),
		TotalDebit:   debit,
		TotalCredit:  credit,
		Count:        len(txns),
		Version:      h.Version,
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
