package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/residency/backend/internal/application/ledger"
	"github.com/residency/backend/internal/domain/ledger"
	"github.com/residency/backend/internal/interfaces/http/dto"
	"github.com/residency/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment recording and reporting endpoints
type PaymentHandler struct {
	BaseHandler
	recorder       *ledgerapp.RecorderService
	reader         *ledgerapp.ReaderService
	maxReceiptSize int64
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(recorder *ledgerapp.RecorderService, reader *ledgerapp.ReaderService, maxReceiptSize int64) *PaymentHandler {
	return &PaymentHandler{
		recorder:       recorder,
		reader:         reader,
		maxReceiptSize: maxReceiptSize,
	}
}

// RecordIncome records an income payment split across the given users
func (h *PaymentHandler) RecordIncome(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ledgerapp.RecordIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.recorder.RecordIncome(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// RecordExpense records an expense payment. The request is multipart:
// a "details" JSON part with amount, description and optional task ID,
// plus one or more receipt files under "files".
func (h *PaymentHandler) RecordExpense(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	details := c.PostForm("details")
	if details == "" {
		h.BadRequest(c, "Missing details part")
		return
	}

	var req ledgerapp.RecordExpenseRequest
	if err := json.Unmarshal([]byte(details), &req); err != nil {
		h.BadRequest(c, "Invalid details JSON")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}

	files, err := h.readReceiptFiles(form.File["files"])
	if err != nil {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, err.Error())
		return
	}
	req.Files = files

	payment, err := h.recorder.RecordExpense(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// DailyTotals returns per-day income and expense sums for the recent
// reporting window, framed for the authenticated user's role
func (h *PaymentHandler) DailyTotals(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	totals, err := h.reader.DailyTotals(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, totals)
}

// Overview returns the running totals for the household and the user
func (h *PaymentHandler) Overview(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	overview, err := h.reader.Overview(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, overview)
}

// CombinedFeed returns the credit/debit ledger feed for the user
func (h *PaymentHandler) CombinedFeed(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	feed, err := h.reader.CombinedFeed(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, feed)
}

// DownloadReceipt streams a stored receipt file to an authorized caller
func (h *PaymentHandler) DownloadReceipt(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID")
		return
	}

	receipt, err := h.reader.Receipt(c.Request.Context(), actorID, paymentID, fileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	contentType := receipt.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.FileName))
	c.Data(http.StatusOK, contentType, receipt.Data)
}

// readReceiptFiles loads uploaded receipts into memory, enforcing the
// per-file size limit before any bytes reach the service layer
func (h *PaymentHandler) readReceiptFiles(headers []*multipart.FileHeader) ([]ledger.AttachmentInput, error) {
	inputs := make([]ledger.AttachmentInput, 0, len(headers))
	for _, header := range headers {
		if header.Size > h.maxReceiptSize {
			return nil, fmt.Errorf("receipt %s exceeds the %d byte limit", header.Filename, h.maxReceiptSize)
		}

		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open receipt %s", header.Filename)
		}

		data, err := io.ReadAll(io.LimitReader(file, h.maxReceiptSize+1))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read receipt %s", header.Filename)
		}
		if int64(len(data)) > h.maxReceiptSize {
			return nil, fmt.Errorf("receipt %s exceeds the %d byte limit", header.Filename, h.maxReceiptSize)
		}

		inputs = append(inputs, ledger.AttachmentInput{
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     int64(len(data)),
			Data:     data,
		})
	}
	return inputs, nil
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/income", h.RecordIncome)
		payments.POST("/expense", h.RecordExpense)
		payments.GET("/summary", h.DailyTotals)
		payments.GET("/overview", h.Overview)
		payments.GET("/combined", h.CombinedFeed)
		payments.GET("/:id/receipts/:fileId", h.DownloadReceipt)
	}
}
