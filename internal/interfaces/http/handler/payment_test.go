package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/residency/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartExpenseRequest(t *testing.T, details string, files map[string][]byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if details != "" {
		require.NoError(t, writer.WriteField("details", details))
	}
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, "/payments/expense", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestPaymentHandler_RecordExpense_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil, nil, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartExpenseRequest(t, `{"amount":"10"}`, nil)

	h.RecordExpense(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_RecordExpense_MissingDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil, nil, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.JWTUserIDKey, "7a1c6f10-9f6e-4f40-8f7e-2f51f44c1a25")
	c.Request = multipartExpenseRequest(t, "", map[string][]byte{"receipt.pdf": []byte("x")})

	h.RecordExpense(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp.Error.Message, "details")
}

func TestPaymentHandler_RecordExpense_InvalidDetailsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil, nil, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.JWTUserIDKey, "7a1c6f10-9f6e-4f40-8f7e-2f51f44c1a25")
	c.Request = multipartExpenseRequest(t, "{not json", map[string][]byte{"receipt.pdf": []byte("x")})

	h.RecordExpense(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_RecordExpense_OversizedReceipt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil, nil, 16)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.JWTUserIDKey, "7a1c6f10-9f6e-4f40-8f7e-2f51f44c1a25")
	c.Request = multipartExpenseRequest(t, `{"amount":"10","description":"Groceries"}`,
		map[string][]byte{"receipt.pdf": bytes.Repeat([]byte("a"), 64)})

	h.RecordExpense(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp.Error.Message, "receipt.pdf")
}

func TestPaymentHandler_ReadReceiptFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil, nil, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartExpenseRequest(t, `{}`, map[string][]byte{
		"receipt.pdf": []byte("pdf bytes"),
	})

	form, err := c.MultipartForm()
	require.NoError(t, err)

	files, err := h.readReceiptFiles(form.File["files"])
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "receipt.pdf", files[0].FileName)
	assert.Equal(t, []byte("pdf bytes"), files[0].Data)
	assert.Equal(t, int64(len("pdf bytes")), files[0].Size)
}

func TestPaymentHandler_DownloadReceipt_InvalidIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil, nil, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/payments/abc/receipts/def", nil)
	c.Set(middleware.JWTUserIDKey, "7a1c6f10-9f6e-4f40-8f7e-2f51f44c1a25")
	c.Params = gin.Params{{Key: "id", Value: "abc"}, {Key: "fileId", Value: "def"}}

	h.DownloadReceipt(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_RecordIncome_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil, nil, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/payments/income", bytes.NewBufferString(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.RecordIncome(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
