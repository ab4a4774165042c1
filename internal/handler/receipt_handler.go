package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"vivah/backend/internal/models"
	"vivah/backend/internal/receipt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// ReceiptInput defines the editable tuition receipt fields. Amounts are in
// the smallest currency unit.
type ReceiptInput struct {
	StudentName  string `json:"student_name" binding:"required"`
	FatherName   string `json:"father_name" binding:"required"`
	Address      string `json:"address"`
	AdmissionNo  string `json:"admission_no"`
	ClassName    string `json:"class_name"`
	Month        string `json:"month"`
	Year         string `json:"year"`
	AdmissionFee int64  `json:"admission_fee"`
	TuitionFee   int64  `json:"tuition_fee"`
	BackDues     int64  `json:"back_dues"`
	Extra        int64  `json:"extra"`
	Description  string `json:"description"`
}

// ReceiptEntryInput records one month's dues payment.
type ReceiptEntryInput struct {
	Month     string `json:"month" binding:"required"`
	Year      string `json:"year" binding:"required"`
	Amount    int64  `json:"amount"`
	Baki      int64  `json:"baki"`
	Completed bool   `json:"completed"`
	Remarks   string `json:"remarks"`
}

// ReceiptEntryResponse is one monthly dues row.
type ReceiptEntryResponse struct {
	Month     string `json:"month"`
	Year      string `json:"year"`
	Amount    int64  `json:"amount"`
	Baki      int64  `json:"baki"`
	Completed bool   `json:"completed"`
	Remarks   string `json:"remarks,omitempty"`
}

// ReceiptResponse is one tuition receipt with its entries.
type ReceiptResponse struct {
	UID         uuid.UUID              `json:"uid"`
	ReceiptNo   string                 `json:"receipt_no"`
	StudentName string                 `json:"student_name"`
	FatherName  string                 `json:"father_name"`
	Address     string                 `json:"address,omitempty"`
	AdmissionNo string                 `json:"admission_no,omitempty"`
	ClassName   string                 `json:"class_name,omitempty"`
	Month       string                 `json:"month,omitempty"`
	Year        string                 `json:"year,omitempty"`

	AdmissionFee int64 `json:"admission_fee"`
	TuitionFee   int64 `json:"tuition_fee"`
	BackDues     int64 `json:"back_dues"`
	Extra        int64 `json:"extra"`
	Total        int64 `json:"total"`
	Outstanding  int64 `json:"outstanding"`

	Description string                 `json:"description,omitempty"`
	Entries     []ReceiptEntryResponse `json:"entries"`
	CreatedAt   time.Time              `json:"created_at"`
}

// endregion

func receiptResponse(r *models.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		UID:          r.UID,
		ReceiptNo:    r.ReceiptNo,
		StudentName:  r.StudentName,
		FatherName:   r.FatherName,
		Address:      r.Address,
		AdmissionNo:  r.AdmissionNo,
		ClassName:    r.ClassName,
		Month:        r.Month,
		Year:         r.Year,
		AdmissionFee: r.AdmissionFee,
		TuitionFee:   r.TuitionFee,
		BackDues:     r.BackDues,
		Extra:        r.Extra,
		Total:        r.Total,
		Outstanding:  receipt.Outstanding(r),
		Description:  r.Description,
		Entries:      make([]ReceiptEntryResponse, 0, len(r.Entries)),
		CreatedAt:    r.CreatedAt,
	}
	for _, e := range r.Entries {
		resp.Entries = append(resp.Entries, ReceiptEntryResponse{
			Month:     e.Month,
			Year:      e.Year,
			Amount:    e.Amount,
			Baki:      e.Baki,
			Completed: e.Completed,
			Remarks:   e.Remarks,
		})
	}
	return resp
}

func receiptInput(in ReceiptInput) receipt.Input {
	return receipt.Input{
		StudentName:  in.StudentName,
		FatherName:   in.FatherName,
		Address:      in.Address,
		AdmissionNo:  in.AdmissionNo,
		ClassName:    in.ClassName,
		Month:        in.Month,
		Year:         in.Year,
		AdmissionFee: in.AdmissionFee,
		TuitionFee:   in.TuitionFee,
		BackDues:     in.BackDues,
		Extra:        in.Extra,
		Description:  in.Description,
	}
}

func respondReceiptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, receipt.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
	case errors.Is(err, receipt.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt data"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process receipt"})
	}
}

// CreateReceipt godoc
// @Summary      Create a tuition receipt
// @Description  Admin only. The receipt number and total are derived automatically.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ReceiptInput true "Receipt fields"
// @Success      201  {object}  ReceiptResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/receipts [post]
func CreateReceipt(c *gin.Context) {
	var input ReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := deps.Receipt.Create(receiptInput(input))
	if err != nil {
		respondReceiptError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receiptResponse(r))
}

// ListReceipts godoc
// @Summary      List tuition receipts
// @Description  Admin only. Filters by student name substring, newest first.
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        q     query  string  false  "Student name contains"
// @Param        page  query  int     false  "Page number"
// @Success      200  {object}  PaginatedResponse[ReceiptResponse]
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/receipts [get]
func ListReceipts(c *gin.Context) {
	page := queryInt(c, "page")
	if page < 1 {
		page = 1
	}

	receipts, total, err := deps.Receipt.List(c.Query("q"), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load receipts"})
		return
	}

	data := make([]ReceiptResponse, 0, len(receipts))
	for idx := range receipts {
		data = append(data, receiptResponse(&receipts[idx]))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, page, deps.Receipt.PageSize()))
}

// GetReceipt godoc
// @Summary      Get a tuition receipt
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Receipt UID"
// @Success      200  {object}  ReceiptResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/receipts/{uid} [get]
func GetReceipt(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt UID"})
		return
	}

	r, err := deps.Receipt.Get(uid)
	if err != nil {
		respondReceiptError(c, err)
		return
	}
	c.JSON(http.StatusOK, receiptResponse(r))
}

// UpdateReceipt godoc
// @Summary      Update a tuition receipt
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uid   path  string       true  "Receipt UID"
// @Param        input body  ReceiptInput true  "Receipt fields"
// @Success      200  {object}  ReceiptResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/receipts/{uid} [put]
func UpdateReceipt(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt UID"})
		return
	}

	var input ReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := deps.Receipt.Update(uid, receiptInput(input))
	if err != nil {
		respondReceiptError(c, err)
		return
	}
	c.JSON(http.StatusOK, receiptResponse(r))
}

// DeleteReceipt godoc
// @Summary      Delete a tuition receipt
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Receipt UID"
// @Success      200  {object}  map[string]string "{"message": "Receipt deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/receipts/{uid} [delete]
func DeleteReceipt(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt UID"})
		return
	}

	if err := deps.Receipt.Delete(uid); err != nil {
		respondReceiptError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted"})
}

// RecordReceiptEntry godoc
// @Summary      Record a monthly dues entry
// @Description  Upserts the entry for (receipt, month, year); recording the same month twice overwrites.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uid   path  string            true  "Receipt UID"
// @Param        input body  ReceiptEntryInput true  "Entry fields"
// @Success      200  {object}  ReceiptEntryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/receipts/{uid}/entries [put]
func RecordReceiptEntry(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt UID"})
		return
	}

	var input ReceiptEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := deps.Receipt.RecordEntry(uid, receipt.EntryInput{
		Month:     input.Month,
		Year:      input.Year,
		Amount:    input.Amount,
		Baki:      input.Baki,
		Completed: input.Completed,
		Remarks:   input.Remarks,
	})
	if err != nil {
		respondReceiptError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReceiptEntryResponse{
		Month:     entry.Month,
		Year:      entry.Year,
		Amount:    entry.Amount,
		Baki:      entry.Baki,
		Completed: entry.Completed,
		Remarks:   entry.Remarks,
	})
}

// OutstandingDues godoc
// @Summary      Total outstanding dues
// @Description  Sums baki over all incomplete monthly entries.
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"outstanding": 120000}"
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/receipts/outstanding [get]
func OutstandingDues(c *gin.Context) {
	total, err := deps.Receipt.OutstandingTotal()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute outstanding dues"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"outstanding": total})
}

// DownloadReceiptPDF godoc
// @Summary      Download a receipt as PDF
// @Tags         receipts
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        uid  path      string  true  "Receipt UID"
// @Success      200  {file}    file
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/receipts/{uid}/pdf [get]
func DownloadReceiptPDF(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt UID"})
		return
	}

	doc, r, err := deps.Receipt.RenderPDF(uid)
	if err != nil {
		respondReceiptError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", r.ReceiptNo))
	c.Data(http.StatusOK, "application/pdf", doc)
}
