// Package receipt implements the tuition billing module: receipts with
// derived totals, monthly dues entries and outstanding (baki) tracking.
package receipt

import (
	"errors"
	"strings"

	"vivah/backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no receipt matches the given identifier.
	ErrNotFound = errors.New("receipt not found")
	// ErrInvalid rejects receipts missing required fields.
	ErrInvalid = errors.New("invalid receipt")
)

// Repository is the receipt persistence surface.
type Repository interface {
	Create(r *models.Receipt) error
	Save(r *models.Receipt) error
	// ByUID loads a receipt with its entries, ErrNotFound on miss.
	ByUID(uid uuid.UUID) (*models.Receipt, error)
	// List filters by student name substring, newest first.
	List(query string, page, pageSize int) ([]models.Receipt, int64, error)
	Delete(id uint) error
	// UpsertEntry inserts or updates the entry for (receipt, month, year).
	UpsertEntry(e *models.ReceiptEntry) error
	// OutstandingTotal sums baki over incomplete entries.
	OutstandingTotal() (int64, error)
}

// Renderer turns a receipt into a downloadable document.
type Renderer interface {
	Render(r *models.Receipt) ([]byte, error)
}

// Input carries the editable receipt fields.
type Input struct {
	StudentName  string
	FatherName   string
	Address      string
	AdmissionNo  string
	ClassName    string
	Month        string
	Year         string
	AdmissionFee int64
	TuitionFee   int64
	BackDues     int64
	Extra        int64
	Description  string
}

// EntryInput carries one month's dues record.
type EntryInput struct {
	Month     string
	Year      string
	Amount    int64
	Baki      int64
	Completed bool
	Remarks   string
}

// Service manages receipts and their monthly entries.
type Service struct {
	repo     Repository
	renderer Renderer
	pageSize int
}

func NewService(repo Repository, renderer Renderer, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Service{repo: repo, renderer: renderer, pageSize: pageSize}
}

// PageSize exposes the configured page size for response metadata.
func (s *Service) PageSize() int { return s.pageSize }

func (in Input) validate() error {
	if strings.TrimSpace(in.StudentName) == "" || strings.TrimSpace(in.FatherName) == "" {
		return ErrInvalid
	}
	if in.AdmissionFee < 0 || in.TuitionFee < 0 || in.BackDues < 0 || in.Extra < 0 {
		return ErrInvalid
	}
	return nil
}

func apply(r *models.Receipt, in Input) {
	r.StudentName = strings.TrimSpace(in.StudentName)
	r.FatherName = strings.TrimSpace(in.FatherName)
	r.Address = in.Address
	r.AdmissionNo = in.AdmissionNo
	r.ClassName = in.ClassName
	r.Month = in.Month
	r.Year = in.Year
	r.AdmissionFee = in.AdmissionFee
	r.TuitionFee = in.TuitionFee
	r.BackDues = in.BackDues
	r.Extra = in.Extra
	r.Description = in.Description
}

// Create stores a new receipt. The receipt number and total are filled
// by the model hooks.
func (s *Service) Create(in Input) (*models.Receipt, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := &models.Receipt{}
	apply(r, in)
	if err := s.repo.Create(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update rewrites the editable fields of an existing receipt.
func (s *Service) Update(uid uuid.UUID, in Input) (*models.Receipt, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r, err := s.repo.ByUID(uid)
	if err != nil {
		return nil, err
	}
	apply(r, in)
	if err := s.repo.Save(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Get(uid uuid.UUID) (*models.Receipt, error) {
	return s.repo.ByUID(uid)
}

func (s *Service) List(query string, page int) ([]models.Receipt, int64, error) {
	if page < 1 {
		page = 1
	}
	return s.repo.List(query, page, s.pageSize)
}

func (s *Service) Delete(uid uuid.UUID) error {
	r, err := s.repo.ByUID(uid)
	if err != nil {
		return err
	}
	return s.repo.Delete(r.ID)
}

// RecordEntry upserts the dues entry for one month of a receipt. A
// second record for the same month overwrites the first.
func (s *Service) RecordEntry(receiptUID uuid.UUID, in EntryInput) (*models.ReceiptEntry, error) {
	if strings.TrimSpace(in.Month) == "" || strings.TrimSpace(in.Year) == "" {
		return nil, ErrInvalid
	}
	r, err := s.repo.ByUID(receiptUID)
	if err != nil {
		return nil, err
	}
	e := &models.ReceiptEntry{
		ReceiptID: r.ID,
		Month:     strings.TrimSpace(in.Month),
		Year:      strings.TrimSpace(in.Year),
		Amount:    in.Amount,
		Baki:      in.Baki,
		Completed: in.Completed,
		Remarks:   in.Remarks,
	}
	if err := s.repo.UpsertEntry(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Outstanding sums baki over a receipt's incomplete entries.
func Outstanding(r *models.Receipt) int64 {
	var total int64
	for _, e := range r.Entries {
		if !e.Completed {
			total += e.Baki
		}
	}
	return total
}

// OutstandingTotal sums baki across all receipts.
func (s *Service) OutstandingTotal() (int64, error) {
	return s.repo.OutstandingTotal()
}

// RenderPDF renders the receipt for download.
func (s *Service) RenderPDF(uid uuid.UUID) ([]byte, *models.Receipt, error) {
	r, err := s.repo.ByUID(uid)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.renderer.Render(r)
	if err != nil {
		return nil, nil, err
	}
	return doc, r, nil
}
