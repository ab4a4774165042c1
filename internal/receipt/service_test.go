package receipt

import (
	"testing"

	"vivah/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	receipts []*models.Receipt
	entries  []*models.ReceiptEntry
	nextID   uint
}

func (f *fakeRepo) Create(r *models.Receipt) error {
	f.nextID++
	r.ID = f.nextID
	// Mirror the model hooks the real store runs.
	_ = r.BeforeCreate(nil)
	_ = r.BeforeSave(nil)
	f.receipts = append(f.receipts, r)
	return nil
}

func (f *fakeRepo) Save(r *models.Receipt) error {
	_ = r.BeforeSave(nil)
	for i, existing := range f.receipts {
		if existing.ID == r.ID {
			f.receipts[i] = r
			return nil
		}
	}
	f.receipts = append(f.receipts, r)
	return nil
}

func (f *fakeRepo) ByUID(uid uuid.UUID) (*models.Receipt, error) {
	for _, r := range f.receipts {
		if r.UID == uid {
			copied := *r
			copied.Entries = nil
			for _, e := range f.entries {
				if e.ReceiptID == r.ID {
					copied.Entries = append(copied.Entries, *e)
				}
			}
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(query string, page, pageSize int) ([]models.Receipt, int64, error) {
	var out []models.Receipt
	for _, r := range f.receipts {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Delete(id uint) error {
	for i, r := range f.receipts {
		if r.ID == id {
			f.receipts = append(f.receipts[:i], f.receipts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) UpsertEntry(e *models.ReceiptEntry) error {
	for _, existing := range f.entries {
		if existing.ReceiptID == e.ReceiptID && existing.Month == e.Month && existing.Year == e.Year {
			existing.Amount = e.Amount
			existing.Baki = e.Baki
			existing.Completed = e.Completed
			existing.Remarks = e.Remarks
			*e = *existing
			return nil
		}
	}
	f.nextID++
	e.ID = f.nextID
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeRepo) OutstandingTotal() (int64, error) {
	var total int64
	for _, e := range f.entries {
		if !e.Completed {
			total += e.Baki
		}
	}
	return total, nil
}

func validInput() Input {
	return Input{
		StudentName:  "Ravi Kumar",
		FatherName:   "Shyam Kumar",
		ClassName:    "10",
		Month:        "January",
		Year:         "2024",
		AdmissionFee: 50000,
		TuitionFee:   120000,
		BackDues:     20000,
		Extra:        5000,
	}
}

func TestCreateDerivesTotalAndNumber(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, nil, 10)

	r, err := s.Create(validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(195000), r.Total)
	assert.Contains(t, r.ReceiptNo, "STUDENT")
	assert.NotEqual(t, uuid.Nil, r.UID)
}

func TestCreateValidation(t *testing.T) {
	s := NewService(&fakeRepo{}, nil, 10)

	in := validInput()
	in.StudentName = "   "
	_, err := s.Create(in)
	assert.ErrorIs(t, err, ErrInvalid)

	in = validInput()
	in.TuitionFee = -1
	_, err = s.Create(in)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUpdateRecomputesTotal(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, nil, 10)
	r, err := s.Create(validInput())
	require.NoError(t, err)

	in := validInput()
	in.TuitionFee = 200000
	updated, err := s.Update(r.UID, in)
	require.NoError(t, err)
	assert.Equal(t, int64(275000), updated.Total)
	assert.Equal(t, r.ReceiptNo, updated.ReceiptNo)
}

func TestRecordEntryUpserts(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, nil, 10)
	r, err := s.Create(validInput())
	require.NoError(t, err)

	_, err = s.RecordEntry(r.UID, EntryInput{Month: "January", Year: "2024", Amount: 100000, Baki: 20000})
	require.NoError(t, err)

	// Same month again overwrites instead of adding a second row.
	_, err = s.RecordEntry(r.UID, EntryInput{Month: "January", Year: "2024", Amount: 120000, Baki: 0, Completed: true})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, int64(120000), repo.entries[0].Amount)
	assert.True(t, repo.entries[0].Completed)

	_, err = s.RecordEntry(r.UID, EntryInput{Month: "February", Year: "2024", Amount: 0, Baki: 120000})
	require.NoError(t, err)
	assert.Len(t, repo.entries, 2)

	_, err = s.RecordEntry(r.UID, EntryInput{Month: "", Year: "2024"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestOutstanding(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, nil, 10)
	r, err := s.Create(validInput())
	require.NoError(t, err)

	_, err = s.RecordEntry(r.UID, EntryInput{Month: "January", Year: "2024", Baki: 20000})
	require.NoError(t, err)
	_, err = s.RecordEntry(r.UID, EntryInput{Month: "February", Year: "2024", Baki: 30000})
	require.NoError(t, err)
	_, err = s.RecordEntry(r.UID, EntryInput{Month: "March", Year: "2024", Baki: 50000, Completed: true})
	require.NoError(t, err)

	loaded, err := s.Get(r.UID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), Outstanding(loaded))

	total, err := s.OutstandingTotal()
	require.NoError(t, err)
	assert.Equal(t, int64(50000), total)
}

func TestGetUnknownReceipt(t *testing.T) {
	s := NewService(&fakeRepo{}, nil, 10)
	_, err := s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderPDF(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, NewPDFRenderer(""), 10)
	r, err := s.Create(validInput())
	require.NoError(t, err)
	_, err = s.RecordEntry(r.UID, EntryInput{Month: "January", Year: "2024", Amount: 100000, Baki: 20000})
	require.NoError(t, err)

	doc, loaded, err := s.RenderPDF(r.UID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, loaded.ID)
	assert.True(t, len(doc) > 0)
	assert.Equal(t, "%PDF", string(doc[:4]))
}
