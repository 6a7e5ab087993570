package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BillScanner/internal/domain"
)

type fakeRepository struct {
	bills      []domain.Bill
	total      int
	lastFilter domain.BillFilter
	err        error
}

func (f *fakeRepository) EnsureSchema(ctx context.Context) error                        { return nil }
func (f *fakeRepository) EnsureAgencies(ctx context.Context, s []domain.Agency) error   { return nil }
func (f *fakeRepository) UpsertBill(ctx context.Context, r domain.BillRecord) (int64, error) {
	return 0, nil
}
func (f *fakeRepository) LinkAgency(ctx context.Context, billID int64, slug string) error {
	return nil
}

func (f *fakeRepository) ListBills(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error) {
	f.lastFilter = filter
	return f.bills, f.total, f.err
}

func (f *fakeRepository) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.bills {
		if f.bills[i].ID == id {
			return &f.bills[i], nil
		}
	}
	return nil, nil
}

func TestListBillsPassesFilters(t *testing.T) {
	repo := &fakeRepository{
		bills: []domain.Bill{{ID: 1, Number: "LB1", Title: "A bill"}},
		total: 1,
	}
	ts := httptest.NewServer(New(repo, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/bills?search=water&agency=revenue&status=Introduced&session=108&page=2&pageSize=10")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.BillFilter{
		Search:   "water",
		Agency:   "revenue",
		Status:   "Introduced",
		Session:  "108",
		Page:     2,
		PageSize: 10,
	}, repo.lastFilter)

	var body struct {
		Data  []domain.Bill `json:"data"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "LB1", body.Data[0].Number)
}

func TestListBillsDefaultsAndEmptyData(t *testing.T) {
	repo := &fakeRepository{}
	ts := httptest.NewServer(New(repo, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/bills")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 20, repo.lastFilter.PageSize)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["data"]))
}

func TestGetBill(t *testing.T) {
	repo := &fakeRepository{bills: []domain.Bill{{ID: 7, Number: "LB7"}}}
	ts := httptest.NewServer(New(repo, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/bills/7")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var bill domain.Bill
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bill))
	assert.Equal(t, "LB7", bill.Number)
}

func TestGetBillNotFound(t *testing.T) {
	repo := &fakeRepository{}
	ts := httptest.NewServer(New(repo, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/bills/99")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetBillInvalidID(t *testing.T) {
	repo := &fakeRepository{}
	ts := httptest.NewServer(New(repo, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/bills/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListBillsRepositoryError(t *testing.T) {
	repo := &fakeRepository{err: errors.New("boom")}
	ts := httptest.NewServer(New(repo, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/bills")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(New(&fakeRepository{}, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
