package get_calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	getCalendar "github.com/m04kA/guide-sessions/internal/usecase/get_calendar"
)

type fakeUseCase struct {
	got *getCalendar.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getCalendar.Request) (*getCalendar.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	return &getCalendar.Response{
		ProductID: req.ProductID,
		From:      from,
		Days: []getCalendar.Day{
			{Date: from, Status: domain.CalendarAvailable},
			{Date: from.AddDate(0, 0, 1), Status: domain.CalendarOtherProduct, Competing: []getCalendar.CompetingProduct{
				{ProductID: 2, ProductName: "Canyon B", SessionID: 31, TimeSlot: domain.TimeSlotMorning, StartTime: "09:00"},
			}},
		},
	}, nil
}

func router(uc *fakeUseCase) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/products/{productId}/calendar", NewHandler(uc, memstore.NopLogger{}).Handle)
	return r
}

func TestHandler_Calendar(t *testing.T) {
	uc := &fakeUseCase{}
	rec := httptest.NewRecorder()

	router(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/7/calendar?from=2026-07-01&days=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), uc.got.ProductID)
	assert.Equal(t, 2, uc.got.Days)
	require.NotNil(t, uc.got.From)

	var resp CalendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-07-02", resp.Days[1].Date)
	assert.Equal(t, "otherProduct", resp.Days[1].Status)
	assert.Equal(t, "Canyon B", resp.Days[1].CompetingProducts[0].ProductName)
}

func TestHandler_BadQuery(t *testing.T) {
	for _, url := range []string{"/products/7/calendar?from=07-01", "/products/7/calendar?days=x", "/products/x/calendar"} {
		rec := httptest.NewRecorder()
		router(&fakeUseCase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestHandler_ProductNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&fakeUseCase{err: getCalendar.ErrProductNotFound}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/7/calendar", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
