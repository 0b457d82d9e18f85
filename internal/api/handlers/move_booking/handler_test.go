package move_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/api/middleware"
	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	moveBooking "github.com/m04kA/guide-sessions/internal/usecase/move_booking"
)

type fakeUseCase struct {
	got *moveBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *moveBooking.Request) (*moveBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &moveBooking.Response{
		FromSessionID: 10,
		ToSessionID:   req.TargetSessionID,
		Booking:       &domain.Booking{ID: req.BookingID, SessionID: req.TargetSessionID, Status: domain.StatusConfirmed},
	}, nil
}

func serve(uc *fakeUseCase, guideHeader string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/bookings/{bookingId}/move", middleware.Auth(http.HandlerFunc(NewHandler(uc, memstore.NopLogger{}).Handle)))

	req := httptest.NewRequest(http.MethodPatch, "/bookings/5/move", strings.NewReader(`{"targetSessionId":20}`))
	req.Header.Set(middleware.GuideIDHeader, guideHeader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Move(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, "1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), uc.got.GuideID)
	assert.Equal(t, int64(5), uc.got.BookingID)
	assert.Equal(t, int64(20), uc.got.TargetSessionID)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"booking not found", moveBooking.ErrBookingNotFound, http.StatusNotFound},
		{"target not found", moveBooking.ErrTargetNotFound, http.StatusNotFound},
		{"access denied", moveBooking.ErrAccessDenied, http.StatusForbidden},
		{"cancelled", moveBooking.ErrBookingCancelled, http.StatusConflict},
		{"other product", &domain.CapacityError{Reason: domain.ReasonOtherProduct}, http.StatusConflict},
		{"internal", moveBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(&fakeUseCase{err: tt.err}, "1").Code)
		})
	}
}

func TestHandler_RequiresGuide(t *testing.T) {
	uc := &fakeUseCase{}
	assert.Equal(t, http.StatusUnauthorized, serve(uc, "").Code)
	assert.Nil(t, uc.got)
}
