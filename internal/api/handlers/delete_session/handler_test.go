package delete_session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	deleteSession "github.com/m04kA/guide-sessions/internal/usecase/delete_session"
)

type fakeUseCase struct {
	got *deleteSession.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *deleteSession.Request) (*deleteSession.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &deleteSession.Response{
		SessionID:       req.SessionID,
		Disposition:     req.Disposition,
		MovedBookingIDs: []int64{1, 2},
		TargetSessionID: req.TargetSessionID,
	}, nil
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/sessions/{sessionId}", NewHandler(uc, memstore.NopLogger{}).Handle).Methods(http.MethodDelete)
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	req = req.WithContext(middleware.WithGuideID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_MoveTo(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, "/sessions/10?disposition=move_to&targetSessionId=20")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, deleteSession.DispositionMoveTo, uc.got.Disposition)
	require.NotNil(t, uc.got.TargetSessionID)
	assert.Equal(t, int64(20), *uc.got.TargetSessionID)

	var resp DeleteSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int64{1, 2}, resp.MovedBookingIDs)
}

func TestHandler_DispositionRequired(t *testing.T) {
	rec := serve(&fakeUseCase{err: deleteSession.ErrDispositionRequired}, "/sessions/10")

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, handlers.CodeDispositionRequired, resp.Code)
}

func TestHandler_Aborted(t *testing.T) {
	aborted := &deleteSession.AbortedError{
		SessionID:       10,
		TargetSessionID: 20,
		Failures: []deleteSession.MoveFailure{{
			BookingID: 3, ProductID: 1, NumberOfPeople: 4,
			Err: &domain.CapacityError{SessionID: 20, ProductID: 1, Requested: 4, Remaining: 2, Reason: domain.ReasonFull},
		}},
	}

	rec := serve(&fakeUseCase{err: fmt.Errorf("wrapped: %w", aborted)}, "/sessions/10?disposition=move_to&targetSessionId=20")

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Code    string         `json:"code"`
		Details AbortedDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, handlers.CodeDeletionAborted, resp.Code)
	require.Len(t, resp.Details.Failures, 1)
	assert.Equal(t, int64(3), resp.Details.Failures[0].BookingID)
	assert.Equal(t, 2, resp.Details.Failures[0].Capacity.Remaining)
}

func TestHandler_BadTarget(t *testing.T) {
	uc := &fakeUseCase{}
	assert.Equal(t, http.StatusBadRequest, serve(uc, "/sessions/10?disposition=move_to&targetSessionId=abc").Code)
	assert.Nil(t, uc.got)
}
