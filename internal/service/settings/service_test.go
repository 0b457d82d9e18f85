package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/service/settings/models"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	"github.com/m04kA/guide-sessions/pkg/ptr"
)

func setup() (*memstore.Store, *Service) {
	store := memstore.New()
	store.AddGuide(domain.Guide{ID: 1, Name: "Marta", Settings: domain.PaymentSettings{
		PaymentMode:   domain.PaymentOnsiteOnly,
		DepositType:   domain.DepositPercentage,
		DepositAmount: 30,
		Currency:      "EUR",
	}})
	return store, NewService(store.Guides(), memstore.NopLogger{})
}

func TestService_Get(t *testing.T) {
	_, svc := setup()

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "onsite_only", resp.PaymentMode)
	assert.Equal(t, 30.0, resp.DepositAmount)

	_, err = svc.Get(context.Background(), 2)
	assert.True(t, errors.Is(err, ErrGuideNotFound))
}

func TestService_UpdatePartial(t *testing.T) {
	store, svc := setup()

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{
		GuideID:     1,
		PaymentMode: ptr.Ptr("deposit_and_full"),
		Currency:    ptr.Ptr(" chf "),
	})
	require.NoError(t, err)
	assert.Equal(t, "deposit_and_full", resp.PaymentMode)
	assert.Equal(t, "CHF", resp.Currency)
	assert.Equal(t, 30.0, resp.DepositAmount)

	g, err := store.Guides().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentDepositAndFull, g.Settings.PaymentMode)
}

func TestService_UpdateValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.UpdateSettingsRequest
		field string
	}{
		{"unknown mode", models.UpdateSettingsRequest{PaymentMode: ptr.Ptr("barter")}, "paymentMode"},
		{"unknown deposit type", models.UpdateSettingsRequest{DepositType: ptr.Ptr("half")}, "depositType"},
		{"negative amount", models.UpdateSettingsRequest{DepositAmount: ptr.Ptr(-1.0)}, "depositAmount"},
		{"percentage over 100", models.UpdateSettingsRequest{DepositAmount: ptr.Ptr(120.0)}, "depositAmount"},
		{"bad currency", models.UpdateSettingsRequest{Currency: ptr.Ptr("EURO")}, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := setup()
			req := tt.req
			req.GuideID = 1

			_, err := svc.Update(context.Background(), &req)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)

			g, _ := store.Guides().GetByID(context.Background(), 1)
			assert.Equal(t, domain.PaymentOnsiteOnly, g.Settings.PaymentMode)
		})
	}
}

func TestService_FixedDepositAbove100(t *testing.T) {
	_, svc := setup()

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{
		GuideID:       1,
		DepositType:   ptr.Ptr("fixed"),
		DepositAmount: ptr.Ptr(150.0),
	})

	require.NoError(t, err)
	assert.Equal(t, "fixed", resp.DepositType)
	assert.Equal(t, 150.0, resp.DepositAmount)
}
