package paymentintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/guide-sessions/internal/domain"
)

const (
	draftKeyPrefix = "payment-intent:"
	claimKeySuffix = ":claim"
	claimTTL       = time.Minute
)

// redisClient подмножество команд go-redis, используемое хранилищем
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store хранит черновики бронирований, ожидающие подтверждения оплаты.
// Ключ - handle намерения оплаты, значение - JSON черновика с TTL
type Store struct {
	client redisClient
	ttl    time.Duration
}

// NewStore создает хранилище черновиков
func NewStore(client redisClient, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Save сохраняет черновик под handle намерения оплаты
func (s *Store) Save(ctx context.Context, draft *domain.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal draft: %v", ErrEncode, err)
	}

	if err := s.client.Set(ctx, draftKey(draft.IntentHandle), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - set %s: %v", ErrStore, draft.IntentHandle, err)
	}

	return nil
}

// Get возвращает черновик по handle
func (s *Store) Get(ctx context.Context, handle string) (*domain.BookingDraft, error) {
	data, err := s.client.Get(ctx, draftKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get %s: %v", ErrStore, handle, err)
	}

	var draft domain.BookingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal draft %s: %v", ErrEncode, handle, err)
	}

	return &draft, nil
}

// Claim захватывает черновик для обработки callback'а. Повторный callback
// с тем же handle получит ErrAlreadyClaimed, пока захват не снят или не истёк
func (s *Store) Claim(ctx context.Context, handle string) error {
	ok, err := s.client.SetNX(ctx, draftKey(handle)+claimKeySuffix, time.Now().UTC().Format(time.RFC3339), claimTTL).Result()
	if err != nil {
		return fmt.Errorf("%w: Claim - setnx %s: %v", ErrStore, handle, err)
	}
	if !ok {
		return ErrAlreadyClaimed
	}
	return nil
}

// Release снимает захват, не удаляя черновик
func (s *Store) Release(ctx context.Context, handle string) error {
	if err := s.client.Del(ctx, draftKey(handle)+claimKeySuffix).Err(); err != nil {
		return fmt.Errorf("%w: Release - del %s: %v", ErrStore, handle, err)
	}
	return nil
}

// Delete удаляет черновик вместе с захватом
func (s *Store) Delete(ctx context.Context, handle string) error {
	if err := s.client.Del(ctx, draftKey(handle), draftKey(handle)+claimKeySuffix).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del %s: %v", ErrStore, handle, err)
	}
	return nil
}

func draftKey(handle string) string {
	return draftKeyPrefix + handle
}
