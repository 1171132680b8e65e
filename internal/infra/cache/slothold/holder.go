package slothold

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

const keyPrefix = "slothold"

// releaseScript удаляет ключ, только если он принадлежит владельцу
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Hold удержание расписания исполнителя на дату
type Hold struct {
	Key   string
	Token string
}

// RedisHolder кратковременно удерживает расписание исполнителя на дату, пока идет запись бронирования.
// Удержание лишь сужает окно гонки; источник истины - ограничение в БД.
type RedisHolder struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisHolder создает holder поверх клиента Redis
func NewRedisHolder(client *redis.Client, ttl time.Duration) *RedisHolder {
	return &RedisHolder{client: client, ttl: ttl}
}

// Acquire захватывает расписание исполнителя на дату (SET NX с TTL)
func (h *RedisHolder) Acquire(ctx context.Context, providerID int64, date time.Time) (*Hold, error) {
	hold := &Hold{
		Key:   Key(providerID, date),
		Token: uuid.NewString(),
	}

	ok, err := h.client.SetNX(ctx, hold.Key, hold.Token, h.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Acquire - set %s: %v", ErrRedis, hold.Key, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	return hold, nil
}

// Release снимает удержание, если оно все еще принадлежит владельцу
func (h *RedisHolder) Release(ctx context.Context, hold *Hold) error {
	if hold == nil {
		return nil
	}

	if err := releaseScript.Run(ctx, h.client, []string{hold.Key}, hold.Token).Err(); err != nil {
		return fmt.Errorf("%w: Release - %s: %v", ErrRedis, hold.Key, err)
	}

	return nil
}

// Key возвращает ключ удержания для исполнителя и даты
func Key(providerID int64, date time.Time) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, providerID, date.Format(domain.DateFormat))
}

// NopHolder используется, когда Redis выключен в конфигурации
type NopHolder struct{}

func (NopHolder) Acquire(_ context.Context, providerID int64, date time.Time) (*Hold, error) {
	return &Hold{Key: Key(providerID, date)}, nil
}

func (NopHolder) Release(context.Context, *Hold) error {
	return nil
}
