package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/scynett/momopay/internal/pkg/constants"
	"github.com/scynett/momopay/internal/pkg/models"
)

// tryStartScript returns {0, result} for a completed entry, {0, ""} while a
// fresh processing mark exists and {1, ""} once the caller owns processing.
// KEYS[1] entry; ARGV hash, raw payload, received at, retention ms, now ms, lease ms.
var tryStartScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'status')
if status == 'completed' then
	return {0, redis.call('HGET', KEYS[1], 'result') or ''}
end
local now = tonumber(ARGV[5])
local lease = tonumber(ARGV[6])
if status == 'processing' then
	local started = tonumber(redis.call('HGET', KEYS[1], 'started_at') or '0')
	if lease <= 0 or now - started < lease then
		return {0, ''}
	end
end
redis.call('HSET', KEYS[1], 'status', 'processing', 'payload_hash', ARGV[1], 'raw_payload', ARGV[2], 'received_at', ARGV[3], 'started_at', ARGV[5])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return {1, ''}
`)

// markFailureScript clears a processing mark without touching completed entries
var markFailureScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'status') == 'processing' then
	redis.call('HSET', KEYS[1], 'status', 'failed')
	return 1
end
return 0
`)

// RedisAuditRepo stores the callback audit ledger as one Redis hash per transaction
type RedisAuditRepo struct {
	client    *redis.Client
	keyPrefix string
	lease     time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewRedisAuditRepo creates a Redis-backed audit ledger
func NewRedisAuditRepo(client *redis.Client, cfg models.AuditConfig) *RedisAuditRepo {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = constants.KeyCallbackAuditPrefix
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &RedisAuditRepo{
		client:    client,
		keyPrefix: prefix,
		lease:     cfg.ProcessingLease,
		retention: retention,
		now:       time.Now,
	}
}

func (r *RedisAuditRepo) key(transactionID string) string {
	return r.keyPrefix + strings.ToLower(strings.TrimSpace(transactionID))
}

func (r *RedisAuditRepo) TryStart(ctx context.Context, transactionID, payloadHash string, rawPayload []byte, receivedAt time.Time) (models.AuditStart, error) {
	res, err := tryStartScript.Run(ctx, r.client, []string{r.key(transactionID)},
		payloadHash,
		string(rawPayload),
		receivedAt.UTC().Format(time.RFC3339Nano),
		r.retention.Milliseconds(),
		r.now().UnixMilli(),
		r.lease.Milliseconds(),
	).Slice()
	if err != nil {
		return models.AuditStart{}, fmt.Errorf("failed to start callback audit: %w", err)
	}
	if len(res) != 2 {
		return models.AuditStart{}, fmt.Errorf("unexpected audit script reply: %v", res)
	}

	canProcess, _ := res[0].(int64)
	if canProcess == 1 {
		return models.AuditStart{CanProcess: true}, nil
	}

	stored, _ := res[1].(string)
	if stored == "" {
		return models.AuditStart{}, nil
	}

	var existing models.CallbackResult
	if err := json.Unmarshal([]byte(stored), &existing); err != nil {
		return models.AuditStart{}, fmt.Errorf("failed to decode stored callback result: %w", err)
	}
	return models.AuditStart{Existing: &existing}, nil
}

func (r *RedisAuditRepo) SaveResult(ctx context.Context, transactionID string, result *models.CallbackResult, isSuccess bool, responseCode string, processedAt time.Time) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal callback result: %w", err)
	}

	key := r.key(transactionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			constants.FieldStatus, constants.AuditStatusCompleted,
			constants.FieldResult, string(data),
			constants.FieldIsSuccess, isSuccess,
			constants.FieldResponseCode, responseCode,
			constants.FieldProcessedAt, processedAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.PExpire(ctx, key, r.retention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save callback result: %w", err)
	}
	return nil
}

func (r *RedisAuditRepo) MarkFailure(ctx context.Context, transactionID string) error {
	if err := markFailureScript.Run(ctx, r.client, []string{r.key(transactionID)}).Err(); err != nil {
		return fmt.Errorf("failed to mark callback failure: %w", err)
	}
	return nil
}
