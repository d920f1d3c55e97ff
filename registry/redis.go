package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jason-costello/krpc"
)

var ErrNilClient = errors.New("registry: nil redis client")

// RedisHandles issues handles from a shared Redis counter so that several
// server replicas never hand out the same handle. Each INCRBY reserves a block
// of Block handles, which are then issued locally without a round-trip.
// Counter keys do not expire: an expired counter would restart at 1 and
// reissue live handles.
type RedisHandles struct {
	rdb     redis.UniversalClient
	key     string
	block   uint64
	timeout time.Duration
	log     krpc.Logger
	owns    bool

	mu       sync.Mutex
	next, hi uint64 // next <= hi: handles still available in the reserved block
}

var _ HandleSource = (*RedisHandles)(nil)

type RedisConfig struct {
	Client      redis.UniversalClient // required
	Namespace   string                // counter key is "krpc:handles:<Namespace>"
	Block       uint64                // handles reserved per round-trip; 0 => 1024
	Timeout     time.Duration         // per reservation; 0 => 2s
	Logger      krpc.Logger           // nil => NopLogger
	CloseClient bool                  // Close also closes Client
}

func NewRedisHandles(cfg RedisConfig) (*RedisHandles, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &RedisHandles{
		rdb:     cfg.Client,
		key:     "krpc:handles:" + cfg.Namespace,
		block:   coalesce(cfg.Block, 1024),
		timeout: coalesce(cfg.Timeout, 2*time.Second),
		log:     coalesce[krpc.Logger](cfg.Logger, krpc.NopLogger{}),
		owns:    cfg.CloseClient,
	}, nil
}

func (s *RedisHandles) Next() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == 0 || s.next > s.hi {
		if err := s.reserve(); err != nil {
			return 0, err
		}
	}
	h := s.next
	s.next++
	return h, nil
}

// reserve claims the block (hi-block, hi] from the shared counter.
// Callers hold s.mu.
func (s *RedisHandles) reserve() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	hi, err := s.rdb.IncrBy(ctx, s.key, int64(s.block)).Uint64()
	if err != nil {
		s.log.Warn("handle block reservation failed", krpc.Fields{"key": s.key, "err": err})
		return fmt.Errorf("registry: reserve handles: %w", err)
	}
	if hi < s.block {
		return fmt.Errorf("registry: reserve handles: counter %s at %d is below block size %d", s.key, hi, s.block)
	}
	s.next, s.hi = hi-s.block+1, hi
	s.log.Debug("reserved handle block", krpc.Fields{"key": s.key, "from": s.next, "to": s.hi})
	return nil
}

// Close closes the Redis client when the source was built with CloseClient.
func (s *RedisHandles) Close(_ context.Context) error {
	if !s.owns {
		return nil
	}
	return s.rdb.Close()
}
