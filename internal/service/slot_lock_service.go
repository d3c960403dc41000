package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another booking holds the slot key.
var ErrSlotLocked = errors.New("slot is being booked by another request")

// releaseLockScript deletes the lock key only if this process still owns it,
// so an expired-and-reacquired lock is never released by the old holder.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	slotLockKeyPrefix = "slot:lock:"
	slotLockTTL       = 5 * time.Second

	// Interval for cleaning up stale per-key mutexes
	lockCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	lockStaleThreshold = 10 * time.Minute
)

// SlotLocker serializes the evaluate-then-write sequence per slot key. The
// admission-control read and the eventual insert are not atomic on their own;
// without this lock two concurrent bookings can both pass evaluation and
// overfill a slot.
type SlotLocker interface {
	WithSlotLock(ctx context.Context, key entity.SlotKey, fn func() error) error
}

// SlotLockService implements SlotLocker with a per-key local mutex (guarding
// goroutines in this process) plus a Redis SET NX lease (guarding other
// processes sharing the store).
type SlotLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger

	slotMu sync.Map // map[string]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewSlotLockService creates the lock service and starts the background
// mutex cleanup goroutine. Call Stop() during graceful shutdown.
func NewSlotLockService(redisClient *redis.Client, log *logrus.Logger) *SlotLockService {
	svc := &SlotLockService{
		redisClient: redisClient,
		log:         log,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *SlotLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotLockService stopped")
	}
}

// WithSlotLock runs fn while holding both the local and the distributed lock
// for the slot key. A contended distributed lock fails fast with
// ErrSlotLocked rather than queueing behind another booking.
func (s *SlotLockService) WithSlotLock(ctx context.Context, key entity.SlotKey, fn func() error) error {
	mt := s.getSlotMutex(key.String())
	mt.mu.Lock()
	defer mt.mu.Unlock()

	lockKey := slotLockKeyPrefix + key.String()
	token := uuid.New().String()

	ok, err := s.redisClient.SetNX(ctx, lockKey, token, slotLockTTL).Result()
	if err != nil {
		s.log.Warnf("Failed to acquire slot lock %s: %+v", lockKey, err)
		return err
	}
	if !ok {
		return ErrSlotLocked
	}

	defer func() {
		if _, err := releaseLockScript.Run(ctx, s.redisClient, []string{lockKey}, token).Result(); err != nil {
			// The TTL bounds how long a leaked lock can block the slot.
			s.log.Warnf("Failed to release slot lock %s: %+v", lockKey, err)
		}
	}()

	return fn()
}

func (s *SlotLockService) getSlotMutex(key string) *mutexWithTimestamp {
	mt, _ := s.slotMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *SlotLockService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Slot lock cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety; the
// lastUsed check happens inside the lock so a concurrent user cannot race
// the delete.
func (s *SlotLockService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-lockStaleThreshold).Unix()
	var cleaned int

	s.slotMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.slotMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale slot mutexes", cleaned)
	}
}
