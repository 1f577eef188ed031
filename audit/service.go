package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fitquest-app/server/model"
)

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = 2 * time.Second
)

// Entry holds one audit event to be logged.
type Entry struct {
	TraceID   string
	AccountID *int64
	CharID    *int64
	Action    string
	Detail    interface{}
	Error     string
	IP        string
}

// Service writes audit entries to the database asynchronously, batching
// rows so a burst of events costs a handful of inserts.
type Service struct {
	db     *gorm.DB
	queue  chan *model.AuditLog
	done   chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates an audit Service and starts its background writer.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	s := &Service{
		db:     db,
		queue:  make(chan *model.AuditLog, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	s.wg.Add(1)
	go s.writer()
	return s
}

// Log enqueues an entry. It never blocks: if the queue is full the entry
// is dropped with a warning rather than stalling a request handler.
func (s *Service) Log(entry Entry) {
	detail, _ := json.Marshal(entry.Detail)
	row := &model.AuditLog{
		TraceID:   entry.TraceID,
		AccountID: entry.AccountID,
		CharID:    entry.CharID,
		Action:    entry.Action,
		Detail:    datatypes.JSON(detail),
		Error:     entry.Error,
		IP:        entry.IP,
	}
	select {
	case s.queue <- row:
	default:
		s.logger.Warn("audit queue full, dropping entry",
			zap.String("action", entry.Action))
	}
}

// Stop flushes queued entries and waits for the writer to exit. Safe to
// call more than once.
func (s *Service) Stop(_ context.Context) {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.wg.Wait()
}

func (s *Service) writer() {
	defer s.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	pending := make([]*model.AuditLog, 0, batchSize)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := s.db.Create(&pending).Error; err != nil {
			s.logger.Error("audit batch write failed", zap.Error(err))
		}
		pending = pending[:0]
	}

	for {
		select {
		case row := <-s.queue:
			pending = append(pending, row)
			if len(pending) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for {
				select {
				case row := <-s.queue:
					pending = append(pending, row)
					if len(pending) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
