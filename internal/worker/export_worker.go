package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"frontdesk/internal/database"
	"frontdesk/internal/domain"
	"frontdesk/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	TaskLedgerExport    = "ledger_export"
	TaskOccupancyExport = "occupancy_export"
)

// rangePayload is persisted in ExportTask.Payload for ledger exports.
type rangePayload struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// datePayload is persisted in ExportTask.Payload for occupancy exports.
type datePayload struct {
	Date time.Time `json:"date"`
}

// ReportBuilder produces the actual report files.
type ReportBuilder interface {
	BuildLedger(ctx context.Context, start, end time.Time) (string, error)
	BuildOccupancy(ctx context.Context, date time.Time) (string, error)
}

// ExportWorker consumes export_queue tasks and builds the report files,
// optionally mirroring the data to Google Sheets.
type ExportWorker struct {
	db            *database.DB
	builder       ReportBuilder
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.ExportTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        *log.Logger
}

// NewExportWorker builds a worker with sane defaults. The sheets writer
// and the redis client may both be nil; the worker degrades to DB
// polling with local files only.
func NewExportWorker(db *database.DB, builder ReportBuilder, sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Default()
	}

	return &ExportWorker{
		db:            db,
		builder:       builder,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry.withDefaults(),
		queue:         make(chan models.ExportTask, models.WorkerQueueSize),
		redisQueueKey: "exports:queue",
		deadLetterKey: "exports:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger,
	}
}

func (w *ExportWorker) EnqueueLedgerExport(ctx context.Context, start, end time.Time) error {
	if !end.After(start) {
		return errors.New("export range is empty")
	}
	payload, err := json.Marshal(rangePayload{Start: start, End: end})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return w.enqueue(ctx, TaskLedgerExport, string(payload))
}

func (w *ExportWorker) EnqueueOccupancyExport(ctx context.Context, date time.Time) error {
	payload, err := json.Marshal(datePayload{Date: date})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return w.enqueue(ctx, TaskOccupancyExport, string(payload))
}

// enqueue persists the task to DB and schedules it via redis or the
// in-memory queue.
func (w *ExportWorker) enqueue(ctx context.Context, taskType, payload string) error {
	task := models.ExportTask{
		TaskType:  taskType,
		Payload:   payload,
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	if err := w.db.CreateExportTask(ctx, &task); err != nil {
		return fmt.Errorf("persist export task: %w", err)
	}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Printf("export_worker: redis push failed, fallback to memory queue: %v", err)
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
	default:
		w.logger.Printf("export_worker: in-memory queue full, task %d dropped to polling", task.ID)
	}

	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Printf("export_worker: started")
	defer w.logger.Printf("export_worker: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingExportTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Printf("export_worker: fetch pending: %v", err)
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *ExportWorker) tryLocalQueue() (models.ExportTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.ExportTask{}, false
	}
}

func (w *ExportWorker) tryRedis(ctx context.Context) (models.ExportTask, bool) {
	if w.redis == nil {
		return models.ExportTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.ExportTask{}, false
		}
		w.logger.Printf("export_worker: redis BRPOP error: %v", err)
		return models.ExportTask{}, false
	}
	if len(res) != 2 {
		return models.ExportTask{}, false
	}
	var task models.ExportTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Printf("export_worker: decode redis task: %v", err)
		return models.ExportTask{}, false
	}
	return task, true
}

func (w *ExportWorker) processTask(ctx context.Context, task *models.ExportTask) {
	if err := w.handleTask(ctx, task); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Printf("export_worker: mark completed %d: %v", task.ID, err)
	}
}

func (w *ExportWorker) handleTask(ctx context.Context, task *models.ExportTask) error {
	switch task.TaskType {
	case TaskLedgerExport:
		var p rangePayload
		if err := json.Unmarshal([]byte(task.Payload), &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		path, err := w.builder.BuildLedger(ctx, p.Start, p.End)
		if err != nil {
			return err
		}
		w.logger.Printf("export_worker: ledger report written to %s", path)

		if w.sheets != nil {
			entries, err := w.db.ListCashEntries(ctx, p.Start, p.End)
			if err != nil {
				return fmt.Errorf("list cash entries for mirror: %w", err)
			}
			if err := w.sheets.AppendCashEntries(ctx, entries); err != nil {
				return fmt.Errorf("mirror ledger to sheets: %w", err)
			}
		}
		return nil

	case TaskOccupancyExport:
		var p datePayload
		if err := json.Unmarshal([]byte(task.Payload), &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		path, err := w.builder.BuildOccupancy(ctx, p.Date)
		if err != nil {
			return err
		}
		w.logger.Printf("export_worker: occupancy report written to %s", path)

		if w.sheets != nil {
			rooms, err := w.db.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("list rooms for mirror: %w", err)
			}
			if err := w.sheets.UpdateOccupancySheet(ctx, p.Date, rooms); err != nil {
				return fmt.Errorf("mirror occupancy to sheets: %w", err)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown task type: %s", task.TaskType)
	}
}

func (w *ExportWorker) retryOrFail(ctx context.Context, task *models.ExportTask, cause error) {
	attempt := task.RetryCount + 1
	if w.retryPolicy.Exhausted(attempt) {
		if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
			w.logger.Printf("export_worker: mark failed %d: %v", task.ID, err)
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Printf("export_worker: mark retry %d: %v", task.ID, err)
	}
}

func (w *ExportWorker) pushRedis(ctx context.Context, task models.ExportTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *ExportWorker) pushDeadLetter(ctx context.Context, task *models.ExportTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Printf("export_worker: encode deadletter %d: %v", task.ID, err)
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Printf("export_worker: deadletter push %d: %v", task.ID, err)
	}
}
