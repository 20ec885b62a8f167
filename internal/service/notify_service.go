package service

import (
	"context"
	"database/sql"
	"fmt"

	"golang-monitor/config"
	"golang-monitor/internal/dto"
	"golang-monitor/internal/model"
	"golang-monitor/internal/notify"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"
	"golang-monitor/pkg/utils"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const maxNotifyRetry = 3

type NotifyService interface {
	Send(ctx context.Context, req *dto.NotifyRequest) ([]dto.NotifyResult, error)
	Retry(ctx context.Context, recordID uint) (*dto.NotifyResult, error)
	ListRecords(ctx context.Context, q *dto.ListNotifyRecordsQuery) (*dto.PagedResult, error)
}

type notifyService struct {
	cfg        *config.Config
	logger     *logger.Logger
	channels   map[string]notify.Channel
	recordRepo repository.NotifyRecordRepository
	limiter    *rate.Limiter
}

// NewNotifyService takes an explicit channel registry; an empty map simply
// means every send reports an unknown channel.
func NewNotifyService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	channels map[string]notify.Channel,
) NotifyService {
	maxPerSecond := cfg.Notify.MaxSendPerSecond
	if maxPerSecond <= 0 {
		maxPerSecond = 5
	}
	return &notifyService{
		cfg:        cfg,
		logger:     log,
		channels:   channels,
		recordRepo: repo.NotifyRecordRepo,
		limiter:    rate.NewLimiter(rate.Limit(maxPerSecond), maxPerSecond),
	}
}

// Send fans the alert out to every requested channel. Each attempt gets its
// own NotifyRecord regardless of outcome; one failing channel does not stop
// the others.
func (s *notifyService) Send(ctx context.Context, req *dto.NotifyRequest) ([]dto.NotifyResult, error) {
	names := req.Channels
	if len(names) == 0 {
		names = s.enabledChannelNames()
	}
	if len(names) == 0 {
		return nil, errs.NewValidation("no notification channel available")
	}

	results := make([]dto.NotifyResult, len(names))
	g, gctx := errgroup.WithContext(ctx)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = s.sendOne(gctx, name, req)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *notifyService) sendOne(ctx context.Context, channelName string, req *dto.NotifyRequest) dto.NotifyResult {
	record := &model.NotifyRecord{
		TaskID:     req.TaskID,
		TaskName:   req.TaskName,
		Channel:    channelName,
		NotifyType: string(req.NotifyType),
		Content:    notify.BuildContent(*req),
		Status:     string(dto.NotifyStatusPending),
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to create notify record", logger.ErrorField(err))
	}

	result := s.deliver(ctx, channelName, req)
	s.settleRecord(ctx, record, result)
	return result
}

func (s *notifyService) deliver(ctx context.Context, channelName string, req *dto.NotifyRequest) dto.NotifyResult {
	channel, ok := s.channels[channelName]
	if !ok {
		return dto.NotifyFail(channelName, "unknown channel")
	}
	if !channel.Enabled() {
		return dto.NotifyFail(channelName, "channel not configured")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return dto.NotifyFail(channelName, err.Error())
	}
	return channel.Send(ctx, *req)
}

// Retry re-sends a failed record. Exhausted records stay failed.
func (s *notifyService) Retry(ctx context.Context, recordID uint) (*dto.NotifyResult, error) {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status == string(dto.NotifyStatusSent) {
		return nil, errs.NewValidation("record already sent")
	}
	if record.RetryCount >= maxNotifyRetry {
		return nil, errs.NewValidation(fmt.Sprintf("retry limit of %d reached", maxNotifyRetry))
	}

	record.RetryCount++
	record.Status = string(dto.NotifyStatusRetrying)
	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	req := &dto.NotifyRequest{
		TaskID:     record.TaskID,
		TaskName:   record.TaskName,
		NotifyType: dto.NotifyType(record.NotifyType),
	}
	result := s.deliver(ctx, record.Channel, req)
	s.settleRecord(ctx, record, result)
	return &result, nil
}

func (s *notifyService) ListRecords(ctx context.Context, q *dto.ListNotifyRecordsQuery) (*dto.PagedResult, error) {
	pageNum, pageSize := normalizePage(q.PageNum, q.PageSize)
	param := &model.GetNotifyRecordParam{
		TaskID:   q.TaskID,
		PageNum:  &pageNum,
		PageSize: &pageSize,
	}
	records, total, err := s.recordRepo.Get(ctx, param)
	if err != nil {
		return nil, err
	}
	return &dto.PagedResult{Total: total, PageNum: pageNum, PageSize: pageSize, List: records}, nil
}

func (s *notifyService) settleRecord(ctx context.Context, record *model.NotifyRecord, result dto.NotifyResult) {
	if result.Success {
		record.Status = string(dto.NotifyStatusSent)
		record.SentAt = sql.NullTime{Time: utils.TimeNow(), Valid: true}
		record.ErrorMsg = sql.NullString{}
	} else {
		record.Status = string(dto.NotifyStatusFailed)
		record.ErrorMsg = sql.NullString{String: result.Message, Valid: true}
	}
	if err := s.recordRepo.Update(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to update notify record",
			logger.IntField("record_id", int(record.ID)), logger.ErrorField(err))
	}
}

func (s *notifyService) enabledChannelNames() []string {
	names := make([]string, 0, len(s.channels))
	for name, channel := range s.channels {
		if channel.Enabled() {
			names = append(names, name)
		}
	}
	return names
}
