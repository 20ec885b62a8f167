package service

import (
	"golang-monitor/config"
	"golang-monitor/internal/notify"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/cache"
	"golang-monitor/pkg/logger"

	"gopkg.in/telebot.v3"
)

type Service struct {
	ExecuteService   ExecuteService
	TaskService      TaskService
	TypeService      TypeService
	NotifyService    NotifyService
	SqlParseService  SqlParseService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	telegramBot *telebot.Bot,
) *Service {
	channels := map[string]notify.Channel{
		notify.ChannelWebhook:  notify.NewWebhookChannel(&cfg.Notify, log),
		notify.ChannelDingTalk: notify.NewDingTalkChannel(&cfg.Notify, log),
		notify.ChannelTelegram: notify.NewTelegramChannel(&cfg.Notify, telegramBot, log),
		notify.ChannelEmail:    notify.NewEmailChannel(&cfg.Notify, log),
	}

	executeService := NewExecuteService(cfg, log, repo, inmemoryCache)
	notifyService := NewNotifyService(cfg, log, repo, channels)
	schedulerService := NewSchedulerService(cfg, log, repo, executeService, notifyService)

	return &Service{
		ExecuteService:   executeService,
		TaskService:      NewTaskService(log, repo),
		TypeService:      NewTypeService(log, repo, inmemoryCache),
		NotifyService:    notifyService,
		SqlParseService:  NewSqlParseService(log, repo),
		SchedulerService: schedulerService,
	}
}
