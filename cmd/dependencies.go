package cmd

import (
	"context"
	"time"

	"golang-monitor/config"
	"golang-monitor/pkg/cache"
	"golang-monitor/pkg/logger"
	"golang-monitor/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

type AppDependency struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *postgres.DB
	datasourceDB *postgres.DB
	validator    *goValidator.Validate
	echo         *echo.Echo
	cache        cache.Cache
	telegramBot  *telebot.Bot
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to primary database", zap.Error(err))
		return nil, err
	}

	datasourceDB, err := postgres.NewDB(cfg.Datasource, log)
	if err != nil {
		log.Error("Failed to connect to datasource", zap.Error(err))
		return nil, err
	}

	// The bot is only a send target, so no poller is started. A missing
	// token just leaves the telegram channel disabled.
	var telegramBot *telebot.Bot
	if cfg.Notify.TelegramBotToken != "" {
		pref := telebot.Settings{
			Token:  cfg.Notify.TelegramBotToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				log.Error("Telegram bot error", zap.Error(err))
			},
		}
		telegramBot, err = telebot.NewBot(pref)
		if err != nil {
			log.Error("Failed to create telegram bot", zap.Error(err))
			return nil, err
		}
	}

	return &AppDependency{
		cfg:          cfg,
		log:          log,
		db:           db,
		datasourceDB: datasourceDB,
		validator:    goValidator.New(),
		echo:         echo.New(),
		cache:        cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		telegramBot:  telegramBot,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.datasourceDB != nil {
		if err := d.datasourceDB.Close(); err != nil {
			d.log.Error("Failed to close datasource connection", zap.Error(err))
		}
	}
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
