package setup

import (
	"time"

	"github.com/folio-dev/folio/backend/internal/handler"
	"github.com/folio-dev/folio/backend/internal/notify"
	"github.com/folio-dev/folio/backend/internal/service"
	"github.com/folio-dev/folio/backend/internal/storage/csvlog"
	"github.com/folio-dev/folio/shared/config"
	"github.com/folio-dev/folio/shared/logger"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config   *config.Config
	Store    *csvlog.Log
	Notifier *notify.Dispatcher
	Handler  *handler.Handler
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	store, err := csvlog.New(cfg.Public.DataPath)
	if err != nil {
		return nil, err
	}

	var notifier *notify.Dispatcher
	if cfg.NotificationsEnabled() {
		notifier = notify.New(NotifyConfig(cfg.Private.SMTP))
		logger.Log.Info("contact notifications enabled", "host", cfg.Private.SMTP.Host)
	} else {
		logger.Log.Info("contact notifications disabled")
	}

	contact := service.NewContact(store, notifierOrNil(notifier), time.Now)
	h := handler.New(contact, store, cfg)

	return &Dependencies{
		Config:   cfg,
		Store:    store,
		Notifier: notifier,
		Handler:  h,
	}, nil
}

// NotifyConfig maps the private.yaml smtp block to the dispatcher config.
func NotifyConfig(s *config.SMTP) notify.Config {
	if s == nil {
		return notify.Config{}
	}
	return notify.Config{
		Host:          s.Host,
		Port:          s.Port,
		Username:      s.Username,
		Password:      s.Password,
		Security:      s.Security,
		FromEmail:     s.FromEmail,
		FromName:      s.FromName,
		ToEmail:       s.ToEmail,
		SubjectPrefix: s.SubjectPrefix,
		Timeout:       time.Duration(s.Timeout) * time.Second,
	}
}

// notifierOrNil avoids handing the service a typed nil interface.
func notifierOrNil(d *notify.Dispatcher) service.Notifier {
	if d == nil {
		return nil
	}
	return d
}
