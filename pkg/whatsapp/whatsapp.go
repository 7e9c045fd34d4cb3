package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DriverCloud  = "cloud"
	DriverDevice = "device"
	DriverLog    = "log"
)

var (
	ErrUnknownDriver  = errors.New("unknown whatsapp driver")
	ErrMissingCreds   = errors.New("whatsapp cloud credentials are not configured")
	ErrEmptyRecipient = errors.New("recipient is empty")
)

// InboundMessage is a text message received directly by a device session.
type InboundMessage struct {
	ID   string
	From string
	Text string
}

type InboundHandler func(ctx context.Context, msg InboundMessage)

type IWhatsappSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
	Driver() string
	Disconnect() error
	IsConnected() bool
}

// IInboundSource is implemented by drivers that also receive messages.
type IInboundSource interface {
	OnMessage(handler InboundHandler)
}

type Config struct {
	Driver        string
	AccessToken   string
	PhoneNumberID string
	GraphURL      string
	Timeout       time.Duration
	DeviceDSN     string
}

func New(cfg Config, log *logrus.Logger) (IWhatsappSender, error) {
	switch cfg.Driver {
	case "", DriverCloud:
		return NewCloudSender(cfg)
	case DriverDevice:
		return NewDeviceSender(cfg.DeviceDSN, log)
	case DriverLog:
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func FormatDSN(host, port, user, password, name, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		Path:     name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return dsn.String()
}

type logSender struct {
	log *logrus.Logger
}

// NewLogSender only logs replies, for local runs without platform access.
func NewLogSender(log *logrus.Logger) IWhatsappSender {
	return &logSender{log: log}
}

func (s *logSender) SendMessage(_ context.Context, phoneNumber, message string) error {
	if phoneNumber == "" {
		return ErrEmptyRecipient
	}
	s.log.WithFields(logrus.Fields{
		"to":    phoneNumber,
		"reply": message,
	}).Info("Reply not delivered, log driver active")
	return nil
}

func (s *logSender) Driver() string {
	return DriverLog
}

func (s *logSender) Disconnect() error {
	return nil
}

func (s *logSender) IsConnected() bool {
	return true
}
