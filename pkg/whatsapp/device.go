package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

const connectTimeout = 60 * time.Second

type deviceSender struct {
	client   *whatsmeow.Client
	log      *logrus.Logger
	mu       sync.RWMutex
	handlers []InboundHandler
}

// NewDeviceSender pairs a linked-device session stored in postgres. The QR
// code is logged on first start.
func NewDeviceSender(dsn string, log *logrus.Logger) (IWhatsappSender, error) {
	if dsn == "" {
		return nil, fmt.Errorf("device driver requires a database dsn")
	}

	ctx := context.Background()
	waLogger := NewLogger(log, "whatsmeow")

	container, err := sqlstore.New(ctx, "postgres", dsn, waLogger.Sub("Database"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	s := &deviceSender{
		client: whatsmeow.NewClient(deviceStore, waLogger.Sub("Client")),
		log:    log,
	}

	connected := make(chan struct{}, 1)
	s.client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Connected:
			select {
			case connected <- struct{}{}:
			default:
			}
		case *events.Message:
			s.dispatch(v)
		}
	})

	if s.client.Store.ID == nil {
		if err := connectWithPairing(ctx, s.client, log); err != nil {
			return nil, err
		}
	} else {
		if err := s.client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
	}

	select {
	case <-connected:
		log.Info("WhatsApp device connected")
	case <-time.After(connectTimeout):
		s.client.Disconnect()
		return nil, fmt.Errorf("connection timeout")
	}

	return s, nil
}

type pairingClient interface {
	GetQRChannel(ctx context.Context) (<-chan whatsmeow.QRChannelItem, error)
	Connect() error
}

// connectWithPairing connects an unpaired session and logs each QR code
// until the pairing channel closes.
func connectWithPairing(ctx context.Context, client pairingClient, log *logrus.Logger) error {
	qrChan, err := client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to open QR channel: %w", err)
	}

	if err := client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	go func() {
		for evt := range qrChan {
			if evt.Event == "code" {
				log.WithField("qr", evt.Code).Warn("Scan QR code to link the WhatsApp device")
			}
		}
	}()

	return nil
}

func (s *deviceSender) OnMessage(handler InboundHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *deviceSender) dispatch(evt *events.Message) {
	if evt.Info.IsFromMe || evt.Info.IsGroup {
		return
	}

	msg := InboundMessage{
		ID:   string(evt.Info.ID),
		From: evt.Info.Chat.String(),
		Text: messageText(evt.Message),
	}

	s.mu.RLock()
	handlers := append([]InboundHandler(nil), s.handlers...)
	s.mu.RUnlock()

	for _, h := range handlers {
		go h(context.Background(), msg)
	}
}

func messageText(msg *waE2E.Message) string {
	if text := msg.GetConversation(); text != "" {
		return text
	}
	return msg.GetExtendedTextMessage().GetText()
}

func (s *deviceSender) SendMessage(ctx context.Context, phoneNumber, message string) error {
	jid, err := recipientJID(phoneNumber)
	if err != nil {
		return err
	}

	waMsg := &waE2E.Message{
		Conversation: proto.String(message),
	}

	if _, err := s.client.SendMessage(ctx, jid, waMsg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// recipientJID accepts a bare phone number or a full JID such as the chat id
// of an inbound device message.
func recipientJID(recipient string) (types.JID, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return types.JID{}, ErrEmptyRecipient
	}
	if strings.Contains(recipient, "@") {
		jid, err := types.ParseJID(recipient)
		if err != nil {
			return types.JID{}, fmt.Errorf("invalid recipient %q: %w", recipient, err)
		}
		return jid, nil
	}
	return types.NewJID(strings.TrimPrefix(recipient, "+"), types.DefaultUserServer), nil
}

func (s *deviceSender) Driver() string {
	return DriverDevice
}

func (s *deviceSender) Disconnect() error {
	s.client.Disconnect()
	return nil
}

func (s *deviceSender) IsConnected() bool {
	return s.client.IsConnected()
}
