package notification

import (
	"fmt"
	"time"

	"github.com/raykavin/chartview/pkg/logger"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Telegram implements Notifier over a Telegram bot. Only the
// configured user receives alerts.
type Telegram struct {
	client *tb.Bot
	user   tb.Recipient
	log    logger.Logger
}

type telegramUser int64

func (u telegramUser) Recipient() string { return fmt.Sprintf("%d", int64(u)) }

// NewTelegram creates a Telegram notifier for the given bot token and
// user id.
func NewTelegram(token string, userID int64, log logger.Logger) (*Telegram, error) {
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     token,
		Poller:    poller,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{
		client: client,
		user:   telegramUser(userID),
		log:    log,
	}, nil
}

// Notify sends a plain alert message.
func (t *Telegram) Notify(message string) {
	if _, err := t.client.Send(t.user, message); err != nil {
		t.log.WithError(err).Error("failed to send telegram notification")
	}
}

// NotifyError sends an error alert.
func (t *Telegram) NotifyError(err error) {
	t.Notify(fmt.Sprintf("🚨 chart error: `%s`", err))
}
