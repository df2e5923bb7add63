package services

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// OrderNotifier pushes a placed order's summary to the restaurant's Telegram
// admin chat. The storefront works without it; a nil notifier is a no-op.
type OrderNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewOrderNotifier(token string, chatID int64) (*OrderNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &OrderNotifier{api: api, chatID: chatID}, nil
}

// NotifyOrder sends the composed order text to the admin chat. Delivery is
// best-effort: the customer flow never depends on the result.
func (n *OrderNotifier) NotifyOrder(text string) error {
	if n == nil || n.api == nil || n.chatID == 0 {
		return nil
	}
	_, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text))
	return err
}
