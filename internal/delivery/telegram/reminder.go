package telegram

import (
	"fmt"
)

// SendDueReminder notifies the user that words are waiting for review. It is
// called by the reminder scheduler; the chat id equals the user id for
// private chats.
func (h *Handler) SendDueReminder(chatID int64, dueCount int) error {
	word := "words are"
	if dueCount == 1 {
		word = "word is"
	}

	text := fmt.Sprintf("⏰ %d %s due for review. A few minutes now keep them fresh!", dueCount, word)

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = buildReminderKeyboard()

	if _, err := h.bot.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}
