package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/session"
)

const pickerCallbackPrefix = "fp"

func (h *Handler) showFormatPicker(chatID, userID int64) error {
	d := h.sessions.Draft(chatID, userID, "")
	text := fmt.Sprintf("Pick a creative format. Current: %s", d.Format.DisplayName())
	_, err := h.tg.SendTextWithKeyboard(chatID, text, formatKeyboard(userID, d.Format))
	return err
}

func (h *Handler) handleCallback(q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.Message.Chat == nil || q.From == nil {
		return nil
	}
	data := strings.TrimSpace(q.Data)
	if !strings.HasPrefix(data, pickerCallbackPrefix+":") {
		return nil
	}

	parts := strings.Split(data, ":")
	if len(parts) < 4 || parts[2] != "set" {
		return nil
	}

	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil
	}
	if ownerID != q.From.ID {
		return h.tg.AnswerCallback(q.ID, "This menu belongs to someone else.", true)
	}

	format, ok := creative.ParseFormat(parts[3])
	if !ok {
		return h.tg.AnswerCallback(q.ID, "Unknown format.", true)
	}

	chatID := q.Message.Chat.ID
	h.sessions.Update(chatID, ownerID, func(d *session.Draft) { d.Format = format })
	_ = h.tg.AnswerCallback(q.ID, format.DisplayName(), false)
	return h.tg.SendText(chatID, describeFormat(format))
}

func formatKeyboard(ownerID int64, current creative.Format) tgbotapi.InlineKeyboardMarkup {
	const perRow = 2

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, f := range creative.Formats() {
		label := f.DisplayName()
		if f == current {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "set", string(f))))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cb(ownerID int64, parts ...string) string {
	return pickerCallbackPrefix + ":" + strconv.FormatInt(ownerID, 10) + ":" + strings.Join(parts, ":")
}
