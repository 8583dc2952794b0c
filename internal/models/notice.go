package models

// Уровни уведомлений (аналог variant у тостов).
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice — уведомление для пользователя. Title и Text — ключи каталога i18n,
// Detail — необязательная сырая подробность (например, статус ответа).
type Notice struct {
	Level  string
	Title  string
	Text   string
	Detail string
}

func (n Notice) IsError() bool { return n.Level == NoticeError }
