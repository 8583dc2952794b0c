package board

import "OfferBoard/internal/models"

// State — всё, что нужно странице доски на один запрос.
// Владелец один — обработчик запроса; между запросами переживают только
// флаг админа, черновик и уведомления (через сессию).
type State struct {
	Offers  []models.Offer
	Draft   models.Draft
	IsAdmin bool

	// LoadErr — последняя ошибка чтения списка; страница показывает баннер с повтором.
	LoadErr error
	Notices []models.Notice

	// Token — токен отправки для форм этой страницы.
	Token string
}

// Empty — показывать заглушку вместо сетки.
func (s *State) Empty() bool {
	return len(s.Offers) == 0
}

func (s *State) find(id int64) (models.Offer, bool) {
	for _, o := range s.Offers {
		if o.ID == id {
			return o, true
		}
	}
	return models.Offer{}, false
}

func (s *State) notify(level, title, text, detail string) {
	s.Notices = append(s.Notices, models.Notice{Level: level, Title: title, Text: text, Detail: detail})
}

func (s *State) success(text string) {
	s.notify(models.NoticeSuccess, "notice.success", text, "")
}

func (s *State) failure(text, detail string) {
	s.notify(models.NoticeError, "notice.error", text, detail)
}
