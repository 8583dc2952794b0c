package i18n

var ru = map[string]string{
	"site.title":    "Заработок в Telegram",
	"site.subtitle": "Актуальные предложения для заработка",
	"site.footer":   "© 2025 Платформа заработка в Telegram",

	"login.title":       "Панель администратора",
	"login.description": "Введите пароль для доступа",
	"login.password":    "Пароль",
	"login.submit":      "Войти",
	"logout.submit":     "Выйти",

	"create.title":       "Создать новое предложение",
	"create.description": "Добавьте информацию о способе заработка",
	"create.field.title": "Название",
	"create.field.desc":  "Описание",
	"create.field.rew":   "Награда (например: 500₽)",
	"create.field.link":  "Ссылка на Telegram",
	"create.submit":      "Создать предложение",

	"card.open":   "Перейти",
	"card.delete": "Удалить",
	"card.views":  "Просмотров: %d",

	"empty.text": "Пока нет активных предложений",

	"load.error": "Не удалось загрузить предложения",
	"load.retry": "Повторить",

	"notice.success":        "Успешно",
	"notice.error":          "Ошибка",
	"notice.login.title":    "Вход выполнен",
	"notice.login.text":     "Добро пожаловать в панель управления",
	"notice.login.failed":   "Неверный пароль",
	"notice.logout":         "Вы вышли из панели управления",
	"notice.created":        "Предложение создано",
	"notice.deleted":        "Предложение удалено",
	"notice.create.failed":  "Не удалось создать предложение",
	"notice.delete.failed":  "Не удалось удалить предложение",
	"notice.unauthorized":   "Эндпоинт отклонил ключ администратора",
	"notice.unavailable":    "Сервис предложений недоступен, попробуйте позже",
	"notice.duplicate":      "Этот запрос уже отправлен",
	"notice.login.required": "Требуется вход администратора",
	"notice.bad.request":    "Некорректный запрос",
}

var en = map[string]string{
	"site.title":    "Earn with Telegram",
	"site.subtitle": "Current earning offers",
	"site.footer":   "© 2025 Telegram earnings platform",

	"login.title":       "Admin panel",
	"login.description": "Enter the password to continue",
	"login.password":    "Password",
	"login.submit":      "Sign in",
	"logout.submit":     "Sign out",

	"create.title":       "Create a new offer",
	"create.description": "Describe the way to earn",
	"create.field.title": "Title",
	"create.field.desc":  "Description",
	"create.field.rew":   "Reward (e.g. 500₽)",
	"create.field.link":  "Telegram link",
	"create.submit":      "Create offer",

	"card.open":   "Open",
	"card.delete": "Delete",
	"card.views":  "Views: %d",

	"empty.text": "No active offers yet",

	"load.error": "Could not load offers",
	"load.retry": "Retry",

	"notice.success":        "Done",
	"notice.error":          "Error",
	"notice.login.title":    "Signed in",
	"notice.login.text":     "Welcome to the admin panel",
	"notice.login.failed":   "Wrong password",
	"notice.logout":         "You have signed out",
	"notice.created":        "Offer created",
	"notice.deleted":        "Offer deleted",
	"notice.create.failed":  "Could not create the offer",
	"notice.delete.failed":  "Could not delete the offer",
	"notice.unauthorized":   "The endpoint rejected the admin key",
	"notice.unavailable":    "The offers service is unavailable, try again later",
	"notice.duplicate":      "This request was already sent",
	"notice.login.required": "Admin sign-in required",
	"notice.bad.request":    "Bad request",
}
