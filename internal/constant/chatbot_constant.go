package constant

const (
	CommandStart = "start"
	CommandAdmin = "admin"

	ConfirmPhrase = "Хорошо"
	ReadyPhrase   = "Погнали"

	StickerWelcome     = "CAACAgIAAxkBAAIedWZ6eTB3dgFVRP0ammpMpEqFR138AAKxOgACR_2hSkN5bfKbzeJFNQQ"
	StickerConfirmed   = "CAACAgIAAxkBAAIfFWaDwyfZI-2yLIza5jHlPCqUBFpeAALsRwACdA2gS_Z0OaZBctWSNQQ"
	StickerCelebration = "CAACAgIAAxkBAAIeeGZ6eXPrVYYAAWRJIHuhRDscfGvq9wACzDcAAkQsqUpvTd4i2f0HnTUE"

	MessageWelcome = `
Привет, я — Нейро Нумеролог!
Создан, чтобы помочь тебе понять себя лучше. 
Для этого просто задавай мне вопросы по нумерологии.
Договорились?`
	MessageConfirmed    = "Отлично! Начнём?"
	MessageAskName      = "Как тебя зовут?"
	MessageReprompt     = "Чтобы продолжить, просто нажми на кнопку👇"
	MessageFinished     = "👇Пожалуйста! Если хочешь задать ещё вопрос, то нажми кнопку Cтарт в меню."
	MessageCelebration  = "Нумерология - это магия! Поздравляю!Теперь ты знаешь больше о себе!"
	MessageAccessDenied = "Вы не имеете доступа к этому боту."
	MessageApology      = "Произошла ошибка при обработке вашего запроса. Попробуйте позже."
)

// Admin panel
const (
	CallbackAddUser        = "add_user"
	CallbackRemoveUser     = "remove_user"
	CallbackViewDialogue   = "view_dialogue"
	CallbackDeleteMessages = "delete_messages"
	CallbackListUsers      = "list_users"

	AdminPanelTitle      = "Панель администратора:"
	AdminButtonAdd       = "Добавить юзера"
	AdminButtonRemove    = "Удалить юзера"
	AdminButtonView      = "Посмотреть диалог"
	AdminButtonDelete    = "Удалить сообщения"
	AdminButtonListUsers = "Список юзеров"

	AdminPromptAdd    = "Введите имя пользователя для добавления:"
	AdminPromptRemove = "Введите имя пользователя для удаления:"
	AdminPromptView   = "Введите имя пользователя для просмотра диалога:"
	AdminPromptDelete = "Введите имя пользователя для удаления всех сообщений:"

	AdminUserAdded       = "Пользователь %s добавлен в список разрешенных."
	AdminUserRemoved     = "Пользователь %s удален из списка разрешенных."
	AdminMessagesDeleted = "Все сообщения пользователя %s удалены."
	AdminUserList        = "Список всех пользователей:\n%s"
	AdminNoDialogue      = "Нет диалога"
	AdminDialogueError   = "Ошибка при загрузке диалога."
	AdminForbidden       = "У вас нет прав для выполнения этой команды."
	AdminStoreError      = "Не удалось выполнить операцию. Попробуйте позже."
	AdminEmptyUsername   = "Имя пользователя не может быть пустым."

	DialogueIncoming = "Входящее"
	DialogueOutgoing = "Исходящее"
	DialogueTimeFmt  = "2006-01-02 15:04:05"
)
