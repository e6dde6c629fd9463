package bot

import (
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"eduplatform/catalog"
	"eduplatform/config"
	"eduplatform/models"
	"eduplatform/store"
	"eduplatform/workflow"
)

type state int

const (
	stateNone state = iota
	stateRegisterName
	stateRegisterPhone
	stateRegisterEmail
	stateAwaitProof
	stateAwaitSubmission
	stateAwaitGrade
	stateBroadcastTitle
	stateBroadcastMessage
)

// session is one chat's dialogue position. Sessions are in-memory only;
// a restart drops half-finished dialogues, never committed records.
type session struct {
	state state

	fullName string
	phone    string

	itemType      models.ItemType
	itemID        string
	paymentMethod string
	amount        int

	assignmentID string
	studentID    int64

	broadcastTitle string
}

// Bot is the Telegram front end. All state transitions go through the
// workflow engine; the bot only renders menus and collects input.
type Bot struct {
	api     *tgbotapi.BotAPI
	engine  *workflow.Engine
	store   *store.Store
	catalog *catalog.Catalog
	cfg     *config.Config
	authz   workflow.Authorizer

	mu       sync.Mutex
	sessions map[int64]*session
}

// New creates the bot front end.
func New(api *tgbotapi.BotAPI, engine *workflow.Engine, st *store.Store, cat *catalog.Catalog, cfg *config.Config) *Bot {
	return &Bot{
		api:      api,
		engine:   engine,
		store:    st,
		catalog:  cat,
		cfg:      cfg,
		authz:    workflow.AdminAuthorizer{AdminID: cfg.TelegramAdminID},
		sessions: make(map[int64]*session),
	}
}

// Run consumes updates until the update channel closes.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("Bot started: @%s", b.api.Self.UserName)

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			b.handleCallback(update.CallbackQuery)
		case update.Message != nil:
			b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) session(chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		s = &session{}
		b.sessions[chatID] = s
	}
	return s
}

func (b *Bot) resetSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[chatID] = &session{}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to %d: %v", chatID, err)
	}
}

func (b *Bot) sendKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending keyboard to %d: %v", chatID, err)
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	return b.authz.IsAuthorized(chatID, "manage")
}

func (b *Bot) mainMenu(chatID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCourses),
			tgbotapi.NewKeyboardButton(btnMaterials),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAssignments),
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	}
	if b.isAdmin(chatID) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPending),
			tgbotapi.NewKeyboardButton(btnBroadcast),
		))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	chatID := m.Chat.ID
	s := b.session(chatID)

	if m.IsCommand() {
		b.handleCommand(m)
		return
	}

	switch s.state {
	case stateRegisterName, stateRegisterPhone, stateRegisterEmail:
		b.continueRegistration(m, s)
		return
	case stateAwaitProof:
		b.receivePaymentProof(m, s)
		return
	case stateAwaitSubmission:
		b.receiveSubmission(m, s)
		return
	case stateAwaitGrade:
		b.receiveGrade(m, s)
		return
	case stateBroadcastTitle, stateBroadcastMessage:
		b.continueBroadcast(m, s)
		return
	}

	user, err := b.store.GetUser(chatID)
	if err != nil {
		log.Printf("Error loading user %d: %v", chatID, err)
		return
	}
	if user == nil {
		b.send(chatID, msgNotRegistered)
		return
	}
	b.engine.TouchUser(chatID)

	switch m.Text {
	case btnCourses:
		b.showCourses(chatID)
	case btnMaterials:
		b.showYears(chatID)
	case btnAssignments:
		b.showAssignments(chatID)
	case btnHelp:
		b.send(chatID, msgHelp)
	case btnPending:
		b.showPendingEnrollments(chatID)
	case btnBroadcast:
		b.startBroadcast(chatID, s)
	default:
		b.send(chatID, msgUnknown)
	}
}

func (b *Bot) handleCommand(m *tgbotapi.Message) {
	chatID := m.Chat.ID

	switch m.Command() {
	case "start":
		b.resetSession(chatID)
		user, err := b.store.GetUser(chatID)
		if err != nil {
			log.Printf("Error loading user %d: %v", chatID, err)
			return
		}
		if user == nil {
			b.session(chatID).state = stateRegisterName
			b.send(chatID, msgAskFullName)
			return
		}
		b.engine.TouchUser(chatID)
		b.sendKeyboard(chatID, fmt.Sprintf(msgWelcomeBack, user.FullName), b.mainMenu(chatID))
	case "help":
		b.send(chatID, msgHelp)
	case "pending":
		b.showPendingEnrollments(chatID)
	case "stats":
		b.showStats(chatID)
	case "broadcast":
		b.startBroadcast(chatID, b.session(chatID))
	default:
		b.send(chatID, msgUnknown)
	}
}
