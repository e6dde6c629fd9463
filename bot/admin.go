package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"eduplatform/models"
	"eduplatform/workflow"
)

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("Error acknowledging callback: %v", err)
	}
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	parts := strings.Split(cq.Data, ":")

	switch parts[0] {
	case "course":
		if len(parts) == 2 {
			b.showCourseDetail(chatID, parts[1])
		}
	case "material":
		if len(parts) == 2 {
			b.showMaterialDetail(chatID, parts[1])
		}
	case "year":
		if len(parts) == 2 {
			if year, err := strconv.Atoi(parts[1]); err == nil {
				b.showSemesters(chatID, year)
			}
		}
	case "sem":
		if len(parts) == 3 {
			year, err1 := strconv.Atoi(parts[1])
			semester, err2 := strconv.Atoi(parts[2])
			if err1 == nil && err2 == nil {
				b.showMaterials(chatID, year, semester)
			}
		}
	case "enroll":
		if len(parts) == 3 {
			b.showPaymentMethods(chatID, models.ItemType(parts[1]), parts[2])
		}
	case "pay":
		if len(parts) == 4 {
			b.startPayment(chatID, b.session(chatID), models.ItemType(parts[1]), parts[2], parts[3])
		}
	case "assign":
		if len(parts) == 2 {
			b.showAssignmentDetail(chatID, parts[1])
		}
	case "submit":
		if len(parts) == 2 {
			s := b.session(chatID)
			s.state = stateAwaitSubmission
			s.assignmentID = parts[1]
			b.send(chatID, msgSendSubmission)
		}
	case "approve", "reject":
		if len(parts) == 4 {
			b.decideEnrollment(chatID, parts[0], parts[1], parts[2], parts[3])
		}
	case "grade":
		if len(parts) == 3 {
			b.startGrading(chatID, parts[1], parts[2])
		}
	}
}

func (b *Bot) showPendingEnrollments(chatID int64) {
	if !b.isAdmin(chatID) {
		b.send(chatID, msgAdminOnly)
		return
	}

	enrollments, err := b.store.ListPendingEnrollments()
	if err != nil {
		log.Printf("Error listing pending enrollments: %v", err)
		return
	}
	if len(enrollments) == 0 {
		b.send(chatID, msgNoPending)
		return
	}

	for _, e := range enrollments {
		user, err := b.store.GetUser(e.TelegramID)
		if err != nil || user == nil {
			log.Printf("Error loading user %d for pending enrollment: %v", e.TelegramID, err)
			continue
		}
		name := e.ItemID
		if item, ok := b.catalog.GetItem(e.ItemType, e.ItemID); ok {
			name = item.Name
		}

		text := fmt.Sprintf(
			"📋 طلب معلق\n\n👤 %s\n📱 %s\n🏷️ %s\n💰 %d ل.س عبر %s\n📅 %s",
			user.FullName, user.Phone, name, e.PaymentAmount, e.PaymentMethod,
			e.EnrolledAt.Format("2006-01-02 15:04"),
		)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ موافقة", fmt.Sprintf("approve:%d:%s:%s", e.TelegramID, e.ItemType, e.ItemID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ رفض", fmt.Sprintf("reject:%d:%s:%s", e.TelegramID, e.ItemType, e.ItemID)),
			),
		)

		if e.PaymentProofFileID != "" {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(e.PaymentProofFileID))
			photo.Caption = text
			photo.ReplyMarkup = keyboard
			if _, err := b.api.Send(photo); err != nil {
				log.Printf("Error sending pending enrollment photo: %v", err)
				b.sendKeyboard(chatID, text, keyboard)
			}
			continue
		}
		b.sendKeyboard(chatID, text, keyboard)
	}
}

func (b *Bot) showStats(chatID int64) {
	if !b.isAdmin(chatID) {
		b.send(chatID, msgAdminOnly)
		return
	}

	users, err := b.store.CountUsers()
	if err != nil {
		log.Printf("Error counting users: %v", err)
		return
	}
	pending, err := b.store.CountPendingEnrollments()
	if err != nil {
		log.Printf("Error counting pending enrollments: %v", err)
		return
	}

	approvedByItem := make(map[string]int)
	for _, course := range b.catalog.AllCourses() {
		enrolled, err := b.store.CountApprovedEnrollments(models.ItemCourse, course.ID)
		if err != nil {
			log.Printf("Error counting enrollments for %s: %v", course.ID, err)
			continue
		}
		approvedByItem[course.Name] = enrolled
	}

	text := fmt.Sprintf("📊 الإحصائيات\n\n👥 الطلاب المسجلون: %d\n⏳ طلبات معلقة: %d", users, pending)
	if len(approvedByItem) > 0 {
		text += "\n\n📚 المسجلون في الدورات:"
		for name, n := range approvedByItem {
			text += fmt.Sprintf("\n• %s: %d", name, n)
		}
	}
	b.send(chatID, text)
}

func (b *Bot) decideEnrollment(chatID int64, action, rawTelegramID, rawItemType, itemID string) {
	if !b.isAdmin(chatID) {
		b.send(chatID, msgAdminOnly)
		return
	}

	telegramID, err := strconv.ParseInt(rawTelegramID, 10, 64)
	if err != nil {
		return
	}

	decision := models.StatusApproved
	if action == "reject" {
		decision = models.StatusRejected
	}

	err = b.engine.DecideEnrollment(telegramID, models.ItemType(rawItemType), itemID, decision, b.cfg.AdminUsername)
	if err != nil {
		if errors.Is(err, workflow.ErrEnrollmentNotFound) || errors.Is(err, workflow.ErrUserNotFound) {
			b.send(chatID, msgDecisionGone)
			return
		}
		log.Printf("Error deciding enrollment (%d, %s, %s): %v", telegramID, rawItemType, itemID, err)
		return
	}
	b.send(chatID, msgDecisionDone)
}

// notifyAdminOfSubmission tells the admin a submission arrived and
// offers the grading dialogue inline.
func (b *Bot) notifyAdminOfSubmission(studentID int64, assignmentID string) {
	user, err := b.store.GetUser(studentID)
	if err != nil || user == nil {
		return
	}
	assignment, err := b.store.GetAssignment(assignmentID)
	if err != nil || assignment == nil {
		return
	}

	text := fmt.Sprintf("📬 تسليم جديد\n\n📝 %s\n👤 %s (%d)", assignment.Title, user.FullName, studentID)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ تصحيح", fmt.Sprintf("grade:%s:%d", assignmentID, studentID)),
		),
	)
	b.sendKeyboard(b.cfg.TelegramAdminID, text, keyboard)

	submission, err := b.store.GetSubmission(assignmentID, studentID)
	if err != nil || submission == nil {
		return
	}
	doc := tgbotapi.NewDocument(b.cfg.TelegramAdminID, tgbotapi.FileID(submission.FileID))
	if _, err := b.api.Send(doc); err != nil {
		// The proof may be a photo file id rather than a document.
		photo := tgbotapi.NewPhoto(b.cfg.TelegramAdminID, tgbotapi.FileID(submission.FileID))
		if _, err := b.api.Send(photo); err != nil {
			log.Printf("Error forwarding submission file to admin: %v", err)
		}
	}
}

func (b *Bot) startGrading(chatID int64, assignmentID, rawStudentID string) {
	if !b.isAdmin(chatID) {
		b.send(chatID, msgAdminOnly)
		return
	}
	studentID, err := strconv.ParseInt(rawStudentID, 10, 64)
	if err != nil {
		return
	}

	s := b.session(chatID)
	s.state = stateAwaitGrade
	s.assignmentID = assignmentID
	s.studentID = studentID
	b.send(chatID, msgAskGrade)
}

// parseGradeInput splits "85 | feedback" into grade and optional
// feedback.
func parseGradeInput(text string) (int, string, error) {
	gradePart, feedback := text, ""
	if idx := strings.Index(text, "|"); idx >= 0 {
		gradePart = text[:idx]
		feedback = strings.TrimSpace(text[idx+1:])
	}
	grade, err := strconv.Atoi(strings.TrimSpace(gradePart))
	return grade, feedback, err
}

func (b *Bot) receiveGrade(m *tgbotapi.Message, s *session) {
	chatID := m.Chat.ID

	grade, feedback, err := parseGradeInput(m.Text)
	if err != nil {
		b.send(chatID, msgBadGrade)
		return
	}

	err = b.engine.GradeSubmission(s.assignmentID, s.studentID, grade, feedback, b.cfg.AdminUsername)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidGrade) {
			b.send(chatID, msgBadGrade)
			return
		}
		b.resetSession(chatID)
		if errors.Is(err, workflow.ErrSubmissionNotFound) || errors.Is(err, workflow.ErrItemNotFound) {
			b.send(chatID, msgDecisionGone)
			return
		}
		log.Printf("Error grading submission (%s, %d): %v", s.assignmentID, s.studentID, err)
		return
	}
	b.resetSession(chatID)
	b.send(chatID, msgGraded)
}

func (b *Bot) startBroadcast(chatID int64, s *session) {
	if !b.isAdmin(chatID) {
		b.send(chatID, msgAdminOnly)
		return
	}
	s.state = stateBroadcastTitle
	b.send(chatID, msgAskBroadcast)
}

func (b *Bot) continueBroadcast(m *tgbotapi.Message, s *session) {
	chatID := m.Chat.ID

	switch s.state {
	case stateBroadcastTitle:
		s.broadcastTitle = strings.TrimSpace(m.Text)
		s.state = stateBroadcastMessage
		b.send(chatID, msgAskBroadcastMsg)
	case stateBroadcastMessage:
		title := s.broadcastTitle
		message := strings.TrimSpace(m.Text)
		b.resetSession(chatID)

		sent, err := b.engine.Broadcast(title, message, 0)
		if err != nil {
			log.Printf("Error broadcasting: %v", err)
			return
		}
		b.send(chatID, fmt.Sprintf(msgBroadcastSent, sent))
	}
}
