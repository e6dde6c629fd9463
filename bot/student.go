package bot

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"eduplatform/models"
	"eduplatform/utils"
	"eduplatform/workflow"
)

func (b *Bot) continueRegistration(m *tgbotapi.Message, s *session) {
	chatID := m.Chat.ID
	text := strings.TrimSpace(m.Text)

	switch s.state {
	case stateRegisterName:
		if !utils.ValidateFullName(text) {
			b.send(chatID, msgBadFullName)
			return
		}
		s.fullName = text
		s.state = stateRegisterPhone
		b.send(chatID, msgAskPhone)

	case stateRegisterPhone:
		if !utils.ValidatePhone(text) {
			b.send(chatID, msgBadPhone)
			return
		}
		s.phone = strings.TrimSpace(text)
		s.state = stateRegisterEmail
		b.send(chatID, msgAskEmail)

	case stateRegisterEmail:
		if !utils.ValidateEmail(text) {
			b.send(chatID, msgBadEmail)
			return
		}
		user, err := b.engine.RegisterUser(chatID, s.fullName, s.phone, text)
		if err != nil {
			if errors.Is(err, workflow.ErrEmailTaken) {
				b.send(chatID, msgEmailTaken)
				return
			}
			if errors.Is(err, workflow.ErrAlreadyRegistered) {
				b.resetSession(chatID)
				b.sendKeyboard(chatID, fmt.Sprintf(msgWelcomeBack, user.FullName), b.mainMenu(chatID))
				return
			}
			log.Printf("Error registering user %d: %v", chatID, err)
			return
		}
		b.resetSession(chatID)
		b.sendKeyboard(chatID, fmt.Sprintf(msgRegistered, user.FullName), b.mainMenu(chatID))
	}
}

func (b *Bot) showCourses(chatID int64) {
	courses := b.catalog.AllCourses()
	if len(courses) == 0 {
		b.send(chatID, msgNoCourses)
		return
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, course := range courses {
		label := fmt.Sprintf("%s - %d ل.س", course.Name, course.Price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "course:"+course.ID),
		))
	}
	b.sendKeyboard(chatID, msgChooseCourse, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showCourseDetail(chatID int64, courseID string) {
	course, ok := b.catalog.GetCourse(courseID)
	if !ok {
		b.send(chatID, msgNoCourses)
		return
	}

	text := fmt.Sprintf("📚 %s\n\n⏱ المدة: %s\n💰 السعر: %d ل.س", course.Name, course.Duration, course.Price)
	if len(course.Syllabus) > 0 {
		text += "\n\n📋 المنهاج:\n• " + strings.Join(course.Syllabus, "\n• ")
	}
	if len(course.Projects) > 0 {
		text += "\n\n🛠 المشاريع:\n• " + strings.Join(course.Projects, "\n• ")
	}

	b.showItemWithEnrollAction(chatID, text, models.ItemCourse, courseID)
}

func (b *Bot) showYears(chatID int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for year := 1; year <= 5; year++ {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("السنة %d", year), fmt.Sprintf("year:%d", year)),
		))
	}
	b.sendKeyboard(chatID, msgChooseYear, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showSemesters(chatID int64, year int) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("الفصل الأول", fmt.Sprintf("sem:%d:1", year)),
			tgbotapi.NewInlineKeyboardButtonData("الفصل الثاني", fmt.Sprintf("sem:%d:2", year)),
		),
	)
	b.sendKeyboard(chatID, msgChooseSemester, keyboard)
}

func (b *Bot) showMaterials(chatID int64, year, semester int) {
	materials := b.catalog.MaterialsByYearSemester(year, semester)
	if len(materials) == 0 {
		b.send(chatID, msgNoMaterials)
		return
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].Name < materials[j].Name })

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, material := range materials {
		label := fmt.Sprintf("%s - %d ل.س", material.Name, material.Price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "material:"+material.ID),
		))
	}
	b.sendKeyboard(chatID, fmt.Sprintf(msgChooseMaterial, year, semester), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showMaterialDetail(chatID int64, materialID string) {
	material, ok := b.catalog.GetMaterial(materialID)
	if !ok {
		b.send(chatID, msgNoMaterials)
		return
	}

	text := fmt.Sprintf("📖 %s\n\n🎓 السنة %d - الفصل %d\n💰 السعر: %d ل.س",
		material.Name, material.Year, material.Semester, material.Price)

	b.showItemWithEnrollAction(chatID, text, models.ItemMaterial, materialID)
}

// showItemWithEnrollAction renders item detail with an action that
// matches the viewer's enrollment state: approved shows the group link,
// pending shows a wait note, anything else offers enrollment.
func (b *Bot) showItemWithEnrollAction(chatID int64, text string, itemType models.ItemType, itemID string) {
	enrollment, err := b.store.GetEnrollment(chatID, itemType, itemID)
	if err != nil {
		log.Printf("Error loading enrollment (%d, %s, %s): %v", chatID, itemType, itemID, err)
		return
	}

	if enrollment != nil {
		switch enrollment.Status {
		case models.StatusApproved:
			link := b.catalog.GroupLink(itemType, itemID)
			if link == "" {
				link = msgNoGroupLink
			}
			b.send(chatID, text+"\n\n"+fmt.Sprintf(msgEnrollApproved, link))
			return
		case models.StatusPending:
			b.send(chatID, text+"\n\n"+msgEnrollPending)
			return
		}
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ سجل الآن", fmt.Sprintf("enroll:%s:%s", itemType, itemID)),
		),
	)
	b.sendKeyboard(chatID, text, keyboard)
}

func (b *Bot) showPaymentMethods(chatID int64, itemType models.ItemType, itemID string) {
	if _, ok := b.catalog.GetItem(itemType, itemID); !ok {
		b.send(chatID, msgUnknown)
		return
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 شام كاش", fmt.Sprintf("pay:%s:%s:sham_cash", itemType, itemID)),
			tgbotapi.NewInlineKeyboardButtonData("🏦 الهرم", fmt.Sprintf("pay:%s:%s:haram", itemType, itemID)),
		),
	)
	b.sendKeyboard(chatID, msgChoosePayment, keyboard)
}

func (b *Bot) startPayment(chatID int64, s *session, itemType models.ItemType, itemID, method string) {
	item, ok := b.catalog.GetItem(itemType, itemID)
	if !ok {
		b.send(chatID, msgUnknown)
		return
	}

	s.state = stateAwaitProof
	s.itemType = itemType
	s.itemID = itemID
	s.paymentMethod = method
	s.amount = item.Price

	if method == "haram" {
		b.send(chatID, fmt.Sprintf(msgPaymentHaram, item.Price, b.cfg.HaramNumber))
		return
	}
	b.send(chatID, fmt.Sprintf(msgPaymentSham, item.Price, b.cfg.ShamCashNumber))
}

func (b *Bot) receivePaymentProof(m *tgbotapi.Message, s *session) {
	chatID := m.Chat.ID

	if len(m.Photo) == 0 {
		b.send(chatID, msgNeedProofPhoto)
		return
	}
	// Largest resolution is last.
	proofRef := m.Photo[len(m.Photo)-1].FileID

	_, err := b.engine.InitiateEnrollment(chatID, s.itemType, s.itemID, s.paymentMethod, s.amount, proofRef)
	b.resetSession(chatID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrAlreadyPending):
			b.send(chatID, msgAlreadyPending)
		case errors.Is(err, workflow.ErrAlreadyApproved):
			b.send(chatID, msgAlreadyApproved)
		case errors.Is(err, workflow.ErrUserNotFound):
			b.send(chatID, msgNotRegistered)
		default:
			log.Printf("Error initiating enrollment for %d: %v", chatID, err)
			b.send(chatID, msgUnknown)
		}
		return
	}
	b.send(chatID, msgProofReceived)
}

func (b *Bot) showAssignments(chatID int64) {
	assignments, err := b.store.ListAssignments()
	if err != nil {
		log.Printf("Error listing assignments: %v", err)
		return
	}
	if len(assignments) == 0 {
		b.send(chatID, msgNoAssignments)
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, a := range assignments {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 "+a.Title, "assign:"+a.AssignmentID),
		))
	}
	b.sendKeyboard(chatID, msgChooseAssignment, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showAssignmentDetail(chatID int64, assignmentID string) {
	assignment, err := b.store.GetAssignment(assignmentID)
	if err != nil {
		log.Printf("Error loading assignment %s: %v", assignmentID, err)
		return
	}
	if assignment == nil {
		b.send(chatID, msgNoAssignments)
		return
	}

	description := assignment.Description
	if len(assignment.Questions) > 0 {
		description += "\n\n❓ الأسئلة:\n• " + strings.Join(assignment.Questions, "\n• ")
	}

	text := fmt.Sprintf(msgAssignmentInfo,
		assignment.Title,
		description,
		assignment.Deadline.Format("2006-01-02 15:04"),
		formatRemaining(time.Until(assignment.Deadline)),
		assignment.MaxGrade,
	)

	submission, err := b.store.GetSubmission(assignmentID, chatID)
	if err != nil {
		log.Printf("Error loading submission (%s, %d): %v", assignmentID, chatID, err)
		return
	}
	if submission != nil {
		if submission.Status == models.SubmissionGraded && submission.Grade != nil {
			text += "\n\n" + fmt.Sprintf(msgYourGrade, *submission.Grade, assignment.MaxGrade)
			if submission.Feedback != nil && *submission.Feedback != "" {
				text += "\n💬 " + *submission.Feedback
			}
		} else {
			text += "\n\n" + msgNotGradedYet
		}
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 تسليم الإجابة", "submit:"+assignmentID),
		),
	)
	b.sendKeyboard(chatID, text, keyboard)

	if assignment.FileID != "" {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(assignment.FileID))
		if _, err := b.api.Send(doc); err != nil {
			log.Printf("Error sending assignment file: %v", err)
		}
	}
}

func (b *Bot) receiveSubmission(m *tgbotapi.Message, s *session) {
	chatID := m.Chat.ID

	var contentRef string
	switch {
	case m.Document != nil:
		contentRef = m.Document.FileID
	case len(m.Photo) > 0:
		contentRef = m.Photo[len(m.Photo)-1].FileID
	default:
		b.send(chatID, msgNeedSubmission)
		return
	}

	assignmentID := s.assignmentID
	_, err := b.engine.SubmitAssignment(chatID, assignmentID, contentRef)
	b.resetSession(chatID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrDeadlinePassed):
			b.send(chatID, msgSubmitLate)
		case errors.Is(err, workflow.ErrUserNotFound):
			b.send(chatID, msgNotRegistered)
		case errors.Is(err, workflow.ErrItemNotFound):
			b.send(chatID, msgNoAssignments)
		default:
			log.Printf("Error submitting assignment for %d: %v", chatID, err)
			b.send(chatID, msgUnknown)
		}
		return
	}
	b.send(chatID, msgSubmitted)
	b.notifyAdminOfSubmission(chatID, assignmentID)
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return msgDeadlinePassed
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%d يوم و %d ساعة", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%d ساعة و %d دقيقة", hours, minutes)
	}
	return fmt.Sprintf("%d دقيقة", minutes)
}
