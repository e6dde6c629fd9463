package workflow

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"eduplatform/models"
)

// Catalog is the read-only course/material definition set.
type Catalog interface {
	GetItem(itemType models.ItemType, itemID string) (models.CatalogItem, bool)
	GroupLink(itemType models.ItemType, itemID string) string
}

// Notifier delivers messages to users. Delivery is best-effort: the
// engine never rolls back a committed transition on a send failure.
type Notifier interface {
	Notify(chatID int64, text string) error
	NotifyPhoto(chatID int64, fileID, caption string) error
}

// Store is the persistence boundary. Lookup methods return (nil, nil)
// when no row matches. Transition methods that carry a status
// precondition return false when the precondition no longer held at
// write time.
type Store interface {
	GetUser(telegramID int64) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(u *models.User) error
	TouchLastActive(telegramID int64, at time.Time) error
	ListUsers() ([]models.User, error)

	GetEnrollment(telegramID int64, itemType models.ItemType, itemID string) (*models.Enrollment, error)
	CreateEnrollment(e *models.Enrollment) error
	ReopenEnrollment(e *models.Enrollment) (bool, error)
	DecideEnrollment(telegramID int64, itemType models.ItemType, itemID string, status models.ApprovalStatus, decidedBy string, decidedAt time.Time) (bool, error)
	ListPendingEnrollments() ([]models.Enrollment, error)

	GetAssignment(assignmentID string) (*models.Assignment, error)
	CreateAssignment(a *models.Assignment) error
	ListAssignments() ([]models.Assignment, error)
	GetSubmission(assignmentID string, telegramID int64) (*models.Submission, error)
	ListSubmissions(assignmentID string) ([]models.Submission, error)
	UpsertSubmission(s *models.Submission) error
	GradeSubmission(assignmentID string, telegramID int64, grade int, feedback, gradedBy string, gradedAt time.Time) (bool, error)

	SaveNotification(n *models.Notification) error
	ListNotifications(limit int) ([]models.Notification, error)
}

// Authorizer gates privileged operations. The default implementation
// recognizes the single configured admin; role tiers can be introduced
// behind this without touching the engine.
type Authorizer interface {
	IsAuthorized(actorID int64, action string) bool
}

// AdminAuthorizer authorizes exactly one admin identity for every action.
type AdminAuthorizer struct {
	AdminID int64
}

func (a AdminAuthorizer) IsAuthorized(actorID int64, action string) bool {
	return actorID == a.AdminID
}

// Engine owns the enrollment/approval/grading lifecycle: a user's claim
// on a course or material, and a student's submission to an assignment.
type Engine struct {
	store    Store
	catalog  Catalog
	notifier Notifier

	adminID               int64
	rejectLateSubmissions bool

	now func() time.Time
}

// New creates a workflow engine.
func New(store Store, cat Catalog, notifier Notifier, adminID int64, rejectLateSubmissions bool) *Engine {
	return &Engine{
		store:                 store,
		catalog:               cat,
		notifier:              notifier,
		adminID:               adminID,
		rejectLateSubmissions: rejectLateSubmissions,
		now:                   time.Now,
	}
}

// Store exposes the persistence boundary for read-only callers
// (dashboard listings, bot menus).
func (e *Engine) Store() Store { return e.store }

// Catalog exposes the catalog for read-only callers.
func (e *Engine) Catalog() Catalog { return e.catalog }

// RegisterUser completes the registration dialogue: unique email,
// unique telegram identity.
func (e *Engine) RegisterUser(telegramID int64, fullName, phone, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := e.store.GetUser(telegramID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrAlreadyRegistered
	}

	byEmail, err := e.store.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		return nil, ErrEmailTaken
	}

	now := e.now()
	user := &models.User{
		TelegramID:   telegramID,
		FullName:     fullName,
		Phone:        phone,
		Email:        email,
		RegisteredAt: now,
		LastActiveAt: now,
	}
	if err := e.store.CreateUser(user); err != nil {
		return nil, err
	}
	log.Printf("New user registered: %s (%d)", user.FullName, user.TelegramID)
	return user, nil
}

// TouchUser records activity for a returning user.
func (e *Engine) TouchUser(telegramID int64) {
	if err := e.store.TouchLastActive(telegramID, e.now()); err != nil {
		log.Printf("Error updating last active for %d: %v", telegramID, err)
	}
}

// InitiateEnrollment records a payment-backed enrollment request. If a
// pending or approved record already exists the call is rejected; a
// rejected record is reopened in place so (user, item) stays unique.
// The admin is notified with the proof reference; that delivery is
// best-effort and never rolls the record back.
func (e *Engine) InitiateEnrollment(telegramID int64, itemType models.ItemType, itemID, paymentMethod string, amount int, proofRef string) (*models.Enrollment, error) {
	user, err := e.store.GetUser(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	item, ok := e.catalog.GetItem(itemType, itemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	existing, err := e.store.GetEnrollment(telegramID, itemType, itemID)
	if err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		TelegramID:         telegramID,
		ItemType:           itemType,
		ItemID:             itemID,
		Status:             models.StatusPending,
		PaymentMethod:      paymentMethod,
		PaymentAmount:      amount,
		PaymentProofFileID: proofRef,
		EnrolledAt:         e.now(),
	}
	if itemType == models.ItemMaterial {
		year, semester := item.Year, item.Semester
		enrollment.Year = &year
		enrollment.Semester = &semester
	}

	if existing != nil {
		switch existing.Status {
		case models.StatusPending:
			return nil, ErrAlreadyPending
		case models.StatusApproved:
			return nil, ErrAlreadyApproved
		case models.StatusRejected:
			ok, err := e.store.ReopenEnrollment(enrollment)
			if err != nil {
				return nil, err
			}
			if !ok {
				// Decided concurrently between the read and the write.
				return nil, ErrAlreadyPending
			}
		}
	} else {
		if err := e.store.CreateEnrollment(enrollment); err != nil {
			return nil, err
		}
	}

	e.notifyAdminOfRequest(user, item, enrollment)

	log.Printf("Enrollment payment received: %s -> %s %s", user.FullName, itemType, itemID)
	return enrollment, nil
}

func (e *Engine) notifyAdminOfRequest(user *models.User, item models.CatalogItem, enrollment *models.Enrollment) {
	kind := "دورة"
	if enrollment.ItemType == models.ItemMaterial {
		kind = "مادة"
	}
	caption := fmt.Sprintf(
		"🔔 طلب تسجيل جديد\n\n👤 الطالب: %s\n📱 الهاتف: %s\n📧 البريد: %s\n\n📦 النوع: %s\n🏷️ العنصر: %s\n💰 المبلغ: %d ل.س\n💳 الوسيلة: %s\n\n⏳ في انتظار الموافقة",
		user.FullName, user.Phone, user.Email, kind, item.Name, enrollment.PaymentAmount, enrollment.PaymentMethod,
	)
	if err := e.notifier.NotifyPhoto(e.adminID, enrollment.PaymentProofFileID, caption); err != nil {
		log.Printf("Failed to notify admin of enrollment request: %v", err)
	}
}

// DecideEnrollment applies an admin approve/reject decision. The
// transition commits only if the record is still pending at write time.
// Non-pending and never-existed cases both surface as
// ErrEnrollmentNotFound; the distinction is logged internally only.
func (e *Engine) DecideEnrollment(telegramID int64, itemType models.ItemType, itemID string, decision models.ApprovalStatus, decidedBy string) error {
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return ErrInvalidDecision
	}

	user, err := e.store.GetUser(telegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	decidedAt := e.now()
	ok, err := e.store.DecideEnrollment(telegramID, itemType, itemID, decision, decidedBy, decidedAt)
	if err != nil {
		return err
	}
	if !ok {
		if current, err := e.store.GetEnrollment(telegramID, itemType, itemID); err == nil && current != nil {
			log.Printf("Decision on non-pending enrollment (%d, %s, %s): status=%s", telegramID, itemType, itemID, current.Status)
		}
		return ErrEnrollmentNotFound
	}

	title, message := e.decisionMessage(itemType, itemID, decision)

	notification := &models.Notification{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		Title:      title,
		Message:    message,
		Category:   models.CategoryApproval,
		RelatedID:  itemID,
		CreatedAt:  decidedAt,
	}
	if err := e.store.SaveNotification(notification); err != nil {
		log.Printf("Failed to persist approval notification: %v", err)
	}

	if err := e.notifier.Notify(telegramID, fmt.Sprintf("%s\n\n%s", title, message)); err != nil {
		log.Printf("Failed to send decision notification to %d: %v", telegramID, err)
	}

	log.Printf("Enrollment %s: %s -> %s %s by %s", decision, user.FullName, itemType, itemID, decidedBy)
	return nil
}

func (e *Engine) decisionMessage(itemType models.ItemType, itemID string, decision models.ApprovalStatus) (title, message string) {
	name := itemID
	if item, ok := e.catalog.GetItem(itemType, itemID); ok {
		name = item.Name
	}

	if decision == models.StatusRejected {
		return "تم رفض طلبك", fmt.Sprintf("تم رفض طلب التسجيل في: %s\nيرجى التواصل مع الإدارة.", name)
	}

	link := e.catalog.GroupLink(itemType, itemID)
	if link == "" {
		link = "سيتم إرسال رابط المجموعة قريباً"
	}
	return "🎉 تم الموافقة على تسجيلك!", fmt.Sprintf(
		"✅ تم قبول طلب تسجيلك في:\n📚 %s\n\n🔗 رابط الانضمام إلى المجموعة:\n%s\n\nشكراً لثقتك! 🙏", name, link,
	)
}

// CreateAssignment is the admin authoring action.
func (e *Engine) CreateAssignment(a *models.Assignment) error {
	if _, ok := e.catalog.GetItem(a.ItemType, a.ItemID); !ok {
		return ErrItemNotFound
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = e.now()
	}
	return e.store.CreateAssignment(a)
}

// SubmitAssignment records a student's answer. A prior ungraded or
// graded submission by the same user is overwritten: content replaced,
// status reset to submitted, grade and feedback cleared. Late
// submissions are accepted unless the engine was configured to reject
// them.
func (e *Engine) SubmitAssignment(telegramID int64, assignmentID, contentRef string) (*models.Submission, error) {
	assignment, err := e.store.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrItemNotFound
	}

	user, err := e.store.GetUser(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := e.now()
	if e.rejectLateSubmissions && now.After(assignment.Deadline) {
		return nil, ErrDeadlinePassed
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		TelegramID:   telegramID,
		FileID:       contentRef,
		SubmittedAt:  now,
		Status:       models.SubmissionSubmitted,
	}
	if err := e.store.UpsertSubmission(submission); err != nil {
		return nil, err
	}

	log.Printf("Submission received: %s -> %s", user.FullName, assignmentID)
	return submission, nil
}

// GradeSubmission records a grade and feedback, marks the submission
// graded, and notifies the student with grade, percentage and pass/fail
// (derived against the assignment's pass grade, never stored).
func (e *Engine) GradeSubmission(assignmentID string, telegramID int64, grade int, feedback, gradedBy string) error {
	assignment, err := e.store.GetAssignment(assignmentID)
	if err != nil {
		return err
	}
	if assignment == nil {
		return ErrItemNotFound
	}

	if grade < 0 || grade > assignment.MaxGrade {
		return ErrInvalidGrade
	}

	submission, err := e.store.GetSubmission(assignmentID, telegramID)
	if err != nil {
		return err
	}
	if submission == nil {
		return ErrSubmissionNotFound
	}

	gradedAt := e.now()
	ok, err := e.store.GradeSubmission(assignmentID, telegramID, grade, feedback, gradedBy, gradedAt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSubmissionNotFound
	}

	percentage := float64(grade) / float64(assignment.MaxGrade) * 100
	passed := grade >= assignment.PassGrade

	verdict := "❌ للأسف لم تنجح. حاول مرة أخرى!"
	if passed {
		verdict = "✅ مبروك! أنت ناجح 🎉"
	}
	text := fmt.Sprintf(
		"🎓 تم تصحيح واجبك!\n\n📝 الواجب: %s\n📊 الدرجة: %d/%d\n📈 النسبة: %.1f%%\n\n%s",
		assignment.Title, grade, assignment.MaxGrade, percentage, verdict,
	)
	if feedback != "" {
		text += fmt.Sprintf("\n\n💬 ملاحظات المدرس:\n%s", feedback)
	}

	notification := &models.Notification{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		Title:      "تم تصحيح واجبك",
		Message:    fmt.Sprintf("حصلت على %d/%d في %s", grade, assignment.MaxGrade, assignment.Title),
		Category:   models.CategoryGrade,
		RelatedID:  assignmentID,
		CreatedAt:  gradedAt,
	}
	if err := e.store.SaveNotification(notification); err != nil {
		log.Printf("Failed to persist grade notification: %v", err)
	}

	if err := e.notifier.Notify(telegramID, text); err != nil {
		log.Printf("Failed to send grade notification to %d: %v", telegramID, err)
	}

	log.Printf("Assignment graded: %s - user %d - grade %d", assignment.Title, telegramID, grade)
	return nil
}

// Broadcast sends an admin notification to every registered user, or to
// a single user when telegramID is non-zero. One audit record is
// persisted per successful delivery; per-recipient failures are logged
// and skipped.
func (e *Engine) Broadcast(title, message string, telegramID int64) (int, error) {
	var recipients []models.User
	if telegramID != 0 {
		user, err := e.store.GetUser(telegramID)
		if err != nil {
			return 0, err
		}
		if user == nil {
			return 0, ErrUserNotFound
		}
		recipients = []models.User{*user}
	} else {
		users, err := e.store.ListUsers()
		if err != nil {
			return 0, err
		}
		recipients = users
	}

	text := fmt.Sprintf("🔔 %s\n\n%s", title, message)
	sent := 0
	for _, user := range recipients {
		if err := e.notifier.Notify(user.TelegramID, text); err != nil {
			log.Printf("Failed to send broadcast to %d: %v", user.TelegramID, err)
			continue
		}
		notification := &models.Notification{
			ID:         uuid.NewString(),
			TelegramID: user.TelegramID,
			Title:      title,
			Message:    message,
			Category:   models.CategoryAdmin,
			CreatedAt:  e.now(),
		}
		if err := e.store.SaveNotification(notification); err != nil {
			log.Printf("Failed to persist broadcast notification: %v", err)
		}
		sent++
	}
	return sent, nil
}
