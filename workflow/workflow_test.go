package workflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"eduplatform/models"
)

type fakeStore struct {
	users         map[int64]models.User
	enrollments   map[string]models.Enrollment
	assignments   map[string]models.Assignment
	submissions   map[string]models.Submission
	notifications []models.Notification

	nextEnrollmentID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[int64]models.User),
		enrollments: make(map[string]models.Enrollment),
		assignments: make(map[string]models.Assignment),
		submissions: make(map[string]models.Submission),
	}
}

func enrollKey(telegramID int64, itemType models.ItemType, itemID string) string {
	return fmt.Sprintf("%d/%s/%s", telegramID, itemType, itemID)
}

func subKey(assignmentID string, telegramID int64) string {
	return fmt.Sprintf("%s/%d", assignmentID, telegramID)
}

func (f *fakeStore) GetUser(telegramID int64) (*models.User, error) {
	u, ok := f.users[telegramID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateUser(u *models.User) error {
	f.users[u.TelegramID] = *u
	return nil
}

func (f *fakeStore) TouchLastActive(telegramID int64, at time.Time) error {
	if u, ok := f.users[telegramID]; ok {
		u.LastActiveAt = at
		f.users[telegramID] = u
	}
	return nil
}

func (f *fakeStore) ListUsers() ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) GetEnrollment(telegramID int64, itemType models.ItemType, itemID string) (*models.Enrollment, error) {
	e, ok := f.enrollments[enrollKey(telegramID, itemType, itemID)]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeStore) CreateEnrollment(e *models.Enrollment) error {
	f.nextEnrollmentID++
	e.EnrollmentID = f.nextEnrollmentID
	f.enrollments[enrollKey(e.TelegramID, e.ItemType, e.ItemID)] = *e
	return nil
}

func (f *fakeStore) ReopenEnrollment(e *models.Enrollment) (bool, error) {
	key := enrollKey(e.TelegramID, e.ItemType, e.ItemID)
	existing, ok := f.enrollments[key]
	if !ok || existing.Status != models.StatusRejected {
		return false, nil
	}
	e.EnrollmentID = existing.EnrollmentID
	f.enrollments[key] = *e
	return true, nil
}

func (f *fakeStore) DecideEnrollment(telegramID int64, itemType models.ItemType, itemID string, status models.ApprovalStatus, decidedBy string, decidedAt time.Time) (bool, error) {
	key := enrollKey(telegramID, itemType, itemID)
	e, ok := f.enrollments[key]
	if !ok || e.Status != models.StatusPending {
		return false, nil
	}
	e.Status = status
	e.ApprovedBy = &decidedBy
	e.ApprovedAt = &decidedAt
	f.enrollments[key] = e
	return true, nil
}

func (f *fakeStore) ListPendingEnrollments() ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.Status == models.StatusPending {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAssignment(assignmentID string) (*models.Assignment, error) {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeStore) CreateAssignment(a *models.Assignment) error {
	f.assignments[a.AssignmentID] = *a
	return nil
}

func (f *fakeStore) ListAssignments() ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) GetSubmission(assignmentID string, telegramID int64) (*models.Submission, error) {
	s, ok := f.submissions[subKey(assignmentID, telegramID)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) ListSubmissions(assignmentID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range f.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertSubmission(s *models.Submission) error {
	f.submissions[subKey(s.AssignmentID, s.TelegramID)] = *s
	return nil
}

func (f *fakeStore) GradeSubmission(assignmentID string, telegramID int64, grade int, feedback, gradedBy string, gradedAt time.Time) (bool, error) {
	key := subKey(assignmentID, telegramID)
	s, ok := f.submissions[key]
	if !ok {
		return false, nil
	}
	s.Status = models.SubmissionGraded
	s.Grade = &grade
	s.Feedback = &feedback
	s.GradedBy = &gradedBy
	s.GradedAt = &gradedAt
	f.submissions[key] = s
	return true, nil
}

func (f *fakeStore) SaveNotification(n *models.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeStore) ListNotifications(limit int) ([]models.Notification, error) {
	if limit > len(f.notifications) {
		limit = len(f.notifications)
	}
	return f.notifications[:limit], nil
}

type sentMessage struct {
	chatID int64
	text   string
	fileID string
}

type fakeNotifier struct {
	sent    []sentMessage
	failFor map[int64]bool
}

func (f *fakeNotifier) Notify(chatID int64, text string) error {
	if f.failFor[chatID] {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeNotifier) NotifyPhoto(chatID int64, fileID, caption string) error {
	if f.failFor[chatID] {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: caption, fileID: fileID})
	return nil
}

type fakeCatalog struct {
	items map[string]models.CatalogItem
	links map[string]string
}

func (f *fakeCatalog) GetItem(itemType models.ItemType, itemID string) (models.CatalogItem, bool) {
	item, ok := f.items[string(itemType)+"/"+itemID]
	return item, ok
}

func (f *fakeCatalog) GroupLink(itemType models.ItemType, itemID string) string {
	return f.links[string(itemType)+"/"+itemID]
}

const adminID int64 = 999

var fixedTime = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(rejectLate bool) (*Engine, *fakeStore, *fakeNotifier, *fakeCatalog) {
	st := newFakeStore()
	cat := &fakeCatalog{
		items: map[string]models.CatalogItem{
			"course/c1":   {ID: "c1", Name: "Python Basics", Price: 50000},
			"material/m1": {ID: "m1", Name: "Calculus", Price: 20000, Year: 2, Semester: 1},
		},
		links: map[string]string{
			"course/c1": "https://t.me/joinchat/python",
		},
	}
	notifier := &fakeNotifier{failFor: make(map[int64]bool)}
	engine := New(st, cat, notifier, adminID, rejectLate)
	engine.now = func() time.Time { return fixedTime }
	return engine, st, notifier, cat
}

func registerAli(t *testing.T, e *Engine) {
	t.Helper()
	if _, err := e.RegisterUser(100, "Ali Hassan Omar", "+963999999999", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
}

func TestRegisterUser(t *testing.T) {
	e, st, _, _ := newTestEngine(false)

	user, err := e.RegisterUser(100, "Ali Hassan Omar", "+963999999999", "Ali@Example.com")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != "ali@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if _, err := e.RegisterUser(100, "Ali Again", "+963111111111", "other@example.com"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if _, err := e.RegisterUser(200, "Sara Noor Khalil", "+963222222222", "ALI@example.com"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if len(st.users) != 1 {
		t.Errorf("expected 1 user, got %d", len(st.users))
	}
}

func TestInitiateEnrollment(t *testing.T) {
	e, st, notifier, _ := newTestEngine(false)
	registerAli(t, e)

	enrollment, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "proof123")
	if err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}
	if enrollment.Status != models.StatusPending {
		t.Errorf("expected pending, got %s", enrollment.Status)
	}

	stored, _ := st.GetEnrollment(100, models.ItemCourse, "c1")
	if stored == nil || stored.Status != models.StatusPending {
		t.Fatal("enrollment not persisted as pending")
	}
	if stored.PaymentProofFileID != "proof123" {
		t.Errorf("proof not stored: %q", stored.PaymentProofFileID)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 admin notification, got %d", len(notifier.sent))
	}
	if notifier.sent[0].chatID != adminID || notifier.sent[0].fileID != "proof123" {
		t.Errorf("admin notification wrong: %+v", notifier.sent[0])
	}
}

func TestInitiateEnrollmentDuplicate(t *testing.T) {
	e, _, _, _ := newTestEngine(false)
	registerAli(t, e)

	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "proof123"); err != nil {
		t.Fatalf("first InitiateEnrollment: %v", err)
	}
	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "proof456"); !errors.Is(err, ErrAlreadyPending) {
		t.Errorf("expected ErrAlreadyPending, got %v", err)
	}

	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusApproved, "admin"); err != nil {
		t.Fatalf("DecideEnrollment: %v", err)
	}
	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "proof789"); !errors.Is(err, ErrAlreadyApproved) {
		t.Errorf("expected ErrAlreadyApproved, got %v", err)
	}
}

func TestInitiateEnrollmentReopensRejected(t *testing.T) {
	e, st, _, _ := newTestEngine(false)
	registerAli(t, e)

	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "proof123"); err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}
	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusRejected, "admin"); err != nil {
		t.Fatalf("DecideEnrollment: %v", err)
	}

	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "haram", 50000, "proof456"); err != nil {
		t.Fatalf("re-initiate after rejection: %v", err)
	}
	stored, _ := st.GetEnrollment(100, models.ItemCourse, "c1")
	if stored.Status != models.StatusPending {
		t.Errorf("expected pending after reopen, got %s", stored.Status)
	}
	if stored.PaymentProofFileID != "proof456" {
		t.Errorf("new proof not stored: %q", stored.PaymentProofFileID)
	}
}

func TestInitiateEnrollmentValidation(t *testing.T) {
	e, _, _, _ := newTestEngine(false)
	registerAli(t, e)

	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "nope", "sham_cash", 50000, "p"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if _, err := e.InitiateEnrollment(555, models.ItemCourse, "c1", "sham_cash", 50000, "p"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestInitiateEnrollmentMaterialCarriesYearSemester(t *testing.T) {
	e, st, _, _ := newTestEngine(false)
	registerAli(t, e)

	if _, err := e.InitiateEnrollment(100, models.ItemMaterial, "m1", "sham_cash", 20000, "p"); err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}
	stored, _ := st.GetEnrollment(100, models.ItemMaterial, "m1")
	if stored.Year == nil || *stored.Year != 2 || stored.Semester == nil || *stored.Semester != 1 {
		t.Errorf("year/semester not carried from catalog: %+v", stored)
	}
}

func TestDecideEnrollmentApprove(t *testing.T) {
	e, st, notifier, _ := newTestEngine(false)
	registerAli(t, e)
	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "proof123"); err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}
	notifier.sent = nil

	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusApproved, "admin"); err != nil {
		t.Fatalf("DecideEnrollment: %v", err)
	}

	stored, _ := st.GetEnrollment(100, models.ItemCourse, "c1")
	if stored.Status != models.StatusApproved {
		t.Errorf("expected approved, got %s", stored.Status)
	}
	if stored.ApprovedBy == nil || *stored.ApprovedBy != "admin" {
		t.Error("approved_by not recorded")
	}
	if stored.ApprovedAt == nil || !stored.ApprovedAt.Equal(fixedTime) {
		t.Error("approved_at not recorded")
	}

	if len(st.notifications) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(st.notifications))
	}
	n := st.notifications[0]
	if n.Category != models.CategoryApproval || n.TelegramID != 100 || n.RelatedID != "c1" {
		t.Errorf("audit record wrong: %+v", n)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 user notification, got %d", len(notifier.sent))
	}
	if !strings.Contains(notifier.sent[0].text, "https://t.me/joinchat/python") {
		t.Errorf("approval message missing group link: %q", notifier.sent[0].text)
	}
}

func TestDecideEnrollmentApproveWithoutLink(t *testing.T) {
	e, _, notifier, cat := newTestEngine(false)
	delete(cat.links, "course/c1")
	registerAli(t, e)
	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "p"); err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}
	notifier.sent = nil

	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusApproved, "admin"); err != nil {
		t.Fatalf("DecideEnrollment: %v", err)
	}
	if !strings.Contains(notifier.sent[0].text, "سيتم إرسال رابط المجموعة قريباً") {
		t.Errorf("expected placeholder for missing link, got %q", notifier.sent[0].text)
	}
}

func TestDecideEnrollmentAlreadyDecided(t *testing.T) {
	e, st, _, _ := newTestEngine(false)
	registerAli(t, e)
	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "p"); err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}
	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusApproved, "admin"); err != nil {
		t.Fatalf("first DecideEnrollment: %v", err)
	}
	auditCount := len(st.notifications)

	err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusRejected, "admin")
	if !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
	stored, _ := st.GetEnrollment(100, models.ItemCourse, "c1")
	if stored.Status != models.StatusApproved {
		t.Errorf("second decision mutated the record: %s", stored.Status)
	}
	if len(st.notifications) != auditCount {
		t.Error("second decision produced an audit record")
	}
}

func TestDecideEnrollmentValidation(t *testing.T) {
	e, _, _, _ := newTestEngine(false)
	registerAli(t, e)

	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusPending, "admin"); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("expected ErrInvalidDecision, got %v", err)
	}
	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusApproved, "admin"); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound for missing record, got %v", err)
	}
	if err := e.DecideEnrollment(555, models.ItemCourse, "c1", models.StatusApproved, "admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDecideEnrollmentDeliveryFailureDoesNotRollBack(t *testing.T) {
	e, st, notifier, _ := newTestEngine(false)
	registerAli(t, e)
	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "p"); err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}
	notifier.failFor[100] = true

	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusApproved, "admin"); err != nil {
		t.Fatalf("DecideEnrollment should tolerate delivery failure: %v", err)
	}
	stored, _ := st.GetEnrollment(100, models.ItemCourse, "c1")
	if stored.Status != models.StatusApproved {
		t.Errorf("decision rolled back on delivery failure: %s", stored.Status)
	}
	if len(st.notifications) != 1 {
		t.Error("audit record missing after delivery failure")
	}
}

func createTestAssignment(t *testing.T, e *Engine, deadline time.Time) {
	t.Helper()
	err := e.CreateAssignment(&models.Assignment{
		AssignmentID: "a1",
		ItemType:     models.ItemCourse,
		ItemID:       "c1",
		Title:        "Homework 1",
		Deadline:     deadline,
		MaxGrade:     100,
		PassGrade:    60,
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
}

func TestCreateAssignmentUnknownItem(t *testing.T) {
	e, _, _, _ := newTestEngine(false)
	err := e.CreateAssignment(&models.Assignment{
		AssignmentID: "a1",
		ItemType:     models.ItemCourse,
		ItemID:       "nope",
		Title:        "Homework 1",
		MaxGrade:     100,
	})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSubmitAndResubmit(t *testing.T) {
	e, st, _, _ := newTestEngine(false)
	registerAli(t, e)
	createTestAssignment(t, e, fixedTime.Add(24*time.Hour))

	submission, err := e.SubmitAssignment(100, "a1", "sub1")
	if err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}
	if submission.Status != models.SubmissionSubmitted {
		t.Errorf("expected submitted, got %s", submission.Status)
	}

	if err := e.GradeSubmission("a1", 100, 40, "needs work", "admin"); err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}

	// Resubmission replaces content and clears the grade.
	if _, err := e.SubmitAssignment(100, "a1", "sub2"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	stored, _ := st.GetSubmission("a1", 100)
	if stored.FileID != "sub2" {
		t.Errorf("content not replaced: %q", stored.FileID)
	}
	if stored.Status != models.SubmissionSubmitted {
		t.Errorf("status not reset: %s", stored.Status)
	}
	if stored.Grade != nil || stored.Feedback != nil {
		t.Error("grade/feedback not cleared on resubmission")
	}
}

func TestSubmitLate(t *testing.T) {
	e, st, _, _ := newTestEngine(false)
	registerAli(t, e)
	createTestAssignment(t, e, fixedTime.Add(-time.Hour))

	// Late submissions are accepted by default.
	if _, err := e.SubmitAssignment(100, "a1", "sub1"); err != nil {
		t.Fatalf("late submission should be accepted: %v", err)
	}
	stored, _ := st.GetSubmission("a1", 100)
	if stored == nil {
		t.Fatal("late submission not persisted")
	}
}

func TestSubmitLateRejectedWhenConfigured(t *testing.T) {
	e, st, _, _ := newTestEngine(true)
	registerAli(t, e)
	createTestAssignment(t, e, fixedTime.Add(-time.Hour))

	if _, err := e.SubmitAssignment(100, "a1", "sub1"); !errors.Is(err, ErrDeadlinePassed) {
		t.Errorf("expected ErrDeadlinePassed, got %v", err)
	}
	if stored, _ := st.GetSubmission("a1", 100); stored != nil {
		t.Error("rejected late submission was persisted")
	}
}

func TestSubmitValidation(t *testing.T) {
	e, _, _, _ := newTestEngine(false)
	registerAli(t, e)
	createTestAssignment(t, e, fixedTime.Add(24*time.Hour))

	if _, err := e.SubmitAssignment(100, "nope", "sub1"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if _, err := e.SubmitAssignment(555, "a1", "sub1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGradeSubmission(t *testing.T) {
	e, st, notifier, _ := newTestEngine(false)
	registerAli(t, e)
	createTestAssignment(t, e, fixedTime.Add(24*time.Hour))
	if _, err := e.SubmitAssignment(100, "a1", "sub1"); err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}
	notifier.sent = nil

	if err := e.GradeSubmission("a1", 100, 85, "good work", "admin"); err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}

	stored, _ := st.GetSubmission("a1", 100)
	if stored.Status != models.SubmissionGraded {
		t.Errorf("expected graded, got %s", stored.Status)
	}
	if stored.Grade == nil || *stored.Grade != 85 {
		t.Error("grade not recorded")
	}
	if stored.Feedback == nil || *stored.Feedback != "good work" {
		t.Error("feedback not recorded")
	}
	if stored.GradedBy == nil || *stored.GradedBy != "admin" {
		t.Error("graded_by not recorded")
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 grade notification, got %d", len(notifier.sent))
	}
	text := notifier.sent[0].text
	if !strings.Contains(text, "85/100") || !strings.Contains(text, "85.0%") {
		t.Errorf("grade message missing grade or percentage: %q", text)
	}
	if !strings.Contains(text, "ناجح") {
		t.Errorf("grade above pass mark should report a pass: %q", text)
	}

	if len(st.notifications) != 1 || st.notifications[0].Category != models.CategoryGrade {
		t.Error("grade audit record missing")
	}
}

func TestGradeBoundaries(t *testing.T) {
	e, _, _, _ := newTestEngine(false)
	registerAli(t, e)
	createTestAssignment(t, e, fixedTime.Add(24*time.Hour))
	if _, err := e.SubmitAssignment(100, "a1", "sub1"); err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}

	if err := e.GradeSubmission("a1", 100, 101, "", "admin"); !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("expected ErrInvalidGrade above max, got %v", err)
	}
	if err := e.GradeSubmission("a1", 100, -1, "", "admin"); !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("expected ErrInvalidGrade below zero, got %v", err)
	}
	if err := e.GradeSubmission("a1", 100, 100, "", "admin"); err != nil {
		t.Errorf("max grade should be accepted: %v", err)
	}
	if err := e.GradeSubmission("a1", 100, 0, "", "admin"); err != nil {
		t.Errorf("zero grade should be accepted: %v", err)
	}
}

func TestGradeWithoutSubmission(t *testing.T) {
	e, _, _, _ := newTestEngine(false)
	registerAli(t, e)
	createTestAssignment(t, e, fixedTime.Add(24*time.Hour))

	if err := e.GradeSubmission("a1", 100, 85, "", "admin"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
	if err := e.GradeSubmission("nope", 100, 85, "", "admin"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestBroadcast(t *testing.T) {
	e, st, notifier, _ := newTestEngine(false)
	registerAli(t, e)
	if _, err := e.RegisterUser(200, "Sara Noor Khalil", "+963222222222", "sara@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	notifier.failFor[200] = true
	notifier.sent = nil

	sent, err := e.Broadcast("إعلان", "محتوى الإعلان", 0)
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected 1 successful delivery, got %d", sent)
	}
	// One audit record per successful delivery only.
	if len(st.notifications) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(st.notifications))
	}
	if st.notifications[0].TelegramID != 100 || st.notifications[0].Category != models.CategoryAdmin {
		t.Errorf("audit record wrong: %+v", st.notifications[0])
	}
}

func TestBroadcastSingleUser(t *testing.T) {
	e, _, notifier, _ := newTestEngine(false)
	registerAli(t, e)
	if _, err := e.RegisterUser(200, "Sara Noor Khalil", "+963222222222", "sara@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	notifier.sent = nil

	sent, err := e.Broadcast("تنبيه", "رسالة خاصة", 100)
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if sent != 1 || len(notifier.sent) != 1 || notifier.sent[0].chatID != 100 {
		t.Errorf("targeted broadcast went wrong: sent=%d deliveries=%+v", sent, notifier.sent)
	}

	if _, err := e.Broadcast("تنبيه", "رسالة", 555); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// Full enrollment lifecycle: register, pay, approve, receive the link.
func TestEnrollmentScenario(t *testing.T) {
	e, st, notifier, _ := newTestEngine(false)

	if _, err := e.RegisterUser(100, "Ali Hassan Omar", "+963999999999", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := e.InitiateEnrollment(100, models.ItemCourse, "c1", "sham_cash", 50000, "proof123"); err != nil {
		t.Fatalf("InitiateEnrollment: %v", err)
	}

	pending, _ := st.ListPendingEnrollments()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending enrollment, got %d", len(pending))
	}

	if err := e.DecideEnrollment(100, models.ItemCourse, "c1", models.StatusApproved, "admin"); err != nil {
		t.Fatalf("DecideEnrollment: %v", err)
	}

	stored, _ := st.GetEnrollment(100, models.ItemCourse, "c1")
	if stored.Status != models.StatusApproved {
		t.Fatalf("expected approved, got %s", stored.Status)
	}

	var studentMessages []sentMessage
	for _, msg := range notifier.sent {
		if msg.chatID == 100 {
			studentMessages = append(studentMessages, msg)
		}
	}
	if len(studentMessages) != 1 || !strings.Contains(studentMessages[0].text, "https://t.me/joinchat/python") {
		t.Errorf("student did not receive the group link: %+v", studentMessages)
	}
}

// Full grading lifecycle: submit, grade, student sees pass verdict.
func TestGradingScenario(t *testing.T) {
	e, st, notifier, _ := newTestEngine(false)

	if _, err := e.RegisterUser(100, "Ali Hassan Omar", "+963999999999", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	createTestAssignment(t, e, fixedTime.Add(48*time.Hour))

	if _, err := e.SubmitAssignment(100, "a1", "sub1"); err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}
	if err := e.GradeSubmission("a1", 100, 85, "عمل ممتاز", "admin"); err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}

	stored, _ := st.GetSubmission("a1", 100)
	if stored.Status != models.SubmissionGraded || *stored.Grade != 85 {
		t.Fatalf("grade round-trip failed: %+v", stored)
	}

	last := notifier.sent[len(notifier.sent)-1]
	if last.chatID != 100 || !strings.Contains(last.text, "85/100") || !strings.Contains(last.text, "عمل ممتاز") {
		t.Errorf("grade notification incomplete: %q", last.text)
	}
}
