package app

import (
	"context"

	"github.com/macaraegjami/mobile-backend/internal/clock"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, f domain.Feedback) error
	ListFeedback(ctx context.Context, feedbackType domain.FeedbackType) ([]domain.Feedback, error)
}

type SuggestionRepository interface {
	CreateSuggestion(ctx context.Context, s domain.Suggestion) error
	ListSuggestions(ctx context.Context) ([]domain.Suggestion, error)
}

type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, a domain.Attendance) error
	FindOpenAttendance(ctx context.Context, userID string) (*domain.Attendance, error)
	GetAttendance(ctx context.Context, id string) (domain.Attendance, error)
	UpdateAttendance(ctx context.Context, a domain.Attendance) error
	ListAttendance(ctx context.Context, limit int) ([]domain.Attendance, error)
}

// EngagementService bundles the visitor-facing CRUD that surrounds the lending
// core: feedback, purchase suggestions, and attendance scans.
type EngagementService struct {
	feedback    FeedbackRepository
	suggestions SuggestionRepository
	attendance  AttendanceRepository
	clock       clock.Clock
	events      EventSink
}

func NewEngagementService(f FeedbackRepository, sg SuggestionRepository, a AttendanceRepository, clk clock.Clock, events EventSink) *EngagementService {
	if events == nil {
		events = NopSink{}
	}
	return &EngagementService{feedback: f, suggestions: sg, attendance: a, clock: clk, events: events}
}

type CreateFeedbackInput struct {
	Name    string
	Rating  int
	Comment string
	Type    domain.FeedbackType
}

func (s *EngagementService) CreateFeedback(ctx context.Context, in CreateFeedbackInput) (domain.Feedback, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Feedback{}, domain.ErrInvalidRating
	}
	if in.Name == "" {
		in.Name = "Anonymous"
	}
	if in.Type == "" {
		in.Type = domain.FeedbackTypeLibrary
	}
	if in.Type != domain.FeedbackTypeLibrary && in.Type != domain.FeedbackTypeMuseum {
		return domain.Feedback{}, domain.ErrInvalidID
	}

	f := domain.Feedback{
		ID:        newID(),
		Name:      in.Name,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Type:      in.Type,
		CreatedAt: s.clock.Now(),
	}
	if err := s.feedback.CreateFeedback(ctx, f); err != nil {
		return domain.Feedback{}, err
	}
	return f, nil
}

func (s *EngagementService) ListFeedback(ctx context.Context, feedbackType domain.FeedbackType) ([]domain.Feedback, error) {
	return s.feedback.ListFeedback(ctx, feedbackType)
}

type CreateSuggestionInput struct {
	BookTitle string
	Author    string
	Edition   string
	Reason    string
}

func (s *EngagementService) CreateSuggestion(ctx context.Context, in CreateSuggestionInput) (domain.Suggestion, error) {
	if in.BookTitle == "" || in.Author == "" || in.Reason == "" {
		return domain.Suggestion{}, domain.ErrInvalidID
	}

	sg := domain.Suggestion{
		ID:        newID(),
		BookTitle: in.BookTitle,
		Author:    in.Author,
		Edition:   in.Edition,
		Reason:    in.Reason,
		CreatedAt: s.clock.Now(),
	}
	if err := s.suggestions.CreateSuggestion(ctx, sg); err != nil {
		return domain.Suggestion{}, err
	}
	return sg, nil
}

func (s *EngagementService) ListSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	return s.suggestions.ListSuggestions(ctx)
}

// CheckIn opens an attendance record for the user. A user with an open record
// gets that record back instead of a second one.
func (s *EngagementService) CheckIn(ctx context.Context, userID string) (domain.Attendance, error) {
	if userID == "" {
		return domain.Attendance{}, domain.ErrInvalidID
	}

	open, err := s.attendance.FindOpenAttendance(ctx, userID)
	if err != nil {
		return domain.Attendance{}, err
	}
	if open != nil {
		return *open, nil
	}

	a := domain.Attendance{
		ID:          newID(),
		UserID:      userID,
		Status:      domain.AttendanceCheckedIn,
		CheckInTime: s.clock.Now(),
	}
	if err := s.attendance.CreateAttendance(ctx, a); err != nil {
		return domain.Attendance{}, err
	}
	s.events.Record(userID, "attendance_checkin", "Checked in")
	return a, nil
}

// CheckOut closes an attendance record and stamps the visit duration. Only
// the record's owner or staff may close it.
func (s *EngagementService) CheckOut(ctx context.Context, recordID string, actor domain.Principal) (domain.Attendance, error) {
	if recordID == "" {
		return domain.Attendance{}, domain.ErrInvalidID
	}

	a, err := s.attendance.GetAttendance(ctx, recordID)
	if err != nil {
		return domain.Attendance{}, err
	}
	if !actor.CanActOn(a.UserID) {
		return domain.Attendance{}, domain.ErrNotAuthorized
	}
	if a.CheckOutTime != nil {
		return a, nil
	}

	now := s.clock.Now()
	a.CheckOutTime = &now
	a.Status = domain.AttendanceCheckedOut
	a.DurationMinutes = int(now.Sub(a.CheckInTime).Minutes())
	if err := s.attendance.UpdateAttendance(ctx, a); err != nil {
		return domain.Attendance{}, err
	}
	s.events.Record(a.UserID, "attendance_checkout", "Checked out")
	return a, nil
}

func (s *EngagementService) ListAttendance(ctx context.Context, limit int) ([]domain.Attendance, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.attendance.ListAttendance(ctx, limit)
}
