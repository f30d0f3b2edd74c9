package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
)

// Notifier is the slice of the notification dispatcher the moderation
// engine needs for warning fan-out
type Notifier interface {
	Notify(ctx context.Context, recipientID uint, data models.NotificationData) (*models.Notification, error)
}

// ModerationService handles report filing and the resolution state machine.
// Role checks belong to the HTTP layer; the engine trusts that its caller
// already verified the moderator's authority.
type ModerationService struct {
	reports  repositories.ReportRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	events   repositories.EventRepository
	users    repositories.UserRepository
	notifier Notifier
}

// NewModerationService creates a ModerationService
func NewModerationService(
	reports repositories.ReportRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	events repositories.EventRepository,
	users repositories.UserRepository,
	notifier Notifier,
) *ModerationService {
	return &ModerationService{
		reports:  reports,
		posts:    posts,
		comments: comments,
		events:   events,
		users:    users,
		notifier: notifier,
	}
}

// FileReport records a new report against existing content. The same
// reporter can never file twice against the same content, regardless of how
// the earlier report ended.
func (s *ModerationService) FileReport(ctx context.Context, reporterID uint, req models.CreateReportRequest) (*models.Report, error) {
	if !models.ValidContentType(req.ContentType) {
		return nil, ErrInvalidTarget
	}
	if _, err := s.lookupTarget(ctx, req.ContentType, req.ContentID); err != nil {
		if isMissingTarget(err) {
			return nil, ErrInvalidTarget
		}
		return nil, err
	}

	report := &models.Report{
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
		Priority:    models.PriorityMedium,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns a page of reports, newest first
func (s *ModerationService) ListReports(ctx context.Context, filter models.ReportFilter, page, limit int) ([]models.Report, models.Pagination, error) {
	page, limit = models.NormalizePageLimit(page, limit)
	skip := int64((page - 1) * limit)

	reports, total, err := s.reports.ListReports(ctx, filter, skip, int64(limit))
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return reports, models.NewPagination(page, limit, total), nil
}

// GetReportDetail returns the report together with its target so a
// moderator can inspect it without a second round trip. A target that was
// already deleted yields a nil content, not an error.
func (s *ModerationService) GetReportDetail(ctx context.Context, reportID string) (*models.ReportDetail, error) {
	report, err := s.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	detail := &models.ReportDetail{Report: report}
	if content, err := s.lookupTarget(ctx, report.ContentType, report.ContentID); err == nil {
		detail.Content = content
	} else if !isMissingTarget(err) {
		return nil, err
	}
	return detail, nil
}

// MarkReviewing moves a pending report into review. Already-reviewing is a
// no-op; terminal reports cannot move.
func (s *ModerationService) MarkReviewing(ctx context.Context, reportID string) (*models.Report, error) {
	report, err := s.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.IsTerminal() {
		return nil, ErrAlreadyResolved
	}
	if report.Status == models.ReportStatusReviewing {
		return report, nil
	}

	if err := s.reports.UpdateStatus(ctx, reportID, models.ReportStatusReviewing); err != nil {
		if errors.Is(err, repositories.ErrTerminalStatus) {
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}
	report.Status = models.ReportStatusReviewing
	return report, nil
}

// Resolve transitions the report to resolved and applies the action against
// its target. The side effect runs first; the report is only stamped
// resolved once the action applied, so a crash in between never leaves a
// resolved report without its effect. If stamping fails after the action
// applied, ErrPartialFailure tells the caller to re-mark without
// re-applying.
func (s *ModerationService) Resolve(ctx context.Context, reportID string, moderatorID uint, action, notes string) (*models.Report, error) {
	if !models.ValidModerationAction(action) {
		return nil, ErrInvalidAction
	}

	report, err := s.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.IsTerminal() {
		return nil, ErrAlreadyResolved
	}

	if err := s.applyAction(ctx, report, action, moderatorID); err != nil {
		return nil, fmt.Errorf("apply action %s: %w", action, err)
	}

	resolution := models.Resolution{
		Action:     action,
		Notes:      notes,
		ResolvedBy: moderatorID,
		ResolvedAt: time.Now(),
	}
	if err := s.reports.SetResolution(ctx, reportID, models.ReportStatusResolved, resolution); err != nil {
		// Another moderator closed the report between our read and write;
		// the guarded update left their terminal state in place
		if errors.Is(err, repositories.ErrTerminalStatus) {
			return nil, ErrAlreadyResolved
		}
		return nil, fmt.Errorf("%w: %v", ErrPartialFailure, err)
	}

	report.Status = models.ReportStatusResolved
	report.Resolution = &resolution
	return report, nil
}

// Dismiss transitions the report to dismissed with no content side effect
func (s *ModerationService) Dismiss(ctx context.Context, reportID string, moderatorID uint, notes string) (*models.Report, error) {
	report, err := s.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.IsTerminal() {
		return nil, ErrAlreadyResolved
	}

	resolution := models.Resolution{
		Action:     models.ActionNone,
		Notes:      notes,
		ResolvedBy: moderatorID,
		ResolvedAt: time.Now(),
	}
	if err := s.reports.SetResolution(ctx, reportID, models.ReportStatusDismissed, resolution); err != nil {
		if errors.Is(err, repositories.ErrTerminalStatus) {
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}

	report.Status = models.ReportStatusDismissed
	report.Resolution = &resolution
	return report, nil
}

// Stats aggregates report counts for the moderation dashboard
func (s *ModerationService) Stats(ctx context.Context) (*models.ModerationStats, error) {
	stats := &models.ModerationStats{}

	var err error
	if stats.Totals.Pending, err = s.reports.CountByStatus(ctx, models.ReportStatusPending); err != nil {
		return nil, err
	}
	if stats.Totals.Resolved, err = s.reports.CountByStatus(ctx, models.ReportStatusResolved); err != nil {
		return nil, err
	}
	if stats.Totals.Dismissed, err = s.reports.CountByStatus(ctx, models.ReportStatusDismissed); err != nil {
		return nil, err
	}
	if stats.ByReason, err = s.reports.CountGroupedBy(ctx, "reason"); err != nil {
		return nil, err
	}
	if stats.ByContentType, err = s.reports.CountGroupedBy(ctx, "content_type"); err != nil {
		return nil, err
	}
	return stats, nil
}

// applyAction mutates the report's target. A target that no longer exists
// is a silent no-op: the report must still reach a terminal status rather
// than stay pending forever.
func (s *ModerationService) applyAction(ctx context.Context, report *models.Report, action string, moderatorID uint) error {
	switch action {
	case models.ActionNone:
		return nil

	case models.ActionContentRemoved:
		var err error
		switch report.ContentType {
		case models.ContentTypePost:
			err = s.posts.Moderate(ctx, report.ContentID, models.PostStatusRejected, moderatorID)
		case models.ContentTypeComment:
			err = s.comments.Moderate(ctx, report.ContentID, models.CommentStatusHidden, moderatorID)
		}
		if isMissingTarget(err) {
			return nil
		}
		return err

	case models.ActionUserSuspended:
		if report.ContentType != models.ContentTypeUser {
			return nil
		}
		userID, err := parseUserID(report.ContentID)
		if err != nil {
			return nil
		}
		if err := s.users.SetActive(userID, false); err != nil && !isMissingTarget(err) {
			return err
		}
		return nil

	case models.ActionUserBanned:
		if report.ContentType != models.ContentTypeUser {
			return nil
		}
		userID, err := parseUserID(report.ContentID)
		if err != nil {
			return nil
		}
		if err := s.users.Ban(userID); err != nil && !isMissingTarget(err) {
			return err
		}
		return nil

	case models.ActionWarning:
		return s.warnAuthor(ctx, report)
	}
	return ErrInvalidAction
}

// warnAuthor notifies the target content's author (or the reported user)
// that their content was flagged
func (s *ModerationService) warnAuthor(ctx context.Context, report *models.Report) error {
	authorID, ok := s.targetAuthor(ctx, report)
	if !ok {
		return nil
	}

	_, err := s.notifier.Notify(ctx, authorID, models.NotificationData{
		Type:       models.NotificationModerationAction,
		Title:      "Content Warning",
		Message:    "Your content has been flagged for review. Please review our community guidelines.",
		EntityType: report.ContentType,
		EntityID:   report.ContentID,
		Priority:   models.NotifyPriorityHigh,
	})
	if isMissingTarget(err) {
		return nil
	}
	return err
}

// targetAuthor resolves who should receive a warning for the report's target
func (s *ModerationService) targetAuthor(ctx context.Context, report *models.Report) (uint, bool) {
	switch report.ContentType {
	case models.ContentTypePost:
		if post, err := s.posts.GetPostByID(ctx, report.ContentID); err == nil {
			return post.AuthorID, true
		}
	case models.ContentTypeComment:
		if comment, err := s.comments.GetCommentByID(ctx, report.ContentID); err == nil {
			return comment.AuthorID, true
		}
	case models.ContentTypeEvent:
		if event, err := s.events.GetEventByID(ctx, report.ContentID); err == nil {
			return event.OrganizerID, true
		}
	case models.ContentTypeUser:
		if userID, err := parseUserID(report.ContentID); err == nil {
			return userID, true
		}
	}
	return 0, false
}

// lookupTarget resolves the report's target entity
func (s *ModerationService) lookupTarget(ctx context.Context, contentType, contentID string) (interface{}, error) {
	switch contentType {
	case models.ContentTypePost:
		return s.posts.GetPostByID(ctx, contentID)
	case models.ContentTypeComment:
		return s.comments.GetCommentByID(ctx, contentID)
	case models.ContentTypeEvent:
		return s.events.GetEventByID(ctx, contentID)
	case models.ContentTypeUser:
		userID, err := parseUserID(contentID)
		if err != nil {
			return nil, repositories.ErrInvalidID
		}
		return s.users.GetUserByID(userID)
	}
	return nil, ErrInvalidTarget
}

func parseUserID(contentID string) (uint, error) {
	id, err := strconv.ParseUint(contentID, 10, 32)
	if err != nil {
		return 0, repositories.ErrInvalidID
	}
	return uint(id), nil
}

// isMissingTarget reports whether err means the target is gone or its
// reference malformed, both tolerated during action application
func isMissingTarget(err error) bool {
	return errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID)
}
