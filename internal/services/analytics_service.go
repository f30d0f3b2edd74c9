package services

import (
	"context"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
)

// DashboardSummary is the admin landing-page rollup
type DashboardSummary struct {
	Users struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
	} `json:"users"`
	Content struct {
		Posts    int64 `json:"posts"`
		Comments int64 `json:"comments"`
		Events   int64 `json:"events"`
	} `json:"content"`
	Moderation struct {
		PendingReports int64 `json:"pendingReports"`
	} `json:"moderation"`
}

// AnalyticsService provides read-only engagement rollups
type AnalyticsService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	events   repositories.EventRepository
	reports  repositories.ReportRepository
}

// NewAnalyticsService creates an AnalyticsService
func NewAnalyticsService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	events repositories.EventRepository,
	reports repositories.ReportRepository,
) *AnalyticsService {
	return &AnalyticsService{
		users:    users,
		posts:    posts,
		comments: comments,
		events:   events,
		reports:  reports,
	}
}

// Summary counts users, published content and pending moderation work
func (s *AnalyticsService) Summary(ctx context.Context) (*DashboardSummary, error) {
	out := &DashboardSummary{}

	var err error
	if out.Users.Total, err = s.users.CountUsers(false); err != nil {
		return nil, err
	}
	if out.Users.Active, err = s.users.CountUsers(true); err != nil {
		return nil, err
	}
	if out.Content.Posts, err = s.posts.CountPublished(ctx); err != nil {
		return nil, err
	}
	if out.Content.Comments, err = s.comments.CountActive(ctx); err != nil {
		return nil, err
	}
	if out.Content.Events, err = s.events.CountPublished(ctx); err != nil {
		return nil, err
	}
	if out.Moderation.PendingReports, err = s.reports.CountByStatus(ctx, models.ReportStatusPending); err != nil {
		return nil, err
	}
	return out, nil
}
