package services

import (
	"context"
	"fmt"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/queue"
	"github.com/civic-connect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes for service tests.

type fakeReportRepo struct {
	reports           map[string]*models.Report
	failSetResolution bool

	// beforeWrite runs ahead of every status write, letting a test slip a
	// concurrent moderator's write between the service's read and its write
	beforeWrite func()
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*models.Report)}
}

func (f *fakeReportRepo) CreateReport(_ context.Context, report *models.Report) error {
	for _, existing := range f.reports {
		if existing.ReporterID == report.ReporterID &&
			existing.ContentType == report.ContentType &&
			existing.ContentID == report.ContentID {
			return repositories.ErrDuplicateReport
		}
	}
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	copied := *report
	f.reports[report.ID.Hex()] = &copied
	return nil
}

func (f *fakeReportRepo) GetReportByID(_ context.Context, id string) (*models.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *report
	return &copied, nil
}

func (f *fakeReportRepo) ListReports(_ context.Context, _ models.ReportFilter, _, _ int64) ([]models.Report, int64, error) {
	out := make([]models.Report, 0, len(f.reports))
	for _, r := range f.reports {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReportRepo) UpdateStatus(_ context.Context, id, status string) error {
	if f.beforeWrite != nil {
		f.beforeWrite()
	}
	report, ok := f.reports[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if report.IsTerminal() {
		return repositories.ErrTerminalStatus
	}
	report.Status = status
	return nil
}

func (f *fakeReportRepo) SetResolution(_ context.Context, id, status string, resolution models.Resolution) error {
	if f.beforeWrite != nil {
		f.beforeWrite()
	}
	if f.failSetResolution {
		return fmt.Errorf("write failed")
	}
	report, ok := f.reports[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if report.IsTerminal() {
		return repositories.ErrTerminalStatus
	}
	report.Status = status
	report.Resolution = &resolution
	return nil
}

func (f *fakeReportRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, r := range f.reports {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeReportRepo) CountGroupedBy(_ context.Context, field string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, r := range f.reports {
		switch field {
		case "reason":
			out[r.Reason]++
		case "content_type":
			out[r.ContentType]++
		}
	}
	return out, nil
}

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepo) add(post *models.Post) string {
	post.ID = primitive.NewObjectID()
	f.posts[post.ID.Hex()] = post
	return post.ID.Hex()
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	f.add(post)
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, _ models.PostFilter, _, _ int64) ([]models.Post, int64, error) {
	return nil, 0, nil
}

func (f *fakePostRepo) UpdatePost(_ context.Context, id string, _ bson.M) error {
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	return nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id string) error {
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) CastVote(_ context.Context, id string, voterID uint, direction string) (*models.VoteResult, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	post.Votes.Apply(voterID, direction)
	return &models.VoteResult{
		Score:     post.Votes.Score(),
		Upvotes:   len(post.Votes.Up),
		Downvotes: len(post.Votes.Down),
	}, nil
}

func (f *fakePostRepo) Moderate(_ context.Context, id, status string, moderatorID uint) error {
	post, ok := f.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	post.Status = status
	post.ModeratedBy = moderatorID
	post.ModeratedAt = &now
	return nil
}

func (f *fakePostRepo) IncrementViewCount(_ context.Context, _ string) error { return nil }

func (f *fakePostRepo) AdjustCommentCount(_ context.Context, _ string, _ int) error { return nil }

func (f *fakePostRepo) TrendingPosts(_ context.Context, _ int64) ([]models.Post, error) {
	return nil, nil
}

func (f *fakePostRepo) CountPublished(_ context.Context) (int64, error) {
	return int64(len(f.posts)), nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (f *fakeCommentRepo) add(comment *models.Comment) string {
	comment.ID = primitive.NewObjectID()
	f.comments[comment.ID.Hex()] = comment
	return comment.ID.Hex()
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	f.add(comment)
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepo) ListTopLevelByPost(_ context.Context, _ string, _, _ int64) ([]models.Comment, int64, error) {
	return nil, 0, nil
}

func (f *fakeCommentRepo) ListReplies(_ context.Context, _ primitive.ObjectID) ([]models.Comment, error) {
	return nil, nil
}

func (f *fakeCommentRepo) UpdateContent(_ context.Context, _ string, _ string) error { return nil }

func (f *fakeCommentRepo) SoftDelete(_ context.Context, _ string) error { return nil }

func (f *fakeCommentRepo) CastVote(_ context.Context, id string, voterID uint, direction string) (*models.VoteResult, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	comment.Votes.Apply(voterID, direction)
	return &models.VoteResult{
		Score:     comment.Votes.Score(),
		Upvotes:   len(comment.Votes.Up),
		Downvotes: len(comment.Votes.Down),
	}, nil
}

func (f *fakeCommentRepo) Moderate(_ context.Context, id, status string, moderatorID uint) error {
	comment, ok := f.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	comment.Status = status
	comment.ModeratedBy = moderatorID
	comment.ModeratedAt = &now
	return nil
}

func (f *fakeCommentRepo) CountActive(_ context.Context) (int64, error) {
	return int64(len(f.comments)), nil
}

type fakeEventRepo struct {
	events map[string]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*models.Event)}
}

func (f *fakeEventRepo) add(event *models.Event) string {
	event.ID = primitive.NewObjectID()
	f.events[event.ID.Hex()] = event
	return event.ID.Hex()
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, event *models.Event) error {
	f.add(event)
	return nil
}

func (f *fakeEventRepo) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) ListEvents(_ context.Context, _, _ string, _ bool, _, _ int64) ([]models.Event, int64, error) {
	return nil, 0, nil
}

func (f *fakeEventRepo) ListByAttendee(_ context.Context, _ uint, _, _ int64) ([]models.Event, int64, error) {
	return nil, 0, nil
}

func (f *fakeEventRepo) UpdateEvent(_ context.Context, _ string, _ bson.M) error { return nil }

func (f *fakeEventRepo) DeleteEvent(_ context.Context, id string) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Register(_ context.Context, _ string, _ uint) error { return nil }

func (f *fakeEventRepo) CancelRegistration(_ context.Context, _ string, _ uint) error { return nil }

func (f *fakeEventRepo) CountPublished(_ context.Context) (int64, error) {
	return int64(len(f.events)), nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (f *fakeUserRepo) add(user *models.User) {
	if user.ID == 0 {
		user.ID = uint(len(f.users) + 1)
	}
	f.users[user.ID] = user
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetActive(id uint, active bool) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.IsActive = active
	return nil
}

func (f *fakeUserRepo) Ban(id uint) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	user.IsActive = false
	user.BannedAt = &now
	return nil
}

func (f *fakeUserRepo) FindActiveSubscribers(category string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if !u.IsActive {
			continue
		}
		for _, c := range u.Categories {
			if c == category {
				out = append(out, *u)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListUsers(_, _ int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) CountUsers(_ bool) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ uint) error { return nil }

type fakeNotificationRepo struct {
	notifications map[uint]*models.Notification
	nextID        uint
	failCreate    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uint]*models.Notification), nextID: 1}
}

func (f *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	if f.failCreate {
		return fmt.Errorf("insert failed")
	}
	notification.ID = f.nextID
	notification.CreatedAt = time.Now()
	f.nextID++
	copied := *notification
	f.notifications[notification.ID] = &copied
	return nil
}

func (f *fakeNotificationRepo) GetForRecipient(notificationID, recipientID uint) (*models.Notification, error) {
	n, ok := f.notifications[notificationID]
	if !ok || n.RecipientID != recipientID {
		return nil, repositories.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) ListByRecipient(recipientID uint, _, _ int, unreadOnly bool) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var n int64
	for _, notification := range f.notifications {
		if notification.RecipientID == recipientID && !notification.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	n, ok := f.notifications[notificationID]
	if !ok || n.RecipientID != recipientID {
		return repositories.ErrNotFound
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(notificationID, recipientID uint) error {
	n, ok := f.notifications[notificationID]
	if !ok || n.RecipientID != recipientID {
		return repositories.ErrNotFound
	}
	delete(f.notifications, notificationID)
	return nil
}

func (f *fakeNotificationRepo) UpdateDeliveryMethods(notificationID uint, methods []models.DeliveryMethod) error {
	n, ok := f.notifications[notificationID]
	if !ok {
		return repositories.ErrNotFound
	}
	n.DeliveryMethods = methods
	return nil
}

func (f *fakeNotificationRepo) DeleteExpired(now time.Time) (int64, error) {
	var removed int64
	for id, n := range f.notifications {
		if n.ExpiresAt != nil && n.ExpiresAt.Before(now) {
			delete(f.notifications, id)
			removed++
		}
	}
	return removed, nil
}

type fakePusher struct {
	fail   bool
	pushed []uint
}

func (f *fakePusher) PushToUser(_ context.Context, user *models.User, _ string, _ interface{}) error {
	if f.fail {
		return fmt.Errorf("push transport down")
	}
	f.pushed = append(f.pushed, user.ID)
	return nil
}

type fakePublisher struct {
	fail bool
	jobs []queue.DeliveryJob
}

func (f *fakePublisher) PublishDelivery(_ context.Context, job queue.DeliveryJob) error {
	if f.fail {
		return fmt.Errorf("broker unavailable")
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeNotifier struct {
	recipients []uint
	payloads   []models.NotificationData
}

func (f *fakeNotifier) Notify(_ context.Context, recipientID uint, data models.NotificationData) (*models.Notification, error) {
	f.recipients = append(f.recipients, recipientID)
	f.payloads = append(f.payloads, data)
	return &models.Notification{RecipientID: recipientID, Type: data.Type}, nil
}
