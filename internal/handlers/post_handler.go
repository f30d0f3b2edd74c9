package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/civic-connect/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// PostHandler handles community posts
type PostHandler struct {
	posts         repositories.PostRepository
	notifier      *services.NotificationService
	allowSelfVote bool
}

func NewPostHandler(posts repositories.PostRepository, notifier *services.NotificationService, allowSelfVote bool) *PostHandler {
	return &PostHandler{posts: posts, notifier: notifier, allowSelfVote: allowSelfVote}
}

// subscriberCategory maps a post category onto the category names users
// subscribe to in their preferences
var subscriberCategory = map[string]string{
	"news":         "news",
	"announcement": "announcements",
	"discussion":   "discussions",
	"alert":        "alerts",
	"event":        "events",
}

// CreatePost creates a post authored by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	req := new(models.CreatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	post := &models.Post{
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Category:   req.Category,
		Tags:       req.Tags,
		Status:     req.Status,
		Visibility: req.Visibility,
		AuthorID:   getUserIDFromContext(c),
	}

	if err := h.posts.CreatePost(c.Request().Context(), post); err != nil {
		return httpError(err)
	}

	if post.Status == models.PostStatusPublished {
		go h.fanOutNewPost(post)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// fanOutNewPost notifies category subscribers about a freshly published post
func (h *PostHandler) fanOutNewPost(post *models.Post) {
	category, ok := subscriberCategory[post.Category]
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	h.notifier.NotifySubscribers(ctx, category, models.NotificationData{
		Type:       models.NotificationNewPost,
		Title:      fmt.Sprintf("New %s: %s", post.Category, post.Title),
		Message:    post.Excerpted(),
		EntityType: models.ContentTypePost,
		EntityID:   post.ID.Hex(),
	})
}

// GetPosts lists posts with optional filters and pagination
func (h *PostHandler) GetPosts(c echo.Context) error {
	page, limit := parsePageLimit(c)

	filter := models.PostFilter{
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Tag:      c.QueryParam("tag"),
	}
	if author := c.QueryParam("author_id"); author != "" {
		if id, err := strconv.ParseUint(author, 10, 32); err == nil {
			filter.AuthorID = uint(id)
		}
	}

	// Non-moderators only see published posts
	if !isModerator(c) {
		filter.Status = models.PostStatusPublished
	}

	skip := int64((page - 1) * limit)
	posts, total, err := h.posts.ListPosts(c.Request().Context(), filter, skip, int64(limit))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       posts,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GetPost returns a single post and bumps its view counter
func (h *PostHandler) GetPost(c echo.Context) error {
	id := c.Param("id")

	post, err := h.posts.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	if post.Status != models.PostStatusPublished && !isModerator(c) && post.AuthorID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	}

	if err := h.posts.IncrementViewCount(c.Request().Context(), id); err != nil {
		c.Logger().Warnf("failed to bump view count for post %s: %v", id, err)
	} else {
		post.ViewCount++
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
}

// UpdatePost edits a post owned by the caller (or any post for moderators)
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id := c.Param("id")

	req := new(models.UpdatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	post, err := h.posts.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if post.AuthorID != getUserIDFromContext(c) && !isModerator(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
		set["excerpt"] = (&models.Post{Content: *req.Content}).Excerpted()
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Tags != nil {
		set["tags"] = req.Tags
	}
	if req.Status != nil {
		set["status"] = *req.Status
		if *req.Status == models.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			set["published_at"] = now
		}
	}
	if req.Visibility != nil {
		set["visibility"] = *req.Visibility
	}
	if len(set) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
	}

	if err := h.posts.UpdatePost(c.Request().Context(), id, set); err != nil {
		return httpError(err)
	}

	updated, err := h.posts.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
}

// DeletePost removes a post owned by the caller (or any post for moderators)
func (h *PostHandler) DeletePost(c echo.Context) error {
	id := c.Param("id")

	post, err := h.posts.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if post.AuthorID != getUserIDFromContext(c) && !isModerator(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.posts.DeletePost(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted"})
}

// VotePost casts, switches, or clears the caller's vote on a post
func (h *PostHandler) VotePost(c echo.Context) error {
	id := c.Param("id")
	voterID := getUserIDFromContext(c)

	req := new(models.VoteRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if !h.allowSelfVote {
		post, err := h.posts.GetPostByID(c.Request().Context(), id)
		if err != nil {
			return httpError(err)
		}
		if post.AuthorID == voterID {
			return httpError(services.ErrSelfVote)
		}
	}

	result, err := h.posts.CastVote(c.Request().Context(), id, voterID, req.Direction)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}

// GetTrendingPosts returns the highest ranked published posts
func (h *PostHandler) GetTrendingPosts(c echo.Context) error {
	limit := int64(10)
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	posts, err := h.posts.TrendingPosts(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": posts})
}

// parsePageLimit reads page/limit query params with sane bounds
func parsePageLimit(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return models.NormalizePageLimit(page, limit)
}
