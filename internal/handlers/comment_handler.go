package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/civic-connect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comments on posts
type CommentHandler struct {
	comments      repositories.CommentRepository
	posts         repositories.PostRepository
	notifier      *services.NotificationService
	allowSelfVote bool
}

func NewCommentHandler(comments repositories.CommentRepository, posts repositories.PostRepository, notifier *services.NotificationService, allowSelfVote bool) *CommentHandler {
	return &CommentHandler{comments: comments, posts: posts, notifier: notifier, allowSelfVote: allowSelfVote}
}

// CreateComment adds a comment to a post. Replies to replies are collapsed
// onto the top-level parent so threads stay one level deep.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID := c.Param("id")
	authorID := getUserIDFromContext(c)

	req := new(models.CreateCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	post, err := h.posts.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	if post.Status != models.PostStatusPublished {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot comment on an unpublished post")
	}

	comment := &models.Comment{
		Content:  req.Content,
		AuthorID: authorID,
		PostID:   post.ID,
	}

	var parent *models.Comment
	if req.ParentCommentID != "" {
		parent, err = h.comments.GetCommentByID(c.Request().Context(), req.ParentCommentID)
		if err != nil {
			return httpError(err)
		}
		if parent.PostID != post.ID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to a different post")
		}
		parentID := parent.ID
		if parent.ParentCommentID != nil {
			parentID = *parent.ParentCommentID
		}
		comment.ParentCommentID = &parentID
	}

	if err := h.comments.CreateComment(c.Request().Context(), comment); err != nil {
		return httpError(err)
	}

	if err := h.posts.AdjustCommentCount(c.Request().Context(), postID, 1); err != nil {
		c.Logger().Warnf("failed to bump comment count for post %s: %v", postID, err)
	}

	go h.notifyCommentCreated(post, parent, comment)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// notifyCommentCreated tells the post author and, for replies, the parent
// comment author. Authors are never notified about their own activity.
func (h *CommentHandler) notifyCommentCreated(post *models.Post, parent *models.Comment, comment *models.Comment) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if post.AuthorID != comment.AuthorID {
		h.notifier.Notify(ctx, post.AuthorID, models.NotificationData{
			Type:       models.NotificationNewComment,
			Title:      "New comment on your post",
			Message:    fmt.Sprintf("Someone commented on %q", post.Title),
			EntityType: models.ContentTypePost,
			EntityID:   post.ID.Hex(),
		})
	}

	if parent != nil && parent.AuthorID != comment.AuthorID && parent.AuthorID != post.AuthorID {
		h.notifier.Notify(ctx, parent.AuthorID, models.NotificationData{
			Type:       models.NotificationCommentReply,
			Title:      "New reply to your comment",
			Message:    fmt.Sprintf("Someone replied to your comment on %q", post.Title),
			EntityType: models.ContentTypeComment,
			EntityID:   parent.ID.Hex(),
		})
	}
}

// GetComments lists a post's top-level comments with their replies
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.Param("id")
	page, limit := parsePageLimit(c)

	skip := int64((page - 1) * limit)
	comments, total, err := h.comments.ListTopLevelByPost(c.Request().Context(), postID, skip, int64(limit))
	if err != nil {
		return httpError(err)
	}

	withReplies := make([]models.CommentWithReplies, 0, len(comments))
	for _, comment := range comments {
		replies, err := h.comments.ListReplies(c.Request().Context(), comment.ID)
		if err != nil {
			return httpError(err)
		}
		withReplies = append(withReplies, models.CommentWithReplies{Comment: comment, Replies: replies})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       withReplies,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// UpdateComment edits the caller's own comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id := c.Param("id")

	req := new(models.UpdateCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	comment, err := h.comments.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if comment.AuthorID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own comments")
	}
	if comment.Status != models.CommentStatusActive {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment can no longer be edited")
	}

	if err := h.comments.UpdateContent(c.Request().Context(), id, req.Content); err != nil {
		return httpError(err)
	}

	updated, err := h.comments.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
}

// DeleteComment soft deletes a comment, keeping the thread shape intact
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id := c.Param("id")

	comment, err := h.comments.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if comment.AuthorID != getUserIDFromContext(c) && !isModerator(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
	}

	if err := h.comments.SoftDelete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	if err := h.posts.AdjustCommentCount(c.Request().Context(), comment.PostID.Hex(), -1); err != nil {
		c.Logger().Warnf("failed to decrement comment count for post %s: %v", comment.PostID.Hex(), err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Comment deleted"})
}

// VoteComment casts, switches, or clears the caller's vote on a comment
func (h *CommentHandler) VoteComment(c echo.Context) error {
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
		comment, err := h.comments.GetCommentByID(c.Request().Context(), id)
		if err != nil {
			return httpError(err)
		}
		if comment.AuthorID == voterID {
			return httpError(services.ErrSelfVote)
		}
	}

	result, err := h.comments.CastVote(c.Request().Context(), id, voterID, req.Direction)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}
