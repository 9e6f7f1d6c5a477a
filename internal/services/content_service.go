package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentCommentsLimit = 3

// Like actions reported by ToggleLike
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// CommentView is a comment with its author's display fields
type CommentView struct {
	ID                      uint      `json:"id"`
	PostID                  uint      `json:"post_id"`
	UserID                  uint      `json:"user_id"`
	Content                 string    `json:"content"`
	CreatedAt               time.Time `json:"created_at"`
	AuthorDisplayName       string    `json:"author_display_name"`
	AuthorProfilePictureURL string    `json:"author_profile_picture_url"`
}

// PostView is a post enriched for a particular viewer
type PostView struct {
	PostID                  uint          `json:"post_id"`
	UserID                  uint          `json:"user_id"`
	ImageURL                string        `json:"image_url"`
	Caption                 string        `json:"caption"`
	CreatedAt               time.Time     `json:"created_at"`
	AuthorDisplayName       string        `json:"author_display_name"`
	AuthorProfilePictureURL string        `json:"author_profile_picture_url"`
	LikeCount               int64         `json:"like_count"`
	UserHasLiked            bool          `json:"user_has_liked"`
	CommentCount            int64         `json:"comment_count"`
	RecentComments          []CommentView `json:"recent_comments"`
}

// LikeResult is the like state of a post as seen by the actor
type LikeResult struct {
	PostID       uint   `json:"post_id"`
	Action       string `json:"action,omitempty"`
	LikeCount    int64  `json:"like_count"`
	UserHasLiked bool   `json:"user_has_liked"`
}

// CommentPage is one page of a post's comments
type CommentPage struct {
	Comments   []CommentView `json:"comments"`
	Pagination Pagination    `json:"pagination"`
}

// ContentService owns posts, likes and comments. Every read or write on another
// user's post passes the visibility gate first.
type ContentService struct {
	store    *repositories.Store
	gate     *VisibilityGate
	notifier *NotificationService
	log      *zap.Logger
}

// NewContentService creates a new ContentService
func NewContentService(store *repositories.Store, gate *VisibilityGate, notifier *NotificationService, log *zap.Logger) *ContentService {
	return &ContentService{store: store, gate: gate, notifier: notifier, log: logger.OrNop(log)}
}

// CreatePost creates a post owned by actor
func (s *ContentService) CreatePost(ctx context.Context, actor uint, imageURL, caption string) (*models.Post, error) {
	imageURL = strings.TrimSpace(imageURL)
	caption = strings.TrimSpace(caption)
	if imageURL == "" || caption == "" {
		return nil, apperror.Validation("image URL and caption are required")
	}

	post := &models.Post{UserID: actor, ImageURL: imageURL, Caption: caption}
	if err := s.store.WithContext(ctx).Posts.CreatePost(post); err != nil {
		return nil, apperror.Translate(err, "user not found", apperror.KindConstraintViolation)
	}
	s.log.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("user_id", actor))
	return post, nil
}

// GetPost returns one post enriched for actor
func (s *ContentService) GetPost(ctx context.Context, actor, postID uint) (*PostView, error) {
	store := s.store.WithContext(ctx)
	post, err := s.visiblePost(ctx, store, actor, postID)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(store, actor, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListUserPosts returns the owner's posts, newest first
func (s *ContentService) ListUserPosts(ctx context.Context, actor, ownerID uint) ([]PostView, error) {
	store := s.store.WithContext(ctx)
	if actor != ownerID {
		if _, err := store.Users.GetUserByID(ownerID); err != nil {
			return nil, apperror.Translate(err, "user not found", apperror.KindConstraintViolation)
		}
	}
	if err := s.gate.Authorize(ctx, store, actor, ownerID); err != nil {
		return nil, err
	}

	posts, err := store.Posts.GetPostsByUserIDs([]uint{ownerID}, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.enrich(store, actor, posts)
}

// ConnectionsFeed returns posts by userID and every user directly connected to
// userID, newest first. A non-positive page or perPage returns the whole feed.
func (s *ContentService) ConnectionsFeed(ctx context.Context, actor, userID uint, page, perPage int) ([]PostView, error) {
	if actor != userID {
		return nil, apperror.Forbidden("cannot access other user's connections' posts")
	}
	store := s.store.WithContext(ctx)

	ids, err := store.Connections.GetConnectedUserIDs(userID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, userID)

	offset, limit := 0, 0
	if page > 0 && perPage > 0 {
		page, perPage = NormalizePage(page, perPage)
		offset, limit = (page-1)*perPage, perPage
	}
	posts, err := store.Posts.GetPostsByUserIDs(ids, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(store, actor, posts)
}

// DeletePost deletes one of actor's posts together with its likes, comments and notifications
func (s *ContentService) DeletePost(ctx context.Context, actor, postID uint) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(postID)
		if err != nil {
			return apperror.Translate(err, "post not found", apperror.KindConstraintViolation)
		}
		if post.UserID != actor {
			return apperror.Forbidden("only the owner can delete a post")
		}
		return tx.Posts.DeletePost(postID)
	})
}

// ToggleLike likes the post if actor has not liked it yet and unlikes it otherwise
func (s *ContentService) ToggleLike(ctx context.Context, actor, postID uint) (*LikeResult, error) {
	result := &LikeResult{PostID: postID}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := s.visiblePost(ctx, tx, actor, postID)
		if err != nil {
			return err
		}

		removed, err := tx.Likes.DeleteLike(postID, actor)
		if err != nil {
			return err
		}
		if removed {
			result.Action = ActionUnliked
		} else {
			if err := tx.Likes.CreateLike(&models.Like{UserID: actor, PostID: postID}); err != nil {
				return apperror.Translate(err, "post not found", apperror.KindConstraintViolation)
			}
			result.Action = ActionLiked
			result.UserHasLiked = true
			if post.UserID != actor {
				s.notifier.Notify(ctx, tx, post.UserID, actor, models.NotificationPostLiked, &post.ID)
			}
		}

		result.LikeCount, err = tx.Likes.GetLikesCountByPostID(postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LikeStatus reports the like count and whether actor has liked the post
func (s *ContentService) LikeStatus(ctx context.Context, actor, postID uint) (*LikeResult, error) {
	store := s.store.WithContext(ctx)
	if _, err := s.visiblePost(ctx, store, actor, postID); err != nil {
		return nil, err
	}

	count, err := store.Likes.GetLikesCountByPostID(postID)
	if err != nil {
		return nil, err
	}
	liked, err := store.Likes.HasUserLikedPost(postID, actor)
	if err != nil {
		return nil, err
	}
	return &LikeResult{PostID: postID, LikeCount: count, UserHasLiked: liked}, nil
}

// AddComment adds a comment to a visible post and notifies the owner
func (s *ContentService) AddComment(ctx context.Context, actor, postID uint, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("comment content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, apperror.Validation("comment must be 500 characters or less")
	}

	var view *CommentView
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := s.visiblePost(ctx, tx, actor, postID)
		if err != nil {
			return err
		}
		author, err := tx.Users.GetUserByID(actor)
		if err != nil {
			return apperror.Translate(err, "user not found", apperror.KindConstraintViolation)
		}

		comment := &models.Comment{UserID: actor, PostID: postID, Content: content}
		if err := tx.Comments.CreateComment(comment); err != nil {
			return apperror.Translate(err, "post not found", apperror.KindConstraintViolation)
		}
		if post.UserID != actor {
			s.notifier.Notify(ctx, tx, post.UserID, actor, models.NotificationPostCommented, &post.ID)
		}

		v := newCommentView(*comment, *author)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListComments returns one page of a post's comments, oldest first
func (s *ContentService) ListComments(ctx context.Context, actor, postID uint, page, perPage int) (*CommentPage, error) {
	page, perPage = NormalizePage(page, perPage)
	store := s.store.WithContext(ctx)
	if _, err := s.visiblePost(ctx, store, actor, postID); err != nil {
		return nil, err
	}

	total, err := store.Comments.GetCommentsCountByPostID(postID)
	if err != nil {
		return nil, err
	}
	comments, err := store.Comments.GetCommentsByPostID(postID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	views, err := s.commentViews(store, comments)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: views, Pagination: newPagination(page, perPage, total)}, nil
}

// DeleteComment deletes a comment. Only its author may do so, whoever owns the post.
func (s *ContentService) DeleteComment(ctx context.Context, actor, commentID uint) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		comment, err := tx.Comments.GetCommentByID(commentID)
		if err != nil {
			return apperror.Translate(err, "comment not found", apperror.KindConstraintViolation)
		}
		if comment.UserID != actor {
			return apperror.Forbidden("you can only delete your own comments")
		}
		return tx.Comments.DeleteComment(commentID)
	})
}

// visiblePost loads a post and checks actor may see it. Absence is NotFound; once
// the post is known to exist, denial is Forbidden.
func (s *ContentService) visiblePost(ctx context.Context, store *repositories.Store, actor, postID uint) (*models.Post, error) {
	post, err := store.Posts.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "post not found", err)
		}
		return nil, err
	}
	if err := s.gate.Authorize(ctx, store, actor, post.UserID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ContentService) enrich(store *repositories.Store, actor uint, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]uint, 0, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.UserID)
	}

	authors, err := store.Users.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	likeCounts, err := store.Likes.GetLikesCountByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}
	liked, err := store.Likes.GetLikedPostIDs(actor, postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := store.Comments.GetCommentsCountByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		recent, err := store.Comments.GetCommentsByPostID(p.ID, 0, recentCommentsLimit)
		if err != nil {
			return nil, err
		}
		recentViews, err := s.commentViews(store, recent)
		if err != nil {
			return nil, err
		}

		author := authors[p.UserID]
		views = append(views, PostView{
			PostID:                  p.ID,
			UserID:                  p.UserID,
			ImageURL:                p.ImageURL,
			Caption:                 p.Caption,
			CreatedAt:               p.CreatedAt,
			AuthorDisplayName:       author.DisplayName,
			AuthorProfilePictureURL: author.ProfilePictureURL,
			LikeCount:               likeCounts[p.ID],
			UserHasLiked:            liked[p.ID],
			CommentCount:            commentCounts[p.ID],
			RecentComments:          recentViews,
		})
	}
	return views, nil
}

func (s *ContentService) commentViews(store *repositories.Store, comments []models.Comment) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := store.Users.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		views = append(views, newCommentView(c, authors[c.UserID]))
	}
	return views, nil
}

func newCommentView(c models.Comment, author models.User) CommentView {
	return CommentView{
		ID:                      c.ID,
		PostID:                  c.PostID,
		UserID:                  c.UserID,
		Content:                 c.Content,
		CreatedAt:               c.CreatedAt,
		AuthorDisplayName:       author.DisplayName,
		AuthorProfilePictureURL: author.ProfilePictureURL,
	}
}
