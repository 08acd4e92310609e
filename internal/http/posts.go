package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/codeerr"
	"github.com/cyhdev/forums/internal/database/posts"
	"github.com/cyhdev/forums/internal/entities"
	"github.com/cyhdev/forums/internal/response"
)

// PostsController serves the forum content routes. Reads are public; writes
// sit behind the session middleware and trust the user id it resolved.
type PostsController struct {
	repo *posts.Repository
}

func NewPostsController(repo *posts.Repository) *PostsController {
	return &PostsController{repo: repo}
}

type createPostRequest struct {
	Title string `json:"post_title"`
	Body  string `json:"post_body"`
}

// CreatePost handles POST /api/posts.
func (p *PostsController) CreatePost(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		response.Fail(c, codeerr.NotLoggedIn)
		return
	}

	var req createPostRequest
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" || len(req.Title) > 256 || req.Body == "" {
		response.Fail(c, codeerr.PostInvalid)
		return
	}

	post := &entities.Post{UserID: userID, Title: req.Title, Body: req.Body}
	if err := p.repo.CreatePost(post); err != nil {
		response.Fail(c, codeerr.DBInsertion.WithDetail(err))
		return
	}

	response.OK(c, http.StatusCreated, post)
}

// GetPost handles GET /api/posts/:id. The post arrives with its comments,
// oldest first.
func (p *PostsController) GetPost(c *gin.Context) {
	id, cerr := parseIDParam(c)
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	post, err := p.repo.GetPost(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, codeerr.NotFound)
			return
		}
		response.Fail(c, codeerr.DBQuery.WithDetail(err))
		return
	}

	response.OK(c, http.StatusOK, post)
}

// ListPosts handles GET /api/posts, newest first.
func (p *PostsController) ListPosts(c *gin.Context) {
	limit, offset := parsePagination(c)

	list, total, err := p.repo.ListPosts(limit, offset)
	if err != nil {
		response.Fail(c, codeerr.DBQuery.WithDetail(err))
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"posts":  list,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

type updatePostRequest struct {
	Title string `json:"post_title"`
	Body  string `json:"post_body"`
}

// UpdatePost handles PATCH /api/posts/:id. Only the owner may edit; edits by
// anyone else look identical to a missing post.
func (p *PostsController) UpdatePost(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		response.Fail(c, codeerr.NotLoggedIn)
		return
	}

	id, cerr := parseIDParam(c)
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	var req updatePostRequest
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" || len(req.Title) > 256 || req.Body == "" {
		response.Fail(c, codeerr.PostInvalid)
		return
	}

	if err := p.repo.UpdatePost(id, userID, req.Title, req.Body); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, codeerr.NotFound)
			return
		}
		response.Fail(c, codeerr.DBUpdate.WithDetail(err))
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Post updated"})
}

// DeletePost handles DELETE /api/posts/:id.
func (p *PostsController) DeletePost(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		response.Fail(c, codeerr.NotLoggedIn)
		return
	}

	id, cerr := parseIDParam(c)
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	if err := p.repo.DeletePost(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, codeerr.NotFound)
			return
		}
		response.Fail(c, codeerr.DBUpdate.WithDetail(err))
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Post deleted"})
}

type addCommentRequest struct {
	Body string `json:"comment_body"`
}

// AddComment handles POST /api/posts/:id/comments.
func (p *PostsController) AddComment(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		response.Fail(c, codeerr.NotLoggedIn)
		return
	}

	postID, cerr := parseIDParam(c)
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	var req addCommentRequest
	_ = c.ShouldBindJSON(&req)
	if req.Body == "" {
		response.Fail(c, codeerr.CommentInvalid)
		return
	}

	comment := &entities.Comment{PostID: postID, UserID: userID, Body: req.Body}
	if err := p.repo.AddComment(comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, codeerr.NotFound)
			return
		}
		response.Fail(c, codeerr.DBInsertion.WithDetail(err))
		return
	}

	response.OK(c, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/comments/:id.
func (p *PostsController) DeleteComment(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		response.Fail(c, codeerr.NotLoggedIn)
		return
	}

	id, cerr := parseIDParam(c)
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	if err := p.repo.DeleteComment(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, codeerr.NotFound)
			return
		}
		response.Fail(c, codeerr.DBUpdate.WithDetail(err))
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Comment deleted"})
}

// parseIDParam parses the :id route parameter as a uuid.
func parseIDParam(c *gin.Context) (uuid.UUID, *codeerr.Error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, codeerr.NotFound.WithDetail(err)
	}
	return id, nil
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
