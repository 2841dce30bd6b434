package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkpost/internal/domain"
	"inkpost/internal/service"
	"inkpost/internal/session"
	"inkpost/internal/upload"
)

const (
	sessionCookie = "session"
	ctxSessionID  = "session_id"
	ctxIdentity   = "identity"
)

// Handler wires HTTP routes to domain services. Reads are public and
// render JSON; mutations are session-gated and answer with a redirect
// plus a queued flash.
type Handler struct {
	users     service.UserService
	posts     service.PostService
	sessions  *session.Store
	tokens    *session.TokenCodec
	intake    *upload.Intake
	uploadDir string
	tokenTTL  time.Duration
	logger    *logrus.Logger
}

func NewHandler(
	users service.UserService,
	posts service.PostService,
	sessions *session.Store,
	tokens *session.TokenCodec,
	intake *upload.Intake,
	uploadDir string,
	tokenTTL time.Duration,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:     users,
		posts:     posts,
		sessions:  sessions,
		tokens:    tokens,
		intake:    intake,
		uploadDir: uploadDir,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.sessionMiddleware())

	if h.uploadDir != "" {
		router.Static("/uploads", h.uploadDir)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.GET("/posts", h.listPosts)
	router.GET("/posts/:id", h.getPost)

	router.GET("/register", h.authPage)
	router.GET("/login", h.authPage)
	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)
	router.POST("/auth/logout", h.logout)

	gated := router.Group("/", h.requireAuthenticated())
	{
		gated.POST("/posts", h.createPost)
		gated.POST("/posts/:id", h.updatePost)
		gated.POST("/posts/:id/delete", h.deletePost)
	}
}

// sessionMiddleware resolves the session cookie to a live session,
// starting a fresh anonymous one on first contact (or when the token is
// invalid, expired, or references a session this process no longer holds).
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sid string
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			if parsed, err := h.tokens.Parse(cookie); err == nil && h.sessions.Exists(parsed) {
				sid = parsed
			}
		}

		if sid == "" {
			sid = h.sessions.Start()
			token, err := h.tokens.Mint(sid)
			if err != nil {
				h.logger.Errorf("mint session token: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session setup failed"})
				return
			}
			c.SetCookie(sessionCookie, token, int(h.tokenTTL.Seconds()), "/", "", false, true)
		}

		c.Set(ctxSessionID, sid)
		c.Next()
	}
}

// requireAuthenticated is the authorization gate in front of every
// mutating post operation. Anonymous sessions get a warning flash and a
// redirect to the login page instead of the requested mutation.
func (h *Handler) requireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetString(ctxSessionID)
		username, err := h.sessions.RequireIdentity(sid)
		if err != nil {
			h.sessions.AddFlash(sid, session.SeverityError, "Please log in to continue.")
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
				return
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(ctxIdentity, username)
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func (h *Handler) flashAndRedirect(c *gin.Context, severity, message, location string) {
	sid := c.GetString(ctxSessionID)
	h.sessions.AddFlash(sid, severity, message)
	c.Redirect(http.StatusSeeOther, location)
}

// authPage is the render half of the redirect-or-render contract for
// /login and /register; without a template layer it serves the drained
// flashes and the session's identity, if any.
func (h *Handler) authPage(c *gin.Context) {
	sid := c.GetString(ctxSessionID)
	c.JSON(http.StatusOK, gin.H{
		"identity": h.sessions.CurrentIdentity(sid),
		"flashes":  h.sessions.DrainFlashes(sid),
	})
}

func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if _, err := h.users.Register(c.Request.Context(), username, password, confirm); err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			h.flashAndRedirect(c, session.SeverityError, "That username is already taken.", "/register")
		case errors.Is(err, service.ErrPasswordMismatch):
			h.flashAndRedirect(c, session.SeverityError, "Passwords do not match.", "/register")
		default:
			h.flashAndRedirect(c, session.SeverityError, err.Error(), "/register")
		}
		return
	}

	h.flashAndRedirect(c, session.SeveritySuccess, "Registration successful. Please log in.", "/login")
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same message for unknown username and wrong password.
			h.flashAndRedirect(c, session.SeverityError, "Invalid username or password.", "/login")
			return
		}
		h.logger.Errorf("authenticate %q: %v", username, err)
		h.flashAndRedirect(c, session.SeverityError, "Login failed.", "/login")
		return
	}

	sid := c.GetString(ctxSessionID)
	h.sessions.Login(sid, user.Username)
	h.flashAndRedirect(c, session.SeveritySuccess, "Welcome back, "+user.Username+".", "/posts")
}

func (h *Handler) logout(c *gin.Context) {
	sid := c.GetString(ctxSessionID)
	h.sessions.Logout(sid)
	h.flashAndRedirect(c, session.SeverityInfo, "Logged out.", "/posts")
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.ListPosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}

	sid := c.GetString(ctxSessionID)
	c.JSON(http.StatusOK, gin.H{
		"posts":    resp,
		"identity": h.sessions.CurrentIdentity(sid),
		"flashes":  h.sessions.DrainFlashes(sid),
	})
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sid := c.GetString(ctxSessionID)
	c.JSON(http.StatusOK, gin.H{
		"post":    postToResponse(*post),
		"flashes": h.sessions.DrainFlashes(sid),
	})
}

func (h *Handler) createPost(c *gin.Context) {
	title := c.PostForm("title")
	body := c.PostForm("body")

	imageRef, uploadWarn := h.acceptImage(c)

	post, err := h.posts.CreatePost(c.Request.Context(), title, body, imageRef)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sid := c.GetString(ctxSessionID)
	if uploadWarn != "" {
		h.sessions.AddFlash(sid, session.SeverityError, uploadWarn)
	}
	h.flashAndRedirect(c, session.SeveritySuccess, "Post created.", "/posts/"+strconv.FormatInt(post.ID, 10))
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	body := c.PostForm("body")

	// An edit without a fresh valid upload keeps the previous image.
	imageRef, uploadWarn := h.acceptImage(c)

	post, err := h.posts.UpdatePost(c.Request.Context(), id, title, body, imageRef)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.flashAndRedirect(c, session.SeverityError, "That post no longer exists.", "/posts")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sid := c.GetString(ctxSessionID)
	if uploadWarn != "" {
		h.sessions.AddFlash(sid, session.SeverityError, uploadWarn)
	}
	h.flashAndRedirect(c, session.SeveritySuccess, "Post updated.", "/posts/"+strconv.FormatInt(post.ID, 10))
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Deleting an already-deleted post is not an error.
	if err := h.posts.DeletePost(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.flashAndRedirect(c, session.SeveritySuccess, "Post deleted.", "/posts")
}

// acceptImage runs the upload intake for the optional image field. A
// rejected file type degrades to "no image" with a user-facing warning
// rather than failing the whole mutation.
func (h *Handler) acceptImage(c *gin.Context) (ref string, warn string) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", ""
	}

	ref, err = h.intake.Accept(c.Request.Context(), fh)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedFileType) {
			return "", "Unsupported image type; allowed: png, jpg, jpeg, gif."
		}
		h.logger.Errorf("accept upload %q: %v", fh.Filename, err)
		return "", "Image upload failed."
	}
	return ref, ""
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return 0, false
	}
	return id, true
}

type PostResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ImageRef  string `json:"image_ref"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Body:      post.Body,
		ImageRef:  post.ImageRef,
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
		UpdatedAt: post.UpdatedAt.Format(time.RFC3339),
	}
}
