package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dwbooks/bookmanager/internal/models"
	"github.com/dwbooks/bookmanager/internal/repository"
	"github.com/dwbooks/bookmanager/internal/service"
	"github.com/dwbooks/bookmanager/internal/utils"
)

// Handler translates service outcomes into HTTP status codes and response
// envelopes. It is the only layer that maps internal errors onto the wire;
// underlying error text is logged here and never returned to the caller.
type Handler struct {
	svc service.Service
	log *utils.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, log *utils.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.registerUser)
	auth.POST("/login", h.loginUser)
	auth.POST("/logout", h.logoutUser)

	books := v1.Group("/books", TokenAuthMiddleware(h.svc, h.log))
	books.GET("", h.getBooks)
	books.GET("/search", h.searchBooks)
	books.GET("/:id", h.getBookByID)
	books.POST("", h.storeBook)
	books.PUT("/:id", h.updateBook)
	books.DELETE("/:id", h.removeBook)
}

func (h *Handler) registerUser(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("register: reading body: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. User not registered"})
		return
	}

	user, err := models.UserFromJSON(body)
	if err != nil {
		h.log.Error("register: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. User not registered"})
		return
	}

	token, err := h.svc.RegisterUser(c.Request.Context(), user)
	if err != nil {
		h.log.Error("register: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. User not registered"})
		return
	}
	if token == "" {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. User not registered"})
		return
	}

	c.JSON(http.StatusCreated, models.TokenResponse{Message: "ok", Token: token})
}

func (h *Handler) loginUser(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("login: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		h.log.Error("login: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Invalid request"})
		return
	}

	token, err := h.svc.LoginUser(c.Request.Context(), *req.Email, *req.Password)
	if err != nil {
		h.log.Error("login: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Invalid request"})
		return
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.MessageResponse{Message: "Login Failed"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Message: "ok", Token: token})
}

func (h *Handler) logoutUser(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("logout: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		h.log.Error("logout: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Invalid request"})
		return
	}

	removed, err := h.svc.LogoutUser(c.Request.Context(), *req.Token)
	if err != nil {
		h.log.Error("logout: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Logout failed"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, models.MessageResponse{Message: "not found"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "ok"})
}

func (h *Handler) getBooks(c *gin.Context) {
	userID := userIDFromContext(c)

	books, err := h.svc.ListBooks(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("get books: %v", err)
		c.JSON(http.StatusInternalServerError, models.BooksResponse{
			Message: "ERROR: Cannot retrieve books",
			Books:   []models.Book{},
		})
		return
	}

	c.JSON(http.StatusOK, models.BooksResponse{Message: "OK", Books: books})
}

func (h *Handler) searchBooks(c *gin.Context) {
	userID := userIDFromContext(c)
	searchType := repository.ParseSearchType(c.Query("type"))
	term := c.Query("term")

	books, err := h.svc.SearchBooks(c.Request.Context(), userID, searchType, term)
	if err != nil {
		h.log.Error("search books: %v", err)
		c.JSON(http.StatusInternalServerError, models.BooksResponse{
			Message: "ERROR: Cannot retrieve books",
			Books:   []models.Book{},
		})
		return
	}

	c.JSON(http.StatusOK, models.BooksResponse{Message: "OK", Books: books})
}

func (h *Handler) getBookByID(c *gin.Context) {
	userID := userIDFromContext(c)

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "ERROR Book with that id doesn't exist",
			"book":    gin.H{},
		})
		return
	}

	book, err := h.svc.GetBook(c.Request.Context(), userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "ERROR Book with that id doesn't exist",
				"book":    gin.H{},
			})
			return
		}
		h.log.Error("get book %d: %v", bookID, err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Server error"})
		return
	}

	c.JSON(http.StatusOK, models.BookResponse{Message: "OK", Book: &book})
}

func (h *Handler) storeBook(c *gin.Context) {
	userID := userIDFromContext(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("store book: reading body: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not saved"})
		return
	}

	book, err := models.BookFromJSON(body)
	if err != nil {
		h.log.Error("store book: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not saved"})
		return
	}

	newID, err := h.svc.CreateBook(c.Request.Context(), userID, book)
	if err != nil || newID == 0 {
		h.log.Error("store book: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not saved"})
		return
	}

	c.JSON(http.StatusCreated, models.BookSavedResponse{Message: "Book saved.", ID: newID})
}

func (h *Handler) updateBook(c *gin.Context) {
	userID := userIDFromContext(c)

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not updated. Server error."})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("update book: reading body: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not updated. Server error."})
		return
	}

	book, err := models.BookFromJSON(body)
	if err != nil {
		h.log.Error("update book: %v", err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not updated. Server error."})
		return
	}

	saved, err := h.svc.UpdateBook(c.Request.Context(), userID, bookID, book)
	if err != nil {
		h.log.Error("update book %d: %v", bookID, err)
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not updated. Server error."})
		return
	}
	if !saved {
		c.JSON(http.StatusUnauthorized, models.MessageResponse{Message: "ERROR. Book does not belong to user, not updated."})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Book updated."})
}

func (h *Handler) removeBook(c *gin.Context) {
	userID := userIDFromContext(c)

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not removed."})
		return
	}

	removed, err := h.svc.RemoveBook(c.Request.Context(), userID, bookID)
	if err != nil || !removed {
		if err != nil {
			h.log.Error("remove book %d: %v", bookID, err)
		}
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "ERROR. Book not removed."})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Book removed."})
}
