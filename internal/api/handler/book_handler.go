package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Book
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no books found")
	}
	return c.JSON(http.StatusOK, books)
}

// Get handles GET /books/:id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  domain.Book
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Create handles POST /books.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book"
// @Success      201   {object}  domain.Book
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	book, err := bindBook(c)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), book)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/books/"+created.ID)
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /books/:id.
//
// @Summary      Replace a book
// @Tags         books
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string       true  "Book id"
// @Param        body  body      bookRequest  true  "Book"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	book, err := bindBook(c)
	if err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), c.Param("id"), book); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /books/:id.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        id   path  string  true  "Book id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindBook(c echo.Context) (*domain.Book, error) {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return req.toDomain(), nil
}
