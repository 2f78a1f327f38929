package controller

import (
	"errors"
	"os"

	"textbook_backend/internal/service"
	"textbook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BookController struct {
	Books *service.BookService
}

func NewBookController(books *service.BookService) *BookController {
	return &BookController{Books: books}
}

// @Summary Serve a book page
// @Description Serves a course's page or static asset from its base course's content tree.
// @Tags books
// @Produce html
// @Param course path string true "Course name"
// @Param page path string true "Page path within the book"
// @Success 200
// @Router /books/{course}/{page} [get]
func (c *BookController) ServePage(ctx *gin.Context) {
	courseName := ctx.Param("course")
	page := ctx.Param("page")

	info, err := c.Books.ResolvePage(courseName, page)
	if err != nil {
		if errors.Is(err, service.ErrPageOutsideBook) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	if info == nil {
		util.NotFound(ctx)
		return
	}

	loginRequired := info.Course.LoginRequired
	if loginRequired.Valid && loginRequired.Bool && util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	if info.Static {
		ctx.File(info.FilePath)
		return
	}

	if _, err := os.Stat(info.FilePath); os.IsNotExist(err) {
		util.NotFound(ctx)
		return
	}

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Status(200)
	if err := c.Books.RenderPage(ctx.Writer, info); err != nil {
		util.LogInternalError(ctx, err)
	}
}
