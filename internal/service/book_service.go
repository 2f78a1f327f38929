package service

import (
	"errors"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"textbook_backend/internal/model"
	"textbook_backend/internal/repository"
)

var ErrPageOutsideBook = errors.New("page path escapes the book root")

// PageInfo is everything the book controller needs to answer one page
// request: where the content lives and the eBookConfig values the page
// template interpolates.
type PageInfo struct {
	Course *model.Course
	// FilePath is the on-disk location of the requested page or asset.
	FilePath string
	// Static is true for _static/ and _images/ assets, which are served as
	// files instead of being rendered.
	Static bool
}

// BookConfig carries the template values as the JavaScript literals the book
// pages splice into eBookConfig.
type BookConfig struct {
	BaseCourse    string
	LoginRequired template.JS
	Python3       template.JS
}

type BookService struct {
	Courses *repository.CourseRepository
	Root    string
}

func NewBookService(courses *repository.CourseRepository, root string) *BookService {
	return &BookService{Courses: courses, Root: root}
}

// ResolvePage maps a course name and a page path onto the base course's
// content tree. It returns (nil, nil) for an unknown course.
func (s *BookService) ResolvePage(courseName, page string) (*PageInfo, error) {
	course, err := s.Courses.FindByName(courseName)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil
	}

	page = strings.TrimPrefix(page, "/")
	clean := filepath.Clean(page)
	if clean == ".." || strings.HasPrefix(clean, "../") || filepath.IsAbs(clean) {
		return nil, ErrPageOutsideBook
	}

	first := clean
	if i := strings.IndexByte(clean, filepath.Separator); i >= 0 {
		first = clean[:i]
	}

	return &PageInfo{
		Course:   course,
		FilePath: filepath.Join(s.Root, course.ContentBase(), clean),
		Static:   first == "_static" || first == "_images",
	}, nil
}

// RenderPage executes the page template with the course's eBookConfig
// values.
func (s *BookService) RenderPage(w io.Writer, info *PageInfo) error {
	if _, err := os.Stat(info.FilePath); err != nil {
		return err
	}

	tmpl, err := template.ParseFiles(info.FilePath)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, BookConfig{
		BaseCourse:    info.Course.ContentBase(),
		LoginRequired: jsBool(info.Course.LoginRequired),
		Python3:       jsBool(info.Course.Python3),
	})
}

// jsBool renders a tri-state flag as a JavaScript boolean literal; unset
// counts as false.
func jsBool(b model.CharBool) template.JS {
	if b.Valid && b.Bool {
		return "true"
	}
	return "false"
}
