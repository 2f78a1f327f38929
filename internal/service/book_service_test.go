package service

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"textbook_backend/internal/model"
	"textbook_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookService(t *testing.T) *BookService {
	t.Helper()
	db := newTestDB(t)
	courses := repository.NewCourseRepository(db)

	require.NoError(t, courses.Create(&model.Course{
		CourseName:    "test_child_course1",
		BaseCourse:    "test_base_course",
		Python3:       model.TrueChar(true),
		LoginRequired: model.TrueChar(true),
	}))
	require.NoError(t, courses.Create(&model.Course{
		CourseName: "test_base_course",
	}))

	root := t.TempDir()
	bookDir := filepath.Join(root, "test_base_course")
	require.NoError(t, os.MkdirAll(filepath.Join(bookDir, "_static"), 0o755))
	page := "<html><body>eBookConfig.course = '{{.BaseCourse}}';\n" +
		"eBookConfig.loginRequired = {{.LoginRequired}};\n" +
		"eBookConfig.python3 = {{.Python3}};</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "index.html"), []byte(page), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "_static", "app.js"), []byte("// js"), 0o644))

	return NewBookService(courses, root)
}

// A derived course serves pages out of its base course's tree.
func TestResolvePageUsesBaseCourseTree(t *testing.T) {
	svc := newBookService(t)

	info, err := svc.ResolvePage("test_child_course1", "/index.html")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, filepath.Join(svc.Root, "test_base_course", "index.html"), info.FilePath)
	assert.False(t, info.Static)
	assert.Equal(t, "test_child_course1", info.Course.CourseName)
}

func TestResolvePageUnknownCourse(t *testing.T) {
	svc := newBookService(t)

	info, err := svc.ResolvePage("nope", "/index.html")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestResolvePageRejectsEscapes(t *testing.T) {
	svc := newBookService(t)

	for _, page := range []string{"/../secrets.txt", "/a/../../etc/passwd"} {
		_, err := svc.ResolvePage("test_base_course", page)
		assert.ErrorIs(t, err, ErrPageOutsideBook, page)
	}
}

func TestResolvePageStaticAssets(t *testing.T) {
	svc := newBookService(t)

	info, err := svc.ResolvePage("test_base_course", "/_static/app.js")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.Static)

	info, err = svc.ResolvePage("test_base_course", "/_images/fig1.png")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.Static)
}

func TestRenderPageInterpolatesConfig(t *testing.T) {
	svc := newBookService(t)

	info, err := svc.ResolvePage("test_child_course1", "/index.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderPage(&buf, info))
	out := buf.String()
	assert.Contains(t, out, "eBookConfig.course = 'test_base_course';")
	assert.Contains(t, out, "eBookConfig.loginRequired = true;")
	assert.Contains(t, out, "eBookConfig.python3 = true;")
}

// Unset flags render as false.
func TestRenderPageDefaultsFlags(t *testing.T) {
	svc := newBookService(t)

	info, err := svc.ResolvePage("test_base_course", "/index.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderPage(&buf, info))
	assert.Contains(t, buf.String(), "eBookConfig.loginRequired = false;")
}

func TestRenderPageMissingFile(t *testing.T) {
	svc := newBookService(t)

	info, err := svc.ResolvePage("test_base_course", "/missing.html")
	require.NoError(t, err)
	require.NotNil(t, info)

	var buf bytes.Buffer
	err = svc.RenderPage(&buf, info)
	assert.True(t, os.IsNotExist(err))
}
