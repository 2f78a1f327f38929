package service

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"textbook_backend/internal/model"
	"textbook_backend/internal/repository"
	"textbook_backend/internal/util"
	"textbook_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newEventService(t *testing.T) (*EventService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	require.NoError(t, db.Create(&model.Course{
		CourseName: "test_course",
		BaseCourse: "test_base_course",
		Python3:    model.TrueChar(true),
	}).Error)
	require.NoError(t, db.Create(&model.Question{
		BaseCourse: "test_base_course",
		Name:       "test_div_id",
	}).Error)

	return NewEventService(db,
		repository.NewCourseRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewUseinfoRepository(db),
		repository.NewAnswerRepository(db),
	), db
}

func student() Identity {
	return Identity{Sid: "student@test.user", Authenticated: true}
}

func eventArgs(event string, extra map[string]string) url.Values {
	args := url.Values{}
	args.Set("course", "test_course")
	args.Set("div_id", "test_div_id")
	args.Set("event", event)
	for k, v := range extra {
		args.Set(k, v)
	}
	return args
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestLogEventUnknownCourse(t *testing.T) {
	svc, db := newEventService(t)

	args := eventArgs("mChoice", nil)
	args.Set("course", "no_such_course")
	_, err := svc.LogEvent(context.Background(), student(), args)

	var verr *util.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Unknown course no_such_course.", verr.Message)
	assert.EqualValues(t, 0, countRows(t, db, &model.Useinfo{}))
}

func TestLogEventUnknownDivID(t *testing.T) {
	svc, db := newEventService(t)

	args := eventArgs("mChoice", nil)
	args.Set("div_id", "no_such_div")
	_, err := svc.LogEvent(context.Background(), student(), args)

	var verr *util.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Unknown div_id no_such_div.", verr.Message)
	assert.EqualValues(t, 0, countRows(t, db, &model.Useinfo{}))
}

func TestLogEventMissingArguments(t *testing.T) {
	svc, _ := newEventService(t)

	for _, name := range []string{"course", "div_id", "event"} {
		args := eventArgs("mChoice", nil)
		args.Del(name)
		_, err := svc.LogEvent(context.Background(), student(), args)
		require.Error(t, err)
		assert.Equal(t, fmt.Sprintf("Missing argument %s.", name), err.Error())
	}
}

// An unknown event kind still leaves a log row behind; only the dispatch is
// refused.
func TestLogEventUnknownEvent(t *testing.T) {
	svc, db := newEventService(t)

	args := eventArgs("blargh", map[string]string{"act": "click"})
	outcome, err := svc.LogEvent(context.Background(), student(), args)
	require.NoError(t, err)
	assert.False(t, outcome.Logged)
	assert.Equal(t, "Unknown event blargh.", outcome.Error)
	assert.EqualValues(t, 1, countRows(t, db, &model.Useinfo{}))
}

func TestLogEventAnonymous(t *testing.T) {
	svc, db := newEventService(t)

	anon := Identity{Sid: "9f1b@10.0.0.1", Authenticated: false}
	args := eventArgs("mChoice", map[string]string{"answer": "a", "correct": "T"})
	outcome, err := svc.LogEvent(context.Background(), anon, args)
	require.NoError(t, err)
	assert.True(t, outcome.Logged)
	assert.Empty(t, outcome.Error)

	var record model.Useinfo
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, "9f1b@10.0.0.1", record.Sid)
	assert.Equal(t, "mChoice", record.Event)
	assert.Equal(t, "test_div_id", record.DivID)
	assert.Equal(t, "test_course", record.CourseID)

	// Anonymous submissions never reach the answer tables.
	assert.EqualValues(t, 0, countRows(t, db, &model.MchoiceAnswer{}))
}

// Getting it right after wrong attempts records everything up to the first
// success; submissions after a correct row exists log but add no answer row.
func TestGradedAnswerStopsAfterCorrect(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	submit := func(answer, correct string) {
		t.Helper()
		outcome, err := svc.LogEvent(ctx, student(),
			eventArgs("mChoice", map[string]string{"answer": answer, "correct": correct}))
		require.NoError(t, err)
		assert.True(t, outcome.Logged)
	}

	submit("b", "F")
	submit("a", "T")
	submit("c", "F")

	assert.EqualValues(t, 3, countRows(t, db, &model.Useinfo{}))

	var rows []model.MchoiceAnswer
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].Answer)
	assert.Equal(t, model.TrueChar(false), rows[0].Correct)
	assert.Equal(t, "a", rows[1].Answer)
	assert.Equal(t, model.TrueChar(true), rows[1].Correct)
}

// The dedup key is the full (sid, div_id, course) triple; one student's
// success does not mute another's rows.
func TestGradedAnswerDedupPerStudent(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	args := eventArgs("fillb", map[string]string{"answer": "42", "correct": "T"})
	_, err := svc.LogEvent(ctx, student(), args)
	require.NoError(t, err)

	other := Identity{Sid: "other@test.user", Authenticated: true}
	_, err = svc.LogEvent(ctx, other, args)
	require.NoError(t, err)

	assert.EqualValues(t, 2, countRows(t, db, &model.FitbAnswer{}))
}

func TestGradedAnswerValidation(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	args := eventArgs("mChoice", map[string]string{"answer": "a", "correct": "xxx"})
	_, err := svc.LogEvent(ctx, student(), args)
	require.Error(t, err)
	assert.Equal(t, "Argument correct supplied an invalid boolean value of xxx.", err.Error())

	args = eventArgs("mChoice", map[string]string{"answer": "a"})
	_, err = svc.LogEvent(ctx, student(), args)
	require.Error(t, err)
	assert.Equal(t, "Missing argument correct.", err.Error())

	long := make([]byte, model.MaxChoiceAnswerLen+1)
	for i := range long {
		long[i] = 'a'
	}
	args = eventArgs("mChoice", map[string]string{"answer": string(long), "correct": "T"})
	_, err = svc.LogEvent(ctx, student(), args)
	require.Error(t, err)
	assert.Equal(t, "Argument answer length 51 exceeds the maximum length of 50.", err.Error())

	// Rejected submissions still wrote their log row.
	assert.EqualValues(t, 3, countRows(t, db, &model.Useinfo{}))
	assert.EqualValues(t, 0, countRows(t, db, &model.MchoiceAnswer{}))
}

func TestParsonsKeepsSource(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	args := eventArgs("parsons", map[string]string{"answer": "0_0-1_1", "correct": "F"})
	_, err := svc.LogEvent(ctx, student(), args)
	require.Error(t, err)
	assert.Equal(t, "Missing argument source.", err.Error())

	args.Set("source", "2_2-3_3")
	outcome, err := svc.LogEvent(ctx, student(), args)
	require.NoError(t, err)
	assert.True(t, outcome.Logged)

	var row model.ParsonsAnswer
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "0_0-1_1", row.Answer)
	assert.Equal(t, "2_2-3_3", row.Source)
}

func TestLpBuildGrades(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	submit := func(grade string) {
		t.Helper()
		outcome, err := svc.LogEvent(ctx, student(),
			eventArgs("lp_build", map[string]string{"answer": "{}", "correct": grade}))
		require.NoError(t, err)
		assert.True(t, outcome.Logged)
	}

	submit("41.5")
	submit("100")
	submit("80")

	var rows []model.LpAnswer
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 41.5, rows[0].Correct)
	assert.Equal(t, 100.0, rows[1].Correct)

	args := eventArgs("lp_build", map[string]string{"answer": "{}", "correct": "xxx"})
	_, err := svc.LogEvent(ctx, student(), args)
	require.Error(t, err)
	assert.Equal(t, "Unable to convert argument correct to an float.", err.Error())
}

func TestShortAnswerKeepsLatest(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	_, err := svc.LogEvent(ctx, student(),
		eventArgs("shortanswer", map[string]string{"answer": "first try"}))
	require.NoError(t, err)
	_, err = svc.LogEvent(ctx, student(),
		eventArgs("shortanswer", map[string]string{"answer": "second try"}))
	require.NoError(t, err)

	var rows []model.ShortanswerAnswer
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "second try", rows[0].Answer)

	// Both submissions still show in the log.
	assert.EqualValues(t, 2, countRows(t, db, &model.Useinfo{}))
}

func TestShortAnswerRowConflict(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	base := model.AnswerBase{
		Timestamp:  time.Now(),
		DivID:      "test_div_id",
		Sid:        "student@test.user",
		CourseName: "test_course",
	}
	require.NoError(t, db.Create(&model.ShortanswerAnswer{AnswerBase: base, Answer: "one"}).Error)
	require.NoError(t, db.Create(&model.ShortanswerAnswer{AnswerBase: base, Answer: "two"}).Error)

	_, err := svc.LogEvent(ctx, student(),
		eventArgs("shortanswer", map[string]string{"answer": "three"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrAnswerRowConflict)
}

func TestTimedExamFinishAndReset(t *testing.T) {
	svc, db := newEventService(t)
	ctx := context.Background()

	args := eventArgs("timedExam", map[string]string{
		"act": "finish", "correct": "7", "incorrect": "2", "skipped": "1", "time": "300",
	})
	outcome, err := svc.LogEvent(ctx, student(), args)
	require.NoError(t, err)
	assert.True(t, outcome.Logged)
	assert.Empty(t, outcome.Error)

	args.Set("act", "reset")
	outcome, err = svc.LogEvent(ctx, student(), args)
	require.NoError(t, err)
	assert.True(t, outcome.Logged)

	var rows []model.TimedExam
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 7, rows[0].Correct)
	assert.Equal(t, 2, rows[0].Incorrect)
	assert.Equal(t, 1, rows[0].Skipped)
	assert.Equal(t, 300, rows[0].TimeTaken)
	assert.Equal(t, model.TrueChar(false), rows[0].Reset)
	assert.Equal(t, model.TrueChar(true), rows[1].Reset)
}

// An act other than finish or reset refuses the exam row without an error
// message; the log row stays.
func TestTimedExamInvalidAct(t *testing.T) {
	svc, db := newEventService(t)

	args := eventArgs("timedExam", map[string]string{
		"act": "start", "correct": "7", "incorrect": "2", "skipped": "1",
	})
	outcome, err := svc.LogEvent(context.Background(), student(), args)
	require.NoError(t, err)
	assert.False(t, outcome.Logged)
	assert.Empty(t, outcome.Error)

	assert.EqualValues(t, 1, countRows(t, db, &model.Useinfo{}))
	assert.EqualValues(t, 0, countRows(t, db, &model.TimedExam{}))
}

func TestTimedExamCountValidation(t *testing.T) {
	svc, db := newEventService(t)

	args := eventArgs("timedExam", map[string]string{
		"act": "finish", "correct": "xxx", "incorrect": "2", "skipped": "1",
	})
	_, err := svc.LogEvent(context.Background(), student(), args)
	require.Error(t, err)
	assert.Equal(t, "Unable to convert argument correct to an integer.", err.Error())

	// The log row precedes per-event validation.
	assert.EqualValues(t, 1, countRows(t, db, &model.Useinfo{}))
	assert.EqualValues(t, 0, countRows(t, db, &model.TimedExam{}))
}

// Omitting time falls back to zero rather than rejecting; older book builds
// never send it.
func TestTimedExamTimeDefault(t *testing.T) {
	svc, db := newEventService(t)

	args := eventArgs("timedExam", map[string]string{
		"act": "finish", "correct": "7", "incorrect": "2", "skipped": "1",
	})
	outcome, err := svc.LogEvent(context.Background(), student(), args)
	require.NoError(t, err)
	assert.True(t, outcome.Logged)

	var row model.TimedExam
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, 0, row.TimeTaken)
}
