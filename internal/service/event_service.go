package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"textbook_backend/internal/model"
	"textbook_backend/internal/repository"
	"textbook_backend/internal/util"
	"textbook_backend/pkg/logger"
	"textbook_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LogOutcome is what one hsblog submission reports back. Logged mirrors the
// durability of the base Useinfo row. Error is the client-facing message;
// when empty the response omits the field entirely, which matters because an
// invalid timedExam act answers log=false with no error while an unknown
// event answers log=false with one.
type LogOutcome struct {
	Logged bool
	Error  string
}

type EventService struct {
	DB        *gorm.DB
	Courses   *repository.CourseRepository
	Questions *repository.QuestionRepository
	Useinfo   *repository.UseinfoRepository
	Answers   *repository.AnswerRepository
}

func NewEventService(db *gorm.DB, courses *repository.CourseRepository, questions *repository.QuestionRepository,
	useinfo *repository.UseinfoRepository, answers *repository.AnswerRepository) *EventService {
	return &EventService{
		DB:        db,
		Courses:   courses,
		Questions: questions,
		Useinfo:   useinfo,
		Answers:   answers,
	}
}

// LogEvent validates one submission and applies the persistence policy for
// its event kind. A *util.ValidationError return means the request was
// rejected before anything was written; any other error is a server fault.
func (s *EventService) LogEvent(ctx context.Context, subject Identity, args url.Values) (LogOutcome, error) {
	course, err := util.StringArg(args, "course", model.MaxCourseNameLen)
	if err != nil {
		return LogOutcome{}, err
	}
	known, err := s.Courses.Exists(course)
	if err != nil {
		return LogOutcome{}, err
	}
	if !known {
		return LogOutcome{}, util.NewValidationError("Unknown course %s.", course)
	}

	divID, err := util.StringArg(args, "div_id", model.MaxDivIDLen)
	if err != nil {
		return LogOutcome{}, err
	}
	known, err = s.Questions.ExistsByName(divID)
	if err != nil {
		return LogOutcome{}, err
	}
	if !known {
		return LogOutcome{}, util.NewValidationError("Unknown div_id %s.", divID)
	}

	event, err := util.StringArg(args, "event", model.MaxEventLen)
	if err != nil {
		return LogOutcome{}, err
	}
	act, err := util.StringArg(args, "act", model.MaxActLen, "")
	if err != nil {
		return LogOutcome{}, err
	}

	ts := time.Now()

	// The base log row is written for every validated request, authenticated
	// or not, even when the event kind later turns out to be unknown. The
	// log flag in the response reports exactly this row's durability.
	record := model.Useinfo{
		Timestamp: ts,
		Sid:       subject.Sid,
		Event:     event,
		Act:       act,
		DivID:     divID,
		CourseID:  course,
	}
	if err := s.Useinfo.Create(&record); err != nil {
		logger.Log.Error("failed to insert log record",
			zap.String("sid", subject.Sid), zap.String("course", course),
			zap.String("div_id", divID), zap.String("event", event),
			zap.String("act", act), zap.Error(err))
		monitoring.BookEventCounter.WithLabelValues(eventLabel(event), "failed").Inc()
		return LogOutcome{Logged: false, Error: "Unable to save log entry."}, nil
	}

	if !subject.Authenticated {
		monitoring.BookEventCounter.WithLabelValues(eventLabel(event), "anonymous").Inc()
		return LogOutcome{Logged: true}, nil
	}

	base := model.AnswerBase{
		Timestamp:  ts,
		DivID:      divID,
		Sid:        subject.Sid,
		CourseName: course,
	}

	var outcome LogOutcome
	switch event {
	case "timedExam":
		outcome, err = s.logTimedExam(ctx, base, act, args)
	case "mChoice", "fillb", "dragNdrop", "clickableArea", "parsons", "codelensq", "lp_build":
		outcome, err = s.logGradedAnswer(ctx, event, base, args)
	case "shortanswer":
		outcome, err = s.logShortAnswer(ctx, base, args)
	default:
		outcome = LogOutcome{Logged: false, Error: fmt.Sprintf("Unknown event %s.", event)}
	}
	if err != nil {
		return LogOutcome{}, err
	}

	label := "logged"
	if !outcome.Logged {
		label = "rejected"
	}
	monitoring.BookEventCounter.WithLabelValues(eventLabel(event), label).Inc()
	return outcome, nil
}

// logTimedExam applies the always-insert policy: one row per finish or
// reset, no dedup.
func (s *EventService) logTimedExam(ctx context.Context, base model.AnswerBase, act string, args url.Values) (LogOutcome, error) {
	if act != "finish" && act != "reset" {
		// A business-rule rejection, not a validation failure: the response
		// carries no error message. The base row above stays.
		return LogOutcome{Logged: false}, nil
	}

	correct, err := util.IntArg(args, "correct")
	if err != nil {
		return LogOutcome{}, err
	}
	incorrect, err := util.IntArg(args, "incorrect")
	if err != nil {
		return LogOutcome{}, err
	}
	skipped, err := util.IntArg(args, "skipped")
	if err != nil {
		return LogOutcome{}, err
	}
	timeTaken, err := util.IntArg(args, "time", 0)
	if err != nil {
		return LogOutcome{}, err
	}

	exam := model.TimedExam{
		AnswerBase: base,
		Correct:    correct,
		Incorrect:  incorrect,
		Skipped:    skipped,
		TimeTaken:  timeTaken,
		Reset:      model.TrueChar(act == "reset"),
	}
	if err := s.Answers.Create(s.DB.WithContext(ctx), &exam); err != nil {
		// The base row is durable, so log stays true; the exam row loss is a
		// server-side concern.
		logger.Log.Error("failed to insert a timed exam record",
			zap.String("sid", base.Sid), zap.String("course", base.CourseName),
			zap.String("div_id", base.DivID), zap.Error(err))
	}
	return LogOutcome{Logged: true}, nil
}

// logGradedAnswer applies the insert-if-not-already-correct policy shared by
// every question kind that knows a right answer. Once a correct row exists
// for the subject key, later submissions still log to Useinfo but add no
// answer row; getting it right after brute-forcing wrong answers is visible,
// re-submitting after a success is not.
func (s *EventService) logGradedAnswer(ctx context.Context, event string, base model.AnswerBase, args url.Values) (LogOutcome, error) {
	answerMax := model.MaxAnswerLen
	if event == "mChoice" {
		answerMax = model.MaxChoiceAnswerLen
	}
	answer, err := util.StringArg(args, "answer", answerMax)
	if err != nil {
		return LogOutcome{}, err
	}

	// The build-grade kind scores 0..100 instead of true/false.
	var correct model.CharBool
	var grade float64
	if event == "lp_build" {
		grade, err = util.FloatArg(args, "correct")
	} else {
		correct, err = util.BoolArg(args, "correct")
	}
	if err != nil {
		return LogOutcome{}, err
	}

	var source string
	if event == "parsons" || event == "codelensq" {
		source, err = util.StringArg(args, "source", model.MaxSourceLen)
		if err != nil {
			return LogOutcome{}, err
		}
	}

	var probe interface{}
	var row interface{}
	switch event {
	case "mChoice":
		probe = &model.MchoiceAnswer{}
		row = &model.MchoiceAnswer{AnswerBase: base, Answer: answer, Correct: correct}
	case "fillb":
		probe = &model.FitbAnswer{}
		row = &model.FitbAnswer{AnswerBase: base, Answer: answer, Correct: correct}
	case "dragNdrop":
		probe = &model.DragndropAnswer{}
		row = &model.DragndropAnswer{AnswerBase: base, Answer: answer, Correct: correct}
	case "clickableArea":
		probe = &model.ClickableareaAnswer{}
		row = &model.ClickableareaAnswer{AnswerBase: base, Answer: answer, Correct: correct}
	case "parsons":
		probe = &model.ParsonsAnswer{}
		row = &model.ParsonsAnswer{AnswerBase: base, Answer: answer, Correct: correct, Source: source}
	case "codelensq":
		probe = &model.CodelensAnswer{}
		row = &model.CodelensAnswer{AnswerBase: base, Answer: answer, Correct: correct, Source: source}
	case "lp_build":
		row = &model.LpAnswer{AnswerBase: base, Answer: answer, Correct: grade}
	}

	// The lookup and the insert form one read-then-write unit. Isolation is
	// whatever the database gives a single transaction; a student racing
	// themselves can in principle insert twice, which we accept.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alreadyCorrect bool
		var err error
		if event == "lp_build" {
			alreadyCorrect, err = s.Answers.HasFullGrade(tx, base.Sid, base.DivID, base.CourseName)
		} else {
			alreadyCorrect, err = s.Answers.HasCorrect(tx, probe, base.Sid, base.DivID, base.CourseName)
		}
		if err != nil {
			return err
		}
		if alreadyCorrect {
			return nil
		}
		return s.Answers.Create(tx, row)
	})
	if err != nil {
		logger.Log.Error("failed to record answer",
			zap.String("event", event), zap.String("sid", base.Sid),
			zap.String("div_id", base.DivID), zap.Error(err))
	}
	return LogOutcome{Logged: true}, nil
}

// logShortAnswer applies the merge policy: at most one row per subject key,
// holding the latest submission. Two or more existing rows mean the data is
// corrupt, and that fails the request loudly instead of guessing.
func (s *EventService) logShortAnswer(ctx context.Context, base model.AnswerBase, args url.Values) (LogOutcome, error) {
	answer, err := util.StringArg(args, "answer", model.MaxAnswerLen)
	if err != nil {
		return LogOutcome{}, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.Answers.FindShortanswers(tx, base.Sid, base.DivID, base.CourseName)
		if err != nil {
			return err
		}
		switch len(rows) {
		case 0:
			return s.Answers.Create(tx, &model.ShortanswerAnswer{AnswerBase: base, Answer: answer})
		case 1:
			rows[0].Answer = answer
			rows[0].Timestamp = base.Timestamp
			return s.Answers.Save(tx, &rows[0])
		default:
			return fmt.Errorf("%w: sid=%s div_id=%s course=%s rows=%d",
				util.ErrAnswerRowConflict, base.Sid, base.DivID, base.CourseName, len(rows))
		}
	})
	if err != nil {
		return LogOutcome{}, err
	}
	return LogOutcome{Logged: true}, nil
}

// eventLabel keeps metric cardinality bounded: only recognized kinds pass
// through as-is.
func eventLabel(event string) string {
	switch event {
	case "timedExam", "mChoice", "fillb", "dragNdrop", "clickableArea",
		"parsons", "codelensq", "lp_build", "shortanswer":
		return event
	default:
		return "unknown"
	}
}
