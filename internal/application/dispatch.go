package application

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/uow"
)

// Procedure names accepted by Dispatch. The argument names, types and
// positional order of each CALL match the fixed server-side signatures.
const (
	ProcEnrollUser       = "sp_enroll_user"
	ProcDeleteCourse     = "sp_delete_course"
	ProcCompleteLesson   = "sp_complete_lesson"
	ProcSubmitAssignment = "sp_submit_assignment"
	ProcGradeSubmission  = "sp_grade_submission"
	ProcAddReview        = "sp_add_review"
	ProcProcessPayment   = "sp_process_payment"
	ProcNotify           = "sp_notify"
	ProcUpdateCourse     = "sp_update_course"
)

type enrollUserArgs struct {
	UserID   int64
	CourseID int64
}

type deleteCourseArgs struct {
	CourseID int64
	UserID   int64
}

type completeLessonArgs struct {
	UserID   int64
	LessonID int64
}

type submitAssignmentArgs struct {
	AssignmentID int64
	UserID       int64
	Content      string
}

type gradeSubmissionArgs struct {
	SubmissionID int64
	Score        float64
}

type addReviewArgs struct {
	CourseID int64
	UserID   int64
	Rating   float64
	Comment  string
}

type processPaymentArgs struct {
	UserID   int64
	CourseID int64
	Amount   float64
}

type notifyArgs struct {
	UserID  int64
	Message string
}

type updateCourseArgs struct {
	CourseID int64
	Title    string
	Price    float64
	UserID   int64
}

// Dispatch resolves name case-insensitively, coerces the caller-supplied
// arguments, and invokes the matching server-side procedure through u.
// Coercion failures surface as ErrInvalidArgument before any statement is
// issued; unregistered names surface as ErrUnknownProcedure.
func Dispatch(ctx context.Context, u *uow.UnitOfWork, name string, body map[string]any) error {
	switch strings.ToLower(name) {
	case ProcEnrollUser:
		var a enrollUserArgs
		r := newArgReader(body)
		a.UserID = r.id("userId")
		a.CourseID = r.id("courseId")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_enroll_user($1,$2)", a.UserID, a.CourseID)
		return err

	case ProcDeleteCourse:
		var a deleteCourseArgs
		r := newArgReader(body)
		a.CourseID = r.id("courseId")
		a.UserID = r.id("userId")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_delete_course($1,$2)", a.CourseID, a.UserID)
		return err

	case ProcCompleteLesson:
		var a completeLessonArgs
		r := newArgReader(body)
		a.UserID = r.id("userId")
		a.LessonID = r.id("lessonId")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_complete_lesson($1,$2)", a.UserID, a.LessonID)
		return err

	case ProcSubmitAssignment:
		var a submitAssignmentArgs
		r := newArgReader(body)
		a.AssignmentID = r.id("assignmentId")
		a.UserID = r.id("userId")
		a.Content = r.str("content")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_submit_assignment($1,$2,$3)", a.AssignmentID, a.UserID, a.Content)
		return err

	case ProcGradeSubmission:
		var a gradeSubmissionArgs
		r := newArgReader(body)
		a.SubmissionID = r.id("submissionId")
		a.Score = r.num("score")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_grade_submission($1,$2)", a.SubmissionID, a.Score)
		return err

	case ProcAddReview:
		var a addReviewArgs
		r := newArgReader(body)
		a.CourseID = r.id("courseId")
		a.UserID = r.id("userId")
		a.Rating = r.num("rating")
		a.Comment = r.text("comment")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_add_review($1,$2,$3,$4)", a.CourseID, a.UserID, a.Rating, a.Comment)
		return err

	case ProcProcessPayment:
		var a processPaymentArgs
		r := newArgReader(body)
		a.UserID = r.id("userId")
		a.CourseID = r.id("courseId")
		a.Amount = r.num("amount")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_process_payment($1,$2,$3)", a.UserID, a.CourseID, a.Amount)
		return err

	case ProcNotify:
		var a notifyArgs
		r := newArgReader(body)
		a.UserID = r.id("userId")
		a.Message = r.str("message")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_notify($1,$2)", a.UserID, a.Message)
		return err

	case ProcUpdateCourse:
		var a updateCourseArgs
		r := newArgReader(body)
		a.CourseID = r.id("courseId")
		a.Title = r.str("title")
		a.Price = r.num("price")
		a.UserID = r.id("userId")
		if err := r.err(); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "CALL sp_update_course($1,$2,$3,$4)", a.CourseID, a.Title, a.Price, a.UserID)
		return err

	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownProcedure, name)
	}
}

// argReader coerces named arguments out of a decoded JSON body, collecting the
// first failure so every field is validated before anything touches the store.
type argReader struct {
	body    map[string]any
	failure error
}

func newArgReader(body map[string]any) *argReader {
	return &argReader{body: body}
}

func (r *argReader) fail(key, reason string) {
	if r.failure == nil {
		r.failure = fmt.Errorf("%w: %s %s", domain.ErrInvalidArgument, key, reason)
	}
}

// id requires a whole number: a fractional value would truncate to a
// different row's identifier, so it fails coercion instead.
func (r *argReader) id(key string) int64 {
	n, ok := toNumber(r.body[key])
	if !ok {
		r.fail(key, "must be a number")
		return 0
	}
	if n != math.Trunc(n) {
		r.fail(key, "must be an integer")
		return 0
	}
	return int64(n)
}

func (r *argReader) num(key string) float64 {
	n, ok := toNumber(r.body[key])
	if !ok {
		r.fail(key, "must be a number")
		return 0
	}
	return n
}

// str requires a non-empty string.
func (r *argReader) str(key string) string {
	s := r.text(key)
	if s == "" {
		r.fail(key, "must be a non-empty string")
	}
	return s
}

// text reads an optional string, defaulting to "".
func (r *argReader) text(key string) string {
	v, ok := r.body[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

func (r *argReader) err() error {
	return r.failure
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
