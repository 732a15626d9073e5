package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")

	ErrCourseNotFound  = errors.New("course not found")
	ErrNotCourseOwner  = errors.New("not authorized to modify this course")
	ErrInstructorOwns  = errors.New("instructor still owns courses")
	ErrAlreadyEnrolled = errors.New("already enrolled")

	ErrLessonNotFound = errors.New("lesson not found")

	ErrQuizNotFound = errors.New("quiz not found")
	ErrQuizExists   = errors.New("quiz already exists for this lesson")
	ErrNoQuestions  = errors.New("quiz must contain at least one question")

	ErrAuditLogNotFound = errors.New("audit log not found")

	// ErrStoreUnavailable means the database could not be reached at all
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeErr wraps a persistence error with op, promoting connectivity failures
// to ErrStoreUnavailable so handlers can answer 503 instead of 500.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// errDBClosed is the message database/sql uses for a closed pool; the error value is unexported
const errDBClosed = "sql: database is closed"

func isUnavailable(err error) bool {
	if strings.Contains(err.Error(), errDBClosed) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
