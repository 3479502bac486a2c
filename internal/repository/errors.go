package repository

import (
	"regexp"
	"strings"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
)

// CodeUniqueViolation is the SQLSTATE both PostgreSQL drivers report for a
// unique index violation.
const CodeUniqueViolation = "23505"

// Key (email)=(jane@x.com) already exists.
var keyDetail = regexp.MustCompile(`^Key \((.+?)\)=\((.*)\) already exists\.?$`)

// lower((email)::text) or lower(email::text), as reported for expression indexes.
var lowerKey = regexp.MustCompile(`^lower\(\(?(\w+)\)?(?:::\w+)?\)$`)

// UniqueViolation converts the detail line of a PostgreSQL unique violation on
// table into a conflict naming the duplicate column and value.
func UniqueViolation(table, detail string, err error) *apperror.Error {
	field, value := "key", ""
	if m := keyDetail.FindStringSubmatch(strings.TrimSpace(detail)); m != nil {
		field, value = m[1], m[2]
		if k := lowerKey.FindStringSubmatch(field); k != nil {
			field = k[1]
		}
	}
	conflict := apperror.Conflict(table, field, value)
	conflict.Err = err
	return conflict
}
