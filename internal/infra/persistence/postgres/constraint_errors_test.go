package postgres

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "gorm translated", err: errors.Wrap(gorm.ErrDuplicatedKey, "insert"), want: true},
		{name: "pg unique violation", err: errors.WithStack(&pgconn.PgError{Code: pgerrcode.UniqueViolation}), want: true},
		{name: "pg not null violation", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}},
		{name: "record not found", err: gorm.ErrRecordNotFound},
		{name: "plain error", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintViolation(tt.err))
		})
	}
}
