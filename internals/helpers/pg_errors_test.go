package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pq 23505", &pq.Error{Code: "23505"}, true},
		{"pq 23505 terbungkus", fmt.Errorf("create sesi: %w", &pq.Error{Code: "23505", Constraint: "uq_payment_sessions_live"}), true},
		{"pq kode lain", &pq.Error{Code: "23503"}, false},
		{"pesan pgx", errors.New(`ERROR: duplicate key value violates unique constraint "uq_payment_sessions_live" (SQLSTATE 23505)`), true},
		{"error biasa", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(errors.New(`insert or update violates foreign key constraint (SQLSTATE 23503)`)))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}
