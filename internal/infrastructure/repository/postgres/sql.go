package postgres

import (
	"database/sql"
	"math"
	"strings"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// isBindParameterMismatch detects the 08P01 protocol violation some pooled
// connections raise when extended-protocol binds hit a recycled statement.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	return strings.Contains(msg, "bind message supplies") &&
		strings.Contains(msg, "parameters, but prepared statement")
}

// isUnnamedPreparedStatementMissing detects 26000 errors from transaction
// pooling modes that drop unnamed prepared statements between calls.
func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	return strings.Contains(msg, "unnamed prepared statement does not exist") ||
		strings.Contains(msg, "(26000)")
}

// nullFloat maps NaN stat cells to SQL NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: v, Valid: true}
}

// floatOrNaN maps SQL NULL stat cells back to NaN.
func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}
