package postgres

import (
	"database/sql"
	"math"
	"testing"

	"github.com/hooplytics/hooprank/internal/domain/ranking"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation rankings does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation rankings does not exist")
		if isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestNullFloatRoundTrip(t *testing.T) {
	t.Run("value survives", func(t *testing.T) {
		got := floatOrNaN(nullFloat(31.5))
		if got != 31.5 {
			t.Fatalf("expected 31.5, got %v", got)
		}
	})

	t.Run("nan maps to null and back", func(t *testing.T) {
		nv := nullFloat(math.NaN())
		if nv.Valid {
			t.Fatalf("expected NULL for NaN")
		}
		if !math.IsNaN(floatOrNaN(sql.NullFloat64{})) {
			t.Fatalf("expected NaN for NULL")
		}
	})
}

func TestAverageOf(t *testing.T) {
	item := ranking.RankedPlayer{
		Averages: map[string]float64{ranking.CategoryPoints: 27.5},
	}

	t.Run("present category", func(t *testing.T) {
		if got := averageOf(item, ranking.CategoryPoints); got != 27.5 {
			t.Fatalf("expected 27.5, got %v", got)
		}
	})

	t.Run("absent category is NaN", func(t *testing.T) {
		if !math.IsNaN(averageOf(item, ranking.CategoryFTPct)) {
			t.Fatalf("expected NaN for a category with no recorded mean")
		}
	})

	t.Run("nil averages map is NaN", func(t *testing.T) {
		if !math.IsNaN(averageOf(ranking.RankedPlayer{}, ranking.CategoryPoints)) {
			t.Fatalf("expected NaN when no averages are attached")
		}
	})
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
