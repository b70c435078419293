package nbastats

import (
	"math"
	"strconv"
	"strings"
)

// The provider answers every endpoint with the same envelope: a list of
// named result sets, each carrying parallel header and row arrays.
type resultSetsEnvelope struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (e resultSetsEnvelope) findSet(name string) (resultSet, bool) {
	for _, set := range e.ResultSets {
		if strings.EqualFold(strings.TrimSpace(set.Name), name) {
			return set, true
		}
	}
	if name == "" && len(e.ResultSets) > 0 {
		return e.ResultSets[0], true
	}
	return resultSet{}, false
}

// columnIndex maps upper-cased header names to row positions; endpoints are
// inconsistent about header casing.
func (s resultSet) columnIndex() map[string]int {
	index := make(map[string]int, len(s.Headers))
	for i, h := range s.Headers {
		index[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	return index
}

func cell(row []any, index map[string]int, column string) (any, bool) {
	i, ok := index[column]
	if !ok || i < 0 || i >= len(row) {
		return nil, false
	}
	return row[i], true
}

func cellString(row []any, index map[string]int, column string) string {
	v, ok := cell(row, index, column)
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

func cellInt64(row []any, index map[string]int, column string) int64 {
	v, ok := cell(row, index, column)
	if !ok || v == nil {
		return 0
	}
	switch typed := v.(type) {
	case float64:
		return int64(typed)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// cellFloat reports null and unparsable cells as NaN so downstream means can
// skip them.
func cellFloat(row []any, index map[string]int, column string) float64 {
	v, ok := cell(row, index, column)
	if !ok || v == nil {
		return math.NaN()
	}
	switch typed := v.(type) {
	case float64:
		return typed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return math.NaN()
		}
		return parsed
	default:
		return math.NaN()
	}
}
