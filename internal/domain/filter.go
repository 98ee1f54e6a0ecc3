package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
)

type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of field conditions. The zero value matches every document.
type Filter []Condition

func Eq(field string, v any) Condition  { return Condition{Field: field, Op: OpEq, Value: v} }
func Gte(field string, v any) Condition { return Condition{Field: field, Op: OpGte, Value: v} }

// Key renders the filter deterministically for cache keys. Field names and values are
// quoted, so separators inside a value cannot make two different filters share a key.
func (f Filter) Key() string {
	if len(f) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(f))
	for _, c := range f {
		parts = append(parts, strconv.Quote(c.Field)+":"+string(c.Op)+":"+keyValue(c.Value))
	}
	return strings.Join(parts, ",")
}

// keyValue encodes v as JSON; strings come out quoted and escaped, numbers bare.
func keyValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return strconv.Quote(fmt.Sprintf("%T:%v", v, v))
	}
	return string(b)
}
