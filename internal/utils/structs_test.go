package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Skipped  string `db:"-"`
	Untagged string
	hidden   string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, StructTagValues(row{}))
	assert.Equal(t, []string{"id", "name"}, StructTagValues(&row{}))
	assert.Panics(t, func() { StructTagValues("nope") })
}

func TestStructToMap(t *testing.T) {
	got := StructToMap(&row{ID: "a", Name: "b", Skipped: "c", hidden: "d"})
	assert.Equal(t, map[string]any{"id": "a", "name": "b"}, got)
}

func TestExcludedAssignments(t *testing.T) {
	got := ExcludedAssignments([]string{"user_id", "step", "id", "responses"}, "id", "user_id")
	assert.Equal(t, "responses = excluded.responses, step = excluded.step", got)
}

func TestNanoID(t *testing.T) {
	id := NanoID()
	assert.Len(t, id, RecordIDSize)
	assert.NotEqual(t, id, NanoID())
	assert.Len(t, NanoIDSize(8), 8)
}
