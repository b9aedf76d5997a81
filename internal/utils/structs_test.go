package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID      string  `db:"id"`
	Name    *string `db:"name"`
	Skipped string
	Ignored string `db:"-"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, StructTagValues(sample{}))
}

func TestStructToUpdateMapSkipsNil(t *testing.T) {
	values := StructToUpdateMap(sample{ID: "a"})
	assert.Equal(t, map[string]any{"id": "a"}, values)

	name := "Hope"
	values = StructToUpdateMap(&sample{Name: &name})
	assert.Contains(t, values, "name")
}

func TestMergeJSON(t *testing.T) {
	type role struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
	}
	type user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	merged, err := MergeJSON(&role{UserID: "u1", Name: "role"}, (*user)(nil), &user{ID: "u1", Name: "user"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user_id": "u1", "id": "u1", "name": "user"}, merged)
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, Unique([]string{"b", "", "a", "b"}))
	assert.Empty(t, Unique(nil))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25", FormatAmount(25))
	assert.Equal(t, "2.5", FormatAmount(2.5))
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	key := ObjectKey("donations", at, ".png")

	assert.Regexp(t, `^donations/\d+-[A-Za-z0-9_-]+\.png$`, key)
	assert.NotEqual(t, key, ObjectKey("donations", at, ".png"))
}
