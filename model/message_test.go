package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShivamB25/undiscord-cli/model"
)

func TestPageFlatten(t *testing.T) {
	page := &model.Page{Messages: [][]model.Message{
		{{ID: "1"}, {ID: "2"}},
		{},
		{{ID: "3"}},
	}}

	var ids []string
	for _, m := range page.Flatten() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)

	assert.Empty(t, (&model.Page{}).Flatten())
}

func TestCriteriaValues(t *testing.T) {
	criteria := model.Criteria{
		AuthorID:    "42",
		Content:     "hello",
		HasLink:     true,
		MinID:       "100",
		MaxID:       "200",
		IncludeNSFW: true,
	}

	v := criteria.Values(75)
	assert.Equal(t, "42", v.Get("author_id"))
	assert.Equal(t, "hello", v.Get("content"))
	assert.Equal(t, "link", v.Get("has"))
	assert.Equal(t, "100", v.Get("min_id"))
	assert.Equal(t, "200", v.Get("max_id"))
	assert.Equal(t, "true", v.Get("include_nsfw"))
	assert.Equal(t, "75", v.Get("offset"))
}

func TestCriteriaValuesOmitsUnset(t *testing.T) {
	v := model.Criteria{HasFile: true}.Values(0)

	assert.Equal(t, "file", v.Get("has"))
	assert.Equal(t, "0", v.Get("offset"))
	for _, key := range []string{"author_id", "content", "min_id", "max_id", "include_nsfw"} {
		assert.NotContains(t, v, key)
	}
}
