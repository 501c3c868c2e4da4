package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTags_SkipsDanglingReferences(t *testing.T) {
	note := Note{ID: 1, Title: "n", Tags: []int{1, 2, 3}}
	tags := []Tag{{ID: 1, Name: "work"}, {ID: 3, Name: "home"}}

	resolved := ResolveTags(note, tags)

	assert.Equal(t, []Tag{{ID: 1, Name: "work"}, {ID: 3, Name: "home"}}, resolved)
}

func TestResolveTags_NoTags(t *testing.T) {
	assert.Empty(t, ResolveTags(Note{ID: 1}, []Tag{{ID: 1, Name: "x"}}))
	assert.Empty(t, ResolveTags(Note{ID: 1, Tags: []int{9}}, nil))
}
