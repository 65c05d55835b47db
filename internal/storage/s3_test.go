package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageKey(t *testing.T) {
	key := PageKey("c1", "https://a.example/post")

	assert.Contains(t, key, "pages/c1/")
	assert.Contains(t, key, ".html")
}

func TestPageKey_StablePerURL(t *testing.T) {
	a := PageKey("c1", "https://a.example/post")
	b := PageKey("c1", "https://a.example/post")
	c := PageKey("c1", "https://a.example/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPageKey_ScopedByCompany(t *testing.T) {
	a := PageKey("c1", "https://a.example/post")
	b := PageKey("c2", "https://a.example/post")

	assert.NotEqual(t, a, b)
}
