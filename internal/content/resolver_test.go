package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curriculab/studio/internal/model"
)

func TestLinkFor(t *testing.T) {
	r := NewResolver("https://studio.example")
	link := r.LinkFor(&model.Activity{ID: 42})
	assert.Equal(t, "https://studio.example/activity/42/shared", link)
}

func TestLinkForTrimsTrailingSlash(t *testing.T) {
	r := NewResolver("https://studio.example/")
	link := r.LinkFor(&model.Activity{ID: 42})
	assert.Equal(t, "https://studio.example/activity/42/shared", link)
}
