package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSearchRequest_SetsDefaults(t *testing.T) {
	req := NewSearchRequest("kubernetes", 1, 4)

	assert.Equal(t, "kubernetes", req.Query)
	assert.Equal(t, []int{1, 4}, req.PodcastIDs)
	assert.Equal(t, 50, req.TitleWeight)
	assert.Equal(t, 50, req.DescriptionWeight)
	assert.Equal(t, 10, req.CapNMatches)
}

func TestNewSearchRequest_NoPodcastsIsEmptyNotNil(t *testing.T) {
	// The endpoint requires podcast_ids; an absent list must encode as [].
	req := NewSearchRequest("")
	assert.NotNil(t, req.PodcastIDs)
	assert.Empty(t, req.PodcastIDs)
}
