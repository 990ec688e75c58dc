package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPreferenceRequestNormalize(t *testing.T) {
	req := SetPreferenceRequest{
		Activities: []string{" Golf ", "golf", "", "Café"},
		Interests:  nil,
	}
	req.Normalize()

	assert.Equal(t, []string{"Golf", "Café"}, req.Activities)
	assert.NotNil(t, req.Interests)
	assert.Empty(t, req.Interests)
}
