package benchbar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	out := &bytes.Buffer{}
	bar := NewBar("Inserting 3 users", 3, out)

	bar.Inc()
	bar.Inc()
	assert.Equal(t, 2, bar.Done())

	bar.Inc()
	bar.Finish()
	assert.Equal(t, 3, bar.Done())
	assert.Contains(t, out.String(), "Inserting 3 users")
}
