package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "tflite error", TfliteError.String())
	assert.Equal(t, "status(-42)", Status(-42).String())
}
