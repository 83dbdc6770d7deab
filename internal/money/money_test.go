package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		0:       "R$ 0,00",
		25:      "R$ 25,00",
		130:     "R$ 130,00",
		18.5:    "R$ 18,50",
		1234.56: "R$ 1.234,56",
		1e6:     "R$ 1.000.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Format(in), "Format(%v)", in)
	}
}

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 50.0, Subtotal(2, 25))
	assert.Equal(t, 0.3, Subtotal(3, 0.1))
	assert.Equal(t, 120.0, Subtotal(1, 120))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum())
	assert.Equal(t, 130.0, Sum(50, 80))
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
}
