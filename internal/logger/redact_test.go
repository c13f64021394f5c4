package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "************4242", MaskCardNumber("4242424242424242"))
	assert.Equal(t, "************4242", MaskCardNumber("4242 4242 4242 4242"))
	assert.Equal(t, "****", MaskCardNumber("4242"))
	assert.Equal(t, "", MaskCardNumber(""))
}

func TestMaskCVV(t *testing.T) {
	assert.Equal(t, "***", MaskCVV("123"))
	assert.Equal(t, "****", MaskCVV("1234"))
}

func TestMaskTaxID(t *testing.T) {
	assert.Equal(t, "*********25", MaskTaxID("52998224725"))
	assert.Equal(t, "*********25", MaskTaxID("529.982.247-25"))
	assert.Equal(t, "**", MaskTaxID("25"))
}

func TestMaskName(t *testing.T) {
	assert.Equal(t, "M**** S****", MaskName("Maria Silva"))
	assert.Equal(t, "J*** d* S****", MaskName("João da Silva"))
	assert.Equal(t, "", MaskName(""))
}
