package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBloodGroup(t *testing.T) {
	for _, valid := range []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"} {
		group, err := ParseBloodGroup(valid)
		assert.NoError(t, err)
		assert.Equal(t, BloodGroup(valid), group)
	}

	for _, invalid := range []string{"", "C+", "O", "ab+", "O+ ", "AB"} {
		_, err := ParseBloodGroup(invalid)
		assert.ErrorIs(t, err, ErrValidation, "%q should not parse", invalid)
	}
}
