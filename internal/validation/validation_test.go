package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("vet_filmmaker_1"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has spaces"))
	assert.Error(t, ValidateUsername("way-too-long-username-that-exceeds-the-thirty-char-limit"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("producer@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Name <producer@example.com>"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("sturdy-pass1"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("nodigitshere"))
	assert.Error(t, ValidatePassword("12345678"))
}

func TestValidateServiceBranch(t *testing.T) {
	assert.NoError(t, ValidateServiceBranch("Army"))
	assert.NoError(t, ValidateServiceBranch(" coast guard "))
	assert.Error(t, ValidateServiceBranch("starfleet"))
}
