package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialMatch(t *testing.T) {
	hash := credentialHash("secret", "hunter2")

	assert.True(t, credentialMatch("secret", "hunter2", hash))
	assert.False(t, credentialMatch("secret", "letmein", hash))
	assert.False(t, credentialMatch("othersecret", "hunter2", hash))
	assert.False(t, credentialMatch("secret", "", hash))
}

func TestCredentialHashDeterministic(t *testing.T) {
	assert.Equal(t, credentialHash("secret", "hunter2"), credentialHash("secret", "hunter2"))
	assert.NotEqual(t, credentialHash("secret", "hunter2"), credentialHash("secret", "hunter3"))
}
