package commons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	assert := assert.New(t)

	for _, name := range []string{"dev", "staging", "prod", "qa-2"} {
		env, err := ParseEnvironment(name)
		assert.NoError(err)
		assert.Equal(Environment(name), env)
	}
}

func TestParseEnvironmentRejectsMalformedStackNames(t *testing.T) {
	assert := assert.New(t)

	for _, name := range []string{"", "Dev", "dev env", "prod_2", "stägîng"} {
		_, err := ParseEnvironment(name)
		assert.Error(err, "stack name %q", name)
	}
}

func TestEnvironmentsAreDistinct(t *testing.T) {
	assert := assert.New(t)

	seen := map[Environment]bool{}
	for _, env := range Environments() {
		assert.False(seen[env], "environment %q listed twice", env)
		seen[env] = true
	}
	assert.Len(seen, 3)
}
