package commons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAccountRecord(t *testing.T) {
	assert := assert.New(t)

	rec, err := NewAccountRecord("111111111111", "PlatformAdministratorAccess")
	assert.NoError(err)
	assert.Equal("arn:aws:iam::111111111111:role/PlatformAdministratorAccess", rec.RoleArn())
}

func TestNewAccountRecordRejectsBadInput(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		id   string
		role string
	}{
		{"", "PlatformAdministratorAccess"},
		{"1234", "PlatformAdministratorAccess"},
		{"1111111111111", "PlatformAdministratorAccess"},
		{"11111111111a", "PlatformAdministratorAccess"},
		{"111111111111", ""},
	}
	for _, c := range cases {
		_, err := NewAccountRecord(c.id, c.role)
		assert.Error(err, "id=%q role=%q", c.id, c.role)
	}
}

func TestResolveAccount(t *testing.T) {
	assert := assert.New(t)

	mapping := map[Environment]PublishedAccount{
		Dev:  {ID: "111111111111", RoleArn: "arn:aws:iam::111111111111:role/PlatformAdministratorAccess"},
		Prod: {ID: "333333333333", RoleArn: "arn:aws:iam::333333333333:role/PlatformAdministratorAccess"},
	}

	rec, err := ResolveAccount(mapping, Dev)
	assert.NoError(err)
	assert.Equal("111111111111", rec.ID)

	// Same mapping, same environment, same record. Resolution has no state.
	again, err := ResolveAccount(mapping, Dev)
	assert.NoError(err)
	assert.Equal(rec, again)
}

func TestResolveAccountMissingEnvironment(t *testing.T) {
	assert := assert.New(t)

	mapping := map[Environment]PublishedAccount{
		Dev: {ID: "111111111111", RoleArn: "arn:aws:iam::111111111111:role/PlatformAdministratorAccess"},
	}

	_, err := ResolveAccount(mapping, Staging)
	assert.Error(err)
	assert.Contains(err.Error(), `"staging"`)
}

func TestResolveAccountIncompleteRecord(t *testing.T) {
	assert := assert.New(t)

	mapping := map[Environment]PublishedAccount{
		Dev: {ID: "111111111111"},
	}

	_, err := ResolveAccount(mapping, Dev)
	assert.Error(err)
}
