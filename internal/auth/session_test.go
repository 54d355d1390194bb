package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Login(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "correct key", key: "admin123"},
		{name: "surrounding whitespace", key: "  admin123\n"},
		{name: "wrong key", key: "admin", wantErr: ErrInvalidKey},
		{name: "empty key", key: "", wantErr: ErrInvalidKey},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			session := NewSession("admin123", nil)
			err := session.Login(testCase.key)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.False(t, session.IsAuthenticated())
				assert.Empty(t, session.AdminKey())
				return
			}
			require.NoError(t, err)
			assert.True(t, session.IsAuthenticated())
			assert.Equal(t, "admin123", session.AdminKey())
		})
	}
}

func TestSession_NoConfiguredKeyRejectsEverything(t *testing.T) {
	session := NewSession("", nil)
	assert.ErrorIs(t, session.Login(""), ErrInvalidKey)
	assert.ErrorIs(t, session.Login("anything"), ErrInvalidKey)
}

func TestSession_PersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session")
	store := FileStore{Path: path}

	first := NewSession("admin123", store)
	require.NoError(t, first.Login("admin123"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "admin123", string(data))

	second := NewSession("admin123", store)
	require.NoError(t, second.Restore())
	assert.Equal(t, "admin123", second.AdminKey())

	require.NoError(t, second.Logout())
	assert.False(t, second.IsAuthenticated())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	third := NewSession("admin123", store)
	require.NoError(t, third.Restore())
	assert.False(t, third.IsAuthenticated())
}

func TestSession_RestoreDiscardsRotatedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("old-key"), 0o600))

	session := NewSession("new-key", FileStore{Path: path})
	require.NoError(t, session.Restore())

	assert.False(t, session.IsAuthenticated())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSession_Authorize(t *testing.T) {
	session := NewSession("admin123", nil)
	assert.False(t, session.Authorize("admin123"))

	require.NoError(t, session.Login("admin123"))

	tests := []struct {
		key  string
		want bool
	}{
		{key: "admin123", want: true},
		{key: "admin12", want: false},
		{key: "admin1234", want: false},
		{key: "", want: false},
	}
	for _, testCase := range tests {
		t.Run(testCase.key, func(t *testing.T) {
			assert.Equal(t, testCase.want, session.Authorize(testCase.key))
		})
	}

	require.NoError(t, session.Logout())
	assert.False(t, session.Authorize("admin123"))
}
