package u

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n   int64
		exp string
	}{
		{0, "0 bytes"},
		{1023, "1023 bytes"},
		{1024, "1 kB"},
		{1536, "1.50 kB"},
		{1024 * 1024, "1 MB"},
		{3 * 1024 * 1024 * 1024, "3 GB"},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, FormatSize(test.n))
	}
}

func TestParseAssignments(t *testing.T) {
	m, err := ParseAssignments([]string{"name=John Smith", " email =j@x.com", "phone_number=", "name=Mary=Jane"})
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":         "Mary=Jane",
		"email":        "j@x.com",
		"phone_number": "",
	}, m)
	assert.Equal(t, []string{"email", "name", "phone_number"}, SortedKeys(m))

	_, err = ParseAssignments([]string{"name"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"=x"})
	assert.Error(t, err)
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	assert.False(t, FileExists(path))
	assert.Equal(t, int64(-1), FileSize(path))

	err := os.WriteFile(path, []byte("hello"), 0644)
	assert.NoError(t, err)
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.Equal(t, int64(5), FileSize(path))
}

func TestExpandTildeInPath(t *testing.T) {
	assert.Equal(t, "/abs/path", ExpandTildeInPath("/abs/path"))
	assert.Equal(t, "~user/x", ExpandTildeInPath("~user/x"))
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	assert.Equal(t, filepath.Join(home, "db", "x.txt"), ExpandTildeInPath("~/db/x.txt"))
}

func TestMust(t *testing.T) {
	Must(nil)
	defer func() {
		r := recover()
		assert.NotNil(t, r)
	}()
	Must(os.ErrNotExist)
}
