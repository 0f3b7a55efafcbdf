package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func TestDailyFile(t *testing.T) {
	dir := t.TempDir()
	w := &dailyFile{Dir: filepath.Join(dir, "log")}
	assert.NoError(t, w.Write([]byte("line 1\n")))
	assert.NoError(t, w.Write([]byte("line 2\n")))
	assert.NoError(t, w.Close())
	// Close is idempotent
	assert.NoError(t, w.Close())
	// writing after Close reopens the file
	assert.NoError(t, w.Write([]byte("line 3\n")))
	assert.NoError(t, w.Close())

	d, err := os.ReadFile(dayFilePath(w.Dir, time.Now()))
	assert.NoError(t, err)
	assert.Equal(t, "line 1\nline 2\nline 3\n", string(d))

	var nilW *dailyFile
	assert.NoError(t, nilW.Write([]byte("ignored")))
	assert.NoError(t, nilW.Close())
}

func TestDayFilePath(t *testing.T) {
	tm := time.Date(2024, 1, 2, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, filepath.Join("logs", "2024-01-03.txt"), dayFilePath("logs", tm))
}

func TestMarshalEvent(t *testing.T) {
	tm := time.UnixMilli(1704067200000)
	d, err := MarshalEvent("contact.create", tm)
	assert.NoError(t, err)
	assert.Equal(t, "0 1704067200000 contact.create\n\n", string(d))

	d, err = MarshalEvent("contact.create", tm, "id", "id-1")
	assert.NoError(t, err)
	hdr, body, ok := strings.Cut(string(d), "\n")
	assert.True(t, ok)
	assert.True(t, strings.HasSuffix(hdr, " 1704067200000 contact.create"), hdr)
	assert.Contains(t, body, "id-1")

	_, err = MarshalEvent("bad", tm, "id")
	assert.Error(t, err)
	_, err = MarshalEvent("bad", tm, 1, "x")
	assert.Error(t, err)
}

func TestInitAndEvent(t *testing.T) {
	dir := t.TempDir()
	Init(&Config{Dir: dir})
	defer Close()

	Logf("hello %s\n", "world")
	Event("contact.delete", "id", "id-7")
	Close()

	now := time.Now()
	d, err := os.ReadFile(dayFilePath(filepath.Join(dir, "log"), now))
	assert.NoError(t, err)
	assert.Equal(t, "hello world\n", string(d))

	d, err = os.ReadFile(dayFilePath(filepath.Join(dir, "events"), now))
	assert.NoError(t, err)
	assert.Contains(t, string(d), "contact.delete")
	assert.Contains(t, string(d), "id-7")
}

func TestIfErrf(t *testing.T) {
	assert.False(t, IfErrf(nil))
	dir := t.TempDir()
	Init(&Config{Dir: dir})
	defer Close()
	assert.True(t, IfErrf(os.ErrNotExist, "failed with %s", "boom"))
	Close()

	d, err := os.ReadFile(dayFilePath(filepath.Join(dir, "errors"), time.Now()))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(d), "failed with boom\n"))
	assert.Contains(t, string(d), "log_test.go")
}
