package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"s3sync/internal/fsys"
	"s3sync/internal/model"
	"s3sync/internal/storage"

	"github.com/stretchr/testify/require"
)

type fakeFS struct {
	entries []fsys.Entry
	files   map[string][]byte
	listErr error
	missing bool
}

func (f *fakeFS) ListDir(path string) ([]fsys.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (f *fakeFS) DirExists(path string) bool {
	return !f.missing
}

type put struct {
	bucket, key, contentType string
	size                     int
}

type fakeStorage struct {
	storage.Client
	puts     []put
	failKeys map[string]bool
}

func (f *fakeStorage) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if f.failKeys[key] {
		return &storage.OpError{Op: "put object", Bucket: bucket, Key: key, Err: errors.New("access denied")}
	}
	f.puts = append(f.puts, put{bucket: bucket, key: key, contentType: contentType, size: len(body)})
	return nil
}

func testJob(prefix string) model.SyncJob {
	return model.SyncJob{
		ID:              "job-1",
		LocalFolderPath: "/data/photos",
		BucketName:      "backups",
		Prefix:          prefix,
		SyncTime:        model.ClockTime{Hour: 3},
		IsEnabled:       true,
	}
}

func TestRunPartialFailure(t *testing.T) {
	fs := &fakeFS{
		entries: []fsys.Entry{
			{Name: "a.txt"},
			{Name: "b.txt"},
			{Name: "c.txt"},
		},
		files: map[string][]byte{
			"/data/photos/a.txt": []byte("aaa"),
			"/data/photos/b.txt": []byte("bbbb"),
			"/data/photos/c.txt": []byte("cc"),
		},
	}
	st := &fakeStorage{failKeys: map[string]bool{"b.txt": true}}

	result := New(st, fs).Run(context.Background(), testJob(""))

	require.True(t, result.Success, "per-file failures must not fail the run")
	require.Len(t, result.Details, 3)
	require.Equal(t, 2, result.Uploaded)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, "succeeded 2, failed 1", result.Status)

	var failedLines int
	for _, line := range result.Details {
		if strings.HasPrefix(line, "failed ") {
			failedLines++
		}
	}
	require.Equal(t, 1, failedLines)
}

func TestRunUnreadableFolder(t *testing.T) {
	fs := &fakeFS{listErr: errors.New("permission denied")}
	st := &fakeStorage{}

	result := New(st, fs).Run(context.Background(), testJob(""))

	require.False(t, result.Success)
	require.Empty(t, result.Details)
	require.Contains(t, result.Status, "permission denied")
	require.Empty(t, st.puts, "no uploads after a top-level failure")
}

func TestRunMissingFolder(t *testing.T) {
	fs := &fakeFS{missing: true}
	st := &fakeStorage{}

	result := New(st, fs).Run(context.Background(), testJob(""))

	require.False(t, result.Success)
	require.Empty(t, result.Details)
	require.Contains(t, result.Status, "not a readable directory")
	require.Empty(t, st.puts)
}

func TestRunSkipsDirectories(t *testing.T) {
	fs := &fakeFS{
		entries: []fsys.Entry{
			{Name: "sub", IsDir: true},
			{Name: "file.txt"},
		},
		files: map[string][]byte{
			"/data/photos/file.txt": []byte("data"),
		},
	}
	st := &fakeStorage{}

	result := New(st, fs).Run(context.Background(), testJob(""))

	require.True(t, result.Success)
	require.Len(t, result.Details, 1)
	require.Len(t, st.puts, 1)
	require.Equal(t, "file.txt", st.puts[0].key)
}

func TestRunKeyBuilding(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantKey string
	}{
		{"empty prefix", "", "file.txt"},
		{"plain prefix", "backups", "backups/file.txt"},
		{"trailing slash kept as-is", "backups/", "backups//file.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeFS{
				entries: []fsys.Entry{{Name: "file.txt"}},
				files:   map[string][]byte{"/data/photos/file.txt": []byte("x")},
			}
			st := &fakeStorage{}

			result := New(st, fs).Run(context.Background(), testJob(tt.prefix))

			require.True(t, result.Success)
			require.Len(t, st.puts, 1)
			require.Equal(t, tt.wantKey, st.puts[0].key)
		})
	}
}

func TestRunUnreadableFileCountsAsFailure(t *testing.T) {
	fs := &fakeFS{
		entries: []fsys.Entry{{Name: "ghost.txt"}},
		files:   map[string][]byte{},
	}
	st := &fakeStorage{}

	result := New(st, fs).Run(context.Background(), testJob(""))

	require.True(t, result.Success)
	require.Equal(t, 0, result.Uploaded)
	require.Equal(t, 1, result.Failed)
	require.Empty(t, st.puts)
}

func TestRunSetsContentType(t *testing.T) {
	fs := &fakeFS{
		entries: []fsys.Entry{{Name: "page.html"}},
		files:   map[string][]byte{"/data/photos/page.html": []byte("<html/>")},
	}
	st := &fakeStorage{}

	New(st, fs).Run(context.Background(), testJob(""))

	require.Len(t, st.puts, 1)
	require.Contains(t, st.puts[0].contentType, "text/html")
}
