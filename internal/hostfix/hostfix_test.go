package hostfix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ini  string
		want string
	}{
		{
			name: "crlf file",
			ini:  "[General]\r\nversion=2.5\r\n[Plugins]\r\nPython%20Proxy\\tryInit=true\r\nother=true\r\n",
			want: "[General]\r\nversion=2.5\r\n[Plugins]\r\nPython%20Proxy\\tryInit=false\r\nother=true\r\n",
		},
		{
			name: "whole line replaced, last line without newline",
			ini:  "[Plugins]\n  Python%20Proxy\\tryInit=true ; retry\nPython%20Proxy\\tryInit=true",
			want: "[Plugins]\nPython%20Proxy\\tryInit=false\nPython%20Proxy\\tryInit=false",
		},
		{
			name: "already disabled",
			ini:  "[Plugins]\nPython%20Proxy\\tryInit=false\n",
			want: "[Plugins]\nPython%20Proxy\\tryInit=false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			ini := filepath.Join(dir, IniFile)
			require.NoError(t, os.WriteFile(ini, []byte(tt.ini), 0o600))
			require.NoError(t, os.WriteFile(filepath.Join(dir, LoadCheckFile), []byte("x"), 0o600))

			err := ModOrganizer{Dir: dir, Log: testr.New(t)}.Apply(context.Background())
			require.NoError(t, err)

			data, err := os.ReadFile(ini)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.NoFileExists(t, filepath.Join(dir, LoadCheckFile))
		})
	}
}

func TestApply_NothingToDo(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ModOrganizer{Dir: t.TempDir()}.Apply(context.Background()))
}

func TestApply_UnchangedFileNotRewritten(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ini := filepath.Join(dir, IniFile)
	require.NoError(t, os.WriteFile(ini, []byte("[General]\n"), 0o400))

	// a read-only file only fails if it is written
	assert.NoError(t, ModOrganizer{Dir: dir}.Apply(context.Background()))
}
