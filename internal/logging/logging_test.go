package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	f, err := os.Create(path)
	require.NoError(t, err)

	quiet := New(f, false)
	quiet.Debug("hidden")
	quiet.Info("shown", zap.String("person_id", "674004"))

	loud := New(f, true)
	loud.Debug("debug line")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INFO\tshown")
	require.Contains(t, out, `"person_id": "674004"`)
	require.Contains(t, out, "DEBUG\tdebug line")
	require.False(t, strings.Contains(out, "\x1b["), "files get no color codes")
}
