package cccrack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_dump_path_passthrough(t *testing.T) {
	assert.Equal(t, "bits.log", dump_path("bits.log"))
}

func Test_dump_path_strftime(t *testing.T) {
	var expanded = dump_path("bits-%Y.log")

	assert.Contains(t, expanded, time.Now().Format("2006"))
	assert.NotContains(t, expanded, "%Y")
}

func Test_save_tagging(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "bits.log")

	require.NoError(t, save_tagging(path, []byte{1, 0, 1, 1, 0}))

	var data, err = os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "10110", string(data))
}
