package bench

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayEnviron(t *testing.T) {
	sep := string(os.PathListSeparator)
	base := []string{"PATH=/usr/bin" + sep + "/bin", "MKL_NUM_THREADS=8", "LANG=C"}
	snapshot := append([]string(nil), base...)

	o := NewOverlay([]string{"/usr/lib/ccache"}, []string{"OPENBLAS_NUM_THREADS", "MKL_NUM_THREADS"}, map[string]string{"ASV_CONFIG": "asv.conf.json"})
	env := o.Environ(base)

	assert.Equal(t, snapshot, base, "the inherited environment is never modified")
	assert.Equal(t, []string{
		"LANG=C",
		"PATH=/usr/lib/ccache" + sep + "/usr/bin" + sep + "/bin",
		"ASV_CONFIG=asv.conf.json",
		"MKL_NUM_THREADS=1",
		"OPENBLAS_NUM_THREADS=1",
	}, env)
}

func TestOverlayWithoutInheritedPath(t *testing.T) {
	o := NewOverlay([]string{"/opt/cache"}, nil, nil)
	assert.Equal(t, []string{"PATH=/opt/cache"}, o.Environ(nil))

	empty := NewOverlay(nil, nil, nil)
	assert.Empty(t, empty.Environ(nil))
}

func TestOverlayExtraPinsOverrideThreadVars(t *testing.T) {
	o := NewOverlay(nil, []string{"OMP_NUM_THREADS"}, map[string]string{"OMP_NUM_THREADS": "2"})
	assert.Equal(t, "2", o.Set["OMP_NUM_THREADS"])
}
