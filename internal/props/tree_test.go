package props

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	tree := New()

	_, err := tree.Get("velocities/vt-fps")
	assert.ErrorIs(t, err, ErrUnknownProperty)

	tree.Set("velocities/vt-fps", 168.781)
	v, err := tree.Get("velocities/vt-fps")
	require.NoError(t, err)
	assert.Equal(t, 168.781, v)

	tree.Set("velocities/vt-fps", 170)
	assert.Equal(t, 170.0, tree.Value("velocities/vt-fps"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ic/vt-fps", "ic/vt-fps"},
		{"/ic/vt-fps", "ic/vt-fps"},
		{"/fdm/jsbsim/ic/vt-fps", "ic/vt-fps"},
		{"  attitude/psi-deg ", "attitude/psi-deg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}

	assert.Equal(t, "/fdm/jsbsim/ic/vt-fps", Absolute("/ic/vt-fps"))
}

func TestPrefixedAccessSharesValue(t *testing.T) {
	tree := New()
	tree.Set("/fdm/jsbsim/position/h-sl-ft", 4000)
	assert.True(t, tree.Has("position/h-sl-ft"))
	assert.Equal(t, 4000.0, tree.Value("/position/h-sl-ft"))
}

func TestSetDefault(t *testing.T) {
	tree := New()
	tree.Set("fcs/throttle-cmd-norm", 0.6)
	tree.SetDefault("fcs/throttle-cmd-norm", 0)
	tree.SetDefault("fcs/elevator-cmd-norm", 0)

	assert.Equal(t, 0.6, tree.Value("fcs/throttle-cmd-norm"))
	assert.True(t, tree.Has("fcs/elevator-cmd-norm"))
}

func TestPathsAndQuery(t *testing.T) {
	tree := New()
	for _, p := range []string{"velocities/vt-fps", "ic/vt-fps", "attitude/phi-deg", "ic/phi-deg"} {
		tree.Set(p, 1)
	}

	assert.Equal(t, []string{"attitude/phi-deg", "ic/phi-deg", "ic/vt-fps", "velocities/vt-fps"}, tree.Paths())
	assert.Equal(t, []string{"ic/vt-fps", "velocities/vt-fps"}, tree.Query("vt-fps"))
	assert.Len(t, tree.Query(""), 4)
	assert.Len(t, tree.Subtree("ic"), 2)
	assert.Len(t, tree.Subtree("ic/"), 2)
}

func TestSnapshotRestore(t *testing.T) {
	tree := New()
	tree.Set("a/b", 1)
	snap := tree.Snapshot()

	tree.Set("a/b", 2)
	tree.Set("a/c", 3)
	tree.Restore(snap)

	assert.Equal(t, 1.0, tree.Value("a/b"))
	assert.False(t, tree.Has("a/c"))

	tree.Delete("a/b")
	assert.Equal(t, 0, tree.Len())
}

func TestMarshalJSON_Ordered(t *testing.T) {
	tree := New()
	tree.Set("velocities/vt-fps", 100)
	tree.Set("attitude/theta-deg", 2.5)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, `{"attitude/theta-deg":2.5,"velocities/vt-fps":100}`, string(data))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Set("simulation/sim-time-sec", 1)
	assert.False(t, b.Has("simulation/sim-time-sec"))
}
