package testbed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/rhi/engine/core"
)

func TestInspectForwardScene(t *testing.T) {
	scene, err := LoadScene("testdata/forward.toml")
	require.NoError(t, err)

	report, err := NewInspector(nil).Inspect(scene)
	require.NoError(t, err)

	assert.Equal(t, "forward", report.Heap)
	assert.Equal(t, uint32(2), report.Sets)
	assert.Equal(t, 2*report.Stride, report.Bytes)
	require.Len(t, report.Segments, 2)
	assert.Len(t, report.Segments[0], 5)

	require.Len(t, report.Journal, 19)
	assert.Equal(t, []string{
		`PushDebugGroup "opaque pass"`,
		"SetPipelineState opaque compute=false",
		"SetViewports [{0 0 1280 720 0 1}]",
		"SetVertexBuffer slot=0 vbo offset=0",
		"vertex cbuffer-ranges @0 [frame frame] first=[0 16] num=[16 16]",
		"fragment cbuffer-ranges @0 [frame] first=[0] num=[16]",
		"fragment samplers @0 [linear]",
		"fragment srvs @0 [albedo.srv normal.view[mip 1+3, layer 0+1]]",
		"fragment uavs @0 [lights.uav] counts=[0]",
		"SetResourceHeap forward set=0",
		"Draw vertices=36 first=0",
	}, report.Journal[:11])
	assert.Equal(t, "vertex cbuffer-ranges @0 [frame frame] first=[32 48] num=[16 16]", report.Journal[11])
	assert.Equal(t, "fragment uavs @0 [lights.uav] counts=[-1]", report.Journal[15])
	assert.Equal(t, "PopDebugGroup", report.Journal[18])

	assert.Equal(t, uint64(9), report.Metrics.RecordsReplayed)
	assert.Equal(t, uint64(2), report.Metrics.DescriptorSetsSet)
	assert.Equal(t, uint64(10), report.Metrics.SegmentsBound)

	var out bytes.Buffer
	report.Print(&out)
	assert.Contains(t, out.String(), "heap forward: 2 descriptor set(s)")
	assert.Contains(t, out.String(), "normal.view[mip 1+3, layer 0+1]")
}

func TestInspectErrors(t *testing.T) {
	scene, err := LoadScene("testdata/forward.toml")
	require.NoError(t, err)
	scene.Features.ConstantBufferRanges = false
	_, err = NewInspector(nil).Inspect(scene)
	assert.ErrorIs(t, err, core.ErrFeatureUnsupported)

	scene, err = LoadScene("testdata/forward.toml")
	require.NoError(t, err)
	scene.Passes[0].Commands = append(scene.Passes[0].Commands, SceneCommand{Op: "Teleport"})
	_, err = NewInspector(nil).Inspect(scene)
	assert.ErrorContains(t, err, "Teleport")

	scene, err = LoadScene("testdata/forward.toml")
	require.NoError(t, err)
	scene.Passes[1].Commands = append(scene.Passes[1].Commands, SceneCommand{Op: "SetResourceHeap", Set: 7})
	_, err = NewInspector(nil).Inspect(scene)
	assert.ErrorContains(t, err, "descriptor set 7 out of range")

	scene, err = LoadScene("testdata/forward.toml")
	require.NoError(t, err)
	scene.Sets[1].Views[4].Resource = ""
	_, err = NewInspector(nil).Inspect(scene)
	assert.ErrorIs(t, err, core.ErrNullResource)
}

func TestParseScene(t *testing.T) {
	_, err := ParseScene([]byte(`name = "empty"`))
	assert.ErrorContains(t, err, "no bindings")

	_, err = ParseScene([]byte(`
name = "short"
[[bindings]]
name = "a"
type = "sampler"
stages = ["fragment"]
[[sets]]
views = []
`))
	assert.ErrorContains(t, err, "0 views for 1 bindings")

	scene, err := ParseScene([]byte(`
name = "bad"
[[bindings]]
type = "buffer"
flags = ["constant"]
stages = ["pixel"]
`))
	require.NoError(t, err)
	_, err = scene.Layout()
	assert.ErrorContains(t, err, "unknown shader stage 'pixel'")
}

func TestWatchReloadsScene(t *testing.T) {
	data, err := os.ReadFile("testdata/forward.toml")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loaded := make(chan *Scene, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(scene *Scene, err error) {
			if err == nil {
				loaded <- scene
			}
		})
	}()

	next := func() *Scene {
		select {
		case scene := <-loaded:
			return scene
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for the scene")
			return nil
		}
	}
	assert.Equal(t, "forward", next().Name)

	renamed := bytes.Replace(data, []byte(`name = "forward"`), []byte(`name = "deferred"`), 1)
	require.NoError(t, os.WriteFile(path, renamed, 0o644))
	for scene := next(); scene.Name != "deferred"; scene = next() {
	}

	cancel()
	assert.NoError(t, <-done)
}
