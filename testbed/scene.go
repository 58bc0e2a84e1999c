package testbed

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Scene is the TOML description of one heap and the commands recorded
// against it.
type Scene struct {
	Name      string          `toml:"name"`
	Features  *SceneFeatures  `toml:"features"`
	Resources []SceneResource `toml:"resources"`
	Pipelines []ScenePipeline `toml:"pipelines"`
	Bindings  []SceneBinding  `toml:"bindings"`
	Sets      []SceneSet      `toml:"sets"`
	Passes    []ScenePass     `toml:"passes"`
}

// SceneFeatures overrides the device section of the config.
type SceneFeatures struct {
	ConstantBufferRanges bool   `toml:"constant_buffer_ranges"`
	MaxSlots             uint32 `toml:"max_slots"`
}

type SceneResource struct {
	Name   string   `toml:"name"`
	Kind   string   `toml:"kind"`
	Size   uint64   `toml:"size"`
	Format uint32   `toml:"format"`
	Mips   uint32   `toml:"mips"`
	Layers uint32   `toml:"layers"`
	Flags  []string `toml:"flags"`
}

type ScenePipeline struct {
	Name    string `toml:"name"`
	Compute bool   `toml:"compute"`
}

type SceneBinding struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Flags  []string `toml:"flags"`
	Stages []string `toml:"stages"`
	Slot   uint32   `toml:"slot"`
	Array  uint32   `toml:"array"`
}

type SceneSet struct {
	Views []SceneView `toml:"views"`
}

// SceneView selects the resource bound to one binding and, optionally,
// the sub-resource it is viewed through.
type SceneView struct {
	Resource     string  `toml:"resource"`
	Format       uint32  `toml:"format"`
	Offset       uint64  `toml:"offset"`
	Size         uint64  `toml:"size"`
	BaseMip      uint32  `toml:"base_mip"`
	NumMips      uint32  `toml:"num_mips"`
	BaseLayer    uint32  `toml:"base_layer"`
	NumLayers    uint32  `toml:"num_layers"`
	InitialCount *uint32 `toml:"initial_count"`
}

// ScenePass is recorded into its own command buffer. Passes are
// recorded in parallel and submitted in declaration order.
type ScenePass struct {
	Name     string         `toml:"name"`
	Commands []SceneCommand `toml:"commands"`
}

// SceneCommand is one recorded command. Op is the opcode name; the
// remaining fields are read depending on the opcode.
type SceneCommand struct {
	Op       string    `toml:"op"`
	Resource string    `toml:"resource"`
	Pipeline string    `toml:"pipeline"`
	Name     string    `toml:"name"`
	Set      uint32    `toml:"set"`
	Args     []int64   `toml:"args"`
	Floats   []float32 `toml:"floats"`
}

func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

func ParseScene(data []byte) (*Scene, error) {
	var scene Scene
	if err := toml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if len(scene.Bindings) == 0 {
		return nil, fmt.Errorf("scene '%s' has no bindings", scene.Name)
	}
	for i, set := range scene.Sets {
		if len(set.Views) != len(scene.Bindings) {
			return nil, fmt.Errorf("scene '%s' set %d has %d views for %d bindings", scene.Name, i, len(set.Views), len(scene.Bindings))
		}
	}
	return &scene, nil
}

var bindFlagNames = map[string]metadata.BindFlags{
	"vertex":        metadata.BindVertexBuffer,
	"index":         metadata.BindIndexBuffer,
	"constant":      metadata.BindConstantBuffer,
	"stream-output": metadata.BindStreamOutputBuffer,
	"indirect":      metadata.BindIndirectBuffer,
	"sampled":       metadata.BindSampled,
	"storage":       metadata.BindStorage,
}

var stageNames = map[string]metadata.StageFlags{
	"vertex":          metadata.StageVertex,
	"tess-control":    metadata.StageTessControl,
	"tess-evaluation": metadata.StageTessEvaluation,
	"geometry":        metadata.StageGeometry,
	"fragment":        metadata.StageFragment,
	"compute":         metadata.StageCompute,
	"all-graphics":    metadata.StageAllGraphics,
	"all":             metadata.StageAll,
}

func parseBindFlags(names []string) (metadata.BindFlags, error) {
	var flags metadata.BindFlags
	for _, name := range names {
		f, ok := bindFlagNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown bind flag '%s'", name)
		}
		flags |= f
	}
	return flags, nil
}

func parseStages(names []string) (metadata.StageFlags, error) {
	var stages metadata.StageFlags
	for _, name := range names {
		s, ok := stageNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown shader stage '%s'", name)
		}
		stages |= s
	}
	return stages, nil
}

func parseResourceType(name string) (metadata.ResourceType, error) {
	switch strings.ToLower(name) {
	case "buffer":
		return metadata.ResourceTypeBuffer, nil
	case "texture":
		return metadata.ResourceTypeTexture, nil
	case "sampler":
		return metadata.ResourceTypeSampler, nil
	}
	return metadata.ResourceTypeUndefined, fmt.Errorf("unknown resource type '%s'", name)
}

// Layout converts the scene bindings into a pipeline layout.
func (s *Scene) Layout() (*metadata.PipelineLayout, error) {
	bindings := make([]metadata.BindingDescriptor, len(s.Bindings))
	for i, b := range s.Bindings {
		kind, err := parseResourceType(b.Type)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		flags, err := parseBindFlags(b.Flags)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		stages, err := parseStages(b.Stages)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		bindings[i] = metadata.BindingDescriptor{
			Name:       b.Name,
			Type:       kind,
			BindFlags:  flags,
			StageFlags: stages,
			Slot:       b.Slot,
			ArraySize:  b.Array,
		}
	}
	return metadata.NewPipelineLayout(s.Name, bindings...)
}
