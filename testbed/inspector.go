package testbed

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/command"
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
	"github.com/spaghettifunk/rhi/engine/renderer/trace"
	"github.com/spaghettifunk/rhi/engine/systems"
)

// Inspector builds the heap of a scene on the trace device, records the
// scene commands and replays them, reporting what the native context
// would have received.
type Inspector struct {
	Config *core.Config
}

type Report struct {
	Heap     string
	Sets     uint32
	Stride   int
	Bytes    int
	Segments [][]heap.Segment
	Journal  []string
	Metrics  core.MetricsState
	Elapsed  time.Duration

	names map[metadata.Handle]string
}

func NewInspector(cfg *core.Config) *Inspector {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	return &Inspector{Config: cfg}
}

func (in *Inspector) features(scene *Scene) metadata.Features {
	if scene.Features != nil {
		return metadata.Features{
			ConstantBufferRanges: scene.Features.ConstantBufferRanges,
			MaxSlots:             scene.Features.MaxSlots,
		}
	}
	return metadata.Features{
		ConstantBufferRanges: in.Config.Device.ConstantBufferRanges,
		MaxSlots:             in.Config.Device.MaxSlots,
	}
}

// objects holds the trace objects a scene declares, by name.
type objects struct {
	resources map[string]metadata.Resource
	pipelines map[string]*trace.Pipeline
}

func createObjects(dev *trace.Device, scene *Scene) (*objects, error) {
	objs := &objects{
		resources: make(map[string]metadata.Resource, len(scene.Resources)),
		pipelines: make(map[string]*trace.Pipeline, len(scene.Pipelines)),
	}
	for _, r := range scene.Resources {
		if _, ok := objs.resources[r.Name]; ok {
			return nil, fmt.Errorf("duplicate resource '%s'", r.Name)
		}
		flags, err := parseBindFlags(r.Flags)
		if err != nil {
			return nil, fmt.Errorf("resource '%s': %w", r.Name, err)
		}
		kind, err := parseResourceType(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("resource '%s': %w", r.Name, err)
		}
		switch kind {
		case metadata.ResourceTypeBuffer:
			objs.resources[r.Name] = dev.NewBuffer(r.Name, r.Size, flags)
		case metadata.ResourceTypeTexture:
			objs.resources[r.Name] = dev.NewTexture(r.Name, metadata.Format(r.Format), r.Mips, r.Layers, flags)
		case metadata.ResourceTypeSampler:
			objs.resources[r.Name] = dev.NewSampler(r.Name)
		}
	}
	for _, p := range scene.Pipelines {
		objs.pipelines[p.Name] = dev.NewPipeline(p.Name, p.Compute)
	}
	return objs, nil
}

func (o *objects) buffer(name string) (metadata.Buffer, error) {
	buf, ok := o.resources[name].(metadata.Buffer)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a buffer", name)
	}
	return buf, nil
}

func (o *objects) views(scene *Scene) ([]metadata.ResourceViewDescriptor, error) {
	var views []metadata.ResourceViewDescriptor
	for i, set := range scene.Sets {
		for j, v := range set.Views {
			res, ok := o.resources[v.Resource]
			if !ok && v.Resource != "" {
				return nil, fmt.Errorf("set %d view %d: unknown resource '%s'", i, j, v.Resource)
			}
			count := metadata.KeepCounter
			if v.InitialCount != nil {
				count = *v.InitialCount
			}
			views = append(views, metadata.ResourceViewDescriptor{
				Resource:     res,
				BufferView:   metadata.BufferViewDescriptor{Format: metadata.Format(v.Format), Offset: v.Offset, Size: v.Size},
				TextureView: metadata.TextureViewDescriptor{
					Format: metadata.Format(v.Format),
					Subresource: metadata.TextureSubresource{
						BaseMipLevel:   v.BaseMip,
						NumMipLevels:   v.NumMips,
						BaseArrayLayer: v.BaseLayer,
						NumArrayLayers: v.NumLayers,
					},
				},
				InitialCount: count,
			})
		}
	}
	return views, nil
}

func (in *Inspector) Inspect(scene *Scene) (*Report, error) {
	dev := trace.NewDevice(in.features(scene))
	objs, err := createObjects(dev, scene)
	if err != nil {
		return nil, fmt.Errorf("scene '%s': %w", scene.Name, err)
	}
	layout, err := scene.Layout()
	if err != nil {
		return nil, fmt.Errorf("scene '%s': %w", scene.Name, err)
	}
	views, err := objs.views(scene)
	if err != nil {
		return nil, fmt.Errorf("scene '%s': %w", scene.Name, err)
	}

	h, err := heap.New(dev, layout, views, heap.WithName(scene.Name))
	if err != nil {
		return nil, err
	}
	defer h.Release()

	report := &Report{
		Heap:   h.Name(),
		Sets:   h.NumDescriptorSets(),
		Stride: h.Stride(),
		Bytes:  len(h.Bytes()),
		names:  make(map[metadata.Handle]string),
	}
	// Views created for the heap are released with it, name them now.
	for set := uint32(0); set < h.NumDescriptorSets(); set++ {
		segments := h.Segments(set)
		for _, seg := range segments {
			for _, handle := range seg.Handles {
				report.names[handle] = dev.Describe(handle)
			}
		}
		report.Segments = append(report.Segments, segments)
	}

	buffers, err := in.record(scene, objs, h)
	if err != nil {
		return nil, err
	}
	queue := command.NewCommandQueue(in.Config.Recording.QueueDepth)
	for _, cb := range buffers {
		if err := queue.Enqueue(cb); err != nil {
			return nil, err
		}
	}

	dev.ResetJournal()
	core.MetricsReset()
	clock := core.NewClock()
	clock.Start()
	if err := queue.Submit(command.NewHeapBinder(dev, dev)); err != nil {
		return nil, err
	}
	clock.Stop()

	report.Journal = append([]string(nil), dev.Journal()...)
	report.Metrics = core.MetricsSnapshot()
	report.Elapsed = clock.Elapsed()
	return report, nil
}

// record records every pass of the scene into its own command buffer on
// the job system.
func (in *Inspector) record(scene *Scene, objs *objects, h *heap.ResourceHeap) ([]*command.SecondaryCommandBuffer, error) {
	jobs, err := systems.NewJobSystem(in.Config.Recording.Workers, len(scene.Passes))
	if err != nil {
		return nil, err
	}
	defer jobs.Shutdown()

	buffers := make([]*command.SecondaryCommandBuffer, len(scene.Passes))
	fns := make([]func() error, len(scene.Passes))
	for i, pass := range scene.Passes {
		cb := command.NewSecondaryCommandBuffer(pass.Name, in.Config.Recording.InitialCapacity)
		buffers[i] = cb
		fns[i] = func() error {
			cb.Begin()
			for j, cmd := range pass.Commands {
				if err := recordCommand(cb, objs, h, cmd); err != nil {
					return fmt.Errorf("command %d (%s): %w", j, cmd.Op, err)
				}
			}
			return cb.End()
		}
	}
	for i, err := range jobs.RunAll(scene.Name, fns...) {
		if err != nil {
			return nil, fmt.Errorf("scene '%s' pass '%s': %w", scene.Name, scene.Passes[i].Name, err)
		}
	}
	return buffers, nil
}

func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "heap %s: %d descriptor set(s), stride %d bytes, %d bytes total\n", r.Heap, r.Sets, r.Stride, r.Bytes)
	for set, segments := range r.Segments {
		fmt.Fprintf(w, "  set %d\n", set)
		for _, seg := range segments {
			names := make([]string, len(seg.Handles))
			for i, h := range seg.Handles {
				names[i] = r.names[h]
			}
			fmt.Fprintf(w, "    %-15s %-14s @%-3d %s", seg.Stage, seg.Kind, seg.StartSlot, strings.Join(names, " "))
			if len(seg.Scalars0) > 0 {
				fmt.Fprintf(w, " %v", seg.Scalars0)
			}
			if len(seg.Scalars1) > 0 {
				fmt.Fprintf(w, " %v", seg.Scalars1)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "replay: %d record(s), %d byte(s), %d descriptor set(s) bound with %d call(s) in %s\n",
		r.Metrics.RecordsReplayed, r.Metrics.BytesReplayed, r.Metrics.DescriptorSetsSet, r.Metrics.SegmentsBound, r.Elapsed)
	for _, entry := range r.Journal {
		fmt.Fprintf(w, "  %s\n", entry)
	}
}
