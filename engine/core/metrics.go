package core

import "sync/atomic"

type MetricsState struct {
	RecordsReplayed   uint64
	BytesReplayed     uint64
	SegmentsBound     uint64
	DescriptorSetsSet uint64
}

var metricsState struct {
	recordsReplayed   atomic.Uint64
	bytesReplayed     atomic.Uint64
	segmentsBound     atomic.Uint64
	descriptorSetsSet atomic.Uint64
}

// MetricsReplay accounts one virtual command buffer walk.
func MetricsReplay(records, bytes int) {
	metricsState.recordsReplayed.Add(uint64(records))
	metricsState.bytesReplayed.Add(uint64(bytes))
}

// MetricsBind accounts one descriptor set bound with the given number
// of native binding calls.
func MetricsBind(segments int) {
	metricsState.descriptorSetsSet.Add(1)
	metricsState.segmentsBound.Add(uint64(segments))
}

func MetricsSnapshot() MetricsState {
	return MetricsState{
		RecordsReplayed:   metricsState.recordsReplayed.Load(),
		BytesReplayed:     metricsState.bytesReplayed.Load(),
		SegmentsBound:     metricsState.segmentsBound.Load(),
		DescriptorSetsSet: metricsState.descriptorSetsSet.Load(),
	}
}

func MetricsReset() {
	metricsState.recordsReplayed.Store(0)
	metricsState.bytesReplayed.Store(0)
	metricsState.segmentsBound.Store(0)
	metricsState.descriptorSetsSet.Store(0)
}
