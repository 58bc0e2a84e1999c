package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

func nativeOf(_ *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error) {
	return resourceBinding{handle: view.Resource.(*fakeSampler).native}, nil
}

func TestClassifySortsAndFilters(t *testing.T) {
	bindings := []metadata.BindingDescriptor{
		{Type: metadata.ResourceTypeSampler, StageFlags: metadata.StageFragment, Slot: 7},
		{Type: metadata.ResourceTypeSampler, StageFlags: metadata.StageVertex, Slot: 1},
		{Type: metadata.ResourceTypeSampler, StageFlags: metadata.StageFragment, Slot: 2},
		{Type: metadata.ResourceTypeTexture, BindFlags: metadata.BindSampled, StageFlags: metadata.StageFragment, Slot: 0},
	}
	views := []metadata.ResourceViewDescriptor{
		{Resource: &fakeSampler{native: 70}},
		{Resource: &fakeSampler{native: 10}},
		{Resource: &fakeSampler{native: 20}},
		{Resource: &fakeTexture{native: 1}},
	}

	got, err := classify(views, bindings, bindingFilter{kind: metadata.ResourceTypeSampler, stages: metadata.StageFragment}, nativeOf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint32(2), got[0].slot)
	assert.Equal(t, metadata.Handle(20), got[0].handle)
	assert.Equal(t, uint32(7), got[1].slot)

	got, err = classify(views, bindings, bindingFilter{kind: metadata.ResourceTypeSampler}, nativeOf)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 7}, []uint32{got[0].slot, got[1].slot, got[2].slot})

	got, err = classify(views, bindings, bindingFilter{kind: metadata.ResourceTypeSampler, stages: metadata.StageCompute}, nativeOf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClassifyRejectsNullResource(t *testing.T) {
	bindings := []metadata.BindingDescriptor{
		{Type: metadata.ResourceTypeSampler, StageFlags: metadata.StageFragment, Slot: 0},
		{Type: metadata.ResourceTypeSampler, StageFlags: metadata.StageVertex, Slot: 1},
	}
	views := []metadata.ResourceViewDescriptor{
		{Resource: &fakeSampler{native: 1}},
		{},
	}

	_, err := classify(views, bindings, bindingFilter{kind: metadata.ResourceTypeSampler, stages: metadata.StageVertex}, nativeOf)
	assert.ErrorIs(t, err, core.ErrNullResource)

	var typedNil *fakeSampler
	views[1].Resource = typedNil
	_, err = classify(views, bindings, bindingFilter{kind: metadata.ResourceTypeSampler, stages: metadata.StageVertex}, nativeOf)
	assert.ErrorIs(t, err, core.ErrNullResource)

	// Bindings outside the filter are never resolved.
	got, err := classify(views, bindings, bindingFilter{kind: metadata.ResourceTypeSampler, stages: metadata.StageFragment}, nativeOf)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestClassifyBindFlags(t *testing.T) {
	bindings := []metadata.BindingDescriptor{
		{Type: metadata.ResourceTypeBuffer, BindFlags: metadata.BindConstantBuffer, StageFlags: metadata.StageCompute, Slot: 0},
		{Type: metadata.ResourceTypeBuffer, BindFlags: metadata.BindStorage, StageFlags: metadata.StageCompute, Slot: 0},
	}
	views := []metadata.ResourceViewDescriptor{
		{Resource: &fakeBuffer{native: 1}},
		{Resource: &fakeBuffer{native: 2}},
	}
	resolve := func(_ *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error) {
		return resourceBinding{handle: view.Resource.(*fakeBuffer).native}, nil
	}

	got, err := classify(views, bindings, bindingFilter{kind: metadata.ResourceTypeBuffer, bindFlags: metadata.BindStorage}, resolve)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, metadata.Handle(2), got[0].handle)
}
