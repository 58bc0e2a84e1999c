package core

import (
	"errors"
)

// Resource heap construction errors.
var (
	ErrNoBindings          = errors.New("pipeline layout has no bindings")
	ErrNoResourceViews     = errors.New("cannot create resource heap without resource views")
	ErrViewCountMismatch   = errors.New("number of resource views must be a multiple of the number of bindings")
	ErrNullResource        = errors.New("null pointer used as binding resource")
	ErrFeatureUnsupported  = errors.New("feature not supported by the active context")
	ErrTooManySegments     = errors.New("too many binding segments for one shader stage")
	ErrInvalidBufferRange  = errors.New("invalid constant buffer range")
	ErrInvalidResourceType = errors.New("resource does not match binding type")
	ErrSlotOutOfRange      = errors.New("binding slot exceeds the slots supported by the context")

	ErrInconsistentDescriptorSets = errors.New("descriptor sets of one heap must share the same layout")
)

// Command recording and submission errors.
var (
	ErrNotRecording = errors.New("command buffer is not recording")
	ErrNotEnded     = errors.New("command buffer has not ended recording")
	ErrQueueFull    = errors.New("queue is full")
	ErrQueueEmpty   = errors.New("queue is empty")
)
