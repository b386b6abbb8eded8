// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// UndefinedExtent is the sentinel a surface reports as its current extent
// when the swapchain decides the size.
const UndefinedExtent = 0xFFFFFFFF

// Extent is a 2D size in pixels.
type Extent struct {
	Width, Height uint32
}

// SurfaceLimits describes the swapchain constraints a surface reports.
type SurfaceLimits struct {
	MinImageCount uint32
	MaxImageCount uint32 // 0 means unbounded
	Current       Extent
	MinExtent     Extent
	MaxExtent     Extent
}

// ExtentReporter is implemented by surfaces that expose swapchain limits.
// Surfaces that do not implement it accept any requested extent.
type ExtentReporter interface {
	SurfaceLimits() SurfaceLimits
}

// ChooseFormat picks the first sRGB format, falling back to the first
// format offered.
func ChooseFormat(formats []gputypes.TextureFormat) (gputypes.TextureFormat, error) {
	if len(formats) == 0 {
		return gputypes.TextureFormatUndefined, ErrNoSurfaceFormat
	}
	for _, f := range formats {
		if f.IsSrgb() {
			return f, nil
		}
	}
	return formats[0], nil
}

// ChoosePresentMode returns the first preferred mode the surface offers,
// falling back to FIFO which every surface supports. A nil preference
// means mailbox.
func ChoosePresentMode(offered []gputypes.PresentMode, prefer ...gputypes.PresentMode) gputypes.PresentMode {
	if len(prefer) == 0 {
		prefer = []gputypes.PresentMode{gputypes.PresentModeMailbox}
	}
	for _, m := range prefer {
		if slices.Contains(offered, m) {
			return m
		}
	}
	return gputypes.PresentModeFifo
}

// ChooseAlphaMode prefers opaque composition.
func ChooseAlphaMode(offered []gputypes.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	if len(offered) == 0 || slices.Contains(offered, gputypes.CompositeAlphaModeOpaque) {
		return gputypes.CompositeAlphaModeOpaque
	}
	return offered[0]
}

// ChooseImageCount requests one image more than the minimum, bounded by
// the maximum when the surface reports one.
func ChooseImageCount(minCount, maxCount uint32) uint32 {
	n := minCount + 1
	if maxCount > 0 && n > maxCount {
		n = maxCount
	}
	return n
}

// ClampExtent fits requested into the surface limits. When the surface
// reports the undefined current extent, requested is returned unchanged.
func ClampExtent(requested Extent, limits SurfaceLimits) Extent {
	if limits.Current.Width == UndefinedExtent {
		return requested
	}
	return Extent{
		Width:  clampU32(requested.Width, limits.MinExtent.Width, limits.MaxExtent.Width),
		Height: clampU32(requested.Height, limits.MinExtent.Height, limits.MaxExtent.Height),
	}
}

func clampU32(v, lo, hi uint32) uint32 {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// AdapterPreference steers adapter selection.
type AdapterPreference struct {
	// DeviceType is tried first when Set is true.
	DeviceType gputypes.DeviceType
	Set        bool
}

// probeFormat is the color format every usable adapter must render to.
const probeFormat = gputypes.TextureFormatRGBA8Unorm

// SupportsGraphics reports whether an adapter can render to color targets.
func SupportsGraphics(a hal.ExposedAdapter) bool {
	caps := a.Adapter.TextureFormatCapabilities(probeFormat)
	return caps.Flags&hal.TextureFormatCapabilityRenderAttachment != 0
}

// SupportsCompute reports whether an adapter exposes compute dispatch.
func SupportsCompute(a hal.ExposedAdapter) bool {
	if a.Capabilities.DownlevelCapabilities.Flags&hal.DownlevelFlagsComputeShaders != 0 {
		return true
	}
	return a.Capabilities.Limits.MaxComputeWorkgroupsPerDimension > 0
}

// SupportsPresent reports whether an adapter can present to surface.
// A nil surface is presentable by definition.
func SupportsPresent(a hal.ExposedAdapter, surface hal.Surface) bool {
	if surface == nil {
		return true
	}
	caps := a.Adapter.SurfaceCapabilities(surface)
	return caps != nil && len(caps.Formats) > 0
}

// deviceTypeRank orders device types when no explicit preference matches.
func deviceTypeRank(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 0
	case gputypes.DeviceTypeIntegratedGPU:
		return 1
	case gputypes.DeviceTypeVirtualGPU:
		return 2
	case gputypes.DeviceTypeCPU:
		return 3
	default:
		return 4
	}
}

// SelectAdapter returns the best adapter offering graphics, compute and
// presentation to surface. Enumeration order breaks ties.
func SelectAdapter(adapters []hal.ExposedAdapter, surface hal.Surface, pref AdapterPreference) (hal.ExposedAdapter, error) {
	var candidates []hal.ExposedAdapter
	for _, a := range adapters {
		if a.Adapter == nil {
			continue
		}
		if !SupportsGraphics(a) || !SupportsCompute(a) || !SupportsPresent(a, surface) {
			slogger().Debug("render: adapter rejected", "name", a.Info.Name)
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return hal.ExposedAdapter{}, ErrNoAdapter
	}

	rank := func(a hal.ExposedAdapter) int {
		if pref.Set && a.Info.DeviceType == pref.DeviceType {
			return -1
		}
		return deviceTypeRank(a.Info.DeviceType)
	}
	slices.SortStableFunc(candidates, func(a, b hal.ExposedAdapter) int {
		return rank(a) - rank(b)
	})
	return candidates[0], nil
}
