package core

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNegotiateFeatures(t *testing.T) {
	c := qt.New(t)

	available := NewFeatureSet(FeatureGeometryShader, FeatureSamplerAnisotropy, FeatureShaderFloat64)
	required := NewFeatureSet(FeatureGeometryShader)
	optional := NewFeatureSet(FeatureSamplerAnisotropy, FeatureWideLines)

	enabled := NegotiateFeatures(available, required, optional)

	c.Assert(enabled.Has(FeatureGeometryShader), qt.Equals, true)
	c.Assert(enabled.Has(FeatureSamplerAnisotropy), qt.Equals, true)
	// Unavailable optional flags stay off, unrequested available ones too.
	c.Assert(enabled.Has(FeatureWideLines), qt.Equals, false)
	c.Assert(enabled.Has(FeatureShaderFloat64), qt.Equals, false)
}

func TestFeatureSetOps(t *testing.T) {
	c := qt.New(t)

	s := NewFeatureSet(FeatureLogicOp, FeatureInheritedQueries)
	c.Assert(s.Has(FeatureLogicOp), qt.Equals, true)
	c.Assert(s.Has(FeatureDepthClamp), qt.Equals, false)
	c.Assert(s.Contains(NewFeatureSet(FeatureLogicOp)), qt.Equals, true)
	c.Assert(s.Contains(NewFeatureSet(FeatureLogicOp, FeatureDepthClamp)), qt.Equals, false)
	c.Assert(s.List(), qt.DeepEquals, []Feature{FeatureLogicOp, FeatureInheritedQueries})
	c.Assert(NewFeatureSet().Empty(), qt.Equals, true)
	c.Assert(FeatureLogicOp.String(), qt.Equals, "logicOp")
}

func TestPickSurfaceFormat(t *testing.T) {
	c := qt.New(t)

	supported := []SurfaceFormat{
		{Format: FormatR8G8B8A8SRGB, ColorSpace: ColorSpaceSRGBNonlinear},
		{Format: FormatB8G8R8A8SRGB, ColorSpace: ColorSpaceSRGBNonlinear},
	}

	// A supported preference wins over the defaults.
	preferred := []SurfaceFormat{{Format: FormatR8G8B8A8SRGB, ColorSpace: ColorSpaceSRGBNonlinear}}
	c.Assert(pickSurfaceFormat(preferred, supported), qt.Equals, preferred[0])

	// Unsupported preferences fall back to the first supported default.
	preferred = []SurfaceFormat{{Format: Format(9999), ColorSpace: ColorSpaceSRGBNonlinear}}
	c.Assert(pickSurfaceFormat(preferred, supported).Format, qt.Equals, FormatB8G8R8A8SRGB)

	// When nothing matches at all, the surface's first format is taken.
	exotic := []SurfaceFormat{{Format: Format(1), ColorSpace: ColorSpace(7)}}
	c.Assert(pickSurfaceFormat(nil, exotic), qt.Equals, exotic[0])
}

func TestPickPresentMode(t *testing.T) {
	c := qt.New(t)

	supported := []PresentMode{PresentModeFIFO, PresentModeMailbox}
	c.Assert(pickPresentMode([]PresentMode{PresentModeMailbox}, supported), qt.Equals, PresentModeMailbox)

	// Default order prefers relaxed FIFO, then FIFO.
	c.Assert(pickPresentMode(nil, supported), qt.Equals, PresentModeFIFO)
	c.Assert(pickPresentMode(nil, []PresentMode{PresentModeFIFO, PresentModeFIFORelaxed}), qt.Equals, PresentModeFIFORelaxed)
	c.Assert(pickPresentMode(nil, []PresentMode{PresentModeImmediate}), qt.Equals, PresentModeImmediate)
}

func TestPickExtent(t *testing.T) {
	c := qt.New(t)

	caps := SurfaceCapabilities{
		CurrentExtent:  Extent2D{Width: 1920, Height: 1080},
		MinImageExtent: Extent2D{Width: 1, Height: 1},
		MaxImageExtent: Extent2D{Width: 4096, Height: 4096},
	}

	// A defined current extent overrides the request.
	c.Assert(pickExtent(caps, Extent2D{Width: 640, Height: 480}), qt.Equals, Extent2D{Width: 1920, Height: 1080})

	// The undefined sentinel leaves the choice to the request.
	caps.CurrentExtent = Extent2D{Width: ExtentUndefined, Height: ExtentUndefined}
	c.Assert(pickExtent(caps, Extent2D{Width: 640, Height: 480}), qt.Equals, Extent2D{Width: 640, Height: 480})

	// Zero request means the windowed default.
	c.Assert(pickExtent(caps, Extent2D{}), qt.Equals, Extent2D{Width: 800, Height: 600})

	// Requests clamp into the supported range.
	caps.MaxImageExtent = Extent2D{Width: 1280, Height: 720}
	c.Assert(pickExtent(caps, Extent2D{Width: 1920, Height: 1080}), qt.Equals, Extent2D{Width: 1280, Height: 720})
	caps.MinImageExtent = Extent2D{Width: 320, Height: 240}
	c.Assert(pickExtent(caps, Extent2D{Width: 100, Height: 100}), qt.Equals, Extent2D{Width: 320, Height: 240})
}

func TestPickImageCount(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		min, max uint32
		triple   bool
		want     uint32
	}{
		{min: 1, max: 8, triple: true, want: 3},
		{min: 1, max: 8, triple: false, want: 2},
		{min: 2, max: 2, triple: true, want: 2},
		{min: 4, max: 8, triple: false, want: 4},
		{min: 1, max: 0, triple: true, want: 3}, // zero max means unbounded
	}
	for _, test := range tests {
		caps := SurfaceCapabilities{MinImageCount: test.min, MaxImageCount: test.max}
		c.Assert(pickImageCount(caps, test.triple), qt.Equals, test.want)
	}
}

func TestPickSharing(t *testing.T) {
	c := qt.New(t)

	mode, families := pickSharing(0, 0)
	c.Assert(mode, qt.Equals, SharingExclusive)
	c.Assert(families, qt.IsNil)

	mode, families = pickSharing(0, 2)
	c.Assert(mode, qt.Equals, SharingConcurrent)
	c.Assert(families, qt.DeepEquals, []uint32{0, 2})
}

func TestAssignQueueRolesUnifiedFamily(t *testing.T) {
	c := qt.New(t)

	families := []QueueFamily{
		{Index: 0, Caps: QueueGraphics | QueueCompute | QueueTransfer, Count: 1},
	}
	a, err := assignQueueRoles(families, nil)
	c.Assert(err, qt.IsNil)

	graphics, ok := a.Family(RoleGraphics)
	c.Assert(ok, qt.Equals, true)
	c.Assert(graphics, qt.Equals, uint32(0))

	// Compute aliases graphics when there is no async family.
	compute, ok := a.Family(RoleCompute)
	c.Assert(ok, qt.Equals, true)
	c.Assert(compute, qt.Equals, uint32(0))

	// Transfer stays unassigned without a dedicated family.
	_, ok = a.Family(RoleTransfer)
	c.Assert(ok, qt.Equals, false)

	// Present stays unassigned without a surface.
	_, ok = a.Family(RolePresent)
	c.Assert(ok, qt.Equals, false)

	c.Assert(a.DistinctFamilies(), qt.DeepEquals, []uint32{0})
}

func TestAssignQueueRolesDedicatedFamilies(t *testing.T) {
	c := qt.New(t)

	families := []QueueFamily{
		{Index: 0, Caps: QueueGraphics | QueueCompute | QueueTransfer, Count: 4},
		{Index: 1, Caps: QueueCompute | QueueTransfer, Count: 2},
		{Index: 2, Caps: QueueTransfer, Count: 1},
	}
	supportsPresent := func(family uint32) (bool, error) { return family == 1, nil }

	a, err := assignQueueRoles(families, supportsPresent)
	c.Assert(err, qt.IsNil)

	graphics, _ := a.Family(RoleGraphics)
	c.Assert(graphics, qt.Equals, uint32(0))
	compute, _ := a.Family(RoleCompute)
	c.Assert(compute, qt.Equals, uint32(1))
	transfer, ok := a.Family(RoleTransfer)
	c.Assert(ok, qt.Equals, true)
	c.Assert(transfer, qt.Equals, uint32(2))
	present, _ := a.Family(RolePresent)
	c.Assert(present, qt.Equals, uint32(1))

	c.Assert(a.DistinctFamilies(), qt.DeepEquals, []uint32{0, 1, 2})
}

func TestAssignQueueRolesPresentError(t *testing.T) {
	c := qt.New(t)

	families := []QueueFamily{
		{Index: 0, Caps: QueueGraphics | QueueCompute, Count: 1},
	}
	boom := errors.New("surface lost")
	_, err := assignQueueRoles(families, func(uint32) (bool, error) { return false, boom })
	c.Assert(errors.Is(err, boom), qt.Equals, true)
}

func TestFindPresentFamilyLowestIndex(t *testing.T) {
	c := qt.New(t)

	families := []QueueFamily{
		{Index: 0, Caps: QueueGraphics | QueueCompute, Count: 1},
		{Index: 1, Caps: QueueCompute, Count: 1},
		{Index: 2, Caps: QueueTransfer, Count: 1},
	}
	ref, err := findPresentFamily(families, func(family uint32) (bool, error) {
		return family >= 1, nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(ref.ok, qt.Equals, true)
	c.Assert(ref.index, qt.Equals, uint32(1))
}

func TestDedupeKinds(t *testing.T) {
	c := qt.New(t)

	kinds := dedupeKinds([]ExtensionKind{ExtSurface, ExtSwapchain, ExtSurface}, nil)
	c.Assert(kinds, qt.DeepEquals, []ExtensionKind{ExtSurface, ExtSwapchain})

	// Entries already present in prior are shadowed entirely.
	kinds = dedupeKinds([]ExtensionKind{ExtSurface, ExtDebugReport}, []ExtensionKind{ExtSurface})
	c.Assert(kinds, qt.DeepEquals, []ExtensionKind{ExtDebugReport})
}

func TestVersionUint32(t *testing.T) {
	c := qt.New(t)
	c.Assert(Version{Major: 1}.Uint32(), qt.Equals, uint32(1)<<22)
	c.Assert(Version{Major: 1, Minor: 2, Patch: 3}.Uint32(), qt.Equals, uint32(1)<<22|uint32(2)<<12|uint32(3))
}
