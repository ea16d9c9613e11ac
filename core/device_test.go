package core_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/koru3d/vkinit/core"
)

// buildInstance builds a headless instance that still loads the base
// surface extension, keeping the tests independent of the host window
// system.
func buildInstance(c *qt.C, drv *fakeDriver) *core.Instance {
	inst, err := core.BuildInstance(core.InstanceConfig{
		AppName:            "test",
		Headless:           true,
		RequiredExtensions: []core.ExtensionKind{core.ExtSurface},
	}, drv)
	c.Assert(err, qt.IsNil)
	return inst
}

func TestBuildDeviceSimple(t *testing.T) {
	c := qt.New(t)
	drv := newFakeDriver(presentableGPU())
	inst := buildInstance(c, drv)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{Surface: "surface"})
	c.Assert(err, qt.IsNil)

	c.Assert(dev.PhysicalDevice(), qt.Equals, core.Handle(drv.gpus[0]))
	// A surface implies the swapchain extension.
	c.Assert(containsString(drv.deviceInfo.Extensions, "VK_KHR_swapchain"), qt.Equals, true)
	_, ok := dev.Extension(core.ExtSwapchain)
	c.Assert(ok, qt.Equals, true)
	c.Assert(drv.deviceInfo.QueueFamilies, qt.DeepEquals, []uint32{0})

	graphics, ok := dev.GraphicsQueue()
	c.Assert(ok, qt.Equals, true)
	c.Assert(graphics.Family, qt.Equals, uint32(0))
	c.Assert(graphics.Handle, qt.Equals, core.Handle(fakeQueue{family: 0}))

	present, ok := dev.PresentQueue()
	c.Assert(ok, qt.Equals, true)
	c.Assert(present.Family, qt.Equals, uint32(0))

	// Compute aliases the graphics family; transfer has no dedicated
	// family to claim.
	compute, ok := dev.ComputeQueue()
	c.Assert(ok, qt.Equals, true)
	c.Assert(compute.Family, qt.Equals, uint32(0))
	_, ok = dev.TransferQueue()
	c.Assert(ok, qt.Equals, false)
}

func TestBuildDeviceNoSuitable(t *testing.T) {
	c := qt.New(t)
	gpu := presentableGPU()
	gpu.extensions = nil // swapchain support withdrawn
	drv := newFakeDriver(gpu)
	inst := buildInstance(c, drv)

	_, err := core.BuildDevice(inst, core.DeviceConfig{Surface: "surface"})
	c.Assert(errors.Is(err, core.ErrNoSuitableDevice), qt.Equals, true)
	c.Assert(drv.devices, qt.Equals, 0)
}

func TestBuildDeviceSurfaceWithoutSurfaceExtension(t *testing.T) {
	c := qt.New(t)
	drv := newFakeDriver(presentableGPU())
	inst, err := core.BuildInstance(core.InstanceConfig{Headless: true}, drv)
	c.Assert(err, qt.IsNil)

	_, err = core.BuildDevice(inst, core.DeviceConfig{Surface: "surface"})
	var missing *core.MissingExtensionError
	c.Assert(errors.As(err, &missing), qt.Equals, true)
	c.Assert(missing.Name, qt.Equals, "VK_KHR_surface")
}

func TestBuildDeviceFeatureNegotiation(t *testing.T) {
	c := qt.New(t)
	gpu := presentableGPU()
	gpu.features = core.NewFeatureSet(
		core.FeatureGeometryShader,
		core.FeatureSamplerAnisotropy,
	)
	drv := newFakeDriver(gpu)
	inst := buildInstance(c, drv)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{
		RequiredFeatures: core.NewFeatureSet(core.FeatureGeometryShader),
		OptionalFeatures: core.NewFeatureSet(core.FeatureSamplerAnisotropy, core.FeatureWideLines),
		Surface:          "surface",
	})
	c.Assert(err, qt.IsNil)

	want := core.NewFeatureSet(core.FeatureGeometryShader, core.FeatureSamplerAnisotropy)
	c.Assert(dev.EnabledFeatures(), qt.Equals, want)
	c.Assert(drv.deviceInfo.Features, qt.Equals, want)
}

func TestBuildDeviceRequiredFeatureMissing(t *testing.T) {
	c := qt.New(t)
	drv := newFakeDriver(presentableGPU())
	inst := buildInstance(c, drv)

	_, err := core.BuildDevice(inst, core.DeviceConfig{
		RequiredFeatures: core.NewFeatureSet(core.FeatureShaderFloat64),
		Surface:          "surface",
	})
	c.Assert(errors.Is(err, core.ErrNoSuitableDevice), qt.Equals, true)
}

func TestBuildDeviceIntegratedPreference(t *testing.T) {
	c := qt.New(t)
	integrated := presentableGPU()
	integrated.props = core.DeviceProperties{Name: "fake integrated", Type: core.DeviceTypeIntegratedGPU}
	drv := newFakeDriver(presentableGPU(), integrated)
	inst := buildInstance(c, drv)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{
		Surface:    "surface",
		Preference: core.PreferIntegratedGPU(),
	})
	c.Assert(err, qt.IsNil)
	// The integrated GPU wins even though the discrete one enumerates
	// first.
	c.Assert(dev.PhysicalDevice(), qt.Equals, core.Handle(integrated))
}

func TestBuildDevicePreferenceFallback(t *testing.T) {
	c := qt.New(t)
	discrete := presentableGPU()
	discrete.extensions = nil // unsuitable for presentation
	integrated := presentableGPU()
	integrated.props = core.DeviceProperties{Name: "fake integrated", Type: core.DeviceTypeIntegratedGPU}
	drv := newFakeDriver(discrete, integrated)
	inst := buildInstance(c, drv)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{
		Surface:    "surface",
		Preference: core.PreferDiscreteGPU(),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(dev.PhysicalDevice(), qt.Equals, core.Handle(integrated))
}

func TestBuildDeviceChooseIndex(t *testing.T) {
	c := qt.New(t)
	second := presentableGPU()
	second.props.Name = "fake second"
	drv := newFakeDriver(presentableGPU(), second)
	inst := buildInstance(c, drv)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{
		Surface:    "surface",
		Preference: core.ChooseDevice(1),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(dev.PhysicalDevice(), qt.Equals, core.Handle(second))

	// An out-of-range index degrades to enumeration order.
	dev, err = core.BuildDevice(inst, core.DeviceConfig{
		Surface:    "surface",
		Preference: core.ChooseDevice(7),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(dev.PhysicalDevice(), qt.Equals, core.Handle(drv.gpus[0]))
}

func TestBuildDeviceOptionalExtensionFiltered(t *testing.T) {
	c := qt.New(t)
	drv := newFakeDriver(presentableGPU())
	inst := buildInstance(c, drv)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{
		Surface:            "surface",
		OptionalExtensions: []core.ExtensionKind{core.ExtMaintenance1},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(containsString(drv.deviceInfo.Extensions, "VK_KHR_maintenance1"), qt.Equals, false)
	_, ok := dev.Extension(core.ExtMaintenance1)
	c.Assert(ok, qt.Equals, false)

	gpu := presentableGPU()
	gpu.extensions = append(gpu.extensions, "VK_KHR_maintenance1")
	drv = newFakeDriver(gpu)
	inst = buildInstance(c, drv)
	dev, err = core.BuildDevice(inst, core.DeviceConfig{
		Surface:            "surface",
		OptionalExtensions: []core.ExtensionKind{core.ExtMaintenance1},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(containsString(drv.deviceInfo.Extensions, "VK_KHR_maintenance1"), qt.Equals, true)
	_, ok = dev.Extension(core.ExtMaintenance1)
	c.Assert(ok, qt.Equals, true)
}

func TestBuildDeviceComputeOnly(t *testing.T) {
	c := qt.New(t)
	gpu := presentableGPU()
	gpu.families = []core.QueueFamily{
		{Index: 0, Caps: core.QueueCompute | core.QueueTransfer, Count: 1},
	}
	drv := newFakeDriver(gpu)
	inst := buildInstance(c, drv)

	// Without the graphics waiver the device is rejected.
	_, err := core.BuildDevice(inst, core.DeviceConfig{})
	c.Assert(errors.Is(err, core.ErrNoSuitableDevice), qt.Equals, true)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{GraphicsOptional: true})
	c.Assert(err, qt.IsNil)
	_, ok := dev.GraphicsQueue()
	c.Assert(ok, qt.Equals, false)
	compute, ok := dev.ComputeQueue()
	c.Assert(ok, qt.Equals, true)
	c.Assert(compute.Family, qt.Equals, uint32(0))
}

func TestDeviceDestroy(t *testing.T) {
	c := qt.New(t)
	drv := newFakeDriver(presentableGPU())
	inst := buildInstance(c, drv)

	dev, err := core.BuildDevice(inst, core.DeviceConfig{Surface: "surface"})
	c.Assert(err, qt.IsNil)

	dev.Destroy()
	c.Assert(drv.destroyedDev, qt.Equals, 1)
}
