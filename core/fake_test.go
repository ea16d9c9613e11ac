package core_test

import (
	"fmt"

	"github.com/koru3d/vkinit/core"
)

// fakeGPU is one enumerable physical device of the fake driver.
type fakeGPU struct {
	props      core.DeviceProperties
	features   core.FeatureSet
	extensions []string
	families   []core.QueueFamily
	present    map[uint32]bool
	presentErr error

	caps    core.SurfaceCapabilities
	formats []core.SurfaceFormat
	modes   []core.PresentMode
}

// presentableGPU returns a single-family discrete GPU that can present
// and supports the swapchain extension, with permissive surface
// capabilities.
func presentableGPU() *fakeGPU {
	return &fakeGPU{
		props: core.DeviceProperties{
			Name: "fake discrete",
			Type: core.DeviceTypeDiscreteGPU,
		},
		extensions: []string{"VK_KHR_swapchain"},
		families: []core.QueueFamily{
			{Index: 0, Caps: core.QueueGraphics | core.QueueCompute | core.QueueTransfer, Count: 1},
		},
		present: map[uint32]bool{0: true},
		caps: core.SurfaceCapabilities{
			MinImageCount: 1,
			MaxImageCount: 8,
			CurrentExtent: core.Extent2D{Width: core.ExtentUndefined, Height: core.ExtentUndefined},
			MinImageExtent: core.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []core.SurfaceFormat{
			{Format: core.FormatB8G8R8A8SRGB, ColorSpace: core.ColorSpaceSRGBNonlinear},
			{Format: core.FormatR8G8B8A8SRGB, ColorSpace: core.ColorSpaceSRGBNonlinear},
		},
		modes: []core.PresentMode{core.PresentModeFIFO, core.PresentModeMailbox},
	}
}

type fakeQueue struct{ family uint32 }
type fakeImage struct{ n int }
type fakeView struct{ n int }

// fakeDriver implements core.Driver against in-memory GPU descriptions
// and records every create and destroy call.
type fakeDriver struct {
	gpus         []*fakeGPU
	instanceExts []string

	loadErr error
	loads   int

	instanceInfo  core.InstanceCreateInfo
	instances     int
	destroyedInst int

	deviceInfo   core.DeviceCreateInfo
	devicePhys   core.Handle
	devices      int
	destroyedDev int

	swapErr        error
	swapInfo       core.SwapchainCreateInfo
	swapSeq        int
	destroyedSwaps []core.Handle

	imagesErr error

	viewErrAt      int
	viewSeq        int
	destroyedViews []core.Handle
}

func newFakeDriver(gpus ...*fakeGPU) *fakeDriver {
	return &fakeDriver{gpus: gpus}
}

func (d *fakeDriver) Load() error {
	d.loads++
	return d.loadErr
}

func (d *fakeDriver) InstanceExtensions() ([]string, error) {
	return d.instanceExts, nil
}

func (d *fakeDriver) CreateInstance(info core.InstanceCreateInfo) (core.Handle, error) {
	d.instanceInfo = info
	d.instances++
	return "instance", nil
}

func (d *fakeDriver) DestroyInstance(core.Handle) {
	d.destroyedInst++
}

func (d *fakeDriver) PhysicalDevices(core.Handle) ([]core.Handle, error) {
	handles := make([]core.Handle, len(d.gpus))
	for i, g := range d.gpus {
		handles[i] = g
	}
	return handles, nil
}

func (d *fakeDriver) DeviceProperties(phys core.Handle) (core.DeviceProperties, error) {
	return phys.(*fakeGPU).props, nil
}

func (d *fakeDriver) DeviceFeatures(phys core.Handle) (core.FeatureSet, error) {
	return phys.(*fakeGPU).features, nil
}

func (d *fakeDriver) DeviceExtensions(phys core.Handle) ([]string, error) {
	return phys.(*fakeGPU).extensions, nil
}

func (d *fakeDriver) QueueFamilies(phys core.Handle) ([]core.QueueFamily, error) {
	return phys.(*fakeGPU).families, nil
}

func (d *fakeDriver) SurfaceCapabilities(phys, surface core.Handle) (core.SurfaceCapabilities, error) {
	return phys.(*fakeGPU).caps, nil
}

func (d *fakeDriver) SurfaceFormats(phys, surface core.Handle) ([]core.SurfaceFormat, error) {
	return phys.(*fakeGPU).formats, nil
}

func (d *fakeDriver) PresentModes(phys, surface core.Handle) ([]core.PresentMode, error) {
	return phys.(*fakeGPU).modes, nil
}

func (d *fakeDriver) SupportsPresent(phys core.Handle, family uint32, surface core.Handle) (bool, error) {
	g := phys.(*fakeGPU)
	if g.presentErr != nil {
		return false, g.presentErr
	}
	return g.present[family], nil
}

func (d *fakeDriver) CreateDevice(phys core.Handle, info core.DeviceCreateInfo) (core.Handle, error) {
	d.devicePhys = phys
	d.deviceInfo = info
	d.devices++
	return "device", nil
}

func (d *fakeDriver) DestroyDevice(core.Handle) {
	d.destroyedDev++
}

func (d *fakeDriver) DeviceQueue(device core.Handle, family uint32) core.Handle {
	return fakeQueue{family: family}
}

func (d *fakeDriver) CreateSwapchain(device core.Handle, info core.SwapchainCreateInfo) (core.Handle, error) {
	if d.swapErr != nil {
		return nil, d.swapErr
	}
	d.swapInfo = info
	d.swapSeq++
	return fmt.Sprintf("swapchain-%d", d.swapSeq), nil
}

func (d *fakeDriver) DestroySwapchain(device, swapchain core.Handle) {
	d.destroyedSwaps = append(d.destroyedSwaps, swapchain)
}

func (d *fakeDriver) SwapchainImages(device, swapchain core.Handle) ([]core.Handle, error) {
	if d.imagesErr != nil {
		return nil, d.imagesErr
	}
	images := make([]core.Handle, d.swapInfo.MinImageCount)
	for i := range images {
		images[i] = fakeImage{n: i}
	}
	return images, nil
}

func (d *fakeDriver) CreateImageView(device, image core.Handle, format core.Format) (core.Handle, error) {
	if d.viewErrAt > 0 && d.viewSeq+1 == d.viewErrAt {
		return nil, fmt.Errorf("view creation refused")
	}
	d.viewSeq++
	return fakeView{n: d.viewSeq}, nil
}

func (d *fakeDriver) DestroyImageView(device, view core.Handle) {
	d.destroyedViews = append(d.destroyedViews, view)
}
