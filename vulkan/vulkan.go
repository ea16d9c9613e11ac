// Package vulkan implements the core.Driver interface on top of the
// Vulkan API bindings.
package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/koru3d/vkinit/core"
)

// Driver is the Vulkan-backed implementation of core.Driver. The zero
// value is not usable; construct one with New or NewWithProcAddr.
type Driver struct {
	loaded   bool
	procAddr unsafe.Pointer

	debugCallbacks map[vk.Instance]vk.DebugReportCallback
}

// New returns a driver that resolves the Vulkan loader through the
// default platform mechanism.
func New() *Driver {
	return &Driver{debugCallbacks: make(map[vk.Instance]vk.DebugReportCallback)}
}

// NewWithProcAddr returns a driver that resolves entry points through
// the given vkGetInstanceProcAddr pointer, as handed out by windowing
// libraries such as SDL.
func NewWithProcAddr(procAddr unsafe.Pointer) *Driver {
	return &Driver{
		procAddr:       procAddr,
		debugCallbacks: make(map[vk.Instance]vk.DebugReportCallback),
	}
}

// Load implements core.Commander.
func (d *Driver) Load() error {
	if d.loaded {
		return nil
	}
	if d.procAddr != nil {
		vk.SetGetInstanceProcAddr(d.procAddr)
	} else if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return &core.LoadError{Err: err}
	}
	if err := vk.Init(); err != nil {
		return &core.LoadError{Err: err}
	}
	d.loaded = true
	return nil
}

// InstanceExtensions implements core.Querier.
func (d *Driver) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, &core.DriverError{Call: "vk.EnumerateInstanceExtensionProperties", Err: err}
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, &core.DriverError{Call: "vk.EnumerateInstanceExtensionProperties", Err: err}
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// CreateInstance implements core.Commander.
func (d *Driver) CreateInstance(info core.InstanceCreateInfo) (core.Handle, error) {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         info.APIVersion,
		ApplicationVersion: info.AppVersion,
		EngineVersion:      info.EngineVersion,
		PApplicationName:   safeString(info.AppName),
		PEngineName:        safeString(info.EngineName),
	}

	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return nil, &core.DriverError{Call: "vk.CreateInstance", Err: err}
	}
	vk.InitInstance(instance)

	if info.DebugSink {
		callback, err := installDebugSink(instance)
		if err != nil {
			vk.DestroyInstance(instance, nil)
			return nil, err
		}
		d.debugCallbacks[instance] = callback
	}

	return instance, nil
}

// DestroyInstance implements core.Commander.
func (d *Driver) DestroyInstance(instance core.Handle) {
	inst := instance.(vk.Instance)
	if callback, ok := d.debugCallbacks[inst]; ok {
		vk.DestroyDebugReportCallback(inst, callback, nil)
		delete(d.debugCallbacks, inst)
	}
	vk.DestroyInstance(inst, nil)
}

// PhysicalDevices implements core.Querier.
func (d *Driver) PhysicalDevices(instance core.Handle) ([]core.Handle, error) {
	inst := instance.(vk.Instance)
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(inst, &count, nil)); err != nil {
		return nil, &core.DriverError{Call: "vk.EnumeratePhysicalDevices", Err: err}
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(inst, &count, devices)); err != nil {
		return nil, &core.DriverError{Call: "vk.EnumeratePhysicalDevices", Err: err}
	}
	handles := make([]core.Handle, count)
	for i, pd := range devices {
		handles[i] = pd
	}
	return handles, nil
}

// DeviceProperties implements core.Querier.
func (d *Driver) DeviceProperties(phys core.Handle) (core.DeviceProperties, error) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(phys.(vk.PhysicalDevice), &props)
	props.Deref()
	return core.DeviceProperties{
		Name:          vk.ToString(props.DeviceName[:]),
		Type:          core.DeviceType(props.DeviceType),
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
		APIVersion:    props.ApiVersion,
		DriverVersion: props.DriverVersion,
	}, nil
}

// DeviceFeatures implements core.Querier.
func (d *Driver) DeviceFeatures(phys core.Handle) (core.FeatureSet, error) {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(phys.(vk.PhysicalDevice), &features)
	features.Deref()
	return featureSetFromVk(&features), nil
}

// DeviceExtensions implements core.Querier.
func (d *Driver) DeviceExtensions(phys core.Handle) ([]string, error) {
	pd := phys.(vk.PhysicalDevice)
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil)); err != nil {
		return nil, &core.DriverError{Call: "vk.EnumerateDeviceExtensionProperties", Err: err}
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &count, props)); err != nil {
		return nil, &core.DriverError{Call: "vk.EnumerateDeviceExtensionProperties", Err: err}
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// QueueFamilies implements core.Querier.
func (d *Driver) QueueFamilies(phys core.Handle) ([]core.QueueFamily, error) {
	pd := phys.(vk.PhysicalDevice)
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)

	families := make([]core.QueueFamily, count)
	for i := range props {
		props[i].Deref()
		families[i] = core.QueueFamily{
			Index: uint32(i),
			Caps:  core.QueueCaps(props[i].QueueFlags),
			Count: props[i].QueueCount,
		}
	}
	return families, nil
}

// SurfaceCapabilities implements core.Querier.
func (d *Driver) SurfaceCapabilities(phys, surface core.Handle) (core.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(phys.(vk.PhysicalDevice), surface.(vk.Surface), &caps)
	if err := vk.Error(res); err != nil {
		return core.SurfaceCapabilities{}, &core.DriverError{Call: "vk.GetPhysicalDeviceSurfaceCapabilities", Err: err}
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return core.SurfaceCapabilities{
		MinImageCount:    caps.MinImageCount,
		MaxImageCount:    caps.MaxImageCount,
		CurrentExtent:    core.Extent2D{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height},
		MinImageExtent:   core.Extent2D{Width: caps.MinImageExtent.Width, Height: caps.MinImageExtent.Height},
		MaxImageExtent:   core.Extent2D{Width: caps.MaxImageExtent.Width, Height: caps.MaxImageExtent.Height},
		CurrentTransform: core.SurfaceTransform(caps.CurrentTransform),
	}, nil
}

// SurfaceFormats implements core.Querier.
func (d *Driver) SurfaceFormats(phys, surface core.Handle) ([]core.SurfaceFormat, error) {
	pd := phys.(vk.PhysicalDevice)
	surf := surface.(vk.Surface)
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(pd, surf, &count, nil)); err != nil {
		return nil, &core.DriverError{Call: "vk.GetPhysicalDeviceSurfaceFormats", Err: err}
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(pd, surf, &count, formats)); err != nil {
		return nil, &core.DriverError{Call: "vk.GetPhysicalDeviceSurfaceFormats", Err: err}
	}
	out := make([]core.SurfaceFormat, count)
	for i := range formats {
		formats[i].Deref()
		out[i] = core.SurfaceFormat{
			Format:     core.Format(formats[i].Format),
			ColorSpace: core.ColorSpace(formats[i].ColorSpace),
		}
	}
	return out, nil
}

// PresentModes implements core.Querier.
func (d *Driver) PresentModes(phys, surface core.Handle) ([]core.PresentMode, error) {
	pd := phys.(vk.PhysicalDevice)
	surf := surface.(vk.Surface)
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(pd, surf, &count, nil)); err != nil {
		return nil, &core.DriverError{Call: "vk.GetPhysicalDeviceSurfacePresentModes", Err: err}
	}
	modes := make([]vk.PresentMode, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(pd, surf, &count, modes)); err != nil {
		return nil, &core.DriverError{Call: "vk.GetPhysicalDeviceSurfacePresentModes", Err: err}
	}
	out := make([]core.PresentMode, count)
	for i, m := range modes {
		out[i] = core.PresentMode(m)
	}
	return out, nil
}

// SupportsPresent implements core.Querier.
func (d *Driver) SupportsPresent(phys core.Handle, family uint32, surface core.Handle) (bool, error) {
	var supported vk.Bool32
	res := vk.GetPhysicalDeviceSurfaceSupport(phys.(vk.PhysicalDevice), family, surface.(vk.Surface), &supported)
	if err := vk.Error(res); err != nil {
		return false, &core.DriverError{Call: "vk.GetPhysicalDeviceSurfaceSupport", Err: err}
	}
	return supported == vk.True, nil
}

// CreateDevice implements core.Commander.
func (d *Driver) CreateDevice(phys core.Handle, info core.DeviceCreateInfo) (core.Handle, error) {
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(info.QueueFamilies))
	for i, family := range info.QueueFamilies {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	extensions := safeStrings(info.Extensions)
	features := featuresToVk(info.Features)
	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{features},
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(phys.(vk.PhysicalDevice), &createInfo, nil, &device)); err != nil {
		return nil, &core.DriverError{Call: "vk.CreateDevice", Err: err}
	}
	return device, nil
}

// DestroyDevice implements core.Commander.
func (d *Driver) DestroyDevice(device core.Handle) {
	vk.DestroyDevice(device.(vk.Device), nil)
}

// DeviceQueue implements core.Commander.
func (d *Driver) DeviceQueue(device core.Handle, family uint32) core.Handle {
	var queue vk.Queue
	vk.GetDeviceQueue(device.(vk.Device), family, 0, &queue)
	return queue
}

// CreateSwapchain implements core.Commander.
func (d *Driver) CreateSwapchain(device core.Handle, info core.SwapchainCreateInfo) (core.Handle, error) {
	createInfo := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         info.Surface.(vk.Surface),
		MinImageCount:   info.MinImageCount,
		ImageFormat:     vk.Format(info.Format.Format),
		ImageColorSpace: vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
		},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(info.Usage),
		PreTransform:     vk.SurfaceTransformFlagBits(info.PreTransform),
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentMode(info.PresentMode),
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if len(info.SharingFamilies) > 0 {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = uint32(len(info.SharingFamilies))
		createInfo.PQueueFamilyIndices = info.SharingFamilies
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}
	if info.OldSwapchain != nil {
		createInfo.OldSwapchain = info.OldSwapchain.(vk.Swapchain)
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(device.(vk.Device), &createInfo, nil, &swapchain)); err != nil {
		return nil, &core.DriverError{Call: "vk.CreateSwapchain", Err: err}
	}
	return swapchain, nil
}

// DestroySwapchain implements core.Commander.
func (d *Driver) DestroySwapchain(device, swapchain core.Handle) {
	vk.DestroySwapchain(device.(vk.Device), swapchain.(vk.Swapchain), nil)
}

// SwapchainImages implements core.Commander.
func (d *Driver) SwapchainImages(device, swapchain core.Handle) ([]core.Handle, error) {
	dev := device.(vk.Device)
	sc := swapchain.(vk.Swapchain)
	var count uint32
	if err := vk.Error(vk.GetSwapchainImages(dev, sc, &count, nil)); err != nil {
		return nil, &core.DriverError{Call: "vk.GetSwapchainImages", Err: err}
	}
	images := make([]vk.Image, count)
	if err := vk.Error(vk.GetSwapchainImages(dev, sc, &count, images)); err != nil {
		return nil, &core.DriverError{Call: "vk.GetSwapchainImages", Err: err}
	}
	handles := make([]core.Handle, count)
	for i, img := range images {
		handles[i] = img
	}
	return handles, nil
}

// CreateImageView implements core.Commander.
func (d *Driver) CreateImageView(device, image core.Handle, format core.Format) (core.Handle, error) {
	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image.(vk.Image),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(device.(vk.Device), &createInfo, nil, &view)); err != nil {
		return nil, &core.DriverError{Call: "vk.CreateImageView", Err: err}
	}
	return view, nil
}

// DestroyImageView implements core.Commander.
func (d *Driver) DestroyImageView(device, view core.Handle) {
	vk.DestroyImageView(device.(vk.Device), view.(vk.ImageView), nil)
}

// SurfaceFromPointer wraps a native VkSurfaceKHR pointer, as returned
// by SDL's VulkanCreateSurface, into a driver handle.
func SurfaceFromPointer(ptr uintptr) core.Handle {
	return vk.SurfaceFromPointer(ptr)
}
