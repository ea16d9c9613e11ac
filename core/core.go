// Package core negotiates graphics device and presentation parameters:
// it selects a physical device, merges feature and extension requests
// against hardware support, assigns queue roles to queue families and
// picks swapchain parameters. All native API access goes through the
// Driver interface, which package vulkan implements.
package core

// Handle is an opaque native object handle crossing the driver
// boundary. Its dynamic type belongs to the driver implementation.
type Handle interface{}

// Version numbers an application, engine or API revision.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Uint32 packs the version the way the native API encodes versions.
func (v Version) Uint32() uint32 {
	return uint32(v.Major)<<22 | uint32(v.Minor)<<12 | uint32(v.Patch)
}

// DeviceType categorises physical devices. Values match
// VkPhysicalDeviceType.
type DeviceType int32

// Physical device categories.
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "integrated GPU"
	case DeviceTypeDiscreteGPU:
		return "discrete GPU"
	case DeviceTypeVirtualGPU:
		return "virtual GPU"
	case DeviceTypeCPU:
		return "CPU"
	default:
		return "other"
	}
}

// DeviceProperties describes one enumerated physical device.
type DeviceProperties struct {
	Name          string
	Type          DeviceType
	VendorID      uint32
	DeviceID      uint32
	APIVersion    uint32
	DriverVersion uint32
}

// QueueCaps is the capability flag set of a queue family. Values match
// VkQueueFlagBits.
type QueueCaps uint32

// Queue family capabilities.
const (
	QueueGraphics QueueCaps = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// Has reports whether every capability in caps is present.
func (c QueueCaps) Has(caps QueueCaps) bool { return c&caps == caps }

// HasAny reports whether at least one capability in caps is present.
func (c QueueCaps) HasAny(caps QueueCaps) bool { return c&caps != 0 }

// QueueFamily is one hardware queue family as reported by device
// enumeration.
type QueueFamily struct {
	Index uint32
	Caps  QueueCaps
	Count uint32
}

// Extent2D is a two-dimensional pixel extent.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// ExtentUndefined is the sentinel a surface reports for its current
// extent when the application is free to choose the swapchain size.
const ExtentUndefined = ^uint32(0)

// SurfaceTransform is the native surface pre-transform, carried
// through swapchain creation untouched.
type SurfaceTransform uint32

// SurfaceCapabilities describes what a (device, surface) pair
// supports. MaxImageCount zero means the upper bound is unlimited.
type SurfaceCapabilities struct {
	MinImageCount    uint32
	MaxImageCount    uint32
	CurrentExtent    Extent2D
	MinImageExtent   Extent2D
	MaxImageExtent   Extent2D
	CurrentTransform SurfaceTransform
}

// Format identifies a pixel format. Values match VkFormat.
type Format uint32

// The default-preference swapchain formats.
const (
	FormatR8G8B8A8SRGB       Format = 43
	FormatB8G8R8A8SRGB       Format = 50
	FormatA8B8G8R8SRGBPack32 Format = 57
)

// ColorSpace identifies a color space. Values match VkColorSpaceKHR.
type ColorSpace uint32

// ColorSpaceSRGBNonlinear is the ubiquitous presentation color space.
const ColorSpaceSRGBNonlinear ColorSpace = 0

// SurfaceFormat pairs a pixel format with a color space.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// PresentMode selects the presentation queueing discipline. Values
// match VkPresentModeKHR.
type PresentMode int32

// Present modes.
const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFIFO
	PresentModeFIFORelaxed
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeFIFO:
		return "fifo"
	case PresentModeFIFORelaxed:
		return "fifo-relaxed"
	default:
		return "unknown"
	}
}

// ImageUsage is a set of swapchain image usage flags. Values match
// VkImageUsageFlagBits.
type ImageUsage uint32

// Image usages.
const (
	UsageTransferSrc ImageUsage = 1 << iota
	UsageTransferDst
	UsageSampled
	UsageStorage
	UsageColorAttachment
	UsageDepthStencilAttachment
	UsageTransientAttachment
	UsageInputAttachment
)

// SharingMode selects how swapchain images are shared between queue
// families.
type SharingMode int32

// Sharing modes.
const (
	SharingExclusive SharingMode = iota
	SharingConcurrent
)

// InstanceCreateInfo is the record the driver turns into a native
// instance creation call.
type InstanceCreateInfo struct {
	AppName       string
	EngineName    string
	AppVersion    uint32
	EngineVersion uint32
	APIVersion    uint32
	Extensions    []string
	Layers        []string
	// DebugSink requests installation of the driver's default debug
	// message callback.
	DebugSink bool
}

// DeviceCreateInfo is the record the driver turns into a native
// logical-device creation call. Each listed queue family receives one
// queue at maximum priority.
type DeviceCreateInfo struct {
	QueueFamilies []uint32
	Extensions    []string
	Features      FeatureSet
}

// SwapchainCreateInfo is the record the driver turns into a native
// swapchain creation call. A nil SharingFamilies slice selects
// exclusive sharing. OldSwapchain, when non-nil, is passed as the
// recycle hint.
type SwapchainCreateInfo struct {
	Surface         Handle
	MinImageCount   uint32
	Format          SurfaceFormat
	Extent          Extent2D
	Usage           ImageUsage
	SharingFamilies []uint32
	PreTransform    SurfaceTransform
	PresentMode     PresentMode
	OldSwapchain    Handle
}

// Querier is the read-only query surface of the native graphics API.
type Querier interface {
	// InstanceExtensions lists the instance extensions the loader
	// supports.
	InstanceExtensions() ([]string, error)
	// PhysicalDevices enumerates the physical devices of an instance.
	PhysicalDevices(instance Handle) ([]Handle, error)
	// DeviceProperties returns the general properties of a physical
	// device.
	DeviceProperties(phys Handle) (DeviceProperties, error)
	// DeviceFeatures returns the feature set a physical device
	// supports.
	DeviceFeatures(phys Handle) (FeatureSet, error)
	// DeviceExtensions lists the extensions a physical device
	// supports.
	DeviceExtensions(phys Handle) ([]string, error)
	// QueueFamilies returns the queue family table of a physical
	// device in hardware enumeration order.
	QueueFamilies(phys Handle) ([]QueueFamily, error)
	// SurfaceCapabilities queries surface capabilities for a
	// (device, surface) pair.
	SurfaceCapabilities(phys, surface Handle) (SurfaceCapabilities, error)
	// SurfaceFormats queries the supported surface formats for a
	// (device, surface) pair.
	SurfaceFormats(phys, surface Handle) ([]SurfaceFormat, error)
	// PresentModes queries the supported present modes for a
	// (device, surface) pair.
	PresentModes(phys, surface Handle) ([]PresentMode, error)
	// SupportsPresent queries present support for a
	// (device, queue family, surface) triple.
	SupportsPresent(phys Handle, family uint32, surface Handle) (bool, error)
}

// Commander is the create/destroy surface of the native graphics API.
type Commander interface {
	// Load locates and initialises the native entry points. It must be
	// called before any other driver method and is idempotent.
	Load() error
	// CreateInstance creates a native instance.
	CreateInstance(info InstanceCreateInfo) (Handle, error)
	// DestroyInstance releases a native instance.
	DestroyInstance(instance Handle)
	// CreateDevice creates a logical device on a physical device.
	CreateDevice(phys Handle, info DeviceCreateInfo) (Handle, error)
	// DestroyDevice releases a logical device.
	DestroyDevice(device Handle)
	// DeviceQueue returns queue zero of a family on a device.
	DeviceQueue(device Handle, family uint32) Handle
	// CreateSwapchain creates a swapchain on a device.
	CreateSwapchain(device Handle, info SwapchainCreateInfo) (Handle, error)
	// DestroySwapchain releases a swapchain.
	DestroySwapchain(device, swapchain Handle)
	// SwapchainImages returns the images backing a swapchain.
	SwapchainImages(device, swapchain Handle) ([]Handle, error)
	// CreateImageView creates a 2-D single-mip single-layer color view
	// with identity component mapping over a swapchain image.
	CreateImageView(device, image Handle, format Format) (Handle, error)
	// DestroyImageView releases an image view.
	DestroyImageView(device, view Handle)
}

// Driver is the complete native API surface the engine builds against.
type Driver interface {
	Querier
	Commander
}
