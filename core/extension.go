package core

// ExtensionKind enumerates the capability extensions the engine knows
// how to request and load. Kinds replace runtime type identity as the
// registry key: each kind is bound to its native extension name, its
// scope and a loader that produces the polymorphic extension value.
type ExtensionKind int

const (
	// Instance-scoped extensions.
	ExtSurface ExtensionKind = iota
	ExtXlibSurface
	ExtXcbSurface
	ExtWaylandSurface
	ExtWin32Surface
	ExtMacOSSurface
	ExtAndroidSurface
	ExtDebugReport

	// Device-scoped extensions.
	ExtSwapchain
	ExtMaintenance1
	ExtGetMemoryRequirements2
	ExtPushDescriptor

	extensionKindCount
)

// Extension is a loaded capability-extension object retrievable from
// an ExtensionRegistry.
type Extension interface {
	// Kind returns the registry key of the extension.
	Kind() ExtensionKind
	// Name returns the native extension name.
	Name() string
}

// ExtensionLoader produces the extension object for a requested kind
// once the owning instance or device exists. The device handle is nil
// for instance-scoped kinds.
type ExtensionLoader func(drv Driver, instance, device Handle) Extension

type extensionInfo struct {
	name   string
	device bool
	load   ExtensionLoader
}

var extensionInfos = [extensionKindCount]extensionInfo{
	ExtSurface:                {name: "VK_KHR_surface", load: loadSurfaceExtension},
	ExtXlibSurface:            {name: "VK_KHR_xlib_surface", load: loadStaticExtension(ExtXlibSurface)},
	ExtXcbSurface:             {name: "VK_KHR_xcb_surface", load: loadStaticExtension(ExtXcbSurface)},
	ExtWaylandSurface:         {name: "VK_KHR_wayland_surface", load: loadStaticExtension(ExtWaylandSurface)},
	ExtWin32Surface:           {name: "VK_KHR_win32_surface", load: loadStaticExtension(ExtWin32Surface)},
	ExtMacOSSurface:           {name: "VK_MVK_macos_surface", load: loadStaticExtension(ExtMacOSSurface)},
	ExtAndroidSurface:         {name: "VK_KHR_android_surface", load: loadStaticExtension(ExtAndroidSurface)},
	ExtDebugReport:            {name: "VK_EXT_debug_report", load: loadStaticExtension(ExtDebugReport)},
	ExtSwapchain:              {name: "VK_KHR_swapchain", device: true, load: loadSwapchainExtension},
	ExtMaintenance1:           {name: "VK_KHR_maintenance1", device: true, load: loadStaticExtension(ExtMaintenance1)},
	ExtGetMemoryRequirements2: {name: "VK_KHR_get_memory_requirements2", device: true, load: loadStaticExtension(ExtGetMemoryRequirements2)},
	ExtPushDescriptor:         {name: "VK_KHR_push_descriptor", device: true, load: loadStaticExtension(ExtPushDescriptor)},
}

// Name returns the native extension name for the kind.
func (k ExtensionKind) Name() string {
	if k < 0 || k >= extensionKindCount {
		return ""
	}
	return extensionInfos[k].name
}

// DeviceScoped reports whether the kind is loaded per device rather
// than per instance.
func (k ExtensionKind) DeviceScoped() bool {
	return k >= 0 && k < extensionKindCount && extensionInfos[k].device
}

func (k ExtensionKind) String() string { return k.Name() }

// ExtensionRegistry stores loaded extension objects by kind. It is
// populated once during a build and read-only afterwards, so lookups
// are safe to share across goroutines.
type ExtensionRegistry struct {
	loaded map[ExtensionKind]Extension
}

func newExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{loaded: make(map[ExtensionKind]Extension)}
}

// register loads the extension for kind. Duplicate registrations and
// unknown kinds are ignored.
func (r *ExtensionRegistry) register(kind ExtensionKind, drv Driver, instance, device Handle) {
	if kind < 0 || kind >= extensionKindCount {
		return
	}
	if _, ok := r.loaded[kind]; ok {
		return
	}
	r.loaded[kind] = extensionInfos[kind].load(drv, instance, device)
}

// Lookup returns the loaded extension for kind, if it was requested
// and supported.
func (r *ExtensionRegistry) Lookup(kind ExtensionKind) (Extension, bool) {
	ext, ok := r.loaded[kind]
	return ext, ok
}

// Kinds returns every loaded kind in enumeration order.
func (r *ExtensionRegistry) Kinds() []ExtensionKind {
	var out []ExtensionKind
	for k := ExtensionKind(0); k < extensionKindCount; k++ {
		if _, ok := r.loaded[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// staticExtension backs kinds whose presence is all that matters; any
// native calls they unlock live outside this engine.
type staticExtension struct {
	kind ExtensionKind
}

func (e *staticExtension) Kind() ExtensionKind { return e.kind }
func (e *staticExtension) Name() string        { return e.kind.Name() }

func loadStaticExtension(kind ExtensionKind) ExtensionLoader {
	return func(Driver, Handle, Handle) Extension {
		return &staticExtension{kind: kind}
	}
}

// SurfaceExtension exposes the surface query calls unlocked by
// VK_KHR_surface.
type SurfaceExtension struct {
	drv Driver
}

func loadSurfaceExtension(drv Driver, _, _ Handle) Extension {
	return &SurfaceExtension{drv: drv}
}

// Kind implements Extension.
func (e *SurfaceExtension) Kind() ExtensionKind { return ExtSurface }

// Name implements Extension.
func (e *SurfaceExtension) Name() string { return ExtSurface.Name() }

// Capabilities queries the surface capabilities of a physical device.
func (e *SurfaceExtension) Capabilities(phys, surface Handle) (SurfaceCapabilities, error) {
	return e.drv.SurfaceCapabilities(phys, surface)
}

// Formats queries the supported surface formats of a physical device.
func (e *SurfaceExtension) Formats(phys, surface Handle) ([]SurfaceFormat, error) {
	return e.drv.SurfaceFormats(phys, surface)
}

// PresentModes queries the supported present modes of a physical
// device.
func (e *SurfaceExtension) PresentModes(phys, surface Handle) ([]PresentMode, error) {
	return e.drv.PresentModes(phys, surface)
}

// SupportsPresent queries whether a queue family can present to the
// surface.
func (e *SurfaceExtension) SupportsPresent(phys Handle, family uint32, surface Handle) (bool, error) {
	return e.drv.SupportsPresent(phys, family, surface)
}

// SwapchainExtension exposes the swapchain calls unlocked by
// VK_KHR_swapchain on one device.
type SwapchainExtension struct {
	drv    Driver
	device Handle
}

func loadSwapchainExtension(drv Driver, _, device Handle) Extension {
	return &SwapchainExtension{drv: drv, device: device}
}

// Kind implements Extension.
func (e *SwapchainExtension) Kind() ExtensionKind { return ExtSwapchain }

// Name implements Extension.
func (e *SwapchainExtension) Name() string { return ExtSwapchain.Name() }

// Create creates a swapchain on the owning device.
func (e *SwapchainExtension) Create(info SwapchainCreateInfo) (Handle, error) {
	return e.drv.CreateSwapchain(e.device, info)
}

// Destroy releases a swapchain created on the owning device.
func (e *SwapchainExtension) Destroy(swapchain Handle) {
	e.drv.DestroySwapchain(e.device, swapchain)
}

// Images returns the native images backing a swapchain.
func (e *SwapchainExtension) Images(swapchain Handle) ([]Handle, error) {
	return e.drv.SwapchainImages(e.device, swapchain)
}

// dedupeKinds drops duplicates and any kind already present in prior,
// preserving order. It enforces uniqueness within each of the
// required/optional lists and lets required entries shadow optional
// ones.
func dedupeKinds(kinds []ExtensionKind, prior []ExtensionKind) []ExtensionKind {
	seen := make(map[ExtensionKind]bool, len(kinds)+len(prior))
	for _, k := range prior {
		seen[k] = true
	}
	var out []ExtensionKind
	for _, k := range kinds {
		if k < 0 || k >= extensionKindCount || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func kindNames(kinds []ExtensionKind) []string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Name())
	}
	return names
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
