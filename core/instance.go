package core

import (
	"errors"
	"runtime"
)

// InstanceConfig collects everything an instance build needs. The
// record is plain data: accumulate it, then hand it to BuildInstance.
type InstanceConfig struct {
	AppName       string
	AppVersion    Version
	EngineName    string
	EngineVersion Version
	// APIVersion is the targeted native API version. The zero value
	// targets 1.0.
	APIVersion Version

	// RequiredExtensions must be supported or instance creation fails.
	// OptionalExtensions are enabled only when supported.
	RequiredExtensions []ExtensionKind
	OptionalExtensions []ExtensionKind

	// Validation requests the standard validation layer.
	Validation bool
	// DebugSink installs the driver's default debug message callback
	// and implies requiring the debug report extension.
	DebugSink bool
	// Headless skips the surface and platform surface extensions for
	// builds that will never present.
	Headless bool
}

// Instance owns a native instance and its instance-scoped extension
// registry. Once built it is immutable and safe to share across
// goroutines. Destroy it only after every device created from it.
type Instance struct {
	drv    Driver
	handle Handle
	exts   *ExtensionRegistry
}

// BuildInstance loads the native entry points and creates an instance
// per cfg. On any failure no native resource is retained.
func BuildInstance(cfg InstanceConfig, drv Driver) (*Instance, error) {
	if err := drv.Load(); err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			err = &LoadError{Err: err}
		}
		return nil, err
	}

	required := dedupeKinds(cfg.RequiredExtensions, nil)
	optional := dedupeKinds(cfg.OptionalExtensions, required)

	if !cfg.Headless {
		surfReq, surfOpt := surfaceExtensionKinds()
		required = append(required, dedupeKinds(surfReq, append(required, optional...))...)
		optional = append(optional, dedupeKinds(surfOpt, append(required, optional...))...)
	}
	if cfg.DebugSink {
		required = append(required, dedupeKinds([]ExtensionKind{ExtDebugReport}, append(required, optional...))...)
	}

	// Optional kinds are filtered against loader support; required
	// kinds are passed through and instance creation fails on its own
	// if one is missing.
	var optionalSupported []ExtensionKind
	if len(optional) > 0 {
		supported, err := drv.InstanceExtensions()
		if err != nil {
			return nil, err
		}
		for _, kind := range optional {
			if containsName(supported, kind.Name()) {
				optionalSupported = append(optionalSupported, kind)
			}
		}
	}

	apiVersion := cfg.APIVersion
	if apiVersion.Major < 1 {
		apiVersion.Major = 1
	}

	var layers []string
	if cfg.Validation {
		layers = append(layers, "VK_LAYER_KHRONOS_validation")
	}

	handle, err := drv.CreateInstance(InstanceCreateInfo{
		AppName:       cfg.AppName,
		EngineName:    cfg.EngineName,
		AppVersion:    cfg.AppVersion.Uint32(),
		EngineVersion: cfg.EngineVersion.Uint32(),
		APIVersion:    apiVersion.Uint32(),
		Extensions:    append(kindNames(optionalSupported), kindNames(required)...),
		Layers:        layers,
		DebugSink:     cfg.DebugSink,
	})
	if err != nil {
		return nil, err
	}

	exts := newExtensionRegistry()
	for _, kind := range optionalSupported {
		exts.register(kind, drv, handle, nil)
	}
	for _, kind := range required {
		exts.register(kind, drv, handle, nil)
	}

	return &Instance{drv: drv, handle: handle, exts: exts}, nil
}

// surfaceExtensionKinds returns the surface extension kinds for the
// running platform. Linux window systems vary per session, so the
// platform kinds are optional there; everywhere else the single
// platform kind is required.
func surfaceExtensionKinds() (required, optional []ExtensionKind) {
	required = []ExtensionKind{ExtSurface}
	switch runtime.GOOS {
	case "windows":
		required = append(required, ExtWin32Surface)
	case "linux", "freebsd":
		optional = []ExtensionKind{ExtXlibSurface, ExtWaylandSurface, ExtXcbSurface}
	case "android":
		required = append(required, ExtAndroidSurface)
	case "darwin":
		required = append(required, ExtMacOSSurface)
	}
	return required, optional
}

// Handle returns the native instance handle.
func (i *Instance) Handle() Handle { return i.handle }

// Driver returns the driver the instance was built with.
func (i *Instance) Driver() Driver { return i.drv }

// Extension returns the loaded instance extension of the given kind.
func (i *Instance) Extension(kind ExtensionKind) (Extension, bool) {
	return i.exts.Lookup(kind)
}

// Extensions returns the instance-scoped registry.
func (i *Instance) Extensions() *ExtensionRegistry { return i.exts }

// PhysicalDevices returns the properties of every enumerable physical
// device, in hardware order.
func (i *Instance) PhysicalDevices() ([]DeviceProperties, error) {
	handles, err := i.drv.PhysicalDevices(i.handle)
	if err != nil {
		return nil, err
	}
	props := make([]DeviceProperties, len(handles))
	for n, pd := range handles {
		props[n], err = i.drv.DeviceProperties(pd)
		if err != nil {
			return nil, err
		}
	}
	return props, nil
}

// Destroy releases the native instance. Devices built from the
// instance must be destroyed first.
func (i *Instance) Destroy() {
	i.drv.DestroyInstance(i.handle)
	i.handle = nil
}
