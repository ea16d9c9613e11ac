package core

// DeviceConfig collects everything a device build needs.
type DeviceConfig struct {
	// RequiredFeatures reject any candidate lacking one of them;
	// OptionalFeatures are enabled when available and never reject.
	RequiredFeatures FeatureSet
	OptionalFeatures FeatureSet

	// RequiredExtensions reject any candidate lacking one of them;
	// OptionalExtensions are enabled when available.
	RequiredExtensions []ExtensionKind
	OptionalExtensions []ExtensionKind

	// Surface, when set, demands a present-capable queue family and
	// implies requiring the swapchain extension.
	Surface Handle

	// Preference biases candidate selection.
	Preference DevicePreference

	// GraphicsOptional lifts the demand for a graphics-capable queue
	// family, for compute-only builds.
	GraphicsOptional bool
}

// Queue is a resolved native queue together with its family index.
// Concurrent submission to one queue needs external synchronisation.
type Queue struct {
	Family uint32
	Handle Handle
}

type queueSlot struct {
	queue Queue
	ok    bool
}

// Device owns a logical device, its device-scoped extension registry
// and the queues resolved for each assigned role. Once built it is
// immutable and safe to share across goroutines. Destroy it before the
// instance it was built from.
type Device struct {
	instance *Instance
	drv      Driver
	phys     Handle
	handle   Handle
	exts     *ExtensionRegistry
	enabled  FeatureSet
	roles    QueueRoleAssignment

	graphics queueSlot
	compute  queueSlot
	transfer queueSlot
	present  queueSlot
}

// BuildDevice selects a physical device satisfying cfg, negotiates
// features and extensions, assigns queue roles and creates the logical
// device. On any failure no native resource is retained.
func BuildDevice(inst *Instance, cfg DeviceConfig) (*Device, error) {
	drv := inst.drv

	required := dedupeKinds(cfg.RequiredExtensions, nil)
	if cfg.Surface != nil {
		if _, ok := inst.Extension(ExtSurface); !ok {
			return nil, &MissingExtensionError{Name: ExtSurface.Name()}
		}
		required = append(required, dedupeKinds([]ExtensionKind{ExtSwapchain}, required)...)
	}
	optional := dedupeKinds(cfg.OptionalExtensions, required)

	candidates, err := drv.PhysicalDevices(inst.handle)
	if err != nil {
		return nil, err
	}

	sel := &deviceSelector{
		drv:              drv,
		requiredFeatures: cfg.RequiredFeatures,
		requiredExts:     required,
		surface:          cfg.Surface,
		needsGraphics:    !cfg.GraphicsOptional,
		preference:       cfg.Preference,
	}
	phys, err := sel.selectPhysicalDevice(candidates)
	if err != nil {
		return nil, err
	}

	// Required availability was proven during selection; the merge
	// cannot fail.
	var enabled FeatureSet
	if !cfg.RequiredFeatures.Empty() || !cfg.OptionalFeatures.Empty() {
		available, err := drv.DeviceFeatures(phys)
		if err != nil {
			return nil, err
		}
		enabled = NegotiateFeatures(available, cfg.RequiredFeatures, cfg.OptionalFeatures)
	}

	var optionalSupported []ExtensionKind
	if len(optional) > 0 {
		supported, err := drv.DeviceExtensions(phys)
		if err != nil {
			return nil, err
		}
		for _, kind := range optional {
			if containsName(supported, kind.Name()) {
				optionalSupported = append(optionalSupported, kind)
			}
		}
	}

	families, err := drv.QueueFamilies(phys)
	if err != nil {
		return nil, err
	}
	var supportsPresent func(uint32) (bool, error)
	if cfg.Surface != nil {
		supportsPresent = func(f uint32) (bool, error) {
			return drv.SupportsPresent(phys, f, cfg.Surface)
		}
	}
	roles, err := assignQueueRoles(families, supportsPresent)
	if err != nil {
		return nil, err
	}

	handle, err := drv.CreateDevice(phys, DeviceCreateInfo{
		QueueFamilies: roles.DistinctFamilies(),
		Extensions:    append(kindNames(optionalSupported), kindNames(required)...),
		Features:      enabled,
	})
	if err != nil {
		return nil, err
	}

	exts := newExtensionRegistry()
	for _, kind := range optionalSupported {
		exts.register(kind, drv, inst.handle, handle)
	}
	for _, kind := range required {
		exts.register(kind, drv, inst.handle, handle)
	}

	dev := &Device{
		instance: inst,
		drv:      drv,
		phys:     phys,
		handle:   handle,
		exts:     exts,
		enabled:  enabled,
		roles:    roles,
	}
	dev.graphics = resolveQueue(drv, handle, roles, RoleGraphics)
	dev.compute = resolveQueue(drv, handle, roles, RoleCompute)
	dev.transfer = resolveQueue(drv, handle, roles, RoleTransfer)
	dev.present = resolveQueue(drv, handle, roles, RolePresent)

	return dev, nil
}

func resolveQueue(drv Driver, device Handle, roles QueueRoleAssignment, role QueueRole) queueSlot {
	fam, ok := roles.Family(role)
	if !ok {
		return queueSlot{}
	}
	return queueSlot{queue: Queue{Family: fam, Handle: drv.DeviceQueue(device, fam)}, ok: true}
}

// Instance returns the owning instance.
func (d *Device) Instance() *Instance { return d.instance }

// Handle returns the native logical device handle.
func (d *Device) Handle() Handle { return d.handle }

// PhysicalDevice returns the selected physical device handle.
func (d *Device) PhysicalDevice() Handle { return d.phys }

// Properties returns the properties of the selected physical device.
func (d *Device) Properties() (DeviceProperties, error) {
	return d.drv.DeviceProperties(d.phys)
}

// EnabledFeatures returns the negotiated feature set.
func (d *Device) EnabledFeatures() FeatureSet { return d.enabled }

// Roles returns the queue role assignment.
func (d *Device) Roles() QueueRoleAssignment { return d.roles }

// Extension returns the loaded device extension of the given kind.
func (d *Device) Extension(kind ExtensionKind) (Extension, bool) {
	return d.exts.Lookup(kind)
}

// Extensions returns the device-scoped registry.
func (d *Device) Extensions() *ExtensionRegistry { return d.exts }

// GraphicsQueue returns the graphics queue, if the role was assigned.
func (d *Device) GraphicsQueue() (Queue, bool) { return d.graphics.queue, d.graphics.ok }

// ComputeQueue returns the compute queue, if the role was assigned.
func (d *Device) ComputeQueue() (Queue, bool) { return d.compute.queue, d.compute.ok }

// TransferQueue returns the dedicated transfer queue, if the device
// has one.
func (d *Device) TransferQueue() (Queue, bool) { return d.transfer.queue, d.transfer.ok }

// PresentQueue returns the present queue, if a surface was supplied
// and a family can present to it.
func (d *Device) PresentQueue() (Queue, bool) { return d.present.queue, d.present.ok }

// Destroy releases the logical device. Swapchains built on the device
// must be destroyed first.
func (d *Device) Destroy() {
	d.drv.DestroyDevice(d.handle)
	d.handle = nil
}
