package core

import "errors"

var errNoPresentableQueues = errors.New("core: device has no graphics and present queues for this surface")

// Default preferences used after the caller's own lists. The formats
// have near-total coverage and need no special encoding effort.
var defaultFormats = []SurfaceFormat{
	{Format: FormatB8G8R8A8SRGB, ColorSpace: ColorSpaceSRGBNonlinear},
	{Format: FormatR8G8B8A8SRGB, ColorSpace: ColorSpaceSRGBNonlinear},
	{Format: FormatA8B8G8R8SRGBPack32, ColorSpace: ColorSpaceSRGBNonlinear},
}

var defaultPresentModes = []PresentMode{
	PresentModeFIFORelaxed,
	PresentModeFIFO,
	PresentModeMailbox,
	PresentModeImmediate,
}

// SwapchainConfig collects everything a swapchain build needs.
type SwapchainConfig struct {
	// PreferredFormats and PreferredModes are scanned in order before
	// the built-in defaults.
	PreferredFormats []SurfaceFormat
	PreferredModes   []PresentMode

	// Extent is the requested logical extent, used only when the
	// surface leaves the choice to the application. Zero means
	// 800x600.
	Extent Extent2D

	// TripleBuffered targets three images instead of two, subject to
	// the surface's count bounds.
	TripleBuffered bool

	// Usage is the image usage flag set. Zero means color attachment
	// plus transfer destination.
	Usage ImageUsage

	// OldSwapchain is handed to the driver as a recycle hint.
	OldSwapchain Handle
}

// Swapchain owns a native swapchain and one image view per image.
// Rebuild it on resize; destroy it before its device.
type Swapchain struct {
	device  *Device
	surface Handle
	handle  Handle
	format  SurfaceFormat
	mode    PresentMode
	extent  Extent2D
	sharing SharingMode
	views   []Handle
	config  SwapchainConfig
}

// BuildSwapchain negotiates presentation parameters against the
// surface's reported support and creates the swapchain and its image
// views. On any failure no native resource is retained.
func BuildSwapchain(dev *Device, surface Handle, cfg SwapchainConfig) (*Swapchain, error) {
	surfAny, ok := dev.instance.Extension(ExtSurface)
	if !ok {
		return nil, &MissingExtensionError{Name: ExtSurface.Name()}
	}
	surfExt := surfAny.(*SurfaceExtension)
	swapAny, ok := dev.Extension(ExtSwapchain)
	if !ok {
		return nil, &MissingExtensionError{Name: ExtSwapchain.Name()}
	}
	swapExt := swapAny.(*SwapchainExtension)

	graphicsQ, gok := dev.GraphicsQueue()
	presentQ, pok := dev.PresentQueue()
	if !gok || !pok {
		return nil, errNoPresentableQueues
	}

	caps, err := surfExt.Capabilities(dev.phys, surface)
	if err != nil {
		return nil, err
	}
	formats, err := surfExt.Formats(dev.phys, surface)
	if err != nil {
		return nil, err
	}
	modes, err := surfExt.PresentModes(dev.phys, surface)
	if err != nil {
		return nil, err
	}

	format := pickSurfaceFormat(cfg.PreferredFormats, formats)
	mode := pickPresentMode(cfg.PreferredModes, modes)
	extent := pickExtent(caps, cfg.Extent)
	imageCount := pickImageCount(caps, cfg.TripleBuffered)
	sharing, sharingFamilies := pickSharing(graphicsQ.Family, presentQ.Family)

	usage := cfg.Usage
	if usage == 0 {
		usage = UsageColorAttachment | UsageTransferDst
	}

	handle, err := swapExt.Create(SwapchainCreateInfo{
		Surface:         surface,
		MinImageCount:   imageCount,
		Format:          format,
		Extent:          extent,
		Usage:           usage,
		SharingFamilies: sharingFamilies,
		PreTransform:    caps.CurrentTransform,
		PresentMode:     mode,
		OldSwapchain:    cfg.OldSwapchain,
	})
	if err != nil {
		return nil, err
	}

	images, err := swapExt.Images(handle)
	if err != nil {
		swapExt.Destroy(handle)
		return nil, err
	}

	views := make([]Handle, 0, len(images))
	for _, img := range images {
		view, err := dev.drv.CreateImageView(dev.handle, img, format.Format)
		if err != nil {
			for _, v := range views {
				dev.drv.DestroyImageView(dev.handle, v)
			}
			swapExt.Destroy(handle)
			return nil, err
		}
		views = append(views, view)
	}

	return &Swapchain{
		device:  dev,
		surface: surface,
		handle:  handle,
		format:  format,
		mode:    mode,
		extent:  extent,
		sharing: sharing,
		views:   views,
		config:  cfg,
	}, nil
}

// pickSurfaceFormat scans the caller's preferences and then the
// defaults for the first entry the surface supports, falling back to
// the first supported format.
func pickSurfaceFormat(preferred, supported []SurfaceFormat) SurfaceFormat {
	for _, want := range append(append([]SurfaceFormat{}, preferred...), defaultFormats...) {
		for _, have := range supported {
			if want == have {
				return want
			}
		}
	}
	return supported[0]
}

// pickPresentMode scans the caller's preferences and then the defaults
// for the first supported mode, falling back to the first supported
// one.
func pickPresentMode(preferred, supported []PresentMode) PresentMode {
	for _, want := range append(append([]PresentMode{}, preferred...), defaultPresentModes...) {
		for _, have := range supported {
			if want == have {
				return want
			}
		}
	}
	return supported[0]
}

// pickExtent honors the surface's current extent when it is defined,
// otherwise clamps the requested extent into the supported range.
func pickExtent(caps SurfaceCapabilities, requested Extent2D) Extent2D {
	if caps.CurrentExtent.Width != ExtentUndefined && caps.CurrentExtent.Height != ExtentUndefined {
		return caps.CurrentExtent
	}
	if requested.Width == 0 && requested.Height == 0 {
		requested = Extent2D{Width: 800, Height: 600}
	}
	return Extent2D{
		Width:  clampU32(requested.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampU32(requested.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// pickImageCount targets three images for triple buffering and two
// otherwise, clamped into the supported range. A zero maximum means
// the surface imposes no upper bound.
func pickImageCount(caps SurfaceCapabilities, tripleBuffered bool) uint32 {
	count := uint32(2)
	if tripleBuffered {
		count = 3
	}
	if count < caps.MinImageCount {
		count = caps.MinImageCount
	}
	if caps.MaxImageCount != 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// pickSharing selects exclusive sharing when one family both renders
// and presents, otherwise concurrent sharing over exactly the two
// families involved.
func pickSharing(graphicsFamily, presentFamily uint32) (SharingMode, []uint32) {
	if graphicsFamily == presentFamily {
		return SharingExclusive, nil
	}
	return SharingConcurrent, []uint32{graphicsFamily, presentFamily}
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Handle returns the native swapchain handle.
func (s *Swapchain) Handle() Handle { return s.handle }

// Format returns the negotiated surface format.
func (s *Swapchain) Format() SurfaceFormat { return s.format }

// PresentMode returns the negotiated present mode.
func (s *Swapchain) PresentMode() PresentMode { return s.mode }

// Extent returns the negotiated image extent.
func (s *Swapchain) Extent() Extent2D { return s.extent }

// SharingMode returns the negotiated image sharing mode.
func (s *Swapchain) SharingMode() SharingMode { return s.sharing }

// ImageViews returns one view per swapchain image, in image order.
func (s *Swapchain) ImageViews() []Handle { return s.views }

// ImageCount returns the number of images actually created.
func (s *Swapchain) ImageCount() int { return len(s.views) }

// Rebuild negotiates a replacement swapchain for the same surface,
// passing the live handle as the recycle hint, and swaps it in. The
// displaced swapchain is returned so the caller can defer its Destroy
// until in-flight use of the old images has completed. Rebuild must
// not race with reads of the swapchain.
func (s *Swapchain) Rebuild() (*Swapchain, error) {
	cfg := s.config
	cfg.OldSwapchain = s.handle
	next, err := BuildSwapchain(s.device, s.surface, cfg)
	if err != nil {
		return nil, err
	}
	old := *s
	*s = *next
	return &old, nil
}

// Destroy releases the image views and the native swapchain.
func (s *Swapchain) Destroy() {
	for _, v := range s.views {
		s.device.drv.DestroyImageView(s.device.handle, v)
	}
	if ext, ok := s.device.Extension(ExtSwapchain); ok {
		ext.(*SwapchainExtension).Destroy(s.handle)
	}
	s.views = nil
	s.handle = nil
}
