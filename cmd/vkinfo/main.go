// Command vkinfo opens a window, negotiates a device and swapchain for
// it and reports every negotiated parameter. It is both a smoke test
// and a diagnostic for the negotiation engine.
package main

import (
	"runtime"
	"strconv"

	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/koru3d/vkinit/core"
	"github.com/koru3d/vkinit/vulkan"
)

func init() {
	runtime.LockOSThread()
}

type settings struct {
	width        int
	height       int
	validation   bool
	deviceIndex  int
	tripleBuffer bool
}

// loadSettings reads the VKINFO_* environment, falling back to a
// windowed default with validation off. VKINFO_DEVICE of -1 leaves
// device selection to the discrete-GPU bias.
func loadSettings() settings {
	return settings{
		width:        envInt("VKINFO_WIDTH", 800),
		height:       envInt("VKINFO_HEIGHT", 600),
		validation:   envBool("VKINFO_VALIDATION", false),
		deviceIndex:  envInt("VKINFO_DEVICE", -1),
		tripleBuffer: envBool("VKINFO_TRIPLE_BUFFER", true),
	}
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(envy.Get(key, strconv.Itoa(def)))
	if err != nil {
		log.WithField("var", key).Warn("not an integer, using default")
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(envy.Get(key, strconv.FormatBool(def)))
	if err != nil {
		log.WithField("var", key).Warn("not a boolean, using default")
		return def
	}
	return v
}

func main() {
	cfg := loadSettings()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Fatal(err)
	}
	defer sdl.VulkanUnloadLibrary()

	window, err := sdl.CreateWindow("vkinfo",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.width),
		int32(cfg.height),
		sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		log.Fatal(err)
	}
	defer window.Destroy()

	drv := vulkan.NewWithProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())

	instance, err := core.BuildInstance(core.InstanceConfig{
		AppName:    "vkinfo",
		AppVersion: core.Version{Major: 1},
		EngineName: "vkinit",
		Validation: cfg.validation,
		DebugSink:  cfg.validation,
	}, drv)
	if err != nil {
		log.Fatal(err)
	}
	defer instance.Destroy()

	reportPhysicalDevices(instance)

	srf, err := window.VulkanCreateSurface(instance.Handle())
	if err != nil {
		log.Fatal(err)
	}
	surface := vulkan.SurfaceFromPointer(uintptr(srf))

	preference := core.PreferDiscreteGPU()
	if cfg.deviceIndex >= 0 {
		preference = core.ChooseDevice(uint32(cfg.deviceIndex))
	}

	device, err := core.BuildDevice(instance, core.DeviceConfig{
		OptionalFeatures: core.NewFeatureSet(
			core.FeatureSamplerAnisotropy,
			core.FeatureGeometryShader,
		),
		Surface:    surface,
		Preference: preference,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer device.Destroy()

	reportDevice(device)

	swapchain, err := core.BuildSwapchain(device, surface, core.SwapchainConfig{
		Extent:         core.Extent2D{Width: uint32(cfg.width), Height: uint32(cfg.height)},
		TripleBuffered: cfg.tripleBuffer,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer swapchain.Destroy()

	reportSwapchain(swapchain)

EventLoop:
	for {
		var event sdl.Event
		for event = sdl.WaitEvent(); event != nil; event = sdl.PollEvent() {
			switch et := event.(type) {
			case *sdl.KeyboardEvent:
				if et.Keysym.Sym == sdl.K_ESCAPE {
					break EventLoop
				}
			case *sdl.WindowEvent:
				if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
					old, err := swapchain.Rebuild()
					if err != nil {
						log.Fatal(err)
					}
					old.Destroy()
					log.Info("swapchain rebuilt")
					reportSwapchain(swapchain)
				}
			case *sdl.QuitEvent:
				break EventLoop
			}
		}
	}
}

func reportPhysicalDevices(instance *core.Instance) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		log.Fatal(err)
	}
	for idx, props := range devices {
		log.WithFields(log.Fields{
			"index":  idx,
			"type":   props.Type.String(),
			"vendor": props.VendorID,
			"api":    props.APIVersion,
		}).Info(props.Name)
	}
}

func reportDevice(device *core.Device) {
	props, err := device.Properties()
	if err != nil {
		log.Fatal(err)
	}
	fields := log.Fields{
		"type":     props.Type.String(),
		"features": device.EnabledFeatures().String(),
	}
	for _, role := range []core.QueueRole{core.RoleGraphics, core.RoleCompute, core.RoleTransfer, core.RolePresent} {
		if family, ok := device.Roles().Family(role); ok {
			fields[role.String()] = family
		}
	}
	log.WithFields(fields).Infof("selected %s", props.Name)
}

func reportSwapchain(swapchain *core.Swapchain) {
	extent := swapchain.Extent()
	log.WithFields(log.Fields{
		"format":  swapchain.Format().Format,
		"mode":    swapchain.PresentMode().String(),
		"extent":  strconv.Itoa(int(extent.Width)) + "x" + strconv.Itoa(int(extent.Height)),
		"images":  swapchain.ImageCount(),
		"sharing": swapchain.SharingMode(),
	}).Info("swapchain negotiated")
}
