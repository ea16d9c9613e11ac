package vulkan

import (
	"unsafe"

	"github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/koru3d/vkinit/core"
)

// installDebugSink registers a debug report callback that forwards
// validation and loader messages to logrus.
func installDebugSink(instance vk.Instance) (vk.DebugReportCallback, error) {
	createInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(
			vk.DebugReportErrorBit |
				vk.DebugReportWarningBit |
				vk.DebugReportPerformanceWarningBit |
				vk.DebugReportInformationBit),
		PfnCallback: debugReport,
	}

	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(instance, &createInfo, nil, &callback)); err != nil {
		return callback, &core.DriverError{Call: "vk.CreateDebugReportCallback", Err: err}
	}
	return callback, nil
}

func debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint,
	messageCode int32, layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {
	entry := logrus.WithFields(logrus.Fields{
		"layer": layerPrefix,
		"code":  messageCode,
	})
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		entry.Error(message)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		entry.Warn(message)
	default:
		entry.Debug(message)
	}
	return vk.False
}
