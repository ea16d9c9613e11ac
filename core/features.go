package core

import "strings"

// Feature identifies one of the independent boolean hardware feature
// flags a physical device may support. The values enumerate the fields
// of VkPhysicalDeviceFeatures.
type Feature uint

// All known device features, in VkPhysicalDeviceFeatures field order.
const (
	FeatureRobustBufferAccess Feature = iota
	FeatureFullDrawIndexUint32
	FeatureImageCubeArray
	FeatureIndependentBlend
	FeatureGeometryShader
	FeatureTessellationShader
	FeatureSampleRateShading
	FeatureDualSrcBlend
	FeatureLogicOp
	FeatureMultiDrawIndirect
	FeatureDrawIndirectFirstInstance
	FeatureDepthClamp
	FeatureDepthBiasClamp
	FeatureFillModeNonSolid
	FeatureDepthBounds
	FeatureWideLines
	FeatureLargePoints
	FeatureAlphaToOne
	FeatureMultiViewport
	FeatureSamplerAnisotropy
	FeatureTextureCompressionETC2
	FeatureTextureCompressionASTCLDR
	FeatureTextureCompressionBC
	FeatureOcclusionQueryPrecise
	FeaturePipelineStatisticsQuery
	FeatureVertexPipelineStoresAndAtomics
	FeatureFragmentStoresAndAtomics
	FeatureShaderTessellationAndGeometryPointSize
	FeatureShaderImageGatherExtended
	FeatureShaderStorageImageExtendedFormats
	FeatureShaderStorageImageMultisample
	FeatureShaderStorageImageReadWithoutFormat
	FeatureShaderStorageImageWriteWithoutFormat
	FeatureShaderUniformBufferArrayDynamicIndexing
	FeatureShaderSampledImageArrayDynamicIndexing
	FeatureShaderStorageBufferArrayDynamicIndexing
	FeatureShaderStorageImageArrayDynamicIndexing
	FeatureShaderClipDistance
	FeatureShaderCullDistance
	FeatureShaderFloat64
	FeatureShaderInt64
	FeatureShaderInt16
	FeatureShaderResourceResidency
	FeatureShaderResourceMinLod
	FeatureSparseBinding
	FeatureSparseResidencyBuffer
	FeatureSparseResidencyImage2D
	FeatureSparseResidencyImage3D
	FeatureSparseResidency2Samples
	FeatureSparseResidency4Samples
	FeatureSparseResidency8Samples
	FeatureSparseResidency16Samples
	FeatureSparseResidencyAliased
	FeatureVariableMultisampleRate
	FeatureInheritedQueries

	featureCount
)

var featureNames = [featureCount]string{
	"robustBufferAccess",
	"fullDrawIndexUint32",
	"imageCubeArray",
	"independentBlend",
	"geometryShader",
	"tessellationShader",
	"sampleRateShading",
	"dualSrcBlend",
	"logicOp",
	"multiDrawIndirect",
	"drawIndirectFirstInstance",
	"depthClamp",
	"depthBiasClamp",
	"fillModeNonSolid",
	"depthBounds",
	"wideLines",
	"largePoints",
	"alphaToOne",
	"multiViewport",
	"samplerAnisotropy",
	"textureCompressionETC2",
	"textureCompressionASTC_LDR",
	"textureCompressionBC",
	"occlusionQueryPrecise",
	"pipelineStatisticsQuery",
	"vertexPipelineStoresAndAtomics",
	"fragmentStoresAndAtomics",
	"shaderTessellationAndGeometryPointSize",
	"shaderImageGatherExtended",
	"shaderStorageImageExtendedFormats",
	"shaderStorageImageMultisample",
	"shaderStorageImageReadWithoutFormat",
	"shaderStorageImageWriteWithoutFormat",
	"shaderUniformBufferArrayDynamicIndexing",
	"shaderSampledImageArrayDynamicIndexing",
	"shaderStorageBufferArrayDynamicIndexing",
	"shaderStorageImageArrayDynamicIndexing",
	"shaderClipDistance",
	"shaderCullDistance",
	"shaderFloat64",
	"shaderInt64",
	"shaderInt16",
	"shaderResourceResidency",
	"shaderResourceMinLod",
	"sparseBinding",
	"sparseResidencyBuffer",
	"sparseResidencyImage2D",
	"sparseResidencyImage3D",
	"sparseResidency2Samples",
	"sparseResidency4Samples",
	"sparseResidency8Samples",
	"sparseResidency16Samples",
	"sparseResidencyAliased",
	"variableMultisampleRate",
	"inheritedQueries",
}

func (f Feature) String() string {
	if f >= featureCount {
		return "unknownFeature"
	}
	return featureNames[f]
}

// FeatureCount returns how many features are enumerable.
func FeatureCount() int { return int(featureCount) }

// FeatureSet is a bit-set over every enumerable Feature. The zero
// value is the empty set.
type FeatureSet uint64

// NewFeatureSet builds a set from the given features.
func NewFeatureSet(features ...Feature) FeatureSet {
	var s FeatureSet
	for _, f := range features {
		s = s.With(f)
	}
	return s
}

// With returns the set with f added.
func (s FeatureSet) With(f Feature) FeatureSet {
	if f >= featureCount {
		return s
	}
	return s | 1<<uint(f)
}

// Has reports whether f is in the set.
func (s FeatureSet) Has(f Feature) bool {
	return f < featureCount && s&(1<<uint(f)) != 0
}

// Contains reports whether every feature of other is also in s.
func (s FeatureSet) Contains(other FeatureSet) bool {
	return s&other == other
}

// Union returns the set of features present in either operand.
func (s FeatureSet) Union(other FeatureSet) FeatureSet {
	return s | other
}

// Intersect returns the set of features present in both operands.
func (s FeatureSet) Intersect(other FeatureSet) FeatureSet {
	return s & other
}

// Empty reports whether no feature is set.
func (s FeatureSet) Empty() bool { return s == 0 }

// List returns the contained features in enumeration order.
func (s FeatureSet) List() []Feature {
	var out []Feature
	for f := Feature(0); f < featureCount; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FeatureSet) String() string {
	if s.Empty() {
		return "[]"
	}
	names := make([]string, 0, 8)
	for _, f := range s.List() {
		names = append(names, f.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}

// NegotiateFeatures merges the required and optional requests against
// hardware availability: a flag ends up enabled when it is available
// and was asked for, required or not. Required flags absent from the
// available set must have disqualified the device during selection
// already, so no error can arise here.
func NegotiateFeatures(available, required, optional FeatureSet) FeatureSet {
	return available.Intersect(required.Union(optional))
}
