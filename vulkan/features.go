package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/koru3d/vkinit/core"
)

// featureFields maps every enumerable feature flag onto its field in
// vk.PhysicalDeviceFeatures, in declaration order.
var featureFields = [...]struct {
	feature core.Feature
	field   func(*vk.PhysicalDeviceFeatures) *vk.Bool32
}{
	{core.FeatureRobustBufferAccess, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.RobustBufferAccess }},
	{core.FeatureFullDrawIndexUint32, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.FullDrawIndexUint32 }},
	{core.FeatureImageCubeArray, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ImageCubeArray }},
	{core.FeatureIndependentBlend, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.IndependentBlend }},
	{core.FeatureGeometryShader, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.GeometryShader }},
	{core.FeatureTessellationShader, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.TessellationShader }},
	{core.FeatureSampleRateShading, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SampleRateShading }},
	{core.FeatureDualSrcBlend, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.DualSrcBlend }},
	{core.FeatureLogicOp, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.LogicOp }},
	{core.FeatureMultiDrawIndirect, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.MultiDrawIndirect }},
	{core.FeatureDrawIndirectFirstInstance, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.DrawIndirectFirstInstance }},
	{core.FeatureDepthClamp, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.DepthClamp }},
	{core.FeatureDepthBiasClamp, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.DepthBiasClamp }},
	{core.FeatureFillModeNonSolid, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.FillModeNonSolid }},
	{core.FeatureDepthBounds, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.DepthBounds }},
	{core.FeatureWideLines, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.WideLines }},
	{core.FeatureLargePoints, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.LargePoints }},
	{core.FeatureAlphaToOne, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.AlphaToOne }},
	{core.FeatureMultiViewport, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.MultiViewport }},
	{core.FeatureSamplerAnisotropy, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SamplerAnisotropy }},
	{core.FeatureTextureCompressionETC2, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.TextureCompressionETC2 }},
	{core.FeatureTextureCompressionASTCLDR, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.TextureCompressionASTC_LDR }},
	{core.FeatureTextureCompressionBC, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.TextureCompressionBC }},
	{core.FeatureOcclusionQueryPrecise, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.OcclusionQueryPrecise }},
	{core.FeaturePipelineStatisticsQuery, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.PipelineStatisticsQuery }},
	{core.FeatureVertexPipelineStoresAndAtomics, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.VertexPipelineStoresAndAtomics }},
	{core.FeatureFragmentStoresAndAtomics, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.FragmentStoresAndAtomics }},
	{core.FeatureShaderTessellationAndGeometryPointSize, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderTessellationAndGeometryPointSize }},
	{core.FeatureShaderImageGatherExtended, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderImageGatherExtended }},
	{core.FeatureShaderStorageImageExtendedFormats, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderStorageImageExtendedFormats }},
	{core.FeatureShaderStorageImageMultisample, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderStorageImageMultisample }},
	{core.FeatureShaderStorageImageReadWithoutFormat, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderStorageImageReadWithoutFormat }},
	{core.FeatureShaderStorageImageWriteWithoutFormat, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderStorageImageWriteWithoutFormat }},
	{core.FeatureShaderUniformBufferArrayDynamicIndexing, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderUniformBufferArrayDynamicIndexing }},
	{core.FeatureShaderSampledImageArrayDynamicIndexing, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderSampledImageArrayDynamicIndexing }},
	{core.FeatureShaderStorageBufferArrayDynamicIndexing, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderStorageBufferArrayDynamicIndexing }},
	{core.FeatureShaderStorageImageArrayDynamicIndexing, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderStorageImageArrayDynamicIndexing }},
	{core.FeatureShaderClipDistance, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderClipDistance }},
	{core.FeatureShaderCullDistance, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderCullDistance }},
	{core.FeatureShaderFloat64, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderFloat64 }},
	{core.FeatureShaderInt64, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderInt64 }},
	{core.FeatureShaderInt16, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderInt16 }},
	{core.FeatureShaderResourceResidency, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderResourceResidency }},
	{core.FeatureShaderResourceMinLod, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.ShaderResourceMinLod }},
	{core.FeatureSparseBinding, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseBinding }},
	{core.FeatureSparseResidencyBuffer, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidencyBuffer }},
	{core.FeatureSparseResidencyImage2D, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidencyImage2D }},
	{core.FeatureSparseResidencyImage3D, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidencyImage3D }},
	{core.FeatureSparseResidency2Samples, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidency2Samples }},
	{core.FeatureSparseResidency4Samples, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidency4Samples }},
	{core.FeatureSparseResidency8Samples, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidency8Samples }},
	{core.FeatureSparseResidency16Samples, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidency16Samples }},
	{core.FeatureSparseResidencyAliased, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.SparseResidencyAliased }},
	{core.FeatureVariableMultisampleRate, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.VariableMultisampleRate }},
	{core.FeatureInheritedQueries, func(f *vk.PhysicalDeviceFeatures) *vk.Bool32 { return &f.InheritedQueries }},
}

// featureSetFromVk collects the enabled flags of a dereferenced native
// feature struct into a set.
func featureSetFromVk(f *vk.PhysicalDeviceFeatures) core.FeatureSet {
	var set core.FeatureSet
	for _, entry := range featureFields {
		if *entry.field(f) == vk.True {
			set = set.With(entry.feature)
		}
	}
	return set
}

// featuresToVk expands a feature set into the native struct passed to
// device creation.
func featuresToVk(set core.FeatureSet) vk.PhysicalDeviceFeatures {
	var f vk.PhysicalDeviceFeatures
	for _, entry := range featureFields {
		if set.Has(entry.feature) {
			*entry.field(&f) = vk.True
		}
	}
	return f
}
