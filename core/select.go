package core

// PreferenceKind discriminates device selection preferences.
type PreferenceKind int

// Preference kinds.
const (
	PreferNone PreferenceKind = iota
	PreferIndex
	PreferDiscrete
	PreferIntegrated
)

// DevicePreference biases physical device selection. The zero value
// expresses no preference. A preference is only a bias: when no
// candidate matches it, selection falls back to the first suitable
// device in enumeration order.
type DevicePreference struct {
	kind  PreferenceKind
	index uint32
}

// ChooseDevice prefers the candidate at the given enumeration index.
func ChooseDevice(index uint32) DevicePreference {
	return DevicePreference{kind: PreferIndex, index: index}
}

// PreferDiscreteGPU prefers the first suitable discrete GPU.
func PreferDiscreteGPU() DevicePreference {
	return DevicePreference{kind: PreferDiscrete}
}

// PreferIntegratedGPU prefers the first suitable integrated GPU.
func PreferIntegratedGPU() DevicePreference {
	return DevicePreference{kind: PreferIntegrated}
}

// deviceSelector filters and ranks physical device candidates against
// the build requirements. Ties are broken purely by enumeration order.
type deviceSelector struct {
	drv              Querier
	requiredFeatures FeatureSet
	requiredExts     []ExtensionKind
	surface          Handle
	needsGraphics    bool
	preference       DevicePreference
}

// selectPhysicalDevice validates the preferred candidate first, then
// scans all candidates in enumeration order for the first one passing
// the full suitability predicate.
func (s *deviceSelector) selectPhysicalDevice(candidates []Handle) (Handle, error) {
	switch s.preference.kind {
	case PreferIndex:
		if idx := int(s.preference.index); idx < len(candidates) {
			ok, err := s.isSuitable(candidates[idx])
			if err != nil {
				return nil, err
			}
			if ok {
				return candidates[idx], nil
			}
		}
	case PreferDiscrete:
		if pd, err := s.firstSuitableOfType(candidates, DeviceTypeDiscreteGPU); err != nil || pd != nil {
			return pd, err
		}
	case PreferIntegrated:
		if pd, err := s.firstSuitableOfType(candidates, DeviceTypeIntegratedGPU); err != nil || pd != nil {
			return pd, err
		}
	}

	// No preference, or the preference matched nothing usable.
	for _, pd := range candidates {
		ok, err := s.isSuitable(pd)
		if err != nil {
			return nil, err
		}
		if ok {
			return pd, nil
		}
	}

	return nil, ErrNoSuitableDevice
}

func (s *deviceSelector) firstSuitableOfType(candidates []Handle, devType DeviceType) (Handle, error) {
	for _, pd := range candidates {
		props, err := s.drv.DeviceProperties(pd)
		if err != nil {
			return nil, err
		}
		if props.Type != devType {
			continue
		}
		ok, err := s.isSuitable(pd)
		if err != nil {
			return nil, err
		}
		if ok {
			return pd, nil
		}
	}
	return nil, nil
}

// isSuitable checks the full required predicate set: feature subset,
// extension subset, a graphics-capable family when graphics is
// mandatory and a present-capable family when a surface was supplied.
// Optional requests never reject a candidate.
func (s *deviceSelector) isSuitable(pd Handle) (bool, error) {
	if !s.requiredFeatures.Empty() {
		available, err := s.drv.DeviceFeatures(pd)
		if err != nil {
			return false, err
		}
		if !available.Contains(s.requiredFeatures) {
			return false, nil
		}
	}

	if len(s.requiredExts) > 0 {
		available, err := s.drv.DeviceExtensions(pd)
		if err != nil {
			return false, err
		}
		for _, kind := range s.requiredExts {
			if !containsName(available, kind.Name()) {
				return false, nil
			}
		}
	}

	families, err := s.drv.QueueFamilies(pd)
	if err != nil {
		return false, err
	}

	if s.needsGraphics && !findGraphicsFamily(families).ok {
		return false, nil
	}

	if s.surface != nil {
		ref, err := findPresentFamily(families, func(f uint32) (bool, error) {
			return s.drv.SupportsPresent(pd, f, s.surface)
		})
		if err != nil {
			return false, err
		}
		if !ref.ok {
			return false, nil
		}
	}

	return true, nil
}
