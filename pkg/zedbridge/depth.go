package zedbridge

// DepthRange is the near/far clipping window applied before colorization, in
// millimeters. The rig works at very close quarters, so the default window
// is 20-50 cm.
type DepthRange struct {
	NearMM uint16
	FarMM  uint16
}

// SurgicalRange is the default depth window for close-up manipulation.
var SurgicalRange = DepthRange{NearMM: 200, FarMM: 500}

// colorizeDepth maps a millimeter depth frame to a BGR24 jet-colored frame.
// Depths outside (near, far) and invalid readings (zero) render black;
// valid depths clamp into the window and map near=blue-end, far=red-end of
// the jet ramp.
func colorizeDepth(depth []uint16, rng DepthRange) []byte {
	dst := make([]byte, len(depth)*3)
	span := int(rng.FarMM) - int(rng.NearMM)
	if span <= 0 {
		return dst
	}
	for i, d := range depth {
		if d == 0 || d <= rng.NearMM || d >= rng.FarMM {
			continue // stays black
		}
		v := (int(d) - int(rng.NearMM)) * 255 / span
		b, g, r := jet(v)
		dst[i*3] = b
		dst[i*3+1] = g
		dst[i*3+2] = r
	}
	return dst
}

// jet maps an intensity 0-255 onto the jet colormap ramp.
func jet(v int) (b, g, r byte) {
	t := float64(v) / 255.0
	r = rampByte(1.5 - abs(4*t-3))
	g = rampByte(1.5 - abs(4*t-2))
	b = rampByte(1.5 - abs(4*t-1))
	return b, g, r
}

func rampByte(v float64) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v * 255)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
