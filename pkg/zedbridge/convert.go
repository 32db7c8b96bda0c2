package zedbridge

// yuyvToBGR converts a packed YUYV 4:2:2 frame to BGR24. Each 4-byte group
// carries two pixels sharing one chroma pair.
func yuyvToBGR(src []byte, width, height int) []byte {
	dst := make([]byte, width*height*3)
	di := 0
	for si := 0; si+3 < len(src); si += 4 {
		y0 := int(src[si])
		u := int(src[si+1]) - 128
		y1 := int(src[si+2])
		v := int(src[si+3]) - 128

		for _, y := range []int{y0, y1} {
			r := y + (351*v)/256
			g := y - (179*v+86*u)/256
			b := y + (443*u)/256
			dst[di] = clampByte(b)
			dst[di+1] = clampByte(g)
			dst[di+2] = clampByte(r)
			di += 3
		}
	}
	return dst
}

// splitSideBySide splits a BGR24 frame into its left and right halves.
func splitSideBySide(bgr []byte, width, height int) (left, right []byte) {
	half := width / 2
	rowBytes := width * 3
	halfBytes := half * 3
	left = make([]byte, halfBytes*height)
	right = make([]byte, halfBytes*height)
	for row := 0; row < height; row++ {
		src := bgr[row*rowBytes : (row+1)*rowBytes]
		copy(left[row*halfBytes:], src[:halfBytes])
		copy(right[row*halfBytes:], src[halfBytes:])
	}
	return left, right
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
