package zedbridge

import (
	"bytes"
	"testing"
)

func TestYUYVToBGR_Gray(t *testing.T) {
	// Y=128 with neutral chroma is mid-gray for both pixels of the pair.
	src := []byte{128, 128, 128, 128}
	got := yuyvToBGR(src, 2, 1)
	want := []byte{128, 128, 128, 128, 128, 128}
	if !bytes.Equal(got, want) {
		t.Errorf("yuyvToBGR(gray) = %v, want %v", got, want)
	}
}

func TestYUYVToBGR_BlackWhite(t *testing.T) {
	src := []byte{0, 128, 255, 128}
	got := yuyvToBGR(src, 2, 1)
	want := []byte{0, 0, 0, 255, 255, 255}
	if !bytes.Equal(got, want) {
		t.Errorf("yuyvToBGR(b/w) = %v, want %v", got, want)
	}
}

func TestYUYVToBGR_Length(t *testing.T) {
	src := make([]byte, 2560*720*2)
	got := yuyvToBGR(src, 2560, 720)
	if len(got) != 2560*720*3 {
		t.Fatalf("output length = %d, want %d", len(got), 2560*720*3)
	}
}

func TestSplitSideBySide(t *testing.T) {
	// 4x2 frame: rows of L L R R pixels, each pixel 3 bytes tagged by value.
	const width, height = 4, 2
	frame := make([]byte, width*height*3)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			val := byte(1)
			if col >= width/2 {
				val = 2
			}
			for c := 0; c < 3; c++ {
				frame[(row*width+col)*3+c] = val
			}
		}
	}

	left, right := splitSideBySide(frame, width, height)
	if len(left) != width/2*height*3 || len(right) != width/2*height*3 {
		t.Fatalf("half lengths = %d, %d", len(left), len(right))
	}
	for i, v := range left {
		if v != 1 {
			t.Fatalf("left[%d] = %d, want 1", i, v)
		}
	}
	for i, v := range right {
		if v != 2 {
			t.Fatalf("right[%d] = %d, want 2", i, v)
		}
	}
}
