package watermark

import "fmt"

func ExampleEncode() {
	samples := make([]float32, 16000) // one second of mono PCM at 16 kHz
	out, err := Encode(samples, 16000, []byte("hi"), 32, 50)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(out))
	// Output: 16000
}

func ExampleEncode_insufficientCapacity() {
	samples := make([]float32, 8000)
	_, err := Encode(samples, 8000, []byte("helloword"), 20, 50)
	fmt.Println(err)
	// Output: watermark: usable spectrum bins cannot carry the requested message (usable_bins=81, total_bits=96)
}

func ExampleDecode() {
	samples := deterministicNoise(16000, 42)
	watermarked, err := Encode(samples, 16000, []byte("hi"), 32, 50)
	if err != nil {
		fmt.Println(err)
		return
	}

	msg, _, err := Decode(watermarked, 16000)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(msg))
	// Output: hi
}
