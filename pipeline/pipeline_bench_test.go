package pipeline

import (
	"math"
	"testing"
)

func BenchmarkProcess(b *testing.B) {
	p, err := New()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for i := range b.N {
		v := 5 + 0.1*math.Sin(float64(i)*0.1)
		if _, err := p.Process(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	const n = 4096

	block := make([]float64, n)
	for i := range block {
		block[i] = 5 + 0.1*math.Sin(float64(i)*0.05)
	}

	p, err := New()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(n * 8)
	b.ResetTimer()

	for range b.N {
		if _, err := p.ProcessBlock(block); err != nil {
			b.Fatal(err)
		}
	}
}
