package main

import (
	"net/http"
	"testing"
)

// BenchmarkGenerateItinerary measures one full request with warm place caches.
func BenchmarkGenerateItinerary(b *testing.B) {
	s := newStack(b)
	defer s.close()

	if rec := s.do(b, http.MethodPost, "/api/v1/itineraries/generate", tripBody); rec.Code != http.StatusOK {
		b.Fatalf("warm-up request failed: %d %s", rec.Code, rec.Body.String())
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if rec := s.do(b, http.MethodPost, "/api/v1/itineraries/generate", tripBody); rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

// BenchmarkGenerateItinerary_Parallel exercises the shared cache and aggregator under load.
func BenchmarkGenerateItinerary_Parallel(b *testing.B) {
	s := newStack(b)
	defer s.close()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if rec := s.do(b, http.MethodPost, "/api/v1/itineraries/generate", tripBody); rec.Code != http.StatusOK {
				b.Errorf("unexpected status %d", rec.Code)
			}
		}
	})
}
