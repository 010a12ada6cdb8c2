// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import "math"

// Magnitude returns the Euclidean length of v.
func Magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// NormalizeVector returns a unit-length copy of v. The zero vector and the
// empty vector come back as zeros of the same length.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))
	magnitude := Magnitude(v)
	if magnitude == 0 {
		return out
	}
	for n, x := range v {
		out[n] = float32(float64(x) / magnitude)
	}
	return out
}
