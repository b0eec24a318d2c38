// SPDX-FileCopyrightText: 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package beat

import "math/rand"

// RandomKey returns a non-zero run key. Publishers stamp it into every beat
// of a run, letting subscribers tell concurrent runs apart.
func RandomKey() uint64 {
	for {
		if k := rand.Uint64(); k != 0 {
			return k
		}
	}
}
