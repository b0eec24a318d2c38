// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package sink

import (
	"bufio"
	"io"

	"github.com/mbeat-io/mbeat-go/pkg/beat"
)

// Sink consumes the beats a subscriber accepts. Emit records one arrival;
// Flush pushes everything buffered so far to the destination and must be
// called before the process exits.
type Sink interface {
	Emit(a *beat.Arrival) error
	Flush() error
}

// wrap puts a buffer between the sink and its destination unless the caller
// asked for unbuffered output. The returned flusher is nil in the
// unbuffered case.
func wrap(w io.Writer, unbuffered bool) (io.Writer, *bufio.Writer) {
	if unbuffered {
		return w, nil
	}

	bw := bufio.NewWriter(w)
	return bw, bw
}
