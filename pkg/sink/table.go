// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package sink

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/mbeat-io/mbeat-go/pkg/beat"
)

// tableHeader names the columns of the text output, one beat per row.
const tableHeader = "Key,SeqNum,SeqLen,McastAddr,McastPort,SrcTTL,DstTTL," +
	"PubIf,PubHost,SubIf,SubHost,TimeDepSys,TimeDepMono,TimeArrSys,TimeArrMono"

type tableSink struct {
	w   io.Writer
	buf *bufio.Writer
}

// NewTable creates the text sink and writes the column header, so even an
// output that never sees a beat documents its own format.
func NewTable(w io.Writer, unbuffered bool) (Sink, error) {
	s := &tableSink{}
	s.w, s.buf = wrap(w, unbuffered)

	if _, err := fmt.Fprintln(s.w, tableHeader); err != nil {
		return nil, fmt.Errorf("writing table header: %w", err)
	}
	return s, nil
}

func (s *tableSink) Emit(a *beat.Arrival) error {
	dstTTL := "N/A"
	if a.HasTTL {
		dstTTL = strconv.Itoa(int(a.TTL))
	}

	_, err := fmt.Fprintf(s.w, "%d,%d,%d,%s,%d,%d,%s,%s,%s,%s,%s,%d,%d,%d,%d\n",
		a.Payload.Key, a.Payload.SeqNum, a.Payload.SeqLen,
		a.Payload.Group, a.Payload.Port, a.Payload.TTL, dstTTL,
		a.Payload.Iface, a.Payload.Hostname, a.Iface, a.Hostname,
		a.Payload.SysTime, a.Payload.MonoTime, a.SysTime, a.MonoTime)
	return err
}

func (s *tableSink) Flush() error {
	if s.buf == nil {
		return nil
	}
	return s.buf.Flush()
}
