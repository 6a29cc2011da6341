// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tap

import (
	"time"

	"github.com/MKhiriev/uci-relay/internal/line"
)

// Direction marks which way a line travelled.
type Direction string

const (
	// ToServer is a line sent by the GUI.
	ToServer Direction = ">>"
	// ToGUI is a line sent to the GUI.
	ToGUI Direction = "<<"
)

// Entry is one recorded line.
type Entry struct {
	Time time.Time
	Dir  Direction
	Line string
}

// Recorder receives entries. Record must not block.
type Recorder interface {
	Record(e Entry)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(e Entry)

// Record calls f.
func (f RecorderFunc) Record(e Entry) { f(e) }

type tappedConn struct {
	line.Conn
	rec Recorder
	now func() time.Time
}

// Wrap returns conn with its traffic reported to rec. Lines read are
// recorded as ToServer once the read succeeds. Lines written are recorded
// as ToGUI before the write is attempted.
func Wrap(conn line.Conn, rec Recorder) line.Conn {
	return &tappedConn{Conn: conn, rec: rec, now: time.Now}
}

func (c *tappedConn) ReadLine() (string, error) {
	l, err := c.Conn.ReadLine()
	if err == nil {
		c.rec.Record(Entry{Time: c.now(), Dir: ToServer, Line: l})
	}
	return l, err
}

func (c *tappedConn) WriteLine(l string) error {
	c.rec.Record(Entry{Time: c.now(), Dir: ToGUI, Line: l})
	return c.Conn.WriteLine(l)
}
