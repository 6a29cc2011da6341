// Package tap records the client's protocol traffic.
//
// Wrap decorates the GUI-facing line.Conn so every line read from the GUI
// and every line written to it is handed to a Recorder. FileSink is the
// Recorder used by the client: it queues entries without blocking and a
// background worker appends them to the traffic log file. A slow or failing
// log never delays or breaks the relay.
package tap
