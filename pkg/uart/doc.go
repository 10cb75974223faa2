// Package uart models a clock-driven UART device.
//
// A Device serializes bits queued for transmission into frames
// (one start bit, DataBits data bits most-significant first, StopBits
// stop bits) and pushes them straight into the receive queue of the
// peer it is connected to. The peer reconstructs bytes from its own
// receive queue on its own clock.
//
// Nothing here blocks or runs in the background: a driver calls Step
// and Tick on every device once per simulation step, in an order of its
// choosing that must stay the same from run to run. A Device and its
// queues are not safe for concurrent use; drivers running devices on
// several goroutines must serialize access to each receive queue.
//
// Failures never abort anything. A bad frame resets the receive queue,
// a short transmit queue abandons the frame and a full peer queue drops
// bits silently. All of these are reported through StepResult and Stats.
package uart
