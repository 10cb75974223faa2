package uart

// Connect wires a's transmit line to b's receive queue and b's transmit
// line to a's receive queue. The wire holds nothing: a bit sent is in the
// peer's receive queue right away.
//
// Previous peers of a and b are detached first so no device is left
// pointing at a queue it is no longer wired to. Connecting a device to
// itself makes a loopback.
func Connect(a, b *Device) {
	if a.peer == b && b.peer == a {
		return
	}
	detach(a)
	detach(b)
	a.peer, b.peer = b, a
}

// Disconnect detaches d and its peer from each other.
func Disconnect(d *Device) {
	detach(d)
}

func detach(d *Device) {
	if p := d.peer; p != nil {
		if p.peer == d {
			p.peer = nil
		}
		d.peer = nil
	}
}
