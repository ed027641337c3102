//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// i2cDevice is one register-addressed device on a shared bus.
type i2cDevice struct {
	bus  *machine.I2C
	addr uint16
	wbuf [2]byte
}

func (d *i2cDevice) readRegs(reg byte, dst []byte) error {
	d.wbuf[0] = reg
	return d.bus.Tx(d.addr, d.wbuf[:1], dst)
}

func (d *i2cDevice) writeReg(reg, val byte) error {
	d.wbuf[0] = reg
	d.wbuf[1] = val
	return d.bus.Tx(d.addr, d.wbuf[:2], nil)
}

// probe reads one register until the device answers. Sensor MCUs can be slow
// to come out of reset, so retry briefly.
func (d *i2cDevice) probe(reg byte) (byte, error) {
	var b [1]byte
	const tries = 50
	var err error
	for i := 0; i < tries; i++ {
		if err = d.readRegs(reg, b[:]); err == nil {
			return b[0], nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return 0, err
}
