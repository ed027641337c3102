//go:build tinygo && baremetal

package hal

import "machine"

const (
	cst820Addr uint16 = 0x15

	cst820RegFingers byte = 0x02
	cst820RegChipID  byte = 0xA7
	cst820RegAutoSlp byte = 0xFE
)

// cst820 is a single-touch capacitive controller. Coordinates are 12 bits,
// split across a high nibble and a low byte.
type cst820 struct {
	dev  i2cDevice
	read [5]byte
}

func initCST820(bus *machine.I2C) (*cst820, error) {
	t := &cst820{dev: i2cDevice{bus: bus, addr: cst820Addr}}
	if _, err := t.dev.probe(cst820RegChipID); err != nil {
		return nil, err
	}
	// Keep the controller awake; auto-sleep drops the first touch.
	if err := t.dev.writeReg(cst820RegAutoSlp, 0x01); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *cst820) ReadTouch() (TouchReport, error) {
	if err := t.dev.readRegs(cst820RegFingers, t.read[:]); err != nil {
		return TouchReport{}, err
	}
	r := TouchReport{Points: t.read[0] & 0x0F}
	if r.Points == 0 {
		return r, nil
	}
	r.X = uint16(t.read[1]&0x0F)<<8 | uint16(t.read[2])
	r.Y = uint16(t.read[3]&0x0F)<<8 | uint16(t.read[4])
	return r, nil
}
