//go:build tinygo && baremetal

package hal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"machine"
	"time"
)

const (
	qmi8658Addr uint16 = 0x6B

	qmi8658RegWhoAmI byte = 0x00
	qmi8658RegCtrl1  byte = 0x02
	qmi8658RegCtrl2  byte = 0x03
	qmi8658RegCtrl7  byte = 0x08
	qmi8658RegAx     byte = 0x35

	qmi8658ID = 0x05

	// ±4 g full scale.
	qmi8658LSBPerG = 8192.0
	standardG      = 9.81
)

type qmi8658 struct {
	dev  i2cDevice
	read [6]byte
}

func initQMI8658(bus *machine.I2C) (*qmi8658, error) {
	m := &qmi8658{dev: i2cDevice{bus: bus, addr: qmi8658Addr}}
	id, err := m.dev.probe(qmi8658RegWhoAmI)
	if err != nil {
		return nil, err
	}
	if id != qmi8658ID {
		return nil, fmt.Errorf("qmi8658: unexpected id 0x%02x", id)
	}
	// Address auto-increment, ±4 g at 250 Hz, accelerometer only.
	for _, w := range [][2]byte{
		{qmi8658RegCtrl1, 0x40},
		{qmi8658RegCtrl2, 0x15},
		{qmi8658RegCtrl7, 0x01},
	} {
		if err := m.dev.writeReg(w[0], w[1]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *qmi8658) ReadMotion() (Motion, error) {
	if err := m.dev.readRegs(qmi8658RegAx, m.read[:]); err != nil {
		return Motion{}, err
	}
	conv := func(b []byte) float64 {
		return float64(int16(binary.LittleEndian.Uint16(b))) / qmi8658LSBPerG * standardG
	}
	return Motion{
		X: conv(m.read[0:2]),
		Y: conv(m.read[2:4]),
		Z: conv(m.read[4:6]),
	}, nil
}

const (
	pcf85063Addr uint16 = 0x51

	pcf85063RegCtrl1   byte = 0x00
	pcf85063RegSeconds byte = 0x04
)

var errClockStopped = errors.New("pcf85063: oscillator stopped")

type pcf85063 struct {
	dev  i2cDevice
	read [7]byte
}

func initPCF85063(bus *machine.I2C) (*pcf85063, error) {
	r := &pcf85063{dev: i2cDevice{bus: bus, addr: pcf85063Addr}}
	if _, err := r.dev.probe(pcf85063RegCtrl1); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *pcf85063) Now() (time.Time, error) {
	if err := r.dev.readRegs(pcf85063RegSeconds, r.read[:]); err != nil {
		return time.Time{}, err
	}
	// Bit 7 of the seconds register flags an oscillator stop.
	if r.read[0]&0x80 != 0 {
		return time.Time{}, errClockStopped
	}
	bcd := func(b byte) int { return int(b>>4)*10 + int(b&0x0F) }
	return time.Date(
		2000+bcd(r.read[6]),
		time.Month(bcd(r.read[5]&0x1F)),
		bcd(r.read[3]&0x3F),
		bcd(r.read[2]&0x3F),
		bcd(r.read[1]&0x7F),
		bcd(r.read[0]&0x7F),
		0, time.UTC,
	), nil
}

type adcBattery struct {
	adc machine.ADC
}

func initADCBattery(adc machine.ADC) *adcBattery {
	machine.InitADC()
	adc.Configure(machine.ADCConfig{})
	return &adcBattery{adc: adc}
}

func (b *adcBattery) ReadVoltage() (float64, error) {
	const (
		vref    = 3.3
		divider = 3.0
	)
	return float64(b.adc.Get()) / 0xFFFF * vref * divider, nil
}
