//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	panel  *ili9488
	touch  *cst820
	imu    *qmi8658
	bat    *adcBattery
	rtc    *pcf85063
}

// New returns the HAL for a Pico-class board with an ILI9488 SPI panel and
// a shared I2C sensor bus (CST820 touch, QMI8658 IMU, PCF85063 RTC).
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// I2C:  I2C0 on GP4 (SDA) / GP5 (SCL), 400 kHz.
// ADC:  GP26, battery behind a 3:1 divider.
//
// A peripheral that does not answer its probe is an initialization error;
// the returned HAL is still usable for the fatal screen when the panel came up.
func New() (HAL, error) {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	h := &tinyGoHAL{logger: &uartLogger{uart: uart}}

	panel, err := initILI9488()
	if err != nil {
		return h, fmt.Errorf("panel: %w", err)
	}
	h.panel = panel

	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{
		SDA:       machine.GP4,
		SCL:       machine.GP5,
		Frequency: 400_000,
	}); err != nil {
		return h, fmt.Errorf("i2c: %w", err)
	}

	if h.touch, err = initCST820(bus); err != nil {
		return h, fmt.Errorf("touch: %w", err)
	}
	if h.imu, err = initQMI8658(bus); err != nil {
		return h, fmt.Errorf("imu: %w", err)
	}
	if h.rtc, err = initPCF85063(bus); err != nil {
		return h, fmt.Errorf("rtc: %w", err)
	}
	h.bat = initADCBattery(machine.ADC{Pin: machine.GP26})
	return h, nil
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }

func (h *tinyGoHAL) Panel() Panel {
	if h.panel == nil {
		return nil
	}
	return h.panel
}

func (h *tinyGoHAL) Touch() Touch {
	if h.touch == nil {
		return nil
	}
	return h.touch
}

func (h *tinyGoHAL) IMU() IMU {
	if h.imu == nil {
		return nil
	}
	return h.imu
}

func (h *tinyGoHAL) Battery() Battery {
	if h.bat == nil {
		return nil
	}
	return h.bat
}

func (h *tinyGoHAL) Clock() Clock {
	if h.rtc == nil {
		return nil
	}
	return h.rtc
}
