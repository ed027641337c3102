//go:build tinygo && baremetal

package main

import (
	"gforce/app"
	"gforce/config"
	"gforce/hal"
)

func main() {
	h, err := hal.New()
	if err != nil {
		app.Fatal(h, err)
	}
	app.Run(h, config.Device())
}
