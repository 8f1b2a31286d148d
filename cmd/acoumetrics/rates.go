package main

import (
	"fmt"

	"github.com/cwbudde/algo-acoustics/dsp/filter/weighting"
)

// RatesCmd lists the supported sample rates.
type RatesCmd struct{}

func (c *RatesCmd) Run() error {
	for _, rate := range weighting.SupportedRates() {
		fmt.Printf("%d Hz\n", rate)
	}

	return nil
}
