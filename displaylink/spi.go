// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package displaylink

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPI sends frames over a hardware SPI port. The controller drives CS for
// the duration of each transaction.
type SPI struct {
	conn spi.Conn
}

// NewSPI connects to p. The MAX7219 works in Mode0, Mode2 and Mode3 at up
// to 10MHz.
func NewSPI(p spi.Port) (*SPI, error) {
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("displaylink: %w", err)
	}
	return &SPI{conn: c}, nil
}

// WriteRegister implements Link.
func (s *SPI) WriteRegister(addr, value byte) error {
	if err := s.conn.Tx([]byte{addr, value}, nil); err != nil {
		return fmt.Errorf("displaylink: write 0x%02x: %w", addr, err)
	}
	return nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("SPI{%s}", s.conn)
}

var _ Link = &SPI{}
