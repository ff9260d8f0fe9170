// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdi drives a JTAG header wired to the D-bus of an FTDI device in
// asynchronous bit-bang mode.
//
// Every write drives the whole D-bus at once and TDO is sampled from the
// instantaneous pin state, so the usual FT232R cable (TCK on TXD, TDI on RXD,
// TDO on CTS, TMS on DTR) works without MPSSE.
//
// Use build tag periph_host_ftdi_debug to enable verbose debugging.
//
// # Datasheets
//
// http://www.ftdichip.com/Support/Documents/DataSheets/ICs/DS_FT232R.pdf
//
// https://www.ftdichip.com/Support/Documents/AppNotes/AN_232R-01_Bit_Bang_Mode_Available_For_FT232R_and_Ft245R.pdf
package ftdi
