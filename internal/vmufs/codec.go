// Copyright (c) 2025 the vmufuse authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package vmufs

import (
	"encoding/binary"
	"time"
)

func readU16(buf []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(buf[off:])
}

func writeU16(buf []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(buf[off:], v)
}

// bcdToByte decodes one binary-coded-decimal byte (one decimal digit per
// nibble) into its integer value.
func bcdToByte(b byte) byte {
	return (b>>4)*10 + (b & 0x0F)
}

// byteToBCD encodes n, which must be in [0, 99], as a BCD byte.
func byteToBCD(n byte) byte {
	return (n/10)<<4 | n%10
}

func isLeapYear(year int) bool {
	return year%400 == 0 || (year%100 != 0 && year%4 == 0)
}

func daysInMonth(month, year int) int {
	switch month {
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

// Timestamp is the 8-byte BCD creation stamp used by the root block and by
// every directory entry. Fields hold the raw BCD bytes exactly as they appear
// on the image.
type Timestamp struct {
	Century   byte
	Year      byte
	Month     byte
	Day       byte
	Hour      byte
	Minute    byte
	Second    byte
	DayOfWeek byte
}

func decodeTimestamp(buf []byte) Timestamp {
	return Timestamp{
		Century:   buf[0],
		Year:      buf[1],
		Month:     buf[2],
		Day:       buf[3],
		Hour:      buf[4],
		Minute:    buf[5],
		Second:    buf[6],
		DayOfWeek: buf[7],
	}
}

func (ts Timestamp) encode(buf []byte) {
	buf[0] = ts.Century
	buf[1] = ts.Year
	buf[2] = ts.Month
	buf[3] = ts.Day
	buf[4] = ts.Hour
	buf[5] = ts.Minute
	buf[6] = ts.Second
	buf[7] = ts.DayOfWeek
}

// NewTimestamp packs a wall-clock time into BCD form.
func NewTimestamp(t time.Time) Timestamp {
	year := t.Year()
	return Timestamp{
		Century:   byteToBCD(byte(year / 100)),
		Year:      byteToBCD(byte(year % 100)),
		Month:     byteToBCD(byte(t.Month())),
		Day:       byteToBCD(byte(t.Day())),
		Hour:      byteToBCD(byte(t.Hour())),
		Minute:    byteToBCD(byte(t.Minute())),
		Second:    byteToBCD(byte(t.Second())),
		DayOfWeek: byteToBCD(byte(t.Weekday())),
	}
}

// Unix converts the BCD record into seconds since 1970-01-01. Dates before
// the epoch yield 0. The year walk accumulates 365 days plus one per leap
// year; month days are summed for months strictly below the encoded month, so
// a leap-year February contributes its 29th day exactly once.
func (ts Timestamp) Unix() int64 {
	century := int(bcdToByte(ts.Century))
	year := int(bcdToByte(ts.Year))

	if century < 19 || (century == 19 && year < 70) {
		return 0
	}

	fullYear := century*100 + year

	days := 0
	for y := 1970; y < fullYear; y++ {
		days += 365
		if isLeapYear(y) {
			days++
		}
	}

	month := int(bcdToByte(ts.Month))
	for m := 1; m < month; m++ {
		days += daysInMonth(m, fullYear)
	}
	days += int(bcdToByte(ts.Day)) - 1

	hours := int64(days)*24 + int64(bcdToByte(ts.Hour))
	minutes := hours*60 + int64(bcdToByte(ts.Minute))
	return minutes*60 + int64(bcdToByte(ts.Second))
}

// Time returns the creation time as a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Unix(), 0).UTC()
}
