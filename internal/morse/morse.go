// internal/morse/morse.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package morse implements the Morse encoder of spec §4.D: mapping a
// station identifier into a fixed-length on/off audio-chunk pattern,
// one chunk per 100ms of 1kHz tone or silence.
package morse

import "fmt"

// NumChunks is the fixed audio-chunk vector length every navaid's
// Morse pattern must fit inside (spec §3, §8 "never addresses past
// index 109").
const NumChunks = 110

// table maps '0'-'9' and 'A'-'Z' to dot/dash strings, '1' = dot, '0' =
// dash.
var table = [...]string{
	"00000", "10000", "11000", "11100", "11110", // 0-4
	"11111", "01111", "00111", "00011", "00001", // 5-9
	"10", "0111", "0101", "011", "1", "1101", "001", "1111", "11", "1000", // A-J
	"010", "1011", "00", "01", "000", "1001", "0010", "101", "111", "0", // K-T
	"110", "1110", "100", "0110", "0100", "0011", // U-Z
}

func codeFor(c byte) (string, bool) {
	switch {
	case c >= '0' && c <= '9':
		return table[c-'0'], true
	case c >= 'A' && c <= 'Z':
		return table[c-'A'+10], true
	default:
		return "", false
	}
}

// Encode builds the 110-entry on/off chunk vector for id (only the
// first 5 characters are used, per spec §3's "identifier (<=5
// significant chars)"). '1' in the code table is a dot (one on-chunk),
// '0' is a dash (three on-chunks); symbols within a letter are
// separated by one off-chunk, letters by two off-chunks.
func Encode(id string) ([NumChunks]bool, error) {
	var chunks [NumChunks]bool
	j := 0

	n := len(id)
	if n > 5 {
		n = 5
	}
	for i := 0; i < n; i++ {
		code, ok := codeFor(id[i])
		if !ok {
			continue
		}
		for k := 0; k < len(code); k++ {
			if code[k] == '0' {
				for rep := 0; rep < 3; rep++ {
					if j >= NumChunks {
						return chunks, fmt.Errorf("morse: id %q overflows %d-chunk buffer", id, NumChunks)
					}
					chunks[j] = true
					j++
				}
			} else {
				if j >= NumChunks {
					return chunks, fmt.Errorf("morse: id %q overflows %d-chunk buffer", id, NumChunks)
				}
				chunks[j] = true
				j++
			}
			j++ // inter-symbol gap
		}
		j += 2 // inter-letter gap
	}
	return chunks, nil
}
