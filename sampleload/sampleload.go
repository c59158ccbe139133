// This file is part of Gopher500.
//
// Gopher500 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher500 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher500.  If not, see <https://www.gnu.org/licenses/>.

// Package sampleload decodes WAV and MP3 files into signed 8-bit sample data
// suitable for playback with audio DMA. Files can be inside an archive, see
// the archivefs package.
//
// Only the left channel of a stereo file is used.
package sampleload

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopher500/gopher500/archivefs"
	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/logger"
	"github.com/hajimehoshi/go-mp3"
)

// Sentinal errors.
const (
	UnsupportedFormat = "sampleload: unsupported file type (%s)"
	DecodeError       = "sampleload: %s: %v"
	EmptySample       = "sampleload: no sample data"
	AddressError      = "sampleload: address %06x is outside chip RAM"
	ChannelError      = "sampleload: no audio channel %d"
)

const logTag = "sampleload"

// MaxLength is the largest sample that can be played in one block. AUDxLEN is
// a count of words.
const MaxLength = 0xffff * 2

// audio clock. the period register counts in units of this clock
const audioClock = clocks.MasterFrequency / 8

// Sample is decoded audio data.
type Sample struct {
	// signed 8-bit sample values. always an even number of values
	Data []int8

	// sample rate of the source file
	SampleRate float64
}

// Load the file and decode according to the file extension. Supported
// extensions are .wav and .mp3.
func Load(filename string) (*Sample, error) {
	r, _, err := archivefs.Open(filename)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	var pcm []float32
	var rate float64

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".wav":
		pcm, rate, err = decodeWAV(r)
	case ".mp3":
		pcm, rate, err = decodeMP3(r)
	default:
		return nil, curated.Errorf(UnsupportedFormat, ext)
	}
	if err != nil {
		return nil, curated.Errorf(DecodeError, ext[1:], err)
	}

	s := fromPCM(pcm, rate)
	if len(s.Data) == 0 {
		return nil, curated.Errorf(EmptySample)
	}

	logger.Logf(logger.Allow, logTag, "sample rate: %0.2fHz", s.SampleRate)
	logger.Logf(logger.Allow, logTag, "total time: %.02fs", float64(len(s.Data))/s.SampleRate)

	return s, nil
}

func decodeWAV(r io.ReadSeeker) ([]float32, float64, error) {
	dec := wav.NewDecoder(r)
	if dec == nil {
		return nil, 0, fmt.Errorf("error decoding")
	}

	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}

	logger.Log(logger.Allow, logTag, "loading from wav file")

	// load all data at once
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}

	return mono(buf, int(dec.BitDepth)), float64(dec.SampleRate), nil
}

// mono takes the first channel of the buffer and scales the values to the
// range -1.0 to 1.0
func mono(buf *audio.IntBuffer, bitDepth int) []float32 {
	chans := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		chans = buf.Format.NumChannels
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}

	scale := float32(int(1) << (bitDepth - 1))

	// 8-bit wav data is unsigned
	var offset float32
	if bitDepth == 8 {
		offset = scale
	}

	data := make([]float32, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		data = append(data, (float32(buf.Data[i])-offset)/scale)
	}
	return data
}

func decodeMP3(r io.Reader) ([]float32, float64, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, err
	}

	logger.Log(logger.Allow, logTag, "loading from mp3 file")

	// the stream is always formatted as 16bit little endian with two
	// channels, so a sample always consists of 4 bytes. the left channel is
	// the first two bytes
	var data []float32
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 4 {
			v := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			data = append(data, float32(v)/32768)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
	}

	return data, float64(dec.SampleRate()), nil
}

// fromPCM converts floating point PCM data to signed 8-bit values. the data
// is truncated to MaxLength and padded to a whole number of words
func fromPCM(pcm []float32, rate float64) *Sample {
	if len(pcm) > MaxLength {
		logger.Logf(logger.Allow, logTag, "sample truncated to %d bytes", MaxLength)
		pcm = pcm[:MaxLength]
	}

	s := &Sample{
		Data:       make([]int8, 0, len(pcm)+1),
		SampleRate: rate,
	}
	for _, v := range pcm {
		s.Data = append(s.Data, toInt8(v))
	}
	if len(s.Data)%2 != 0 {
		s.Data = append(s.Data, 0)
	}

	return s
}

func toInt8(v float32) int8 {
	v = float32(math.Round(float64(v * 127)))
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}

// Length returns the length of the sample in words, as written to AUDxLEN.
func (s *Sample) Length() uint16 {
	return uint16(len(s.Data) / 2)
}

// Period returns the value for AUDxPER that plays the sample at its natural
// rate. The value is clamped to the range accepted by the hardware.
func (s *Sample) Period() uint16 {
	if s.SampleRate <= 0 {
		return 0xffff
	}
	p := math.Round(audioClock / s.SampleRate)
	if p < 1 {
		return 1
	}
	if p > 0xffff {
		return 0xffff
	}
	return uint16(p)
}

// Install the sample in chip RAM at the address. The address must be word
// aligned and the sample must fit in chip RAM.
func (s *Sample) Install(ram *memory.ChipRAM, address uint32) error {
	address &^= 1
	if address+uint32(len(s.Data)) > memory.ChipRAMSize {
		return curated.Errorf(AddressError, address)
	}

	data := make([]uint8, len(s.Data))
	for i, v := range s.Data {
		data[i] = uint8(v)
	}
	return ram.LoadData(address, data)
}

// MaxVolume is the loudest value for AUDxVOL.
const MaxVolume = 64

// Start playback of a sample previously installed at the address. The audio
// registers of the channel are written and audio DMA is enabled for the
// channel. The sample repeats until DMA is disabled.
func (s *Sample) Start(regs *memory.Table, channel int, address uint32, volume uint16) error {
	if channel < 0 || channel > 3 {
		return curated.Errorf(ChannelError, channel)
	}
	if volume > MaxVolume {
		volume = MaxVolume
	}

	address &^= 1
	base := memory.CustomBase + 0x0a0 + uint32(channel)*0x10
	regs.PokeCustom16(base, uint16(address>>16))
	regs.PokeCustom16(base+0x02, uint16(address))
	regs.PokeCustom16(base+0x04, s.Length())
	regs.PokeCustom16(base+0x06, s.Period())
	regs.PokeCustom16(base+0x08, volume)

	// DMACON set bit, master enable and the channel enable
	regs.PokeCustom16(memory.CustomBase+0x096, 0x8200|(1<<channel))

	logger.Logf(logger.Allow, logTag, "channel %d: %d words, period %d", channel, s.Length(), s.Period())

	return nil
}
