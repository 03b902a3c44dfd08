package speech

import (
	"bytes"
	"encoding/binary"
)

// encodeWAV wraps 16-bit mono PCM samples in a RIFF/WAVE container.
// Only the stub backend needs this; the hosted backend returns ready WAV
// payloads.
func encodeWAV(samples []int16, sampleRate int) []byte {
	dataLen := len(samples) * 2
	var b bytes.Buffer

	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(&b, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&b, binary.LittleEndian, uint16(16))           // bits per sample

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	binary.Write(&b, binary.LittleEndian, samples)

	return b.Bytes()
}
