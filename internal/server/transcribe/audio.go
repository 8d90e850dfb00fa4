package transcribe

import (
	"bytes"
	"encoding/binary"
)

// PCM parameters assumed for headerless chunks.
const (
	pcmSampleRate    = 16000
	pcmChannels      = 1
	pcmBitsPerSample = 16
)

// sniffFilename picks an upload name from the container magic so the
// service can decode the chunk. Raw PCM gets wrapped in a WAV header.
func sniffFilename(audio []byte) (string, []byte) {
	switch {
	case len(audio) >= 12 && bytes.Equal(audio[0:4], []byte("RIFF")) && bytes.Equal(audio[8:12], []byte("WAVE")):
		return "audio.wav", audio
	case bytes.HasPrefix(audio, []byte("OggS")):
		return "audio.ogg", audio
	case bytes.HasPrefix(audio, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "audio.webm", audio
	case bytes.HasPrefix(audio, []byte("fLaC")):
		return "audio.flac", audio
	case bytes.HasPrefix(audio, []byte("ID3")), len(audio) >= 2 && audio[0] == 0xFF && audio[1]&0xE0 == 0xE0:
		return "audio.mp3", audio
	}
	return "audio.wav", wrapPCM(audio)
}

// wrapPCM prepends a 44-byte header for 16kHz 16-bit mono PCM.
func wrapPCM(pcm []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	blockAlign := pcmChannels * pcmBitsPerSample / 8

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(pcmChannels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(pcmSampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(pcmSampleRate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(pcmBitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
