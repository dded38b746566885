package speech

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := make([]byte, 48000) // one second of 24 kHz mono 16-bit audio

	wav := EncodeWAV(pcm, 24000, 1)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("Expected %d bytes, got %d", 44+len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("Missing RIFF/WAVE markers")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Fatal("Missing fmt/data chunks")
	}

	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", rate)
	}
	if channels := binary.LittleEndian.Uint16(wav[22:24]); channels != 1 {
		t.Errorf("Expected 1 channel, got %d", channels)
	}
	if bits := binary.LittleEndian.Uint16(wav[34:36]); bits != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", bits)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); size != uint32(len(pcm)) {
		t.Errorf("Expected data size %d, got %d", len(pcm), size)
	}
	if byteRate := binary.LittleEndian.Uint32(wav[28:32]); byteRate != 48000 {
		t.Errorf("Expected byte rate 48000, got %d", byteRate)
	}
}

func TestEncodeWAVDefaults(t *testing.T) {
	wav := EncodeWAV([]byte{0, 0}, 0, 0)

	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 24000 {
		t.Errorf("Expected default sample rate 24000, got %d", rate)
	}
	if channels := binary.LittleEndian.Uint16(wav[22:24]); channels != 1 {
		t.Errorf("Expected default mono, got %d channels", channels)
	}
}
