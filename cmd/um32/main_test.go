package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeImage(t *testing.T, words ...uint32) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(buf[i*4:], w)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestRunHaltExitsZero(t *testing.T) {
	path := writeImage(t, 0x70000000)
	fp, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer fp.Close()
	code := run([]string{path}, os.Stdin, os.Stdout)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestRunWrongArgCountPrintsUsageOnStdout(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	code := run([]string{}, os.Stdin, w)
	w.Close()
	if code != exitUsage {
		t.Fatalf("exit code = %d, want %d", code, exitUsage)
	}
	var buf bytes.Buffer
	buf.ReadFrom(r)
	if !strings.Contains(buf.String(), "usage") {
		t.Fatalf("stdout = %q, want it to mention usage", buf.String())
	}
}

func TestRunMissingFileExitsLoadError(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	code := run([]string{filepath.Join(t.TempDir(), "does-not-exist.bin")}, os.Stdin, w)
	w.Close()
	if code != exitLoad {
		t.Fatalf("exit code = %d, want %d", code, exitLoad)
	}
	var buf bytes.Buffer
	buf.ReadFrom(r)
	_ = buf
}

func TestRunFaultExitsNonZero(t *testing.T) {
	// LOAD_IMMEDIATE R1<-10, R2<-0, DIVISION R3<-R1/R2: divide by zero.
	path := writeImage(t, 0xD200000A, 0xD4000000, 0x500000CA)
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	code := run([]string{path}, os.Stdin, w)
	w.Close()
	if code != exitFault {
		t.Fatalf("exit code = %d, want %d", code, exitFault)
	}
	var buf bytes.Buffer
	buf.ReadFrom(r)
}
